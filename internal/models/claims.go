package models

import "github.com/golang-jwt/jwt/v5"

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// Application permissions
const (
	PermissionWalletRead       = "wallet:read"
	PermissionWalletWrite      = "wallet:write"
	PermissionTransactionRead  = "transaction:read"
	PermissionTransactionWrite = "transaction:write"

	// Admin permissions
	PermissionReadAdmin    = "admin:read"
	PermissionWriteAdmin   = "admin:write"
	PermissionApproveAdmin = "admin:approve"
)

// UserClaims is the JWT payload issued by the (external) auth service.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID      uint     `json:"user_id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// IsAdmin reports whether the caller acts as an operator.
func (c *UserClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionTransactionRead,
			PermissionTransactionWrite,
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionApproveAdmin,
		}
	case RoleClient:
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionTransactionRead,
			PermissionTransactionWrite,
		}
	default:
		return []string{}
	}
}

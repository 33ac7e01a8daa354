package wallet

import (
	"context"

	"custodia/internal/models"
)

// Service defines the wallet administration operations
type Service interface {
	// Admin pools
	CreateAdminWallet(ctx context.Context, in CreateAdminWalletInput) (*models.AdminWallet, error)
	GetAdminWallet(ctx context.Context, id uint) (*models.AdminWallet, error)
	ListAdminWallets(ctx context.Context) ([]models.AdminWallet, error)

	// Client wallets
	CreateClientWallet(ctx context.Context, in CreateClientWalletInput) (*models.ClientWallet, error)
	GetClientWallet(ctx context.Context, id uint) (*models.ClientWallet, error)
	ListClientWallets(ctx context.Context, clientID uint) ([]models.ClientWallet, error)
}

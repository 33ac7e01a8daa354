package repositories

import (
	"context"
	"errors"

	"custodia/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound       = errors.New("wallet not found")
	ErrDuplicateAdminWallet = errors.New("admin wallet already exists")
	ErrVersionConflict      = errors.New("wallet version changed concurrently")
)

// WalletRepository defines the database operations on admin and client wallets.
type WalletRepository interface {
	// Admin wallets
	CreateAdminWallet(ctx context.Context, wallet *models.AdminWallet) error
	GetAdminWallet(ctx context.Context, id uint) (*models.AdminWallet, error)
	GetAdminWalletBySymbol(ctx context.Context, symbol string) (*models.AdminWallet, error)
	ListAdminWallets(ctx context.Context) ([]models.AdminWallet, error)

	// Client wallets
	CreateClientWallet(ctx context.Context, wallet *models.ClientWallet) error
	GetClientWallet(ctx context.Context, id uint) (*models.ClientWallet, error)
	ListClientWallets(ctx context.Context, clientID uint) ([]models.ClientWallet, error)
	ListClientWalletIDs(ctx context.Context) ([]uint, error)

	// Balance write path, only used inside ExecuteInTransaction.
	LockClientWallet(ctx context.Context, id uint) (*models.ClientWallet, error)
	UpdateClientWalletBalance(ctx context.Context, id uint, amount decimal.Decimal, expectedVersion int64) error
	LockAdminWallet(ctx context.Context, id uint) (*models.AdminWallet, error)
	SumClientWallets(ctx context.Context, adminWalletID uint) (decimal.Decimal, error)
	UpdateAdminWalletBalance(ctx context.Context, id uint, amount decimal.Decimal) error
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"custodia/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{
		db: db,
	}
}

func (r *walletRepository) CreateAdminWallet(ctx context.Context, wallet *models.AdminWallet) error {
	if err := r.db.WithContext(ctx).Create(wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateAdminWallet
		}
		return fmt.Errorf("failed to create admin wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) GetAdminWallet(ctx context.Context, id uint) (*models.AdminWallet, error) {
	var wallet models.AdminWallet
	if err := r.db.WithContext(ctx).First(&wallet, id).Error; err != nil {
		return nil, notFound(err, ErrWalletNotFound, "admin wallet")
	}
	return &wallet, nil
}

func (r *walletRepository) GetAdminWalletBySymbol(ctx context.Context, symbol string) (*models.AdminWallet, error) {
	var wallet models.AdminWallet
	err := r.db.WithContext(ctx).
		Where("abbreviation = ?", models.NormalizeSymbol(symbol)).
		First(&wallet).Error
	if err != nil {
		return nil, notFound(err, ErrWalletNotFound, "admin wallet")
	}
	return &wallet, nil
}

func (r *walletRepository) ListAdminWallets(ctx context.Context) ([]models.AdminWallet, error) {
	var wallets []models.AdminWallet
	if err := r.db.WithContext(ctx).Order("abbreviation ASC").Find(&wallets).Error; err != nil {
		return nil, fmt.Errorf("failed to list admin wallets: %w", err)
	}
	return wallets, nil
}

func (r *walletRepository) CreateClientWallet(ctx context.Context, wallet *models.ClientWallet) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(wallet)
	if result.Error != nil {
		return fmt.Errorf("failed to create client wallet: %w", result.Error)
	}
	return nil
}

func (r *walletRepository) GetClientWallet(ctx context.Context, id uint) (*models.ClientWallet, error) {
	var wallet models.ClientWallet
	if err := r.db.WithContext(ctx).Preload("AdminWallet").First(&wallet, id).Error; err != nil {
		return nil, notFound(err, ErrWalletNotFound, "client wallet")
	}
	return &wallet, nil
}

func (r *walletRepository) ListClientWallets(ctx context.Context, clientID uint) ([]models.ClientWallet, error) {
	var wallets []models.ClientWallet
	err := r.db.WithContext(ctx).
		Preload("AdminWallet").
		Where("client_id = ?", clientID).
		Order("id ASC").
		Find(&wallets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list client wallets: %w", err)
	}
	return wallets, nil
}

func (r *walletRepository) ListClientWalletIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.ClientWallet{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list client wallet ids: %w", err)
	}
	return ids, nil
}

func (r *walletRepository) LockClientWallet(ctx context.Context, id uint) (*models.ClientWallet, error) {
	var wallet models.ClientWallet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&wallet, id).Error
	if err != nil {
		return nil, notFound(err, ErrWalletNotFound, "client wallet")
	}
	return &wallet, nil
}

func (r *walletRepository) UpdateClientWalletBalance(ctx context.Context, id uint, amount decimal.Decimal, expectedVersion int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.ClientWallet{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"amount_in_usd": amount,
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update client wallet balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *walletRepository) LockAdminWallet(ctx context.Context, id uint) (*models.AdminWallet, error) {
	var wallet models.AdminWallet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&wallet, id).Error
	if err != nil {
		return nil, notFound(err, ErrWalletNotFound, "admin wallet")
	}
	return &wallet, nil
}

func (r *walletRepository) SumClientWallets(ctx context.Context, adminWalletID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.ClientWallet{}).
		Select("COALESCE(SUM(amount_in_usd), 0)").
		Where("admin_wallet_id = ?", adminWalletID).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum client wallets: %w", err)
	}
	return total, nil
}

func (r *walletRepository) UpdateAdminWalletBalance(ctx context.Context, id uint, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.AdminWallet{}).
		Where("id = ?", id).
		Update("amount_in_usd", amount)
	if result.Error != nil {
		return fmt.Errorf("failed to update admin wallet balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func notFound(err, sentinel error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

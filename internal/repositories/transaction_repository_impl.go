package repositories

import (
	"context"
	"fmt"
	"time"

	"custodia/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).First(&tx, id).Error; err != nil {
		return nil, notFound(err, ErrTransactionNotFound, "transaction")
	}
	return &tx, nil
}

func (r *transactionRepository) List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Transaction{})
	if filter.ClientWalletID != nil {
		query = query.Where("client_wallet_id = ?", *filter.ClientWalletID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var txs []models.Transaction
	query = query.Order("created_at ASC").Order("id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Find(&txs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, total, nil
}

func (r *transactionRepository) UpdatePendingAmount(ctx context.Context, id uint, raw, rate, amountInUSD decimal.Decimal) error {
	result := r.pending(ctx, id).Updates(map[string]interface{}{
		"raw_amount":    raw,
		"rate_usd":      rate,
		"amount_in_usd": amountInUSD,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction amount: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *transactionRepository) TransitionStatus(ctx context.Context, id uint, to models.TransactionStatus, at time.Time) error {
	result := r.pending(ctx, id).Updates(map[string]interface{}{
		"status":     to,
		"settled_at": at,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to transition transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *transactionRepository) DeletePendingAdminCreated(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ? AND is_admin_created = ?", id, models.StatusPending, true).
		Delete(&models.Transaction{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotDeletable
	}
	return nil
}

func (r *transactionRepository) SumSuccessful(ctx context.Context, clientWalletID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount_in_usd), 0)").
		Where("client_wallet_id = ? AND status = ?", clientWalletID, models.StatusSuccessful).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fold wallet transactions: %w", err)
	}
	return total, nil
}

func (r *transactionRepository) Totals(ctx context.Context, clientWalletID uint) (*WalletTotals, error) {
	var totals WalletTotals
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select(`
			COALESCE(SUM(CASE WHEN status = ? AND type = ? THEN amount_in_usd ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? AND type = ? THEN amount_in_usd ELSE 0 END), 0),
			COUNT(CASE WHEN status = ? THEN 1 END),
			COALESCE(SUM(CASE WHEN status = ? THEN amount_in_usd ELSE 0 END), 0)`,
			models.StatusSuccessful, models.TransactionTypeCredit,
			models.StatusSuccessful, models.TransactionTypeDebit,
			models.StatusPending,
			models.StatusPending,
		).
		Where("client_wallet_id = ?", clientWalletID).
		Row().Scan(&totals.SuccessfulCredits, &totals.SuccessfulDebits, &totals.PendingCount, &totals.PendingUSD)
	if err != nil {
		return nil, fmt.Errorf("failed to total wallet transactions: %w", err)
	}
	return &totals, nil
}

func (r *transactionRepository) pending(ctx context.Context, id uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, models.StatusPending)
}

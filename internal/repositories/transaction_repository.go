package repositories

import (
	"context"
	"errors"
	"time"

	"custodia/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrStatusConflict is returned when a conditional write found no
	// pending row to act on.
	ErrStatusConflict = errors.New("transaction is not pending")
	ErrNotDeletable   = errors.New("transaction is not a pending admin-created entry")
)

// TransactionFilter selects an ordered page of transactions. Zero values
// mean "no filter".
type TransactionFilter struct {
	ClientWalletID *uint
	Status         *models.TransactionStatus
	Limit          int
	Offset         int
}

// WalletTotals aggregates one wallet's ledger for summary views.
type WalletTotals struct {
	SuccessfulCredits decimal.Decimal
	SuccessfulDebits  decimal.Decimal
	PendingCount      int64
	PendingUSD        decimal.Decimal
}

// TransactionRepository defines the database operations on ledger entries.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int64, error)

	// Conditional writes; all of them only match a pending row.
	UpdatePendingAmount(ctx context.Context, id uint, raw, rate, amountInUSD decimal.Decimal) error
	TransitionStatus(ctx context.Context, id uint, to models.TransactionStatus, at time.Time) error
	DeletePendingAdminCreated(ctx context.Context, id uint) error

	// Folds
	SumSuccessful(ctx context.Context, clientWalletID uint) (decimal.Decimal, error)
	Totals(ctx context.Context, clientWalletID uint) (*WalletTotals, error)
}

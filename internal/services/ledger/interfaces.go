package ledger

import (
	"context"

	"custodia/internal/models"
)

// Service defines the ledger and approval operations.
type Service interface {
	// Transactions
	CreateTransaction(ctx context.Context, in CreateTransactionInput) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, id uint, patch TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id uint) error
	GetTransaction(ctx context.Context, id uint) (*models.Transaction, error)

	// Approval shorthands
	ApproveTransaction(ctx context.Context, id uint) (*models.Transaction, error)
	RejectTransaction(ctx context.Context, id uint) (*models.Transaction, error)

	// Listings, ordered by creation time then id
	ListPendingTransactions(ctx context.Context, page Page) (*TransactionPage, error)
	ListByClientWallet(ctx context.Context, clientWalletID uint, page Page) (*TransactionPage, error)

	// Balances
	GetWalletSummary(ctx context.Context, clientWalletID uint) (*WalletSummary, error)
	ReconcileWallet(ctx context.Context, clientWalletID uint) (*ReconcileResult, error)
	ReconcileAll(ctx context.Context) (*ReconcileReport, error)
}

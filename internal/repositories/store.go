package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the ledger repositories so a unit of work can span both.
type Store interface {
	Wallets() WalletRepository
	Transactions() TransactionRepository
	// ExecuteInTransaction runs fn against a Store bound to one database
	// transaction. Returning an error rolls everything back.
	ExecuteInTransaction(ctx context.Context, fn func(Store) error) error
}

type gormStore struct {
	db           *gorm.DB
	wallets      WalletRepository
	transactions TransactionRepository
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{
		db:           db,
		wallets:      NewWalletRepository(db),
		transactions: NewTransactionRepository(db),
	}
}

func (s *gormStore) Wallets() WalletRepository { return s.wallets }

func (s *gormStore) Transactions() TransactionRepository { return s.transactions }

func (s *gormStore) ExecuteInTransaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

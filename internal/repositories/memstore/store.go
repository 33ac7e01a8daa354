// Package memstore is an in-memory repositories.Store. It mirrors the
// conditional-update and locking semantics of the gorm store closely enough
// to exercise the ledger without postgres.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"custodia/internal/models"
	"custodia/internal/repositories"

	"github.com/shopspring/decimal"
)

type database struct {
	mu      sync.Mutex
	nextID  uint
	clock   time.Time
	admins  map[uint]models.AdminWallet
	clients map[uint]models.ClientWallet
	txs     map[uint]models.Transaction

	// Failure injection
	failures map[string]error
}

// Store implements every repository on one shared in-memory database.
// Writes made inside ExecuteInTransaction are rolled back when fn fails.
type Store struct {
	db   *database
	inTx bool
}

var (
	_ repositories.Store                 = (*Store)(nil)
	_ repositories.WalletRepository      = (*Store)(nil)
	_ repositories.TransactionRepository = (*Store)(nil)
)

func New() *Store {
	return &Store{db: &database{
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		admins:   make(map[uint]models.AdminWallet),
		clients:  make(map[uint]models.ClientWallet),
		txs:      make(map[uint]models.Transaction),
		failures: make(map[string]error),
	}}
}

func (s *Store) Wallets() repositories.WalletRepository { return s }

func (s *Store) Transactions() repositories.TransactionRepository { return s }

func (s *Store) ExecuteInTransaction(ctx context.Context, fn func(repositories.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	snapshot := s.db.snapshot()
	if err := fn(&Store{db: s.db, inTx: true}); err != nil {
		s.db.restore(snapshot)
		return err
	}
	return nil
}

// FailOn makes the named repository method return err until cleared with a
// nil err.
func (s *Store) FailOn(method string, err error) {
	unlock := s.lock()
	defer unlock()
	if err == nil {
		delete(s.db.failures, method)
		return
	}
	s.db.failures[method] = err
}

// SetClientWalletBalance overwrites a balance out of band to simulate drift.
func (s *Store) SetClientWalletBalance(id uint, amount decimal.Decimal) {
	unlock := s.lock()
	defer unlock()
	w := s.db.clients[id]
	w.AmountInUSD = amount
	s.db.clients[id] = w
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.db.mu.Lock()
	return s.db.mu.Unlock
}

func (s *Store) fail(method string) error {
	return s.db.failures[method]
}

func (db *database) id() uint {
	db.nextID++
	return db.nextID
}

// tick returns a strictly increasing timestamp so creation order is stable.
func (db *database) tick() time.Time {
	db.clock = db.clock.Add(time.Millisecond)
	return db.clock
}

type snapshot struct {
	nextID  uint
	admins  map[uint]models.AdminWallet
	clients map[uint]models.ClientWallet
	txs     map[uint]models.Transaction
}

func (db *database) snapshot() snapshot {
	snap := snapshot{
		nextID:  db.nextID,
		admins:  make(map[uint]models.AdminWallet, len(db.admins)),
		clients: make(map[uint]models.ClientWallet, len(db.clients)),
		txs:     make(map[uint]models.Transaction, len(db.txs)),
	}
	for k, v := range db.admins {
		snap.admins[k] = v
	}
	for k, v := range db.clients {
		snap.clients[k] = v
	}
	for k, v := range db.txs {
		if v.SettledAt != nil {
			at := *v.SettledAt
			v.SettledAt = &at
		}
		snap.txs[k] = v
	}
	return snap
}

func (db *database) restore(snap snapshot) {
	db.nextID = snap.nextID
	db.admins = snap.admins
	db.clients = snap.clients
	db.txs = snap.txs
}

func sortTransactions(txs []models.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].CreatedAt.Before(txs[j].CreatedAt)
		}
		return txs[i].ID < txs[j].ID
	})
}

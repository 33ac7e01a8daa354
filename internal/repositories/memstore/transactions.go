package memstore

import (
	"context"
	"time"

	"custodia/internal/models"
	"custodia/internal/repositories"

	"github.com/shopspring/decimal"
)

func (s *Store) Create(_ context.Context, tx *models.Transaction) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("Create"); err != nil {
		return err
	}
	if _, ok := s.db.clients[tx.ClientWalletID]; !ok {
		return repositories.ErrWalletNotFound
	}

	tx.ID = s.db.id()
	if tx.Status == "" {
		tx.Status = models.StatusPending
	}
	tx.CreatedAt = s.db.tick()
	tx.UpdatedAt = tx.CreatedAt
	stored := *tx
	stored.ClientWallet = nil
	s.db.txs[tx.ID] = stored
	return nil
}

func (s *Store) GetByID(_ context.Context, id uint) (*models.Transaction, error) {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("GetByID"); err != nil {
		return nil, err
	}
	tx, ok := s.db.txs[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	return &tx, nil
}

func (s *Store) List(_ context.Context, filter repositories.TransactionFilter) ([]models.Transaction, int64, error) {
	unlock := s.lock()
	defer unlock()

	var matched []models.Transaction
	for _, tx := range s.db.txs {
		if filter.ClientWalletID != nil && tx.ClientWalletID != *filter.ClientWalletID {
			continue
		}
		if filter.Status != nil && tx.Status != *filter.Status {
			continue
		}
		matched = append(matched, tx)
	}
	sortTransactions(matched)

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []models.Transaction{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (s *Store) UpdatePendingAmount(_ context.Context, id uint, raw, rate, amountInUSD decimal.Decimal) error {
	unlock := s.lock()
	defer unlock()
	tx, ok := s.db.txs[id]
	if !ok || tx.Status != models.StatusPending {
		return repositories.ErrStatusConflict
	}
	tx.RawAmount = raw
	tx.RateUSD = rate
	tx.AmountInUSD = amountInUSD
	tx.UpdatedAt = s.db.tick()
	s.db.txs[id] = tx
	return nil
}

func (s *Store) TransitionStatus(_ context.Context, id uint, to models.TransactionStatus, at time.Time) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("TransitionStatus"); err != nil {
		return err
	}
	tx, ok := s.db.txs[id]
	if !ok || tx.Status != models.StatusPending {
		return repositories.ErrStatusConflict
	}
	tx.Status = to
	settledAt := at
	tx.SettledAt = &settledAt
	tx.UpdatedAt = s.db.tick()
	s.db.txs[id] = tx
	return nil
}

func (s *Store) DeletePendingAdminCreated(_ context.Context, id uint) error {
	unlock := s.lock()
	defer unlock()
	tx, ok := s.db.txs[id]
	if !ok || tx.Status != models.StatusPending || !tx.IsAdminCreated {
		return repositories.ErrNotDeletable
	}
	delete(s.db.txs, id)
	return nil
}

func (s *Store) SumSuccessful(_ context.Context, clientWalletID uint) (decimal.Decimal, error) {
	unlock := s.lock()
	defer unlock()
	total := decimal.Zero
	for _, tx := range s.db.txs {
		if tx.ClientWalletID == clientWalletID && tx.Status == models.StatusSuccessful {
			total = total.Add(tx.AmountInUSD)
		}
	}
	return total, nil
}

func (s *Store) Totals(_ context.Context, clientWalletID uint) (*repositories.WalletTotals, error) {
	unlock := s.lock()
	defer unlock()
	totals := &repositories.WalletTotals{
		SuccessfulCredits: decimal.Zero,
		SuccessfulDebits:  decimal.Zero,
		PendingUSD:        decimal.Zero,
	}
	for _, tx := range s.db.txs {
		if tx.ClientWalletID != clientWalletID {
			continue
		}
		switch {
		case tx.Status == models.StatusPending:
			totals.PendingCount++
			totals.PendingUSD = totals.PendingUSD.Add(tx.AmountInUSD)
		case tx.Status == models.StatusSuccessful && tx.Type == models.TransactionTypeCredit:
			totals.SuccessfulCredits = totals.SuccessfulCredits.Add(tx.AmountInUSD)
		case tx.Status == models.StatusSuccessful && tx.Type == models.TransactionTypeDebit:
			totals.SuccessfulDebits = totals.SuccessfulDebits.Add(tx.AmountInUSD)
		}
	}
	return totals, nil
}

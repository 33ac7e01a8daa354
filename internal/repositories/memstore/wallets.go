package memstore

import (
	"context"
	"sort"

	"custodia/internal/models"
	"custodia/internal/repositories"

	"github.com/shopspring/decimal"
)

func (s *Store) CreateAdminWallet(_ context.Context, wallet *models.AdminWallet) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("CreateAdminWallet"); err != nil {
		return err
	}

	_ = wallet.BeforeCreate(nil)
	for _, w := range s.db.admins {
		if w.Abbreviation == wallet.Abbreviation {
			return repositories.ErrDuplicateAdminWallet
		}
	}
	wallet.ID = s.db.id()
	wallet.CreatedAt = s.db.tick()
	wallet.UpdatedAt = wallet.CreatedAt
	s.db.admins[wallet.ID] = *wallet
	return nil
}

func (s *Store) GetAdminWallet(_ context.Context, id uint) (*models.AdminWallet, error) {
	unlock := s.lock()
	defer unlock()
	w, ok := s.db.admins[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	return &w, nil
}

func (s *Store) GetAdminWalletBySymbol(_ context.Context, symbol string) (*models.AdminWallet, error) {
	unlock := s.lock()
	defer unlock()
	sym := models.NormalizeSymbol(symbol)
	for _, w := range s.db.admins {
		if w.Abbreviation == sym {
			return &w, nil
		}
	}
	return nil, repositories.ErrWalletNotFound
}

func (s *Store) ListAdminWallets(_ context.Context) ([]models.AdminWallet, error) {
	unlock := s.lock()
	defer unlock()
	wallets := make([]models.AdminWallet, 0, len(s.db.admins))
	for _, w := range s.db.admins {
		wallets = append(wallets, w)
	}
	sort.Slice(wallets, func(i, j int) bool { return wallets[i].Abbreviation < wallets[j].Abbreviation })
	return wallets, nil
}

func (s *Store) CreateClientWallet(_ context.Context, wallet *models.ClientWallet) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("CreateClientWallet"); err != nil {
		return err
	}
	if _, ok := s.db.admins[wallet.AdminWalletID]; !ok {
		return repositories.ErrWalletNotFound
	}

	_ = wallet.BeforeCreate(nil)
	wallet.ID = s.db.id()
	wallet.CreatedAt = s.db.tick()
	wallet.UpdatedAt = wallet.CreatedAt
	stored := *wallet
	stored.AdminWallet = models.AdminWallet{}
	s.db.clients[wallet.ID] = stored
	return nil
}

func (s *Store) GetClientWallet(_ context.Context, id uint) (*models.ClientWallet, error) {
	unlock := s.lock()
	defer unlock()
	return s.clientWallet(id)
}

func (s *Store) ListClientWallets(_ context.Context, clientID uint) ([]models.ClientWallet, error) {
	unlock := s.lock()
	defer unlock()
	var wallets []models.ClientWallet
	for _, id := range s.clientIDs() {
		w, _ := s.clientWallet(id)
		if w.ClientID == clientID {
			wallets = append(wallets, *w)
		}
	}
	return wallets, nil
}

func (s *Store) ListClientWalletIDs(_ context.Context) ([]uint, error) {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("ListClientWalletIDs"); err != nil {
		return nil, err
	}
	return s.clientIDs(), nil
}

func (s *Store) LockClientWallet(_ context.Context, id uint) (*models.ClientWallet, error) {
	unlock := s.lock()
	defer unlock()
	w, ok := s.db.clients[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	return &w, nil
}

func (s *Store) UpdateClientWalletBalance(_ context.Context, id uint, amount decimal.Decimal, expectedVersion int64) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("UpdateClientWalletBalance"); err != nil {
		return err
	}
	w, ok := s.db.clients[id]
	if !ok || w.Version != expectedVersion {
		return repositories.ErrVersionConflict
	}
	w.AmountInUSD = amount
	w.Version++
	w.UpdatedAt = s.db.tick()
	s.db.clients[id] = w
	return nil
}

func (s *Store) LockAdminWallet(_ context.Context, id uint) (*models.AdminWallet, error) {
	unlock := s.lock()
	defer unlock()
	w, ok := s.db.admins[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	return &w, nil
}

func (s *Store) SumClientWallets(_ context.Context, adminWalletID uint) (decimal.Decimal, error) {
	unlock := s.lock()
	defer unlock()
	total := decimal.Zero
	for _, w := range s.db.clients {
		if w.AdminWalletID == adminWalletID {
			total = total.Add(w.AmountInUSD)
		}
	}
	return total, nil
}

func (s *Store) UpdateAdminWalletBalance(_ context.Context, id uint, amount decimal.Decimal) error {
	unlock := s.lock()
	defer unlock()
	w, ok := s.db.admins[id]
	if !ok {
		return repositories.ErrWalletNotFound
	}
	w.AmountInUSD = amount
	w.UpdatedAt = s.db.tick()
	s.db.admins[id] = w
	return nil
}

// clientWallet returns a copy with its admin wallet attached. Caller holds
// the lock.
func (s *Store) clientWallet(id uint) (*models.ClientWallet, error) {
	w, ok := s.db.clients[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	w.AdminWallet = s.db.admins[w.AdminWalletID]
	return &w, nil
}

func (s *Store) clientIDs() []uint {
	ids := make([]uint, 0, len(s.db.clients))
	for id := range s.db.clients {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

package ledger

import (
	"context"
	"errors"
	"time"

	domainerrors "custodia/internal/errors"
	"custodia/internal/models"
	"custodia/internal/repositories"
	"custodia/internal/services/exchange"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type service struct {
	store   repositories.Store
	rates   exchange.Provider
	config  Config
	logger  *zap.Logger
	metrics MetricsCollector

	txLocks     *keyedMutex
	walletLocks *keyedMutex
	now         func() time.Time
}

// NewService creates a new ledger service
func NewService(
	store repositories.Store,
	rates exchange.Provider,
	config Config,
	logger *zap.Logger,
	metrics MetricsCollector,
) Service {
	if store == nil {
		panic("store is required")
	}
	if rates == nil {
		panic("rate provider is required")
	}
	if config.DefaultPageLimit <= 0 {
		config.DefaultPageLimit = DefaultPageLimit
	}
	if config.MaxPageLimit <= 0 {
		config.MaxPageLimit = MaxPageLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	// Metrics is optional, create no-op collector if nil
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}

	return &service{
		store:       store,
		rates:       rates,
		config:      config,
		logger:      logger.Named("ledger"),
		metrics:     metrics,
		txLocks:     newKeyedMutex(),
		walletLocks: newKeyedMutex(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) CreateTransaction(ctx context.Context, in CreateTransactionInput) (*models.Transaction, error) {
	txType, err := models.ParseTransactionType(string(in.Type))
	if err != nil {
		return nil, domainerrors.ErrInvalidType
	}
	raw := models.RoundAmount(in.RawAmount.Abs())
	if raw.IsZero() {
		return nil, domainerrors.ErrInvalidAmount
	}
	if in.ClientWalletID == 0 {
		return nil, domainerrors.ErrWalletNotFound.WithMessage("client_wallet_id is required")
	}
	if in.SettleImmediately && !in.IsAdminCreated {
		return nil, domainerrors.ErrForbiddenTransition.WithMessage("only admin-created transactions can settle immediately")
	}

	wallet, err := s.store.Wallets().GetClientWallet(ctx, in.ClientWalletID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, domainerrors.ErrWalletNotFound.WithMessage("client wallet %d not found", in.ClientWalletID)
		}
		return nil, toDomain(err)
	}
	if in.Currency != "" && !wallet.AdminWallet.Matches(in.Currency) {
		return nil, domainerrors.ErrInvalidCurrency.WithMessage(
			"currency %q does not match wallet currency %s", in.Currency, wallet.AdminWallet.Abbreviation)
	}

	quote := s.rates.Quote(ctx, wallet.AdminWallet.Abbreviation)
	rate := models.RoundAmount(quote.Rate)
	tx := &models.Transaction{
		Reference:      uuid.NewString(),
		ClientWalletID: wallet.ID,
		Type:           txType,
		Status:         models.StatusPending,
		RawAmount:      raw,
		Currency:       wallet.AdminWallet.Abbreviation,
		RateUSD:        rate,
		AmountInUSD:    models.SignedUSD(txType, raw, rate),
		IsAdminCreated: in.IsAdminCreated,
	}
	if err := tx.CheckSign(); err != nil {
		return nil, domainerrors.ErrInvalidAmount.Wrap(err)
	}

	if !in.SettleImmediately {
		if err := s.store.Transactions().Create(ctx, tx); err != nil {
			return nil, toDomain(err)
		}
		s.metrics.RecordCreated(txType)
		s.logCreated(tx, quote)
		return tx, nil
	}

	start := s.now()
	unlock := s.walletLocks.Lock(wallet.ID)
	defer unlock()

	settledAt := s.now()
	err = s.store.ExecuteInTransaction(ctx, func(store repositories.Store) error {
		if err := store.Transactions().Create(ctx, tx); err != nil {
			return err
		}
		if err := store.Transactions().TransitionStatus(ctx, tx.ID, models.StatusSuccessful, settledAt); err != nil {
			return err
		}
		_, err := s.recompute(ctx, store, wallet.ID)
		return err
	})
	if err != nil {
		return nil, toDomain(err)
	}
	tx.Status = models.StatusSuccessful
	tx.SettledAt = &settledAt

	s.metrics.RecordCreated(txType)
	s.metrics.RecordSettled(txType, tx.Status, s.now().Sub(start))
	s.logCreated(tx, quote)
	return tx, nil
}

func (s *service) UpdateTransaction(ctx context.Context, id uint, patch TransactionPatch) (*models.Transaction, error) {
	if patch.Status == nil && patch.RawAmount == nil {
		return nil, domainerrors.ErrEmptyPatch
	}
	var event Event
	if patch.Status != nil {
		status, err := models.ParseTransactionStatus(string(*patch.Status))
		if err != nil {
			return nil, domainerrors.ErrInvalidStatus.WithMessage("unknown status %q", *patch.Status)
		}
		if event, err = eventFor(status); err != nil {
			return nil, err
		}
	}
	if patch.RawAmount != nil && models.RoundAmount(*patch.RawAmount).IsZero() {
		return nil, domainerrors.ErrInvalidAmount
	}

	unlock := s.txLocks.Lock(id)
	defer unlock()

	current, err := s.store.Transactions().GetByID(ctx, id)
	if err != nil {
		return nil, toDomain(err)
	}
	if current.Status.IsTerminal() {
		if patch.Status != nil {
			s.metrics.RecordConflict("update")
			return nil, domainerrors.ErrAlreadySettled.WithMessage("transaction %d is already %s", id, current.Status)
		}
		return nil, domainerrors.ErrForbiddenTransition.WithMessage("transaction %d is %s and can no longer be edited", id, current.Status)
	}

	var reprice *pricing
	if patch.RawAmount != nil {
		if reprice, err = s.price(ctx, current, *patch.RawAmount); err != nil {
			return nil, err
		}
	}

	if patch.Status == nil {
		err := s.store.Transactions().UpdatePendingAmount(ctx, id, reprice.raw, reprice.rate, reprice.amountInUSD)
		if err != nil {
			if errors.Is(err, repositories.ErrStatusConflict) {
				return nil, domainerrors.ErrForbiddenTransition.WithMessage("transaction %d is no longer pending", id)
			}
			return nil, toDomain(err)
		}
		s.logger.Info("transaction repriced",
			zap.Uint("transaction_id", id),
			zap.String("amount", reprice.raw.String()),
			zap.String("rate_usd", reprice.rate.String()),
			zap.String("amount_in_usd", reprice.amountInUSD.String()),
			zap.String("rate_source", string(reprice.source)))
		return s.GetTransaction(ctx, id)
	}

	return s.settle(ctx, current, event, reprice)
}

func (s *service) ApproveTransaction(ctx context.Context, id uint) (*models.Transaction, error) {
	status := models.StatusSuccessful
	return s.UpdateTransaction(ctx, id, TransactionPatch{Status: &status})
}

func (s *service) RejectTransaction(ctx context.Context, id uint) (*models.Transaction, error) {
	status := models.StatusFailed
	return s.UpdateTransaction(ctx, id, TransactionPatch{Status: &status})
}

func (s *service) DeleteTransaction(ctx context.Context, id uint) error {
	unlock := s.txLocks.Lock(id)
	defer unlock()

	current, err := s.store.Transactions().GetByID(ctx, id)
	if err != nil {
		return toDomain(err)
	}
	if current.Status != models.StatusPending {
		return domainerrors.ErrForbiddenDelete.WithMessage("transaction %d is %s", id, current.Status)
	}
	if !current.IsAdminCreated {
		return domainerrors.ErrForbiddenDelete.WithMessage("transaction %d was created by the client", id)
	}

	if err := s.store.Transactions().DeletePendingAdminCreated(ctx, id); err != nil {
		return toDomain(err)
	}
	s.metrics.RecordDeleted()
	s.logger.Info("transaction deleted",
		zap.Uint("transaction_id", id),
		zap.String("reference", current.Reference))
	return nil
}

func (s *service) GetTransaction(ctx context.Context, id uint) (*models.Transaction, error) {
	tx, err := s.store.Transactions().GetByID(ctx, id)
	if err != nil {
		return nil, toDomain(err)
	}
	return tx, nil
}

func (s *service) ListPendingTransactions(ctx context.Context, page Page) (*TransactionPage, error) {
	status := models.StatusPending
	return s.list(ctx, repositories.TransactionFilter{Status: &status}, page)
}

func (s *service) ListByClientWallet(ctx context.Context, clientWalletID uint, page Page) (*TransactionPage, error) {
	if _, err := s.store.Wallets().GetClientWallet(ctx, clientWalletID); err != nil {
		return nil, toDomain(err)
	}
	return s.list(ctx, repositories.TransactionFilter{ClientWalletID: &clientWalletID}, page)
}

func (s *service) list(ctx context.Context, filter repositories.TransactionFilter, page Page) (*TransactionPage, error) {
	page = s.normalizePage(page)
	filter.Limit = page.Limit
	filter.Offset = page.Offset

	items, total, err := s.store.Transactions().List(ctx, filter)
	if err != nil {
		return nil, toDomain(err)
	}
	if items == nil {
		items = []models.Transaction{}
	}
	return &TransactionPage{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

func (s *service) normalizePage(page Page) Page {
	if page.Limit <= 0 {
		page.Limit = s.config.DefaultPageLimit
	}
	if page.Limit > s.config.MaxPageLimit {
		page.Limit = s.config.MaxPageLimit
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	return page
}

// pricing is a fresh USD valuation of a raw amount.
type pricing struct {
	raw         decimal.Decimal
	rate        decimal.Decimal
	amountInUSD decimal.Decimal
	source      exchange.Source
}

func (s *service) price(ctx context.Context, tx *models.Transaction, raw decimal.Decimal) (*pricing, error) {
	quote := s.rates.Quote(ctx, tx.Currency)
	raw = models.RoundAmount(raw.Abs())
	rate := models.RoundAmount(quote.Rate)
	p := &pricing{
		raw:         raw,
		rate:        rate,
		amountInUSD: models.SignedUSD(tx.Type, raw, rate),
		source:      quote.Source,
	}
	if p.amountInUSD.IsZero() {
		return nil, domainerrors.ErrInvalidAmount.WithMessage("amount prices to zero USD")
	}
	return p, nil
}

func (s *service) logCreated(tx *models.Transaction, quote exchange.RateQuote) {
	s.logger.Info("transaction created",
		zap.Uint("transaction_id", tx.ID),
		zap.String("reference", tx.Reference),
		zap.Uint("client_wallet_id", tx.ClientWalletID),
		zap.String("type", string(tx.Type)),
		zap.String("status", string(tx.Status)),
		zap.String("currency", tx.Currency),
		zap.String("amount", tx.RawAmount.String()),
		zap.String("rate_usd", tx.RateUSD.String()),
		zap.String("rate_source", string(quote.Source)),
		zap.String("amount_in_usd", tx.AmountInUSD.String()),
		zap.Bool("is_admin_created", tx.IsAdminCreated))
}

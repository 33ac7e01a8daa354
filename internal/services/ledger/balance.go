package ledger

import (
	"context"
	"errors"

	domainerrors "custodia/internal/errors"
	"custodia/internal/models"
	"custodia/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// settle applies event to a pending transaction, optionally repricing it
// first, and folds the wallet when the result is successful. Callers hold
// the transaction lock.
func (s *service) settle(ctx context.Context, current *models.Transaction, event Event, reprice *pricing) (*models.Transaction, error) {
	to, err := Transition(current.Status, event)
	if err != nil {
		return nil, err
	}

	start := s.now()
	unlock := s.walletLocks.Lock(current.ClientWalletID)
	defer unlock()

	var balance decimal.Decimal
	err = s.store.ExecuteInTransaction(ctx, func(store repositories.Store) error {
		if reprice != nil {
			if err := store.Transactions().UpdatePendingAmount(ctx, current.ID, reprice.raw, reprice.rate, reprice.amountInUSD); err != nil {
				return err
			}
		}
		if err := store.Transactions().TransitionStatus(ctx, current.ID, to, s.now()); err != nil {
			return err
		}
		if to != models.StatusSuccessful {
			return nil
		}
		result, err := s.recompute(ctx, store, current.ClientWalletID)
		if err != nil {
			return err
		}
		balance = result.Recomputed
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrStatusConflict) {
			s.metrics.RecordConflict(string(event))
			return nil, domainerrors.ErrAlreadySettled.WithMessage("transaction %d was settled concurrently", current.ID)
		}
		return nil, toDomain(err)
	}

	s.metrics.RecordSettled(current.Type, to, s.now().Sub(start))
	fields := []zap.Field{
		zap.Uint("transaction_id", current.ID),
		zap.String("reference", current.Reference),
		zap.Uint("client_wallet_id", current.ClientWalletID),
		zap.String("status", string(to)),
	}
	if to == models.StatusSuccessful {
		fields = append(fields, zap.String("balance_usd", balance.String()))
	}
	s.logger.Info("transaction settled", fields...)

	return s.GetTransaction(ctx, current.ID)
}

// recompute folds a client wallet's successful transactions into its
// balance, then re-folds the owning admin pool. It must run inside
// ExecuteInTransaction; rows are locked client first, then admin.
func (s *service) recompute(ctx context.Context, store repositories.Store, clientWalletID uint) (*ReconcileResult, error) {
	wallet, err := store.Wallets().LockClientWallet(ctx, clientWalletID)
	if err != nil {
		return nil, err
	}

	folded, err := store.Transactions().SumSuccessful(ctx, clientWalletID)
	if err != nil {
		return nil, err
	}
	if err := store.Wallets().UpdateClientWalletBalance(ctx, clientWalletID, folded, wallet.Version); err != nil {
		return nil, err
	}

	if _, err := store.Wallets().LockAdminWallet(ctx, wallet.AdminWalletID); err != nil {
		return nil, err
	}
	pool, err := store.Wallets().SumClientWallets(ctx, wallet.AdminWalletID)
	if err != nil {
		return nil, err
	}
	if err := store.Wallets().UpdateAdminWalletBalance(ctx, wallet.AdminWalletID, pool); err != nil {
		return nil, err
	}

	return &ReconcileResult{
		ClientWalletID: clientWalletID,
		Previous:       wallet.AmountInUSD,
		Recomputed:     folded,
		Drift:          folded.Sub(wallet.AmountInUSD),
		CheckedAt:      s.now(),
	}, nil
}

func (s *service) GetWalletSummary(ctx context.Context, clientWalletID uint) (*WalletSummary, error) {
	wallet, err := s.store.Wallets().GetClientWallet(ctx, clientWalletID)
	if err != nil {
		return nil, toDomain(err)
	}
	totals, err := s.store.Transactions().Totals(ctx, clientWalletID)
	if err != nil {
		return nil, toDomain(err)
	}
	return &WalletSummary{
		ClientWalletID:       wallet.ID,
		Currency:             wallet.AdminWallet.Abbreviation,
		BalanceUSD:           wallet.AmountInUSD,
		SuccessfulCreditsUSD: totals.SuccessfulCredits,
		SuccessfulDebitsUSD:  totals.SuccessfulDebits,
		PendingCount:         totals.PendingCount,
		PendingUSD:           totals.PendingUSD,
		Version:              wallet.Version,
	}, nil
}

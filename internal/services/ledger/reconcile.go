package ledger

import (
	"context"

	"custodia/internal/repositories"

	"go.uber.org/zap"
)

// ReconcileWallet recomputes one wallet from its fold and reports how far
// the materialized balance had drifted.
func (s *service) ReconcileWallet(ctx context.Context, clientWalletID uint) (*ReconcileResult, error) {
	unlock := s.walletLocks.Lock(clientWalletID)
	defer unlock()

	var result *ReconcileResult
	err := s.store.ExecuteInTransaction(ctx, func(store repositories.Store) error {
		var err error
		result, err = s.recompute(ctx, store, clientWalletID)
		return err
	})
	if err != nil {
		return nil, toDomain(err)
	}

	if !result.Drift.IsZero() {
		drift, _ := result.Drift.Float64()
		s.metrics.RecordDrift(clientWalletID, drift)
		s.logger.Warn("wallet balance drifted from ledger",
			zap.Uint("client_wallet_id", clientWalletID),
			zap.String("previous", result.Previous.String()),
			zap.String("recomputed", result.Recomputed.String()),
			zap.String("drift", result.Drift.String()))
	}
	return result, nil
}

// ReconcileAll walks every client wallet. A failing wallet is recorded and
// skipped so one bad row does not stop the pass.
func (s *service) ReconcileAll(ctx context.Context) (*ReconcileReport, error) {
	ids, err := s.store.Wallets().ListClientWalletIDs(ctx)
	if err != nil {
		return nil, toDomain(err)
	}

	report := &ReconcileReport{Drifted: []ReconcileResult{}}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result, err := s.ReconcileWallet(ctx, id)
		if err != nil {
			s.logger.Error("wallet reconciliation failed", zap.Uint("client_wallet_id", id), zap.Error(err))
			report.Failed = append(report.Failed, id)
			continue
		}
		report.Checked++
		if !result.Drift.IsZero() {
			report.Drifted = append(report.Drifted, *result)
		}
	}

	s.logger.Info("ledger reconciliation finished",
		zap.Int("checked", report.Checked),
		zap.Int("drifted", len(report.Drifted)),
		zap.Int("failed", len(report.Failed)))
	return report, nil
}

package ledger

import (
	"custodia/internal/models"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds tunables for the ledger service.
type Config struct {
	DefaultPageLimit int
	MaxPageLimit     int
}

// CreateTransactionInput proposes a new ledger entry. Currency is optional;
// when set it must name the wallet's currency. SettleImmediately is only
// honored for admin-created entries.
type CreateTransactionInput struct {
	ClientWalletID    uint
	Type              models.TransactionType
	RawAmount         decimal.Decimal
	Currency          string
	IsAdminCreated    bool
	SettleImmediately bool
}

// TransactionPatch edits a pending transaction. Nil fields are left alone.
type TransactionPatch struct {
	Status    *models.TransactionStatus
	RawAmount *decimal.Decimal
}

type Page struct {
	Limit  int
	Offset int
}

// TransactionPage is one slice of an ordered listing.
type TransactionPage struct {
	Items  []models.Transaction `json:"items"`
	Total  int64                `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

// WalletSummary is the server-side view behind the wallet summary cards.
type WalletSummary struct {
	ClientWalletID       uint            `json:"client_wallet_id"`
	Currency             string          `json:"currency"`
	BalanceUSD           decimal.Decimal `json:"balance_usd"`
	SuccessfulCreditsUSD decimal.Decimal `json:"successful_credits_usd"`
	SuccessfulDebitsUSD  decimal.Decimal `json:"successful_debits_usd"`
	PendingCount         int64           `json:"pending_count"`
	PendingUSD           decimal.Decimal `json:"pending_usd"`
	Version              int64           `json:"version"`
}

// ReconcileResult compares a wallet's materialized balance with its fold.
type ReconcileResult struct {
	ClientWalletID uint            `json:"client_wallet_id"`
	Previous       decimal.Decimal `json:"previous"`
	Recomputed     decimal.Decimal `json:"recomputed"`
	Drift          decimal.Decimal `json:"drift"`
	CheckedAt      time.Time       `json:"checked_at"`
}

// ReconcileReport summarizes a full reconciliation pass.
type ReconcileReport struct {
	Checked int               `json:"checked"`
	Drifted []ReconcileResult `json:"drifted"`
	Failed  []uint            `json:"failed,omitempty"`
}

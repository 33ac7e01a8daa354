package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case TransactionTypeCredit, TransactionTypeDebit:
		return t, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Sign returns +1 for credits and -1 for debits.
func (t TransactionType) Sign() decimal.Decimal {
	if t == TransactionTypeDebit {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// TransactionStatus is the settlement state of a ledger entry.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusSuccessful TransactionStatus = "successful"
	StatusFailed     TransactionStatus = "failed"
)

func ParseTransactionStatus(s string) (TransactionStatus, error) {
	switch st := TransactionStatus(s); st {
	case StatusPending, StatusSuccessful, StatusFailed:
		return st, nil
	default:
		return "", fmt.Errorf("unknown transaction status %q", s)
	}
}

// IsTerminal reports whether no further transition is allowed.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusSuccessful || s == StatusFailed
}

// Transaction is a signed, USD-denominated ledger entry. Everything except
// Status and SettledAt is fixed once the entry leaves pending.
type Transaction struct {
	ID             uint              `gorm:"primarykey" json:"id"`
	Reference      string            `gorm:"uniqueIndex;not null" json:"reference"`
	ClientWalletID uint              `gorm:"not null;index:idx_tx_wallet_status,priority:1" json:"client_wallet_id"`
	ClientWallet   *ClientWallet     `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Type           TransactionType   `gorm:"type:varchar(16);not null" json:"type"`
	Status         TransactionStatus `gorm:"type:varchar(16);not null;default:'pending';index:idx_tx_wallet_status,priority:2;index:idx_tx_status_created,priority:1" json:"status"`
	RawAmount      decimal.Decimal   `gorm:"type:numeric(30,8);not null" json:"amount"`
	Currency       string            `gorm:"type:varchar(16);not null" json:"currency"`
	RateUSD        decimal.Decimal   `gorm:"type:numeric(30,8);not null" json:"rate_usd"`
	AmountInUSD    decimal.Decimal   `gorm:"type:numeric(30,8);not null" json:"amount_in_usd"`
	IsAdminCreated bool              `gorm:"not null;default:false" json:"is_admin_created"`
	CreatedAt      time.Time         `gorm:"index:idx_tx_status_created,priority:2" json:"created_at"`
	SettledAt      *time.Time        `json:"settled_at,omitempty"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// AmountScale is the number of decimal places stored for amounts and rates.
const AmountScale = 8

// SignedUSD prices a raw amount: |raw| * rate, signed by the transaction
// type and rounded to AmountScale so it equals the stored value.
func SignedUSD(t TransactionType, raw, rate decimal.Decimal) decimal.Decimal {
	return raw.Abs().Mul(rate).Round(AmountScale).Mul(t.Sign())
}

// RoundAmount rounds an amount or rate to the stored scale.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}

// CheckSign verifies that AmountInUSD agrees with Type.
func (t *Transaction) CheckSign() error {
	switch t.Type {
	case TransactionTypeCredit:
		if !t.AmountInUSD.IsPositive() {
			return fmt.Errorf("credit %s must have a positive USD amount, got %s", t.Reference, t.AmountInUSD)
		}
	case TransactionTypeDebit:
		if !t.AmountInUSD.IsNegative() {
			return fmt.Errorf("debit %s must have a negative USD amount, got %s", t.Reference, t.AmountInUSD)
		}
	default:
		return fmt.Errorf("transaction %s has unknown type %q", t.Reference, t.Type)
	}
	return nil
}

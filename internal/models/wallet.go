package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdminWallet is the custodial pool for one currency. AmountInUSD is the fold
// of the balances of every ClientWallet that references it.
type AdminWallet struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	CurrencyName string          `gorm:"not null" json:"currency_name"`
	Abbreviation string          `gorm:"uniqueIndex;not null" json:"abbreviation"`
	Address      string          `gorm:"not null;default:''" json:"address"`
	AmountInUSD  decimal.Decimal `gorm:"type:numeric(30,8);not null;default:0" json:"amount_in_usd"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (w *AdminWallet) BeforeCreate(tx *gorm.DB) error {
	w.Abbreviation = NormalizeSymbol(w.Abbreviation)
	// Pool balance is only ever derived from settled transactions
	w.AmountInUSD = decimal.Zero
	return nil
}

// Matches reports whether symbolOrName names this wallet's currency.
func (w *AdminWallet) Matches(symbolOrName string) bool {
	s := strings.TrimSpace(symbolOrName)
	return strings.EqualFold(s, w.Abbreviation) || strings.EqualFold(s, w.CurrencyName)
}

// ClientWallet is a client's position in one AdminWallet's currency.
// AmountInUSD is a derived cache recomputed on every settlement; Version is
// bumped with each recompute.
type ClientWallet struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	ClientID      uint            `gorm:"index;not null" json:"client_id"`
	AdminWalletID uint            `gorm:"index;not null" json:"admin_wallet_id"`
	AdminWallet   AdminWallet     `gorm:"constraint:OnDelete:RESTRICT" json:"admin_wallet"`
	AmountInUSD   decimal.Decimal `gorm:"type:numeric(30,8);not null;default:0" json:"amount_in_usd"`
	Version       int64           `gorm:"not null;default:0" json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (w *ClientWallet) BeforeCreate(tx *gorm.DB) error {
	// Ensure balance starts at 0
	w.AmountInUSD = decimal.Zero
	w.Version = 0
	return nil
}

// NormalizeSymbol upper-cases and trims a currency abbreviation.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSignedUSD(t *testing.T) {
	tests := []struct {
		name string
		typ  TransactionType
		raw  string
		rate string
		want string
	}{
		{"credit", TransactionTypeCredit, "100", "2", "200"},
		{"debit is negative", TransactionTypeDebit, "100", "2", "-200"},
		{"sign of raw is ignored", TransactionTypeDebit, "-100", "2", "-200"},
		{"rounded to stored scale", TransactionTypeCredit, "0.33333333", "0.33333333", "0.11111111"},
		{"debit rounds away from zero symmetrically", TransactionTypeDebit, "1", "0.123456785", "-0.12345679"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SignedUSD(tt.typ, decimal.RequireFromString(tt.raw), decimal.RequireFromString(tt.rate))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "want %s, got %s", tt.want, got)
			assert.LessOrEqual(t, -got.Exponent(), int32(AmountScale))
		})
	}
}

func TestCheckSign(t *testing.T) {
	assert.NoError(t, (&Transaction{Type: TransactionTypeCredit, AmountInUSD: decimal.NewFromInt(1)}).CheckSign())
	assert.Error(t, (&Transaction{Type: TransactionTypeCredit, AmountInUSD: decimal.NewFromInt(-1)}).CheckSign())
	assert.Error(t, (&Transaction{Type: TransactionTypeDebit, AmountInUSD: decimal.Zero}).CheckSign())
	assert.Error(t, (&Transaction{Type: "refund", AmountInUSD: decimal.NewFromInt(1)}).CheckSign())
}

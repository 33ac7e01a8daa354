package exchange

import (
	"context"
	"errors"
	"time"

	"custodia/internal/models"

	"github.com/shopspring/decimal"
)

// Source records where a quoted rate came from.
type Source string

const (
	SourceFeed     Source = "feed"
	SourceCache    Source = "cache"
	SourceStale    Source = "stale"
	SourceFallback Source = "fallback"
	SourceIdentity Source = "identity"
)

const (
	// USD is priced at 1.0 without a lookup.
	USD = "USD"

	// RateUnavailable is the log message for a recovered feed failure.
	RateUnavailable = "RateUnavailable"
)

// FallbackRate is returned when no rate can be resolved.
var FallbackRate = decimal.NewFromInt(1)

var (
	ErrUnknownSymbol = errors.New("unknown currency symbol")
	ErrInvalidRate   = errors.New("feed returned a non-positive rate")
	ErrFeedStatus    = errors.New("rate feed returned an error status")
)

// RateQuote is a resolved rate with its provenance.
type RateQuote struct {
	Symbol    string          `json:"symbol"`
	Rate      decimal.Decimal `json:"rate"`
	Source    Source          `json:"source"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Provider resolves a currency symbol or name to its USD unit price.
type Provider interface {
	// Rate never returns an error; see the package fallback policy.
	Rate(ctx context.Context, symbolOrName string) decimal.Decimal
	Quote(ctx context.Context, symbolOrName string) RateQuote
}

// Feed is a remote price source. Implementations return ErrUnknownSymbol
// when the feed has no price for the symbol.
type Feed interface {
	FetchRate(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// StaticProvider answers from a fixed table and falls back to 1.0 for
// anything else. Used by the seed command and tests.
type StaticProvider map[string]decimal.Decimal

func (p StaticProvider) Rate(ctx context.Context, symbolOrName string) decimal.Decimal {
	return p.Quote(ctx, symbolOrName).Rate
}

func (p StaticProvider) Quote(_ context.Context, symbolOrName string) RateQuote {
	sym := models.NormalizeSymbol(symbolOrName)
	if sym == USD {
		return RateQuote{Symbol: sym, Rate: FallbackRate, Source: SourceIdentity}
	}
	if rate, ok := p[sym]; ok {
		return RateQuote{Symbol: sym, Rate: rate, Source: SourceCache}
	}
	return RateQuote{Symbol: sym, Rate: FallbackRate, Source: SourceFallback}
}

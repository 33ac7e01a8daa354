package exchange

import (
	"context"
	"fmt"
	"strings"

	"custodia/internal/config"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const vsCurrency = "usd"

// CoinGeckoFeed queries the CoinGecko simple price endpoint.
type CoinGeckoFeed struct {
	client *resty.Client
}

func NewCoinGeckoFeed(cfg config.RatesConfig) *CoinGeckoFeed {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.FeedURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("x-cg-demo-api-key", cfg.APIKey)
	}
	return &CoinGeckoFeed{client: client}
}

func (f *CoinGeckoFeed) FetchRate(ctx context.Context, symbol string) (decimal.Decimal, error) {
	id := currencyID(symbol)

	var result map[string]map[string]decimal.Decimal
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":           id,
			"vs_currencies": vsCurrency,
		}).
		SetResult(&result).
		Get("/simple/price")
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate feed request failed: %w", err)
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrFeedStatus, resp.Status())
	}

	rate, ok := result[id][vsCurrency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidRate, symbol)
	}
	return rate, nil
}

// currencyID maps a ticker to the feed's coin id. Anything unmapped is
// passed through lower-cased, which lets full names like "Bitcoin" resolve.
func currencyID(symbol string) string {
	switch strings.ToLower(strings.TrimSpace(symbol)) {
	case "btc":
		return "bitcoin"
	case "eth":
		return "ethereum"
	case "usdt":
		return "tether"
	case "usdc":
		return "usd-coin"
	case "bnb":
		return "binancecoin"
	case "sol":
		return "solana"
	case "trx":
		return "tron"
	case "xrp":
		return "ripple"
	case "ltc":
		return "litecoin"
	case "doge":
		return "dogecoin"
	default:
		return strings.ToLower(strings.TrimSpace(symbol))
	}
}

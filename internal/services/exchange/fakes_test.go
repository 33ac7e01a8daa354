package exchange

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

type fakeFeed struct {
	mu      sync.Mutex
	rates   map[string]decimal.Decimal
	err     error
	calls   atomic.Int32
	release chan struct{}
}

func newFakeFeed(rates map[string]string) *fakeFeed {
	f := &fakeFeed{rates: make(map[string]decimal.Decimal)}
	for sym, r := range rates {
		f.rates[sym] = decimal.RequireFromString(r)
	}
	return f
}

func (f *fakeFeed) FetchRate(ctx context.Context, symbol string) (decimal.Decimal, error) {
	f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return decimal.Zero, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return decimal.Zero, f.err
	}
	rate, ok := f.rates[symbol]
	if !ok {
		return decimal.Zero, ErrUnknownSymbol
	}
	return rate, nil
}

func (f *fakeFeed) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

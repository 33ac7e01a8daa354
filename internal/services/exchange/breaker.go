package exchange

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig tunes the circuit breaker in front of the feed.
type BreakerConfig struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

var DefaultBreakerConfig = BreakerConfig{
	MaxRequests:         1,
	Interval:            time.Minute,
	Timeout:             30 * time.Second,
	ConsecutiveFailures: 5,
}

type breakerFeed struct {
	next    Feed
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerFeed wraps a feed with a circuit breaker. Unknown symbols are
// a valid answer from the feed and do not count as failures.
func NewBreakerFeed(next Feed, cfg BreakerConfig, logger *zap.Logger) Feed {
	if next == nil {
		panic("feed is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := gobreaker.Settings{
		Name:        "rate-feed",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrUnknownSymbol) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("rate feed circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &breakerFeed{next: next, breaker: gobreaker.NewCircuitBreaker(settings)}
}

func (f *breakerFeed) FetchRate(ctx context.Context, symbol string) (decimal.Decimal, error) {
	v, err := f.breaker.Execute(func() (interface{}, error) {
		return f.next.FetchRate(ctx, symbol)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return v.(decimal.Decimal), nil
}

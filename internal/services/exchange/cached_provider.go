package exchange

import (
	"context"
	"errors"
	"time"

	"custodia/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCacheTTL     = time.Minute
	DefaultFetchTimeout = 5 * time.Second
)

type ProviderConfig struct {
	// CacheTTL is how long a cached rate is served without asking the feed.
	CacheTTL time.Duration
	// FetchTimeout bounds a shared feed call. It runs detached from any
	// single caller so one cancelled request does not fail the others.
	FetchTimeout time.Duration
}

type cachedProvider struct {
	feed    Feed
	cache   RateCache
	group   singleflight.Group
	config  ProviderConfig
	logger  *zap.Logger
	metrics MetricsCollector
	now     func() time.Time
}

// NewCachedProvider builds the Provider used by the ledger.
func NewCachedProvider(
	feed Feed,
	rateCache RateCache,
	config ProviderConfig,
	logger *zap.Logger,
	metrics MetricsCollector,
) Provider {
	if feed == nil {
		panic("feed is required")
	}
	if rateCache == nil {
		panic("rate cache is required")
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = DefaultFetchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	// Metrics is optional, create no-op collector if nil
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}
	return &cachedProvider{
		feed:    feed,
		cache:   rateCache,
		config:  config,
		logger:  logger.Named("exchange"),
		metrics: metrics,
		now:     time.Now,
	}
}

func (p *cachedProvider) Rate(ctx context.Context, symbolOrName string) decimal.Decimal {
	return p.Quote(ctx, symbolOrName).Rate
}

func (p *cachedProvider) Quote(ctx context.Context, symbolOrName string) RateQuote {
	quote := p.resolve(ctx, models.NormalizeSymbol(symbolOrName))
	p.metrics.RecordLookup(quote.Source)
	return quote
}

func (p *cachedProvider) resolve(ctx context.Context, sym string) RateQuote {
	if sym == USD {
		return RateQuote{Symbol: sym, Rate: FallbackRate, Source: SourceIdentity, FetchedAt: p.now()}
	}
	if sym == "" {
		return p.fallback(sym, ErrUnknownSymbol)
	}

	cached, hit, err := p.cache.Get(ctx, sym)
	if err != nil {
		p.logger.Warn("rate cache read failed", zap.String("symbol", sym), zap.Error(err))
	}
	if hit && p.now().Sub(cached.FetchedAt) < p.config.CacheTTL {
		return RateQuote{Symbol: sym, Rate: cached.Rate, Source: SourceCache, FetchedAt: cached.FetchedAt}
	}

	ch := p.group.DoChan(sym, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.config.FetchTimeout)
		defer cancel()

		rate, err := p.feed.FetchRate(fetchCtx, sym)
		if err != nil {
			return nil, err
		}
		entry := RateEntry{Rate: rate, FetchedAt: p.now()}
		if err := p.cache.Set(fetchCtx, sym, entry); err != nil {
			p.logger.Warn("rate cache write failed", zap.String("symbol", sym), zap.Error(err))
		}
		return entry, nil
	})

	select {
	case res := <-ch:
		if res.Err == nil {
			entry := res.Val.(RateEntry)
			return RateQuote{Symbol: sym, Rate: entry.Rate, Source: SourceFeed, FetchedAt: entry.FetchedAt}
		}
		err = res.Err
	case <-ctx.Done():
		err = ctx.Err()
	}

	if hit {
		p.logger.Warn("serving stale rate",
			zap.String("symbol", sym),
			zap.Time("fetched_at", cached.FetchedAt),
			zap.Error(err))
		return RateQuote{Symbol: sym, Rate: cached.Rate, Source: SourceStale, FetchedAt: cached.FetchedAt}
	}
	return p.fallback(sym, err)
}

func (p *cachedProvider) fallback(sym string, cause error) RateQuote {
	reason := fallbackReason(cause)
	p.logger.Warn(RateUnavailable,
		zap.String("symbol", sym),
		zap.String("reason", reason),
		zap.String("fallback_rate", FallbackRate.String()),
		zap.Error(cause))
	p.metrics.RecordFallback(sym, reason)
	return RateQuote{Symbol: sym, Rate: FallbackRate, Source: SourceFallback, FetchedAt: p.now()}
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownSymbol):
		return "unknown_symbol"
	case errors.Is(err, ErrInvalidRate):
		return "invalid_rate"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "feed_error"
	}
}

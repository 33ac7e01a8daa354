/*
Package exchange resolves currency symbols to USD unit prices.

Lookups go through a short-lived cache before hitting the price feed.
Concurrent misses for one symbol share a single feed call, and the feed
sits behind a circuit breaker. When the feed cannot answer, the provider
serves the last known rate while it is inside the stale window.

Fallback policy:

Rate never fails. An unknown symbol, or a feed outage with nothing cached,
resolves to 1.0 so that USD-pegged assets keep pricing and a ledger write
is never blocked on the feed. Every fallback is logged at warn level as
RateUnavailable with the symbol and cause, and counted in
custodia_rate_fallback_total, so mispriced entries can be audited.

Usage:

	feed := exchange.NewBreakerFeed(exchange.NewCoinGeckoFeed(cfg.Rates), exchange.DefaultBreakerConfig, logger)
	provider := exchange.NewCachedProvider(feed, exchange.NewMemoryRateCache(cfg.Rates.StaleTTL), exchange.ProviderConfig{
	    CacheTTL:     cfg.Rates.CacheTTL,
	    FetchTimeout: cfg.Rates.Timeout,
	}, logger, metrics)

	rate := provider.Rate(ctx, "BTC")
*/
package exchange

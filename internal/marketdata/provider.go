// Package marketdata composes bar providers with caching.
package marketdata

import (
	"context"
	"log"

	"trend-scannerv1/internal/model"
)

// CachedProvider checks a bar cache before hitting the underlying provider.
// A same-day re-run (or a crash-and-retry) then skips the network entirely.
type CachedProvider struct {
	provider model.BarProvider
	cache    model.BarCache
}

// WithCache wraps provider with cache. A nil cache returns the provider
// unchanged.
func WithCache(provider model.BarProvider, cache model.BarCache) model.BarProvider {
	if cache == nil {
		return provider
	}
	return &CachedProvider{provider: provider, cache: cache}
}

// DailyBars serves from cache when possible, otherwise fetches and caches.
func (p *CachedProvider) DailyBars(ctx context.Context, symbol string, lookbackDays int) ([]model.PriceBar, error) {
	if bars, ok := p.cache.Get(ctx, symbol); ok {
		log.Printf("[marketdata] cache hit for %s (%d bars)", symbol, len(bars))
		return bars, nil
	}

	bars, err := p.provider.DailyBars(ctx, symbol, lookbackDays)
	if err != nil {
		return nil, err
	}
	p.cache.Set(ctx, symbol, bars)
	return bars, nil
}

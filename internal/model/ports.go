package model

import "context"

// ── Port Interfaces ──
// These interfaces decouple the scan engine from concrete data sources
// (Yahoo Finance, Redis, SQLite). Each implementation satisfies one port.

// BarProvider fetches daily price history for one instrument.
type BarProvider interface {
	// DailyBars returns chronological daily bars covering at least the last
	// lookbackDays calendar days. A short or empty series is a normal,
	// non-fatal condition for the caller.
	DailyBars(ctx context.Context, symbol string, lookbackDays int) ([]PriceBar, error)
}

// BarCache caches fetched bar series between runs of the same session.
type BarCache interface {
	// Get returns the cached series for symbol, or ok=false on a miss.
	Get(ctx context.Context, symbol string) ([]PriceBar, bool)

	// Set stores the series for symbol. Failures are soft and only logged.
	Set(ctx context.Context, symbol string, bars []PriceBar)
}

// LedgerStore persists the position ledger.
type LedgerStore interface {
	// LoadPositions reads the whole ledger. A store that does not exist yet
	// yields an empty ledger, not an error. Malformed rows are an error.
	LoadPositions(ctx context.Context) ([]Position, error)

	// SavePositions replaces the stored ledger with the given rows.
	SavePositions(ctx context.Context, positions []Position) error

	// Close releases underlying resources.
	Close() error
}

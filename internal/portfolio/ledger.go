// Package portfolio owns the position ledger and equity accounting.
//
// The ledger is append-only: entries append Open records, exits flip a
// record to Closed and realize its P&L. Records are never deleted, so the
// full trade history survives across runs. An index by symbol keeps the
// "find open position" lookup O(1) regardless of ledger size.
//
// All transitions must be applied by a single logical writer — the scan
// orchestrator — because slot and equity invariants depend on transition
// order (exits before entries, entries in ranked order).
package portfolio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"trend-scannerv1/internal/model"
)

// ErrNoOpenPosition is returned when an exit targets an instrument without
// an Open record. This means the held-position set and the candidate pool
// diverged — a contract violation, fatal for the run.
var ErrNoOpenPosition = errors.New("no open position for instrument")

// ErrPositionExists is returned when an entry targets an instrument that
// already has an Open record. The engine never averages in.
var ErrPositionExists = errors.New("open position already exists for instrument")

// Summary aggregates the ledger's derived capital figures.
type Summary struct {
	Equity        float64 `json:"equity"`
	Cash          float64 `json:"cash"`
	Invested      float64 `json:"invested"`
	RealizedPnL   float64 `json:"realized_pnl"`
	OpenPositions int     `json:"open_positions"`
	TotalRecords  int     `json:"total_records"`
}

// Ledger tracks all position records and derives capital aggregates.
type Ledger struct {
	mu             sync.RWMutex
	initialCapital float64
	positions      []model.Position
	openIdx        map[string]int // symbol → index of the Open record
}

// New creates an empty ledger with the given starting capital.
func New(initialCapital float64) *Ledger {
	return &Ledger{
		initialCapital: initialCapital,
		openIdx:        make(map[string]int),
	}
}

// Load rebuilds a ledger from persisted records. Two Open records for the
// same symbol mean the stored ledger is corrupt and refuse to load.
func Load(initialCapital float64, positions []model.Position) (*Ledger, error) {
	l := New(initialCapital)
	l.positions = make([]model.Position, len(positions))
	copy(l.positions, positions)

	for i, p := range l.positions {
		if !p.IsOpen() {
			continue
		}
		if _, dup := l.openIdx[p.Symbol]; dup {
			return nil, fmt.Errorf("ledger load: duplicate open position for %s", p.Symbol)
		}
		l.openIdx[p.Symbol] = i
	}
	return l, nil
}

// ApplyEntry appends a new Open record. A non-positive share count is a
// silent no-op (the allocation simply rounded to zero) and returns nil.
// An existing Open record for the symbol is a contract violation.
func (l *Ledger) ApplyEntry(symbol string, price float64, shares int64, date time.Time) (*model.Position, error) {
	if shares <= 0 {
		return nil, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.openIdx[symbol]; exists {
		return nil, fmt.Errorf("entry %s: %w", symbol, ErrPositionExists)
	}

	pos := model.Position{
		Symbol:       symbol,
		EntryDate:    date,
		EntryPrice:   price,
		Shares:       shares,
		CurrentPrice: price,
		Status:       model.StatusOpen,
	}
	l.positions = append(l.positions, pos)
	l.openIdx[symbol] = len(l.positions) - 1
	return &pos, nil
}

// ApplyExit closes the Open record for symbol at exitPrice, realizing
// PnL = (exit - entry) * shares. The freed slot is visible immediately to
// the same run's entry allocation.
func (l *Ledger) ApplyExit(symbol string, exitPrice float64) (*model.Position, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, ok := l.openIdx[symbol]
	if !ok {
		return nil, fmt.Errorf("exit %s: %w", symbol, ErrNoOpenPosition)
	}

	pos := &l.positions[idx]
	pos.Status = model.StatusClosed
	pos.CurrentPrice = exitPrice
	pos.PnL = (exitPrice - pos.EntryPrice) * float64(pos.Shares)
	delete(l.openIdx, symbol)

	closed := *pos
	return &closed, nil
}

// OpenPosition returns a copy of the Open record for symbol, if any.
func (l *Ledger) OpenPosition(symbol string) (model.Position, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx, ok := l.openIdx[symbol]
	if !ok {
		return model.Position{}, false
	}
	return l.positions[idx], true
}

// OpenCount returns the number of occupied slots.
func (l *Ledger) OpenCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.openIdx)
}

// OpenPositions returns a snapshot of all Open records in append order.
func (l *Ledger) OpenPositions() []model.Position {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.Position, 0, len(l.openIdx))
	for _, p := range l.positions {
		if p.IsOpen() {
			out = append(out, p)
		}
	}
	return out
}

// Positions returns a snapshot of the full ledger in append order.
func (l *Ledger) Positions() []model.Position {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cp := make([]model.Position, len(l.positions))
	copy(cp, l.positions)
	return cp
}

// Equity returns total equity:
//
//	cash     = initial capital + realized PnL - cost basis of Open positions
//	equity   = cash + invested cost basis
//
// No market-value reconstruction: open positions are carried at cost.
// Equity is derived on every call, never cached, so freed capital from an
// exit is reflected immediately.
func (l *Ledger) Equity() float64 {
	return l.GetSummary().Equity
}

// GetSummary returns the current capital aggregates.
func (l *Ledger) GetSummary() Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var realized, invested float64
	open := 0
	for i := range l.positions {
		p := &l.positions[i]
		if p.IsOpen() {
			invested += p.CostBasis()
			open++
		} else {
			realized += p.PnL
		}
	}

	cash := l.initialCapital + realized - invested
	return Summary{
		Equity:        cash + invested,
		Cash:          cash,
		Invested:      invested,
		RealizedPnL:   realized,
		OpenPositions: open,
		TotalRecords:  len(l.positions),
	}
}

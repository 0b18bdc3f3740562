package model

import "time"

// PositionStatus is the lifecycle state of a ledger record.
type PositionStatus string

const (
	StatusOpen   PositionStatus = "Open"
	StatusClosed PositionStatus = "Closed"
)

// Position is one row of the append-only position ledger.
//
// A record is created Open by an entry and flipped to Closed by an exit
// (CurrentPrice becomes the exit price and PnL is realized). Records are
// never deleted or reopened; re-entering an instrument appends a new row.
type Position struct {
	Symbol       string         `json:"symbol"`
	EntryDate    time.Time      `json:"entry_date"`
	EntryPrice   float64        `json:"entry_price"`
	Shares       int64          `json:"shares"`
	CurrentPrice float64        `json:"current_price"` // exit price once Closed
	PnL          float64        `json:"pnl"`           // realized, set on close
	Status       PositionStatus `json:"status"`
}

// IsOpen reports whether the record still occupies a portfolio slot.
func (p *Position) IsOpen() bool {
	return p.Status == StatusOpen
}

// CostBasis returns the capital committed at entry.
func (p *Position) CostBasis() float64 {
	return p.EntryPrice * float64(p.Shares)
}

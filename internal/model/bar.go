package model

import "time"

// PriceBar represents one daily OHLCV bar for a single instrument.
// Prices are in dollars. A fetched series is chronological and treated
// as immutable by every downstream component.
type PriceBar struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"` // session date (UTC, midnight-aligned)
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

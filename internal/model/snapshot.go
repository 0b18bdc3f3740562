package model

// TrendSnapshot holds the indicator values derived from one instrument's
// price history, evaluated at the most recent bar.
//
// Slope is the difference between the long moving average and a smoothed
// copy of itself, in dollars. SlopeBps is the same slope divided by the
// current close and scaled to basis points, which keeps ranking comparable
// across price magnitudes.
type TrendSnapshot struct {
	Symbol         string  `json:"symbol"`
	Close          float64 `json:"close"`
	LongMA         float64 `json:"long_ma"`
	SmoothedMA     float64 `json:"smoothed_ma"`
	Slope          float64 `json:"slope"`     // dollars, may be negative
	SlopeBps       float64 `json:"slope_bps"` // slope / close * 10000
	EntryThreshold float64 `json:"entry_threshold"`
	ExitThreshold  float64 `json:"exit_threshold"`
}

package model

// Candidate is an instrument that passed the entry rules and is waiting to
// be ranked. Candidates exist only within a single scan pass and are never
// persisted.
type Candidate struct {
	Symbol         string  `json:"symbol"`
	Close          float64 `json:"close"`
	EntryThreshold float64 `json:"entry_threshold"`
	SlopeBps       float64 `json:"slope_bps"`
}

// Package signal applies the entry/exit rules to one instrument at a time.
//
// The classifier only decides; it never touches the portfolio. The scan
// orchestrator applies the resulting decisions to the ledger.
package signal

import "trend-scannerv1/internal/model"

// Action is the decision for one instrument on one scan.
type Action string

const (
	ActionHold   Action = "HOLD"   // held, no exit rule fired
	ActionExit   Action = "EXIT"   // held, an exit rule fired
	ActionEnter  Action = "ENTER"  // unheld, entry rule fired
	ActionIgnore Action = "IGNORE" // unheld, entry rule did not fire
)

// Exit reasons, in rule-evaluation order. The first matching rule wins, so
// a position breaching both the hard stop and the exit buffer reports the
// hard stop.
const (
	ReasonHardStop   = "hard stop loss"
	ReasonExitBuffer = "price below exit buffer"
	ReasonSlopeFlat  = "slope turned non-positive"
)

// Decision is the classifier output for one instrument.
type Decision struct {
	Symbol string  `json:"symbol"`
	Action Action  `json:"action"`
	Price  float64 `json:"price"`            // current close
	Reason string  `json:"reason,omitempty"` // set for exits
}

// Rules holds the classification thresholds.
type Rules struct {
	HardStopPct float64 // loss fraction from entry forcing an exit, default 0.15
	SlopeFilter float64 // minimum slope in dollars for entries, default 0.01
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		HardStopPct: 0.15,
		SlopeFilter: 0.01,
	}
}

// Classify decides the action for one instrument. pos is the open position
// for the instrument, or nil when unheld.
//
// Exit rules are evaluated in fixed order: hard stop, exit-buffer breach,
// non-positive slope. The hard stop is strict less-than: a close exactly at
// entry*(1-HardStopPct) does not trigger it.
//
// The entry rule requires the close above the entry threshold AND a raw
// slope above SlopeFilter. The filter is a coarse absolute-dollar guard
// against flat-trend false positives; ranking, not the filter, prioritizes
// candidates.
func (r Rules) Classify(snap model.TrendSnapshot, pos *model.Position) Decision {
	if pos != nil {
		if reason := r.exitReason(snap, pos); reason != "" {
			return Decision{
				Symbol: snap.Symbol,
				Action: ActionExit,
				Price:  snap.Close,
				Reason: reason,
			}
		}
		return Decision{Symbol: snap.Symbol, Action: ActionHold, Price: snap.Close}
	}

	if snap.Close > snap.EntryThreshold && snap.Slope > r.SlopeFilter {
		return Decision{Symbol: snap.Symbol, Action: ActionEnter, Price: snap.Close}
	}
	return Decision{Symbol: snap.Symbol, Action: ActionIgnore, Price: snap.Close}
}

func (r Rules) exitReason(snap model.TrendSnapshot, pos *model.Position) string {
	switch {
	case snap.Close < pos.EntryPrice*(1-r.HardStopPct):
		return ReasonHardStop
	case snap.Close < snap.ExitThreshold:
		return ReasonExitBuffer
	case snap.Slope <= 0:
		return ReasonSlopeFlat
	}
	return ""
}

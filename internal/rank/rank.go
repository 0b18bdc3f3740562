// Package rank scores and orders a batch of entry candidates.
//
// Scores are batch-relative: the same candidate can score differently on
// different days depending on what else qualified. That is deliberate — the
// engine needs a priority order for scarce slots, not an absolute signal
// strength.
package rank

import (
	"sort"

	"trend-scannerv1/internal/model"
)

// Composite weights. Fixed constants of the design, not inputs.
const (
	weightTrend = 0.7
	weightExt   = 0.3

	// neutralScore is assigned to every candidate when a batch is degenerate
	// (all raw values equal), avoiding a divide-by-zero in normalization.
	neutralScore = 0.5
)

// Ranked is a candidate annotated with its scores.
type Ranked struct {
	model.Candidate

	// Extension is close/entry_threshold: how far price has already run
	// past the ideal entry. Lower is better.
	Extension  float64 `json:"extension"`
	ScoreTrend float64 `json:"score_trend"` // normalized slope, higher is better
	ScoreExt   float64 `json:"score_ext"`   // inverted normalized extension
	Score      float64 `json:"score"`       // 0.7*trend + 0.3*ext
}

// Rank scores all candidates and returns them in descending score order.
// The sort is stable: ties keep their original batch order.
func Rank(candidates []model.Candidate) []Ranked {
	if len(candidates) == 0 {
		return nil
	}

	ranked := make([]Ranked, len(candidates))
	slopes := make([]float64, len(candidates))
	exts := make([]float64, len(candidates))
	for i, c := range candidates {
		ranked[i] = Ranked{
			Candidate: c,
			Extension: c.Close / c.EntryThreshold,
		}
		slopes[i] = c.SlopeBps
		exts[i] = ranked[i].Extension
	}

	trendScores := normalize(slopes)
	extScores := normalize(exts)
	for i := range ranked {
		ranked[i].ScoreTrend = trendScores[i]
		// Low extension ranks high; a degenerate batch maps to 1-0.5=0.5.
		ranked[i].ScoreExt = 1 - extScores[i]
		ranked[i].Score = weightTrend*ranked[i].ScoreTrend + weightExt*ranked[i].ScoreExt
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// normalize min-max scales values into [0,1]. A degenerate batch (all values
// equal) maps every entry to neutralScore.
func normalize(values []float64) []float64 {
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(values))
	if max == min {
		for i := range out {
			out[i] = neutralScore
		}
		return out
	}
	for i, v := range values {
		out[i] = (v - min) / (max - min)
	}
	return out
}

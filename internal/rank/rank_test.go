package rank

import (
	"math"
	"testing"

	"trend-scannerv1/internal/model"
)

func candidate(symbol string, close, threshold, slopeBps float64) model.Candidate {
	return model.Candidate{
		Symbol:         symbol,
		Close:          close,
		EntryThreshold: threshold,
		SlopeBps:       slopeBps,
	}
}

func TestRank_EmptyBatch(t *testing.T) {
	if got := Rank(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestRank_DegenerateBatchIsNeutral(t *testing.T) {
	// Equal slopes and equal extensions: every score component is 0.5.
	batch := []model.Candidate{
		candidate("A", 102, 100, 40),
		candidate("B", 204, 200, 40),
		candidate("C", 51, 50, 40),
	}
	for _, r := range Rank(batch) {
		if math.Abs(r.ScoreTrend-0.5) > 1e-9 {
			t.Errorf("%s: expected ScoreTrend=0.5, got %.6f", r.Symbol, r.ScoreTrend)
		}
		if math.Abs(r.ScoreExt-0.5) > 1e-9 {
			t.Errorf("%s: expected ScoreExt=0.5, got %.6f", r.Symbol, r.ScoreExt)
		}
		if math.Abs(r.Score-0.5) > 1e-9 {
			t.Errorf("%s: expected Score=0.5, got %.6f", r.Symbol, r.Score)
		}
	}
}

func TestRank_ScoreTrendMonotoneInSlope(t *testing.T) {
	// Identical extensions, strictly increasing slopes.
	batch := []model.Candidate{
		candidate("LOW", 102, 100, 10),
		candidate("MID", 102, 100, 20),
		candidate("TOP", 102, 100, 30),
	}
	ranked := Rank(batch)

	if ranked[0].Symbol != "TOP" || ranked[1].Symbol != "MID" || ranked[2].Symbol != "LOW" {
		t.Fatalf("expected order TOP,MID,LOW; got %s,%s,%s",
			ranked[0].Symbol, ranked[1].Symbol, ranked[2].Symbol)
	}
	if ranked[0].ScoreTrend != 1 || ranked[2].ScoreTrend != 0 {
		t.Errorf("expected min-max endpoints 1 and 0, got %.4f and %.4f",
			ranked[0].ScoreTrend, ranked[2].ScoreTrend)
	}
	if math.Abs(ranked[1].ScoreTrend-0.5) > 1e-9 {
		t.Errorf("expected midpoint ScoreTrend=0.5, got %.6f", ranked[1].ScoreTrend)
	}
}

func TestRank_LowExtensionRanksHigher(t *testing.T) {
	// Identical slopes; NEAR sits closest to its entry threshold.
	batch := []model.Candidate{
		candidate("FAR", 110, 100, 25),  // extension 1.10
		candidate("NEAR", 101, 100, 25), // extension 1.01
		candidate("MIDW", 105, 100, 25), // extension 1.05
	}
	ranked := Rank(batch)

	if ranked[0].Symbol != "NEAR" {
		t.Fatalf("expected NEAR first, got %s", ranked[0].Symbol)
	}
	if ranked[2].Symbol != "FAR" {
		t.Fatalf("expected FAR last, got %s", ranked[2].Symbol)
	}
	if ranked[0].ScoreExt != 1 || ranked[2].ScoreExt != 0 {
		t.Errorf("expected inverted min-max endpoints 1 and 0, got %.4f and %.4f",
			ranked[0].ScoreExt, ranked[2].ScoreExt)
	}
}

func TestRank_CompositeWeights(t *testing.T) {
	// Two candidates: X has the stronger slope, Y the lower extension.
	// The 70/30 weighting must favor the trend component.
	batch := []model.Candidate{
		candidate("X", 110, 100, 50), // ScoreTrend 1, ScoreExt 0 -> 0.7
		candidate("Y", 101, 100, 10), // ScoreTrend 0, ScoreExt 1 -> 0.3
	}
	ranked := Rank(batch)

	if ranked[0].Symbol != "X" {
		t.Fatalf("expected trend-weighted winner X, got %s", ranked[0].Symbol)
	}
	if math.Abs(ranked[0].Score-0.7) > 1e-9 {
		t.Errorf("expected Score=0.7, got %.6f", ranked[0].Score)
	}
	if math.Abs(ranked[1].Score-0.3) > 1e-9 {
		t.Errorf("expected Score=0.3, got %.6f", ranked[1].Score)
	}
}

func TestRank_InvariantUnderAffineRescale(t *testing.T) {
	// Min-max normalization is unchanged by a positive affine transform of
	// the batch's raw slopes, so scores and order must be identical.
	base := []model.Candidate{
		candidate("A", 104, 100, 12),
		candidate("B", 102, 100, 31),
		candidate("C", 108, 100, 22),
	}
	scaled := make([]model.Candidate, len(base))
	for i, c := range base {
		c.SlopeBps = c.SlopeBps*100 + 7
		scaled[i] = c
	}

	r1, r2 := Rank(base), Rank(scaled)
	for i := range r1 {
		if r1[i].Symbol != r2[i].Symbol {
			t.Fatalf("order changed under rescale: %s vs %s", r1[i].Symbol, r2[i].Symbol)
		}
		if math.Abs(r1[i].Score-r2[i].Score) > 1e-9 {
			t.Errorf("%s: score changed under rescale: %.9f vs %.9f",
				r1[i].Symbol, r1[i].Score, r2[i].Score)
		}
	}
}

func TestRank_TiesKeepBatchOrder(t *testing.T) {
	// Identical candidates tie exactly; stable sort preserves input order.
	batch := []model.Candidate{
		candidate("FIRST", 102, 100, 15),
		candidate("SECOND", 102, 100, 15),
		candidate("THIRD", 102, 100, 15),
	}
	ranked := Rank(batch)

	want := []string{"FIRST", "SECOND", "THIRD"}
	for i, symbol := range want {
		if ranked[i].Symbol != symbol {
			t.Errorf("position %d: expected %s, got %s", i, symbol, ranked[i].Symbol)
		}
	}
}

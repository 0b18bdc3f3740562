package portfolio

import (
	"errors"
	"math"
	"testing"
	"time"

	"trend-scannerv1/internal/model"
)

var testDay = time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)

func TestLedger_EntryExitRoundTrip(t *testing.T) {
	l := New(100000)

	pos, err := l.ApplyEntry("AAPL", 50, 100, testDay)
	if err != nil {
		t.Fatalf("ApplyEntry failed: %v", err)
	}
	if pos == nil || pos.Status != model.StatusOpen {
		t.Fatal("expected an Open position")
	}
	if l.OpenCount() != 1 {
		t.Fatalf("expected 1 open slot, got %d", l.OpenCount())
	}

	closed, err := l.ApplyExit("AAPL", 60)
	if err != nil {
		t.Fatalf("ApplyExit failed: %v", err)
	}
	if closed.Status != model.StatusClosed {
		t.Errorf("expected Closed status, got %s", closed.Status)
	}
	if closed.Shares != 100 {
		t.Errorf("shares changed on close: got %d", closed.Shares)
	}
	if closed.CurrentPrice != 60 {
		t.Errorf("expected exit price 60, got %.2f", closed.CurrentPrice)
	}
	// PnL = (60 - 50) * 100, exactly.
	if closed.PnL != 1000 {
		t.Errorf("expected PnL 1000, got %.2f", closed.PnL)
	}
	if l.OpenCount() != 0 {
		t.Errorf("expected slot freed after exit, got %d open", l.OpenCount())
	}
}

func TestLedger_ExitWithoutOpenPosition(t *testing.T) {
	l := New(100000)
	if _, err := l.ApplyExit("GHOST", 10); !errors.Is(err, ErrNoOpenPosition) {
		t.Fatalf("expected ErrNoOpenPosition, got %v", err)
	}
}

func TestLedger_ZeroShareEntryIsNoOp(t *testing.T) {
	l := New(100000)
	pos, err := l.ApplyEntry("BRK-B", 700000, 0, testDay)
	if err != nil {
		t.Fatalf("expected silent no-op, got error %v", err)
	}
	if pos != nil {
		t.Fatal("expected nil position for zero shares")
	}
	if len(l.Positions()) != 0 {
		t.Fatal("expected no record appended")
	}
}

func TestLedger_NoAveragingIn(t *testing.T) {
	l := New(100000)
	if _, err := l.ApplyEntry("XOM", 100, 10, testDay); err != nil {
		t.Fatalf("first entry failed: %v", err)
	}
	if _, err := l.ApplyEntry("XOM", 90, 10, testDay); !errors.Is(err, ErrPositionExists) {
		t.Fatalf("expected ErrPositionExists, got %v", err)
	}
}

func TestLedger_ReentryAppendsNewRecord(t *testing.T) {
	l := New(100000)
	l.ApplyEntry("TSLA", 200, 10, testDay)
	l.ApplyExit("TSLA", 210)

	if _, err := l.ApplyEntry("TSLA", 215, 10, testDay.AddDate(0, 0, 5)); err != nil {
		t.Fatalf("re-entry after close failed: %v", err)
	}

	records := l.Positions()
	if len(records) != 2 {
		t.Fatalf("expected 2 ledger records, got %d", len(records))
	}
	if records[0].Status != model.StatusClosed || records[1].Status != model.StatusOpen {
		t.Error("expected first record Closed and second Open")
	}
}

func TestLedger_EquityAccounting(t *testing.T) {
	l := New(100000)

	// Flat ledger: equity equals starting capital.
	if eq := l.Equity(); eq != 100000 {
		t.Fatalf("expected starting equity 100000, got %.2f", eq)
	}

	// Open 100 shares at 50: cash 95000, invested 5000, equity unchanged.
	l.ApplyEntry("AAPL", 50, 100, testDay)
	s := l.GetSummary()
	if s.Cash != 95000 || s.Invested != 5000 {
		t.Errorf("expected cash 95000 / invested 5000, got %.2f / %.2f", s.Cash, s.Invested)
	}
	if s.Equity != 100000 {
		t.Errorf("expected equity 100000 while open, got %.2f", s.Equity)
	}

	// Close at 60: realized +1000 flows into equity.
	l.ApplyExit("AAPL", 60)
	s = l.GetSummary()
	if s.RealizedPnL != 1000 {
		t.Errorf("expected realized 1000, got %.2f", s.RealizedPnL)
	}
	if s.Equity != 101000 {
		t.Errorf("expected equity 101000 after close, got %.2f", s.Equity)
	}
	if s.Invested != 0 {
		t.Errorf("expected zero invested after close, got %.2f", s.Invested)
	}
}

func TestLedger_EquityNeverCached(t *testing.T) {
	l := New(50000)
	before := l.Equity()
	l.ApplyEntry("KO", 60, 50, testDay)
	l.ApplyExit("KO", 66)
	after := l.Equity()

	want := before + (66.0-60.0)*50
	if math.Abs(after-want) > 1e-9 {
		t.Fatalf("expected equity %.2f after exit, got %.2f", want, after)
	}
}

func TestLoad_RebuildsOpenIndex(t *testing.T) {
	records := []model.Position{
		{Symbol: "JPM", EntryDate: testDay, EntryPrice: 150, Shares: 20, CurrentPrice: 160, PnL: 200, Status: model.StatusClosed},
		{Symbol: "V", EntryDate: testDay, EntryPrice: 250, Shares: 10, CurrentPrice: 250, Status: model.StatusOpen},
	}

	l, err := Load(100000, records)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if l.OpenCount() != 1 {
		t.Fatalf("expected 1 open position, got %d", l.OpenCount())
	}
	if _, ok := l.OpenPosition("V"); !ok {
		t.Error("expected open position for V")
	}
	if _, ok := l.OpenPosition("JPM"); ok {
		t.Error("closed JPM record must not occupy a slot")
	}

	// equity = 100000 + 200 realized (open V carried at cost).
	if eq := l.Equity(); eq != 100200 {
		t.Errorf("expected equity 100200, got %.2f", eq)
	}
}

func TestLoad_RejectsDuplicateOpens(t *testing.T) {
	records := []model.Position{
		{Symbol: "GE", EntryDate: testDay, EntryPrice: 100, Shares: 5, Status: model.StatusOpen},
		{Symbol: "GE", EntryDate: testDay, EntryPrice: 105, Shares: 5, Status: model.StatusOpen},
	}
	if _, err := Load(100000, records); err == nil {
		t.Fatal("expected error for duplicate open positions")
	}
}

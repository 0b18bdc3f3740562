package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"trend-scannerv1/internal/model"
)

func newTestStore(t *testing.T) *LedgerStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "portfolio.db"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLedgerStore_MissingFileInitializesEmpty(t *testing.T) {
	store := newTestStore(t)

	positions, err := store.LoadPositions(context.Background())
	if err != nil {
		t.Fatalf("LoadPositions on fresh store failed: %v", err)
	}
	if len(positions) != 0 {
		t.Fatalf("expected empty ledger, got %d rows", len(positions))
	}
}

func TestLedgerStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	day := time.Date(2026, time.August, 27, 0, 0, 0, 0, time.UTC)
	in := []model.Position{
		{Symbol: "AAPL", EntryDate: day, EntryPrice: 150.25, Shares: 33, CurrentPrice: 150.25, Status: model.StatusOpen},
		{Symbol: "XOM", EntryDate: day.AddDate(0, 0, -30), EntryPrice: 110, Shares: 45, CurrentPrice: 98.5, PnL: -517.5, Status: model.StatusClosed},
	}

	if err := store.SavePositions(ctx, in); err != nil {
		t.Fatalf("SavePositions failed: %v", err)
	}

	out, err := store.LoadPositions(ctx)
	if err != nil {
		t.Fatalf("LoadPositions failed: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d rows, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("row %d mismatch:\n got %+v\nwant %+v", i, out[i], in[i])
		}
	}
}

func TestLedgerStore_SaveIsFullOverwrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	day := time.Date(2026, time.August, 27, 0, 0, 0, 0, time.UTC)

	first := []model.Position{
		{Symbol: "OLD", EntryDate: day, EntryPrice: 10, Shares: 1, CurrentPrice: 10, Status: model.StatusOpen},
	}
	second := []model.Position{
		{Symbol: "NEW", EntryDate: day, EntryPrice: 20, Shares: 2, CurrentPrice: 20, Status: model.StatusOpen},
	}

	if err := store.SavePositions(ctx, first); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := store.SavePositions(ctx, second); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	out, err := store.LoadPositions(ctx)
	if err != nil {
		t.Fatalf("LoadPositions failed: %v", err)
	}
	if len(out) != 1 || out[0].Symbol != "NEW" {
		t.Fatalf("expected single NEW row after overwrite, got %+v", out)
	}
}

func TestLedgerStore_RejectsMalformedRows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Bypass SavePositions to plant rows that violate the load contract.
	cases := []struct {
		name   string
		insert string
	}{
		{"unknown status", `INSERT INTO positions (symbol, entry_date, entry_price, shares, current_price, pnl, status)
			VALUES ('AAPL', '2026-08-27', 150, 10, 150, 0, 'Pending')`},
		{"bad entry date", `INSERT INTO positions (symbol, entry_date, entry_price, shares, current_price, pnl, status)
			VALUES ('AAPL', 'not-a-date', 150, 10, 150, 0, 'Open')`},
		{"empty symbol", `INSERT INTO positions (symbol, entry_date, entry_price, shares, current_price, pnl, status)
			VALUES ('', '2026-08-27', 150, 10, 150, 0, 'Open')`},
	}

	for _, tc := range cases {
		if _, err := store.db.Exec(`DELETE FROM positions`); err != nil {
			t.Fatalf("%s: reset failed: %v", tc.name, err)
		}
		if _, err := store.db.Exec(tc.insert); err != nil {
			t.Fatalf("%s: insert failed: %v", tc.name, err)
		}

		_, err := store.LoadPositions(ctx)
		if err == nil {
			t.Errorf("%s: expected load error for malformed row", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), "malformed position row") {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

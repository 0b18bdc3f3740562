// Package scan sequences one full daily decision pass.
//
// Per-instrument work (fetch, indicators, classification) is pure and runs
// on a fork-join worker pool. All ledger transitions are applied afterwards
// on the calling goroutine, in a fixed order: every exit before any entry,
// entries in ranked order. The ledger has exactly one writer.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"trend-scannerv1/internal/indicator"
	"trend-scannerv1/internal/metrics"
	"trend-scannerv1/internal/model"
	"trend-scannerv1/internal/notification"
	"trend-scannerv1/internal/portfolio"
	"trend-scannerv1/internal/rank"
	"trend-scannerv1/internal/signal"
)

// SkipReason explains why an instrument was left out of a run.
type SkipReason string

const (
	SkipInsufficientHistory SkipReason = "insufficient history"
	SkipFetchFailed         SkipReason = "data fetch failed"
)

// Trade records one executed ledger transition for the run report.
type Trade struct {
	Symbol string  `json:"symbol"`
	Action string  `json:"action"` // BUY or SELL
	Price  float64 `json:"price"`
	Shares int64   `json:"shares"`
	PnL    float64 `json:"pnl,omitempty"`    // exits only
	Reason string  `json:"reason,omitempty"` // exits only
}

// Result is the outcome of one scan pass.
type Result struct {
	Date           time.Time
	StartingEquity float64
	Summary        portfolio.Summary
	Exits          []Trade
	Entries        []Trade
	Ranked         []rank.Ranked
	Holds          int
	Scanned        int
	Skipped        map[SkipReason]int
	DryRun         bool
}

// SkippedTotal returns the number of instruments left out of the run.
func (r *Result) SkippedTotal() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}

// Config holds the orchestrator parameters for one run.
type Config struct {
	Universe        []string
	LookbackDays    int
	Workers         int
	InitialCapital  float64
	MaxPositions    int
	PositionSizePct float64
	Indicator       indicator.Params
	Rules           signal.Rules

	// DryRun computes decisions and mutates the in-memory ledger but skips
	// persistence and notifications.
	DryRun bool
}

// Scanner runs the daily decision pass. It owns the ledger for the duration
// of a run and is its sole writer.
type Scanner struct {
	cfg      Config
	provider model.BarProvider
	store    model.LedgerStore
	notifier notification.Notifier
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// New creates a Scanner. notifier and m may be nil.
func New(cfg Config, provider model.BarProvider, store model.LedgerStore,
	notifier notification.Notifier, m *metrics.Metrics, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		cfg:      cfg,
		provider: provider,
		store:    store,
		notifier: notifier,
		metrics:  m,
		log:      logger,
	}
}

// instrumentResult is the outcome of per-instrument work in the fork phase.
type instrumentResult struct {
	symbol   string
	snap     model.TrendSnapshot
	decision signal.Decision
	skip     SkipReason // non-empty when the instrument was skipped
}

// Run executes one scan pass: load state, classify every instrument, apply
// exits, rank candidates, allocate entries, persist.
//
// Per-instrument failures (fetch errors, short history) are skip-and-continue.
// A state-integrity failure aborts the run before anything is persisted.
func (s *Scanner) Run(ctx context.Context) (*Result, error) {
	started := time.Now()

	stored, err := s.store.LoadPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	ledger, err := portfolio.Load(s.cfg.InitialCapital, stored)
	if err != nil {
		return nil, err
	}

	// Allocation sizes for the whole run come from this snapshot. Capital
	// freed by exits shows up in the slot count, not in allocation size.
	startingEquity := ledger.Equity()

	held := make(map[string]model.Position, ledger.OpenCount())
	for _, p := range ledger.OpenPositions() {
		held[p.Symbol] = p
	}

	s.log.Info("scan started",
		slog.Int("universe", len(s.cfg.Universe)),
		slog.Int("open_positions", len(held)),
		slog.Float64("equity", startingEquity))

	results := s.classifyAll(ctx, held)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		Date:           started.UTC(),
		StartingEquity: startingEquity,
		Skipped:        make(map[SkipReason]int),
		DryRun:         s.cfg.DryRun,
	}

	// Apply exits and collect entry candidates, in stable universe order.
	var candidates []model.Candidate
	for _, r := range results {
		if r.skip != "" {
			res.Skipped[r.skip]++
			if s.metrics != nil {
				s.metrics.InstrumentsSkipped.WithLabelValues(metricLabel(r.skip)).Inc()
			}
			continue
		}
		res.Scanned++
		if s.metrics != nil {
			s.metrics.InstrumentsScanned.Inc()
		}

		switch r.decision.Action {
		case signal.ActionExit:
			closed, err := ledger.ApplyExit(r.symbol, r.decision.Price)
			if err != nil {
				// Candidate pool and held-position set diverged; refuse to
				// persist a corrupted ledger.
				return nil, fmt.Errorf("apply exit: %w", err)
			}
			trade := Trade{
				Symbol: r.symbol,
				Action: "SELL",
				Price:  r.decision.Price,
				Shares: closed.Shares,
				PnL:    closed.PnL,
				Reason: r.decision.Reason,
			}
			res.Exits = append(res.Exits, trade)
			s.log.Info("exit executed",
				slog.String("symbol", r.symbol),
				slog.String("reason", r.decision.Reason),
				slog.Float64("price", r.decision.Price),
				slog.Float64("pnl", closed.PnL))
			if s.metrics != nil {
				s.metrics.ExitsExecuted.WithLabelValues(r.decision.Reason).Inc()
			}
			s.notifyExit(ctx, trade)

		case signal.ActionEnter:
			candidates = append(candidates, model.Candidate{
				Symbol:         r.symbol,
				Close:          r.snap.Close,
				EntryThreshold: r.snap.EntryThreshold,
				SlopeBps:       r.snap.SlopeBps,
			})

		case signal.ActionHold:
			res.Holds++
		}
	}

	res.Ranked = rank.Rank(candidates)
	if s.metrics != nil {
		s.metrics.CandidatesRanked.Set(float64(len(res.Ranked)))
	}

	if err := s.allocate(ctx, ledger, startingEquity, res); err != nil {
		return nil, err
	}

	if !s.cfg.DryRun {
		if err := s.store.SavePositions(ctx, ledger.Positions()); err != nil {
			return nil, fmt.Errorf("persist ledger: %w", err)
		}
	}

	res.Summary = ledger.GetSummary()
	if s.metrics != nil {
		s.metrics.TotalEquity.Set(res.Summary.Equity)
		s.metrics.OpenPositions.Set(float64(res.Summary.OpenPositions))
		s.metrics.ScanDuration.Observe(time.Since(started).Seconds())
	}

	s.log.Info("scan complete",
		slog.Int("scanned", res.Scanned),
		slog.Int("skipped", res.SkippedTotal()),
		slog.Int("exits", len(res.Exits)),
		slog.Int("entries", len(res.Entries)),
		slog.Float64("equity", res.Summary.Equity),
		slog.Duration("elapsed", time.Since(started)))
	return res, nil
}

// allocate sizes and applies entries for the top-ranked candidates.
// Every allocation is computed against the run-start equity snapshot;
// re-deriving equity between allocations would change observable sizing.
func (s *Scanner) allocate(ctx context.Context, ledger *portfolio.Ledger, equity float64, res *Result) error {
	openSlots := s.cfg.MaxPositions - ledger.OpenCount()
	if openSlots <= 0 || len(res.Ranked) == 0 {
		s.log.Info("no new entries", slog.Int("open_slots", openSlots), slog.Int("candidates", len(res.Ranked)))
		return nil
	}

	top := res.Ranked
	if len(top) > openSlots {
		top = top[:openSlots]
	}

	for _, c := range top {
		allocation := equity * s.cfg.PositionSizePct
		shares := int64(allocation / c.Close)

		pos, err := ledger.ApplyEntry(c.Symbol, c.Close, shares, res.Date)
		if err != nil {
			return fmt.Errorf("apply entry: %w", err)
		}
		if pos == nil {
			// Allocation rounded to zero shares; slot stays free.
			s.log.Info("entry skipped, allocation below one share",
				slog.String("symbol", c.Symbol), slog.Float64("price", c.Close))
			continue
		}

		trade := Trade{Symbol: c.Symbol, Action: "BUY", Price: c.Close, Shares: shares}
		res.Entries = append(res.Entries, trade)
		s.log.Info("entry executed",
			slog.String("symbol", c.Symbol),
			slog.Int64("shares", shares),
			slog.Float64("price", c.Close),
			slog.Float64("score", c.Score))
		if s.metrics != nil {
			s.metrics.EntriesExecuted.Inc()
		}
		s.notifyEntry(ctx, trade)
	}
	return nil
}

// classifyAll fans per-instrument work out to the worker pool and joins the
// results back into stable universe order. Workers share nothing mutable:
// each result is built from that instrument's bars and a read-only view of
// the held positions.
func (s *Scanner) classifyAll(ctx context.Context, held map[string]model.Position) []instrumentResult {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	jobs := make(chan string)
	resultCh := make(chan instrumentResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				resultCh <- s.scanInstrument(ctx, symbol, held)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, symbol := range s.cfg.Universe {
			select {
			case jobs <- symbol:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	bySymbol := make(map[string]instrumentResult, len(s.cfg.Universe))
	for r := range resultCh {
		bySymbol[r.symbol] = r
	}

	out := make([]instrumentResult, 0, len(bySymbol))
	for _, symbol := range s.cfg.Universe {
		if r, ok := bySymbol[symbol]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (s *Scanner) scanInstrument(ctx context.Context, symbol string, held map[string]model.Position) instrumentResult {
	bars, err := s.provider.DailyBars(ctx, symbol, s.cfg.LookbackDays)
	if err != nil {
		s.log.Debug("bar fetch failed", slog.String("symbol", symbol), slog.Any("err", err))
		return instrumentResult{symbol: symbol, skip: SkipFetchFailed}
	}

	snap, err := indicator.Compute(bars, s.cfg.Indicator)
	if err != nil {
		return instrumentResult{symbol: symbol, skip: SkipInsufficientHistory}
	}

	var pos *model.Position
	if p, ok := held[symbol]; ok {
		pos = &p
	}
	return instrumentResult{
		symbol:   symbol,
		snap:     snap,
		decision: s.cfg.Rules.Classify(snap, pos),
	}
}

func (s *Scanner) notifyExit(ctx context.Context, t Trade) {
	if s.notifier == nil || s.cfg.DryRun {
		return
	}
	level := notification.AlertWarning
	if t.Reason == signal.ReasonHardStop {
		level = notification.AlertCritical
	}
	s.send(ctx, notification.Alert{
		Level:   level,
		Title:   fmt.Sprintf("SELL %s", t.Symbol),
		Message: fmt.Sprintf("sold %d shares at %.2f (%s), PnL %.2f", t.Shares, t.Price, t.Reason, t.PnL),
	})
}

func (s *Scanner) notifyEntry(ctx context.Context, t Trade) {
	if s.notifier == nil || s.cfg.DryRun {
		return
	}
	s.send(ctx, notification.Alert{
		Level:   notification.AlertInfo,
		Title:   fmt.Sprintf("BUY %s", t.Symbol),
		Message: fmt.Sprintf("bought %d shares at %.2f", t.Shares, t.Price),
	})
}

func (s *Scanner) send(ctx context.Context, alert notification.Alert) {
	if err := s.notifier.Send(ctx, alert); err != nil {
		s.log.Warn("notification failed", slog.String("title", alert.Title), slog.Any("err", err))
	}
}

func metricLabel(r SkipReason) string {
	if r == SkipInsufficientHistory {
		return metrics.SkipHistory
	}
	return metrics.SkipFetch
}

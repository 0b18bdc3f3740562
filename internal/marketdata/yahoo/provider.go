// Package yahoo fetches daily price history from Yahoo Finance.
package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"

	"trend-scannerv1/internal/model"
)

// Provider fetches daily bars via the Yahoo Finance chart API.
type Provider struct{}

// New creates a Yahoo Finance bar provider.
func New() *Provider {
	return &Provider{}
}

// DailyBars returns chronological daily bars for symbol covering the last
// lookbackDays calendar days. An unknown symbol or network failure returns
// an error; the scan treats that as skip-this-instrument.
func (p *Provider) DailyBars(ctx context.Context, symbol string, lookbackDays int) ([]model.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -lookbackDays)

	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	var bars []model.PriceBar
	for iter.Next() {
		b := iter.Bar()
		bars = append(bars, model.PriceBar{
			Symbol: symbol,
			Date:   time.Unix(int64(b.Timestamp), 0).UTC().Truncate(24 * time.Hour),
			Open:   price(b.Open),
			High:   price(b.High),
			Low:    price(b.Low),
			Close:  price(b.Close),
			Volume: int64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	return bars, nil
}

// price converts Yahoo's decimal quote field to the float64 the indicators
// consume. Sub-cent residue is irrelevant at daily granularity.
func price(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Package universe provides the instrument universe scanned each day.
package universe

import "strings"

// Default is a representative 50-symbol slice of the S&P 500.
// Override with the UNIVERSE env var for a wider (or narrower) scan.
var Default = []string{
	"AAPL", "MSFT", "AMZN", "NVDA", "GOOGL", "META", "TSLA", "BRK-B", "UNH", "XOM",
	"JNJ", "JPM", "V", "PG", "MA", "HD", "CVX", "MRK", "ABBV", "LLY",
	"PEP", "COST", "KO", "AVGO", "WMT", "MCD", "CSCO", "TMO", "ACN", "ABT",
	"DHR", "NEE", "LIN", "ADBE", "CRM", "TXN", "NKE", "PM", "RTX", "ORCL",
	"AMD", "INTC", "NFLX", "UPS", "QCOM", "BA", "HON", "UNP", "IBM", "CAT",
}

// Parse splits a comma-separated symbol list, upper-casing and trimming
// each entry. An empty input returns the Default universe.
func Parse(s string) []string {
	if strings.TrimSpace(s) == "" {
		return Default
	}
	parts := strings.Split(s, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		symbols = append(symbols, p)
	}
	if len(symbols) == 0 {
		return Default
	}
	return symbols
}

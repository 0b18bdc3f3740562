// Package markethours answers "is the US equity market trading today".
// The scanner runs after the close, so only whole trading days matter
// here, not intraday session hours.
package markethours

import (
	"fmt"
	"time"
)

// ET is the US Eastern Time location (NYSE reference clock).
var ET = mustLoadET()

func mustLoadET() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// tzdata missing; EST without DST is close enough for a
		// day-granularity check.
		return time.FixedZone("EST", -5*3600)
	}
	return loc
}

// IsWeekday returns true if t is Mon–Fri in Eastern Time.
func IsWeekday(t time.Time) bool {
	wd := t.In(ET).Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

// IsTradingDay returns true if t is a weekday and not an exchange holiday.
func IsTradingDay(t time.Time) bool {
	et := t.In(ET)
	return IsWeekday(et) && !IsHoliday(et)
}

// NextTradingDay returns the next trading day strictly after t.
func NextTradingDay(t time.Time) time.Time {
	d := t.In(ET).AddDate(0, 0, 1)
	for i := 0; i < 10; i++ { // holidays + weekends never stack past 10 days
		if IsTradingDay(d) {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, ET)
		}
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, ET)
}

// StatusString returns a human-readable trading-day status for t.
func StatusString(t time.Time) string {
	et := t.In(ET)
	if IsTradingDay(et) {
		return fmt.Sprintf("Trading day (%s)", et.Format("Mon 2006-01-02"))
	}
	next := NextTradingDay(et)
	return fmt.Sprintf("Market closed %s — next trading day %s",
		et.Format("Mon 2006-01-02"), next.Format("Mon 2006-01-02"))
}

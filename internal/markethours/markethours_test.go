package markethours

import (
	"testing"
	"time"
)

func TestIsTradingDay(t *testing.T) {
	cases := []struct {
		name string
		date time.Time
		want bool
	}{
		{"regular Friday", time.Date(2026, time.August, 28, 12, 0, 0, 0, ET), true},
		{"Saturday", time.Date(2026, time.August, 29, 12, 0, 0, 0, ET), false},
		{"Sunday", time.Date(2026, time.August, 30, 12, 0, 0, 0, ET), false},
		{"Thanksgiving", time.Date(2026, time.November, 26, 12, 0, 0, 0, ET), false},
		{"Christmas", time.Date(2026, time.December, 25, 12, 0, 0, 0, ET), false},
		{"day after Christmas (Saturday)", time.Date(2026, time.December, 26, 12, 0, 0, 0, ET), false},
	}

	for _, tc := range cases {
		if got := IsTradingDay(tc.date); got != tc.want {
			t.Errorf("%s: IsTradingDay(%s) = %v, want %v", tc.name, tc.date.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestNextTradingDaySkipsWeekendAndHoliday(t *testing.T) {
	// Wednesday before Thanksgiving 2026: Thursday is a holiday,
	// so the next trading day is Friday.
	wed := time.Date(2026, time.November, 25, 18, 0, 0, 0, ET)
	next := NextTradingDay(wed)
	want := time.Date(2026, time.November, 27, 0, 0, 0, 0, ET)
	if !next.Equal(want) {
		t.Errorf("NextTradingDay = %s, want %s", next.Format("2006-01-02"), want.Format("2006-01-02"))
	}

	// Friday evening rolls over the weekend to Monday.
	fri := time.Date(2026, time.August, 28, 20, 0, 0, 0, ET)
	next = NextTradingDay(fri)
	want = time.Date(2026, time.August, 31, 0, 0, 0, 0, ET)
	if !next.Equal(want) {
		t.Errorf("NextTradingDay = %s, want %s", next.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

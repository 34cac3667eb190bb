package sqlite

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// timeLayout is RFC3339 with nanoseconds, always UTC. SQLite has no native
// datetime type; lexicographic order of this layout matches time order.
const timeLayout = "2006-01-02T15:04:05.999999999Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}

// formatAmount renders a monetary amount at currency scale (2 fractional
// digits, round half-up). Persisting is a display boundary per the money
// rules, so internal extra precision is rounded away here.
func formatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("sqlite: parse amount %q: %w", s, err)
	}
	return d, nil
}

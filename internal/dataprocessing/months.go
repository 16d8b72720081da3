package dataprocessing

import (
	"strconv"
	"time"

	"opcvcli/internal/dataset"
	"opcvcli/pkg/contracts/domain"
)

// The snapshot mixes two issue-date encodings: most rows carry a plain
// calendar date, a minority carry a full timestamp in a different token
// order. Both appear verbatim in the data, so resolution is two-tier with
// the fallback attempted only when the primary yields nothing.
const (
	primaryDateLayout  = "01/02/2006"          // month/day/four-digit-year
	fallbackDateLayout = "2006-01-02 15:04:05" // year-month-day time
)

// MonthOutcome is the tagged result of resolving an issue-date string to a
// canonical month. Unresolved is a first-class outcome: callers count and
// log it rather than dropping the row silently.
type MonthOutcome struct {
	Month    int
	Resolved bool
}

// ResolveMonth resolves a raw issue-date string to a canonical month 1-12.
// Exactly one parsing rule applies per row: the fallback is attempted only
// when the primary rule yields no value, so a row can never resolve twice.
func ResolveMonth(raw string) MonthOutcome {
	if ts, err := time.Parse(primaryDateLayout, raw); err == nil {
		return MonthOutcome{Month: int(ts.Month()), Resolved: true}
	}

	if ts, err := time.Parse(fallbackDateLayout, raw); err == nil {
		return MonthOutcome{Month: int(ts.Month()), Resolved: true}
	}

	return MonthOutcome{}
}

// MonthOf adapts ResolveMonth to the dataset month-aggregation hook
func MonthOf(v *domain.Violation) (int, bool) {
	out := ResolveMonth(v.IssueDate)
	return out.Month, out.Resolved
}

// KeyMonth groups rows by canonical month. Rows that resolve under neither
// rule report an unresolvable key and end up in Result.Unresolved.
func KeyMonth() dataset.KeyFunc {
	return func(v *domain.Violation) (string, bool) {
		out := ResolveMonth(v.IssueDate)
		if !out.Resolved {
			return "", false
		}
		return strconv.Itoa(out.Month), true
	}
}

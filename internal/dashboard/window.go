// AngelaMos | 2026
// window.go

package dashboard

import (
	"time"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
)

type Range string

const (
	RangeWeek      Range = "week"
	RangeMonth     Range = "month"
	RangeLastMonth Range = "lastMonth"
	RangeLast3     Range = "last3"
)

// Window is a resolved reporting range. It has no upper bound other than
// the moment it was resolved.
type Window struct {
	Range Range
	Start time.Time
	End   time.Time
}

// ResolveWindow maps a range token to its start using now's location for
// calendar math. Unknown tokens fall back to the current month.
//
// lastMonth starts on the first of the previous month and runs to now, so
// it covers the current month as well.
func ResolveWindow(token string, now time.Time) Window {
	r := Range(token)

	var start time.Time
	switch r {
	case RangeWeek:
		start = core.StartOfWeek(now)
	case RangeLastMonth:
		start = core.StartOfMonth(now, 1)
	case RangeLast3:
		start = core.StartOfMonth(now, 3)
	default:
		r = RangeMonth
		start = core.StartOfMonth(now, 0)
	}

	return Window{Range: r, Start: start, End: now}
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start)
}

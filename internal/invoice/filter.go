// AngelaMos | 2026
// filter.go

package invoice

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
)

const (
	DefaultPageSize = 20

	// MaxPage keeps the row offset inside a 32-bit range. Pages past it are
	// empty anyway.
	MaxPage = math.MaxInt32 / DefaultPageSize
)

type DateFilter string

const (
	DateToday      DateFilter = "today"
	DateThisWeek   DateFilter = "thisWeek"
	DateThisMonth  DateFilter = "thisMonth"
	DateLastMonth  DateFilter = "lastMonth"
	DateLast3Month DateFilter = "last3Months"
)

// Start resolves the filter to a lower creation bound. ok is false for an
// empty or unknown filter, which means no bound at all.
func (f DateFilter) Start(now time.Time) (time.Time, bool) {
	switch f {
	case DateToday:
		return core.StartOfDay(now), true
	case DateThisWeek:
		return core.StartOfWeek(now), true
	case DateThisMonth:
		return core.StartOfMonth(now, 0), true
	case DateLastMonth:
		return core.StartOfMonth(now, 1), true
	case DateLast3Month:
		return core.StartOfMonth(now, 3), true
	}
	return time.Time{}, false
}

type ListFilter struct {
	UserID        string
	Page          int
	PageSize      int
	Status        Status
	PaymentMethod string
	ClientPhone   string
	InvoiceNumber string
	CreatedFrom   time.Time
	OldestFirst   bool
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// ParseListQuery reads list query parameters. Unknown status and date filter
// values are ignored rather than rejected.
func ParseListQuery(q url.Values, userID string, now time.Time) ListFilter {
	f := ListFilter{
		UserID:        userID,
		Page:          1,
		PageSize:      DefaultPageSize,
		PaymentMethod: strings.TrimSpace(q.Get("paymentMethod")),
		ClientPhone:   strings.TrimSpace(q.Get("clientPhone")),
		InvoiceNumber: strings.TrimSpace(q.Get("invoiceNumber")),
		OldestFirst:   q.Get("sort") == "oldest",
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		f.Page = min(page, MaxPage)
	}

	if status := Status(q.Get("status")); status.Valid() {
		f.Status = status
	}

	if start, ok := DateFilter(q.Get("dateFilter")).Start(now); ok {
		f.CreatedFrom = start
	}

	return f
}

// AngelaMos | 2026
// aggregate.go

package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/templates/invoice-backend/internal/invoice"
)

const (
	dayLayout   = "2006-01-02"
	recentLimit = 5
)

// InvoiceRow is the slice of an invoice the aggregator reads.
type InvoiceRow struct {
	PaidAmount      decimal.Decimal `db:"paid_amount"`
	RemainingAmount decimal.Decimal `db:"remaining_amount"`
	Status          invoice.Status  `db:"status"`
	CreatedAt       time.Time       `db:"created_at"`
}

type RecentInvoice struct {
	InvoiceNumber string          `db:"invoice_number" json:"invoiceNumber"`
	ClientPhone   string          `db:"client_phone"   json:"clientPhone"`
	Total         decimal.Decimal `db:"total"          json:"total"`
	Status        invoice.Status  `db:"status"         json:"status"`
}

type StatusBreakdown struct {
	Paid    int64 `json:"paid"`
	Partial int64 `json:"partial"`
	Unpaid  int64 `json:"unpaid"`
}

type Stats struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	UnpaidBalance decimal.Decimal `json:"unpaidBalance"`
	TotalInvoices int             `json:"totalInvoices"`
	Status        StatusBreakdown `json:"status"`
}

type AmountSeries struct {
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
}

type CountSeries struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

type Charts struct {
	Income   AmountSeries `json:"income"`
	Invoices CountSeries  `json:"invoices"`
}

type Report struct {
	Stats          Stats           `json:"stats"`
	Charts         Charts          `json:"charts"`
	RecentInvoices []RecentInvoice `json:"recentInvoices"`
}

// Aggregate builds stats and daily charts from rows already restricted to
// the window. Rows outside it are skipped. Rows are expected in ascending
// creation order; chart days appear in the order they are first seen and
// days without invoices are left out.
func Aggregate(rows []InvoiceRow, window Window) Report {
	var (
		totalIncome   = decimal.Zero
		unpaidBalance = decimal.Zero
		counts        = make(map[invoice.Status]int64, 3)
		total         int

		labels   = []string{}
		income   = []decimal.Decimal{}
		invoices = []int{}
		dayIndex = make(map[string]int)
	)

	for _, row := range rows {
		if !window.Contains(row.CreatedAt) {
			continue
		}

		total++
		totalIncome = totalIncome.Add(row.PaidAmount)
		unpaidBalance = unpaidBalance.Add(row.RemainingAmount)
		counts[row.Status]++

		day := row.CreatedAt.UTC().Format(dayLayout)
		i, seen := dayIndex[day]
		if !seen {
			i = len(labels)
			dayIndex[day] = i
			labels = append(labels, day)
			income = append(income, decimal.Zero)
			invoices = append(invoices, 0)
		}
		income[i] = income[i].Add(row.PaidAmount)
		invoices[i]++
	}

	return Report{
		Stats: Stats{
			TotalIncome:   totalIncome,
			UnpaidBalance: unpaidBalance,
			TotalInvoices: total,
			Status: StatusBreakdown{
				Paid:    percent(counts[invoice.StatusPaid], total),
				Partial: percent(counts[invoice.StatusPartial], total),
				Unpaid:  percent(counts[invoice.StatusUnpaid], total),
			},
		},
		Charts: Charts{
			Income:   AmountSeries{Labels: labels, Values: income},
			Invoices: CountSeries{Labels: labels, Values: invoices},
		},
		RecentInvoices: []RecentInvoice{},
	}
}

// percent rounds half away from zero. Each status is rounded on its own, so
// the three shares need not add up to 100.
func percent(count int64, total int) int64 {
	if total == 0 {
		return 0
	}

	return decimal.NewFromInt(count).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(0).
		IntPart()
}

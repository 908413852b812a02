// AngelaMos | 2026
// entity.go

package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPartial, StatusPaid:
		return true
	}
	return false
}

// Invoice is owned by exactly one user. Total, RemainingAmount and Status
// are derived by Compute and never written from request input.
type Invoice struct {
	ID              string          `db:"id"`
	InvoiceNumber   string          `db:"invoice_number"`
	UserID          string          `db:"user_id"`
	ClientPhone     string          `db:"client_phone"`
	PaidAmount      decimal.Decimal `db:"paid_amount"`
	PaymentMethod   string          `db:"payment_method"`
	Note            string          `db:"note"`
	Total           decimal.Decimal `db:"total"`
	RemainingAmount decimal.Decimal `db:"remaining_amount"`
	Status          Status          `db:"status"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`

	Items []Item `db:"-"`
}

type Item struct {
	ID        string          `db:"id"`
	InvoiceID string          `db:"invoice_id"`
	Position  int             `db:"position"`
	Name      string          `db:"name"`
	Price     decimal.Decimal `db:"price"`
	Quantity  int64           `db:"quantity"`
	Subtotal  decimal.Decimal `db:"subtotal"`
}

// Apply copies a computed lifecycle onto the invoice.
func (inv *Invoice) Apply(c Computed) {
	inv.Items = c.Items
	inv.Total = c.Total
	inv.PaidAmount = c.PaidAmount
	inv.RemainingAmount = c.RemainingAmount
	inv.Status = c.Status
}

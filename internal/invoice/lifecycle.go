// AngelaMos | 2026
// lifecycle.go

package invoice

import (
	"github.com/shopspring/decimal"
)

// LineInput is a requested line item. Any client supplied subtotal is
// dropped before it gets here.
type LineInput struct {
	Name     string
	Price    decimal.Decimal
	Quantity int64
}

type Computed struct {
	Items           []Item
	Total           decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	Status          Status
}

// Compute derives subtotals, total, remaining balance and status. paid is
// the explicitly requested amount; nil falls back to existingPaid.
func Compute(
	lines []LineInput,
	paid *decimal.Decimal,
	existingPaid decimal.Decimal,
) Computed {
	items := make([]Item, 0, len(lines))
	total := decimal.Zero

	for i, line := range lines {
		subtotal := line.Price.Mul(decimal.NewFromInt(line.Quantity))
		total = total.Add(subtotal)

		items = append(items, Item{
			Position: i,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
			Subtotal: subtotal,
		})
	}

	effectivePaid := existingPaid
	if paid != nil {
		effectivePaid = *paid
	}

	status, remaining := Classify(total, effectivePaid)

	return Computed{
		Items:           items,
		Total:           total,
		PaidAmount:      effectivePaid,
		RemainingAmount: remaining,
		Status:          status,
	}
}

// Classify maps a total and a paid amount to a status and the balance still
// owed. Overpayment is accepted; the balance never goes below zero.
func Classify(total, paid decimal.Decimal) (Status, decimal.Decimal) {
	switch {
	case !paid.IsPositive():
		return StatusUnpaid, total.Sub(paid)
	case paid.GreaterThanOrEqual(total):
		return StatusPaid, decimal.Zero
	default:
		return StatusPartial, total.Sub(paid)
	}
}

// LinesFromItems turns persisted items back into inputs so an update that
// keeps the item set recomputes from stored prices.
func LinesFromItems(items []Item) []LineInput {
	lines := make([]LineInput, 0, len(items))
	for _, it := range items {
		lines = append(lines, LineInput{
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
		})
	}
	return lines
}

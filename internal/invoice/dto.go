// AngelaMos | 2026
// dto.go

package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemRequest struct {
	Name     string          `json:"name"     validate:"required,max=200"`
	Price    decimal.Decimal `json:"price"    validate:"gte=0,lte=1000000000"`
	Quantity int64           `json:"quantity" validate:"gte=0,max=1000000"`
}

type CreateInvoiceRequest struct {
	ClientPhone   string           `json:"clientPhone"   validate:"max=32"`
	Items         []ItemRequest    `json:"items"         validate:"required,min=1,max=200,dive"`
	PaidAmount    *decimal.Decimal `json:"paidAmount"    validate:"omitempty,gte=0,lte=999999999999.99"`
	PaymentMethod string           `json:"paymentMethod" validate:"max=50"`
	Note          string           `json:"note"          validate:"max=2000"`
}

// UpdateInvoiceRequest is a partial update. Nil fields keep their stored
// value; a non-nil Items replaces the whole item set.
type UpdateInvoiceRequest struct {
	ClientPhone   *string          `json:"clientPhone"   validate:"omitnil,max=32"`
	Items         []ItemRequest    `json:"items"         validate:"omitnil,min=1,max=200,dive"`
	PaidAmount    *decimal.Decimal `json:"paidAmount"    validate:"omitempty,gte=0,lte=999999999999.99"`
	PaymentMethod *string          `json:"paymentMethod" validate:"omitnil,max=50"`
	Note          *string          `json:"note"          validate:"omitnil,max=2000"`
}

type ItemResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type InvoiceResponse struct {
	ID              string          `json:"id"`
	InvoiceNumber   string          `json:"invoiceNumber"`
	ClientPhone     string          `json:"clientPhone"`
	Items           []ItemResponse  `json:"items"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	PaymentMethod   string          `json:"paymentMethod"`
	Note            string          `json:"note"`
	Total           decimal.Decimal `json:"total"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func ToInvoiceResponse(inv *Invoice) InvoiceResponse {
	items := make([]ItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, ItemResponse{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Subtotal: it.Subtotal,
		})
	}

	return InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		ClientPhone:     inv.ClientPhone,
		Items:           items,
		PaidAmount:      inv.PaidAmount,
		PaymentMethod:   inv.PaymentMethod,
		Note:            inv.Note,
		Total:           inv.Total,
		RemainingAmount: inv.RemainingAmount,
		Status:          inv.Status,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
}

func ToInvoiceResponses(invoices []Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, ToInvoiceResponse(&invoices[i]))
	}
	return out
}

func toLines(items []ItemRequest) []LineInput {
	lines := make([]LineInput, 0, len(items))
	for _, it := range items {
		lines = append(lines, LineInput{
			Name:     it.Name,
			Price:    it.Price.Round(moneyScale),
			Quantity: it.Quantity,
		})
	}
	return lines
}

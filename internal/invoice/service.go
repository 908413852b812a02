// AngelaMos | 2026
// service.go

package invoice

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
)

const (
	moneyScale       = 2
	numberSuffixMax  = 100000
	maxNumberRetries = 3
)

// ErrAmountOutOfRange reports a computed amount the numeric(14,2) columns
// cannot hold.
var ErrAmountOutOfRange = errors.New("amount exceeds the storable range")

var maxAmount = decimal.RequireFromString("999999999999.99")

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateInvoiceRequest,
) (inv *Invoice, err error) {
	ctx, span := core.StartSpan(ctx, "invoice.Create",
		attribute.Int("invoice.items", len(req.Items)),
	)
	defer func() { core.EndSpan(span, err) }()

	inv = &Invoice{
		ID:            uuid.New().String(),
		UserID:        userID,
		ClientPhone:   req.ClientPhone,
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
	}
	inv.Apply(Compute(toLines(req.Items), roundPtr(req.PaidAmount), decimal.Zero))
	if err = checkAmounts(inv); err != nil {
		return nil, err
	}
	assignItemIDs(inv.Items)

	if err = s.insert(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// insert numbers and stores a new invoice, drawing a fresh number when the
// previous one collided.
func (s *Service) insert(ctx context.Context, inv *Invoice) error {
	var err error
	for attempt := range maxNumberRetries {
		inv.InvoiceNumber, err = s.nextNumber()
		if err != nil {
			return err
		}

		err = s.repo.Create(ctx, inv)
		if !errors.Is(err, core.ErrDuplicateKey) || attempt == maxNumberRetries-1 {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}

	return nil
}

func (s *Service) Get(
	ctx context.Context,
	userID, id string,
) (*Invoice, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *Service) List(
	ctx context.Context,
	filter ListFilter,
) ([]Invoice, int, error) {
	return s.repo.List(ctx, filter)
}

// Update applies a partial update. Fields absent from req keep their stored
// values and the lifecycle is always recomputed from the resulting items.
func (s *Service) Update(
	ctx context.Context,
	userID, id string,
	req UpdateInvoiceRequest,
) (inv *Invoice, err error) {
	ctx, span := core.StartSpan(ctx, "invoice.Update",
		attribute.Bool("invoice.replace_items", req.Items != nil),
	)
	defer func() { core.EndSpan(span, err) }()

	inv, err = s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.ClientPhone != nil {
		inv.ClientPhone = *req.ClientPhone
	}
	if req.PaymentMethod != nil {
		inv.PaymentMethod = *req.PaymentMethod
	}
	if req.Note != nil {
		inv.Note = *req.Note
	}

	replaceItems := req.Items != nil
	lines := LinesFromItems(inv.Items)
	if replaceItems {
		lines = toLines(req.Items)
	}

	existing := inv.Items
	inv.Apply(Compute(lines, roundPtr(req.PaidAmount), inv.PaidAmount))
	if err = checkAmounts(inv); err != nil {
		return nil, err
	}

	if replaceItems {
		assignItemIDs(inv.Items)
	} else {
		inv.Items = existing
	}

	if err = s.repo.Update(ctx, inv, replaceItems); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// nextNumber builds INV-<unix millis>-<5 random digits>.
func (s *Service) nextNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(numberSuffixMax))
	if err != nil {
		return "", fmt.Errorf("generate invoice number: %w", err)
	}

	return fmt.Sprintf("INV-%d-%05d", s.now().UnixMilli(), n.Int64()), nil
}

func assignItemIDs(items []Item) {
	for i := range items {
		items[i].ID = uuid.New().String()
	}
}

func roundPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := d.Round(moneyScale)
	return &r
}

func checkAmounts(inv *Invoice) error {
	if inv.Total.GreaterThan(maxAmount) || inv.PaidAmount.GreaterThan(maxAmount) {
		return ErrAmountOutOfRange
	}
	for _, item := range inv.Items {
		if item.Price.GreaterThan(maxAmount) {
			return ErrAmountOutOfRange
		}
	}
	return nil
}

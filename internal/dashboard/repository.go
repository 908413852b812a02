// AngelaMos | 2026
// repository.go

package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
)

type Repository interface {
	InvoicesSince(
		ctx context.Context,
		userID string,
		start time.Time,
	) ([]InvoiceRow, error)
	RecentInvoices(
		ctx context.Context,
		userID string,
		limit int,
	) ([]RecentInvoice, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) InvoicesSince(
	ctx context.Context,
	userID string,
	start time.Time,
) ([]InvoiceRow, error) {
	query := `
		SELECT paid_amount, remaining_amount, status, created_at
		FROM invoices
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at ASC, id ASC`

	rows := []InvoiceRow{}
	if err := r.db.SelectContext(ctx, &rows, query, userID, start); err != nil {
		return nil, fmt.Errorf("list invoices since: %w", err)
	}

	return rows, nil
}

func (r *repository) RecentInvoices(
	ctx context.Context,
	userID string,
	limit int,
) ([]RecentInvoice, error) {
	query := `
		SELECT invoice_number, client_phone, total, status
		FROM invoices
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	recent := []RecentInvoice{}
	if err := r.db.SelectContext(ctx, &recent, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list recent invoices: %w", err)
	}

	return recent, nil
}

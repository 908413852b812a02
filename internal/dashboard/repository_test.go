// AngelaMos | 2026
// repository_test.go

package dashboard

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/invoice-backend/internal/invoice"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestRepository_InvoicesSince(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND created_at >= $2")).
		WithArgs("u1", start).
		WillReturnRows(sqlmock.NewRows([]string{"paid_amount", "remaining_amount", "status", "created_at"}).
			AddRow("100.00", "0.00", "paid", at).
			AddRow("0.00", "40.50", "unpaid", at.Add(time.Hour)))

	rows, err := repo.InvoicesSince(context.Background(), "u1", start)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, invoice.StatusUnpaid, rows[1].Status)
	require.Equal(t, "40.5", rows[1].RemainingAmount.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RecentInvoices(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC")).
		WithArgs("u1", 5).
		WillReturnRows(sqlmock.NewRows([]string{"invoice_number", "client_phone", "total", "status"}).
			AddRow("INV-2", "555", "10.00", "paid").
			AddRow("INV-1", "556", "12.00", "partial"))

	recent, err := repo.RecentInvoices(context.Background(), "u1", 5)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "INV-2", recent[0].InvoiceNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_PropagatesErrors(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta("FROM invoices")).WillReturnError(boom)

	_, err := repo.RecentInvoices(context.Background(), "u1", 5)
	require.ErrorIs(t, err, boom)
}

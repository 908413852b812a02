// AngelaMos | 2026
// repository_test.go

package invoice

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

var testNow = time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC)

func invoiceRows() *sqlmock.Rows {
	return sqlmock.NewRows(invoiceColumns)
}

func itemRows() *sqlmock.Rows {
	return sqlmock.NewRows(itemColumns)
}

func sampleInvoice() *Invoice {
	inv := &Invoice{
		ID:            "inv1",
		InvoiceNumber: "INV-1-00001",
		UserID:        "u1",
		ClientPhone:   "+15550001",
	}
	inv.Apply(Compute([]LineInput{
		{Name: "widget", Price: dec("100"), Quantity: 2},
		{Name: "bolt", Price: dec("50"), Quantity: 1},
	}, decPtr("100"), dec("0")))
	inv.Items[0].ID = "it1"
	inv.Items[1].ID = "it2"
	return inv
}

func TestRepository_Create(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	inv := sampleInvoice()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO invoices")).
		WithArgs("inv1", "INV-1-00001", "u1", "+15550001",
			sqlmock.AnyArg(), "", "", sqlmock.AnyArg(), sqlmock.AnyArg(), "partial", nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(testNow, testNow))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO invoice_items (id,invoice_id,position,name,price,quantity,subtotal) VALUES ($1,$2,$3,$4,$5,$6,$7),($8,$9,$10,$11,$12,$13,$14)",
	)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), inv))
	require.Equal(t, testNow, inv.CreatedAt)
	require.Equal(t, "inv1", inv.Items[1].InvoiceID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateDuplicateRollsBack(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO invoices")).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), sampleInvoice())
	require.ErrorIs(t, err, core.ErrDuplicateKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM invoices WHERE id = $1 AND user_id = $2")).
		WithArgs("inv1", "u1").
		WillReturnRows(invoiceRows().AddRow(
			"inv1", "INV-1-00001", "u1", "+15550001", "100.00",
			"cash", "", "250.00", "150.00", "partial", testNow, testNow,
		))
	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM invoice_items WHERE invoice_id IN ($1) ORDER BY invoice_id, position",
	)).
		WithArgs("inv1").
		WillReturnRows(itemRows().
			AddRow("it1", "inv1", 0, "widget", "100.00", 2, "200.00").
			AddRow("it2", "inv1", 1, "bolt", "50.00", 1, "50.00"))

	inv, err := repo.GetByID(context.Background(), "u1", "inv1")
	require.NoError(t, err)
	require.Equal(t, StatusPartial, inv.Status)
	require.True(t, inv.Total.Equal(dec("250")))
	require.Len(t, inv.Items, 2)
	require.Equal(t, "bolt", inv.Items[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByIDNotOwned(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM invoices WHERE id = $1 AND user_id = $2")).
		WithArgs("inv1", "intruder").
		WillReturnRows(invoiceRows())

	_, err := repo.GetByID(context.Background(), "intruder", "inv1")
	require.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListFilters(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	filter := ListFilter{
		UserID:      "u1",
		Page:        2,
		PageSize:    20,
		Status:      StatusPaid,
		ClientPhone: "555",
		CreatedFrom: from,
		OldestFirst: true,
	}

	where := "WHERE user_id = $1 AND status = $2 AND client_phone ILIKE $3 AND created_at >= $4"

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM invoices " + where)).
		WithArgs("u1", "paid", "%555%", from).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery(regexp.QuoteMeta(where + " ORDER BY created_at ASC, id LIMIT 20 OFFSET 20")).
		WithArgs("u1", "paid", "%555%", from).
		WillReturnRows(invoiceRows().AddRow(
			"inv21", "INV-2-00002", "u1", "555-1", "10.00",
			"card", "", "10.00", "0.00", "paid", testNow, testNow,
		))
	mock.ExpectQuery(regexp.QuoteMeta("FROM invoice_items WHERE invoice_id IN ($1)")).
		WithArgs("inv21").
		WillReturnRows(itemRows().AddRow("it9", "inv21", 0, "pen", "10.00", 1, "10.00"))

	invoices, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	require.Equal(t, 21, total)
	require.Len(t, invoices, 1)
	require.Len(t, invoices[0].Items, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListEmptySkipsItems(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM invoices WHERE user_id = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id LIMIT 20 OFFSET 0")).
		WillReturnRows(invoiceRows())

	invoices, total, err := repo.List(context.Background(), ListFilter{UserID: "u1", Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, invoices)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateReplacesItemsInTx(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	inv := sampleInvoice()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE invoices")).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(testNow))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM invoice_items WHERE invoice_id = $1")).
		WithArgs("inv1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO invoice_items")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), inv, true))
	require.Equal(t, testNow, inv.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateKeepsItems(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE invoices")).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(testNow))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), sampleInvoice(), false))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateNotFoundRollsBack(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE invoices")).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), sampleInvoice(), true)
	require.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM invoices WHERE id = $1 AND user_id = $2")).
		WithArgs("inv1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM invoices WHERE id = $1 AND user_id = $2")).
		WithArgs("inv1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "u1", "inv1"))
	require.ErrorIs(t, repo.Delete(context.Background(), "u1", "inv1"), core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateKeepsExplicitTimestamp(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	inv := sampleInvoice()
	backdated := time.Date(2025, 12, 24, 8, 0, 0, 0, time.UTC)
	inv.CreatedAt = backdated

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("COALESCE($11, NOW())")).
		WithArgs("inv1", "INV-1-00001", "u1", "+15550001",
			sqlmock.AnyArg(), "", "", sqlmock.AnyArg(), sqlmock.AnyArg(), "partial", backdated).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(backdated, backdated))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO invoice_items")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), inv))
	require.Equal(t, backdated, inv.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteAllForUser(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM invoices WHERE user_id = $1")).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := repo.DeleteAllForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.EqualValues(t, 7, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContainsPattern(t *testing.T) {
	t.Parallel()

	require.Equal(t, "%555%", containsPattern("555"))
	require.Equal(t, `%50\%\_off%`, containsPattern("50%_off"))
}

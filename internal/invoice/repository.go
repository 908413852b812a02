// AngelaMos | 2026
// repository.go

package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
)

// DB is what the repository needs from the pool: plain queries plus the
// ability to open a transaction for item replacement.
type DB interface {
	core.DBTX
	core.TxBeginner
}

type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, userID, id string) (*Invoice, error)
	List(ctx context.Context, filter ListFilter) ([]Invoice, int, error)
	Update(ctx context.Context, inv *Invoice, replaceItems bool) error
	Delete(ctx context.Context, userID, id string) error
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

type repository struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &repository{db: db}
}

var invoiceColumns = []string{
	"id", "invoice_number", "user_id", "client_phone", "paid_amount",
	"payment_method", "note", "total", "remaining_amount", "status",
	"created_at", "updated_at",
}

var itemColumns = []string{
	"id", "invoice_id", "position", "name", "price", "quantity", "subtotal",
}

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func (r *repository) Create(ctx context.Context, inv *Invoice) error {
	query := `
		INSERT INTO invoices (
			id, invoice_number, user_id, client_phone, paid_amount,
			payment_method, note, total, remaining_amount, status,
			created_at, updated_at
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			COALESCE($11, NOW()), COALESCE($11, NOW())
		)
		RETURNING created_at, updated_at`

	var createdAt any
	if !inv.CreatedAt.IsZero() {
		createdAt = inv.CreatedAt
	}

	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, query,
			inv.ID,
			inv.InvoiceNumber,
			inv.UserID,
			inv.ClientPhone,
			inv.PaidAmount,
			inv.PaymentMethod,
			inv.Note,
			inv.Total,
			inv.RemainingAmount,
			inv.Status,
			createdAt,
		).Scan(&inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			if isDuplicateKeyError(err) {
				return fmt.Errorf("create invoice: %w", core.ErrDuplicateKey)
			}
			return fmt.Errorf("create invoice: %w", err)
		}

		return insertItems(ctx, tx, inv)
	})
}

func (r *repository) GetByID(
	ctx context.Context,
	userID, id string,
) (*Invoice, error) {
	query, args, err := psql().
		Select(invoiceColumns...).
		From("invoices").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get invoice query: %w", err)
	}

	var inv Invoice
	err = r.db.GetContext(ctx, &inv, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get invoice: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	invoices := []Invoice{inv}
	if err := r.loadItems(ctx, invoices); err != nil {
		return nil, err
	}

	return &invoices[0], nil
}

func (r *repository) List(
	ctx context.Context,
	filter ListFilter,
) ([]Invoice, int, error) {
	countQuery, countArgs, err := applyListFilter(
		psql().Select("count(*)").From("invoices"),
		filter,
	).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	order := "created_at DESC"
	if filter.OldestFirst {
		order = "created_at ASC"
	}

	//nolint:gosec // G115: ParseListQuery clamps page to MaxPage, so offset is non-negative
	limit, offset := uint64(filter.PageSize), uint64(filter.Offset())

	stmt := applyListFilter(psql().Select(invoiceColumns...).From("invoices"), filter).
		OrderBy(order, "id").
		Limit(limit).
		Offset(offset)

	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	invoices := []Invoice{}
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}

	if err := r.loadItems(ctx, invoices); err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

func applyListFilter(stmt sq.SelectBuilder, f ListFilter) sq.SelectBuilder {
	stmt = stmt.Where(sq.Eq{"user_id": f.UserID})

	if f.Status != "" {
		stmt = stmt.Where(sq.Eq{"status": f.Status})
	}
	if f.PaymentMethod != "" {
		stmt = stmt.Where(sq.Eq{"payment_method": f.PaymentMethod})
	}
	if f.ClientPhone != "" {
		stmt = stmt.Where(sq.ILike{"client_phone": containsPattern(f.ClientPhone)})
	}
	if f.InvoiceNumber != "" {
		stmt = stmt.Where(sq.ILike{"invoice_number": containsPattern(f.InvoiceNumber)})
	}
	if !f.CreatedFrom.IsZero() {
		stmt = stmt.Where(sq.GtOrEq{"created_at": f.CreatedFrom})
	}

	return stmt
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Update rewrites the invoice row and, when replaceItems is set, swaps the
// whole item set. Readers never observe the invoice between the delete and
// the insert.
func (r *repository) Update(
	ctx context.Context,
	inv *Invoice,
	replaceItems bool,
) error {
	query := `
		UPDATE invoices
		SET client_phone = $3,
		    paid_amount = $4,
		    payment_method = $5,
		    note = $6,
		    total = $7,
		    remaining_amount = $8,
		    status = $9,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, query,
			inv.ID,
			inv.UserID,
			inv.ClientPhone,
			inv.PaidAmount,
			inv.PaymentMethod,
			inv.Note,
			inv.Total,
			inv.RemainingAmount,
			inv.Status,
		).Scan(&inv.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update invoice: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}

		if !replaceItems {
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID)
		if err != nil {
			return fmt.Errorf("delete invoice items: %w", err)
		}

		return insertItems(ctx, tx, inv)
	})
}

func (r *repository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM invoices WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete invoice: %w", core.ErrNotFound)
	}

	return nil
}

// DeleteAllForUser removes every invoice the user owns and reports how many
// went away.
func (r *repository) DeleteAllForUser(
	ctx context.Context,
	userID string,
) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM invoices WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user invoices: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete user invoices: %w", err)
	}

	return rows, nil
}

func insertItems(ctx context.Context, tx *sqlx.Tx, inv *Invoice) error {
	if len(inv.Items) == 0 {
		return nil
	}

	stmt := psql().Insert("invoice_items").Columns(itemColumns...)
	for i := range inv.Items {
		it := &inv.Items[i]
		it.InvoiceID = inv.ID
		stmt = stmt.Values(
			it.ID, it.InvoiceID, it.Position, it.Name,
			it.Price, it.Quantity, it.Subtotal,
		)
	}

	query, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert invoice items: %w", err)
	}

	return nil
}

// loadItems fills Items on every invoice with one query.
func (r *repository) loadItems(ctx context.Context, invoices []Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	ids := make([]string, 0, len(invoices))
	index := make(map[string]int, len(invoices))
	for i := range invoices {
		ids = append(ids, invoices[i].ID)
		index[invoices[i].ID] = i
		invoices[i].Items = []Item{}
	}

	query, args, err := psql().
		Select(itemColumns...).
		From("invoice_items").
		Where(sq.Eq{"invoice_id": ids}).
		OrderBy("invoice_id", "position").
		ToSql()
	if err != nil {
		return fmt.Errorf("build items query: %w", err)
	}

	var items []Item
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return fmt.Errorf("load invoice items: %w", err)
	}

	for _, it := range items {
		if i, ok := index[it.InvoiceID]; ok {
			invoices[i].Items = append(invoices[i].Items, it)
		}
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

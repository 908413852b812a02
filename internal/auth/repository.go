// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
)

type Repository interface {
	UpsertOTP(ctx context.Context, otp *OTP) error
	GetOTP(ctx context.Context, email string) (*OTP, error)
	DeleteOTP(ctx context.Context, email string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) UpsertOTP(ctx context.Context, otp *OTP) error {
	query := `
		INSERT INTO otps (email, code, expire_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
		SET code = EXCLUDED.code,
		    expire_at = EXCLUDED.expire_at,
		    created_at = NOW()
		RETURNING created_at`

	err := r.db.GetContext(ctx, &otp.CreatedAt, query,
		otp.Email,
		otp.Code,
		otp.ExpireAt,
	)
	if err != nil {
		return fmt.Errorf("upsert otp: %w", err)
	}

	return nil
}

func (r *repository) GetOTP(ctx context.Context, email string) (*OTP, error) {
	query := `
		SELECT email, code, expire_at, created_at
		FROM otps
		WHERE email = $1`

	var otp OTP
	err := r.db.GetContext(ctx, &otp, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get otp: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get otp: %w", err)
	}

	return &otp, nil
}

func (r *repository) DeleteOTP(ctx context.Context, email string) error {
	query := `DELETE FROM otps WHERE email = $1`

	if _, err := r.db.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}

	return nil
}

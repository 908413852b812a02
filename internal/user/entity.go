// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID             string     `db:"id"`
	Email          string     `db:"email"`
	Name           string     `db:"name"`
	PasswordHash   string     `db:"password_hash"`
	IsVerified     bool       `db:"is_verified"`
	ResetTokenHash *string    `db:"reset_token_hash"`
	ResetExpiresAt *time.Time `db:"reset_expires_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// AngelaMos | 2026
// entity.go

package auth

import (
	"time"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
)

// OTP is the pending email verification challenge. There is at most one
// per email; a new registration attempt overwrites the previous code.
type OTP struct {
	Email     string    `db:"email"`
	Code      string    `db:"code"`
	ExpireAt  time.Time `db:"expire_at"`
	CreatedAt time.Time `db:"created_at"`
}

func (o *OTP) IsExpired(now time.Time) bool {
	return o.ExpireAt.Before(now)
}

// Matches compares codes in constant time.
func (o *OTP) Matches(code string) bool {
	return core.ConstantTimeEqual(o.Code, code)
}

// AngelaMos | 2026
// templates.go

package mail

import (
	"fmt"
	"html"
	"strings"
)

const (
	SubjectVerifyEmail   = "Verify your email"
	SubjectResetPassword = "Reset Password"
)

func VerifyEmailBody(code string) string {
	return fmt.Sprintf("<h2>Your OTP is: %s</h2>", html.EscapeString(code))
}

func ResetLink(clientURL, token string) string {
	return strings.TrimRight(clientURL, "/") + "/reset-password/" + token
}

func ResetPasswordBody(link string) string {
	escaped := html.EscapeString(link)
	return fmt.Sprintf(`<a href="%s">Reset Password</a>`, escaped)
}

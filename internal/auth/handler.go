// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
	"github.com/carterperez-dev/templates/invoice-backend/internal/middleware"
)

const maxBodyBytes = 1 << 20

type CookieSettings struct {
	Name   string
	Domain string
	Secure bool
}

type Handler struct {
	service   *Service
	validator *validator.Validate
	cookie    CookieSettings
}

func NewHandler(service *Service, cookie CookieSettings) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
		cookie:    cookie,
	}
}

// RegisterRoutes mounts /auth. limiter guards the unauthenticated routes
// that send mail or check credentials and may be nil.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	limiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter)
			}
			r.Post("/register", h.Register)
			r.Post("/verify-otp", h.VerifyOTP)
			r.Post("/login", h.Login)
			r.Post("/forgot-password", h.ForgotPassword)
			r.Post("/reset-password/{token}", h.ResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.GetMe)
			r.Post("/logout", h.Logout)
		})
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.bind(w, r, &req) {
		return
	}

	if err := h.service.Register(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, ErrEmailExists):
			core.JSONError(w, emailExistsError())
		case errors.Is(err, ErrOTPThrottled):
			core.JSONError(w, core.TooManyRequestsError(
				"OTP already sent, please wait before requesting another",
			))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OKMessage(w, "OTP sent to email", nil)
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if !h.bind(w, r, &req) {
		return
	}

	user, err := h.service.VerifyOTP(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidOTP):
			core.BadRequest(w, "Invalid or expired OTP")
		case errors.Is(err, ErrEmailExists):
			core.JSONError(w, emailExistsError())
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OKMessage(w, "Account created successfully", AccountResponse{
		ID:    user.ID,
		Email: user.Email,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.bind(w, r, &req) {
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.JSONError(w, core.NewAppError(
				err, "User not found", http.StatusNotFound, "NOT_FOUND",
			))
		case errors.Is(err, ErrUnverified):
			core.JSONError(w, core.NewAppError(
				err, "Verify email first", http.StatusUnauthorized, "UNVERIFIED",
			))
		case errors.Is(err, ErrInvalidCredentials):
			core.JSONError(w, core.NewAppError(
				err, "Invalid credentials", http.StatusBadRequest, "INVALID_CREDENTIALS",
			))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	h.setSessionCookie(w, res.Session.Token, res.Session.ExpiresAt)

	core.OKMessage(w, "Logged in successfully", AccountResponse{
		ID:    res.User.ID,
		Email: res.User.Email,
	})
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.bind(w, r, &req) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OKMessage(w, "If email exists, reset link sent", nil)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.bind(w, r, &req) {
		return
	}

	token := chi.URLParam(r, "token")

	if err := h.service.ResetPassword(r.Context(), token, req.Password); err != nil {
		if errors.Is(err, ErrInvalidResetToken) {
			core.BadRequest(w, "Invalid or expired token")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OKMessage(w, "Password updated successfully", nil)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.Unauthorized(w, "User not found")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), middleware.GetClaims(r.Context())); err != nil {
		core.InternalServerError(w, err)
		return
	}

	h.clearSessionCookie(w)
	core.OKMessage(w, "Logged out successfully", nil)
}

func (h *Handler) bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}

func (h *Handler) setSessionCookie(
	w http.ResponseWriter,
	token string,
	expiresAt time.Time,
) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Domain:   h.cookie.Domain,
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Domain:   h.cookie.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func emailExistsError() *core.AppError {
	return core.NewAppError(
		ErrEmailExists,
		"Email already registered",
		http.StatusBadRequest,
		"DUPLICATE",
	)
}

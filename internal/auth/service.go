// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/templates/invoice-backend/internal/config"
	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
	"github.com/carterperez-dev/templates/invoice-backend/internal/mail"
	"github.com/carterperez-dev/templates/invoice-backend/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already registered")
	ErrUnverified         = errors.New("email not verified")
	ErrInvalidOTP         = errors.New("invalid or expired otp")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrOTPThrottled       = errors.New("otp requested too recently")
)

type UserInfo struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	IsVerified   bool
	CreatedAt    time.Time
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateVerified(
		ctx context.Context,
		email, passwordHash, name string,
	) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SetResetToken(
		ctx context.Context,
		userID, tokenHash string,
		expiresAt time.Time,
	) error
	ConsumeResetToken(
		ctx context.Context,
		tokenHash, passwordHash string,
		now time.Time,
	) error
}

type Settings struct {
	OTPLength      int
	OTPTTL         time.Duration
	ResendCooldown time.Duration
	ResetTTL       time.Duration
	ClientURL      string
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		OTPLength:      cfg.OTP.Length,
		OTPTTL:         cfg.OTP.TTL,
		ResendCooldown: cfg.OTP.ResendCooldown,
		ResetTTL:       cfg.Reset.TTL,
		ClientURL:      cfg.Reset.ClientURL,
	}
}

const resetTokenBytes = 32

type Service struct {
	repo     Repository
	sessions *SessionManager
	users    UserProvider
	hasher   *core.PasswordHasher
	notifier mail.Notifier
	redis    *core.Redis
	settings Settings
	now      func() time.Time
}

func NewService(
	repo Repository,
	sessions *SessionManager,
	users UserProvider,
	hasher *core.PasswordHasher,
	notifier mail.Notifier,
	redisClient *core.Redis,
	settings Settings,
) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		users:    users,
		hasher:   hasher,
		notifier: notifier,
		redis:    redisClient,
		settings: settings,
		now:      time.Now,
	}
}

// Register starts email verification by mailing a fresh OTP. Repeated
// requests for one email inside the resend cooldown are refused.
func (s *Service) Register(ctx context.Context, email string) (err error) {
	ctx, span := core.StartSpan(ctx, "auth.Register")
	defer func() { core.EndSpan(span, err) }()

	email = core.NormalizeEmail(email)

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return ErrEmailExists
	}

	acquired, err := s.acquireCooldown(ctx, email)
	if err != nil {
		slog.WarnContext(ctx, "otp cooldown unavailable, continuing",
			"error", err,
		)
	} else if !acquired {
		return ErrOTPThrottled
	}

	code, err := core.GenerateNumericCode(s.settings.OTPLength)
	if err != nil {
		s.releaseCooldown(ctx, email)
		return fmt.Errorf("generate otp: %w", err)
	}

	otp := &OTP{
		Email:    email,
		Code:     code,
		ExpireAt: s.now().Add(s.settings.OTPTTL),
	}
	if err := s.repo.UpsertOTP(ctx, otp); err != nil {
		s.releaseCooldown(ctx, email)
		return fmt.Errorf("store otp: %w", err)
	}

	err = s.notifier.Send(
		ctx,
		email,
		mail.SubjectVerifyEmail,
		mail.VerifyEmailBody(code),
	)
	if err != nil {
		s.releaseCooldown(ctx, email)
		return fmt.Errorf("send otp: %w", err)
	}

	return nil
}

// VerifyOTP redeems the emailed code and creates the verified account.
func (s *Service) VerifyOTP(
	ctx context.Context,
	req VerifyOTPRequest,
) (info *UserInfo, err error) {
	ctx, span := core.StartSpan(ctx, "auth.VerifyOTP")
	defer func() { core.EndSpan(span, err) }()

	email := core.NormalizeEmail(req.Email)

	otp, err := s.repo.GetOTP(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("load otp: %w", err)
	}

	if !otp.Matches(req.OTP) || otp.IsExpired(s.now()) {
		return nil, ErrInvalidOTP
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	info, err = s.users.CreateVerified(ctx, email, passwordHash, req.Name)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.repo.DeleteOTP(ctx, email); err != nil {
		slog.WarnContext(ctx, "failed to delete consumed otp",
			"error", err,
		)
	}

	return info, nil
}

type LoginResult struct {
	User    *UserInfo
	Session *IssuedSession
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (res *LoginResult, err error) {
	ctx, span := core.StartSpan(ctx, "auth.Login")
	defer func() { core.EndSpan(span, err) }()

	user, err := s.users.GetByEmail(ctx, core.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("login: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.IsVerified {
		return nil, ErrUnverified
	}

	valid, rehash, err := s.hasher.VerifyTimingSafe(
		req.Password,
		user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	if rehash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, rehash); err != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	session, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	return &LoginResult{User: user, Session: session}, nil
}

// ForgotPassword mails a reset link when the account exists. Unknown emails
// and delivery failures are indistinguishable from success to the caller.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, core.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	token, err := core.GenerateHexToken(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expiresAt := s.now().Add(s.settings.ResetTTL)
	err = s.users.SetResetToken(ctx, user.ID, core.HashToken(token), expiresAt)
	if err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := mail.ResetLink(s.settings.ClientURL, token)
	err = s.notifier.Send(
		ctx,
		user.Email,
		mail.SubjectResetPassword,
		mail.ResetPasswordBody(link),
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send reset email",
			"user_id", user.ID,
			"error", err,
		)
	}

	return nil
}

func (s *Service) ResetPassword(
	ctx context.Context,
	token, password string,
) error {
	if token == "" {
		return ErrInvalidResetToken
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.users.ConsumeResetToken(
		ctx,
		core.HashToken(token),
		passwordHash,
		s.now(),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("reset password: %w", err)
	}

	return nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserInfo, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.users.GetByID(ctx, userID)
}

// Logout revokes the session's token id until the token would have expired
// on its own.
func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.SessionClaims,
) error {
	if claims == nil || claims.TokenID == "" {
		return nil
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Flag(ctx, revokedSessionKey(claims.TokenID), ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

// VerifySession implements middleware.SessionVerifier.
func (s *Service) VerifySession(
	ctx context.Context,
	token string,
) (*middleware.SessionClaims, error) {
	claims, err := s.sessions.Verify(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.redis.Flagged(ctx, revokedSessionKey(claims.TokenID))
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("verify session: %w", core.ErrTokenRevoked)
	}

	if _, err := s.users.GetByID(ctx, claims.UserID); err != nil {
		return nil, fmt.Errorf("verify session: %w", err)
	}

	return claims, nil
}

func (s *Service) acquireCooldown(
	ctx context.Context,
	email string,
) (bool, error) {
	if s.settings.ResendCooldown <= 0 {
		return true, nil
	}

	return s.redis.Claim(ctx, otpCooldownKey(email), s.settings.ResendCooldown)
}

func (s *Service) releaseCooldown(ctx context.Context, email string) {
	if s.settings.ResendCooldown <= 0 {
		return
	}

	if err := s.redis.Release(ctx, otpCooldownKey(email)); err != nil {
		slog.WarnContext(ctx, "failed to release otp cooldown",
			"error", err,
		)
	}
}

func otpCooldownKey(email string) string {
	return "otp:cooldown:" + email
}

func revokedSessionKey(tokenID string) string {
	return "session:revoked:" + tokenID
}

var _ middleware.SessionVerifier = (*Service)(nil)

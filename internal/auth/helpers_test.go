// AngelaMos | 2026
// helpers_test.go

package auth

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/invoice-backend/internal/config"
	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
)

type memUsers struct {
	mu      sync.Mutex
	byID    map[string]*UserInfo
	resets  map[string]resetEntry
	updated map[string]string
}

type resetEntry struct {
	userID    string
	expiresAt time.Time
}

func newMemUsers() *memUsers {
	return &memUsers{
		byID:    map[string]*UserInfo{},
		resets:  map[string]resetEntry{},
		updated: map[string]string{},
	}
}

func (m *memUsers) add(u *UserInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[u.ID] = u
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, core.ErrNotFound
}

func (m *memUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memUsers) CreateVerified(
	ctx context.Context,
	email, passwordHash, name string,
) (*UserInfo, error) {
	if exists, _ := m.EmailExists(ctx, email); exists {
		return nil, core.ErrDuplicateKey
	}
	u := &UserInfo{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		IsVerified:   true,
		CreatedAt:    time.Now(),
	}
	m.add(u)
	cp := *u
	return &cp, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = passwordHash
	m.updated[userID] = passwordHash
	return nil
}

func (m *memUsers) SetResetToken(
	_ context.Context,
	userID, tokenHash string,
	expiresAt time.Time,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[tokenHash] = resetEntry{userID: userID, expiresAt: expiresAt}
	return nil
}

func (m *memUsers) ConsumeResetToken(
	_ context.Context,
	tokenHash, passwordHash string,
	now time.Time,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.resets[tokenHash]
	if !ok || !entry.expiresAt.After(now) {
		return core.ErrNotFound
	}
	delete(m.resets, tokenHash)
	m.byID[entry.userID].PasswordHash = passwordHash
	return nil
}

type memOTPs struct {
	mu   sync.Mutex
	otps map[string]OTP
}

func newMemOTPs() *memOTPs {
	return &memOTPs{otps: map[string]OTP{}}
}

func (m *memOTPs) UpsertOTP(_ context.Context, otp *OTP) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	otp.CreatedAt = time.Now()
	m.otps[otp.Email] = *otp
	return nil
}

func (m *memOTPs) GetOTP(_ context.Context, email string) (*OTP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	otp, ok := m.otps[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &otp, nil
}

func (m *memOTPs) DeleteOTP(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.otps, email)
	return nil
}

type sentMail struct {
	to, subject, body string
}

type captureNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (c *captureNotifier) Send(_ context.Context, to, subject, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (c *captureNotifier) Ping(context.Context) error { return nil }

func (c *captureNotifier) last(t *testing.T) sentMail {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.sent)
	return c.sent[len(c.sent)-1]
}

var testArgon2 = core.Argon2Params{
	Time:    1,
	Memory:  8 * 1024,
	Threads: 1,
	KeyLen:  32,
	SaltLen: 16,
}

func testSessionConfig(t *testing.T) config.SessionConfig {
	t.Helper()

	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")
	require.NoError(t, GenerateKeyPair(priv, pub))

	return config.SessionConfig{
		PrivateKeyPath: priv,
		PublicKeyPath:  pub,
		TokenExpire:    7 * 24 * time.Hour,
		Issuer:         "invoice-backend",
		Audience:       "invoice-backend-api",
		CookieName:     "token",
	}
}

type harness struct {
	svc      *Service
	users    *memUsers
	otps     *memOTPs
	notifier *captureNotifier
	hasher   *core.PasswordHasher
	mr       *miniredis.Miniredis
	sessions *SessionManager
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	sessions, err := NewSessionManager(testSessionConfig(t))
	require.NoError(t, err)

	hasher, err := core.NewPasswordHasher(testArgon2)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	h := &harness{
		users:    newMemUsers(),
		otps:     newMemOTPs(),
		notifier: &captureNotifier{},
		hasher:   hasher,
		mr:       mr,
		sessions: sessions,
	}

	h.svc = NewService(h.otps, sessions, h.users, hasher, h.notifier, core.NewRedisFromClient(rdb), Settings{
		OTPLength:      6,
		OTPTTL:         5 * time.Minute,
		ResendCooldown: time.Minute,
		ResetTTL:       15 * time.Minute,
		ClientURL:      "http://localhost:3000",
	})

	return h
}

func (h *harness) seedUser(t *testing.T, email, password string, verified bool) *UserInfo {
	t.Helper()

	hash, err := h.hasher.Hash(password)
	require.NoError(t, err)

	u := &UserInfo{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         "Seeded",
		PasswordHash: hash,
		IsVerified:   verified,
		CreatedAt:    time.Now(),
	}
	h.users.add(u)
	return u
}

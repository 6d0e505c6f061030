package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/model"
	"github.com/iliyamo/cinema-booking-web/internal/store"
)

const keyPrefix = "auth:"

// Session is the authentication state of one browsing session.
type Session struct {
	Token     string     `json:"token"`
	User      model.User `json:"user"`
	Role      string     `json:"role,omitempty"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Manager persists Sessions through a store.Store keyed by session id.
type Manager struct {
	store  store.Store
	ttl    time.Duration
	secret string
	logger echo.Logger
	now    func() time.Time
}

// NewManager panics on nil dependencies.  ttl caps how long a session is
// kept when the token itself carries no expiry.
func NewManager(st store.Store, ttl time.Duration, secret string, logger echo.Logger) *Manager {
	if st == nil || logger == nil {
		panic("nil dependency passed to auth.NewManager")
	}
	return &Manager{store: st, ttl: ttl, secret: secret, logger: logger, now: time.Now}
}

// Secret returns the configured HS256 secret, possibly empty.
func (m *Manager) Secret() string { return m.secret }

// Save records token and user for sid.  The session lives until the token
// expiry or the manager TTL, whichever comes first.
func (m *Manager) Save(ctx context.Context, sid, token string, user model.User) (Session, error) {
	claims, err := ParseClaims(token, m.secret)
	if err != nil {
		return Session{}, err
	}
	now := m.now()
	exp := now.Add(m.ttl)
	if !claims.ExpiresAt.IsZero() && claims.ExpiresAt.Before(exp) {
		exp = claims.ExpiresAt
	}
	role := claims.Role
	if role == "" {
		role = user.Role
	}
	s := Session{Token: token, User: user, Role: role, ExpiresAt: exp}
	b, err := json.Marshal(s)
	if err != nil {
		return Session{}, err
	}
	if err := m.store.Set(ctx, keyPrefix+sid, b, exp.Sub(now)); err != nil {
		m.logger.Warnf("auth: persist session: %v", err)
		return s, err
	}
	return s, nil
}

// Load returns the session for sid if one exists and has not expired.
func (m *Manager) Load(ctx context.Context, sid string) (Session, bool) {
	b, err := m.store.Get(ctx, keyPrefix+sid)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.logger.Warnf("auth: load session: %v", err)
		}
		return Session{}, false
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		m.logger.Warnf("auth: discard corrupt session: %v", err)
		m.Clear(ctx, sid)
		return Session{}, false
	}
	if !m.now().Before(s.ExpiresAt) {
		m.Clear(ctx, sid)
		return Session{}, false
	}
	return s, true
}

// Clear logs the session out.
func (m *Manager) Clear(ctx context.Context, sid string) {
	if err := m.store.Delete(ctx, keyPrefix+sid); err != nil {
		m.logger.Warnf("auth: clear session: %v", err)
	}
}

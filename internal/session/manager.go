package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"descartables/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid session token")

// Manager binds session records to browser cookies. The cookie holds an
// HS256 token whose jti is the session id; the token expires with the record.
type Manager struct {
	store      Store
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

func NewManager(store Store, cfg config.SessionConfig) *Manager {
	return &Manager{
		store:      store,
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TTL,
		cookieName: cfg.CookieName,
		secure:     cfg.CookieSecure,
		now:        time.Now,
	}
}

// New returns an empty, unsaved session with a fresh id.
func (m *Manager) New() *Session {
	return &Session{ID: uuid.NewString()}
}

// Load returns the session named by the request cookie. A missing, forged or
// expired cookie, or a record that has expired, yields a new empty session.
// Only store failures are returned as errors.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return m.New(), nil
	}

	id, err := m.parseToken(cookie.Value)
	if err != nil {
		return m.New(), nil
	}

	sess, err := m.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return m.New(), nil
		}
		return nil, err
	}
	sess.ID = id
	return sess, nil
}

// Save persists sess and (re)issues its cookie, extending the expiry.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if err := m.store.Put(ctx, sess, m.ttl); err != nil {
		return err
	}

	token, err := m.signToken(sess.ID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy removes the record, principal and cart at once, and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if err := m.store.Delete(ctx, sess.ID); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Renew moves the contents of sess to a new id and deletes the old record,
// so a session id seen before login is useless after it.
func (m *Manager) Renew(ctx context.Context, sess *Session) (*Session, error) {
	if err := m.store.Delete(ctx, sess.ID); err != nil {
		return nil, err
	}
	renewed := *sess
	renewed.ID = uuid.NewString()
	return &renewed, nil
}

func (m *Manager) signToken(id string) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (m *Manager) parseToken(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}

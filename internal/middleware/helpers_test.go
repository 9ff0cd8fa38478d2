package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"descartables/internal/config"
	"descartables/internal/domain"
	"descartables/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newSessionManager(t *testing.T) *session.Manager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return session.NewManager(session.NewRedisStore(client, "session"), config.SessionConfig{
		Secret:     "test-secret",
		TTL:        time.Hour,
		CookieName: "session",
	})
}

// loggedInRequest saves a session for principal (nil for anonymous) and
// returns a request carrying its cookie.
func loggedInRequest(t *testing.T, m *session.Manager, method, path string, principal *domain.Principal) *http.Request {
	t.Helper()
	sess := m.New()
	sess.Principal = principal

	w := httptest.NewRecorder()
	require.NoError(t, m.Save(context.Background(), w, sess))

	req := httptest.NewRequest(method, path, nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

// reload reads back the session named by the cookies set on resp, falling
// back to the cookies of req.
func reload(t *testing.T, m *session.Manager, req *http.Request, resp *httptest.ResponseRecorder) *session.Session {
	t.Helper()
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	cookies := resp.Result().Cookies()
	if len(cookies) == 0 {
		cookies = req.Cookies()
	}
	for _, c := range cookies {
		next.AddCookie(c)
	}
	sess, err := m.Load(next)
	require.NoError(t, err)
	return sess
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

var (
	adminPrincipal = &domain.Principal{AccountID: 1, Username: "admin", Role: domain.RoleAdmin}
	userPrincipal  = &domain.Principal{AccountID: 2, Username: "user", Role: domain.RoleUser}
)

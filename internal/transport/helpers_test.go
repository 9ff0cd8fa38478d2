package transport

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"descartables/internal/config"
	"descartables/internal/messaging"
	"descartables/internal/middleware"
	"descartables/internal/service"
	"descartables/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testOrder = config.OrderConfig{
	WhatsAppNumber: "+543517594749",
	Currency:       "S/",
	Title:          "Pedido de productos descartables",
	TotalLabel:     "Total a abonar",
	Closing:        "¡Gracias por tu pedido!",
}

func fixedClock() time.Time {
	return time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)
}

type testApp struct {
	server   *httptest.Server
	products *memProductRepository
	redis    *miniredis.Miniredis
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	logger := zap.NewNop()
	sessions := session.NewManager(session.NewRedisStore(redisClient, "session"), config.SessionConfig{
		Secret:     "test-secret",
		TTL:        time.Hour,
		CookieName: "session",
	})
	views, err := NewViews()
	require.NoError(t, err)

	products := newMemProductRepository()
	accounts := newMemAccountRepository()
	cartService := service.NewCartService(products, testOrder, fixedClock)
	pages := NewPages(sessions, views, testOrder.Currency, logger)

	authMiddleware := middleware.RequireAuth(logger)
	loginLimiter := middleware.RateLimitMiddleware(redisClient, middleware.RateLimitConfig{
		RequestsPerWindow: 1000,
		Window:            time.Minute,
		KeyPrefix:         "login_rate",
	}, logger)

	r := chi.NewRouter()
	r.Use(middleware.SessionMiddleware(sessions, logger))
	r.Use(middleware.AccountMiddleware(accounts, sessions, logger))
	NewAuthHandler(service.NewAuthService(accounts), cartService, pages).
		RegisterRoutes(r, authMiddleware, loginLimiter)
	NewCatalogHandler(service.NewCatalogService(products), pages).
		RegisterRoutes(r, authMiddleware, middleware.RequireAdmin(sessions, logger))
	NewCartHandler(cartService, messaging.NewWhatsAppLinker(), testOrder.WhatsAppNumber, pages).
		RegisterRoutes(r, middleware.RequireUser(sessions, logger))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testApp{server: srv, products: products, redis: mr}
}

func (a *testApp) sessionKeys() []string {
	var keys []string
	for _, key := range a.redis.Keys() {
		if strings.HasPrefix(key, "session:") {
			keys = append(keys, key)
		}
	}
	return keys
}

// browser keeps cookies between requests and never follows redirects.
type browser struct {
	t      *testing.T
	client *http.Client
	base   string
}

func (a *testApp) newBrowser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &browser{
		t:    t,
		base: a.server.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type page struct {
	status   int
	location string
	body     string
}

func (b *browser) do(req *http.Request) page {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)

	return page{status: resp.StatusCode, location: resp.Header.Get("Location"), body: string(body)}
}

func (b *browser) get(path string) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(username, password string) page {
	b.t.Helper()
	return b.post("/login", url.Values{"username": {username}, "password": {password}})
}

func productValues(code, description, image, price string) url.Values {
	return url.Values{
		"codigo":      {code},
		"descripcion": {description},
		"foto":        {image},
		"precio":      {price},
	}
}

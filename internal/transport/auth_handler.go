package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"descartables/internal/middleware"
	"descartables/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	noticeInvalidCredentials = "Credenciales inválidas. Intenta de nuevo."
	noticeLoggedOut          = "Sesión cerrada exitosamente."
)

// AuthHandler serves login and logout.
type AuthHandler struct {
	*Pages
	authService service.AuthService
	cartService service.CartService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, cartService service.CartService, pages *Pages) *AuthHandler {
	return &AuthHandler{
		Pages:       pages,
		authService: authService,
		cartService: cartService,
	}
}

// RegisterRoutes registers login and logout. loginLimiter guards POST /login.
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware, loginLimiter func(http.Handler) http.Handler) {
	r.Get("/login", h.LoginForm)
	r.With(loginLimiter).Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/logout", h.Logout)
	})
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	h.render(w, r, sess, pageLogin, PageData{})
}

// Login binds the authenticated principal to a fresh session id and makes
// sure it has a cart.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.logger.Debug("Login form decode failed", zap.Error(err))
		h.render(w, r, sess, pageLogin, PageData{Flashes: []string{noticeInvalidCredentials}})
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	principal, err := h.authService.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Debug("Login failed", zap.String("username", username))
			h.render(w, r, sess, pageLogin, PageData{Flashes: []string{noticeInvalidCredentials}})
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		h.render(w, r, sess, pageLogin, PageData{Flashes: []string{noticeUnexpected}})
		return
	}

	renewed, err := h.sessions.Renew(r.Context(), sess)
	if err != nil {
		h.logger.Error("Failed to renew session", zap.Error(err))
		middleware.RespondWithError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}
	renewed.Principal = principal
	h.cartService.EnsureCart(renewed)

	h.logger.Info("User logged in",
		zap.Int64("account_id", principal.AccountID),
		zap.String("role", string(principal.Role)),
	)
	h.redirect(w, r, renewed, fmt.Sprintf("Bienvenido, %s! (%s)", principal.Username, principal.Role), "/")
}

// Logout drops the session record, principal and cart together, then starts
// an anonymous session to carry the goodbye notice.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Destroy(r.Context(), w, sess); err != nil {
		h.logger.Error("Failed to destroy session", zap.Error(err))
		middleware.RespondWithError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}

	if sess.Principal != nil {
		h.logger.Info("User logged out", zap.Int64("account_id", sess.Principal.AccountID))
	}
	h.redirect(w, r, h.sessions.New(), noticeLoggedOut, "/login")
}

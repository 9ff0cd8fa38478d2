package middleware

import (
	"context"
	"errors"
	"net/http"

	"descartables/internal/domain"
	"descartables/internal/repository"
	"descartables/internal/session"

	"go.uber.org/zap"
)

// SessionMiddleware loads the caller's session and stores it in the request
// context. Handlers that change the session must save it themselves.
func SessionMiddleware(manager *session.Manager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := manager.Load(r)
			if err != nil {
				logger.Error("Failed to load session",
					zap.Error(err),
					zap.String("path", r.URL.Path),
				)
				RespondWithError(w, http.StatusServiceUnavailable, "session store unavailable")
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

// AccountFinder looks accounts up by id.
type AccountFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
}

// AccountMiddleware re-reads the signed-in account on every request. A
// session whose account no longer exists is destroyed and the request goes on
// anonymously; a changed username or role is copied into the session.
func AccountMiddleware(accounts AccountFinder, manager *session.Manager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok || !sess.Authenticated() {
				next.ServeHTTP(w, r)
				return
			}

			account, err := accounts.FindByID(r.Context(), sess.Principal.AccountID)
			switch {
			case errors.Is(err, repository.ErrAccountNotFound):
				logger.Info("Session account no longer exists",
					zap.Int64("account_id", sess.Principal.AccountID),
				)
				if err := manager.Destroy(r.Context(), w, sess); err != nil {
					logger.Error("Failed to destroy session", zap.Error(err))
					RespondWithError(w, http.StatusServiceUnavailable, "session store unavailable")
					return
				}
				sess = manager.New()
			case err != nil:
				logger.Error("Failed to load session account",
					zap.Error(err),
					zap.Int64("account_id", sess.Principal.AccountID),
				)
				RespondWithError(w, http.StatusServiceUnavailable, "account store unavailable")
				return
			default:
				if current := account.Principal(); *current != *sess.Principal {
					sess.Principal = current
					if err := manager.Save(r.Context(), w, sess); err != nil {
						logger.Error("Failed to save session", zap.Error(err))
						RespondWithError(w, http.StatusServiceUnavailable, "session store unavailable")
						return
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

// RequireAuth redirects anonymous callers to the login page.
func RequireAuth(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok || !sess.Authenticated() {
				logger.Debug("Anonymous request to protected page", zap.String("path", r.URL.Path))
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CurrentSession returns the session loaded by SessionMiddleware.
func CurrentSession(r *http.Request) (*session.Session, bool) {
	return session.FromContext(r.Context())
}

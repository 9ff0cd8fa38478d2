package middleware

import (
	"net/http"

	"descartables/internal/domain"
	"descartables/internal/service"
	"descartables/internal/session"

	"go.uber.org/zap"
)

var deniedNotices = map[domain.Role]string{
	domain.RoleAdmin: "Acceso denegado. Solo administradores pueden realizar esta acción.",
	domain.RoleUser:  "Acceso denegado. Esta función es solo para usuarios.",
}

// RequireRole lets through only principals holding role. Anonymous callers
// go to the login page; other roles get a notice and go back to the catalog.
func RequireRole(role domain.Role, manager *session.Manager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok || !sess.Authenticated() {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			if err := service.RequireRole(sess.Principal, role); err != nil {
				logger.Warn("Role not authorized",
					zap.String("username", sess.Principal.Username),
					zap.String("role", string(sess.Principal.Role)),
					zap.String("required_role", string(role)),
					zap.String("path", r.URL.Path),
				)

				sess.AddFlash(deniedNotices[role])
				if err := manager.Save(r.Context(), w, sess); err != nil {
					logger.Error("Failed to save session", zap.Error(err))
				}
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin guards catalog management pages.
func RequireAdmin(manager *session.Manager, logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole(domain.RoleAdmin, manager, logger)
}

// RequireUser guards cart pages.
func RequireUser(manager *session.Manager, logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole(domain.RoleUser, manager, logger)
}

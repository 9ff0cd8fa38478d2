package transport

import (
	"net/http"

	"descartables/internal/middleware"
	"descartables/internal/session"

	"go.uber.org/zap"
)

const noticeUnexpected = "Ocurrió un error inesperado. Intenta de nuevo."

// Pages holds what every page handler needs to answer a request: the
// session manager, the templates and a logger.
type Pages struct {
	sessions *session.Manager
	views    *Views
	logger   *zap.Logger
	currency string
}

// NewPages creates the shared page helpers. currency prefixes every price.
func NewPages(sessions *session.Manager, views *Views, currency string, logger *zap.Logger) *Pages {
	return &Pages{
		sessions: sessions,
		views:    views,
		logger:   logger,
		currency: currency,
	}
}

// currentSession returns the session loaded by middleware.SessionMiddleware.
func (p *Pages) currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := middleware.CurrentSession(r)
	if !ok {
		p.logger.Error("Session missing from request context", zap.String("path", r.URL.Path))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return sess, true
}

// redirect stores notice (when not empty) in the session, saves it and sends
// the browser to target. Results of POST forms use 303 so the browser
// follows with a GET.
func (p *Pages) redirect(w http.ResponseWriter, r *http.Request, sess *session.Session, notice, target string) {
	if notice != "" {
		sess.AddFlash(notice)
	}
	if err := p.sessions.Save(r.Context(), w, sess); err != nil {
		p.logger.Error("Failed to save session", zap.Error(err))
		middleware.RespondWithError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}

	status := http.StatusFound
	if r.Method == http.MethodPost {
		status = http.StatusSeeOther
	}
	http.Redirect(w, r, target, status)
}

// render consumes the pending notices of sess and writes page.
func (p *Pages) render(w http.ResponseWriter, r *http.Request, sess *session.Session, page string, data PageData) {
	pending := sess.PopFlashes()
	data.Principal = sess.Principal
	data.Flashes = append(pending, data.Flashes...)
	data.Currency = p.currency
	if sess.Cart != nil {
		data.TotalItems = sess.Cart.Summary().TotalItems
	}

	// Anonymous sessions with nothing pending are not worth storing.
	if len(pending) > 0 || sess.Authenticated() {
		if err := p.sessions.Save(r.Context(), w, sess); err != nil {
			p.logger.Error("Failed to save session", zap.Error(err))
			middleware.RespondWithError(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}
	}

	if err := p.views.Render(w, http.StatusOK, page, data); err != nil {
		p.logger.Error("Failed to render page", zap.String("page", page), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// Package session keeps per-browser state (principal, cart and pending
// notices) server side. The browser only carries a signed token naming the
// session record.
package session

import (
	"context"

	"descartables/internal/domain"
)

// Session is stored as a single record, so logging out removes the
// principal and the cart together.
type Session struct {
	ID        string            `json:"id"`
	Principal *domain.Principal `json:"principal,omitempty"`
	Cart      *domain.Cart      `json:"cart,omitempty"`
	Flashes   []string          `json:"flashes,omitempty"`
}

func (s *Session) Authenticated() bool {
	return s.Principal != nil
}

// AddFlash queues a notice for the next rendered page.
func (s *Session) AddFlash(msg string) {
	s.Flashes = append(s.Flashes, msg)
}

// PopFlashes returns and clears the queued notices.
func (s *Session) PopFlashes() []string {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

type contextKey struct{}

func NewContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(*Session)
	return sess, ok
}

package session

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const sessionKey ctxKey = "neoncare.session"

// Session is the authenticated identity attached to a request. It is
// populated by the auth middleware and read by handlers; it never lives in
// package-level state.
type Session struct {
	UserID uuid.UUID
	Email  string
}

// WithSession stores the session in context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext extracts the session if present.
func FromContext(ctx context.Context) (Session, bool) {
	val := ctx.Value(sessionKey)
	if val == nil {
		return Session{}, false
	}
	s, ok := val.(Session)
	return s, ok && s.UserID != uuid.Nil
}

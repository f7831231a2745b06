package middleware

import (
	"context"
	"net/http"

	"staffhire/internal/domain/auth"
	"staffhire/internal/transport/http/api"
)

const ctxKeySession ctxKey = "session"

// SessionSource resolves the full request session (region, tier, catalog
// quota) for an authenticated client. The resolution happens server-side per
// request; nothing in it is taken from the client payload.
type SessionSource interface {
	Session(ctx context.Context, clientID string) (auth.Session, error)
}

// LoadSession requires an authenticated user and stashes the resolved
// session in the context for handlers to pick up with GetSession.
func LoadSession(src SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			sess, err := src.Session(r.Context(), user.UserID)
			if err != nil {
				api.Fail(w, http.StatusInternalServerError, "session_error", "failed to resolve session", GetRequestID(r.Context()))
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeySession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSession(ctx context.Context) (auth.Session, bool) {
	sess, ok := ctx.Value(ctxKeySession).(auth.Session)
	return sess, ok
}

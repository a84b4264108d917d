package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fkhayef/calendar/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ActorIDKey is the context key for the authenticated actor identity
	ActorIDKey ContextKey = "actor_id"

	// ActorHeader carries the actor identity resolved by the upstream gateway
	ActorHeader = "X-User-ID"
)

// ActorMiddleware trusts the identity forwarded by the API gateway in the
// X-User-ID header. Requests without it are rejected.
// TODO: Replace with JWT validation once the gateway issues signed tokens
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID := strings.TrimSpace(r.Header.Get(ActorHeader))
		if actorID == "" {
			response.Unauthorized(w, ActorHeader+" header required")
			return
		}

		ctx := WithActorID(r.Context(), actorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithActorID stores the actor identity in ctx
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ActorIDKey, actorID)
}

// GetActorID extracts the actor identity from the request context
func GetActorID(ctx context.Context) (string, bool) {
	actorID, ok := ctx.Value(ActorIDKey).(string)
	return actorID, ok && actorID != ""
}

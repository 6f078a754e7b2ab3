package core

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	CorrelationIDHeader                = "Correlation-Id"
	CorrelationIDContextKey contextKey = "correlation_id"

	ActorIDHeader                = "X-User-Id"
	ActorIDContextKey contextKey = "actor_id"
)

func CorrelationIDHTTPMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		correlationID := r.Header.Get(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		ctx = context.WithValue(ctx, CorrelationIDContextKey, correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// ActorIDHTTPMiddleware resolves the acting participant's identity. The id is
// whatever the messaging surface uses to identify a user - the core only needs
// it to be stable and unique.
func ActorIDHTTPMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID := r.Header.Get(ActorIDHeader)
		if actorID == "" {
			WriteUnauthorized(w, r, nil)
			return
		}

		ctx := context.WithValue(r.Context(), ActorIDContextKey, actorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func ActorID(ctx context.Context) string {
	actorID, ok := ctx.Value(ActorIDContextKey).(string)
	if !ok {
		return ""
	}

	return actorID
}

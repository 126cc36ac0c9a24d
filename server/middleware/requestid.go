package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/skillsy/skillsy-api/logger"
)

// HeaderRequestID is the request/response header carrying the request ID.
const HeaderRequestID = "X-Request-Id"

// RequestID propagates an incoming X-Request-Id or generates a UUID. The ID
// is set on the request (for downstream handlers), the response, and the
// request context (for logger.WithContext).
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
				r.Header.Set(HeaderRequestID, id)
			}
			w.Header().Set(HeaderRequestID, id)
			next.ServeHTTP(w, r.WithContext(logger.ContextWithRequestID(r.Context(), id)))
		})
	}
}

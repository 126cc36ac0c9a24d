package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/skillsy/skillsy-api/logger"
)

// quietPaths are probed constantly and only logged on failure.
var quietPaths = []string{"/health"}

const slowRequest = 500 * time.Millisecond

// RequestLogger logs method, path, status and duration of each request at a
// level chosen by status code.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			if sw.status < 400 && slices.Contains(quietPaths, r.URL.Path) {
				return
			}

			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				logger.FieldDuration, duration.Milliseconds(),
			)
			if origin := r.Header.Get("Origin"); origin != "" {
				fields["origin"] = origin
			}
			if duration > slowRequest {
				fields["slow"] = true
			}
			l := log.WithContext(r.Context())
			switch {
			case sw.status >= 500:
				l.Error("Request completed", fields)
			case sw.status >= 400:
				l.Warn("Request completed", fields)
			default:
				l.Debug("Request completed", fields)
			}
		})
	}
}

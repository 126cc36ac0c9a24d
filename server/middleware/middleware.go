package middleware

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/skillsy/skillsy-api/errors"
)

// Middleware wraps an http.Handler. The server applies its stack around the
// root ServeMux, so every route (Gin or mounted handler) passes through it.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware. The first in the list is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// writeError renders err as the standard JSON error envelope.
func writeError(w http.ResponseWriter, err *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(err.HTTPStatus)
	_ = json.NewEncoder(w).Encode(err.ToResponse())
}

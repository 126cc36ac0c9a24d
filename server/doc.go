// Package server runs the HTTP listener: a Gin engine mounted on a root
// http.ServeMux, wrapped in h2c so HTTP/2 cleartext works without TLS.
//
// Middleware (server/middleware) wraps the whole mux, so the CORS policy and
// the other cross-cutting concerns cover Gin routes and mounted handlers
// alike.
package server

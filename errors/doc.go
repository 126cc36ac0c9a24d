// Package errors defines the structured error type used across the service.
// An AppError carries a machine-readable code, the HTTP status it maps to,
// and renders as the {"error": {...}} envelope returned to clients.
package errors

// Package endpoint provides reusable Gin handler builders for fixed status
// endpoints.
package endpoint

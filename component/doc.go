// Package component defines the lifecycle contract shared by everything the
// bootstrap starts and stops: the HTTP server and the telemetry providers.
package component

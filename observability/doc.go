// Package observability wires OpenTelemetry tracing and metrics.
//
// Telemetry is off by default. When enabled, the Component installs OTLP/HTTP
// tracer and meter providers as the otel globals on Start and flushes them on
// Stop. Instrumented code always goes through the globals, so it runs against
// no-op providers when telemetry is disabled:
//
//	tracer := observability.Tracer("my-package")
//	metrics, err := observability.NewHTTPMetrics(observability.Meter("my-package"))
package observability

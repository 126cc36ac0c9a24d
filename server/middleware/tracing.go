package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/skillsy/skillsy-api/logger"
	"github.com/skillsy/skillsy-api/observability"
)

const instrumentationName = "github.com/skillsy/skillsy-api/server"

// Tracing starts a server span per request and records request count and
// latency. It uses the global OpenTelemetry providers, which are no-ops
// until telemetry is enabled.
func Tracing() Middleware {
	tracer := observability.Tracer(instrumentationName)
	metrics, err := observability.NewHTTPMetrics(observability.Meter(instrumentationName))
	if err != nil {
		logger.Warn("HTTP metrics unavailable", logger.ErrorFields("tracing", err))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String(observability.AttrHTTPMethod, r.Method),
					attribute.String(observability.AttrURLPath, r.URL.Path),
				))
			defer span.End()
			if id := r.Header.Get(HeaderRequestID); id != "" {
				span.SetAttributes(attribute.String(observability.AttrRequestID, id))
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(ctx))

			span.SetAttributes(attribute.Int(observability.AttrHTTPStatusCode, sw.status))
			if sw.status >= 500 {
				span.SetStatus(codes.Error, http.StatusText(sw.status))
			}
			if metrics != nil {
				metrics.RecordRequest(ctx, r.Method, sw.status, time.Since(start))
			}
		})
	}
}

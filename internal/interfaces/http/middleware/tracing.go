// Package middleware provides the gin middleware of the leasing API:
// authentication, request ids, CORS, idempotency keys and observability.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts an otelgin server span per request. Health checks and
// swagger assets are not traced. A disabled config yields a pass-through.
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			return !isInfraPath(r.URL.Path)
		}),
	)
}

// SpanEnricher adds request and caller attributes to the server span and
// marks it failed for 5xx answers. It must run after RequestID and the JWT
// middleware so both values are present.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if requestID := GetRequestID(c); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		if actor, ok := GetActor(c); ok {
			span.SetAttributes(
				attribute.String("user_id", actor.UserID.String()),
				attribute.String("actor.role", actor.Role.String()),
			)
		}

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

func isInfraPath(path string) bool {
	return path == "/health" || path == "/api/v1/health" || strings.HasPrefix(path, "/swagger")
}

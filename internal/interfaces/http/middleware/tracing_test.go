package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hirepurchase/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(prev)
	})
	return sr
}

func attrValue(attrs []attribute.KeyValue, key string) (string, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value.Emit(), true
		}
	}
	return "", false
}

func tracedRouter(t *testing.T, enabled bool) *gin.Engine {
	t.Helper()
	svc := newTestJWTService(15 * time.Minute)
	router := gin.New()
	router.Use(RequestID(), Tracing("leasing-test", enabled), JWTAuthMiddleware(DefaultJWTConfig(svc)), SpanEnricher())
	router.GET("/api/v1/contracts/:id", func(c *gin.Context) {
		if c.Param("id") == "boom" {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestTracing_EnrichesServerSpan(t *testing.T) {
	sr := setupTestTracer(t)
	router := tracedRouter(t, true)
	svc := newTestJWTService(15 * time.Minute)
	token, userID := issueToken(t, svc, identity.RoleOwner, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts/42", nil)
	req.Header.Set(AuthHeaderKey, "Bearer "+token)
	req.Header.Set(RequestIDHeader, "req-trace-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	attrs := spans[0].Attributes()

	v, ok := attrValue(attrs, "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-trace-1", v)
	v, ok = attrValue(attrs, "user_id")
	require.True(t, ok)
	assert.Equal(t, userID.String(), v)
	v, _ = attrValue(attrs, "actor.role")
	assert.Equal(t, "owner", v)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_MarksServerErrors(t *testing.T) {
	sr := setupTestTracer(t)
	router := tracedRouter(t, true)
	svc := newTestJWTService(15 * time.Minute)
	token, _ := issueToken(t, svc, identity.RoleOwner, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts/boom", nil)
	req.Header.Set(AuthHeaderKey, "Bearer "+token)
	router.ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_SkipsHealthAndDisabled(t *testing.T) {
	sr := setupTestTracer(t)

	router := tracedRouter(t, true)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, sr.Ended())

	disabled := tracedRouter(t, false)
	svc := newTestJWTService(15 * time.Minute)
	token, _ := issueToken(t, svc, identity.RoleOwner, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts/1", nil)
	req.Header.Set(AuthHeaderKey, "Bearer "+token)
	w := httptest.NewRecorder()
	disabled.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

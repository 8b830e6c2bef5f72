package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/hirepurchase/backend/internal/infrastructure/telemetry"
)

// Profiling attaches pyroscope labels (route pattern, method and caller
// role) to everything the request executes. Use it only when the profiler
// runs; labels are cheap but pointless otherwise.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if isInfraPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		labels := telemetry.HTTPRequestLabels(c.FullPath(), c.Request.Method)
		if actor, ok := GetActor(c); ok {
			labels[telemetry.ProfilingLabelRole] = actor.Role.String()
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/hirepurchase/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client-chosen retry key
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 255

// Idempotency claims the request's Idempotency-Key before the handler runs.
// A key that is already claimed answers 409; a request that fails releases
// its key so the client can retry. Requests without the header pass through.
// Keys are scoped per caller so two accounts cannot collide.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" || store == nil {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		scope := "anonymous"
		if actor, ok := GetActor(c); ok {
			scope = actor.UserID.String()
		}
		storeKey := c.FullPath() + ":" + scope + ":" + key

		claimed, err := store.MarkProcessed(c.Request.Context(), storeKey, ttl)
		if err != nil {
			// fail open: a store outage must not block payments
			logger.Error("Idempotency store unavailable", zap.String("key", storeKey), zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeDuplicateRequest,
					"A request with this Idempotency-Key was already processed", GetRequestID(c)))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(context.WithoutCancel(c.Request.Context()), storeKey); err != nil {
				logger.Warn("Failed to release idempotency key", zap.String("key", storeKey), zap.Error(err))
			}
		}
	}
}

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-employee/internal/shared/apperror"
	"go-employee/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
	idempotencyLock   = 30 * time.Second
)

func idempotencyKey(path, key string) string {
	return fmt.Sprintf("idemp:%s:%s", path, key)
}

// Idempotency makes form POSTs carrying an Idempotency-Key safe to retry.
// The redirect of the first successful submission is stored and replayed;
// a retry arriving while the first is still running gets 409. Redis errors
// fail open.
func Idempotency(rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("middleware.idempotency")

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := idempotencyKey(c.FullPath(), key)
		lockKey := cacheKey + ":lock"

		location, err := rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			logger.Debug("idempotent replay", zap.String("key", cacheKey), zap.String("location", location))
			c.Redirect(http.StatusFound, location)
			c.Abort()
			return
		}
		if !errors.Is(err, redis.Nil) {
			logger.Warn("idempotency lookup failed", zap.String("key", cacheKey), zap.Error(err))
			c.Next()
			return
		}

		// Expiring lock: a crashed request cannot block the key forever.
		acquired, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLock).Result()
		if err != nil {
			logger.Warn("idempotency lock failed", zap.String("key", lockKey), zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			response.AbortError(c, http.StatusConflict, apperror.CodeProcessing, "Request is already being processed")
			return
		}
		release := context.WithoutCancel(ctx)
		defer func() {
			if err := rdb.Del(release, lockKey).Err(); err != nil {
				logger.Warn("idempotency unlock failed", zap.String("key", lockKey), zap.Error(err))
			}
		}()

		c.Next()

		if c.Writer.Status() != http.StatusFound {
			return
		}
		if location := c.Writer.Header().Get("Location"); location != "" {
			if err := rdb.Set(release, cacheKey, location, idempotencyTTL).Err(); err != nil {
				logger.Warn("idempotency store failed", zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}
}

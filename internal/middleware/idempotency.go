package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hris-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	idempotencyLockTTL   = 30 * time.Second
	idempotencyResultTTL = 24 * time.Hour

	ctxIdempotencyCacheKey = "idempotency_cache_key"
	ctxIdempotencyLockKey  = "idempotency_lock_key"
)

// Idempotency replays the stored result of a POST carrying the same
// Idempotency-Key for the same caller, and rejects a duplicate that arrives
// while the first one is still running.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), c.GetString("user_id"), idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached any
			if json.Unmarshal([]byte(val), &cached) == nil {
				c.Header("Idempotent-Replayed", "true")
				response.Success(c, http.StatusOK, cached, nil)
				c.Abort()
				return
			}
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			// redis is down: run the request unprotected rather than fail it
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "A request with this idempotency key is still being processed", nil)
			c.Abort()
			return
		}

		c.Set(ctxIdempotencyCacheKey, cacheKey)
		c.Set(ctxIdempotencyLockKey, lockKey)

		c.Next()
	}
}

// CompleteIdempotent stores data for replay (when non-nil) and releases the
// lock taken by Idempotency. It is a no-op for requests without a key.
func CompleteIdempotent(c *gin.Context, rdb *redis.Client, data any, logger *zap.Logger) {
	if rdb == nil {
		return
	}
	ctx := c.Request.Context()

	if lockKey := c.GetString(ctxIdempotencyLockKey); lockKey != "" {
		defer rdb.Del(ctx, lockKey)
	}

	cacheKey := c.GetString(ctxIdempotencyCacheKey)
	if cacheKey == "" || data == nil {
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		logger.Warn("failed to encode idempotent response", zap.Error(err))
		return
	}
	if err := rdb.Set(ctx, cacheKey, string(raw), idempotencyResultTTL).Err(); err != nil {
		logger.Warn("failed to cache idempotent response", zap.Error(err))
	}
}

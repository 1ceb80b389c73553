package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/ignatzorin/freelance-ledger/internal/dto"
	"github.com/ignatzorin/freelance-ledger/internal/logger"
	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/pkg/apperror"
)

const limiterPrefix = "ledger:ratelimit"

// NewLimiterStore возвращает redis store, если задан redisAddr, иначе хранилище в памяти.
// closeFn освобождает соединение с redis; для memory store это no-op.
func NewLimiterStore(ctx context.Context, redisAddr string) (store limiter.Store, closeFn func() error, err error) {
	if redisAddr == "" {
		return memory.NewStore(), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("rate limit: ping redis %s: %w", redisAddr, err)
	}

	store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   limiterPrefix,
		MaxRetry: 3,
	})
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("rate limit: redis store: %w", err)
	}
	return store, client.Close, nil
}

// RateLimitMiddleware ограничивает число запросов на ключ за период.
// Ключ - профиль, если он уже определён, иначе IP клиента.
func RateLimitMiddleware(store limiter.Store, limit int64, period time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		limit = 30
	}
	if period <= 0 {
		period = time.Minute
	}

	instance := limiter.New(store, limiter.Rate{Period: period, Limit: limit})

	return func(c *gin.Context) {
		lctx, err := instance.Get(c.Request.Context(), rateLimitKey(c))
		if err != nil {
			// при недоступном хранилище пропускаем запрос
			logger.WithContext(c.Request.Context()).WithError(err).Warn("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			c.AbortWithStatusJSON(apperror.ErrTooManyRequests.HTTPStatus, dto.ErrorResponse{
				Message: apperror.ErrTooManyRequests.Message,
				Error:   string(apperror.ErrTooManyRequests.Code),
			})
			return
		}
		c.Next()
	}
}

func rateLimitKey(c *gin.Context) string {
	if raw, ok := c.Get(ContextProfileKey); ok {
		if profile, ok := raw.(*models.Profile); ok {
			return "profile:" + strconv.FormatInt(profile.ID, 10)
		}
	}
	return "ip:" + c.ClientIP()
}

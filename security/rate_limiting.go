package security

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	redis *redis.Client
}

func NewRateLimiter(redisClient *redis.Client) *RateLimiter {
	return &RateLimiter{redis: redisClient}
}

// Limit is a redis fixed-window rate limit keyed by user (or IP when
// anonymous). Redis being unreachable fails open.
func (r *RateLimiter) Limit(name string, max int64, window time.Duration) func(func(*core.RequestEvent) error) func(*core.RequestEvent) error {
	return func(next func(*core.RequestEvent) error) func(*core.RequestEvent) error {
		return func(e *core.RequestEvent) error {
			var id string
			if e.Auth != nil {
				id = fmt.Sprintf("user:%s", e.Auth.Id)
			} else {
				id = e.RealIP()
			}
			key := fmt.Sprintf("ratelimit:%s:%s", name, id)

			ctx := e.Request.Context()
			count, err := r.redis.Incr(ctx, key).Result()
			if err == nil {
				if count == 1 {
					r.redis.Expire(ctx, key, window)
				}
				if count > max {
					return e.JSON(http.StatusTooManyRequests, map[string]string{
						"error": "Rate limit exceeded. Please try again later.",
					})
				}
			}

			return next(e)
		}
	}
}

// AntiBot rejects obvious scraper user agents and throttles per-IP
// request bursts.
func (r *RateLimiter) AntiBot(next func(*core.RequestEvent) error) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		userAgent := e.Request.Header.Get("User-Agent")
		if r.isSuspiciousUserAgent(userAgent) {
			return e.JSON(http.StatusForbidden, map[string]string{
				"error": "Access denied",
			})
		}

		ip := e.RealIP()
		key := fmt.Sprintf("antibot:%s", ip)

		ctx := e.Request.Context()
		count, err := r.redis.Incr(ctx, key).Result()
		if err == nil {
			if count == 1 {
				r.redis.Expire(ctx, key, time.Minute)
			}
			if count > 30 { // Max 30 requests per minute
				return e.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "Too many requests",
				})
			}
		}

		return next(e)
	}
}

func (r *RateLimiter) isSuspiciousUserAgent(ua string) bool {
	suspicious := []string{"bot", "crawler", "spider", "scraper"}
	for _, pattern := range suspicious {
		if strings.Contains(strings.ToLower(ua), pattern) {
			return true
		}
	}
	return false
}

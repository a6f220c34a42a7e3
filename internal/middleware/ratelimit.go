package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/chiromo-health/cmhs-backend/internal/database"
	"github.com/chiromo-health/cmhs-backend/pkg/clientip"
)

const (
	// RateLimitWindow is the sliding window for per-IP counting
	RateLimitWindow = 60 * time.Second
	// RateLimitMaxRequests is the maximum number of requests allowed in the window
	RateLimitMaxRequests = 60
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"
)

// RateLimit provides per-IP rate limiting backed by Redis. Gateway callback
// endpoints (payments, USSD) are exempt: the external systems must never be
// throttled into retry storms.
func RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isCallbackPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ipAddress := clientip.RealClientIP(r)
		ctx := context.Background()
		key := RateLimitKeyPrefix + ipAddress

		count, err := database.RedisClient.Incr(ctx, key).Result()
		if err != nil {
			// If Redis fails, allow the request (fail open)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			database.RedisClient.Expire(ctx, key, RateLimitWindow)
		}

		if count > RateLimitMaxRequests {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"message":"Too many requests. Please slow down."}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isCallbackPath(path string) bool {
	return strings.HasPrefix(path, "/api/payments/callback") ||
		strings.HasPrefix(path, "/api/ussd/")
}

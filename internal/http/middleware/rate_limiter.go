package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"identity-gateway/internal/auth"
)

// RateLimiter implements token bucket rate limiting per caller. Callers are
// told apart by client IP, or by identity once a session has been resolved.
type RateLimiter struct {
	limiters sync.Map // key -> *rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewRateLimiter creates a new rate limiter
// requestsPerSecond: number of requests allowed per second
// burst: maximum burst size
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		rate:  rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	limiter, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rate, rl.burst))
	return limiter.(*rate.Limiter)
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware returns an Echo middleware function limiting per client IP
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return rl.limit(ipKey)
}

// IdentityMiddleware limits per resolved identity. It must be mounted after
// auth.RequireSession; without a resolved identity it falls back to the IP.
func (rl *RateLimiter) IdentityMiddleware() echo.MiddlewareFunc {
	return rl.limit(identityKey)
}

func (rl *RateLimiter) limit(key func(echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := rl.getLimiter(key(c))
			limit := strconv.Itoa(rl.burst)

			if !limiter.Allow() {
				c.Response().Header().Set("X-RateLimit-Limit", limit)
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				c.Response().Header().Set("Retry-After", "1")

				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "rate limit exceeded",
				})
			}

			c.Response().Header().Set("X-RateLimit-Limit", limit)
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))

			return next(c)
		}
	}
}

func ipKey(c echo.Context) string {
	return "ip:" + c.RealIP()
}

// identityKey only trusts the identity set by RequireSession, never a
// header the caller controls.
func identityKey(c echo.Context) string {
	if id := auth.GetIdentityID(c); id != "" {
		return "identity:" + id
	}
	return ipKey(c)
}

// StrictRateLimiter guards the credential endpoints (login, register)
type StrictRateLimiter struct {
	*RateLimiter
}

func NewStrictRateLimiter(requestsPerSecond float64, burst int) *StrictRateLimiter {
	return &StrictRateLimiter{RateLimiter: NewRateLimiter(requestsPerSecond, burst)}
}

// GlobalRateLimiter is a lenient rate limiter for general API usage
type GlobalRateLimiter struct {
	*RateLimiter
}

func NewGlobalRateLimiter(requestsPerSecond float64, burst int) *GlobalRateLimiter {
	return &GlobalRateLimiter{RateLimiter: NewRateLimiter(requestsPerSecond, burst)}
}

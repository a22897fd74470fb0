package gatewayproxy

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/brightpath/platform/pkg/httpkit"
	"github.com/brightpath/platform/pkg/platformmetrics"
)

// Budget is one role's rate-limit window (spec §4.5 "separate budgets for student/trainer/admin
// and a stricter budget for auth endpoints").
type Budget struct {
	Window      time.Duration
	MaxAttempts int
}

// RateLimitConfig carries a budget per role (Student, Trainer, Admin) plus Auth, which Middleware
// applies to anonymous requests and to any role it does not recognise. Budgets are chosen by role
// only, never by request path, so an authenticated request to an auth endpoint uses its role's
// budget. OTP is carried but Middleware never consults it.
type RateLimitConfig struct {
	Auth    Budget
	OTP     Budget
	Student Budget
	Trainer Budget
	Admin   Budget
}

func (cfg RateLimitConfig) budgetFor(role string) Budget {
	switch role {
	case "student":
		return cfg.Student
	case "trainer":
		return cfg.Trainer
	case "admin":
		return cfg.Admin
	default:
		return cfg.Auth
	}
}

// incrementScript atomically increments the counter and sets its expiry the first time it's
// created (EXPIRE ... NX is a no-op once a TTL is already set), so a crash or error between the
// two steps in separate round trips can never leave a counter that increments forever without
// expiring.
var incrementScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
redis.call("EXPIRE", KEYS[1], ARGV[1], "NX")
return count
`)

// RateLimiter is a Redis-backed, role-aware limiter keyed by (userId, role) or ip when
// anonymous, with state shared across gateway instances (spec §4.5 "Limiter state lives in the
// shared KV so limits are global across instances").
type RateLimiter struct {
	client *redis.Client
	config RateLimitConfig
}

// NewRateLimiter returns a RateLimiter backed by client.
func NewRateLimiter(client *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{client: client, config: config}
}

// Middleware implements spec §4.5 pipeline step 3. Rejections return 429; any Redis failure
// fails closed (the request is rejected), since a limiter that fails open under broker pressure
// defeats its own purpose.
func (l *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := UserRole(c)
		userID := UserID(c)

		key := l.rateKey(c, userID, role)
		budget := l.config.budgetFor(role)

		count, err := l.increment(c.UserContext(), key, budget.Window)
		if err != nil {
			platformmetrics.RateLimitRejectionsTotal.WithLabelValues(roleLabel(role)).Inc()
			return httpkit.ServiceUnavailable(c, "rate limiter unavailable")
		}

		if count > int64(budget.MaxAttempts) {
			platformmetrics.RateLimitRejectionsTotal.WithLabelValues(roleLabel(role)).Inc()
			retryAfter := int(budget.Window.Seconds())
			return httpkit.TooManyRequests(c, "rate limit exceeded", retryAfter)
		}

		return c.Next()
	}
}

func (l *RateLimiter) rateKey(c *fiber.Ctx, userID, role string) string {
	if userID != "" {
		return fmt.Sprintf("ratelimit:%s:%s", role, userID)
	}

	return fmt.Sprintf("ratelimit:anon:%s", c.IP())
}

func (l *RateLimiter) increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	return incrementScript.Run(ctx, l.client, []string{key}, int(window.Seconds())).Int64()
}

func roleLabel(role string) string {
	if role == "" {
		return "anonymous"
	}

	return role
}

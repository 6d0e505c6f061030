package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-booking-web/internal/config"
)

// takeToken refills one token per refill_ms up to burst, then spends one.
// It returns {allowed, remaining, wait_ms}.  The hash expires after idle_s
// without traffic.
var takeToken = redis.NewScript(`
	local now = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local refill = tonumber(ARGV[3])
	local idle = tonumber(ARGV[4])

	local b = redis.call('HMGET', KEYS[1], 'tokens', 'at')
	local tokens = tonumber(b[1]) or burst
	local at = tonumber(b[2]) or now

	local gained = math.floor(math.max(0, now - at) / refill)
	if gained > 0 then
		tokens = math.min(burst, tokens + gained)
		at = at + gained * refill
	end

	local allowed, wait = 0, 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		wait = math.max(0, refill - (now - at))
	end

	redis.call('HSET', KEYS[1], 'tokens', tokens, 'at', at)
	redis.call('EXPIRE', KEYS[1], idle)
	return { allowed, tokens, wait }
`)

// NewTokenBucket limits each client to cfg.Burst requests, refilled one per
// cfg.Refill.  It passes everything through when disabled or when Redis is
// unavailable and fails open on Redis errors.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	idle := int64(math.Ceil(cfg.Idle.Seconds()))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Exempted(c.Request().URL.Path) {
				return next(c)
			}
			key := buildRateKey(cfg, c)
			res, err := takeToken.Run(c.Request().Context(), rdb, []string{key},
				time.Now().UnixMilli(), cfg.Burst, cfg.Refill.Milliseconds(), idle).Int64Slice()
			if err != nil || len(res) != 3 {
				if cfg.Debug {
					c.Logger().Warnf("ratelimit: key=%s: %v %v", key, res, err)
				}
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if res[0] == 1 {
				return next(c)
			}
			secs := retryAfter(time.Duration(res[2]) * time.Millisecond)
			h.Set("Retry-After", strconv.Itoa(secs))
			if cfg.Debug {
				c.Logger().Infof("ratelimit: blocked key=%s retry=%ds", key, secs)
			}
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":       "rate limit exceeded",
				"retry_after": secs,
			})
		}
	}
}

// retryAfter rounds wait up to whole seconds, never below one.
func retryAfter(wait time.Duration) int {
	secs := int(math.Ceil(wait.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// buildRateKey joins the attributes named by cfg.KeyBy under cfg.Prefix,
// e.g. "rl:ip:10.0.0.7:route:GET /api/movies".
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	parts := []string{cfg.Prefix}
	for _, attr := range cfg.KeyBy {
		var v string
		switch attr {
		case config.KeyByIP:
			v = orDefault(c.RealIP(), "unknown")
		case config.KeyBySession:
			v = orDefault(SessionID(c), "none")
		case config.KeyByUser:
			v = currentUserID(c)
		case config.KeyByRoute:
			v = c.Request().Method + " " + c.Path()
		default:
			continue
		}
		parts = append(parts, attr, v)
	}
	if len(parts) == 1 {
		parts = append(parts, config.KeyByIP, orDefault(c.RealIP(), "unknown"))
	}
	return strings.Join(parts, ":")
}

func orDefault(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

package config

import (
	"fmt"
	"strings"
	"time"
)

// Attributes a rate-limit bucket can be keyed by.
const (
	KeyByIP      = "ip"
	KeyBySession = "session"
	KeyByUser    = "user"
	KeyByRoute   = "route"
)

// RateLimitConfig sizes the per-client token bucket in front of the
// gateway.  A bucket holds Burst tokens and regains one every Refill; a
// bucket untouched for Idle is forgotten.  KeyBy lists the request
// attributes that identify a client.  Requests whose path starts with one
// of Exempt are never limited.
type RateLimitConfig struct {
	Enabled bool
	Burst   int
	Refill  time.Duration
	Idle    time.Duration
	KeyBy   []string
	Prefix  string
	Exempt  []string
	Debug   bool
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables.  An unknown KeyBy
// attribute is an error so a typo does not silently merge every client
// into one bucket.
func LoadRateLimitConfig() (RateLimitConfig, error) {
	cfg := RateLimitConfig{
		Enabled: envBool("RATE_LIMIT_ENABLED", true),
		Burst:   envInt("RATE_LIMIT_BURST", 60),
		Refill:  envDur("RATE_LIMIT_REFILL_EVERY", time.Second),
		Idle:    envDur("RATE_LIMIT_IDLE_TTL", 10*time.Minute),
		KeyBy:   envList("RATE_LIMIT_KEY_BY", "ip,session,route"),
		Prefix:  getenv("RATE_LIMIT_PREFIX", "rl"),
		Exempt:  envList("RATE_LIMIT_EXEMPT", "/healthz"),
		Debug:   envBool("RATE_LIMIT_DEBUG", false),
	}
	for i, attr := range cfg.KeyBy {
		attr = strings.ToLower(attr)
		switch attr {
		case KeyByIP, KeyBySession, KeyByUser, KeyByRoute:
			cfg.KeyBy[i] = attr
		default:
			return cfg, fmt.Errorf("RATE_LIMIT_KEY_BY: unknown attribute %q", attr)
		}
	}
	if len(cfg.KeyBy) == 0 {
		cfg.KeyBy = []string{KeyByIP}
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.Refill <= 0 {
		cfg.Refill = time.Second
	}
	// A bucket must outlive a full refill from empty.
	if full := time.Duration(cfg.Burst) * cfg.Refill; cfg.Idle < full {
		cfg.Idle = full
	}
	return cfg, nil
}

// Exempted reports whether path bypasses the limiter.
func (c RateLimitConfig) Exempted(path string) bool {
	for _, p := range c.Exempt {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

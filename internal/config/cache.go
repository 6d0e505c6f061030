package config

import (
	"os"
	"strconv"
	"time"
)

// CacheConfig defines settings for the tag-indexed backend response cache.
// When Enabled is false every query goes to the backend.  TTL bounds how long
// an entry lives even if no mutation invalidates it.  Prefix namespaces the
// Redis keys, MaxBodyBytes skips caching of oversized responses.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.  Defaults
// are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      getenv("TAG_CACHE_ENABLED", "true") == "true",
		TTL:          parseDur(getenv("TAG_CACHE_TTL", "60s")),
		Prefix:       getenv("TAG_CACHE_PREFIX", "tc"),
		MaxBodyBytes: atoi(getenv("TAG_CACHE_MAX_BODY_BYTES", "1048576")),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}

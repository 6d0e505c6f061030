// Package store provides the ephemeral key/value storage that backs
// per-session client state.  It plays the role browser session storage
// plays for a single-page app: values live for the browsing session and
// are dropped when it ends.  Redis is used when available; the in-memory
// implementation serves single-instance deployments and tests.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist or has expired.
var ErrNotFound = errors.New("store: key not found")

// Store abstracts ephemeral key/value state with a per-key TTL.  A zero
// TTL means the value does not expire.
type Store interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

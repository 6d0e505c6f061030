// Package bookingtemp is a short-lived in-memory handoff buffer: one page
// stores an arbitrary JSON payload and a later page reads it back by id.
// Nothing survives a restart.
package bookingtemp

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DefaultTTL is the soft expiry of an entry.
const DefaultTTL = 10 * time.Minute

type item struct {
	payload   json.RawMessage
	expiresAt time.Time
}

// Store holds payloads keyed by a timestamp-derived id.  Expired entries
// are invisible to Get and removed by Sweep, which runs on every Put and
// from the janitor.
type Store struct {
	mu     sync.Mutex
	items  map[string]item
	ttl    time.Duration
	logger echo.Logger
	now    func() time.Time
}

func New(ttl time.Duration, logger echo.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{items: make(map[string]item), ttl: ttl, logger: logger, now: time.Now}
}

// Put stores payload and returns its id: the millisecond timestamp in base
// 36 followed by a random suffix, so ids created in the same millisecond
// never collide.
func (s *Store) Put(payload json.RawMessage) string {
	now := s.now()
	id := strconv.FormatInt(now.UnixMilli(), 36) + "-" + uuid.NewString()[:8]
	cp := append(json.RawMessage(nil), payload...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
	s.items[id] = item{payload: cp, expiresAt: now.Add(s.ttl)}
	return id
}

// Get returns the payload for id when present and not expired.
func (s *Store) Get(id string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok || !s.now().Before(it.expiresAt) {
		return nil, false
	}
	return append(json.RawMessage(nil), it.payload...), true
}

// Len returns the number of stored entries, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep removes expired entries and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

func (s *Store) sweepLocked(now time.Time) int {
	n := 0
	for id, it := range s.items {
		if !now.Before(it.expiresAt) {
			delete(s.items, id)
			n++
		}
	}
	return n
}

// StartJanitor sweeps every interval until ctx is done.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := s.Sweep(); n > 0 && s.logger != nil {
					s.logger.Debugf("booking-temp: purged %d expired entries", n)
				}
			}
		}
	}()
}

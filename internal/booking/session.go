package booking

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/store"
)

const keyPrefix = "booking:"

// MaxSeats is the most seats one booking may hold.
const MaxSeats = 10

var (
	ErrInactive  = errors.New("booking: no active booking")
	ErrSeatLimit = errors.New("booking: seat limit reached")
)

// entry is the in-process copy of one session's selection.  Its mutex
// serializes operations on the same session, including the store write.
type entry struct {
	mu       sync.Mutex
	sel      Selection
	loaded   bool
	lastSeen time.Time
}

// Manager owns the booking selections of all browsing sessions served by
// this process.  The in-process copy is authoritative; the store only
// carries the selection across restarts and to other instances.  Store
// failures are logged and never returned.
type Manager struct {
	store  store.Store
	ttl    time.Duration
	logger echo.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// NewManager builds a Manager.  ttl is both the persisted lifetime and the
// idle time after which the in-process copy is evicted by Sweep.
func NewManager(st store.Store, ttl time.Duration, logger echo.Logger) *Manager {
	if st == nil || logger == nil {
		panic("nil dependency passed to booking.NewManager")
	}
	return &Manager{
		store:   st,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Read returns the current selection of sid, hydrating it from the store
// on first access.
func (m *Manager) Read(ctx context.Context, sid string) Selection {
	e := m.entry(sid)
	e.mu.Lock()
	defer e.mu.Unlock()
	m.hydrate(ctx, sid, e)
	return e.sel.Clone()
}

// Set merges p into the selection of sid and persists the result.
func (m *Manager) Set(ctx context.Context, sid string, p Patch) Selection {
	return m.update(ctx, sid, func(s *Selection) { s.Apply(p) })
}

// ToggleSeat toggles one seat of an active booking and persists the
// result.  Adding a seat to a selection that already holds limit seats
// fails with ErrSeatLimit; limit <= 0 disables the check.  Both checks run
// under the session lock, so concurrent toggles cannot overshoot.
func (m *Manager) ToggleSeat(ctx context.Context, sid, code string, limit int) (Selection, error) {
	e := m.entry(sid)
	e.mu.Lock()
	defer e.mu.Unlock()
	m.hydrate(ctx, sid, e)
	if !e.sel.Active() {
		return e.sel.Clone(), ErrInactive
	}
	code = strings.TrimSpace(code)
	if limit > 0 && !e.sel.HasSeat(code) && len(e.sel.Seats) >= limit {
		return e.sel.Clone(), ErrSeatLimit
	}
	e.sel.ToggleSeat(code)
	m.persist(ctx, sid, e.sel)
	return e.sel.Clone(), nil
}

// Clear resets the selection of sid and removes the persisted copy.
func (m *Manager) Clear(ctx context.Context, sid string) {
	e := m.entry(sid)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel = Selection{}
	e.loaded = true
	if err := m.store.Delete(ctx, keyPrefix+sid); err != nil {
		m.logger.Warnf("booking: clear persisted selection sid=%s: %v", sid, err)
	}
}

// Sweep drops in-process copies idle for longer than the TTL and returns
// how many were removed.  Persisted copies expire on their own.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for sid, e := range m.entries {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastSeen.Before(cutoff) {
			delete(m.entries, sid)
			n++
		}
		e.mu.Unlock()
	}
	return n
}

// StartJanitor runs Sweep every interval until ctx is cancelled.
func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := m.Sweep(); n > 0 {
					m.logger.Debugf("booking: evicted %d idle selections", n)
				}
			}
		}
	}()
}

func (m *Manager) update(ctx context.Context, sid string, fn func(*Selection)) Selection {
	e := m.entry(sid)
	e.mu.Lock()
	defer e.mu.Unlock()
	m.hydrate(ctx, sid, e)
	fn(&e.sel)
	m.persist(ctx, sid, e.sel)
	return e.sel.Clone()
}

func (m *Manager) entry(sid string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[sid]
	if !ok {
		e = &entry{}
		m.entries[sid] = e
	}
	e.lastSeen = m.now()
	return e
}

// hydrate loads the persisted selection once per in-process entry.  The
// caller holds e.mu.
func (m *Manager) hydrate(ctx context.Context, sid string, e *entry) {
	if e.loaded {
		return
	}
	e.loaded = true
	b, err := m.store.Get(ctx, keyPrefix+sid)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.logger.Warnf("booking: read persisted selection sid=%s: %v", sid, err)
		}
		return
	}
	var sel Selection
	if err := json.Unmarshal(b, &sel); err != nil {
		m.logger.Warnf("booking: decode persisted selection sid=%s: %v", sid, err)
		return
	}
	e.sel = sel
}

func (m *Manager) persist(ctx context.Context, sid string, sel Selection) {
	if sel.IsEmpty() {
		if err := m.store.Delete(ctx, keyPrefix+sid); err != nil {
			m.logger.Warnf("booking: delete persisted selection sid=%s: %v", sid, err)
		}
		return
	}
	b, err := json.Marshal(sel)
	if err != nil {
		m.logger.Warnf("booking: encode selection sid=%s: %v", sid, err)
		return
	}
	if err := m.store.Set(ctx, keyPrefix+sid, b, m.ttl); err != nil {
		m.logger.Warnf("booking: persist selection sid=%s: %v", sid, err)
	}
}

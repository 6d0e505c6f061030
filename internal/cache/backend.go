package cache

import (
	"context"
	"sync"
	"time"
)

// Backend stores entries together with the tags they provide.  Get reports
// ok=false for missing or expired entries.  Invalidate removes every entry
// indexed under any of the tags and returns how many were removed.
type Backend interface {
	Get(ctx context.Context, key string) (body []byte, ok bool, err error)
	Set(ctx context.Context, key string, body []byte, tags []Tag, ttl time.Duration) error
	Invalidate(ctx context.Context, tags []Tag) (int, error)
}

type memEntry struct {
	body      []byte
	tags      []Tag
	expiresAt time.Time
}

// MemoryBackend is a process-local Backend with an explicit tag -> keys
// dependency index.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]memEntry
	index   map[Tag]map[string]struct{}
	now     func() time.Time
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[string]memEntry),
		index:   make(map[Tag]map[string]struct{}),
		now:     time.Now,
	}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !b.now().Before(e.expiresAt) {
		b.removeLocked(key)
		return nil, false, nil
	}
	return append([]byte(nil), e.body...), true, nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, body []byte, tags []Tag, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(key)
	e := memEntry{body: append([]byte(nil), body...), tags: append([]Tag(nil), tags...)}
	if ttl > 0 {
		e.expiresAt = b.now().Add(ttl)
	}
	b.entries[key] = e
	for _, t := range tags {
		keys, ok := b.index[t]
		if !ok {
			keys = make(map[string]struct{})
			b.index[t] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

func (b *MemoryBackend) Invalidate(_ context.Context, tags []Tag) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, t := range tags {
		for key := range b.index[t] {
			if _, ok := b.entries[key]; ok {
				b.removeLocked(key)
				n++
			}
		}
		delete(b.index, t)
	}
	return n, nil
}

// Len reports the number of live and expired entries held.
func (b *MemoryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

func (b *MemoryBackend) removeLocked(key string) {
	e, ok := b.entries[key]
	if !ok {
		return
	}
	delete(b.entries, key)
	for _, t := range e.tags {
		if keys, ok := b.index[t]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(b.index, t)
			}
		}
	}
}

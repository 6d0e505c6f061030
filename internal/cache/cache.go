package cache

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// TagCache fronts a Backend with a TTL policy, a body size limit and the
// subscriber registry.  Backend failures degrade to cache misses.
type TagCache struct {
	backend Backend
	ttl     time.Duration
	maxBody int
	logger  echo.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]*Subscription
}

// Options configures a TagCache.
type Options struct {
	TTL          time.Duration
	MaxBodyBytes int
}

// New builds a TagCache over backend.
func New(backend Backend, opts Options, logger echo.Logger) *TagCache {
	if backend == nil || logger == nil {
		panic("nil dependency passed to cache.New")
	}
	return &TagCache{
		backend: backend,
		ttl:     opts.TTL,
		maxBody: opts.MaxBodyBytes,
		logger:  logger,
		subs:    make(map[int]*Subscription),
	}
}

// Get returns the cached body for key.
func (c *TagCache) Get(ctx context.Context, key string) ([]byte, bool) {
	body, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		c.logger.Warnf("cache: get %s: %v", key, err)
		return nil, false
	}
	return body, ok
}

// Set stores body under key, indexed by tags.  Bodies over the size limit
// are not cached.
func (c *TagCache) Set(ctx context.Context, key string, body []byte, tags []Tag) {
	if c.maxBody > 0 && len(body) > c.maxBody {
		return
	}
	if err := c.backend.Set(ctx, key, body, tags, c.ttl); err != nil {
		c.logger.Warnf("cache: set %s: %v", key, err)
	}
}

// Invalidate drops every entry that provides any of tags and notifies the
// subscribers of those tags.  Subscribers are notified even if the backend
// fails, so views refetch either way.
func (c *TagCache) Invalidate(ctx context.Context, tags ...Tag) {
	if len(tags) == 0 {
		return
	}
	if n, err := c.backend.Invalidate(ctx, tags); err != nil {
		c.logger.Warnf("cache: invalidate %v: %v", tags, err)
	} else if n > 0 {
		c.logger.Debugf("cache: invalidated %d entries for %v", n, tags)
	}
	c.notify(tags)
}

// Subscription delivers the tags that were invalidated among those it
// watches.  C is buffered with capacity 1 and coalesces bursts: a slow
// reader sees at least one notification per burst, carrying the most
// recent invalidated tag.
type Subscription struct {
	C <-chan Tag

	c     chan Tag
	tags  map[Tag]struct{}
	types map[string]struct{}
	id    int
	owner *TagCache
}

// Subscribe registers interest in tags.  A tag with an empty ID watches
// every tag of that resource type.
func (c *TagCache) Subscribe(tags ...Tag) *Subscription {
	ch := make(chan Tag, 1)
	s := &Subscription{
		C:     ch,
		c:     ch,
		tags:  make(map[Tag]struct{}),
		types: make(map[string]struct{}),
		owner: c,
	}
	for _, t := range tags {
		if t.ID == "" {
			s.types[t.Type] = struct{}{}
		} else {
			s.tags[t] = struct{}{}
		}
	}
	c.mu.Lock()
	c.nextID++
	s.id = c.nextID
	c.subs[s.id] = s
	c.mu.Unlock()
	return s
}

// Close unregisters the subscription.  C is not closed.
func (s *Subscription) Close() {
	s.owner.mu.Lock()
	delete(s.owner.subs, s.id)
	s.owner.mu.Unlock()
}

// Subscribers reports how many subscriptions are open.
func (c *TagCache) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

func (s *Subscription) watches(t Tag) bool {
	if _, ok := s.tags[t]; ok {
		return true
	}
	_, ok := s.types[t.Type]
	return ok
}

func (c *TagCache) notify(tags []Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.subs {
		for _, t := range tags {
			if !s.watches(t) {
				continue
			}
			select {
			case s.c <- t:
			default:
				// drop the stale pending tag and deliver the newest
				select {
				case <-s.c:
				default:
				}
				select {
				case s.c <- t:
				default:
				}
			}
		}
	}
}

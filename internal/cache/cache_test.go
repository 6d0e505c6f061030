package cache

import (
	"context"
	"testing"
	"time"

	"github.com/iliyamo/cinema-booking-web/internal/logging"
)

func newTestCache() (*TagCache, *MemoryBackend) {
	b := NewMemoryBackend()
	return New(b, Options{TTL: time.Minute}, logging.Discard()), b
}

func TestInvalidateDropsDependentEntries(t *testing.T) {
	ctx := context.Background()
	c, b := newTestCache()

	c.Set(ctx, "GET /movies", []byte(`[1,2]`), []Tag{ListTag("movies")})
	c.Set(ctx, "GET /movies/1", []byte(`{"id":1}`), []Tag{IDTag("movies", "1")})
	c.Set(ctx, "GET /movies/2", []byte(`{"id":2}`), []Tag{IDTag("movies", "2")})
	c.Set(ctx, "GET /combos", []byte(`[]`), []Tag{ListTag("combos")})

	c.Invalidate(ctx, MutationTags("movies", "1")...)

	for _, key := range []string{"GET /movies", "GET /movies/1"} {
		if _, ok := c.Get(ctx, key); ok {
			t.Errorf("%s still cached after mutation", key)
		}
	}
	for _, key := range []string{"GET /movies/2", "GET /combos"} {
		if _, ok := c.Get(ctx, key); !ok {
			t.Errorf("%s dropped by unrelated mutation", key)
		}
	}
	if b.Len() != 2 {
		t.Errorf("backend holds %d entries, want 2", b.Len())
	}
}

func TestSetReplacesTagsOfExistingKey(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache()

	c.Set(ctx, "k", []byte("v1"), []Tag{ListTag("rooms")})
	c.Set(ctx, "k", []byte("v2"), []Tag{ListTag("theaters")})
	c.Invalidate(ctx, ListTag("rooms"))

	body, ok := c.Get(ctx, "k")
	if !ok || string(body) != "v2" {
		t.Errorf("Get = %q,%v; old tag index must not drop the new entry", body, ok)
	}
}

func TestEntriesExpire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	c, b := newTestCache()
	b.now = func() time.Time { return now }

	c.Set(ctx, "k", []byte("v"), []Tag{ListTag("ranks")})
	now = now.Add(time.Minute)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("entry served past its TTL")
	}
}

func TestMaxBodySkipsLargeResponses(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryBackend(), Options{MaxBodyBytes: 4}, logging.Discard())
	c.Set(ctx, "k", []byte("too large"), nil)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("oversized body cached")
	}
}

func TestSubscribersAreNotified(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache()

	detail := c.Subscribe(IDTag("showtimes", "9"))
	anyRoom := c.Subscribe(Tag{Type: "rooms"})
	other := c.Subscribe(ListTag("promotions"))
	defer detail.Close()
	defer anyRoom.Close()

	c.Invalidate(ctx, MutationTags("showtimes", "9")...)
	c.Invalidate(ctx, IDTag("rooms", "4"))

	select {
	case got := <-detail.C:
		if got != IDTag("showtimes", "9") {
			t.Errorf("detail got %v", got)
		}
	default:
		t.Error("detail subscriber not notified")
	}
	select {
	case got := <-anyRoom.C:
		if got.Type != "rooms" {
			t.Errorf("type subscriber got %v", got)
		}
	default:
		t.Error("type subscriber not notified")
	}

	other.Close()
	c.Invalidate(ctx, ListTag("promotions"))
	select {
	case <-other.C:
		t.Error("closed subscription notified")
	default:
	}
}

func TestNotificationsCoalesce(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache()
	s := c.Subscribe(Tag{Type: "bookings"})
	defer s.Close()

	c.Invalidate(ctx, IDTag("bookings", "1"))
	c.Invalidate(ctx, IDTag("bookings", "2"))

	if got := <-s.C; got.ID != "2" {
		t.Errorf("pending tag = %v, want newest", got)
	}
	select {
	case extra := <-s.C:
		t.Errorf("unexpected second notification %v", extra)
	default:
	}
}

func TestTagString(t *testing.T) {
	tests := []struct {
		tag  Tag
		want string
	}{
		{ListTag("movies"), "movies:LIST"},
		{IDTag("rooms", "12"), "rooms:12"},
		{Tag{Type: "users"}, "users"},
	}
	for _, tt := range tests {
		if got := tt.tag.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		if back := ParseTag(tt.want); back != tt.tag {
			t.Errorf("ParseTag(%q) = %v", tt.want, back)
		}
	}
}

package handler

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/cinema-booking-web/internal/cache"
	"github.com/iliyamo/cinema-booking-web/internal/logging"
)

// nextLine returns the next line starting with prefix, failing after a
// second of silence.
func nextLine(t *testing.T, lines <-chan string, prefix string) string {
	t.Helper()
	timeout := time.After(time.Second)
	for {
		select {
		case l, ok := <-lines:
			if !ok {
				t.Fatalf("stream closed before %q", prefix)
			}
			if strings.HasPrefix(l, prefix) {
				return l
			}
		case <-timeout:
			t.Fatalf("no %q line within a second", prefix)
		}
	}
}

func TestInvalidationStream(t *testing.T) {
	tc := cache.New(cache.NewMemoryBackend(), cache.Options{TTL: time.Minute}, logging.Discard())
	h := NewInvalidationHandler(tc)
	h.Heartbeat = 20 * time.Millisecond
	e := newEcho()
	e.GET("/api/cache/events", h.Stream)
	srv := httptest.NewServer(e)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/cache/events?tags=movies,showtimes:3", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	lines := make(chan string, 64)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()
	nextLine(t, lines, ": watching")

	tc.Invalidate(ctx, cache.ListTag("combos"))
	tc.Invalidate(ctx, cache.IDTag("showtimes", "4"))
	tc.Invalidate(ctx, cache.IDTag("showtimes", "3"))
	if got := nextLine(t, lines, "data: "); got != "data: showtimes:3" {
		t.Errorf("first event = %q, want only watched tags", got)
	}
	tc.Invalidate(ctx, cache.MutationTags("movies", "9")...)
	if got := nextLine(t, lines, "data: "); !strings.HasPrefix(got, "data: movies:") {
		t.Errorf("type watch missed %q", got)
	}
	nextLine(t, lines, ": ping")

	cancel()
	deadline := time.Now().Add(time.Second)
	for tc.Subscribers() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription not closed after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestInvalidationStreamRejectsBadTags(t *testing.T) {
	tc := cache.New(cache.NewMemoryBackend(), cache.Options{TTL: time.Minute}, logging.Discard())
	e := newEcho()
	e.GET("/api/cache/events", NewInvalidationHandler(tc).Stream)

	for _, q := range []string{"", "?tags=", "?tags=:3", "?tags=" + strings.Repeat("movies,", maxWatchedTags+1)} {
		rec := do(e, http.MethodGet, "/api/cache/events"+q, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%q: status %d", q, rec.Code)
		}
	}
}

func TestInvalidationStreamEndsOnClosing(t *testing.T) {
	tc := cache.New(cache.NewMemoryBackend(), cache.Options{TTL: time.Minute}, logging.Discard())
	closing := make(chan struct{})
	h := NewInvalidationHandler(tc)
	h.Closing = closing
	e := newEcho()
	e.GET("/api/cache/events", h.Stream)

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		do(e, http.MethodGet, "/api/cache/events?tags=movies", "")
	}()
	close(closing)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("stream still open after Closing")
	}
	if tc.Subscribers() != 0 {
		t.Error("subscription leaked")
	}
}

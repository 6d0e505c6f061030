package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/cache"
)

const maxWatchedTags = 32

// InvalidationHandler streams response-cache invalidations to browsers as
// server-sent events, so an open view refetches when a mutation touches
// the data it shows.
type InvalidationHandler struct {
	Cache     *cache.TagCache
	Heartbeat time.Duration
	// Closing, when set, ends every open stream once closed so shutdown
	// does not wait on idle subscribers.
	Closing <-chan struct{}
}

func NewInvalidationHandler(tc *cache.TagCache) *InvalidationHandler {
	if tc == nil {
		panic("nil cache passed to NewInvalidationHandler")
	}
	return &InvalidationHandler{Cache: tc, Heartbeat: 25 * time.Second}
}

// Stream serves GET /api/cache/events?tags=movies,showtimes:3.  A bare type
// watches every tag of that type.  Each invalidation is sent as
//
//	event: invalidate
//	data: <type>:<id>
//
// until the client disconnects or Closing is closed.
func (h *InvalidationHandler) Stream(c echo.Context) error {
	tags, err := watchedTags(c.QueryParam("tags"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	sub := h.Cache.Subscribe(tags...)
	defer sub.Close()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": watching\n\n")
	w.Flush()

	beat := time.NewTicker(h.Heartbeat)
	defer beat.Stop()
	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-h.Closing:
			return nil
		case t := <-sub.C:
			if _, err := fmt.Fprintf(w, "event: invalidate\ndata: %s\n\n", t); err != nil {
				return nil
			}
		case <-beat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
		}
		w.Flush()
	}
}

func watchedTags(raw string) ([]cache.Tag, error) {
	var tags []cache.Tag
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		t := cache.ParseTag(s)
		if t.Type == "" {
			return nil, fmt.Errorf("invalid tag %q", s)
		}
		tags = append(tags, t)
	}
	switch {
	case len(tags) == 0:
		return nil, fmt.Errorf("tags is required")
	case len(tags) > maxWatchedTags:
		return nil, fmt.Errorf("at most %d tags", maxWatchedTags)
	}
	return tags, nil
}

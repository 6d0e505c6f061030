package booking

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iliyamo/cinema-booking-web/internal/logging"
	"github.com/iliyamo/cinema-booking-web/internal/store"
)

// brokenStore fails every operation, like disabled or full session storage.
type brokenStore struct{}

var errBroken = errors.New("storage disabled")

func (brokenStore) Set(context.Context, string, []byte, time.Duration) error { return errBroken }
func (brokenStore) Get(context.Context, string) ([]byte, error)              { return nil, errBroken }
func (brokenStore) Delete(context.Context, string) error                     { return errBroken }

func fullPatch() Patch {
	price := int64(85000)
	seats := []string{"D4", "D5"}
	return Patch{
		MovieID:        strPtr("5"),
		MovieTitle:     strPtr("Mai"),
		MoviePoster:    strPtr("https://cdn.example/mai.jpg"),
		TheaterID:      strPtr("1"),
		TheaterName:    strPtr("CGV Vincom"),
		TheaterAddress: strPtr("72 Lê Thánh Tôn"),
		ShowtimeID:     strPtr("301"),
		ShowDate:       strPtr("2026-10-20"),
		ShowTime:       strPtr("19:30"),
		Format:         strPtr("2D"),
		RoomID:         strPtr("12"),
		TicketPrice:    &price,
		Seats:          &seats,
	}
}

func TestManagerRehydratesFromStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	first := NewManager(st, time.Hour, logging.Discard())
	first.Set(ctx, "sid-1", fullPatch())
	saved, err := first.ToggleSeat(ctx, "sid-1", "E1", MaxSeats)
	if err != nil {
		t.Fatal(err)
	}

	// A fresh manager on the same store simulates a reload.
	second := NewManager(st, time.Hour, logging.Discard())
	got := second.Read(ctx, "sid-1")
	if !reflect.DeepEqual(got, saved) {
		t.Errorf("rehydrated = %+v\nwant %+v", got, saved)
	}
	if !got.Active() {
		t.Error("complete selection should be active after reload")
	}
}

func TestManagerClearThenRead(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	m := NewManager(st, time.Hour, logging.Discard())

	m.Set(ctx, "sid", fullPatch())
	m.Clear(ctx, "sid")

	if got := m.Read(ctx, "sid"); !got.IsEmpty() {
		t.Errorf("Read after Clear = %+v, want empty", got)
	}
	if st.Len() != 0 {
		t.Error("persisted copy not removed")
	}
	if got := NewManager(st, time.Hour, logging.Discard()).Read(ctx, "sid"); !got.IsEmpty() {
		t.Errorf("reloaded after Clear = %+v, want empty", got)
	}
}

func TestManagerSoftFailsOnBrokenStore(t *testing.T) {
	ctx := context.Background()
	m := NewManager(brokenStore{}, time.Hour, logging.Discard())

	m.Set(ctx, "sid", fullPatch())
	if _, err := m.ToggleSeat(ctx, "sid", "A1", MaxSeats); err != nil {
		t.Fatal(err)
	}

	got := m.Read(ctx, "sid")
	if got.MovieID != "5" || !got.HasSeat("A1") {
		t.Errorf("in-process state lost on store failure: %+v", got)
	}
	m.Clear(ctx, "sid")
	if !m.Read(ctx, "sid").IsEmpty() {
		t.Error("Clear must reset in-process state even if the store fails")
	}
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemoryStore(), time.Hour, logging.Discard())
	m.Set(ctx, "a", Patch{MovieID: strPtr("1")})
	if got := m.Read(ctx, "b"); !got.IsEmpty() {
		t.Errorf("session b sees %+v", got)
	}
}

func TestManagerToggleSeatGuards(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemoryStore(), time.Hour, logging.Discard())

	if _, err := m.ToggleSeat(ctx, "idle", "A1", MaxSeats); !errors.Is(err, ErrInactive) {
		t.Errorf("toggle without a booking: err = %v, want ErrInactive", err)
	}

	m.Set(ctx, "sid", fullPatch())
	if _, err := m.ToggleSeat(ctx, "sid", "D6", 2); !errors.Is(err, ErrSeatLimit) {
		t.Errorf("third seat with limit 2: err = %v, want ErrSeatLimit", err)
	}
	got, err := m.ToggleSeat(ctx, "sid", "D5", 2)
	if err != nil || got.HasSeat("D5") {
		t.Errorf("deselect at the limit: %+v, %v", got.Seats, err)
	}
	if _, err := m.ToggleSeat(ctx, "sid", "D6", 0); err != nil {
		t.Errorf("limit 0 should not cap: %v", err)
	}
}

func TestManagerToggleSeatLimitUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemoryStore(), time.Hour, logging.Discard())
	p := fullPatch()
	none := []string{}
	p.Seats = &none
	m.Set(ctx, "sid", p)

	var wg sync.WaitGroup
	var limited atomic.Int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code := fmt.Sprintf("F%d", i+1)
			if _, err := m.ToggleSeat(ctx, "sid", code, MaxSeats); errors.Is(err, ErrSeatLimit) {
				limited.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if n := len(m.Read(ctx, "sid").Seats); n != MaxSeats {
		t.Errorf("selection holds %d seats, want %d", n, MaxSeats)
	}
	if limited.Load() != 20-MaxSeats {
		t.Errorf("%d toggles rejected, want %d", limited.Load(), 20-MaxSeats)
	}
}

func TestManagerSweepEvictsIdle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore()
	m := NewManager(st, time.Hour, logging.Discard())
	m.now = func() time.Time { return now }

	m.Set(ctx, "old", Patch{MovieID: strPtr("1")})
	now = now.Add(2 * time.Hour)
	m.Read(ctx, "fresh")

	if n := m.Sweep(); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}
	if _, ok := m.entries["fresh"]; !ok {
		t.Error("fresh entry evicted")
	}
}

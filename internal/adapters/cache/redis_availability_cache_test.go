package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"fieldservice-booking/internal/domain"
)

func newTestCache(t *testing.T) *RedisAvailabilityCache {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisAvailabilityCache(client)
}

func sampleDay(date time.Time) domain.DayAvailability {
	travel := 10
	return domain.DayAvailability{
		Date: date,
		Slots: []domain.CandidateSlot{
			{
				Start:                 480,
				Available:             true,
				TravelFromPrevMinutes: &travel,
				EfficiencyScore:       80,
				Window:                domain.ArrivalWindow{Earliest: 478, Latest: 482},
			},
		},
		RecommendedStartTimes: []domain.TimeOfDay{480},
		DayEfficiencyScore:    80,
	}
}

func TestRedisAvailabilityCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	techID := uuid.New()
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	loc := domain.Location{Lat: 33.4484, Lng: -112.074}
	key := Key(techID, date, 60, loc)

	got, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatal("expected miss on empty cache")
	}

	day := sampleDay(date)
	if err := c.Put(ctx, key, day, time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err = c.Get(ctx, key)
	if err != nil {
		t.Fatalf("get after put: %v", err)
	}
	if got == nil {
		t.Fatal("expected hit after put")
	}
	if got.DayEfficiencyScore != 80 || len(got.Slots) != 1 {
		t.Fatalf("unexpected cached payload: %+v", got)
	}
	if got.Slots[0].TravelFromPrevMinutes == nil || *got.Slots[0].TravelFromPrevMinutes != 10 {
		t.Fatalf("travel annotation lost in round trip: %+v", got.Slots[0])
	}
}

func TestRedisAvailabilityCacheInvalidateDay(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	techID := uuid.New()
	otherTech := uuid.New()
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	day := sampleDay(date)

	// Two entries for the same technician-day (different durations),
	// one for another technician.
	loc := domain.Location{Lat: 33.4484, Lng: -112.074}
	keys := []string{
		Key(techID, date, 60, loc),
		Key(techID, date, 120, loc),
	}
	otherKey := Key(otherTech, date, 60, loc)

	for _, k := range append(keys, otherKey) {
		if err := c.Put(ctx, k, day, time.Minute); err != nil {
			t.Fatalf("put %q: %v", k, err)
		}
	}

	if err := c.InvalidateDay(ctx, techID, date); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	for _, k := range keys {
		got, err := c.Get(ctx, k)
		if err != nil {
			t.Fatalf("get %q: %v", k, err)
		}
		if got != nil {
			t.Errorf("key %q survived invalidation", k)
		}
	}

	got, err := c.Get(ctx, otherKey)
	if err != nil {
		t.Fatalf("get other tech: %v", err)
	}
	if got == nil {
		t.Error("other technician's entry must survive invalidation")
	}
}

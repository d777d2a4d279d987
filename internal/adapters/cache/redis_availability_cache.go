package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"fieldservice-booking/internal/domain"
)

const keyDayFormat = "2006-01-02"

// RedisAvailabilityCache stores computed day availability as JSON
// under keys scoped by technician, day, service duration, and a
// coarse customer position. Entries expire on their own via TTL and
// are dropped eagerly when a booking changes the underlying day.
type RedisAvailabilityCache struct {
	Client *redis.Client
}

func NewRedisAvailabilityCache(client *redis.Client) *RedisAvailabilityCache {
	return &RedisAvailabilityCache{Client: client}
}

// Key builds the cache key for one availability request. Coordinates
// are rounded to four decimals (~11 m) so nearby lookups for the same
// customer share an entry.
func Key(technicianID uuid.UUID, date time.Time, durationMinutes int, loc domain.Location) string {
	return fmt.Sprintf("avail:%s:%s:%d:%.4f:%.4f",
		technicianID, date.Format(keyDayFormat), durationMinutes, loc.Lat, loc.Lng)
}

func (c *RedisAvailabilityCache) Key(technicianID uuid.UUID, date time.Time, durationMinutes int, loc domain.Location) string {
	return Key(technicianID, date, durationMinutes, loc)
}

// dayPrefix covers every entry for a technician-day regardless of
// duration or customer position.
func dayPrefix(technicianID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("avail:%s:%s:*", technicianID, date.Format(keyDayFormat))
}

func (c *RedisAvailabilityCache) Get(ctx context.Context, key string) (*domain.DayAvailability, error) {
	if c.Client == nil {
		return nil, errors.New("availability cache: client is nil")
	}

	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get availability cache: %w", err)
	}

	var day domain.DayAvailability
	if err := json.Unmarshal(raw, &day); err != nil {
		return nil, fmt.Errorf("get availability cache: decode %q: %w", key, err)
	}

	return &day, nil
}

func (c *RedisAvailabilityCache) Put(ctx context.Context, key string, day domain.DayAvailability, ttl time.Duration) error {
	if c.Client == nil {
		return errors.New("availability cache: client is nil")
	}

	raw, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("put availability cache: encode %q: %w", key, err)
	}

	if err := c.Client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("put availability cache: %w", err)
	}

	return nil
}

// InvalidateDay scans out every cached entry for the technician-day.
// A freshly booked slot must never be offered again from cache.
func (c *RedisAvailabilityCache) InvalidateDay(ctx context.Context, technicianID uuid.UUID, date time.Time) error {
	if c.Client == nil {
		return errors.New("availability cache: client is nil")
	}

	iter := c.Client.Scan(ctx, 0, dayPrefix(technicianID, date), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.Client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("invalidate availability cache: del %q: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("invalidate availability cache: scan: %w", err)
	}

	return nil
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/fieldbooking/config"
	"github.com/Domenick1991/fieldbooking/internal/calendar"
	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client         redis.Cmdable
	fieldsTTL      time.Duration
	bookedHoursTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, fieldsTTL, bookedHoursTTL time.Duration) *RedisCache {
	return newRedisCache(redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}), fieldsTTL, bookedHoursTTL)
}

func newRedisCache(client redis.Cmdable, fieldsTTL, bookedHoursTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, fieldsTTL: fieldsTTL, bookedHoursTTL: bookedHoursTTL}
}

// GetActiveFields returns nil, nil on a miss.
func (c *RedisCache) GetActiveFields(ctx context.Context) ([]domain.Field, error) {
	var fields []domain.Field
	if ok, err := c.get(ctx, activeFieldsKey(), &fields); err != nil || !ok {
		return nil, err
	}
	return fields, nil
}

func (c *RedisCache) SetActiveFields(ctx context.Context, fields []domain.Field) error {
	return c.set(ctx, activeFieldsKey(), fields, c.fieldsTTL)
}

func (c *RedisCache) InvalidateFields(ctx context.Context) error {
	return c.client.Del(ctx, activeFieldsKey()).Err()
}

// GetBookedHours reports ok=false on a miss. An empty cached list is a hit.
// The returned generation must be handed back to SetBookedHours, so a fill
// that raced an invalidation lands on a key no reader will look at again.
func (c *RedisCache) GetBookedHours(ctx context.Context, fieldID string, day calendar.Day) ([]string, int64, bool, error) {
	gen, err := c.client.Get(ctx, bookedHoursGenerationKey(fieldID, day)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, err
	}

	hours := []string{}
	ok, err := c.get(ctx, bookedHoursKey(fieldID, day, gen), &hours)
	if err != nil || !ok {
		return nil, gen, false, err
	}
	return hours, gen, true, nil
}

func (c *RedisCache) SetBookedHours(ctx context.Context, fieldID string, day calendar.Day, gen int64, hours []string) error {
	if hours == nil {
		hours = []string{}
	}
	return c.set(ctx, bookedHoursKey(fieldID, day, gen), hours, c.bookedHoursTTL)
}

// InvalidateBookedHours bumps the generation and drops the current entry.
// The generation key has no expiry; a reset would revive older entries.
func (c *RedisCache) InvalidateBookedHours(ctx context.Context, fieldID string, day calendar.Day) error {
	genKey := bookedHoursGenerationKey(fieldID, day)
	prev, err := c.client.Get(ctx, genKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Del(ctx, bookedHoursKey(fieldID, day, prev))
		return nil
	})
	return err
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, v any, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func activeFieldsKey() string {
	return "cache:fields:active"
}

func bookedHoursKey(fieldID string, day calendar.Day, gen int64) string {
	return fmt.Sprintf("cache:booked-hours:%s:%s:v%d", fieldID, day, gen)
}

func bookedHoursGenerationKey(fieldID string, day calendar.Day) string {
	return fmt.Sprintf("cache:booked-hours-gen:%s:%s", fieldID, day)
}

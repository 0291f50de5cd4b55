package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/platform/obs"
)

// RedisStatusCache caches the denormalized shipment status so public
// tracking lookups skip the database on repeat reads.
type RedisStatusCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStatusCache(client *redis.Client, ttl time.Duration) *RedisStatusCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisStatusCache{Client: client, TTL: ttl}
}

func statusKey(shipmentID int64) string {
	return fmt.Sprintf("shipment:%d:status", shipmentID)
}

func (c *RedisStatusCache) GetStatus(ctx context.Context, shipmentID int64) (_ domain.ShipmentStatus, _ bool, err error) {
	defer obs.Time(ctx, "cache.get_status")(&err)

	if c.Client == nil {
		return "", false, errors.New("status cache: client is nil")
	}

	val, err := c.Client.Get(ctx, statusKey(shipmentID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get status cache shipment_id=%d: %w", shipmentID, err)
	}

	status := domain.ShipmentStatus(val)
	if !domain.ValidShipmentStatus(status) {
		// Stale or corrupt entry; treat as a miss.
		return "", false, nil
	}
	return status, true, nil
}

func (c *RedisStatusCache) SetStatus(ctx context.Context, shipmentID int64, status domain.ShipmentStatus) (err error) {
	defer obs.Time(ctx, "cache.set_status")(&err)

	if c.Client == nil {
		return errors.New("status cache: client is nil")
	}

	if err := c.Client.Set(ctx, statusKey(shipmentID), string(status), c.TTL).Err(); err != nil {
		return fmt.Errorf("set status cache shipment_id=%d: %w", shipmentID, err)
	}
	return nil
}

func (c *RedisStatusCache) DeleteStatus(ctx context.Context, shipmentID int64) (err error) {
	defer obs.Time(ctx, "cache.delete_status")(&err)

	if c.Client == nil {
		return errors.New("status cache: client is nil")
	}

	if err := c.Client.Del(ctx, statusKey(shipmentID)).Err(); err != nil {
		return fmt.Errorf("delete status cache shipment_id=%d: %w", shipmentID, err)
	}
	return nil
}

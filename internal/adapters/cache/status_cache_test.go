package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"freight-tracking-service/internal/domain"
)

func newTestCache(t *testing.T) (*RedisStatusCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStatusCache(client, time.Minute), mr
}

func TestStatusCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if _, ok, err := c.GetStatus(ctx, 7); err != nil || ok {
		t.Fatalf("cold read = (ok=%v, err=%v), want miss", ok, err)
	}

	if err := c.SetStatus(ctx, 7, domain.StatusInTransit); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	status, ok, err := c.GetStatus(ctx, 7)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok || status != domain.StatusInTransit {
		t.Errorf("got (%s, %v), want (in_transit, true)", status, ok)
	}
}

func TestStatusCacheDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.SetStatus(ctx, 7, domain.StatusDelivered); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := c.DeleteStatus(ctx, 7); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, ok, err := c.GetStatus(ctx, 7); err != nil || ok {
		t.Errorf("read after delete = (ok=%v, err=%v), want miss", ok, err)
	}
}

func TestStatusCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.SetStatus(ctx, 7, domain.StatusPending); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, err := c.GetStatus(ctx, 7); err != nil || ok {
		t.Errorf("read after TTL = (ok=%v, err=%v), want miss", ok, err)
	}
}

func TestStatusCacheCorruptValueIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := mr.Set("shipment:7:status", "garbage"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, ok, err := c.GetStatus(ctx, 7); err != nil || ok {
		t.Errorf("corrupt read = (ok=%v, err=%v), want miss", ok, err)
	}
}

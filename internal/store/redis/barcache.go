// Package redis provides a Redis-backed daily bar cache.
//
// Cache keys are scoped to the session date, so yesterday's entries simply
// miss today and expire on TTL. Every cache failure is soft: the scan falls
// through to the provider and keeps going.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"trend-scannerv1/internal/model"
)

// BarCache caches fetched bar series in Redis with a TTL.
type BarCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewBarCache connects to Redis and verifies the connection. Callers should
// treat a connection error as "run without a cache".
func NewBarCache(addr, password string, ttl time.Duration) (*BarCache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	log.Printf("[barcache] connected to redis at %s (ttl=%s)", addr, ttl)
	return &BarCache{client: client, ttl: ttl}, nil
}

// Get returns the cached series for symbol, or ok=false on any miss or error.
func (c *BarCache) Get(ctx context.Context, symbol string) ([]model.PriceBar, bool) {
	data, err := c.client.Get(ctx, c.key(symbol)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			log.Printf("[barcache] get %s: %v", symbol, err)
		}
		return nil, false
	}

	var bars []model.PriceBar
	if err := json.Unmarshal(data, &bars); err != nil {
		log.Printf("[barcache] corrupt entry for %s, ignoring: %v", symbol, err)
		return nil, false
	}
	return bars, true
}

// Set stores the series for symbol. Errors are logged, never surfaced.
func (c *BarCache) Set(ctx context.Context, symbol string, bars []model.PriceBar) {
	data, err := json.Marshal(bars)
	if err != nil {
		log.Printf("[barcache] marshal %s: %v", symbol, err)
		return
	}
	if err := c.client.Set(ctx, c.key(symbol), data, c.ttl).Err(); err != nil {
		log.Printf("[barcache] set %s: %v", symbol, err)
	}
}

// Close releases the Redis connection.
func (c *BarCache) Close() error {
	return c.client.Close()
}

func (c *BarCache) key(symbol string) string {
	return fmt.Sprintf("bars:%s:%s", time.Now().UTC().Format("2006-01-02"), symbol)
}

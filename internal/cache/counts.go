// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// counts.go provides a Valkey-backed cache for category roll-up counts.
// Computing the counts walks every category and aggregates published
// prompts per subtree, so the result is cached and invalidated whenever
// a write could change it.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// countsKey is the single Valkey key holding the roll-up map.
	countsKey = "counts:rollup"

	// DefaultCountsTTL bounds staleness if an invalidation is missed.
	DefaultCountsTTL = 5 * time.Minute
)

// CountsCache caches the category roll-up count map in Valkey. A nil
// CountsCache is valid and degrades to always-miss, so callers need no
// nil checks when Valkey is not configured.
type CountsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCountsCache creates a roll-up counts cache backed by the given
// Valkey client. Pass a nil client to disable caching.
func NewCountsCache(client *redis.Client, ttl time.Duration) *CountsCache {
	if client == nil {
		return nil
	}
	if ttl == 0 {
		ttl = DefaultCountsTTL
	}
	return &CountsCache{client: client, ttl: ttl}
}

// Get retrieves the cached roll-up map. Returns (nil, false) on miss or
// any cache error; cache failures never surface to callers.
func (cc *CountsCache) Get(ctx context.Context) (map[uuid.UUID]int, bool) {
	if cc == nil {
		return nil, false
	}
	val, err := cc.client.Get(ctx, countsKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("counts cache get error", "error", err)
		return nil, false
	}
	var counts map[uuid.UUID]int
	if err := json.Unmarshal(val, &counts); err != nil {
		slog.Warn("counts cache decode error", "error", err)
		return nil, false
	}
	return counts, true
}

// Set stores the roll-up map with the configured TTL.
func (cc *CountsCache) Set(ctx context.Context, counts map[uuid.UUID]int) {
	if cc == nil {
		return
	}
	data, err := json.Marshal(counts)
	if err != nil {
		slog.Warn("counts cache encode error", "error", err)
		return
	}
	if err := cc.client.Set(ctx, countsKey, data, cc.ttl).Err(); err != nil {
		slog.Warn("counts cache set error", "error", err)
	}
}

// Invalidate drops the cached map. Called after any write that can
// change category membership or a prompt's published status.
func (cc *CountsCache) Invalidate(ctx context.Context) {
	if cc == nil {
		return
	}
	if err := cc.client.Del(ctx, countsKey).Err(); err != nil {
		slog.Warn("counts cache invalidate error", "error", err)
	}
	slog.Debug("counts cache invalidated")
}

// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the content cache used in front of the
// translation store. The default backend is in-process; a Redis
// backend can be enabled for multi-instance deployments.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/linguacms/linguacms/internal/config"
)

// Stats holds hit/miss counters for a cache backend.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int64 `json:"entries"`
}

// HitRate returns the fraction of lookups served from cache.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache is a byte-oriented cache with TTL semantics. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Delete(ctx context.Context, key string)
	DeletePrefix(ctx context.Context, prefix string)
	Stats() Stats
}

// New selects a cache backend from configuration. A configured Redis
// URL that cannot be reached degrades to the in-process cache rather
// than failing startup.
func New(cfg *config.Config, log *slog.Logger) Cache {
	ttl := time.Duration(cfg.CacheTTL) * time.Second

	if !cfg.UseRedisCache() {
		return NewMemory(ttl)
	}

	rc, err := NewRedis(cfg.RedisURL, cfg.CachePrefix, ttl)
	if err != nil {
		log.Warn("redis cache unavailable, using in-process cache", "error", err)
		return NewMemory(ttl)
	}
	log.Info("using redis cache", "prefix", cfg.CachePrefix, "ttl", ttl)
	return rc
}

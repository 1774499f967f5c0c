// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the caching layer: an in-memory default and an
// optional Redis backend for multi-instance deployments.
package cache

import (
	"context"
	"time"
)

// Cache is the interface both backends implement. Values are []byte so the
// same interface serves memory and Redis. Implementations are thread-safe.
type Cache interface {
	// Get returns the value for key, or ErrCacheMiss if absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Error is a sentinel error type for cache operations.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrCacheMiss indicates the key was not found or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"
)

// Options configures the cache factory.
type Options struct {
	// RedisURL selects the Redis backend when non-empty, for example
	// redis://localhost:6379/0. Empty means in-memory.
	RedisURL string

	// Prefix is prepended to all keys on the Redis backend.
	Prefix string

	// DefaultTTL applies when Set is called with a zero ttl.
	DefaultTTL time.Duration
}

// New builds a cache from opts: Redis when a URL is configured, in-memory
// otherwise.
func New(opts Options) (Cache, error) {
	if opts.RedisURL != "" {
		return NewRedisCache(opts)
	}
	return NewMemoryCache(opts.DefaultTTL), nil
}

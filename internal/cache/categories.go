// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/olegiv/eventhub/internal/store"
)

const categoriesKey = "categories"

// Categories caches the category list, which appears in the navigation of
// every page and changes rarely. A cache failure falls back to the database.
type Categories struct {
	cache   Cache
	queries *store.Queries
}

// NewCategories creates a category list cache over the given backend.
func NewCategories(c Cache, queries *store.Queries) *Categories {
	return &Categories{cache: c, queries: queries}
}

// List returns all categories, served from cache when possible.
func (c *Categories) List(ctx context.Context) ([]store.Category, error) {
	if data, err := c.cache.Get(ctx, categoriesKey); err == nil {
		var categories []store.Category
		if err := json.Unmarshal(data, &categories); err == nil {
			return categories, nil
		}
		// Unreadable entry, drop it and reload.
		_ = c.cache.Delete(ctx, categoriesKey)
	} else if !errors.Is(err, ErrCacheMiss) {
		slog.Warn("category cache read failed", "error", err)
	}

	categories, err := c.queries.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(categories); err == nil {
		if err := c.cache.Set(ctx, categoriesKey, data, 0); err != nil {
			slog.Warn("category cache write failed", "error", err)
		}
	}
	return categories, nil
}

// Invalidate drops the cached list. Call after any category write.
func (c *Categories) Invalidate(ctx context.Context) {
	if err := c.cache.Delete(ctx, categoriesKey); err != nil {
		slog.Warn("category cache invalidation failed", "error", err)
	}
}

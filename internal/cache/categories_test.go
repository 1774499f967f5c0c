package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/olegiv/eventhub/internal/store"
)

func TestCategories_ListAndInvalidate(t *testing.T) {
	f, err := os.CreateTemp("", "eventhub-cache-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		db.Close()
		os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	ctx := context.Background()
	queries := store.New(db)
	backend := NewMemoryCache(time.Minute)
	defer backend.Close()
	categories := NewCategories(backend, queries)

	if _, err := queries.CreateCategory(ctx, store.CreateCategoryParams{Name: "Music", Slug: "music"}); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	first, err := categories.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(first) != 1 || first[0].Name != "Music" {
		t.Fatalf("List = %+v, want one Music category", first)
	}

	// A write that bypasses invalidation is not visible: the list is served
	// from cache.
	if _, err := queries.CreateCategory(ctx, store.CreateCategoryParams{Name: "Theatre", Slug: "theatre"}); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	cached, err := categories.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(cached) != 1 {
		t.Errorf("cached list = %d entries, want 1", len(cached))
	}

	categories.Invalidate(ctx)
	fresh, err := categories.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(fresh) != 2 {
		t.Errorf("fresh list = %d entries, want 2", len(fresh))
	}
}

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/olegiv/eventhub/internal/model"
	"github.com/olegiv/eventhub/internal/store"
)

func TestLogLogin_ParsesUserAgent(t *testing.T) {
	db := testDB(t)
	audit := NewAuditService(db, nil)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	audit.LogLogin(ctx, "user logged in", &user.ID, "192.168.1.10",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	entries, err := store.New(db).ListAuditEntries(ctx, store.ListAuditEntriesParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListAuditEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}

	e := entries[0]
	if e.Category != model.AuditCategoryAuth {
		t.Errorf("Category = %q, want %q", e.Category, model.AuditCategoryAuth)
	}
	if !e.UserID.Valid || e.UserID.Int64 != user.ID {
		t.Errorf("UserID = %v, want %d", e.UserID, user.ID)
	}

	var metadata map[string]any
	if err := json.Unmarshal([]byte(e.Metadata), &metadata); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}
	if metadata["browser"] != "Chrome" {
		t.Errorf("browser = %v, want Chrome", metadata["browser"])
	}
	if metadata["os"] != "Windows" {
		t.Errorf("os = %v, want Windows", metadata["os"])
	}
	if metadata["device"] != "desktop" {
		t.Errorf("device = %v, want desktop", metadata["device"])
	}
}

func TestPruneOlderThan(t *testing.T) {
	db := testDB(t)
	audit := NewAuditService(db, nil)
	ctx := context.Background()
	q := store.New(db)

	if _, err := q.CreateAuditEntry(ctx, store.CreateAuditEntryParams{
		Level:     model.AuditLevelInfo,
		Category:  model.AuditCategorySystem,
		Message:   "old entry",
		Metadata:  "{}",
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}); err != nil {
		t.Fatalf("CreateAuditEntry: %v", err)
	}
	audit.LogInfo(ctx, model.AuditCategorySystem, "fresh entry", nil, "", nil)

	removed, err := audit.PruneOlderThan(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("PruneOlderThan: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	n, err := q.CountAuditEntries(ctx)
	if err != nil {
		t.Fatalf("CountAuditEntries: %v", err)
	}
	if n != 1 {
		t.Errorf("remaining = %d, want 1", n)
	}
}

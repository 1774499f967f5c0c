// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mileusna/useragent"

	"github.com/olegiv/eventhub/internal/geoip"
	"github.com/olegiv/eventhub/internal/model"
	"github.com/olegiv/eventhub/internal/store"
)

// AuditService writes application events to the audit log table.
type AuditService struct {
	queries *store.Queries
	geo     *geoip.Resolver
}

// NewAuditService creates an AuditService over db. geo may be nil when GeoIP
// enrichment is not configured.
func NewAuditService(db *sql.DB, geo *geoip.Resolver) *AuditService {
	return &AuditService{queries: store.New(db), geo: geo}
}

// Log writes one audit entry. Failures are logged and swallowed so audit
// problems never break the request that triggered them.
func (s *AuditService) Log(ctx context.Context, level, category, message string, userID *int64, ipAddress string, metadata map[string]any) {
	var nullUserID sql.NullInt64
	if userID != nil {
		nullUserID = sql.NullInt64{Int64: *userID, Valid: true}
	}

	metadataJSON := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	_, err := s.queries.CreateAuditEntry(ctx, store.CreateAuditEntryParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    nullUserID,
		IPAddress: ipAddress,
		Metadata:  metadataJSON,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("writing audit entry", "category", category, "error", err)
	}
}

// LogInfo writes an info-level entry.
func (s *AuditService) LogInfo(ctx context.Context, category, message string, userID *int64, ipAddress string, metadata map[string]any) {
	s.Log(ctx, model.AuditLevelInfo, category, message, userID, ipAddress, metadata)
}

// LogWarning writes a warning-level entry.
func (s *AuditService) LogWarning(ctx context.Context, category, message string, userID *int64, ipAddress string, metadata map[string]any) {
	s.Log(ctx, model.AuditLevelWarning, category, message, userID, ipAddress, metadata)
}

// LogError writes an error-level entry.
func (s *AuditService) LogError(ctx context.Context, category, message string, userID *int64, ipAddress string, metadata map[string]any) {
	s.Log(ctx, model.AuditLevelError, category, message, userID, ipAddress, metadata)
}

// LogLogin records an authentication event enriched with the parsed browser,
// OS and, when a GeoIP database is loaded, the client's country code.
func (s *AuditService) LogLogin(ctx context.Context, message string, userID *int64, ipAddress, userAgent string) {
	metadata := map[string]any{}

	if userAgent != "" {
		ua := useragent.Parse(userAgent)
		metadata["browser"] = ua.Name
		metadata["browser_version"] = ua.Version
		metadata["os"] = ua.OS
		if ua.Mobile {
			metadata["device"] = "mobile"
		} else if ua.Tablet {
			metadata["device"] = "tablet"
		} else {
			metadata["device"] = "desktop"
		}
		if ua.Bot {
			metadata["bot"] = true
		}
	}

	if s.geo != nil {
		if country := s.geo.CountryCode(ipAddress); country != "" {
			metadata["country"] = country
		}
	}

	s.Log(ctx, model.AuditLevelInfo, model.AuditCategoryAuth, message, userID, ipAddress, metadata)
}

// PruneOlderThan deletes audit entries older than the given retention window
// and returns the number removed.
func (s *AuditService) PruneOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	return s.queries.PruneAuditEntries(ctx, time.Now().Add(-retention))
}

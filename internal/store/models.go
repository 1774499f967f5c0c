// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"

	"github.com/olegiv/eventhub/internal/model"
)

// User represents an account. Role is the coarse role enum; IsStaff is the
// blanket elevated-privilege flag used by the ownership policy.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	IsStaff      bool
	Bio          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  sql.NullTime
}

// IsStaffish returns true if the user has the staff flag or a staff/admin
// role. Read-side convenience only; mutation authorization looks at the
// flag alone.
func (u User) IsStaffish() bool {
	return u.IsStaff || u.Role == model.RoleStaff || u.Role == model.RoleAdmin
}

// Category groups events. Slug is derived from the name at creation and
// never regenerated.
type Category struct {
	ID   int64
	Name string
	Slug string
}

// Event is a bookable event owned by a user.
type Event struct {
	ID          int64
	OwnerID     int64
	CategoryID  sql.NullInt64
	Title       string
	Slug        string
	Description string
	Location    string
	StartsAt    time.Time
	Capacity    int64
	CreatedAt   time.Time
}

// Ticket is a booking of one seat at an event. At most one per (user, event).
type Ticket struct {
	ID        int64
	UserID    int64
	EventID   int64
	SeatType  string
	Reference string
	BookedAt  time.Time
}

// Review is a rating with comment. At most one per (user, event).
type Review struct {
	ID        int64
	UserID    int64
	EventID   int64
	Rating    int64
	Comment   string
	CreatedAt time.Time
}

// Favorite marks an event as saved by a user. At most one per (user, event).
type Favorite struct {
	ID        int64
	UserID    int64
	EventID   int64
	CreatedAt time.Time
}

// Group is a named permission group.
type Group struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Permission is a (resource, action) pair from the permission catalog.
type Permission struct {
	ID       int64
	Resource string
	Action   string
}

// AuditEntry is a row in the audit log.
type AuditEntry struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	IPAddress string
	Metadata  string // JSON string
	CreatedAt time.Time
}

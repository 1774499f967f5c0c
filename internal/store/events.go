// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const eventColumns = `id, owner_id, category_id, title, slug, description, location, starts_at, capacity, created_at`

func scanEvent(row *sql.Row) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.OwnerID, &e.CategoryID, &e.Title, &e.Slug,
		&e.Description, &e.Location, &e.StartsAt, &e.Capacity, &e.CreatedAt)
	return e, err
}

// CreateEventParams holds the fields for CreateEvent.
type CreateEventParams struct {
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

// CreateEvent inserts an event. Returns ErrDuplicate on slug collision.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO events (owner_id, category_id, title, slug, description, location, starts_at, capacity, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+eventColumns,
		arg.OwnerID, arg.CategoryID, arg.Title, arg.Slug, arg.Description,
		arg.Location, arg.StartsAt, arg.Capacity, arg.CreatedAt)
	e, err := scanEvent(row)
	if err != nil {
		return Event{}, mapInsertErr(err)
	}
	return e, nil
}

// GetEventByID fetches an event by primary key.
func (q *Queries) GetEventByID(ctx context.Context, id int64) (Event, error) {
	return scanEvent(q.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
}

// GetEventBySlug fetches an event by slug.
func (q *Queries) GetEventBySlug(ctx context.Context, slug string) (Event, error) {
	return scanEvent(q.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE slug = ?`, slug))
}

// UpdateEventParams holds the fields for UpdateEvent. The slug is assigned
// at creation and never regenerated.
type UpdateEventParams struct {
	ID          int64
	CategoryID  sql.NullInt64
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	Capacity    int64
}

// UpdateEvent updates the mutable event fields.
func (q *Queries) UpdateEvent(ctx context.Context, arg UpdateEventParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE events
		SET category_id = ?, title = ?, description = ?, location = ?, starts_at = ?, capacity = ?
		WHERE id = ?`,
		arg.CategoryID, arg.Title, arg.Description, arg.Location,
		arg.StartsAt, arg.Capacity, arg.ID)
	return err
}

// DeleteEvent removes an event; its tickets, reviews and favorites cascade.
func (q *Queries) DeleteEvent(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	return err
}

// EventSlugExistsParams holds the fields for EventSlugExists.
type EventSlugExistsParams struct {
	Slug      string
	ExcludeID int64
}

// EventSlugExists returns the number of *other* events with the given slug.
// The exclusion keeps an event from colliding with itself.
func (q *Queries) EventSlugExists(ctx context.Context, arg EventSlugExistsParams) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE slug = ? AND id != ?`,
		arg.Slug, arg.ExcludeID).Scan(&n)
	return n, err
}

// ListEventsRow is an event joined with its category name and ticket count
// for list pages.
type ListEventsRow struct {
	Event
	CategoryName sql.NullString
	OwnerName    string
	TicketsCount int64
}

const listEventsSelect = `
	SELECT e.id, e.owner_id, e.category_id, e.title, e.slug, e.description,
	       e.location, e.starts_at, e.capacity, e.created_at,
	       c.name, u.username,
	       (SELECT COUNT(*) FROM tickets t WHERE t.event_id = e.id)
	FROM events e
	LEFT JOIN categories c ON c.id = e.category_id
	JOIN users u ON u.id = e.owner_id`

func (q *Queries) queryEventRows(ctx context.Context, query string, args ...any) ([]ListEventsRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ListEventsRow
	for rows.Next() {
		var r ListEventsRow
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.CategoryID, &r.Title, &r.Slug,
			&r.Description, &r.Location, &r.StartsAt, &r.Capacity, &r.CreatedAt,
			&r.CategoryName, &r.OwnerName, &r.TicketsCount); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// ListEventsParams holds the fields for ListEvents.
type ListEventsParams struct {
	Limit  int64
	Offset int64
}

// ListEvents returns events ordered by start time.
func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]ListEventsRow, error) {
	return q.queryEventRows(ctx,
		listEventsSelect+` ORDER BY e.starts_at LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
}

// ListEventsByCategoryParams holds the fields for ListEventsByCategory.
type ListEventsByCategoryParams struct {
	CategorySlug string
	Limit        int64
	Offset       int64
}

// ListEventsByCategory returns events in the category with the given slug,
// ordered by start time.
func (q *Queries) ListEventsByCategory(ctx context.Context, arg ListEventsByCategoryParams) ([]ListEventsRow, error) {
	return q.queryEventRows(ctx,
		listEventsSelect+` WHERE c.slug = ? ORDER BY e.starts_at LIMIT ? OFFSET ?`,
		arg.CategorySlug, arg.Limit, arg.Offset)
}

// ListEventsByOwner returns all events owned by a user, ordered by start time.
func (q *Queries) ListEventsByOwner(ctx context.Context, ownerID int64) ([]ListEventsRow, error) {
	return q.queryEventRows(ctx,
		listEventsSelect+` WHERE e.owner_id = ? ORDER BY e.starts_at`, ownerID)
}

// CountEvents returns the total number of events.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

// CountEventsByCategory returns the number of events in the category with
// the given slug.
func (q *Queries) CountEventsByCategory(ctx context.Context, categorySlug string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM events e
		JOIN categories c ON c.id = e.category_id
		WHERE c.slug = ?`, categorySlug).Scan(&n)
	return n, err
}

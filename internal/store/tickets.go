// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// CreateTicketParams holds the fields for CreateTicket.
type CreateTicketParams struct {
	UserID    int64
	EventID   int64
	SeatType  string
	Reference string
	BookedAt  time.Time
}

// CreateTicket inserts a ticket. The (user_id, event_id) UNIQUE constraint
// enforces one ticket per user per event at the storage engine, so
// concurrent duplicate attempts still resolve to ErrDuplicate.
func (q *Queries) CreateTicket(ctx context.Context, arg CreateTicketParams) (Ticket, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO tickets (user_id, event_id, seat_type, reference, booked_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, user_id, event_id, seat_type, reference, booked_at`,
		arg.UserID, arg.EventID, arg.SeatType, arg.Reference, arg.BookedAt)
	var t Ticket
	if err := row.Scan(&t.ID, &t.UserID, &t.EventID, &t.SeatType, &t.Reference, &t.BookedAt); err != nil {
		return Ticket{}, mapInsertErr(err)
	}
	return t, nil
}

// CountTicketsForEvent returns the number of tickets booked for an event.
func (q *Queries) CountTicketsForEvent(ctx context.Context, eventID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets WHERE event_id = ?`, eventID).Scan(&n)
	return n, err
}

// UserEventParams identifies a (user, event) pair.
type UserEventParams struct {
	UserID  int64
	EventID int64
}

// HasTicket reports whether the user holds a ticket for the event.
func (q *Queries) HasTicket(ctx context.Context, arg UserEventParams) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets WHERE user_id = ? AND event_id = ?`,
		arg.UserID, arg.EventID).Scan(&n)
	return n > 0, err
}

// ListTicketsByUserRow is a ticket joined with its event for dashboards.
type ListTicketsByUserRow struct {
	Ticket
	EventTitle    string
	EventSlug     string
	EventStartsAt time.Time
}

// ListTicketsByUser returns the user's tickets, most recent booking first.
func (q *Queries) ListTicketsByUser(ctx context.Context, userID int64) ([]ListTicketsByUserRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT t.id, t.user_id, t.event_id, t.seat_type, t.reference, t.booked_at,
		       e.title, e.slug, e.starts_at
		FROM tickets t
		JOIN events e ON e.id = t.event_id
		WHERE t.user_id = ?
		ORDER BY t.booked_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ListTicketsByUserRow
	for rows.Next() {
		var r ListTicketsByUserRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.EventID, &r.SeatType, &r.Reference,
			&r.BookedAt, &r.EventTitle, &r.EventSlug, &r.EventStartsAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

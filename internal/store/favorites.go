// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// AddFavoriteParams holds the fields for AddFavorite.
type AddFavoriteParams struct {
	UserID    int64
	EventID   int64
	CreatedAt time.Time
}

// AddFavorite marks an event as a favorite. Get-or-create semantics: adding
// an existing favorite is a no-op, not an error.
func (q *Queries) AddFavorite(ctx context.Context, arg AddFavoriteParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, event_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, event_id) DO NOTHING`,
		arg.UserID, arg.EventID, arg.CreatedAt)
	return err
}

// RemoveFavorite unmarks a favorite. Removing an absent favorite is a no-op.
func (q *Queries) RemoveFavorite(ctx context.Context, arg UserEventParams) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND event_id = ?`,
		arg.UserID, arg.EventID)
	return err
}

// IsFavorite reports whether the user has favorited the event.
func (q *Queries) IsFavorite(ctx context.Context, arg UserEventParams) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE user_id = ? AND event_id = ?`,
		arg.UserID, arg.EventID).Scan(&n)
	return n > 0, err
}

// CountFavorites returns the number of favorites a user holds.
func (q *Queries) CountFavorites(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// ListFavoritesByUserRow is a favorite joined with its event.
type ListFavoritesByUserRow struct {
	Favorite
	EventTitle    string
	EventSlug     string
	EventStartsAt time.Time
}

// ListFavoritesByUserParams holds the fields for ListFavoritesByUser.
type ListFavoritesByUserParams struct {
	UserID int64
	Limit  int64
	Offset int64
}

// ListFavoritesByUser returns the user's favorites, newest first.
func (q *Queries) ListFavoritesByUser(ctx context.Context, arg ListFavoritesByUserParams) ([]ListFavoritesByUserRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT f.id, f.user_id, f.event_id, f.created_at,
		       e.title, e.slug, e.starts_at
		FROM favorites f
		JOIN events e ON e.id = f.event_id
		WHERE f.user_id = ?
		ORDER BY f.created_at DESC
		LIMIT ? OFFSET ?`, arg.UserID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ListFavoritesByUserRow
	for rows.Next() {
		var r ListFavoritesByUserRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.EventID, &r.CreatedAt,
			&r.EventTitle, &r.EventSlug, &r.EventStartsAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

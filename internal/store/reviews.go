// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// CreateReviewParams holds the fields for CreateReview.
type CreateReviewParams struct {
	UserID    int64
	EventID   int64
	Rating    int64
	Comment   string
	CreatedAt time.Time
}

// CreateReview inserts a review. The (user_id, event_id) UNIQUE constraint
// enforces one review per user per event; violations surface as ErrDuplicate.
func (q *Queries) CreateReview(ctx context.Context, arg CreateReviewParams) (Review, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO reviews (user_id, event_id, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, user_id, event_id, rating, comment, created_at`,
		arg.UserID, arg.EventID, arg.Rating, arg.Comment, arg.CreatedAt)
	var rv Review
	if err := row.Scan(&rv.ID, &rv.UserID, &rv.EventID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
		return Review{}, mapInsertErr(err)
	}
	return rv, nil
}

// GetReviewByID fetches a review by primary key.
func (q *Queries) GetReviewByID(ctx context.Context, id int64) (Review, error) {
	var rv Review
	err := q.db.QueryRowContext(ctx, `
		SELECT id, user_id, event_id, rating, comment, created_at
		FROM reviews WHERE id = ?`, id).
		Scan(&rv.ID, &rv.UserID, &rv.EventID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	return rv, err
}

// UpdateReviewParams holds the fields for UpdateReview.
type UpdateReviewParams struct {
	ID      int64
	Rating  int64
	Comment string
}

// UpdateReview updates the rating and comment of a review.
func (q *Queries) UpdateReview(ctx context.Context, arg UpdateReviewParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE reviews SET rating = ?, comment = ? WHERE id = ?`,
		arg.Rating, arg.Comment, arg.ID)
	return err
}

// DeleteReview removes a review.
func (q *Queries) DeleteReview(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	return err
}

// GetReviewForUserEvent fetches the review a user left on an event.
func (q *Queries) GetReviewForUserEvent(ctx context.Context, arg UserEventParams) (Review, error) {
	var rv Review
	err := q.db.QueryRowContext(ctx, `
		SELECT id, user_id, event_id, rating, comment, created_at
		FROM reviews WHERE user_id = ? AND event_id = ?`,
		arg.UserID, arg.EventID).
		Scan(&rv.ID, &rv.UserID, &rv.EventID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	return rv, err
}

// ListReviewsForEventRow is a review joined with its author's username.
type ListReviewsForEventRow struct {
	Review
	Username string
}

// ListReviewsForEvent returns an event's reviews, newest first.
func (q *Queries) ListReviewsForEvent(ctx context.Context, eventID int64) ([]ListReviewsForEventRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT r.id, r.user_id, r.event_id, r.rating, r.comment, r.created_at, u.username
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = ?
		ORDER BY r.created_at DESC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ListReviewsForEventRow
	for rows.Next() {
		var r ListReviewsForEventRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.EventID, &r.Rating, &r.Comment,
			&r.CreatedAt, &r.Username); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// ListReviewsByUserRow is a review joined with its event for dashboards.
type ListReviewsByUserRow struct {
	Review
	EventTitle string
	EventSlug  string
}

// ListReviewsByUser returns the user's reviews, newest first.
func (q *Queries) ListReviewsByUser(ctx context.Context, userID int64) ([]ListReviewsByUserRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT r.id, r.user_id, r.event_id, r.rating, r.comment, r.created_at,
		       e.title, e.slug
		FROM reviews r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = ?
		ORDER BY r.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ListReviewsByUserRow
	for rows.Next() {
		var r ListReviewsByUserRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.EventID, &r.Rating, &r.Comment,
			&r.CreatedAt, &r.EventTitle, &r.EventSlug); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/eventhub/internal/model"
	"github.com/olegiv/eventhub/internal/store"
)

// Booking and review outcome errors.
var (
	ErrSoldOut         = errors.New("event is sold out")
	ErrAlreadyBooked   = errors.New("already booked for this event")
	ErrAlreadyReviewed = errors.New("already reviewed this event")
	ErrInvalidSeatType = errors.New("unknown seat type")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// BookingService handles tickets, reviews and favorites.
type BookingService struct {
	queries *store.Queries
}

// NewBookingService creates a BookingService over db.
func NewBookingService(db *sql.DB) *BookingService {
	return &BookingService{queries: store.New(db)}
}

// BookTicket books one seat for the user. The capacity check reads the
// current ticket count before inserting, so two near-simultaneous bookings
// of the last seat can both pass it; the count converges and the overshoot
// is bounded by in-flight requests. The one-ticket-per-user rule is
// enforced by the storage engine and cannot be raced past.
func (s *BookingService) BookTicket(ctx context.Context, userID, eventID int64, seatType string) (store.Ticket, error) {
	if !model.IsValidSeatType(seatType) {
		return store.Ticket{}, ErrInvalidSeatType
	}

	event, err := s.queries.GetEventByID(ctx, eventID)
	if err != nil {
		return store.Ticket{}, fmt.Errorf("loading event: %w", err)
	}

	// An existing ticket takes precedence over the capacity check: the
	// holder rebooking a full event is a duplicate, not a sell-out.
	held, err := s.queries.HasTicket(ctx, store.UserEventParams{UserID: userID, EventID: eventID})
	if err != nil {
		return store.Ticket{}, fmt.Errorf("checking existing ticket: %w", err)
	}
	if held {
		return store.Ticket{}, ErrAlreadyBooked
	}

	booked, err := s.queries.CountTicketsForEvent(ctx, eventID)
	if err != nil {
		return store.Ticket{}, fmt.Errorf("counting tickets: %w", err)
	}
	if booked >= event.Capacity {
		return store.Ticket{}, ErrSoldOut
	}

	ticket, err := s.queries.CreateTicket(ctx, store.CreateTicketParams{
		UserID:    userID,
		EventID:   eventID,
		SeatType:  seatType,
		Reference: uuid.NewString(),
		BookedAt:  time.Now(),
	})
	if errors.Is(err, store.ErrDuplicate) {
		return store.Ticket{}, ErrAlreadyBooked
	}
	if err != nil {
		return store.Ticket{}, fmt.Errorf("creating ticket: %w", err)
	}
	return ticket, nil
}

// SpotsLeft returns the remaining capacity for an event, floored at zero.
func (s *BookingService) SpotsLeft(ctx context.Context, event store.Event) (int64, error) {
	booked, err := s.queries.CountTicketsForEvent(ctx, event.ID)
	if err != nil {
		return 0, err
	}
	if booked >= event.Capacity {
		return 0, nil
	}
	return event.Capacity - booked, nil
}

// SubmitReview records the user's rating for an event. One review per user
// per event; a second submission returns ErrAlreadyReviewed.
func (s *BookingService) SubmitReview(ctx context.Context, userID, eventID, rating int64, comment string) (store.Review, error) {
	if rating < model.RatingMin || rating > model.RatingMax {
		return store.Review{}, ErrInvalidRating
	}

	review, err := s.queries.CreateReview(ctx, store.CreateReviewParams{
		UserID:    userID,
		EventID:   eventID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	})
	if errors.Is(err, store.ErrDuplicate) {
		return store.Review{}, ErrAlreadyReviewed
	}
	if err != nil {
		return store.Review{}, fmt.Errorf("creating review: %w", err)
	}
	return review, nil
}

// UpdateReview changes the rating and comment of an existing review.
func (s *BookingService) UpdateReview(ctx context.Context, reviewID, rating int64, comment string) error {
	if rating < model.RatingMin || rating > model.RatingMax {
		return ErrInvalidRating
	}
	return s.queries.UpdateReview(ctx, store.UpdateReviewParams{
		ID:      reviewID,
		Rating:  rating,
		Comment: comment,
	})
}

// Favorite marks an event as saved for the user. Idempotent.
func (s *BookingService) Favorite(ctx context.Context, userID, eventID int64) error {
	return s.queries.AddFavorite(ctx, store.AddFavoriteParams{
		UserID:    userID,
		EventID:   eventID,
		CreatedAt: time.Now(),
	})
}

// Unfavorite removes the saved mark. Idempotent.
func (s *BookingService) Unfavorite(ctx context.Context, userID, eventID int64) error {
	return s.queries.RemoveFavorite(ctx, store.UserEventParams{
		UserID:  userID,
		EventID: eventID,
	})
}

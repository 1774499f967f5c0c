package service

import (
	"context"
	"errors"
	"testing"

	"github.com/olegiv/eventhub/internal/model"
)

func TestBookTicket_LastSeat(t *testing.T) {
	db := testDB(t)
	events := NewEventService(db)
	bookings := NewBookingService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	in := futureInput("Tiny Venue Show")
	in.Capacity = 1
	event, err := events.Create(ctx, owner.ID, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ticket, err := bookings.BookTicket(ctx, bob.ID, event.ID, model.SeatStandard)
	if err != nil {
		t.Fatalf("bob's booking: %v", err)
	}
	if ticket.Reference == "" {
		t.Error("ticket reference should not be empty")
	}

	// Capacity reached: the next user is turned away.
	_, err = bookings.BookTicket(ctx, carol.ID, event.ID, model.SeatStandard)
	if !errors.Is(err, ErrSoldOut) {
		t.Errorf("carol's booking err = %v, want ErrSoldOut", err)
	}

	// The holder retrying gets the duplicate outcome, not sold-out.
	_, err = bookings.BookTicket(ctx, bob.ID, event.ID, model.SeatVIP)
	if !errors.Is(err, ErrAlreadyBooked) {
		t.Errorf("bob's retry err = %v, want ErrAlreadyBooked", err)
	}

	left, err := bookings.SpotsLeft(ctx, event)
	if err != nil {
		t.Fatalf("SpotsLeft: %v", err)
	}
	if left != 0 {
		t.Errorf("SpotsLeft = %d, want 0", left)
	}
}

func TestBookTicket_DuplicateWithCapacityLeft(t *testing.T) {
	db := testDB(t)
	events := NewEventService(db)
	bookings := NewBookingService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	bob := createUser(t, db, "bob")

	event, err := events.Create(ctx, owner.ID, futureInput("Roomy Venue Show"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := bookings.BookTicket(ctx, bob.ID, event.ID, model.SeatStandard); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	_, err = bookings.BookTicket(ctx, bob.ID, event.ID, model.SeatPremium)
	if !errors.Is(err, ErrAlreadyBooked) {
		t.Errorf("second booking err = %v, want ErrAlreadyBooked", err)
	}
}

func TestBookTicket_InvalidSeatType(t *testing.T) {
	db := testDB(t)
	bookings := NewBookingService(db)

	_, err := bookings.BookTicket(context.Background(), 1, 1, "balcony")
	if !errors.Is(err, ErrInvalidSeatType) {
		t.Errorf("err = %v, want ErrInvalidSeatType", err)
	}
}

func TestSubmitReview(t *testing.T) {
	db := testDB(t)
	events := NewEventService(db)
	bookings := NewBookingService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	critic := createUser(t, db, "critic")

	event, err := events.Create(ctx, owner.ID, futureInput("Gala"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, bad := range []int64{0, 6, -1} {
		if _, err := bookings.SubmitReview(ctx, critic.ID, event.ID, bad, ""); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d err = %v, want ErrInvalidRating", bad, err)
		}
	}

	review, err := bookings.SubmitReview(ctx, critic.ID, event.ID, 4, "great show")
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if review.Rating != 4 {
		t.Errorf("Rating = %d, want 4", review.Rating)
	}

	_, err = bookings.SubmitReview(ctx, critic.ID, event.ID, 5, "changed my mind")
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Errorf("second review err = %v, want ErrAlreadyReviewed", err)
	}
}

func TestFavorite_Idempotent(t *testing.T) {
	db := testDB(t)
	events := NewEventService(db)
	bookings := NewBookingService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	fan := createUser(t, db, "fan")

	event, err := events.Create(ctx, owner.ID, futureInput("Open Mic"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := bookings.Favorite(ctx, fan.ID, event.ID); err != nil {
			t.Fatalf("Favorite #%d: %v", i+1, err)
		}
	}
	for i := 0; i < 2; i++ {
		if err := bookings.Unfavorite(ctx, fan.ID, event.ID); err != nil {
			t.Fatalf("Unfavorite #%d: %v", i+1, err)
		}
	}
}

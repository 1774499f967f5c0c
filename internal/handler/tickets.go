// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/eventhub/internal/cache"
	"github.com/olegiv/eventhub/internal/middleware"
	"github.com/olegiv/eventhub/internal/model"
	"github.com/olegiv/eventhub/internal/render"
	"github.com/olegiv/eventhub/internal/service"
	"github.com/olegiv/eventhub/internal/store"
)

// TicketHandler serves ticket booking.
type TicketHandler struct {
	queries    *store.Queries
	render     *render.Renderer
	bookings   *service.BookingService
	audit      *service.AuditService
	categories *cache.Categories
}

// NewTicketHandler creates a TicketHandler.
func NewTicketHandler(db *sql.DB, rnd *render.Renderer, bookings *service.BookingService,
	audit *service.AuditService, categories *cache.Categories) *TicketHandler {
	return &TicketHandler{
		queries:    store.New(db),
		render:     rnd,
		bookings:   bookings,
		audit:      audit,
		categories: categories,
	}
}

// Book books one seat at the event for the signed-in user. Each booking
// outcome gets its own flash so the user knows whether they hit the capacity
// limit or their own earlier ticket.
func (h *TicketHandler) Book(w http.ResponseWriter, r *http.Request) {
	event, err := h.queries.GetEventBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, sql.ErrNoRows) {
		renderNotFound(w, r, h.render)
		return
	}
	if err != nil {
		logAndServerError(w, r, h.render, "loading event for booking", err)
		return
	}

	backURL := eventURL(event.Slug)
	if !parseFormOrRedirect(w, r, h.render, backURL) {
		return
	}

	seatType := r.FormValue("seat_type")
	if seatType == "" {
		seatType = model.SeatStandard
	}

	user := middleware.GetUser(r)
	ticket, err := h.bookings.BookTicket(r.Context(), user.ID, event.ID, seatType)
	switch {
	case errors.Is(err, service.ErrSoldOut):
		flashAndRedirect(w, r, h.render, "Sorry, this event is sold out.", flashError, backURL)
		return
	case errors.Is(err, service.ErrAlreadyBooked):
		flashAndRedirect(w, r, h.render, "You already have a ticket for this event.", flashError, backURL)
		return
	case errors.Is(err, service.ErrInvalidSeatType):
		flashAndRedirect(w, r, h.render, "Unknown seat type.", flashError, backURL)
		return
	case err != nil:
		logAndServerError(w, r, h.render, "booking ticket", err)
		return
	}

	h.audit.LogInfo(r.Context(), model.AuditCategoryBooking, "ticket booked",
		&user.ID, middleware.ClientIP(r), map[string]any{
			"event_id":  event.ID,
			"seat_type": ticket.SeatType,
			"reference": ticket.Reference,
		})

	flashAndRedirect(w, r, h.render,
		"Ticket booked! Your reference is "+ticket.Reference+".", flashSuccess, backURL)
}

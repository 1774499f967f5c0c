// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/eventhub/internal/authz"
	"github.com/olegiv/eventhub/internal/middleware"
	"github.com/olegiv/eventhub/internal/model"
	"github.com/olegiv/eventhub/internal/render"
	"github.com/olegiv/eventhub/internal/service"
	"github.com/olegiv/eventhub/internal/store"
)

// ReviewHandler serves review creation, editing and deletion.
type ReviewHandler struct {
	queries  *store.Queries
	render   *render.Renderer
	bookings *service.BookingService
	audit    *service.AuditService
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(db *sql.DB, rnd *render.Renderer, bookings *service.BookingService,
	audit *service.AuditService) *ReviewHandler {
	return &ReviewHandler{
		queries:  store.New(db),
		render:   rnd,
		bookings: bookings,
		audit:    audit,
	}
}

// Create submits the signed-in user's review for an event.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	event, err := h.queries.GetEventBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, sql.ErrNoRows) {
		renderNotFound(w, r, h.render)
		return
	}
	if err != nil {
		logAndServerError(w, r, h.render, "loading event for review", err)
		return
	}

	backURL := eventURL(event.Slug)
	if !parseFormOrRedirect(w, r, h.render, backURL) {
		return
	}

	rating, _ := strconv.ParseInt(r.FormValue("rating"), 10, 64)
	comment := strings.TrimSpace(r.FormValue("comment"))
	user := middleware.GetUser(r)

	review, err := h.bookings.SubmitReview(r.Context(), user.ID, event.ID, rating, comment)
	switch {
	case errors.Is(err, service.ErrInvalidRating):
		flashAndRedirect(w, r, h.render, "Rating must be between 1 and 5.", flashError, backURL)
		return
	case errors.Is(err, service.ErrAlreadyReviewed):
		flashAndRedirect(w, r, h.render, "You have already reviewed this event.", flashError, backURL)
		return
	case err != nil:
		logAndServerError(w, r, h.render, "submitting review", err)
		return
	}

	h.audit.LogInfo(r.Context(), model.AuditCategoryReview, "review submitted",
		&user.ID, middleware.ClientIP(r), map[string]any{
			"event_id":  event.ID,
			"review_id": review.ID,
			"rating":    review.Rating,
		})

	flashAndRedirect(w, r, h.render, "Thanks for your review!", flashSuccess, backURL)
}

// Update changes the rating and comment of the user's own review. Staff may
// edit any review.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	review, event, ok := h.mutableReview(w, r)
	if !ok {
		return
	}

	backURL := eventURL(event.Slug)
	if !parseFormOrRedirect(w, r, h.render, backURL) {
		return
	}

	rating, _ := strconv.ParseInt(r.FormValue("rating"), 10, 64)
	comment := strings.TrimSpace(r.FormValue("comment"))

	if err := h.bookings.UpdateReview(r.Context(), review.ID, rating, comment); err != nil {
		if errors.Is(err, service.ErrInvalidRating) {
			flashAndRedirect(w, r, h.render, "Rating must be between 1 and 5.", flashError, backURL)
			return
		}
		logAndServerError(w, r, h.render, "updating review", err)
		return
	}

	user := middleware.GetUser(r)
	h.audit.LogInfo(r.Context(), model.AuditCategoryReview, "review updated",
		&user.ID, middleware.ClientIP(r), map[string]any{"review_id": review.ID})

	flashAndRedirect(w, r, h.render, "Review updated.", flashSuccess, backURL)
}

// Delete removes a review. Only the author or staff may delete.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	review, event, ok := h.mutableReview(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeleteReview(r.Context(), review.ID); err != nil {
		logAndServerError(w, r, h.render, "deleting review", err)
		return
	}

	user := middleware.GetUser(r)
	h.audit.LogWarning(r.Context(), model.AuditCategoryReview, "review deleted",
		&user.ID, middleware.ClientIP(r), map[string]any{
			"review_id": review.ID,
			"author_id": review.UserID,
		})

	flashAndRedirect(w, r, h.render, "Review deleted.", flashInfo, eventURL(event.Slug))
}

// mutableReview loads the review named in the URL and enforces the ownership
// policy. Reviews are mutated from inline forms, so denial is a plain 403
// rather than a rendered error page.
func (h *ReviewHandler) mutableReview(w http.ResponseWriter, r *http.Request) (store.Review, store.Event, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		renderNotFound(w, r, h.render)
		return store.Review{}, store.Event{}, false
	}

	review, err := h.queries.GetReviewByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		renderNotFound(w, r, h.render)
		return store.Review{}, store.Event{}, false
	}
	if err != nil {
		logAndServerError(w, r, h.render, "loading review", err)
		return store.Review{}, store.Event{}, false
	}

	user := middleware.GetUser(r)
	if user == nil || !authz.IsOwnerOrStaff(user.ID, user.IsStaff, review.UserID) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return store.Review{}, store.Event{}, false
	}

	event, err := h.queries.GetEventByID(r.Context(), review.EventID)
	if err != nil {
		logAndServerError(w, r, h.render, "loading reviewed event", err)
		return store.Review{}, store.Event{}, false
	}
	return review, event, true
}

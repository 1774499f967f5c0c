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
	"github.com/olegiv/eventhub/internal/render"
	"github.com/olegiv/eventhub/internal/service"
	"github.com/olegiv/eventhub/internal/store"
)

// favoritesPerPage is the page size of the saved events list.
const favoritesPerPage = 20

// FavoriteHandler serves saving and unsaving events plus the saved list.
type FavoriteHandler struct {
	queries    *store.Queries
	render     *render.Renderer
	bookings   *service.BookingService
	categories *cache.Categories
}

// NewFavoriteHandler creates a FavoriteHandler.
func NewFavoriteHandler(db *sql.DB, rnd *render.Renderer, bookings *service.BookingService,
	categories *cache.Categories) *FavoriteHandler {
	return &FavoriteHandler{
		queries:    store.New(db),
		render:     rnd,
		bookings:   bookings,
		categories: categories,
	}
}

// Add saves an event. Saving twice is a no-op.
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	event, ok := h.eventFromSlug(w, r)
	if !ok {
		return
	}

	if err := h.bookings.Favorite(r.Context(), middleware.GetUserID(r), event.ID); err != nil {
		logAndServerError(w, r, h.render, "saving favorite", err)
		return
	}
	flashAndRedirect(w, r, h.render, "Added to your saved events.", flashSuccess, eventURL(event.Slug))
}

// Remove unsaves an event. Removing an absent favorite is a no-op.
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	event, ok := h.eventFromSlug(w, r)
	if !ok {
		return
	}

	if err := h.bookings.Unfavorite(r.Context(), middleware.GetUserID(r), event.ID); err != nil {
		logAndServerError(w, r, h.render, "removing favorite", err)
		return
	}
	flashAndRedirect(w, r, h.render, "Removed from your saved events.", flashInfo, eventURL(event.Slug))
}

// favoritesData is the dashboard/favorites template payload.
type favoritesData struct {
	Favorites  []store.ListFavoritesByUserRow
	Pagination Pagination
}

// List shows the signed-in user's saved events.
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	total, err := h.queries.CountFavorites(r.Context(), userID)
	if err != nil {
		logAndServerError(w, r, h.render, "counting favorites", err)
		return
	}

	pagination := NewPagination(pageParam(r), favoritesPerPage, int(total)).WithURL(r)

	favorites, err := h.queries.ListFavoritesByUser(r.Context(), store.ListFavoritesByUserParams{
		UserID: userID,
		Limit:  favoritesPerPage,
		Offset: int64(pagination.Offset()),
	})
	if err != nil {
		logAndServerError(w, r, h.render, "listing favorites", err)
		return
	}

	data := pageData(r, h.categories, "Saved Events")
	data.Data = favoritesData{Favorites: favorites, Pagination: pagination}
	renderPage(w, r, h.render, "dashboard/favorites", data)
}

func (h *FavoriteHandler) eventFromSlug(w http.ResponseWriter, r *http.Request) (store.Event, bool) {
	event, err := h.queries.GetEventBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, sql.ErrNoRows) {
		renderNotFound(w, r, h.render)
		return store.Event{}, false
	}
	if err != nil {
		logAndServerError(w, r, h.render, "loading event", err)
		return store.Event{}, false
	}
	return event, true
}

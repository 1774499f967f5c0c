// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"github.com/olegiv/eventhub/internal/cache"
	"github.com/olegiv/eventhub/internal/middleware"
	"github.com/olegiv/eventhub/internal/render"
	"github.com/olegiv/eventhub/internal/store"
)

// DashboardHandler serves the signed-in user's overview page.
type DashboardHandler struct {
	queries    *store.Queries
	render     *render.Renderer
	categories *cache.Categories
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(db *sql.DB, rnd *render.Renderer, categories *cache.Categories) *DashboardHandler {
	return &DashboardHandler{
		queries:    store.New(db),
		render:     rnd,
		categories: categories,
	}
}

// dashboardData is the dashboard/index template payload.
type dashboardData struct {
	Tickets       []store.ListTicketsByUserRow
	Reviews       []store.ListReviewsByUserRow
	OwnedEvents   []store.ListEventsRow
	FavoriteCount int64
}

// Index shows the user's tickets, reviews and published events.
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	tickets, err := h.queries.ListTicketsByUser(r.Context(), userID)
	if err != nil {
		logAndServerError(w, r, h.render, "listing tickets", err)
		return
	}

	reviews, err := h.queries.ListReviewsByUser(r.Context(), userID)
	if err != nil {
		logAndServerError(w, r, h.render, "listing reviews", err)
		return
	}

	owned, err := h.queries.ListEventsByOwner(r.Context(), userID)
	if err != nil {
		logAndServerError(w, r, h.render, "listing owned events", err)
		return
	}

	favoriteCount, err := h.queries.CountFavorites(r.Context(), userID)
	if err != nil {
		logAndServerError(w, r, h.render, "counting favorites", err)
		return
	}

	data := pageData(r, h.categories, "My Dashboard")
	data.Data = dashboardData{
		Tickets:       tickets,
		Reviews:       reviews,
		OwnedEvents:   owned,
		FavoriteCount: favoriteCount,
	}
	renderPage(w, r, h.render, "dashboard/index", data)
}

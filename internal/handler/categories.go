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

	"github.com/olegiv/eventhub/internal/cache"
	"github.com/olegiv/eventhub/internal/middleware"
	"github.com/olegiv/eventhub/internal/model"
	"github.com/olegiv/eventhub/internal/render"
	"github.com/olegiv/eventhub/internal/service"
	"github.com/olegiv/eventhub/internal/store"
)

// CategoryHandler serves the staff-only category management pages. Routing
// mounts it behind RequireStaff.
type CategoryHandler struct {
	queries    *store.Queries
	render     *render.Renderer
	events     *service.EventService
	audit      *service.AuditService
	categories *cache.Categories
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(db *sql.DB, rnd *render.Renderer, events *service.EventService,
	audit *service.AuditService, categories *cache.Categories) *CategoryHandler {
	return &CategoryHandler{
		queries:    store.New(db),
		render:     rnd,
		events:     events,
		audit:      audit,
		categories: categories,
	}
}

// categoryRow is a category with its event count for the management table.
type categoryRow struct {
	store.Category
	EventCount int64
}

// Manage lists categories with per-category event counts and the add form.
func (h *CategoryHandler) Manage(w http.ResponseWriter, r *http.Request) {
	list, err := h.queries.ListCategories(r.Context())
	if err != nil {
		logAndServerError(w, r, h.render, "listing categories", err)
		return
	}

	rows := make([]categoryRow, 0, len(list))
	for _, category := range list {
		count, err := h.queries.CountEventsByCategory(r.Context(), category.Slug)
		if err != nil {
			logAndServerError(w, r, h.render, "counting category events", err)
			return
		}
		rows = append(rows, categoryRow{Category: category, EventCount: count})
	}

	data := pageData(r, h.categories, "Manage Categories")
	data.Data = rows
	renderPage(w, r, h.render, "categories/manage", data)
}

// Create adds a category. Category names and their derived slugs are unique
// with no collision suffixing, so a clashing name is reported back as-is.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.render, RouteManageCategories) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	category, err := h.events.CreateCategory(r.Context(), name)
	if errors.Is(err, service.ErrTitleRequired) {
		flashAndRedirect(w, r, h.render, "Category name is required.", flashError, RouteManageCategories)
		return
	}
	if errors.Is(err, store.ErrDuplicate) {
		flashAndRedirect(w, r, h.render,
			"A category with that name or slug already exists.", flashError, RouteManageCategories)
		return
	}
	if err != nil {
		logAndServerError(w, r, h.render, "creating category", err)
		return
	}

	h.categories.Invalidate(r.Context())

	user := middleware.GetUser(r)
	h.audit.LogInfo(r.Context(), model.AuditCategoryCategory, "category created",
		&user.ID, middleware.ClientIP(r), map[string]any{"category_id": category.ID, "name": category.Name})

	flashAndRedirect(w, r, h.render, "Category created.", flashSuccess, RouteManageCategories)
}

// Delete removes a category. Events in it keep existing without a category.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		renderNotFound(w, r, h.render)
		return
	}

	category, err := h.queries.GetCategoryByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		renderNotFound(w, r, h.render)
		return
	}
	if err != nil {
		logAndServerError(w, r, h.render, "loading category", err)
		return
	}

	if err := h.queries.DeleteCategory(r.Context(), id); err != nil {
		logAndServerError(w, r, h.render, "deleting category", err)
		return
	}

	h.categories.Invalidate(r.Context())

	user := middleware.GetUser(r)
	h.audit.LogWarning(r.Context(), model.AuditCategoryCategory, "category deleted",
		&user.ID, middleware.ClientIP(r), map[string]any{"category_id": id, "name": category.Name})

	flashAndRedirect(w, r, h.render, "Category deleted.", flashInfo, RouteManageCategories)
}

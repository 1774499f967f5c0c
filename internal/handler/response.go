// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers: authentication, event pages,
// ticket booking, reviews, favorites, the user dashboard and staff category
// management.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/eventhub/internal/cache"
	"github.com/olegiv/eventhub/internal/middleware"
	"github.com/olegiv/eventhub/internal/render"
)

// flashAndRedirect sets a one-shot message and redirects with 303.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, rnd *render.Renderer, message, flashType, url string) {
	rnd.SetFlash(r, message, flashType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// parseFormOrRedirect parses the request form. On failure it flashes an error
// and redirects to fallbackURL, returning false.
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, rnd *render.Renderer, fallbackURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashAndRedirect(w, r, rnd, "Invalid form submission.", flashError, fallbackURL)
		return false
	}
	return true
}

// pageData builds the TemplateData every page shares: the signed-in user and
// the cached category list for the navigation. A category cache failure is
// logged and leaves the navigation empty rather than failing the page.
func pageData(r *http.Request, categories *cache.Categories, title string) render.TemplateData {
	data := render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
	}
	if categories != nil {
		list, err := categories.List(r.Context())
		if err != nil {
			slog.Error("loading categories for navigation", "error", err)
		} else {
			data.Categories = list
		}
	}
	return data
}

// renderPage renders a template, falling back to a plain 500 when rendering
// itself fails.
func renderPage(w http.ResponseWriter, r *http.Request, rnd *render.Renderer, name string, data render.TemplateData) {
	if err := rnd.Render(w, r, name, data); err != nil {
		slog.Error("rendering page", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// logAndServerError logs err and renders the 500 page.
func logAndServerError(w http.ResponseWriter, r *http.Request, rnd *render.Renderer, message string, err error) {
	slog.Error(message, "error", err, "path", r.URL.Path)
	w.WriteHeader(http.StatusInternalServerError)
	renderPage(w, r, rnd, "errors/500", render.TemplateData{
		Title: "Server Error",
		User:  middleware.GetUser(r),
	})
}

// renderNotFound renders the 404 page.
func renderNotFound(w http.ResponseWriter, r *http.Request, rnd *render.Renderer) {
	w.WriteHeader(http.StatusNotFound)
	renderPage(w, r, rnd, "errors/404", render.TemplateData{
		Title: "Not Found",
		User:  middleware.GetUser(r),
	})
}

// renderForbidden renders the 403 page for event mutations attempted by
// someone other than the owner or staff.
func renderForbidden(w http.ResponseWriter, r *http.Request, rnd *render.Renderer) {
	w.WriteHeader(http.StatusForbidden)
	renderPage(w, r, rnd, "errors/403", render.TemplateData{
		Title: "Forbidden",
		User:  middleware.GetUser(r),
	})
}

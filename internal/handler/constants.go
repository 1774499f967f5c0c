// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route paths shared between the router and redirect targets.
const (
	RouteRoot             = "/"
	RouteLogin            = "/login"
	RouteRegister         = "/register"
	RouteLogout           = "/logout"
	RouteProfile          = "/profile"
	RouteEvents           = "/events"
	RouteEventNew         = "/events/new"
	RouteDashboard        = "/dashboard"
	RouteFavorites        = "/favorites"
	RouteManageCategories = "/manage/categories"
)

// eventURL returns the public URL of an event page.
func eventURL(slug string) string {
	return RouteEvents + "/" + slug
}

// Flash message types matching the alert styles in the base layout.
const (
	flashSuccess = "success"
	flashError   = "error"
	flashInfo    = "info"
)

// eventsPerPage is the page size of the public event list.
const eventsPerPage = 10

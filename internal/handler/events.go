// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/eventhub/internal/authz"
	"github.com/olegiv/eventhub/internal/cache"
	"github.com/olegiv/eventhub/internal/middleware"
	"github.com/olegiv/eventhub/internal/model"
	"github.com/olegiv/eventhub/internal/render"
	"github.com/olegiv/eventhub/internal/service"
	"github.com/olegiv/eventhub/internal/store"
)

// startsAtLayout matches the datetime-local input format.
const startsAtLayout = "2006-01-02T15:04"

// EventHandler serves the public event pages and the owner CRUD pages.
type EventHandler struct {
	queries    *store.Queries
	render     *render.Renderer
	events     *service.EventService
	bookings   *service.BookingService
	audit      *service.AuditService
	categories *cache.Categories
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(db *sql.DB, rnd *render.Renderer, events *service.EventService,
	bookings *service.BookingService, audit *service.AuditService, categories *cache.Categories) *EventHandler {
	return &EventHandler{
		queries:    store.New(db),
		render:     rnd,
		events:     events,
		bookings:   bookings,
		audit:      audit,
		categories: categories,
	}
}

// eventListData is the events/list template payload.
type eventListData struct {
	Events         []store.ListEventsRow
	Pagination     Pagination
	ActiveCategory string
}

// List shows upcoming events, optionally filtered by ?category=slug.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	categorySlug := r.URL.Query().Get("category")
	page := pageParam(r)

	var (
		total int64
		err   error
	)
	if categorySlug != "" {
		total, err = h.queries.CountEventsByCategory(r.Context(), categorySlug)
	} else {
		total, err = h.queries.CountEvents(r.Context())
	}
	if err != nil {
		logAndServerError(w, r, h.render, "counting events", err)
		return
	}

	pagination := NewPagination(page, eventsPerPage, int(total)).WithURL(r)

	var events []store.ListEventsRow
	if categorySlug != "" {
		events, err = h.queries.ListEventsByCategory(r.Context(), store.ListEventsByCategoryParams{
			CategorySlug: categorySlug,
			Limit:        eventsPerPage,
			Offset:       int64(pagination.Offset()),
		})
	} else {
		events, err = h.queries.ListEvents(r.Context(), store.ListEventsParams{
			Limit:  eventsPerPage,
			Offset: int64(pagination.Offset()),
		})
	}
	if err != nil {
		logAndServerError(w, r, h.render, "listing events", err)
		return
	}

	data := pageData(r, h.categories, "Events")
	data.Data = eventListData{
		Events:         events,
		Pagination:     pagination,
		ActiveCategory: categorySlug,
	}
	renderPage(w, r, h.render, "events/list", data)
}

// eventDetailData is the events/detail template payload.
type eventDetailData struct {
	Event           store.Event
	DescriptionHTML template.HTML
	CategoryName    string
	OwnerName       string
	SpotsLeft       int64
	Reviews         []store.ListReviewsForEventRow
	HasTicket       bool
	IsFavorite      bool
	MyReview        *store.Review
	CanEdit         bool
	SeatTypes       []string
}

// Detail shows one event with its reviews and booking state.
func (h *EventHandler) Detail(w http.ResponseWriter, r *http.Request) {
	event, ok := h.eventFromSlug(w, r)
	if !ok {
		return
	}

	spotsLeft, err := h.bookings.SpotsLeft(r.Context(), event)
	if err != nil {
		logAndServerError(w, r, h.render, "computing remaining capacity", err)
		return
	}

	reviews, err := h.queries.ListReviewsForEvent(r.Context(), event.ID)
	if err != nil {
		logAndServerError(w, r, h.render, "listing reviews", err)
		return
	}

	owner, err := h.queries.GetUserByID(r.Context(), event.OwnerID)
	if err != nil {
		logAndServerError(w, r, h.render, "loading event owner", err)
		return
	}

	detail := eventDetailData{
		Event:           event,
		DescriptionHTML: render.Markdown(event.Description),
		OwnerName:       owner.Username,
		SpotsLeft:       spotsLeft,
		Reviews:         reviews,
		SeatTypes:       model.ValidSeatTypes,
	}

	if event.CategoryID.Valid {
		if category, err := h.queries.GetCategoryByID(r.Context(), event.CategoryID.Int64); err == nil {
			detail.CategoryName = category.Name
		}
	}

	if user := middleware.GetUser(r); user != nil {
		pair := store.UserEventParams{UserID: user.ID, EventID: event.ID}
		if detail.HasTicket, err = h.queries.HasTicket(r.Context(), pair); err != nil {
			logAndServerError(w, r, h.render, "checking ticket", err)
			return
		}
		if detail.IsFavorite, err = h.queries.IsFavorite(r.Context(), pair); err != nil {
			logAndServerError(w, r, h.render, "checking favorite", err)
			return
		}
		if review, err := h.queries.GetReviewForUserEvent(r.Context(), pair); err == nil {
			detail.MyReview = &review
		}
		detail.CanEdit = authz.IsOwnerOrStaff(user.ID, user.IsStaff, event.OwnerID)
	}

	data := pageData(r, h.categories, event.Title)
	data.Data = detail
	renderPage(w, r, h.render, "events/detail", data)
}

// NewForm shows the event creation form.
func (h *EventHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	data := pageData(r, h.categories, "New Event")
	data.Data = eventFormData{Action: RouteEventNew}
	renderPage(w, r, h.render, "events/form", data)
}

// eventFormData is the events/form template payload.
type eventFormData struct {
	IsEdit bool
	Action string
	Event  store.Event
}

// Create publishes a new event owned by the signed-in user.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.render, RouteEventNew) {
		return
	}

	input, form := parseEventInput(r)
	user := middleware.GetUser(r)

	event, err := h.events.Create(r.Context(), user.ID, input)
	if err != nil {
		if field, message := eventFieldError(err); field != "" {
			h.renderEventForm(w, r, eventFormData{Action: RouteEventNew}, form,
				map[string]string{field: message})
			return
		}
		logAndServerError(w, r, h.render, "creating event", err)
		return
	}

	h.audit.LogInfo(r.Context(), model.AuditCategoryEvent, "event created",
		&user.ID, middleware.ClientIP(r), map[string]any{"event_id": event.ID, "slug": event.Slug})

	flashAndRedirect(w, r, h.render, "Event published.", flashSuccess, eventURL(event.Slug))
}

// EditForm shows the edit form for an event the user may modify.
func (h *EventHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	event, ok := h.mutableEventFromSlug(w, r)
	if !ok {
		return
	}

	data := pageData(r, h.categories, "Edit "+event.Title)
	data.Data = eventFormData{
		IsEdit: true,
		Action: eventURL(event.Slug) + "/edit",
		Event:  event,
	}
	data.Form = eventFormValues(event)
	renderPage(w, r, h.render, "events/form", data)
}

// Update saves changes to an event. The slug never changes on update.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	event, ok := h.mutableEventFromSlug(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.render, eventURL(event.Slug)+"/edit") {
		return
	}

	input, form := parseEventInput(r)

	if err := h.events.Update(r.Context(), event.ID, input); err != nil {
		if field, message := eventFieldError(err); field != "" {
			h.renderEventForm(w, r, eventFormData{
				IsEdit: true,
				Action: eventURL(event.Slug) + "/edit",
				Event:  event,
			}, form, map[string]string{field: message})
			return
		}
		logAndServerError(w, r, h.render, "updating event", err)
		return
	}

	user := middleware.GetUser(r)
	h.audit.LogInfo(r.Context(), model.AuditCategoryEvent, "event updated",
		&user.ID, middleware.ClientIP(r), map[string]any{"event_id": event.ID})

	flashAndRedirect(w, r, h.render, "Event updated.", flashSuccess, eventURL(event.Slug))
}

// Delete removes an event; its tickets, reviews and favorites go with it.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	event, ok := h.mutableEventFromSlug(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeleteEvent(r.Context(), event.ID); err != nil {
		logAndServerError(w, r, h.render, "deleting event", err)
		return
	}

	user := middleware.GetUser(r)
	h.audit.LogWarning(r.Context(), model.AuditCategoryEvent, "event deleted",
		&user.ID, middleware.ClientIP(r), map[string]any{"event_id": event.ID, "title": event.Title})

	flashAndRedirect(w, r, h.render, "Event deleted.", flashInfo, RouteRoot)
}

// eventFromSlug loads the event named in the URL, rendering 404 when absent.
func (h *EventHandler) eventFromSlug(w http.ResponseWriter, r *http.Request) (store.Event, bool) {
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

// mutableEventFromSlug loads the event and enforces the ownership policy:
// only the owner or a staff-flagged user may continue.
func (h *EventHandler) mutableEventFromSlug(w http.ResponseWriter, r *http.Request) (store.Event, bool) {
	event, ok := h.eventFromSlug(w, r)
	if !ok {
		return store.Event{}, false
	}

	user := middleware.GetUser(r)
	if user == nil || !authz.IsOwnerOrStaff(user.ID, user.IsStaff, event.OwnerID) {
		renderForbidden(w, r, h.render)
		return store.Event{}, false
	}
	return event, true
}

func (h *EventHandler) renderEventForm(w http.ResponseWriter, r *http.Request,
	formData eventFormData, form map[string]string, formErrors map[string]string) {
	title := "New Event"
	if formData.IsEdit {
		title = "Edit " + formData.Event.Title
	}
	data := pageData(r, h.categories, title)
	data.Data = formData
	data.Form = form
	data.Errors = formErrors
	w.WriteHeader(http.StatusUnprocessableEntity)
	renderPage(w, r, h.render, "events/form", data)
}

// parseEventInput reads the event form fields. It also returns the raw values
// for re-rendering the form on validation failure.
func parseEventInput(r *http.Request) (service.EventInput, map[string]string) {
	form := map[string]string{
		"title":       strings.TrimSpace(r.FormValue("title")),
		"category_id": r.FormValue("category_id"),
		"description": r.FormValue("description"),
		"location":    strings.TrimSpace(r.FormValue("location")),
		"starts_at":   r.FormValue("starts_at"),
		"capacity":    r.FormValue("capacity"),
	}

	input := service.EventInput{
		Title:       form["title"],
		Description: form["description"],
		Location:    form["location"],
	}

	if id, err := strconv.ParseInt(form["category_id"], 10, 64); err == nil && id > 0 {
		input.CategoryID = sql.NullInt64{Int64: id, Valid: true}
	}
	if startsAt, err := time.ParseInLocation(startsAtLayout, form["starts_at"], time.Local); err == nil {
		input.StartsAt = startsAt
	}
	if capacity, err := strconv.ParseInt(form["capacity"], 10, 64); err == nil {
		input.Capacity = capacity
	}
	return input, form
}

// eventFormValues converts a stored event back into form field values.
func eventFormValues(event store.Event) map[string]string {
	form := map[string]string{
		"title":       event.Title,
		"description": event.Description,
		"location":    event.Location,
		"starts_at":   event.StartsAt.Format(startsAtLayout),
		"capacity":    strconv.FormatInt(event.Capacity, 10),
	}
	if event.CategoryID.Valid {
		form["category_id"] = strconv.FormatInt(event.CategoryID.Int64, 10)
	}
	return form
}

// eventFieldError maps a validation error to its form field. Unknown errors
// return an empty field.
func eventFieldError(err error) (field, message string) {
	switch {
	case errors.Is(err, service.ErrTitleRequired), errors.Is(err, service.ErrTitleTooLong):
		return "title", err.Error()
	case errors.Is(err, service.ErrStartInPast):
		return "starts_at", "Start time must be in the future."
	case errors.Is(err, service.ErrInvalidCapacity):
		return "capacity", "Capacity must be at least 1."
	}
	return "", ""
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the business logic layer: event publishing with
// slug assignment, ticket booking with capacity checks, reviews, favorites,
// and audit trail logging.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/eventhub/internal/store"
	"github.com/olegiv/eventhub/internal/util"
)

// Event validation errors.
var (
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleTooLong    = errors.New("title must be at most 120 characters")
	ErrStartInPast     = errors.New("start time must be in the future")
	ErrInvalidCapacity = errors.New("capacity must be at least 1")
	ErrSlugExhausted   = errors.New("could not assign a unique slug")
)

// maxEventSlugLen bounds the base slug so suffixed variants stay well under
// the column size.
const maxEventSlugLen = 130

// slugAttempts bounds the collision suffix loop: the bare base plus
// suffixed variants up to "-50", each checked before giving up.
const slugAttempts = 50

// EventService handles event publishing and editing.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates an EventService over db.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{queries: store.New(db)}
}

// EventInput holds the user-supplied fields for creating or updating an event.
type EventInput struct {
	CategoryID  sql.NullInt64
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	Capacity    int64
}

func (in EventInput) validate() error {
	if in.Title == "" {
		return ErrTitleRequired
	}
	if len(in.Title) > 120 {
		return ErrTitleTooLong
	}
	if !in.StartsAt.After(time.Now()) {
		return ErrStartInPast
	}
	if in.Capacity < 1 {
		return ErrInvalidCapacity
	}
	return nil
}

// GenerateSlug derives a URL slug from title, suffixing "-2", "-3" and so on
// until no other event holds it. excludeID keeps an existing event from
// colliding with its own slug; pass 0 for new events.
func (s *EventService) GenerateSlug(ctx context.Context, title string, excludeID int64) (string, error) {
	base := util.SlugifyMax(title, maxEventSlugLen)
	if base == "" {
		base = "event"
	}

	for i := 1; i <= slugAttempts; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		n, err := s.queries.EventSlugExists(ctx, store.EventSlugExistsParams{
			Slug:      candidate,
			ExcludeID: excludeID,
		})
		if err != nil {
			return "", fmt.Errorf("checking slug %q: %w", candidate, err)
		}
		if n == 0 {
			return candidate, nil
		}
	}
	return "", ErrSlugExhausted
}

// Create validates the input, assigns a unique slug and inserts the event.
// The slug check and insert are separate statements, so a concurrent insert
// can still collide; store.ErrDuplicate triggers one more slug pass.
func (s *EventService) Create(ctx context.Context, ownerID int64, in EventInput) (store.Event, error) {
	if err := in.validate(); err != nil {
		return store.Event{}, err
	}

	for attempt := 0; attempt < 3; attempt++ {
		slug, err := s.GenerateSlug(ctx, in.Title, 0)
		if err != nil {
			return store.Event{}, err
		}

		event, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
			OwnerID:     ownerID,
			CategoryID:  in.CategoryID,
			Title:       in.Title,
			Slug:        slug,
			Description: in.Description,
			Location:    in.Location,
			StartsAt:    in.StartsAt,
			Capacity:    in.Capacity,
			CreatedAt:   time.Now(),
		})
		if errors.Is(err, store.ErrDuplicate) {
			continue
		}
		if err != nil {
			return store.Event{}, fmt.Errorf("creating event: %w", err)
		}
		return event, nil
	}
	return store.Event{}, ErrSlugExhausted
}

// Update validates the input and updates the event's mutable fields. The
// slug stays as assigned at creation, so existing links keep working.
func (s *EventService) Update(ctx context.Context, eventID int64, in EventInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return s.queries.UpdateEvent(ctx, store.UpdateEventParams{
		ID:          eventID,
		CategoryID:  in.CategoryID,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		StartsAt:    in.StartsAt,
		Capacity:    in.Capacity,
	})
}

// CreateCategory derives the category slug from the name and inserts it.
// Category slugs get no collision suffix; a name that slugifies to an
// existing slug surfaces store.ErrDuplicate.
func (s *EventService) CreateCategory(ctx context.Context, name string) (store.Category, error) {
	if name == "" {
		return store.Category{}, ErrTitleRequired
	}
	return s.queries.CreateCategory(ctx, store.CreateCategoryParams{
		Name: name,
		Slug: util.SlugifyMax(name, 100),
	})
}

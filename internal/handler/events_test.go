package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/eventhub/internal/service"
	"github.com/olegiv/eventhub/internal/store"
)

func TestEventList(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager()
	rnd := testRenderer(t, sm)

	owner := createTestUser(t, db, "alice", false)
	createTestEvent(t, db, owner.ID, "Summer Fest", "summer-fest", 100)
	createTestEvent(t, db, owner.ID, "Jazz Night", "jazz-night", 50)

	h := NewEventHandler(db, rnd,
		service.NewEventService(db), service.NewBookingService(db),
		service.NewAuditService(db, nil), testCategories(t, db))

	r := requestWithSession(t, sm, httptest.NewRequest(http.MethodGet, RouteRoot, nil))
	w := httptest.NewRecorder()
	h.List(w, r)

	assertStatus(t, w.Code, http.StatusOK)
	body := w.Body.String()
	for _, want := range []string{"Summer Fest", "Jazz Night"} {
		if !strings.Contains(body, want) {
			t.Errorf("event list missing %q", want)
		}
	}
}

func TestEventDetail_NotFound(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager()
	rnd := testRenderer(t, sm)

	h := NewEventHandler(db, rnd,
		service.NewEventService(db), service.NewBookingService(db),
		service.NewAuditService(db, nil), testCategories(t, db))

	r := httptest.NewRequest(http.MethodGet, "/events/no-such-event", nil)
	r = requestWithSession(t, sm, requestWithURLParams(r, map[string]string{"slug": "no-such-event"}))
	w := httptest.NewRecorder()
	h.Detail(w, r)

	assertStatus(t, w.Code, http.StatusNotFound)
}

func TestEventDetail_ShowsSpotsLeft(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager()
	rnd := testRenderer(t, sm)

	owner := createTestUser(t, db, "alice", false)
	event := createTestEvent(t, db, owner.ID, "Tiny Venue", "tiny-venue", 2)

	guest := createTestUser(t, db, "bob", false)
	if _, err := store.New(db).CreateTicket(context.Background(), store.CreateTicketParams{
		UserID:    guest.ID,
		EventID:   event.ID,
		SeatType:  "standard",
		Reference: "ref-1",
		BookedAt:  time.Now(),
	}); err != nil {
		t.Fatalf("seeding ticket: %v", err)
	}

	h := NewEventHandler(db, rnd,
		service.NewEventService(db), service.NewBookingService(db),
		service.NewAuditService(db, nil), testCategories(t, db))

	r := httptest.NewRequest(http.MethodGet, "/events/tiny-venue", nil)
	r = requestWithSession(t, sm, requestWithURLParams(r, map[string]string{"slug": "tiny-venue"}))
	w := httptest.NewRecorder()
	h.Detail(w, r)

	assertStatus(t, w.Code, http.StatusOK)
	if !strings.Contains(w.Body.String(), "1") {
		t.Error("detail page should show one spot left")
	}
}

func TestEventUpdate_NonOwnerForbidden(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager()
	rnd := testRenderer(t, sm)

	owner := createTestUser(t, db, "alice", false)
	createTestEvent(t, db, owner.ID, "Summer Fest", "summer-fest", 100)
	intruder := createTestUser(t, db, "mallory", false)

	h := NewEventHandler(db, rnd,
		service.NewEventService(db), service.NewBookingService(db),
		service.NewAuditService(db, nil), testCategories(t, db))

	form := url.Values{"title": {"Hijacked"}, "capacity": {"10"}}
	r := httptest.NewRequest(http.MethodPost, "/events/summer-fest/edit", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r = requestWithURLParams(r, map[string]string{"slug": "summer-fest"})
	r = requestAsUser(requestWithSession(t, sm, r), intruder)
	w := httptest.NewRecorder()
	h.Update(w, r)

	assertStatus(t, w.Code, http.StatusForbidden)

	event, err := store.New(db).GetEventBySlug(context.Background(), "summer-fest")
	if err != nil {
		t.Fatalf("reloading event: %v", err)
	}
	if event.Title != "Summer Fest" {
		t.Errorf("title = %q, non-owner edit must not stick", event.Title)
	}
}

func TestEventUpdate_StaffAllowed(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager()
	rnd := testRenderer(t, sm)

	owner := createTestUser(t, db, "alice", false)
	createTestEvent(t, db, owner.ID, "Summer Fest", "summer-fest", 100)
	staff := createTestUser(t, db, "moderator", true)

	h := NewEventHandler(db, rnd,
		service.NewEventService(db), service.NewBookingService(db),
		service.NewAuditService(db, nil), testCategories(t, db))

	form := url.Values{
		"title":     {"Summer Fest 2026"},
		"location":  {"Main Hall"},
		"starts_at": {time.Now().Add(72 * time.Hour).Format(startsAtLayout)},
		"capacity":  {"150"},
	}
	r := httptest.NewRequest(http.MethodPost, "/events/summer-fest/edit", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r = requestWithURLParams(r, map[string]string{"slug": "summer-fest"})
	r = requestAsUser(requestWithSession(t, sm, r), staff)
	w := httptest.NewRecorder()
	h.Update(w, r)

	assertStatus(t, w.Code, http.StatusSeeOther)

	event, err := store.New(db).GetEventBySlug(context.Background(), "summer-fest")
	if err != nil {
		t.Fatalf("reloading event: %v", err)
	}
	if event.Title != "Summer Fest 2026" {
		t.Errorf("title = %q, want staff edit applied", event.Title)
	}
	if event.Slug != "summer-fest" {
		t.Errorf("slug = %q, must not change on update", event.Slug)
	}
}

func TestEventCreate_ValidationErrors(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager()
	rnd := testRenderer(t, sm)

	user := createTestUser(t, db, "alice", false)

	h := NewEventHandler(db, rnd,
		service.NewEventService(db), service.NewBookingService(db),
		service.NewAuditService(db, nil), testCategories(t, db))

	// Start time in the past.
	form := url.Values{
		"title":     {"Retro Party"},
		"starts_at": {time.Now().Add(-time.Hour).Format(startsAtLayout)},
		"capacity":  {"10"},
	}
	r := httptest.NewRequest(http.MethodPost, RouteEventNew, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r = requestAsUser(requestWithSession(t, sm, r), user)
	w := httptest.NewRecorder()
	h.Create(w, r)

	assertStatus(t, w.Code, http.StatusUnprocessableEntity)

	n, err := store.New(db).CountEvents(context.Background())
	if err != nil {
		t.Fatalf("counting events: %v", err)
	}
	if n != 0 {
		t.Errorf("events = %d, invalid input must not create one", n)
	}
}

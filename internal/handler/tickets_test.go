package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/eventhub/internal/service"
	"github.com/olegiv/eventhub/internal/store"
)

func bookRequest(t *testing.T, h *TicketHandler, sm *scs.SessionManager, slug string, user store.User, seatType string) *httptest.ResponseRecorder {
	t.Helper()

	form := url.Values{"seat_type": {seatType}}
	r := httptest.NewRequest(http.MethodPost, "/events/"+slug+"/book", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r = requestWithURLParams(r, map[string]string{"slug": slug})
	r = requestAsUser(requestWithSession(t, sm, r), user)
	w := httptest.NewRecorder()
	h.Book(w, r)
	return w
}

func TestBookTicket(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager()
	rnd := testRenderer(t, sm)

	owner := createTestUser(t, db, "alice", false)
	event := createTestEvent(t, db, owner.ID, "Summer Fest", "summer-fest", 100)
	guest := createTestUser(t, db, "bob", false)

	h := NewTicketHandler(db, rnd, service.NewBookingService(db),
		service.NewAuditService(db, nil), testCategories(t, db))

	w := bookRequest(t, h, sm, "summer-fest", guest, "vip")
	assertStatus(t, w.Code, http.StatusSeeOther)
	if got := w.Header().Get("Location"); got != eventURL("summer-fest") {
		t.Errorf("redirect = %q, want event page", got)
	}

	has, err := store.New(db).HasTicket(context.Background(), store.UserEventParams{
		UserID: guest.ID, EventID: event.ID,
	})
	if err != nil {
		t.Fatalf("checking ticket: %v", err)
	}
	if !has {
		t.Error("ticket not created")
	}
}

func TestBookTicket_SoldOut(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager()
	rnd := testRenderer(t, sm)

	owner := createTestUser(t, db, "alice", false)
	event := createTestEvent(t, db, owner.ID, "Tiny Venue", "tiny-venue", 1)

	first := createTestUser(t, db, "bob", false)
	if _, err := store.New(db).CreateTicket(context.Background(), store.CreateTicketParams{
		UserID:    first.ID,
		EventID:   event.ID,
		SeatType:  "standard",
		Reference: "ref-1",
		BookedAt:  time.Now(),
	}); err != nil {
		t.Fatalf("seeding ticket: %v", err)
	}

	h := NewTicketHandler(db, rnd, service.NewBookingService(db),
		service.NewAuditService(db, nil), testCategories(t, db))

	late := createTestUser(t, db, "carol", false)
	w := bookRequest(t, h, sm, "tiny-venue", late, "standard")
	assertStatus(t, w.Code, http.StatusSeeOther)

	count, err := store.New(db).CountTicketsForEvent(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("counting tickets: %v", err)
	}
	if count != 1 {
		t.Errorf("tickets = %d, sold out booking must not add one", count)
	}
}

func TestBookTicket_Duplicate(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager()
	rnd := testRenderer(t, sm)

	owner := createTestUser(t, db, "alice", false)
	event := createTestEvent(t, db, owner.ID, "Summer Fest", "summer-fest", 100)
	guest := createTestUser(t, db, "bob", false)

	h := NewTicketHandler(db, rnd, service.NewBookingService(db),
		service.NewAuditService(db, nil), testCategories(t, db))

	bookRequest(t, h, sm, "summer-fest", guest, "standard")
	w := bookRequest(t, h, sm, "summer-fest", guest, "vip")
	assertStatus(t, w.Code, http.StatusSeeOther)

	count, err := store.New(db).CountTicketsForEvent(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("counting tickets: %v", err)
	}
	if count != 1 {
		t.Errorf("tickets = %d, want 1 per user per event", count)
	}
}

func TestBookTicket_UnknownEvent(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager()
	rnd := testRenderer(t, sm)

	guest := createTestUser(t, db, "bob", false)

	h := NewTicketHandler(db, rnd, service.NewBookingService(db),
		service.NewAuditService(db, nil), testCategories(t, db))

	w := bookRequest(t, h, sm, "no-such-event", guest, "standard")
	assertStatus(t, w.Code, http.StatusNotFound)
}

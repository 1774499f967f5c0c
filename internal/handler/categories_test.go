package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/olegiv/eventhub/internal/service"
	"github.com/olegiv/eventhub/internal/store"
)

func TestCategoryCreate(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager()
	rnd := testRenderer(t, sm)
	staff := createTestUser(t, db, "moderator", true)

	h := NewCategoryHandler(db, rnd, service.NewEventService(db),
		service.NewAuditService(db, nil), testCategories(t, db))

	form := url.Values{"name": {"Live Music"}}
	r := httptest.NewRequest(http.MethodPost, RouteManageCategories, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r = requestAsUser(requestWithSession(t, sm, r), staff)
	w := httptest.NewRecorder()
	h.Create(w, r)

	assertStatus(t, w.Code, http.StatusSeeOther)

	category, err := store.New(db).GetCategoryBySlug(context.Background(), "live-music")
	if err != nil {
		t.Fatalf("category not created: %v", err)
	}
	if category.Name != "Live Music" {
		t.Errorf("name = %q, want Live Music", category.Name)
	}
}

func TestCategoryCreate_DuplicateName(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager()
	rnd := testRenderer(t, sm)
	staff := createTestUser(t, db, "moderator", true)

	h := NewCategoryHandler(db, rnd, service.NewEventService(db),
		service.NewAuditService(db, nil), testCategories(t, db))

	post := func(name string) *httptest.ResponseRecorder {
		form := url.Values{"name": {name}}
		r := httptest.NewRequest(http.MethodPost, RouteManageCategories, strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r = requestAsUser(requestWithSession(t, sm, r), staff)
		w := httptest.NewRecorder()
		h.Create(w, r)
		return w
	}

	post("Live Music")
	// Different name, same derived slug. No suffixing for categories.
	w := post("Live  Music!")
	assertStatus(t, w.Code, http.StatusSeeOther)

	categories, err := store.New(db).ListCategories(context.Background())
	if err != nil {
		t.Fatalf("listing categories: %v", err)
	}
	if len(categories) != 1 {
		t.Errorf("categories = %d, want duplicate slug rejected", len(categories))
	}
}

func TestCategoryManage(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager()
	rnd := testRenderer(t, sm)
	staff := createTestUser(t, db, "moderator", true)

	if _, err := store.New(db).CreateCategory(context.Background(), store.CreateCategoryParams{
		Name: "Workshops", Slug: "workshops",
	}); err != nil {
		t.Fatalf("seeding category: %v", err)
	}

	h := NewCategoryHandler(db, rnd, service.NewEventService(db),
		service.NewAuditService(db, nil), testCategories(t, db))

	r := httptest.NewRequest(http.MethodGet, RouteManageCategories, nil)
	r = requestAsUser(requestWithSession(t, sm, r), staff)
	w := httptest.NewRecorder()
	h.Manage(w, r)

	assertStatus(t, w.Code, http.StatusOK)
	if !strings.Contains(w.Body.String(), "Workshops") {
		t.Error("manage page missing seeded category")
	}
}

func TestCategoryDelete(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager()
	rnd := testRenderer(t, sm)
	staff := createTestUser(t, db, "moderator", true)

	category, err := store.New(db).CreateCategory(context.Background(), store.CreateCategoryParams{
		Name: "Workshops", Slug: "workshops",
	})
	if err != nil {
		t.Fatalf("seeding category: %v", err)
	}

	h := NewCategoryHandler(db, rnd, service.NewEventService(db),
		service.NewAuditService(db, nil), testCategories(t, db))

	id := "1"
	r := httptest.NewRequest(http.MethodPost, RouteManageCategories+"/"+id+"/delete", nil)
	r = requestWithURLParams(r, map[string]string{"id": id})
	r = requestAsUser(requestWithSession(t, sm, r), staff)
	w := httptest.NewRecorder()
	h.Delete(w, r)

	assertStatus(t, w.Code, http.StatusSeeOther)

	if _, err := store.New(db).GetCategoryByID(context.Background(), category.ID); err == nil {
		t.Error("category still present after delete")
	}
}

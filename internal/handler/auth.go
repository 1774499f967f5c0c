// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/eventhub/internal/auth"
	"github.com/olegiv/eventhub/internal/cache"
	"github.com/olegiv/eventhub/internal/middleware"
	"github.com/olegiv/eventhub/internal/model"
	"github.com/olegiv/eventhub/internal/render"
	"github.com/olegiv/eventhub/internal/service"
	"github.com/olegiv/eventhub/internal/store"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,30}$`)

const minPasswordLength = 8

// AuthHandler serves registration, login, logout and the profile page.
type AuthHandler struct {
	queries    *store.Queries
	render     *render.Renderer
	sessions   *scs.SessionManager
	audit      *service.AuditService
	protection *middleware.LoginProtection
	categories *cache.Categories
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(db *sql.DB, rnd *render.Renderer, sm *scs.SessionManager,
	audit *service.AuditService, lp *middleware.LoginProtection, categories *cache.Categories) *AuthHandler {
	return &AuthHandler{
		queries:    store.New(db),
		render:     rnd,
		sessions:   sm,
		audit:      audit,
		protection: lp,
		categories: categories,
	}
}

// RegisterForm shows the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.render, "auth/register", pageData(r, h.categories, "Create Account"))
}

// Register creates a new account with the regular role.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.render, RouteRegister) {
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	password := r.FormValue("password")

	formErrors := map[string]string{}
	if !usernamePattern.MatchString(username) {
		formErrors["username"] = "Username must be 3-30 characters: letters, digits, dot, dash or underscore."
	}
	if !strings.Contains(email, "@") {
		formErrors["email"] = "Enter a valid email address."
	}
	if len(password) < minPasswordLength {
		formErrors["password"] = fmt.Sprintf("Password must be at least %d characters.", minPasswordLength)
	}
	if len(formErrors) > 0 {
		h.renderRegister(w, r, formErrors, username, email)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logAndServerError(w, r, h.render, "hashing password", err)
		return
	}

	now := time.Now()
	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleRegular,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, store.ErrDuplicate) {
		h.renderRegister(w, r, map[string]string{
			"username": "That username or email is already taken.",
		}, username, email)
		return
	}
	if err != nil {
		logAndServerError(w, r, h.render, "creating user", err)
		return
	}

	h.audit.LogInfo(r.Context(), model.AuditCategoryAuth, "account created",
		&user.ID, middleware.ClientIP(r), map[string]any{"username": username})

	flashAndRedirect(w, r, h.render, "Account created. You can sign in now.", flashSuccess, RouteLogin)
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, formErrors map[string]string, username, email string) {
	data := pageData(r, h.categories, "Create Account")
	data.Errors = formErrors
	data.Form = map[string]string{"username": username, "email": email}
	w.WriteHeader(http.StatusUnprocessableEntity)
	renderPage(w, r, h.render, "auth/register", data)
}

// LoginForm shows the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.render, "auth/login", pageData(r, h.categories, "Sign In"))
}

// Login authenticates the user. Failed attempts are throttled per account;
// successful logins rotate the session token and rehash outdated password
// hashes.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.render, RouteLogin) {
		return
	}

	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	password := r.FormValue("password")
	clientIP := middleware.ClientIP(r)

	if locked, remaining := h.protection.IsAccountLocked(email); locked {
		h.audit.LogWarning(r.Context(), model.AuditCategoryAuth, "login attempt on locked account",
			nil, clientIP, map[string]any{"email": email})
		h.renderLoginError(w, r, fmt.Sprintf(
			"Account temporarily locked. Try again in %d minutes.",
			int(remaining.Minutes())+1), email)
		return
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logAndServerError(w, r, h.render, "loading user for login", err)
			return
		}
		h.failLogin(w, r, email, clientIP)
		return
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		h.failLogin(w, r, email, clientIP)
		return
	}

	h.protection.RecordSuccessfulLogin(email)

	// Upgrade hashes created with older parameters while the plaintext is
	// at hand.
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			_ = h.queries.UpdateUserPassword(r.Context(), user.ID, newHash)
		}
	}

	// Rotate the session token on privilege change to prevent fixation.
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		logAndServerError(w, r, h.render, "renewing session token", err)
		return
	}
	h.sessions.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	if err := h.queries.UpdateUserLastLogin(r.Context(), user.ID, time.Now()); err != nil {
		logAndServerError(w, r, h.render, "recording last login", err)
		return
	}

	h.audit.LogLogin(r.Context(), "user signed in", &user.ID, clientIP, r.UserAgent())

	flashAndRedirect(w, r, h.render, "Welcome back, "+user.Username+"!", flashSuccess, RouteRoot)
}

// failLogin records a failed attempt and renders the same generic error for
// unknown accounts and wrong passwords.
func (h *AuthHandler) failLogin(w http.ResponseWriter, r *http.Request, email, clientIP string) {
	locked, duration := h.protection.RecordFailedAttempt(email)

	h.audit.LogWarning(r.Context(), model.AuditCategoryAuth, "failed login attempt",
		nil, clientIP, map[string]any{"email": email})

	if locked {
		h.renderLoginError(w, r, fmt.Sprintf(
			"Too many failed attempts. Account locked for %d minutes.",
			int(duration.Minutes())), email)
		return
	}
	h.renderLoginError(w, r, "Invalid email or password.", email)
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, r *http.Request, message, email string) {
	data := pageData(r, h.categories, "Sign In")
	data.Errors = map[string]string{"login": message}
	data.Form = map[string]string{"email": email}
	w.WriteHeader(http.StatusUnprocessableEntity)
	renderPage(w, r, h.render, "auth/login", data)
}

// Logout destroys the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDPtr(r)

	if err := h.sessions.Destroy(r.Context()); err != nil {
		logAndServerError(w, r, h.render, "destroying session", err)
		return
	}

	h.audit.LogInfo(r.Context(), model.AuditCategoryAuth, "user signed out",
		userID, middleware.ClientIP(r), nil)

	flashAndRedirect(w, r, h.render, "You have been signed out.", flashInfo, RouteLogin)
}

// Profile shows the signed-in user's profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.render, "auth/profile", pageData(r, h.categories, "My Profile"))
}

// UpdateProfile saves the user-editable profile fields.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.render, RouteProfile) {
		return
	}

	user := middleware.GetUser(r)
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	bio := strings.TrimSpace(r.FormValue("bio"))

	if !strings.Contains(email, "@") {
		flashAndRedirect(w, r, h.render, "Enter a valid email address.", flashError, RouteProfile)
		return
	}

	err := h.queries.UpdateUserProfile(r.Context(), store.UpdateUserProfileParams{
		ID:        user.ID,
		Email:     email,
		Bio:       bio,
		UpdatedAt: time.Now(),
	})
	if errors.Is(err, store.ErrDuplicate) {
		flashAndRedirect(w, r, h.render, "That email is already in use.", flashError, RouteProfile)
		return
	}
	if err != nil {
		logAndServerError(w, r, h.render, "updating profile", err)
		return
	}

	flashAndRedirect(w, r, h.render, "Profile updated.", flashSuccess, RouteProfile)
}

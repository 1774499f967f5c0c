package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRecordFailedAttempt_LocksAfterMax(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})

	email := "bob@example.com"
	for i := 0; i < 2; i++ {
		locked, _ := lp.RecordFailedAttempt(email)
		if locked {
			t.Fatalf("locked after %d attempts, max is 3", i+1)
		}
	}

	locked, duration := lp.RecordFailedAttempt(email)
	if !locked {
		t.Fatal("not locked after reaching max attempts")
	}
	if duration != time.Minute {
		t.Errorf("lock duration = %v, want 1m", duration)
	}

	isLocked, remaining := lp.IsAccountLocked(email)
	if !isLocked {
		t.Error("IsAccountLocked = false right after lockout")
	}
	if remaining <= 0 || remaining > time.Minute {
		t.Errorf("remaining = %v, want (0, 1m]", remaining)
	}
}

func TestRecordFailedAttempt_ExponentialBackoff(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		MaxFailedAttempts: 2,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Hour,
	})
	email := "carol@example.com"

	lp.RecordFailedAttempt(email)
	_, first := lp.RecordFailedAttempt(email)
	if first != time.Minute {
		t.Errorf("first lockout = %v, want 1m", first)
	}

	// Next lockout doubles. Clear the lockedUntil so attempts count again.
	lp.attemptsMu.Lock()
	lp.failedAttempts[email].lockedUntil = time.Now().Add(-time.Second)
	lp.attemptsMu.Unlock()

	lp.RecordFailedAttempt(email)
	_, second := lp.RecordFailedAttempt(email)
	if second != 2*time.Minute {
		t.Errorf("second lockout = %v, want 2m", second)
	}
}

func TestRecordSuccessfulLogin_ClearsFailures(t *testing.T) {
	lp := NewLoginProtection(DefaultLoginProtectionConfig())
	email := "dave@example.com"

	lp.RecordFailedAttempt(email)
	lp.RecordSuccessfulLogin(email)

	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("account locked after successful login cleared attempts")
	}
	lp.attemptsMu.RLock()
	_, exists := lp.failedAttempts[email]
	lp.attemptsMu.RUnlock()
	if exists {
		t.Error("failure tracking not cleared")
	}
}

func TestMiddleware_RateLimitsPosts(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit: 0.001, // effectively one request
		IPBurst:     1,
	})
	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func() int {
		r := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.RemoteAddr = "203.0.113.9:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	if code := post(); code != http.StatusOK {
		t.Fatalf("first POST status = %d, want 200", code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Errorf("second POST status = %d, want 429", code)
	}

	// GETs are never rate limited.
	r := httptest.NewRequest(http.MethodGet, "/login", nil)
	r.RemoteAddr = "203.0.113.9:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("GET status = %d, want 200", w.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		realIP     string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"x-real-ip wins", "198.51.100.1", "203.0.113.1", "10.0.0.1:80", "198.51.100.1"},
		{"forwarded-for chain", "", "203.0.113.1, 10.0.0.2", "10.0.0.1:80", "203.0.113.1"},
		{"forwarded-for single", "", "203.0.113.7", "10.0.0.1:80", "203.0.113.7"},
		{"remote addr fallback", "", "", "10.0.0.1:80", "10.0.0.1:80"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

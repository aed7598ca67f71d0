package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var testSecret = SessionSecretBytes("dev-secret-change-in-production-32bytes")

func TestRequireAuth_NoToken_Returns401(t *testing.T) {
	mw := RequireAuth(testSecret)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	})

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_InvalidToken_Returns401(t *testing.T) {
	mw := RequireAuth(testSecret)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName(), Value: "invalid.token"})
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_ValidCookie_CallsNextWithSubject(t *testing.T) {
	token, _, err := CreateSessionToken(AdminSubject, testSecret, time.Now(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	mw := RequireAuth(testSecret)

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName(), Value: token})
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if got != AdminSubject {
		t.Errorf("expected subject=%q, got %q", AdminSubject, got)
	}
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	token, _, err := CreateSessionToken(AdminSubject, testSecret, time.Now(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	RequireAuth(testSecret)(next).ServeHTTP(rec, req)

	if !called {
		t.Errorf("expected next to be called, got %d", rec.Code)
	}
}

func TestRequireAuth_ExpiredToken_Returns401(t *testing.T) {
	token, _, err := CreateSessionToken(AdminSubject, testSecret, time.Now().Add(-2*time.Hour), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	RequireAuth(testSecret)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestVerifySessionToken_WrongSecret(t *testing.T) {
	token, _, err := CreateSessionToken(AdminSubject, testSecret, time.Now(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := VerifySessionToken(token, SessionSecretBytes("another-secret")); err == nil {
		t.Error("expected error for wrong secret")
	}
}

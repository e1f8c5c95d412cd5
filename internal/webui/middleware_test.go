package webui

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthMiddlewareRedirectsWithoutCookie(t *testing.T) {
	creds := Credentials{Username: "admin", Password: "secret"}
	called := false
	h := AuthMiddleware(creds, func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	if called {
		t.Fatal("handler should not run without a session cookie")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
}

func TestAuthMiddlewarePassesWithValidCookie(t *testing.T) {
	creds := Credentials{Username: "admin", Password: "secret"}
	called := false
	h := AuthMiddleware(creds, func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "admin"})
	rec := httptest.NewRecorder()
	h(rec, req)

	if !called {
		t.Fatal("handler should run with a valid session cookie")
	}
}

func TestAuthMiddlewareRejectsWrongCookieValue(t *testing.T) {
	creds := Credentials{Username: "admin", Password: "secret"}
	called := false
	h := AuthMiddleware(creds, func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "someone-else"})
	rec := httptest.NewRecorder()
	h(rec, req)

	if called {
		t.Fatal("handler should not run with a mismatched session cookie")
	}
}

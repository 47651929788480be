package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestRequireSignedIn_NoUser(t *testing.T) {
	h, called := okHandler()
	rec := httptest.NewRecorder()
	RequireSignedIn(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if *called {
		t.Error("handler should not run without a session user")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireSignedIn_WithUser(t *testing.T) {
	h, called := okHandler()
	r := WithTestUser(httptest.NewRequest(http.MethodGet, "/", nil),
		&SessionUser{ID: "abc", Role: "member"})
	rec := httptest.NewRecorder()
	RequireSignedIn(h).ServeHTTP(rec, r)

	if !*called {
		t.Error("handler should run for a signed-in user")
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		user       *SessionUser
		allowed    []string
		wantStatus int
	}{
		{"no session", nil, []string{"admin"}, http.StatusUnauthorized},
		{"wrong role", &SessionUser{ID: "1", Role: "member"}, []string{"admin"}, http.StatusForbidden},
		{"allowed role", &SessionUser{ID: "1", Role: "admin"}, []string{"admin"}, http.StatusOK},
		{"one of several", &SessionUser{ID: "1", Role: "associate"}, []string{"admin", "associate"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := okHandler()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				r = WithTestUser(r, tt.user)
			}
			rec := httptest.NewRecorder()
			RequireRole(tt.allowed...)(h).ServeHTTP(rec, r)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestInitSessionStore_EmptyKeyInProd(t *testing.T) {
	err := InitSessionStore("", "test-session", "", true, zap.NewNop())
	if err == nil {
		t.Error("expected error for empty session key in secure mode")
	}
}

func TestInitSessionStore_DevGeneratesKey(t *testing.T) {
	if err := InitSessionStore("", "test-session", "", false, zap.NewNop()); err != nil {
		t.Fatalf("dev init failed: %v", err)
	}
	if Store == nil {
		t.Error("expected Store to be initialized")
	}
	Store = nil
}

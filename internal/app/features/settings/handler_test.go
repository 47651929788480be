package settings_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/memberhub/memberhub/internal/app/features/settings"
	settingsstore "github.com/memberhub/memberhub/internal/app/store/settings"
	"github.com/memberhub/memberhub/internal/testutil"
	"go.uber.org/zap"
)

func setup(t *testing.T) *settings.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db, zap.NewNop())
	return settings.NewHandler(store, nil, zap.NewNop())
}

func TestServeGet_Defaults(t *testing.T) {
	h := setup(t)

	rec := httptest.NewRecorder()
	h.ServeGet(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Open bool `json:"executive_applications_open"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Open {
		t.Error("expected applications closed by default")
	}
}

func TestHandleUpdate(t *testing.T) {
	h := setup(t)

	r := testutil.NewJSONRequest(t, http.MethodPut, "/settings", map[string]any{
		"executive_applications_open": true,
		"executive_application_questions": []map[string]any{
			{"prompt": "Why do you want this role?", "required": true},
		},
	})
	r = testutil.WithUser(r, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeGet(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))
	var resp struct {
		Open      bool `json:"executive_applications_open"`
		Questions []struct {
			Prompt   string `json:"prompt"`
			Required bool   `json:"required"`
		} `json:"executive_application_questions"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if !resp.Open {
		t.Error("expected applications open after update")
	}
	if len(resp.Questions) != 1 || !resp.Questions[0].Required {
		t.Errorf("unexpected questions: %+v", resp.Questions)
	}
}

func TestHandleUpdate_NoSession(t *testing.T) {
	h := setup(t)

	r := testutil.NewJSONRequest(t, http.MethodPut, "/settings", map[string]any{
		"executive_applications_open": true,
	})
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

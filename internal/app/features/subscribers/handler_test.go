package subscribers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/memberhub/memberhub/internal/app/features/subscribers"
	subscriberstore "github.com/memberhub/memberhub/internal/app/store/subscribers"
	"github.com/memberhub/memberhub/internal/testutil"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*subscribers.Handler, *subscriberstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := subscriberstore.New(db)
	return subscribers.NewHandler(store, zap.NewNop()), store
}

func TestHandleSubscribe(t *testing.T) {
	h, _ := setup(t)

	r := testutil.NewJSONRequest(t, http.MethodPost, "/subscribe", map[string]string{
		"email": "News@Example.com",
		"name":  "Robin",
	})
	rec := httptest.NewRecorder()
	h.HandleSubscribe(rec, r)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Email string `json:"email"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Email != "news@example.com" {
		t.Errorf("expected normalized email, got %q", resp.Email)
	}
}

func TestHandleSubscribe_Duplicate(t *testing.T) {
	h, store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "news@example.com", "Robin"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	r := testutil.NewJSONRequest(t, http.MethodPost, "/subscribe", map[string]string{
		"email": "NEWS@example.com",
	})
	rec := httptest.NewRecorder()
	h.HandleSubscribe(rec, r)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", rec.Code)
	}
}

func TestHandleSubscribe_MissingEmail(t *testing.T) {
	h, _ := setup(t)

	r := testutil.NewJSONRequest(t, http.MethodPost, "/subscribe", map[string]string{"name": "Robin"})
	rec := httptest.NewRecorder()
	h.HandleSubscribe(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServeListAndDelete(t *testing.T) {
	h, store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sub, err := store.Create(ctx, "news@example.com", "Robin")
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	rec := httptest.NewRecorder()
	r := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/subscribers", nil), testutil.AdminUser())
	h.ServeList(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []struct {
		Email string `json:"email"`
	}
	testutil.DecodeJSON(t, rec, &list)
	if len(list) != 1 {
		t.Fatalf("expected 1 subscriber, got %d", len(list))
	}

	r = httptest.NewRequest(http.MethodDelete, "/subscribers/"+sub.ID.Hex(), nil)
	r = testutil.WithChiURLParam(r, "id", sub.ID.Hex())
	r = testutil.WithUser(r, testutil.AdminUser())
	rec = httptest.NewRecorder()
	h.HandleDelete(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.HandleDelete(rec, r)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for second delete, got %d", rec.Code)
	}
}

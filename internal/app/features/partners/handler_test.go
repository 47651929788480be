package partners_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/memberhub/memberhub/internal/app/features/partners"
	partnerstore "github.com/memberhub/memberhub/internal/app/store/partners"
	"github.com/memberhub/memberhub/internal/testutil"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*partners.Handler, *partnerstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := partnerstore.New(db)
	return partners.NewHandler(store, nil, zap.NewNop()), store
}

func TestHandleCreate(t *testing.T) {
	h, _ := setup(t)

	r := testutil.NewJSONRequest(t, http.MethodPost, "/partners", map[string]string{
		"name":    "Acme Corp",
		"website": "https://acme.example",
	})
	r = testutil.WithUser(r, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, r)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleCreate_MissingName(t *testing.T) {
	h, _ := setup(t)

	r := testutil.NewJSONRequest(t, http.MethodPost, "/partners", map[string]string{"website": "x"})
	r = testutil.WithUser(r, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleReorder(t *testing.T) {
	h, store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, _ := store.Create(ctx, partnerstore.Input{Name: "A"})
	b, _ := store.Create(ctx, partnerstore.Input{Name: "B"})

	r := testutil.NewJSONRequest(t, http.MethodPut, "/partners/order", map[string]any{
		"order": []string{b.ID.Hex(), a.ID.Hex()},
	})
	r = testutil.WithUser(r, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.HandleReorder(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if list[0].Name != "B" || list[1].Name != "A" {
		t.Errorf("unexpected order: %+v", list)
	}
}

func TestHandleReorder_EmptyList(t *testing.T) {
	h, _ := setup(t)

	r := testutil.NewJSONRequest(t, http.MethodPut, "/partners/order", map[string]any{"order": []string{}})
	r = testutil.WithUser(r, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.HandleReorder(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty order, got %d", rec.Code)
	}
}

func TestHandleReorder_MalformedID(t *testing.T) {
	h, _ := setup(t)

	r := testutil.NewJSONRequest(t, http.MethodPut, "/partners/order", map[string]any{
		"order": []string{"not-a-hex-id"},
	})
	r = testutil.WithUser(r, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.HandleReorder(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", rec.Code)
	}
}

package executives_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/memberhub/memberhub/internal/app/features/executives"
	credentialstore "github.com/memberhub/memberhub/internal/app/store/credentials"
	executivestore "github.com/memberhub/memberhub/internal/app/store/executives"
	"github.com/memberhub/memberhub/internal/app/system/txn"
	"github.com/memberhub/memberhub/internal/testutil"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*executives.Handler, *executivestore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := executivestore.New(db, credentialstore.New(db), &txn.Runner{Log: zap.NewNop()}, zap.NewNop())
	return executives.NewHandler(store, nil, zap.NewNop()), store
}

func TestHandleCreate_AdminWithLogin(t *testing.T) {
	h, _ := setup(t)

	r := testutil.NewJSONRequest(t, http.MethodPost, "/executives", map[string]string{
		"name":     "Site Admin",
		"role":     "admin",
		"login_id": "admin1",
		"secret":   "password123",
	})
	r = testutil.WithUser(r, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, r)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	// The secret hash must never leave the server.
	if strings.Contains(rec.Body.String(), "$2a$") || strings.Contains(rec.Body.String(), "secret_hash") {
		t.Error("response leaks the secret hash")
	}
}

func TestHandleCreate_InvalidRole(t *testing.T) {
	h, _ := setup(t)

	r := testutil.NewJSONRequest(t, http.MethodPost, "/executives", map[string]string{
		"name": "X", "role": "czar",
	})
	r = testutil.WithUser(r, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServeList_SortedAndSanitized(t *testing.T) {
	h, store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, executivestore.Input{Name: "A", Role: "member"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := store.Create(ctx, executivestore.Input{Name: "B", Role: "member"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/executives", nil)
	rec := httptest.NewRecorder()
	h.ServeList(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []struct {
		Name  string `json:"name"`
		Order int    `json:"order"`
	}
	testutil.DecodeJSON(t, rec, &list)
	if len(list) != 2 || list[0].Name != "A" || list[1].Name != "B" {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestHandleReorder(t *testing.T) {
	h, store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, _ := store.Create(ctx, executivestore.Input{Name: "A", Role: "member"})
	b, _ := store.Create(ctx, executivestore.Input{Name: "B", Role: "member"})

	r := testutil.NewJSONRequest(t, http.MethodPut, "/executives/order", map[string]any{
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

package events_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/memberhub/memberhub/internal/app/features/events"
	eventstore "github.com/memberhub/memberhub/internal/app/store/events"
	"github.com/memberhub/memberhub/internal/domain/models"
	"github.com/memberhub/memberhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*events.Handler, *eventstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	h := events.NewHandler(store, nil, nil, "MemberHub", zap.NewNop())
	return h, store
}

func seedEvent(t *testing.T, store *eventstore.Store) models.Event {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e, err := store.Create(ctx, primitive.NewObjectID(), eventstore.Input{
		Title: "Spring Mixer",
		Date:  time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC),
		Time:  "18:30",
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return e
}

func TestHandleCreate(t *testing.T) {
	h, _ := setup(t)

	r := testutil.NewJSONRequest(t, http.MethodPost, "/events", map[string]any{
		"title": "Annual Gala",
		"date":  "2026-11-01T00:00:00Z",
		"time":  "19:00",
	})
	r = testutil.WithUser(r, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, r)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Title string `json:"title"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Title != "Annual Gala" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleCreate_NoSession(t *testing.T) {
	h, _ := setup(t)

	r := testutil.NewJSONRequest(t, http.MethodPost, "/events", map[string]any{"title": "X"})
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestHandleCreate_MissingFields(t *testing.T) {
	h, _ := setup(t)

	r := testutil.NewJSONRequest(t, http.MethodPost, "/events", map[string]any{"time": "19:00"})
	r = testutil.WithUser(r, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleRegister_Anonymous(t *testing.T) {
	h, store := setup(t)
	e := seedEvent(t, store)

	r := testutil.NewJSONRequest(t, http.MethodPost, "/events/x/register", map[string]string{
		"email": "guest@example.com",
		"name":  "Guest One",
	})
	r = testutil.WithChiURLParam(r, "id", e.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleRegister(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	regs, err := store.Registrations(ctx, e.ID)
	if err != nil {
		t.Fatalf("registrations: %v", err)
	}
	if len(regs) != 1 || regs[0].Authenticated {
		t.Errorf("expected one anonymous registration, got %+v", regs)
	}
}

func TestHandleRegister_AnonymousMissingName(t *testing.T) {
	h, store := setup(t)
	e := seedEvent(t, store)

	r := testutil.NewJSONRequest(t, http.MethodPost, "/events/x/register", map[string]string{
		"email": "guest@example.com",
	})
	r = testutil.WithChiURLParam(r, "id", e.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleRegister(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleRegister_SignedInUsesSessionIdentity(t *testing.T) {
	h, store := setup(t)
	e := seedEvent(t, store)

	user := testutil.AssociateUser("acme1")
	r := testutil.NewJSONRequest(t, http.MethodPost, "/events/x/register", map[string]string{})
	r = testutil.WithChiURLParam(testutil.WithUser(r, user), "id", e.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleRegister(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	regs, err := store.Registrations(ctx, e.ID)
	if err != nil {
		t.Fatalf("registrations: %v", err)
	}
	if len(regs) != 1 {
		t.Fatalf("expected 1 registration, got %d", len(regs))
	}
	if !regs[0].Authenticated || regs[0].UserEmail != user.Email {
		t.Errorf("expected session identity, got %+v", regs[0])
	}
}

func TestHandleRegister_Duplicate(t *testing.T) {
	h, store := setup(t)
	e := seedEvent(t, store)

	body := map[string]string{"email": "guest@example.com", "name": "Guest"}
	r := testutil.NewJSONRequest(t, http.MethodPost, "/events/x/register", body)
	r = testutil.WithChiURLParam(r, "id", e.ID.Hex())
	h.HandleRegister(httptest.NewRecorder(), r)

	r = testutil.NewJSONRequest(t, http.MethodPost, "/events/x/register", body)
	r = testutil.WithChiURLParam(r, "id", e.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleRegister(rec, r)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate registration, got %d", rec.Code)
	}
}

func TestHandleRegister_EventNotFound(t *testing.T) {
	h, _ := setup(t)

	r := testutil.NewJSONRequest(t, http.MethodPost, "/events/x/register",
		map[string]string{"email": "g@example.com", "name": "G"})
	r = testutil.WithChiURLParam(r, "id", primitive.NewObjectID().Hex())
	rec := httptest.NewRecorder()
	h.HandleRegister(rec, r)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestServeRegistrations(t *testing.T) {
	h, store := setup(t)
	e := seedEvent(t, store)

	r := httptest.NewRequest(http.MethodGet, "/events/x/registrations", nil)
	r = testutil.WithChiURLParam(testutil.WithUser(r, testutil.AdminUser()), "id", e.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeRegistrations(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var regs []models.Registration
	testutil.DecodeJSON(t, rec, &regs)
	if len(regs) != 0 {
		t.Errorf("expected empty list, got %+v", regs)
	}
}

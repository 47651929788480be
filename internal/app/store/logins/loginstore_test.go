package loginstore_test

import (
	"net/http/httptest"
	"testing"
	"time"

	loginstore "github.com/memberhub/memberhub/internal/app/store/logins"
	"github.com/memberhub/memberhub/internal/domain/models"
	"github.com/memberhub/memberhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_RecordSuccess(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := httptest.NewRequest("POST", "/login", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	userID := primitive.NewObjectID()

	sessionID, err := store.RecordSuccess(ctx, r, userID, "acme1")
	if err != nil {
		t.Fatalf("RecordSuccess failed: %v", err)
	}
	if sessionID == "" {
		t.Fatal("expected a session correlation id")
	}

	recs, err := store.ListByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	if !rec.Success || rec.SessionID != sessionID {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.IP != "203.0.113.9" {
		t.Errorf("expected first XFF hop, got %q", rec.IP)
	}
}

func TestStore_RecordFailure_NoUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := httptest.NewRequest("POST", "/login", nil)
	if err := store.RecordFailure(ctx, r, nil, "nosuchuser"); err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}

	n, err := store.CountRecentFailures(ctx, "nosuchuser", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("CountRecentFailures failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 recent failure, got %d", n)
	}
}

func TestStore_CountRecentFailures_RespectsCutoff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	old := models.LoginRecord{
		LoginID:   "acme1",
		Success:   false,
		IP:        "127.0.0.1",
		CreatedAt: time.Now().Add(-2 * time.Hour).UTC(),
	}
	if err := store.Create(ctx, old); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	r := httptest.NewRequest("POST", "/login", nil)
	if err := store.RecordFailure(ctx, r, nil, "acme1"); err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}

	n, err := store.CountRecentFailures(ctx, "acme1", time.Now().Add(-15*time.Minute))
	if err != nil {
		t.Fatalf("CountRecentFailures failed: %v", err)
	}
	if n != 1 {
		t.Errorf("old failures must fall outside the window, got %d", n)
	}
}

package login_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/memberhub/memberhub/internal/app/features/login"
	credentialstore "github.com/memberhub/memberhub/internal/app/store/credentials"
	loginstore "github.com/memberhub/memberhub/internal/app/store/logins"
	memberstore "github.com/memberhub/memberhub/internal/app/store/members"
	"github.com/memberhub/memberhub/internal/app/system/auth"
	"github.com/memberhub/memberhub/internal/app/system/ratelimit"
	"github.com/memberhub/memberhub/internal/app/system/txn"
	"github.com/memberhub/memberhub/internal/testutil"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*login.Handler, *memberstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	if err := auth.InitSessionStore("0123456789abcdef0123456789abcdef", "", "", false, zap.NewNop()); err != nil {
		t.Fatalf("init session store: %v", err)
	}

	creds := credentialstore.New(db)
	members := memberstore.New(db, creds, &txn.Runner{Log: zap.NewNop()}, zap.NewNop())
	h := login.NewHandler(creds, members, loginstore.New(db), nil, nil, zap.NewNop())
	return h, members
}

func createApprovedAssociate(t *testing.T, members *memberstore.Store, loginID string) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	profile, err := members.CreateWithCredential(ctx, memberstore.CreateInput{
		OrgName:  "Org " + loginID,
		LoginID:  loginID,
		Secret:   "password123",
		OrgEmail: loginID + "@example.com",
	})
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if _, err := members.Approve(ctx, profile.ID); err != nil {
		t.Fatalf("approve member: %v", err)
	}
}

func postLogin(t *testing.T, h *login.Handler, loginID, secret string) *httptest.ResponseRecorder {
	t.Helper()
	r := testutil.NewJSONRequest(t, http.MethodPost, "/login", map[string]string{
		"login_id": loginID,
		"secret":   secret,
	})
	rec := httptest.NewRecorder()
	h.HandleLoginPost(rec, r)
	return rec
}

func TestLogin_Success(t *testing.T) {
	h, members := setup(t)
	createApprovedAssociate(t, members, "acme1")

	rec := postLogin(t, h, "acme1", "password123")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		LoginID string `json:"login_id"`
		Role    string `json:"role"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.LoginID != "acme1" || resp.Role != "associate" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie")
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	h, _ := setup(t)

	rec := postLogin(t, h, "nosuchuser", "password123")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestLogin_WrongSecret(t *testing.T) {
	h, members := setup(t)
	createApprovedAssociate(t, members, "acme1")

	rec := postLogin(t, h, "acme1", "not-the-password")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}

	// Wrong secret and unknown user must be indistinguishable.
	recUnknown := postLogin(t, h, "ghost", "whatever12")
	var a, b struct {
		Error string `json:"error"`
	}
	testutil.DecodeJSON(t, rec, &a)
	testutil.DecodeJSON(t, recUnknown, &b)
	if a.Error != b.Error {
		t.Errorf("messages differ: %q vs %q", a.Error, b.Error)
	}
}

func TestLogin_PendingAssociateDenied(t *testing.T) {
	h, members := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := members.CreateWithCredential(ctx, memberstore.CreateInput{
		OrgName:  "Pending Org",
		LoginID:  "pending1",
		Secret:   "password123",
		OrgEmail: "pending@example.com",
	}); err != nil {
		t.Fatalf("create member: %v", err)
	}

	rec := postLogin(t, h, "pending1", "password123")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for unapproved associate, got %d", rec.Code)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	h, _ := setup(t)

	rec := postLogin(t, h, "", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestLogin_RateLimited(t *testing.T) {
	h, members := setup(t)
	createApprovedAssociate(t, members, "acme1")
	h.Limiter = ratelimit.New(2, time.Minute)

	postLogin(t, h, "acme1", "wrong-password")
	postLogin(t, h, "acme1", "wrong-password")
	rec := postLogin(t, h, "acme1", "password123")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after exceeding the limit, got %d", rec.Code)
	}
}

package bootstrap

import (
	"testing"

	credentialstore "github.com/memberhub/memberhub/internal/app/store/credentials"
	"github.com/memberhub/memberhub/internal/domain/models"
	"github.com/memberhub/memberhub/internal/testutil"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureAdminCredential_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}

	if err := ensureAdminCredential(ctx, deps, "rootadmin", "correct horse battery", testLogger()); err != nil {
		t.Fatalf("ensureAdminCredential failed: %v", err)
	}

	creds := credentialstore.New(db)
	cred, err := creds.GetByLoginID(ctx, "rootadmin")
	if err != nil {
		t.Fatalf("failed to find created credential: %v", err)
	}
	if cred.Role != models.RoleAdmin {
		t.Errorf("expected role %q, got %q", models.RoleAdmin, cred.Role)
	}
	if !credentialstore.CheckSecret(cred.SecretHash, "correct horse battery") {
		t.Error("stored hash does not match configured secret")
	}
}

func TestEnsureAdminCredential_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creds := credentialstore.New(db)
	hash, err := credentialstore.HashSecret("original secret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if _, err := creds.Create(ctx, models.Credential{
		LoginID:    "rootadmin",
		SecretHash: hash,
		Role:       models.RoleMember,
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	deps := DBDeps{MongoDatabase: db}

	if err := ensureAdminCredential(ctx, deps, "rootadmin", "ignored secret", testLogger()); err != nil {
		t.Fatalf("ensureAdminCredential failed: %v", err)
	}

	cred, err := creds.GetByLoginID(ctx, "rootadmin")
	if err != nil {
		t.Fatalf("failed to find credential: %v", err)
	}
	if cred.Role != models.RoleAdmin {
		t.Errorf("expected promotion to admin, got %q", cred.Role)
	}
	if !credentialstore.CheckSecret(cred.SecretHash, "original secret") {
		t.Error("promotion must not change the stored secret")
	}
}

func TestEnsureAdminCredential_AlreadyAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creds := credentialstore.New(db)
	hash, err := credentialstore.HashSecret("original secret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if _, err := creds.Create(ctx, models.Credential{
		LoginID:    "rootadmin",
		SecretHash: hash,
		Role:       models.RoleAdmin,
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	deps := DBDeps{MongoDatabase: db}

	if err := ensureAdminCredential(ctx, deps, "rootadmin", "ignored secret", testLogger()); err != nil {
		t.Fatalf("ensureAdminCredential failed: %v", err)
	}

	cred, err := creds.GetByLoginID(ctx, "rootadmin")
	if err != nil {
		t.Fatalf("failed to find credential: %v", err)
	}
	if !credentialstore.CheckSecret(cred.SecretHash, "original secret") {
		t.Error("existing admin must be left untouched")
	}
}

package bootstrap

import (
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{CampusHubMongoDatabase: db}

	err := ensureAdmin(ctx, deps, "Admin@Campus.edu", "sup3r-secret", testLogger())
	if err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	// Email is normalized before lookup and insert.
	var user models.User
	err = db.Collection("users").FindOne(ctx, bson.M{"email": "admin@campus.edu"}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}

	if user.Role != models.RoleAdmin {
		t.Errorf("expected role %q, got %q", models.RoleAdmin, user.Role)
	}
	if !user.IsActive {
		t.Error("expected admin to be active")
	}
	if user.Student != nil || user.Club != nil {
		t.Error("expected admin to carry no student or club profile")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("sup3r-secret")); err != nil {
		t.Error("stored password hash does not verify against the configured password")
	}
}

func TestEnsureAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	student := f.CreateStudent(ctx, "Asha Pillai", "asha@campus.edu", "2023COMPS001", "COMPS", "TE", "btech")

	deps := DBDeps{CampusHubMongoDatabase: db}

	err := ensureAdmin(ctx, deps, "asha@campus.edu", "", testLogger())
	if err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	var user models.User
	err = db.Collection("users").FindOne(ctx, bson.M{"_id": student.ID}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}

	if user.Role != models.RoleAdmin {
		t.Errorf("expected role %q after promotion, got %q", models.RoleAdmin, user.Role)
	}
	if !user.IsActive {
		t.Error("expected promoted account to be active")
	}
}

func TestEnsureAdmin_AlreadyAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	admin := f.CreateAdmin(ctx, "Root Admin", "root@campus.edu")

	deps := DBDeps{CampusHubMongoDatabase: db}

	before := admin.UpdatedAt

	err := ensureAdmin(ctx, deps, "root@campus.edu", "ignored-password", testLogger())
	if err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	var user models.User
	err = db.Collection("users").FindOne(ctx, bson.M{"_id": admin.ID}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}

	if user.Role != models.RoleAdmin {
		t.Errorf("expected role %q, got %q", models.RoleAdmin, user.Role)
	}
	// Untouched account: no update write should have happened.
	if user.UpdatedAt.Truncate(time.Millisecond).After(before.Add(time.Second)) {
		t.Error("expected existing admin account to be left unchanged")
	}
}

func TestEnsureAdmin_MissingPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{CampusHubMongoDatabase: db}

	// Account does not exist and there is no password to create it with.
	err := ensureAdmin(ctx, deps, "nobody@campus.edu", "", testLogger())
	if err == nil {
		t.Fatal("expected error when admin account is missing and no password is configured")
	}
}

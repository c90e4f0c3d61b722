package auditlog

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestParseMode(t *testing.T) {
	cases := map[string]string{
		"all": ModeAll, "db": ModeDB, "log": ModeLog, "off": ModeOff,
		"": ModeAll, "bogus": ModeAll,
	}
	for in, want := range cases {
		if got := ParseMode(in); got != want {
			t.Errorf("ParseMode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRecorder_NilIsNoOp(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var rec *Recorder
	rec.Record(ctx, Event{Action: "login_failure"}) // must not panic
}

func TestRecorder_WritesToDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := New(db, ModeDB, zap.NewNop())
	r := httptest.NewRequest("POST", "/auth/login", nil)
	r.RemoteAddr = "203.0.113.9:4000"

	actor := primitive.NewObjectID()
	rec.LoginSuccess(ctx, r, actor, "student@campus.edu")
	rec.LoginFailure(ctx, r, "student@campus.edu", "invalid credentials")

	var ev Event
	err := db.Collection("audit_log").FindOne(ctx, bson.M{"action": "login_success"}).Decode(&ev)
	if err != nil {
		t.Fatalf("failed to find login_success event: %v", err)
	}
	if ev.ActorID == nil || *ev.ActorID != actor {
		t.Error("expected actor id on login_success event")
	}
	if ev.IP != "203.0.113.9" {
		t.Errorf("expected client IP recorded, got %q", ev.IP)
	}
	if ev.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	err = db.Collection("audit_log").FindOne(ctx, bson.M{"action": "login_failure"}).Decode(&ev)
	if err != nil {
		t.Fatalf("failed to find login_failure event: %v", err)
	}
	if ev.Success {
		t.Error("login_failure must not be marked successful")
	}
	if ev.Reason == "" {
		t.Error("expected failure reason recorded")
	}
}

func TestRecorder_OffWritesNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := New(db, ModeOff, zap.NewNop())
	r := httptest.NewRequest("POST", "/auth/login", nil)
	rec.LoginFailure(ctx, r, "student@campus.edu", "invalid credentials")

	n, err := db.Collection("audit_log").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no events in off mode, found %d", n)
	}
}

package txn_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/campushub/internal/app/system/txn"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsNotSupported(t *testing.T) {
	supported := []error{
		nil,
		errors.New("connection reset by peer"),
		mongo.CommandError{Code: 11000, Message: "duplicate key"},
		errors.New("transaction aborted"), // transaction alone is not enough
	}
	for _, err := range supported {
		if txn.IsNotSupported(err) {
			t.Errorf("IsNotSupported(%v) = true, want false", err)
		}
	}

	unsupported := []error{
		mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"},
		mongo.CommandError{Code: 51, Message: "Illegal operation"},
		mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"},
		errors.New("Transaction failed: this is not a REPLICA SET member"),
		errors.New("cannot start transaction in current session state"),
		errors.New("illegal operation during transaction"),
		errors.New("session operations are not supported on this server"),
	}
	for _, err := range unsupported {
		if !txn.IsNotSupported(err) {
			t.Errorf("IsNotSupported(%v) = false, want true", err)
		}
	}
}

func TestWithTransaction_RunsCallback(t *testing.T) {
	// Works against both replica sets and standalone servers; on a
	// standalone the fallback path runs the callback without a session.
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	coll := db.Collection("txn_probe")
	err := txn.WithTransaction(ctx, db.Client(), nil, func(ctx context.Context) error {
		_, err := coll.InsertOne(ctx, bson.M{"k": "v"})
		return err
	})
	if err != nil {
		t.Fatalf("WithTransaction failed: %v", err)
	}

	n, err := coll.CountDocuments(ctx, bson.M{"k": "v"})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("documents: got %d, want 1", n)
	}
}

func TestWithTransaction_PropagatesCallbackError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	want := errors.New("write rejected")
	err := txn.WithTransaction(ctx, db.Client(), nil, func(ctx context.Context) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("expected callback error back, got %v", err)
	}
}

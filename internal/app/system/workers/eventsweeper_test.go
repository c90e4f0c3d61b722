package workers

import (
	"testing"
	"time"

	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestEventSweeper_DeactivatesPastEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	ev := f.CreateEvent(ctx, "Orientation", primitive.NewObjectID())
	_, err := db.Collection("events").UpdateOne(ctx,
		bson.M{"_id": ev.ID},
		bson.M{"$set": bson.M{"date": time.Now().UTC().Add(-72 * time.Hour)}})
	if err != nil {
		t.Fatalf("failed to backdate event: %v", err)
	}

	store := eventstore.New(db)
	sweeper := NewEventSweeper(store, zap.NewNop(), 10*time.Millisecond, 24*time.Hour)
	sweeper.Start()
	defer sweeper.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, err := store.GetByID(ctx, ev.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if !got.IsActive {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("sweeper did not deactivate the past event in time")
}

func TestEventSweeper_StopWaitsForLoop(t *testing.T) {
	db := testutil.SetupTestDB(t)

	sweeper := NewEventSweeper(eventstore.New(db), zap.NewNop(), time.Hour, 24*time.Hour)
	sweeper.Start()

	done := make(chan struct{})
	go func() {
		sweeper.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

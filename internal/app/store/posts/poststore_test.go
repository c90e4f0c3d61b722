package poststore_test

import (
	"testing"

	poststore "github.com/dalemusser/campushub/internal/app/store/posts"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	post, err := store.Create(ctx, poststore.CreateInput{
		Title:    "  Exam schedule out  ",
		Content:  "Check the notice board.",
		Author:   primitive.NewObjectID(),
		Category: "academics",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if post.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if post.Title != "Exam schedule out" {
		t.Errorf("title not trimmed: got %q", post.Title)
	}
	if post.Upvotes == nil || post.Downvotes == nil {
		t.Error("expected vote sets to be initialized")
	}
	if post.CommentCount != 0 {
		t.Errorf("comment count: got %d, want 0", post.CommentCount)
	}

	if _, err := store.Create(ctx, poststore.CreateInput{
		Title:    "Bad",
		Author:   primitive.NewObjectID(),
		Category: "not-a-category",
	}); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestStore_List_PinnedFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := primitive.NewObjectID()
	fixtures.CreatePost(ctx, "Older Post", author)
	pinned := fixtures.CreatePost(ctx, "Pinned Post", author)
	fixtures.CreatePost(ctx, "Newest Post", author)

	isPinned := true
	if err := store.Update(ctx, pinned.ID, poststore.UpdateInput{IsPinned: &isPinned}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	posts, total, err := store.List(ctx, poststore.ListFilter{}, 0, 20)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 3 || len(posts) != 3 {
		t.Fatalf("expected 3 posts, got total=%d len=%d", total, len(posts))
	}
	if posts[0].ID != pinned.ID {
		t.Errorf("expected pinned post first, got %q", posts[0].Title)
	}
}

func TestStore_ApplyVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	post := fixtures.CreatePost(ctx, "Vote Post", primitive.NewObjectID())
	voter := primitive.NewObjectID()

	counts, err := store.ApplyVote(ctx, post.ID, voter, poststore.VoteUp)
	if err != nil {
		t.Fatalf("ApplyVote up failed: %v", err)
	}
	if counts.Upvotes != 1 || counts.Downvotes != 0 || counts.Score != 1 {
		t.Errorf("after upvote: got %+v", counts)
	}

	// Voting the same direction again is a no-op.
	counts, err = store.ApplyVote(ctx, post.ID, voter, poststore.VoteUp)
	if err != nil {
		t.Fatalf("repeat ApplyVote failed: %v", err)
	}
	if counts.Upvotes != 1 || counts.Downvotes != 0 {
		t.Errorf("after repeat upvote: got %+v", counts)
	}

	// Switching sides moves the vote, never duplicates it.
	counts, err = store.ApplyVote(ctx, post.ID, voter, poststore.VoteDown)
	if err != nil {
		t.Fatalf("ApplyVote down failed: %v", err)
	}
	if counts.Upvotes != 0 || counts.Downvotes != 1 || counts.Score != -1 {
		t.Errorf("after switching to downvote: got %+v", counts)
	}

	got, err := store.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Upvotes) != 0 || len(got.Downvotes) != 1 {
		t.Errorf("stored vote sets: up=%v down=%v", got.Upvotes, got.Downvotes)
	}
}

func TestStore_ApplyVote_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	post := fixtures.CreatePost(ctx, "Vote Post", primitive.NewObjectID())

	if _, err := store.ApplyVote(ctx, post.ID, primitive.NewObjectID(), "sideways"); err == nil {
		t.Error("expected error for unknown vote direction")
	}
	if _, err := store.ApplyVote(ctx, primitive.NewObjectID(), primitive.NewObjectID(), poststore.VoteUp); err != poststore.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_RemoveVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	post := fixtures.CreatePost(ctx, "Unvote Post", primitive.NewObjectID())
	voter := primitive.NewObjectID()

	if _, err := store.ApplyVote(ctx, post.ID, voter, poststore.VoteDown); err != nil {
		t.Fatalf("ApplyVote failed: %v", err)
	}

	counts, err := store.RemoveVote(ctx, post.ID, voter)
	if err != nil {
		t.Fatalf("RemoveVote failed: %v", err)
	}
	if counts.Upvotes != 0 || counts.Downvotes != 0 || counts.Score != 0 {
		t.Errorf("after remove: got %+v", counts)
	}

	// Removing an absent vote is a no-op.
	counts, err = store.RemoveVote(ctx, post.ID, voter)
	if err != nil {
		t.Fatalf("idempotent RemoveVote failed: %v", err)
	}
	if counts.Upvotes != 0 || counts.Downvotes != 0 {
		t.Errorf("after second remove: got %+v", counts)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	post := fixtures.CreatePost(ctx, "Doomed Post", primitive.NewObjectID())

	deleted, err := store.Delete(ctx, post.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted count: got %d, want 1", deleted)
	}
	if _, err := store.GetByID(ctx, post.ID); err != poststore.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

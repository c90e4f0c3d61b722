package comments_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/campushub/internal/app/features/comments"
	commentstore "github.com/dalemusser/campushub/internal/app/store/comments"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*comments.Handler, *commentstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := commentstore.New(db, zap.NewNop())
	return comments.NewHandler(store, zap.NewNop()), store, testutil.NewFixtures(t, db)
}

func TestServeDelete(t *testing.T) {
	h, store, fixtures := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateStudent(ctx, "Author", "author@example.edu", "2023COMPS001", "COMPS", "SE", "btech")
	post := fixtures.CreatePost(ctx, "Discussion", author.ID)
	comment := fixtures.CreateComment(ctx, post.ID, author.ID, "delete me")

	// A stranger cannot delete.
	req := testutil.NewAuthenticatedRequest("DELETE", "/comments/"+comment.ID.Hex(), testutil.StudentUser())
	req = testutil.WithChiURLParam(req, "commentID", comment.ID.Hex())
	rec := testutil.NewRecorder()

	h.ServeDelete(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusForbidden)

	// The author can.
	req = testutil.NewAuthenticatedRequest("DELETE", "/comments/"+comment.ID.Hex(),
		testutil.AsUser(author.ID, author.Name, author.Email, author.Role))
	req = testutil.WithChiURLParam(req, "commentID", comment.ID.Hex())
	rec = testutil.NewRecorder()

	h.ServeDelete(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	got, err := store.GetByID(ctx, comment.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.IsDeleted {
		t.Error("expected comment to be soft-deleted")
	}
}

func TestServeDelete_AdminOverride(t *testing.T) {
	h, store, fixtures := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateStudent(ctx, "Author", "author@example.edu", "2023COMPS001", "COMPS", "SE", "btech")
	post := fixtures.CreatePost(ctx, "Discussion", author.ID)
	comment := fixtures.CreateComment(ctx, post.ID, author.ID, "moderated away")

	req := testutil.NewAuthenticatedRequest("DELETE", "/comments/"+comment.ID.Hex(), testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "commentID", comment.ID.Hex())
	rec := testutil.NewRecorder()

	h.ServeDelete(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	got, err := store.GetByID(ctx, comment.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.IsDeleted {
		t.Error("expected comment to be soft-deleted")
	}
}

func TestServeDelete_NotFound(t *testing.T) {
	h, _, _ := newHandler(t)

	req := testutil.NewAuthenticatedRequest("DELETE", "/comments/ffffffffffffffffffffffff", testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "commentID", "ffffffffffffffffffffffff")
	rec := testutil.NewRecorder()

	h.ServeDelete(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestServeVote(t *testing.T) {
	h, _, fixtures := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateStudent(ctx, "Author", "author@example.edu", "2023COMPS001", "COMPS", "SE", "btech")
	post := fixtures.CreatePost(ctx, "Discussion", author.ID)
	comment := fixtures.CreateComment(ctx, post.ID, author.ID, "vote on me")
	voter := testutil.StudentUser()

	req := testutil.NewJSONRequest("POST", "/comments/"+comment.ID.Hex()+"/vote", strings.NewReader(`{"vote_type":"upvote"}`))
	req = testutil.WithUser(req, voter)
	req = testutil.WithChiURLParam(req, "commentID", comment.ID.Hex())
	rec := testutil.NewRecorder()

	h.ServeVote(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"upvotes":1`)

	req = testutil.NewAuthenticatedRequest("DELETE", "/comments/"+comment.ID.Hex()+"/vote", voter)
	req = testutil.WithChiURLParam(req, "commentID", comment.ID.Hex())
	rec = testutil.NewRecorder()

	h.ServeUnvote(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"upvotes":0`)
}

// internal/app/features/comments/handler.go
package comments

import (
	"context"
	"net/http"

	commentstore "github.com/dalemusser/campushub/internal/app/store/comments"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/webapi"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler owns the endpoints addressing a comment directly: deletion and
// voting. Creation and listing live under the post routes.
type Handler struct {
	Comments *commentstore.Store
	Log      *zap.Logger
}

// NewHandler creates a new comments Handler.
func NewHandler(comments *commentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Comments: comments,
		Log:      logger,
	}
}

// ServeDelete handles DELETE /comments/{commentID}. Author or admin
// only. The comment is soft-deleted so its replies keep a valid parent.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	commentID, ok := h.commentID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	comment, err := h.Comments.GetByID(ctx, commentID)
	if err == commentstore.ErrNotFound {
		webapi.NotFound(w, "Comment not found")
		return
	}
	if err != nil {
		webapi.ServerError(w, h.Log, "comments: delete lookup failed", err)
		return
	}
	if !authz.IsOwnerOrAdmin(r, comment.Author) {
		webapi.Forbidden(w, "Only the author can delete this comment")
		return
	}

	if err := h.Comments.SoftDelete(ctx, commentID); err != nil {
		webapi.ServerError(w, h.Log, "comments: delete failed", err)
		return
	}

	h.Log.Info("comment deleted", zap.String("comment_id", commentID.Hex()))
	webapi.OK(w, map[string]any{"message": "Comment deleted"})
}

// voteRequest is the POST /comments/{commentID}/vote payload.
type voteRequest struct {
	VoteType string `json:"vote_type"` // upvote | downvote
}

// ServeVote handles POST /comments/{commentID}/vote.
func (h *Handler) ServeVote(w http.ResponseWriter, r *http.Request) {
	_, _, accountID, ok := authz.UserCtx(r)
	if !ok {
		webapi.Forbidden(w, "Sign in required")
		return
	}
	commentID, ok := h.commentID(w, r)
	if !ok {
		return
	}

	var req voteRequest
	if !webapi.Decode(w, r, &req) {
		return
	}
	var direction string
	switch req.VoteType {
	case "upvote":
		direction = commentstore.VoteUp
	case "downvote":
		direction = commentstore.VoteDown
	default:
		webapi.BadRequest(w, "vote_type must be upvote or downvote")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	up, down, err := h.Comments.ApplyVote(ctx, commentID, accountID, direction)
	if err == commentstore.ErrNotFound {
		webapi.NotFound(w, "Comment not found")
		return
	}
	if err != nil {
		webapi.ServerError(w, h.Log, "comments: vote failed", err)
		return
	}
	webapi.OK(w, map[string]any{
		"votes": map[string]int{"upvotes": up, "downvotes": down, "score": up - down},
	})
}

// ServeUnvote handles DELETE /comments/{commentID}/vote.
func (h *Handler) ServeUnvote(w http.ResponseWriter, r *http.Request) {
	_, _, accountID, ok := authz.UserCtx(r)
	if !ok {
		webapi.Forbidden(w, "Sign in required")
		return
	}
	commentID, ok := h.commentID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	up, down, err := h.Comments.RemoveVote(ctx, commentID, accountID)
	if err == commentstore.ErrNotFound {
		webapi.NotFound(w, "Comment not found")
		return
	}
	if err != nil {
		webapi.ServerError(w, h.Log, "comments: unvote failed", err)
		return
	}
	webapi.OK(w, map[string]any{
		"votes": map[string]int{"upvotes": up, "downvotes": down, "score": up - down},
	})
}

func (h *Handler) commentID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "commentID"))
	if err != nil {
		webapi.BadRequest(w, "Invalid comment ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

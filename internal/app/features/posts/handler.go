// internal/app/features/posts/handler.go
package posts

import (
	"context"
	"net/http"
	"strings"

	commentstore "github.com/dalemusser/campushub/internal/app/store/comments"
	poststore "github.com/dalemusser/campushub/internal/app/store/posts"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/paging"
	"github.com/dalemusser/campushub/internal/app/system/sanitize"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/webapi"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler owns the forum post endpoints: browsing, author CRUD, voting,
// and the comment surface under each post.
type Handler struct {
	Posts    *poststore.Store
	Comments *commentstore.Store
	Log      *zap.Logger
}

// NewHandler creates a new posts Handler.
func NewHandler(posts *poststore.Store, comments *commentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Posts:    posts,
		Comments: comments,
		Log:      logger,
	}
}

// ServeList handles GET /posts.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page := paging.Parse(r)
	filter := poststore.ListFilter{
		Category: query.Get(r, "category"),
		Search:   query.Get(r, "search"),
	}
	if author := query.Get(r, "author"); author != "" {
		id, err := primitive.ObjectIDFromHex(author)
		if err != nil {
			webapi.BadRequest(w, "Invalid author ID")
			return
		}
		filter.Author = &id
	}

	posts, total, err := h.Posts.List(ctx, filter, page.Skip(), int64(page.Limit))
	if err != nil {
		webapi.ServerError(w, h.Log, "posts: list failed", err)
		return
	}

	webapi.OK(w, map[string]any{
		"posts": posts,
		"pagination": map[string]any{
			"page":  page.Number,
			"limit": page.Limit,
			"total": total,
			"pages": page.Pages(total),
		},
	})
}

// createRequest is the POST /posts payload.
type createRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`
}

// ServeCreate handles POST /posts.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	_, _, authorID, ok := authz.UserCtx(r)
	if !ok {
		webapi.Forbidden(w, "Sign in required")
		return
	}

	var req createRequest
	if !webapi.Decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		webapi.BadRequest(w, "Title and content are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	post, err := h.Posts.Create(ctx, poststore.CreateInput{
		Title:    req.Title,
		Content:  sanitize.Content(req.Content),
		Author:   authorID,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		webapi.BadRequest(w, err.Error())
		return
	}

	h.Log.Info("post created",
		zap.String("post_id", post.ID.Hex()),
		zap.String("author", authorID.Hex()))
	webapi.Created(w, map[string]any{"post": post})
}

// ServeDetail handles GET /posts/{postID}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	post, err := h.Posts.GetByID(ctx, postID)
	if err == poststore.ErrNotFound {
		webapi.NotFound(w, "Post not found")
		return
	}
	if err != nil {
		webapi.ServerError(w, h.Log, "posts: detail failed", err)
		return
	}

	if err := h.Posts.IncViewCount(ctx, postID); err != nil {
		h.Log.Warn("posts: view count bump failed", zap.Error(err))
	}

	webapi.OK(w, map[string]any{
		"post":  post,
		"score": post.VoteScore(),
	})
}

// updateRequest is the PUT /posts/{postID} payload.
type updateRequest struct {
	Title    *string  `json:"title,omitempty"`
	Content  *string  `json:"content,omitempty"`
	Category *string  `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	IsPinned *bool    `json:"is_pinned,omitempty"`
	IsLocked *bool    `json:"is_locked,omitempty"`
}

// ServeUpdate handles PUT /posts/{postID}. Author or admin only; pin and
// lock toggles are admin only.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if !webapi.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	post, err := h.Posts.GetByID(ctx, postID)
	if err == poststore.ErrNotFound {
		webapi.NotFound(w, "Post not found")
		return
	}
	if err != nil {
		webapi.ServerError(w, h.Log, "posts: update lookup failed", err)
		return
	}
	if !authz.IsOwnerOrAdmin(r, post.Author) {
		webapi.Forbidden(w, "Only the author can modify this post")
		return
	}
	if (req.IsPinned != nil || req.IsLocked != nil) && !authz.IsAdmin(r) {
		webapi.Forbidden(w, "Only admins can pin or lock posts")
		return
	}
	if post.IsLocked && !authz.IsAdmin(r) {
		webapi.Forbidden(w, "Post is locked")
		return
	}

	upd := poststore.UpdateInput{
		Title:    req.Title,
		Category: req.Category,
		Tags:     req.Tags,
		IsPinned: req.IsPinned,
		IsLocked: req.IsLocked,
	}
	if req.Content != nil {
		clean := sanitize.Content(*req.Content)
		upd.Content = &clean
	}

	if err := h.Posts.Update(ctx, postID, upd); err != nil {
		if err == poststore.ErrNotFound {
			webapi.NotFound(w, "Post not found")
			return
		}
		webapi.BadRequest(w, err.Error())
		return
	}

	updated, err := h.Posts.GetByID(ctx, postID)
	if err != nil {
		webapi.ServerError(w, h.Log, "posts: update reload failed", err)
		return
	}
	webapi.OK(w, map[string]any{"post": updated})
}

// ServeDelete handles DELETE /posts/{postID}. Author or admin only; the
// post's comments are removed with it.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	post, err := h.Posts.GetByID(ctx, postID)
	if err == poststore.ErrNotFound {
		webapi.NotFound(w, "Post not found")
		return
	}
	if err != nil {
		webapi.ServerError(w, h.Log, "posts: delete lookup failed", err)
		return
	}
	if !authz.IsOwnerOrAdmin(r, post.Author) {
		webapi.Forbidden(w, "Only the author can delete this post")
		return
	}

	if _, err := h.Posts.Delete(ctx, postID); err != nil {
		webapi.ServerError(w, h.Log, "posts: delete failed", err)
		return
	}
	if _, err := h.Comments.DeleteByPost(ctx, postID); err != nil {
		h.Log.Warn("posts: comment purge failed",
			zap.String("post_id", postID.Hex()), zap.Error(err))
	}

	h.Log.Info("post deleted", zap.String("post_id", postID.Hex()))
	webapi.OK(w, map[string]any{"message": "Post deleted"})
}

// voteRequest is the POST /posts/{postID}/vote payload.
type voteRequest struct {
	VoteType string `json:"vote_type"` // upvote | downvote
}

// ServeVote handles POST /posts/{postID}/vote.
func (h *Handler) ServeVote(w http.ResponseWriter, r *http.Request) {
	_, _, accountID, ok := authz.UserCtx(r)
	if !ok {
		webapi.Forbidden(w, "Sign in required")
		return
	}
	postID, ok := h.postID(w, r)
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
		direction = poststore.VoteUp
	case "downvote":
		direction = poststore.VoteDown
	default:
		webapi.BadRequest(w, "vote_type must be upvote or downvote")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	counts, err := h.Posts.ApplyVote(ctx, postID, accountID, direction)
	if err == poststore.ErrNotFound {
		webapi.NotFound(w, "Post not found")
		return
	}
	if err != nil {
		webapi.ServerError(w, h.Log, "posts: vote failed", err)
		return
	}
	webapi.OK(w, map[string]any{"votes": counts})
}

// ServeUnvote handles DELETE /posts/{postID}/vote.
func (h *Handler) ServeUnvote(w http.ResponseWriter, r *http.Request) {
	_, _, accountID, ok := authz.UserCtx(r)
	if !ok {
		webapi.Forbidden(w, "Sign in required")
		return
	}
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	counts, err := h.Posts.RemoveVote(ctx, postID, accountID)
	if err == poststore.ErrNotFound {
		webapi.NotFound(w, "Post not found")
		return
	}
	if err != nil {
		webapi.ServerError(w, h.Log, "posts: unvote failed", err)
		return
	}
	webapi.OK(w, map[string]any{"votes": counts})
}

// ServeComments handles GET /posts/{postID}/comments.
func (h *Handler) ServeComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Posts.GetByID(ctx, postID); err != nil {
		if err == poststore.ErrNotFound {
			webapi.NotFound(w, "Post not found")
			return
		}
		webapi.ServerError(w, h.Log, "posts: comment lookup failed", err)
		return
	}

	threads, err := h.Comments.ListForPost(ctx, postID)
	if err != nil {
		webapi.ServerError(w, h.Log, "posts: comments failed", err)
		return
	}
	webapi.OK(w, map[string]any{"comments": threads})
}

// commentRequest is the POST /posts/{postID}/comments payload. A
// parent_comment makes the new comment a reply.
type commentRequest struct {
	Content       string `json:"content"`
	ParentComment string `json:"parent_comment,omitempty"`
}

// ServeCreateComment handles POST /posts/{postID}/comments.
func (h *Handler) ServeCreateComment(w http.ResponseWriter, r *http.Request) {
	_, _, authorID, ok := authz.UserCtx(r)
	if !ok {
		webapi.Forbidden(w, "Sign in required")
		return
	}
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if !webapi.Decode(w, r, &req) {
		return
	}
	content := strings.TrimSpace(sanitize.Strict(req.Content))
	if content == "" {
		webapi.BadRequest(w, "Comment content is required")
		return
	}

	in := commentstore.CreateInput{
		PostID:  postID,
		Author:  authorID,
		Content: content,
	}
	if req.ParentComment != "" {
		parentID, err := primitive.ObjectIDFromHex(req.ParentComment)
		if err != nil {
			webapi.BadRequest(w, "Invalid parent comment ID")
			return
		}
		in.ParentComment = &parentID
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	comment, err := h.Comments.Create(ctx, in)
	switch err {
	case nil:
	case commentstore.ErrPostNotFound:
		webapi.NotFound(w, "Post not found")
		return
	case commentstore.ErrParentNotFound:
		webapi.NotFound(w, "Parent comment not found")
		return
	case commentstore.ErrParentMismatch:
		webapi.BadRequest(w, "Parent comment belongs to a different post")
		return
	case commentstore.ErrPostLocked:
		webapi.Forbidden(w, "Post is locked")
		return
	default:
		webapi.ServerError(w, h.Log, "posts: comment create failed", err)
		return
	}

	webapi.Created(w, map[string]any{"comment": comment})
}

func (h *Handler) postID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "postID"))
	if err != nil {
		webapi.BadRequest(w, "Invalid post ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

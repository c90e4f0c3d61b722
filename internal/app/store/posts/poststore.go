package poststore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/search"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

var (
	// ErrNotFound is returned when a post does not exist.
	ErrNotFound = errors.New("post not found")
	// ErrLocked is returned when mutating a locked post.
	ErrLocked = errors.New("post is locked")

	errBadCategory = errors.New("unknown post category")
	errBadVote     = errors.New("vote must be up or down")
)

var validCategories = map[string]bool{
	"general": true, "academics": true, "events": true, "clubs": true,
	"placements": true, "hostel": true, "sports": true, "lost-found": true,
	"announcements": true, "other": true,
}

// Vote directions accepted by ApplyVote.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// CreateInput holds the fields supplied when creating a post.
// Content is expected to be sanitized by the caller.
type CreateInput struct {
	Title    string
	Content  string
	Author   primitive.ObjectID
	Category string
	Tags     []string
}

// Create inserts a new post with empty vote sets and a zero comment count.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Post, error) {
	if !validCategories[in.Category] {
		return models.Post{}, errBadCategory
	}

	now := time.Now().UTC()
	post := models.Post{
		ID:        primitive.NewObjectID(),
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Author:    in.Author,
		Category:  in.Category,
		Tags:      in.Tags,
		Upvotes:   []primitive.ObjectID{},
		Downvotes: []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if _, err := s.c.InsertOne(ctx, post); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// GetByID loads a post. Returns ErrNotFound if it does not exist.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// IncViewCount bumps the post's view counter.
func (s *Store) IncViewCount(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"view_count": 1}})
	return err
}

// ListFilter narrows the post list.
type ListFilter struct {
	Category string // empty or "all" = any
	Author   *primitive.ObjectID
	Search   string // matches title, content, or tags
}

// List returns posts matching the filter, pinned first then newest, with
// the total match count for pagination.
func (s *Store) List(ctx context.Context, f ListFilter, skip, limit int64) ([]models.Post, int64, error) {
	query := bson.M{}
	if f.Category != "" && f.Category != "all" {
		query["category"] = f.Category
	}
	if f.Author != nil {
		query["author"] = *f.Author
	}
	if f.Search != "" {
		query["$or"] = search.AnyField(f.Search, "title", "content", "tags")
	}

	total, err := s.c.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "is_pinned", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	posts := []models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// UpdateInput holds the optional fields an author may change.
type UpdateInput struct {
	Title    *string
	Content  *string
	Category *string
	Tags     []string
	IsPinned *bool
	IsLocked *bool
}

// Update applies the set fields. Ownership and lock state are checked by
// the caller; pin and lock toggles are admin-only at the handler layer.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd UpdateInput) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = strings.TrimSpace(*upd.Title)
	}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	if upd.Category != nil {
		if !validCategories[*upd.Category] {
			return errBadCategory
		}
		set["category"] = *upd.Category
	}
	if upd.Tags != nil {
		set["tags"] = upd.Tags
	}
	if upd.IsPinned != nil {
		set["is_pinned"] = *upd.IsPinned
	}
	if upd.IsLocked != nil {
		set["is_locked"] = *upd.IsLocked
	}

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a post. The caller is responsible for removing the
// post's comments alongside it.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// VoteCounts is the post's vote state after a vote operation.
type VoteCounts struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
	Score     int `json:"score"`
}

// ApplyVote records an up or down vote by the account.
//
// The two vote sets are mutually exclusive. A single update adds the
// account to the chosen set and pulls it from the opposite one, so
// switching sides can never leave the account in both sets, and voting
// the same direction twice is a no-op ($addToSet). Touching different
// fields keeps the two operators out of conflict.
func (s *Store) ApplyVote(ctx context.Context, postID, accountID primitive.ObjectID, direction string) (VoteCounts, error) {
	var chosen, opposite string
	switch direction {
	case VoteUp:
		chosen, opposite = "upvotes", "downvotes"
	case VoteDown:
		chosen, opposite = "downvotes", "upvotes"
	default:
		return VoteCounts{}, errBadVote
	}

	update := bson.M{
		"$addToSet": bson.M{chosen: accountID},
		"$pull":     bson.M{opposite: accountID},
	}

	var updated models.Post
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return VoteCounts{}, ErrNotFound
	}
	if err != nil {
		return VoteCounts{}, err
	}
	return countsOf(&updated), nil
}

// RemoveVote clears the account's vote in either direction. Idempotent.
func (s *Store) RemoveVote(ctx context.Context, postID, accountID primitive.ObjectID) (VoteCounts, error) {
	update := bson.M{
		"$pull": bson.M{"upvotes": accountID, "downvotes": accountID},
	}

	var updated models.Post
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return VoteCounts{}, ErrNotFound
	}
	if err != nil {
		return VoteCounts{}, err
	}
	return countsOf(&updated), nil
}

func countsOf(p *models.Post) VoteCounts {
	return VoteCounts{
		Upvotes:   len(p.Upvotes),
		Downvotes: len(p.Downvotes),
		Score:     p.VoteScore(),
	}
}


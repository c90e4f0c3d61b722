package commentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/txn"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Store manages forum comments and owns the denormalized comment_count
// on posts: every live-count change here is paired with the matching
// counter update inside one transaction.
type Store struct {
	db    *mongo.Database
	c     *mongo.Collection
	posts *mongo.Collection
	log   *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{
		db:    db,
		c:     db.Collection("comments"),
		posts: db.Collection("posts"),
		log:   log,
	}
}

var (
	// ErrNotFound is returned when a comment does not exist.
	ErrNotFound = errors.New("comment not found")
	// ErrPostNotFound is returned when the target post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrPostLocked is returned when commenting on a locked post.
	ErrPostLocked = errors.New("post is locked")
	// ErrParentNotFound is returned when replying to a missing or deleted comment.
	ErrParentNotFound = errors.New("parent comment not found")
	// ErrParentMismatch is returned when the parent belongs to a different post.
	ErrParentMismatch = errors.New("parent comment belongs to a different post")

	errBadVote = errors.New("vote must be up or down")
)

// Vote directions accepted by ApplyVote.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// CreateInput holds the fields supplied when creating a comment.
// A nil ParentComment creates a top-level comment; otherwise a reply.
type CreateInput struct {
	PostID        primitive.ObjectID
	Author        primitive.ObjectID
	Content       string
	ParentComment *primitive.ObjectID
}

// Create inserts a comment and bumps the post's comment counter. For a
// reply, the parent must be a live comment on the same post, and the new
// comment's ID is appended to the parent's reply list. The insert,
// parent link, and counter bump commit together.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Comment, error) {
	var post models.Post
	if err := s.posts.FindOne(ctx, bson.M{"_id": in.PostID}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Comment{}, ErrPostNotFound
		}
		return models.Comment{}, err
	}
	if post.IsLocked {
		return models.Comment{}, ErrPostLocked
	}

	if in.ParentComment != nil {
		var parent models.Comment
		err := s.c.FindOne(ctx, bson.M{"_id": *in.ParentComment, "is_deleted": false}).Decode(&parent)
		if err == mongo.ErrNoDocuments {
			return models.Comment{}, ErrParentNotFound
		}
		if err != nil {
			return models.Comment{}, err
		}
		if parent.PostID != in.PostID {
			return models.Comment{}, ErrParentMismatch
		}
	}

	now := time.Now().UTC()
	comment := models.Comment{
		ID:            primitive.NewObjectID(),
		PostID:        in.PostID,
		Author:        in.Author,
		Content:       in.Content,
		ParentComment: in.ParentComment,
		Upvotes:       []primitive.ObjectID{},
		Downvotes:     []primitive.ObjectID{},
		Replies:       []primitive.ObjectID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := txn.WithTransaction(ctx, s.db.Client(), s.log, func(ctx context.Context) error {
		if _, err := s.c.InsertOne(ctx, comment); err != nil {
			return err
		}
		if in.ParentComment != nil {
			if _, err := s.c.UpdateByID(ctx, *in.ParentComment,
				bson.M{"$push": bson.M{"replies": comment.ID}}); err != nil {
				return err
			}
		}
		_, err := s.posts.UpdateByID(ctx, in.PostID,
			bson.M{"$inc": bson.M{"comment_count": 1}, "$set": bson.M{"updated_at": now}})
		return err
	})
	if err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// GetByID loads a comment, deleted or not.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// SoftDelete marks the comment deleted and decrements the post's comment
// counter. The comment document survives so replies keep a valid parent.
// The update is guarded on is_deleted=false, so repeating the call is a
// no-op and the counter moves exactly once per comment.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	comment, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.IsDeleted {
		return nil
	}

	return txn.WithTransaction(ctx, s.db.Client(), s.log, func(ctx context.Context) error {
		res, err := s.c.UpdateOne(ctx,
			bson.M{"_id": id, "is_deleted": false},
			bson.M{"$set": bson.M{
				"is_deleted": true,
				"content":    "[deleted]",
				"updated_at": time.Now().UTC(),
			}})
		if err != nil {
			return err
		}
		if res.ModifiedCount == 0 {
			// Lost a race with another delete; the counter was already
			// decremented by the winner.
			return nil
		}
		_, err = s.posts.UpdateByID(ctx, comment.PostID,
			bson.M{"$inc": bson.M{"comment_count": -1}})
		return err
	})
}

// Thread is a top-level comment with its live replies, one level deep.
type Thread struct {
	Comment models.Comment   `json:"comment"`
	Replies []models.Comment `json:"replies"`
}

// ListForPost returns the post's live top-level comments newest first,
// each carrying its live replies in posting order. Deleted comments and
// deleted replies are filtered out.
func (s *Store) ListForPost(ctx context.Context, postID primitive.ObjectID) ([]Thread, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"post":           postID,
		"parent_comment": nil,
		"is_deleted":     false,
	}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	threads := []Thread{}
	parentIdx := map[primitive.ObjectID]int{}
	for cur.Next(ctx) {
		var c models.Comment
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		parentIdx[c.ID] = len(threads)
		threads = append(threads, Thread{Comment: c, Replies: []models.Comment{}})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	if len(threads) == 0 {
		return threads, nil
	}

	parents := make([]primitive.ObjectID, 0, len(parentIdx))
	for id := range parentIdx {
		parents = append(parents, id)
	}
	cur, err = s.c.Find(ctx, bson.M{
		"parent_comment": bson.M{"$in": parents},
		"is_deleted":     false,
	}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var c models.Comment
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		if i, ok := parentIdx[*c.ParentComment]; ok {
			threads[i].Replies = append(threads[i].Replies, c)
		}
	}
	return threads, cur.Err()
}

// CountLive returns the number of live comments on the post, replies
// included. It must always match the post's comment_count.
func (s *Store) CountLive(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"post": postID, "is_deleted": false})
}

// DeleteByPost hard-deletes every comment on the post. Used when the
// post itself is removed; the counter goes with the post document.
func (s *Store) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"post": postID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ApplyVote records an up or down vote on a comment. Same contract as
// post votes: the sets stay mutually exclusive and repeats are no-ops.
func (s *Store) ApplyVote(ctx context.Context, commentID, accountID primitive.ObjectID, direction string) (int, int, error) {
	var chosen, opposite string
	switch direction {
	case VoteUp:
		chosen, opposite = "upvotes", "downvotes"
	case VoteDown:
		chosen, opposite = "downvotes", "upvotes"
	default:
		return 0, 0, errBadVote
	}

	update := bson.M{
		"$addToSet": bson.M{chosen: accountID},
		"$pull":     bson.M{opposite: accountID},
	}

	var updated models.Comment
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": commentID, "is_deleted": false}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return 0, 0, ErrNotFound
	}
	if err != nil {
		return 0, 0, err
	}
	return len(updated.Upvotes), len(updated.Downvotes), nil
}

// RemoveVote clears the account's vote on a comment. Idempotent.
func (s *Store) RemoveVote(ctx context.Context, commentID, accountID primitive.ObjectID) (int, int, error) {
	update := bson.M{"$pull": bson.M{"upvotes": accountID, "downvotes": accountID}}

	var updated models.Comment
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": commentID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return 0, 0, ErrNotFound
	}
	if err != nil {
		return 0, 0, err
	}
	return len(updated.Upvotes), len(updated.Downvotes), nil
}

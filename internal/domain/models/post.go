// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a forum post.
//
// NOTE:
//   - Upvotes and Downvotes are mutually exclusive sets: an account ID is
//     in at most one of them at any time. Only the post store's vote
//     operations mutate these fields.
//   - CommentCount is denormalized; it must equal the number of live
//     (is_deleted=false) comments under the post, replies included. Only
//     the comment store mutates it.
type Post struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title    string             `bson:"title" json:"title"`
	Content  string             `bson:"content" json:"content"`
	Author   primitive.ObjectID `bson:"author" json:"author"`
	Category string             `bson:"category" json:"category"`
	Tags     []string           `bson:"tags" json:"tags"`

	Upvotes   []primitive.ObjectID `bson:"upvotes" json:"upvotes"`
	Downvotes []primitive.ObjectID `bson:"downvotes" json:"downvotes"`

	CommentCount int  `bson:"comment_count" json:"comment_count"`
	ViewCount    int  `bson:"view_count" json:"view_count"`
	IsPinned     bool `bson:"is_pinned" json:"is_pinned"`
	IsLocked     bool `bson:"is_locked" json:"is_locked"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// VoteScore returns upvotes minus downvotes.
func (p *Post) VoteScore() int { return len(p.Upvotes) - len(p.Downvotes) }

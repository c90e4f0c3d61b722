// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a forum comment. A nil ParentComment marks a top-level
// comment; otherwise ParentComment references a comment on the same post
// and this comment's ID appears exactly once in that parent's Replies.
//
// Comments are soft-deleted (IsDeleted flag) so that replies always keep
// a valid, if hidden, parent.
type Comment struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PostID        primitive.ObjectID  `bson:"post" json:"post"`
	Author        primitive.ObjectID  `bson:"author" json:"author"`
	Content       string              `bson:"content" json:"content"`
	ParentComment *primitive.ObjectID `bson:"parent_comment,omitempty" json:"parent_comment,omitempty"`

	Upvotes   []primitive.ObjectID `bson:"upvotes" json:"upvotes"`
	Downvotes []primitive.ObjectID `bson:"downvotes" json:"downvotes"`
	Replies   []primitive.ObjectID `bson:"replies" json:"replies"`

	IsDeleted bool `bson:"is_deleted" json:"is_deleted"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

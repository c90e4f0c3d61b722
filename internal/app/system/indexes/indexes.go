// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Index creation is idempotent: CreateMany
is a no-op for indexes that already exist with the same keys and options.
Errors are aggregated so every problem is visible and startup can fail
fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureEvents(ctx, db); err != nil {
		problems = append(problems, "events: "+err.Error())
	}
	if err := ensurePosts(ctx, db); err != nil {
		problems = append(problems, "posts: "+err.Error())
	}
	if err := ensureComments(ctx, db); err != nil {
		problems = append(problems, "comments: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("role"),
		},
		{
			// Sparse: only student documents carry this path.
			Keys:    bson.D{{Key: "student.student_id", Value: 1}},
			Options: options.Index().SetName("student_id_unique").SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "club.club_name_ci", Value: 1}},
			Options: options.Index().SetName("club_name_unique").SetUnique(true).SetSparse(true),
		},
	})
}

func ensureEvents(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db.Collection("events"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "organizer", Value: 1}},
			Options: options.Index().SetName("organizer"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category"),
		},
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index().SetName("date"),
		},
		{
			Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "is_featured", Value: -1}},
			Options: options.Index().SetName("active_featured"),
		},
		{
			Keys:    bson.D{{Key: "registrations", Value: 1}},
			Options: options.Index().SetName("registrations"),
		},
	})
}

func ensurePosts(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db.Collection("posts"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "author", Value: 1}},
			Options: options.Index().SetName("author"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category"),
		},
		{
			Keys:    bson.D{{Key: "is_pinned", Value: -1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("pinned_recent"),
		},
	})
}

func ensureComments(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db.Collection("comments"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "post", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("post_recent"),
		},
		{
			Keys:    bson.D{{Key: "parent_comment", Value: 1}},
			Options: options.Index().SetName("parent"),
		},
		{
			Keys:    bson.D{{Key: "author", Value: 1}},
			Options: options.Index().SetName("author"),
		},
	})
}

func create(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
	}
	return nil
}

package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateStudent creates a student account with the given academic profile.
// Year must already be a canonical token (FE, SE, TE, BE).
func (f *Fixtures) CreateStudent(ctx context.Context, name, email, studentID, branch, year, courseType string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$12$fixture.hash.only.for.tests.000000000000000000000000",
		Role:         models.RoleStudent,
		IsActive:     true,
		Student: &models.StudentProfile{
			StudentID:    studentID,
			CourseType:   courseType,
			Branch:       branch,
			Year:         year,
			RSVPedEvents: []primitive.ObjectID{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test student: %v", err)
	}

	return user
}

// CreateClub creates a club account with the given club name.
func (f *Fixtures) CreateClub(ctx context.Context, name, email, clubName string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$12$fixture.hash.only.for.tests.000000000000000000000000",
		Role:         models.RoleClub,
		IsActive:     true,
		Club: &models.ClubProfile{
			ClubName:      clubName,
			ClubNameCI:    text.Fold(clubName),
			CreatedEvents: []primitive.ObjectID{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test club: %v", err)
	}

	return user
}

// CreateAdmin creates an admin account.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$12$fixture.hash.only.for.tests.000000000000000000000000",
		Role:         models.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test admin: %v", err)
	}

	return user
}

// CreateEvent creates an active event organized by the given club account.
// Capacity, deadline, and eligibility are left open; use the WithX
// variants for constrained events.
func (f *Fixtures) CreateEvent(ctx context.Context, title string, organizer primitive.ObjectID) models.Event {
	f.t.Helper()
	return f.insertEvent(ctx, title, organizer, nil, nil, nil)
}

// CreateEventWithCapacity creates an event with a registration cap.
func (f *Fixtures) CreateEventWithCapacity(ctx context.Context, title string, organizer primitive.ObjectID, capacity int) models.Event {
	f.t.Helper()
	return f.insertEvent(ctx, title, organizer, &capacity, nil, nil)
}

// CreateEventWithDeadline creates an event whose registration closes at
// the given time.
func (f *Fixtures) CreateEventWithDeadline(ctx context.Context, title string, organizer primitive.ObjectID, deadline time.Time) models.Event {
	f.t.Helper()
	return f.insertEvent(ctx, title, organizer, nil, &deadline, nil)
}

// CreateEventWithEligibility creates an event restricted by the given rule.
func (f *Fixtures) CreateEventWithEligibility(ctx context.Context, title string, organizer primitive.ObjectID, rule models.EligibilityRule) models.Event {
	f.t.Helper()
	return f.insertEvent(ctx, title, organizer, nil, nil, &rule)
}

func (f *Fixtures) insertEvent(ctx context.Context, title string, organizer primitive.ObjectID, capacity *int, deadline *time.Time, rule *models.EligibilityRule) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	ev := models.Event{
		ID:                   primitive.NewObjectID(),
		Title:                title,
		Description:          "Test event description",
		Category:             "technical",
		Organizer:            organizer,
		Date:                 now.Add(7 * 24 * time.Hour),
		Time:                 "10:00",
		Venue:                "Test Hall",
		Capacity:             capacity,
		RegistrationDeadline: deadline,
		Eligibility:          rule,
		Tags:                 []string{},
		Registrations:        []primitive.ObjectID{},
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	_, err := f.db.Collection("events").InsertOne(ctx, ev)
	if err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}

	return ev
}

// CreatePost creates a forum post by the given author.
func (f *Fixtures) CreatePost(ctx context.Context, title string, author primitive.ObjectID) models.Post {
	f.t.Helper()

	now := time.Now().UTC()
	post := models.Post{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Content:   "Test post content",
		Author:    author,
		Category:  "general",
		Tags:      []string{},
		Upvotes:   []primitive.ObjectID{},
		Downvotes: []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("posts").InsertOne(ctx, post)
	if err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}

	return post
}

// CreateComment creates a live top-level comment on the given post and
// bumps the post's comment counter to keep the fixture data consistent.
func (f *Fixtures) CreateComment(ctx context.Context, postID, author primitive.ObjectID, content string) models.Comment {
	f.t.Helper()

	now := time.Now().UTC()
	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		Author:    author,
		Content:   content,
		Upvotes:   []primitive.ObjectID{},
		Downvotes: []primitive.ObjectID{},
		Replies:   []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("comments").InsertOne(ctx, comment); err != nil {
		f.t.Fatalf("failed to create test comment: %v", err)
	}
	if _, err := f.db.Collection("posts").UpdateByID(ctx, postID,
		bson.M{"$inc": bson.M{"comment_count": 1}}); err != nil {
		f.t.Fatalf("failed to bump comment count: %v", err)
	}

	return comment
}

package eventstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/eligibility"
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
	return &Store{c: db.Collection("events")}
}

var (
	// ErrNotFound is returned when an event does not exist.
	ErrNotFound = errors.New("event not found")
	// ErrAlreadyRegistered is returned when the account is already in the registration set.
	ErrAlreadyRegistered = errors.New("already registered for this event")
	// ErrEventFull is returned when the event's capacity is reached.
	ErrEventFull = errors.New("event is full")
	// ErrDeadlinePassed is returned when registration closed before the attempt.
	ErrDeadlinePassed = errors.New("registration deadline has passed")

	errBadCategory = errors.New("unknown event category")
	errBadCapacity = errors.New("capacity must be positive")
)

var validCategories = map[string]bool{
	"technical": true, "cultural": true, "sports": true, "workshop": true,
	"seminar": true, "hackathon": true, "competition": true, "other": true,
}

// CreateInput holds the fields a club supplies when creating an event.
type CreateInput struct {
	Title       string
	Description string
	Category    string
	Organizer   primitive.ObjectID

	Date  time.Time
	Time  string
	Venue string

	Capacity             *int
	RegistrationDeadline *time.Time
	Eligibility          *models.EligibilityRule

	Tags         []string
	Prizes       []models.Prize
	Rules        []string
	Requirements []string
	ContactInfo  *models.ContactInfo
}

// Create inserts a new event with an empty registration set.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Event, error) {
	if !validCategories[in.Category] {
		return models.Event{}, errBadCategory
	}
	if in.Capacity != nil && *in.Capacity <= 0 {
		return models.Event{}, errBadCapacity
	}
	if in.Eligibility != nil {
		in.Eligibility = canonicalRule(in.Eligibility)
	}

	now := time.Now().UTC()
	ev := models.Event{
		ID:                   primitive.NewObjectID(),
		Title:                strings.TrimSpace(in.Title),
		Description:          in.Description,
		Category:             in.Category,
		Organizer:            in.Organizer,
		Date:                 in.Date,
		Time:                 in.Time,
		Venue:                in.Venue,
		Capacity:             in.Capacity,
		RegistrationDeadline: in.RegistrationDeadline,
		Eligibility:          in.Eligibility,
		Tags:                 in.Tags,
		Prizes:               in.Prizes,
		Rules:                in.Rules,
		Requirements:         in.Requirements,
		ContactInfo:          in.ContactInfo,
		Registrations:        []primitive.ObjectID{},
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if ev.Tags == nil {
		ev.Tags = []string{}
	}

	if _, err := s.c.InsertOne(ctx, ev); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// canonicalRule normalizes an eligibility rule's year entries to the
// canonical tokens so stored rules and student years compare directly.
func canonicalRule(rule *models.EligibilityRule) *models.EligibilityRule {
	out := *rule
	if len(rule.Years) > 0 {
		out.Years = make([]string, len(rule.Years))
		for i, y := range rule.Years {
			out.Years[i] = eligibility.CanonicalYear(y)
		}
	}
	return &out
}

// GetByID loads an event. Returns ErrNotFound if it does not exist.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var ev models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ev); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ev, nil
}

// IncViewCount bumps the event's view counter. Best-effort; errors are
// returned but callers may ignore them.
func (s *Store) IncViewCount(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"view_count": 1}})
	return err
}

// ListFilter narrows the event list.
type ListFilter struct {
	Category string // empty or "all" = any
	Featured bool
	Search   string // matches title, description, or tags
}

// List returns active events matching the filter, featured first then by
// date, with the total match count for pagination.
func (s *Store) List(ctx context.Context, f ListFilter, skip, limit int64) ([]models.Event, int64, error) {
	query := bson.M{"is_active": true}
	if f.Category != "" && f.Category != "all" {
		query["category"] = f.Category
	}
	if f.Featured {
		query["is_featured"] = true
	}
	if f.Search != "" {
		query["$or"] = search.AnyField(f.Search, "title", "description", "tags")
	}

	total, err := s.c.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "is_featured", Value: -1}, {Key: "date", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	events := []models.Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// UpdateInput holds the optional fields an organizer may change.
// Nil pointers leave the stored value untouched.
type UpdateInput struct {
	Title                *string
	Description          *string
	Category             *string
	Date                 *time.Time
	Time                 *string
	Venue                *string
	Capacity             *int
	RegistrationDeadline *time.Time
	Eligibility          *models.EligibilityRule
	Tags                 []string
	IsActive             *bool
	IsFeatured           *bool
}

// Update applies the set fields. Ownership is checked by the caller.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd UpdateInput) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Category != nil {
		if !validCategories[*upd.Category] {
			return errBadCategory
		}
		set["category"] = *upd.Category
	}
	if upd.Date != nil {
		set["date"] = *upd.Date
	}
	if upd.Time != nil {
		set["time"] = *upd.Time
	}
	if upd.Venue != nil {
		set["venue"] = *upd.Venue
	}
	if upd.Capacity != nil {
		if *upd.Capacity <= 0 {
			return errBadCapacity
		}
		set["capacity"] = *upd.Capacity
	}
	if upd.RegistrationDeadline != nil {
		set["registration_deadline"] = *upd.RegistrationDeadline
	}
	if upd.Eligibility != nil {
		set["eligibility"] = canonicalRule(upd.Eligibility)
	}
	if upd.Tags != nil {
		set["tags"] = upd.Tags
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}
	if upd.IsFeatured != nil {
		set["is_featured"] = *upd.IsFeatured
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

// Delete removes an event. Returns the number of documents deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeactivatePast marks every active event dated before cutoff as
// inactive. Returns the number of events deactivated.
func (s *Store) DeactivatePast(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"is_active": true, "date": bson.M{"$lt": cutoff}},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// AddRegistration appends the account to the event's registration set.
//
// The duplicate, capacity, and deadline checks run inside ONE conditional
// update, so two concurrent attempts at the last open slot cannot both
// succeed: the filter only matches while the account is absent, the set
// is below capacity (when one is set), and the deadline (when one is set)
// has not passed. When the update matches nothing, the event is re-read
// once to classify the refusal.
//
// Returns the registration count after the write.
func (s *Store) AddRegistration(ctx context.Context, eventID, accountID primitive.ObjectID, now time.Time) (int, error) {
	filter := bson.M{
		"_id":           eventID,
		"registrations": bson.M{"$ne": accountID},
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"registration_deadline": bson.M{"$exists": false}},
				bson.M{"registration_deadline": nil},
				bson.M{"registration_deadline": bson.M{"$gte": now}},
			}},
			// Capacity check must compare against the live array size, so
			// it runs as an aggregation expression. A null/missing capacity
			// means unbounded.
			bson.M{"$expr": bson.M{"$or": bson.A{
				bson.M{"$lte": bson.A{"$capacity", nil}},
				bson.M{"$lt": bson.A{
					bson.M{"$size": bson.M{"$ifNull": bson.A{"$registrations", bson.A{}}}},
					"$capacity",
				}},
			}}},
		},
	}
	update := bson.M{
		"$push": bson.M{"registrations": accountID},
		"$set":  bson.M{"updated_at": now.UTC()},
	}

	var updated models.Event
	err := s.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err == nil {
		return len(updated.Registrations), nil
	}
	if err != mongo.ErrNoDocuments {
		return 0, err
	}

	// The conditional write matched nothing; classify why.
	ev, err := s.GetByID(ctx, eventID)
	if err != nil {
		return 0, err // includes ErrNotFound
	}
	for _, id := range ev.Registrations {
		if id == accountID {
			return len(ev.Registrations), ErrAlreadyRegistered
		}
	}
	if ev.Capacity != nil && len(ev.Registrations) >= *ev.Capacity {
		return len(ev.Registrations), ErrEventFull
	}
	if ev.RegistrationDeadline != nil && now.After(*ev.RegistrationDeadline) {
		return len(ev.Registrations), ErrDeadlinePassed
	}
	// The event changed between the write and the re-read (e.g. a slot
	// opened up). Report the race as the terminal state we saw.
	return len(ev.Registrations), ErrEventFull
}

// RemoveRegistration strips the account from the registration set.
// Idempotent: removing an absent account succeeds and leaves the count
// unchanged. Cancellation is never denied.
func (s *Store) RemoveRegistration(ctx context.Context, eventID, accountID primitive.ObjectID) (int, error) {
	update := bson.M{
		"$pull": bson.M{"registrations": accountID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	var updated models.Event
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": eventID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return len(updated.Registrations), nil
}

// RegistrationCount returns the current size of the registration set.
func (s *Store) RegistrationCount(ctx context.Context, eventID primitive.ObjectID) (int, error) {
	ev, err := s.GetByID(ctx, eventID)
	if err != nil {
		return 0, err
	}
	return len(ev.Registrations), nil
}


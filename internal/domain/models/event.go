// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is an event created by a club account.
//
// NOTE:
//   - Registrations has set semantics: an account ID appears at most once.
//     Every mutation goes through the event store's conditional updates;
//     no other code path writes this field.
//   - Capacity and RegistrationDeadline are optional; nil means unbounded
//     and no cutoff respectively.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Organizer   primitive.ObjectID `bson:"organizer" json:"organizer"`

	Date  time.Time `bson:"date" json:"date"`
	Time  string    `bson:"time" json:"time"`
	Venue string    `bson:"venue" json:"venue"`

	Capacity             *int             `bson:"capacity,omitempty" json:"capacity,omitempty"`
	RegistrationDeadline *time.Time       `bson:"registration_deadline,omitempty" json:"registration_deadline,omitempty"`
	Eligibility          *EligibilityRule `bson:"eligibility,omitempty" json:"eligibility,omitempty"`

	Tags         []string     `bson:"tags" json:"tags"`
	Prizes       []Prize      `bson:"prizes,omitempty" json:"prizes,omitempty"`
	Rules        []string     `bson:"rules,omitempty" json:"rules,omitempty"`
	Requirements []string     `bson:"requirements,omitempty" json:"requirements,omitempty"`
	ContactInfo  *ContactInfo `bson:"contact_info,omitempty" json:"contact_info,omitempty"`

	Registrations []primitive.ObjectID `bson:"registrations" json:"registrations"`

	IsActive   bool `bson:"is_active" json:"is_active"`
	IsFeatured bool `bson:"is_featured" json:"is_featured"`
	ViewCount  int  `bson:"view_count" json:"view_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// EligibilityRule restricts which students may RSVP. Each field is an
// allow-list; an empty or absent list places no restriction.
type EligibilityRule struct {
	Branches    []string `bson:"branches,omitempty" json:"branches,omitempty"`
	Years       []string `bson:"years,omitempty" json:"years,omitempty"`
	CourseTypes []string `bson:"course_types,omitempty" json:"course_types,omitempty"`
}

// Prize is one position in an event's prize table.
type Prize struct {
	Position    string `bson:"position" json:"position"`
	Amount      int    `bson:"amount" json:"amount"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// ContactInfo is the organizer's published contact for an event.
type ContactInfo struct {
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// RegistrationCount returns the number of registered accounts.
func (e *Event) RegistrationCount() int { return len(e.Registrations) }

// SpotsRemaining returns the open capacity, or nil when the event has no
// capacity bound.
func (e *Event) SpotsRemaining() *int {
	if e.Capacity == nil {
		return nil
	}
	n := *e.Capacity - len(e.Registrations)
	if n < 0 {
		n = 0
	}
	return &n
}

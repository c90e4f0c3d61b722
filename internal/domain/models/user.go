// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles an account can hold. Role is fixed at creation; there is no
// migration path between student and club accounts.
const (
	RoleStudent = "student"
	RoleClub    = "club"
	RoleAdmin   = "admin"
)

// User represents an account: a student, a club, or an admin.
//
// NOTE:
//   - Exactly one of Student/Club is set, matching Role. Admin accounts
//     carry neither profile.
//   - Event registrations are authoritative on the Event document; the
//     RSVPedEvents list on StudentProfile is a denormalized reverse index.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"` // student | club | admin
	IsVerified   bool               `bson:"is_verified" json:"is_verified"`
	IsActive     bool               `bson:"is_active" json:"is_active"`

	Student *StudentProfile `bson:"student,omitempty" json:"student,omitempty"`
	Club    *ClubProfile    `bson:"club,omitempty" json:"club,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// StudentProfile holds the student-specific attributes used by event
// eligibility rules.
type StudentProfile struct {
	StudentID    string               `bson:"student_id" json:"student_id"`
	CourseType   string               `bson:"course_type" json:"course_type"` // btech | mtech | ...
	Branch       string               `bson:"branch" json:"branch"`           // COMPS | IT | ...
	Year         string               `bson:"year" json:"year"`               // FE | SE | TE | BE
	RSVPedEvents []primitive.ObjectID `bson:"rsvped_events" json:"rsvped_events"`
	Interests    []string             `bson:"interests,omitempty" json:"interests,omitempty"`
}

// ClubProfile holds the club-specific attributes.
type ClubProfile struct {
	ClubName      string               `bson:"club_name" json:"club_name"`
	ClubNameCI    string               `bson:"club_name_ci" json:"club_name_ci"` // lowercase, diacritics-stripped
	Description   string               `bson:"description" json:"description"`
	SocialLinks   *SocialLinks         `bson:"social_links,omitempty" json:"social_links,omitempty"`
	Members       int                  `bson:"members" json:"members"`
	CreatedEvents []primitive.ObjectID `bson:"created_events" json:"created_events"`
}

// SocialLinks are the club's optional public links.
type SocialLinks struct {
	Website   string `bson:"website,omitempty" json:"website,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
}

// StudentSummary is the roster row returned to an event organizer when
// listing registrations.
type StudentSummary struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	StudentID  string             `json:"student_id"`
	Branch     string             `json:"branch"`
	Year       string             `json:"year"`
	CourseType string             `json:"course_type"`
}

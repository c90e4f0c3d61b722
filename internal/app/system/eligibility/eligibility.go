// Package eligibility decides whether a student may RSVP to an event.
//
// Evaluate is a pure function over a student profile and an event
// snapshot: it never touches the database and never mutates its inputs,
// so every denial path is deterministically unit-testable. The event
// store re-checks the same conditions inside its conditional write when
// an RSVP commits; this package exists to give callers a precise,
// ordered denial reason.
package eligibility

import (
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reason identifies why an RSVP attempt was denied.
type Reason string

const (
	// ReasonNone means the RSVP may proceed.
	ReasonNone Reason = ""

	ReasonNotEligibleBranch     Reason = "not_eligible_branch"
	ReasonNotEligibleYear       Reason = "not_eligible_year"
	ReasonNotEligibleCourseType Reason = "not_eligible_course_type"
	ReasonAlreadyRegistered     Reason = "already_registered"
	ReasonEventFull             Reason = "event_full"
	ReasonDeadlinePassed        Reason = "deadline_passed"
)

// Decision is the outcome of an eligibility check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision { return Decision{Allowed: true} }

func deny(r Reason) Decision { return Decision{Reason: r} }

// Year tokens in their canonical form. Events and students both store
// years as these tokens; numeric forms ("1".."4") are normalized at
// account creation, never compared here.
var canonicalYears = map[string]string{
	"FE": "FE", "SE": "SE", "TE": "TE", "BE": "BE",
	"1": "FE", "2": "SE", "3": "TE", "4": "BE",
}

// CanonicalYear maps a year value to its canonical token (FE/SE/TE/BE).
// Unknown values are returned unchanged so validation can reject them.
func CanonicalYear(year string) string {
	if tok, ok := canonicalYears[year]; ok {
		return tok
	}
	return year
}

// Evaluate decides whether the student may RSVP to the event at time now.
//
// Checks run in a fixed order so the caller can report the most useful
// denial: eligibility rules first (branch, year, course type), then
// duplicate registration, then capacity, then deadline. A student who is
// not eligible is told so even when the event is also full.
func Evaluate(studentID primitive.ObjectID, student *models.StudentProfile, event *models.Event, now time.Time) Decision {
	if rule := event.Eligibility; rule != nil {
		if len(rule.Branches) > 0 && !contains(rule.Branches, student.Branch) {
			return deny(ReasonNotEligibleBranch)
		}
		if len(rule.Years) > 0 && !containsYear(rule.Years, student.Year) {
			return deny(ReasonNotEligibleYear)
		}
		if len(rule.CourseTypes) > 0 && !contains(rule.CourseTypes, student.CourseType) {
			return deny(ReasonNotEligibleCourseType)
		}
	}

	for _, id := range event.Registrations {
		if id == studentID {
			return deny(ReasonAlreadyRegistered)
		}
	}

	if event.Capacity != nil && len(event.Registrations) >= *event.Capacity {
		return deny(ReasonEventFull)
	}

	if event.RegistrationDeadline != nil && now.After(*event.RegistrationDeadline) {
		return deny(ReasonDeadlinePassed)
	}

	return allow()
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// containsYear compares year membership in canonical-token space, so an
// event rule written as ["1","2"] still matches a student stored as "FE".
func containsYear(list []string, year string) bool {
	want := CanonicalYear(year)
	for _, s := range list {
		if CanonicalYear(s) == want {
			return true
		}
	}
	return false
}

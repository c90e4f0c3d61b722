package eligibility

import (
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func student(branch, year, courseType string) *models.StudentProfile {
	return &models.StudentProfile{
		StudentID:  "S001",
		Branch:     branch,
		Year:       year,
		CourseType: courseType,
	}
}

func intPtr(n int) *int { return &n }

func TestEvaluate_OpenEvent(t *testing.T) {
	sid := primitive.NewObjectID()
	event := &models.Event{}

	d := Evaluate(sid, student("COMPS", "TE", "btech"), event, time.Now())
	if !d.Allowed {
		t.Fatalf("expected allow, got deny(%s)", d.Reason)
	}
}

func TestEvaluate_BranchRestriction(t *testing.T) {
	sid := primitive.NewObjectID()
	event := &models.Event{
		Eligibility: &models.EligibilityRule{Branches: []string{"COMPS", "IT"}},
	}

	if d := Evaluate(sid, student("COMPS", "TE", "btech"), event, time.Now()); !d.Allowed {
		t.Errorf("COMPS student should be allowed, got %s", d.Reason)
	}
	if d := Evaluate(sid, student("MECH", "TE", "btech"), event, time.Now()); d.Allowed || d.Reason != ReasonNotEligibleBranch {
		t.Errorf("MECH student: got allowed=%v reason=%s, want deny(%s)", d.Allowed, d.Reason, ReasonNotEligibleBranch)
	}
}

func TestEvaluate_YearRestriction_CanonicalTokens(t *testing.T) {
	sid := primitive.NewObjectID()

	// Rule written with tokens.
	event := &models.Event{
		Eligibility: &models.EligibilityRule{Years: []string{"TE", "BE"}},
	}
	if d := Evaluate(sid, student("COMPS", "TE", "btech"), event, time.Now()); !d.Allowed {
		t.Errorf("TE student should be allowed, got %s", d.Reason)
	}
	if d := Evaluate(sid, student("COMPS", "FE", "btech"), event, time.Now()); d.Reason != ReasonNotEligibleYear {
		t.Errorf("FE student: got %s, want %s", d.Reason, ReasonNotEligibleYear)
	}

	// Rule written with numeric forms still matches canonical tokens.
	event = &models.Event{
		Eligibility: &models.EligibilityRule{Years: []string{"3", "4"}},
	}
	if d := Evaluate(sid, student("COMPS", "TE", "btech"), event, time.Now()); !d.Allowed {
		t.Errorf("numeric rule should match TE student, got %s", d.Reason)
	}
}

func TestEvaluate_CourseTypeRestriction(t *testing.T) {
	sid := primitive.NewObjectID()
	event := &models.Event{
		Eligibility: &models.EligibilityRule{CourseTypes: []string{"btech"}},
	}

	if d := Evaluate(sid, student("COMPS", "TE", "mba"), event, time.Now()); d.Reason != ReasonNotEligibleCourseType {
		t.Errorf("got %s, want %s", d.Reason, ReasonNotEligibleCourseType)
	}
}

func TestEvaluate_AlreadyRegistered(t *testing.T) {
	sid := primitive.NewObjectID()
	event := &models.Event{
		Registrations: []primitive.ObjectID{primitive.NewObjectID(), sid},
	}

	if d := Evaluate(sid, student("COMPS", "TE", "btech"), event, time.Now()); d.Reason != ReasonAlreadyRegistered {
		t.Errorf("got %s, want %s", d.Reason, ReasonAlreadyRegistered)
	}
}

func TestEvaluate_EventFull(t *testing.T) {
	sid := primitive.NewObjectID()
	event := &models.Event{
		Capacity:      intPtr(2),
		Registrations: []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()},
	}

	if d := Evaluate(sid, student("COMPS", "TE", "btech"), event, time.Now()); d.Reason != ReasonEventFull {
		t.Errorf("got %s, want %s", d.Reason, ReasonEventFull)
	}
}

func TestEvaluate_DeadlinePassed(t *testing.T) {
	sid := primitive.NewObjectID()
	past := time.Now().Add(-time.Hour)
	event := &models.Event{RegistrationDeadline: &past}

	if d := Evaluate(sid, student("COMPS", "TE", "btech"), event, time.Now()); d.Reason != ReasonDeadlinePassed {
		t.Errorf("got %s, want %s", d.Reason, ReasonDeadlinePassed)
	}
}

func TestEvaluate_DeadlineNotYetPassed(t *testing.T) {
	sid := primitive.NewObjectID()
	future := time.Now().Add(time.Hour)
	event := &models.Event{RegistrationDeadline: &future}

	if d := Evaluate(sid, student("COMPS", "TE", "btech"), event, time.Now()); !d.Allowed {
		t.Errorf("expected allow before deadline, got %s", d.Reason)
	}
}

// Eligibility is reported before capacity: an ineligible student is told
// about eligibility even when the event is also full.
func TestEvaluate_EligibilityBeforeCapacity(t *testing.T) {
	sid := primitive.NewObjectID()
	event := &models.Event{
		Capacity:      intPtr(1),
		Registrations: []primitive.ObjectID{primitive.NewObjectID()},
		Eligibility:   &models.EligibilityRule{Branches: []string{"COMPS"}},
	}

	if d := Evaluate(sid, student("IT", "TE", "btech"), event, time.Now()); d.Reason != ReasonNotEligibleBranch {
		t.Errorf("got %s, want %s (eligibility checked before capacity)", d.Reason, ReasonNotEligibleBranch)
	}
}

func TestEvaluate_DuplicateBeforeCapacity(t *testing.T) {
	sid := primitive.NewObjectID()
	event := &models.Event{
		Capacity:      intPtr(1),
		Registrations: []primitive.ObjectID{sid},
	}

	if d := Evaluate(sid, student("COMPS", "TE", "btech"), event, time.Now()); d.Reason != ReasonAlreadyRegistered {
		t.Errorf("got %s, want %s (duplicate checked before capacity)", d.Reason, ReasonAlreadyRegistered)
	}
}

func TestCanonicalYear(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"FE", "FE"},
		{"SE", "SE"},
		{"TE", "TE"},
		{"BE", "BE"},
		{"1", "FE"},
		{"2", "SE"},
		{"3", "TE"},
		{"4", "BE"},
		{"5", "5"}, // unknown values pass through for validation to reject
	}

	for _, tt := range tests {
		if got := CanonicalYear(tt.in); got != tt.want {
			t.Errorf("CanonicalYear(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Package rsvp coordinates the cross-collection RSVP workflow: the
// eligibility gate, the conditional write on the event's registration
// set, and the student's denormalized reverse index.
package rsvp

import (
	"context"
	"errors"
	"fmt"
	"time"

	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/app/system/eligibility"
	"github.com/dalemusser/campushub/internal/app/system/txn"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	// ErrAccountNotFound is returned when the RSVPing account does not exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrNotAStudent is returned when a non-student account tries to RSVP.
	ErrNotAStudent = errors.New("only students can register for events")
	// ErrEventNotFound is returned when the target event does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrEventInactive is returned when the event has been deactivated.
	ErrEventInactive = errors.New("event is no longer active")
)

// DeniedError reports an RSVP refused by the event's admission rules.
type DeniedError struct {
	Reason eligibility.Reason
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("rsvp denied: %s", e.Reason)
}

// Denied unwraps err into a DeniedError, if it is one.
func Denied(err error) (*DeniedError, bool) {
	var de *DeniedError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Coordinator runs RSVP adds and cancellations against the user and
// event stores, keeping the event's registration set and the student's
// rsvped_events index in step.
type Coordinator struct {
	users  *userstore.Store
	events *eventstore.Store
	client *mongo.Client
	log    *zap.Logger
}

func NewCoordinator(db *mongo.Database, log *zap.Logger) *Coordinator {
	return &Coordinator{
		users:  userstore.New(db),
		events: eventstore.New(db),
		client: db.Client(),
		log:    log,
	}
}

// Add registers the student for the event and returns the registration
// count after the write.
//
// The eligibility evaluation up front produces the precise denial
// reason; admission itself is enforced again by the event store's
// conditional update, so a stale read here can delay an RSVP but never
// admit one past capacity or deadline.
func (c *Coordinator) Add(ctx context.Context, accountID, eventID primitive.ObjectID, now time.Time) (int, error) {
	user, err := c.users.GetByID(ctx, accountID)
	if err == mongo.ErrNoDocuments {
		return 0, ErrAccountNotFound
	}
	if err != nil {
		return 0, err
	}
	if user.Role != models.RoleStudent || user.Student == nil {
		return 0, ErrNotAStudent
	}

	ev, err := c.events.GetByID(ctx, eventID)
	if err == eventstore.ErrNotFound {
		return 0, ErrEventNotFound
	}
	if err != nil {
		return 0, err
	}
	if !ev.IsActive {
		return 0, ErrEventInactive
	}

	if d := eligibility.Evaluate(accountID, user.Student, ev, now); !d.Allowed {
		return ev.RegistrationCount(), &DeniedError{Reason: d.Reason}
	}

	var count int
	err = txn.WithTransaction(ctx, c.client, c.log, func(ctx context.Context) error {
		n, err := c.events.AddRegistration(ctx, eventID, accountID, now)
		if err != nil {
			return err
		}
		count = n
		return c.users.AddRSVPedEvent(ctx, accountID, eventID)
	})
	if err != nil {
		return classifyAddFailure(err)
	}
	return count, nil
}

// classifyAddFailure maps the event store's refusals, which re-check the
// admission rules at write time, onto denial reasons.
func classifyAddFailure(err error) (int, error) {
	switch err {
	case eventstore.ErrAlreadyRegistered:
		return 0, &DeniedError{Reason: eligibility.ReasonAlreadyRegistered}
	case eventstore.ErrEventFull:
		return 0, &DeniedError{Reason: eligibility.ReasonEventFull}
	case eventstore.ErrDeadlinePassed:
		return 0, &DeniedError{Reason: eligibility.ReasonDeadlinePassed}
	case eventstore.ErrNotFound:
		return 0, ErrEventNotFound
	}
	return 0, err
}

// Remove cancels the student's registration and returns the registration
// count after the write. Cancelling when not registered is a no-op, and
// deadlines never block a cancellation.
func (c *Coordinator) Remove(ctx context.Context, accountID, eventID primitive.ObjectID) (int, error) {
	var count int
	err := txn.WithTransaction(ctx, c.client, c.log, func(ctx context.Context) error {
		n, err := c.events.RemoveRegistration(ctx, eventID, accountID)
		if err != nil {
			return err
		}
		count = n
		return c.users.RemoveRSVPedEvent(ctx, accountID, eventID)
	})
	if err == eventstore.ErrNotFound {
		return 0, ErrEventNotFound
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Roster returns the registered students for the event as roster rows,
// resolved through the user store so stale reverse-index entries never
// appear.
func (c *Coordinator) Roster(ctx context.Context, eventID primitive.ObjectID) ([]models.StudentSummary, error) {
	ev, err := c.events.GetByID(ctx, eventID)
	if err == eventstore.ErrNotFound {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return c.users.ListStudentSummaries(ctx, ev.Registrations)
}

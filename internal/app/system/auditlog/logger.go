// internal/app/system/auditlog/logger.go

// Package auditlog records security-relevant events: registrations,
// login attempts, and admin/moderator actions. Events go to MongoDB,
// structured logs, both, or neither depending on the configured mode.
package auditlog

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Modes for audit output.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off" // disabled
)

// ParseMode normalizes a configured mode string, defaulting to ModeAll.
func ParseMode(s string) string {
	switch s {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return s
	default:
		return ModeAll
	}
}

// Event is one audit record.
type Event struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Action    string              `bson:"action"` // login_success, login_failure, register, ...
	Success   bool                `bson:"success"`
	ActorID   *primitive.ObjectID `bson:"actor_id,omitempty"`
	Email     string              `bson:"email,omitempty"`
	Target    string              `bson:"target,omitempty"` // e.g. "event:65a1..."
	Reason    string              `bson:"reason,omitempty"` // failure reason, client-safe
	IP        string              `bson:"ip"`
	CreatedAt time.Time           `bson:"created_at"`
}

// Recorder writes audit events. A nil *Recorder is a valid no-op, so
// handler tests can skip audit wiring entirely.
type Recorder struct {
	c    *mongo.Collection
	mode string
	log  *zap.Logger
}

// New creates a Recorder writing to the audit_log collection.
func New(db *mongo.Database, mode string, log *zap.Logger) *Recorder {
	return &Recorder{c: db.Collection("audit_log"), mode: ParseMode(mode), log: log}
}

// Record stores the event per the configured mode. Storage failures are
// logged, never returned: an audit hiccup must not fail the request.
func (rec *Recorder) Record(ctx context.Context, ev Event) {
	if rec == nil || rec.mode == ModeOff {
		return
	}
	ev.CreatedAt = time.Now().UTC()

	if rec.mode == ModeAll || rec.mode == ModeLog {
		fields := []zap.Field{
			zap.Bool("audit", true),
			zap.String("action", ev.Action),
			zap.Bool("success", ev.Success),
			zap.String("ip", ev.IP),
		}
		if ev.ActorID != nil {
			fields = append(fields, zap.String("actor_id", ev.ActorID.Hex()))
		}
		if ev.Email != "" {
			fields = append(fields, zap.String("email", ev.Email))
		}
		if ev.Target != "" {
			fields = append(fields, zap.String("target", ev.Target))
		}
		if ev.Reason != "" {
			fields = append(fields, zap.String("reason", ev.Reason))
		}
		if ev.Success {
			rec.log.Info("audit event", fields...)
		} else {
			rec.log.Warn("audit event", fields...)
		}
	}

	if rec.mode == ModeAll || rec.mode == ModeDB {
		if _, err := rec.c.InsertOne(ctx, ev); err != nil {
			rec.log.Error("audit event insert failed", zap.Error(err))
		}
	}
}

// LoginSuccess records a successful login.
func (rec *Recorder) LoginSuccess(ctx context.Context, r *http.Request, actorID primitive.ObjectID, email string) {
	rec.Record(ctx, Event{
		Action:  "login_success",
		Success: true,
		ActorID: &actorID,
		Email:   email,
		IP:      ratelimit.ClientIP(r),
	})
}

// LoginFailure records a rejected login attempt.
func (rec *Recorder) LoginFailure(ctx context.Context, r *http.Request, email, reason string) {
	rec.Record(ctx, Event{
		Action: "login_failure",
		Email:  email,
		Reason: reason,
		IP:     ratelimit.ClientIP(r),
	})
}

// Registered records a new account.
func (rec *Recorder) Registered(ctx context.Context, r *http.Request, actorID primitive.ObjectID, email, role string) {
	rec.Record(ctx, Event{
		Action:  "register",
		Success: true,
		ActorID: &actorID,
		Email:   email,
		Target:  "role:" + role,
		IP:      ratelimit.ClientIP(r),
	})
}

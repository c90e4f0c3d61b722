// internal/app/features/events/handler.go
package events

import (
	"context"
	"net/http"
	"time"

	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	"github.com/dalemusser/campushub/internal/app/store/queries/rsvp"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/eligibility"
	"github.com/dalemusser/campushub/internal/app/system/paging"
	"github.com/dalemusser/campushub/internal/app/system/sanitize"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/webapi"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler owns the event endpoints: browsing, organizer CRUD, and the
// RSVP surface.
type Handler struct {
	Events *eventstore.Store
	Users  *userstore.Store
	RSVP   *rsvp.Coordinator
	Log    *zap.Logger
}

// NewHandler creates a new events Handler.
func NewHandler(events *eventstore.Store, users *userstore.Store, coord *rsvp.Coordinator, logger *zap.Logger) *Handler {
	return &Handler{
		Events: events,
		Users:  users,
		RSVP:   coord,
		Log:    logger,
	}
}

// ServeList handles GET /events.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page := paging.Parse(r)
	filter := eventstore.ListFilter{
		Category: query.Get(r, "category"),
		Featured: query.Get(r, "featured") == "true",
		Search:   query.Get(r, "search"),
	}

	events, total, err := h.Events.List(ctx, filter, page.Skip(), int64(page.Limit))
	if err != nil {
		webapi.ServerError(w, h.Log, "events: list failed", err)
		return
	}

	webapi.OK(w, map[string]any{
		"events": events,
		"pagination": map[string]any{
			"page":  page.Number,
			"limit": page.Limit,
			"total": total,
			"pages": page.Pages(total),
		},
	})
}

// createRequest is the POST /events payload.
type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`

	Date  time.Time `json:"date"`
	Time  string    `json:"time"`
	Venue string    `json:"venue"`

	Capacity             *int                    `json:"capacity,omitempty"`
	RegistrationDeadline *time.Time              `json:"registration_deadline,omitempty"`
	Eligibility          *models.EligibilityRule `json:"eligibility,omitempty"`

	Tags         []string            `json:"tags,omitempty"`
	Prizes       []models.Prize      `json:"prizes,omitempty"`
	Rules        []string            `json:"rules,omitempty"`
	Requirements []string            `json:"requirements,omitempty"`
	ContactInfo  *models.ContactInfo `json:"contact_info,omitempty"`
}

// ServeCreate handles POST /events. Club accounts only; the organizer is
// always the signed-in club, never taken from the payload.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	_, _, organizerID, ok := authz.UserCtx(r)
	if !ok {
		webapi.Forbidden(w, "Sign in required")
		return
	}

	var req createRequest
	if !webapi.Decode(w, r, &req) {
		return
	}
	if req.Title == "" || req.Date.IsZero() {
		webapi.BadRequest(w, "Title and date are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ev, err := h.Events.Create(ctx, eventstore.CreateInput{
		Title:                req.Title,
		Description:          sanitize.Content(req.Description),
		Category:             req.Category,
		Organizer:            organizerID,
		Date:                 req.Date,
		Time:                 req.Time,
		Venue:                req.Venue,
		Capacity:             req.Capacity,
		RegistrationDeadline: req.RegistrationDeadline,
		Eligibility:          req.Eligibility,
		Tags:                 req.Tags,
		Prizes:               req.Prizes,
		Rules:                req.Rules,
		Requirements:         req.Requirements,
		ContactInfo:          req.ContactInfo,
	})
	if err != nil {
		webapi.BadRequest(w, err.Error())
		return
	}

	if err := h.Users.AddCreatedEvent(ctx, organizerID, ev.ID); err != nil {
		h.Log.Warn("events: created_events index update failed",
			zap.String("event_id", ev.ID.Hex()), zap.Error(err))
	}

	h.Log.Info("event created",
		zap.String("event_id", ev.ID.Hex()),
		zap.String("organizer", organizerID.Hex()))
	webapi.Created(w, map[string]any{"event": ev})
}

// ServeDetail handles GET /events/{eventID}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, eventID)
	if err == eventstore.ErrNotFound {
		webapi.NotFound(w, "Event not found")
		return
	}
	if err != nil {
		webapi.ServerError(w, h.Log, "events: detail failed", err)
		return
	}

	if err := h.Events.IncViewCount(ctx, eventID); err != nil {
		h.Log.Warn("events: view count bump failed", zap.Error(err))
	}

	webapi.OK(w, map[string]any{
		"event":              ev,
		"registration_count": ev.RegistrationCount(),
		"spots_remaining":    ev.SpotsRemaining(),
	})
}

// updateRequest is the PUT /events/{eventID} payload. Absent fields are
// left unchanged.
type updateRequest struct {
	Title                *string                 `json:"title,omitempty"`
	Description          *string                 `json:"description,omitempty"`
	Category             *string                 `json:"category,omitempty"`
	Date                 *time.Time              `json:"date,omitempty"`
	Time                 *string                 `json:"time,omitempty"`
	Venue                *string                 `json:"venue,omitempty"`
	Capacity             *int                    `json:"capacity,omitempty"`
	RegistrationDeadline *time.Time              `json:"registration_deadline,omitempty"`
	Eligibility          *models.EligibilityRule `json:"eligibility,omitempty"`
	Tags                 []string                `json:"tags,omitempty"`
	IsActive             *bool                   `json:"is_active,omitempty"`
	IsFeatured           *bool                   `json:"is_featured,omitempty"`
}

// ServeUpdate handles PUT /events/{eventID}. Organizer or admin only;
// the featured flag is admin only.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if !webapi.Decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, eventID)
	if err == eventstore.ErrNotFound {
		webapi.NotFound(w, "Event not found")
		return
	}
	if err != nil {
		webapi.ServerError(w, h.Log, "events: update lookup failed", err)
		return
	}
	if !authz.IsOwnerOrAdmin(r, ev.Organizer) {
		webapi.Forbidden(w, "Only the organizer can modify this event")
		return
	}
	if req.IsFeatured != nil && !authz.IsAdmin(r) {
		webapi.Forbidden(w, "Only admins can feature events")
		return
	}

	upd := eventstore.UpdateInput{
		Title:                req.Title,
		Category:             req.Category,
		Date:                 req.Date,
		Time:                 req.Time,
		Venue:                req.Venue,
		Capacity:             req.Capacity,
		RegistrationDeadline: req.RegistrationDeadline,
		Eligibility:          req.Eligibility,
		Tags:                 req.Tags,
		IsActive:             req.IsActive,
		IsFeatured:           req.IsFeatured,
	}
	if req.Description != nil {
		clean := sanitize.Content(*req.Description)
		upd.Description = &clean
	}

	if err := h.Events.Update(ctx, eventID, upd); err != nil {
		if err == eventstore.ErrNotFound {
			webapi.NotFound(w, "Event not found")
			return
		}
		webapi.BadRequest(w, err.Error())
		return
	}

	updated, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		webapi.ServerError(w, h.Log, "events: update reload failed", err)
		return
	}
	webapi.OK(w, map[string]any{"event": updated})
}

// ServeDelete handles DELETE /events/{eventID}. Organizer or admin only.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, eventID)
	if err == eventstore.ErrNotFound {
		webapi.NotFound(w, "Event not found")
		return
	}
	if err != nil {
		webapi.ServerError(w, h.Log, "events: delete lookup failed", err)
		return
	}
	if !authz.IsOwnerOrAdmin(r, ev.Organizer) {
		webapi.Forbidden(w, "Only the organizer can delete this event")
		return
	}

	if _, err := h.Events.Delete(ctx, eventID); err != nil {
		webapi.ServerError(w, h.Log, "events: delete failed", err)
		return
	}
	if err := h.Users.RemoveCreatedEvent(ctx, ev.Organizer, eventID); err != nil {
		h.Log.Warn("events: created_events index cleanup failed",
			zap.String("event_id", eventID.Hex()), zap.Error(err))
	}

	h.Log.Info("event deleted", zap.String("event_id", eventID.Hex()))
	webapi.OK(w, map[string]any{"message": "Event deleted"})
}

// ServeRSVP handles POST /events/{eventID}/rsvp.
func (h *Handler) ServeRSVP(w http.ResponseWriter, r *http.Request) {
	_, _, accountID, ok := authz.UserCtx(r)
	if !ok {
		webapi.Forbidden(w, "Sign in required")
		return
	}
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	count, err := h.RSVP.Add(ctx, accountID, eventID, time.Now().UTC())
	if err != nil {
		h.writeRSVPError(w, err)
		return
	}

	h.Log.Info("rsvp added",
		zap.String("event_id", eventID.Hex()),
		zap.String("account", accountID.Hex()),
		zap.Int("registration_count", count))
	webapi.OK(w, map[string]any{"registration_count": count})
}

// ServeCancelRSVP handles DELETE /events/{eventID}/rsvp.
func (h *Handler) ServeCancelRSVP(w http.ResponseWriter, r *http.Request) {
	_, _, accountID, ok := authz.UserCtx(r)
	if !ok {
		webapi.Forbidden(w, "Sign in required")
		return
	}
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	count, err := h.RSVP.Remove(ctx, accountID, eventID)
	if err != nil {
		h.writeRSVPError(w, err)
		return
	}
	webapi.OK(w, map[string]any{"registration_count": count})
}

// ServeRegistrations handles GET /events/{eventID}/registrations.
// Organizer or admin only.
func (h *Handler) ServeRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, eventID)
	if err == eventstore.ErrNotFound {
		webapi.NotFound(w, "Event not found")
		return
	}
	if err != nil {
		webapi.ServerError(w, h.Log, "events: roster lookup failed", err)
		return
	}
	if !authz.IsOwnerOrAdmin(r, ev.Organizer) {
		webapi.Forbidden(w, "Only the organizer can view registrations")
		return
	}

	roster, err := h.RSVP.Roster(ctx, eventID)
	if err != nil {
		webapi.ServerError(w, h.Log, "events: roster failed", err)
		return
	}
	webapi.OK(w, map[string]any{
		"registrations": roster,
		"count":         len(roster),
	})
}

// writeRSVPError maps coordinator failures onto the API error taxonomy:
// capacity and duplicate conflicts are 409, rule and deadline denials
// are 403, and each denial carries its machine-readable reason.
func (h *Handler) writeRSVPError(w http.ResponseWriter, err error) {
	if de, ok := rsvp.Denied(err); ok {
		status := http.StatusForbidden
		switch de.Reason {
		case eligibility.ReasonEventFull, eligibility.ReasonAlreadyRegistered:
			status = http.StatusConflict
		}
		webapi.Denied(w, status, string(de.Reason), denialMessage(de.Reason))
		return
	}

	switch err {
	case rsvp.ErrEventNotFound:
		webapi.NotFound(w, "Event not found")
	case rsvp.ErrAccountNotFound:
		webapi.NotFound(w, "Account not found")
	case rsvp.ErrNotAStudent:
		webapi.Forbidden(w, "Only students can register for events")
	case rsvp.ErrEventInactive:
		webapi.Forbidden(w, "Event is no longer active")
	default:
		webapi.ServerError(w, h.Log, "events: rsvp failed", err)
	}
}

func denialMessage(reason eligibility.Reason) string {
	switch reason {
	case eligibility.ReasonNotEligibleBranch:
		return "Your branch is not eligible for this event"
	case eligibility.ReasonNotEligibleYear:
		return "Your year is not eligible for this event"
	case eligibility.ReasonNotEligibleCourseType:
		return "Your course type is not eligible for this event"
	case eligibility.ReasonAlreadyRegistered:
		return "You are already registered for this event"
	case eligibility.ReasonEventFull:
		return "This event is full"
	case eligibility.ReasonDeadlinePassed:
		return "The registration deadline has passed"
	}
	return "Registration denied"
}

func (h *Handler) eventID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "eventID"))
	if err != nil {
		webapi.BadRequest(w, "Invalid event ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

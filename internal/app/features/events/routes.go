// internal/app/features/events/routes.go
package events

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for event endpoints.
// Browsing is open to any signed-in account. Creation is club-only;
// mutations are organizer-gated in the handlers; RSVPs are student-only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/{eventID}", h.ServeDetail)
		pr.Get("/{eventID}/registrations", h.ServeRegistrations)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("club", "admin"))

		pr.Post("/", h.ServeCreate)
		pr.Put("/{eventID}", h.ServeUpdate)
		pr.Delete("/{eventID}", h.ServeDelete)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("student"))

		pr.Post("/{eventID}/rsvp", h.ServeRSVP)
		pr.Delete("/{eventID}/rsvp", h.ServeCancelRSVP)
	})

	return r
}

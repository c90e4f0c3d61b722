// internal/app/features/posts/routes.go
package posts

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for forum post endpoints. Every route
// requires a signed-in account; authorship gates live in the handlers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.ServeCreate)
		pr.Get("/{postID}", h.ServeDetail)
		pr.Put("/{postID}", h.ServeUpdate)
		pr.Delete("/{postID}", h.ServeDelete)

		pr.Post("/{postID}/vote", h.ServeVote)
		pr.Delete("/{postID}/vote", h.ServeUnvote)

		pr.Get("/{postID}/comments", h.ServeComments)
		pr.Post("/{postID}/comments", h.ServeCreateComment)
	})

	return r
}

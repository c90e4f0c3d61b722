// internal/app/features/comments/routes.go
package comments

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for direct comment endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Delete("/{commentID}", h.ServeDelete)
		pr.Post("/{commentID}/vote", h.ServeVote)
		pr.Delete("/{commentID}/vote", h.ServeUnvote)
	})

	return r
}

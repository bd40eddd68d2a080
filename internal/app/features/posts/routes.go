// internal/app/features/posts/routes.go
package posts

import (
	"github.com/go-chi/chi/v5"
	"github.com/shelfshare/shelfshare/internal/app/system/auth"
)

// MountRoutes registers the post endpoints on the /api router.
func MountRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Get("/posts", h.ServeList)

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSignedIn)
		r.Post("/posts", h.ServeCreate)
		r.Patch("/posts/{id}", h.ServeUpdate)
		r.Delete("/posts/{id}", h.ServeDelete)
	})
}

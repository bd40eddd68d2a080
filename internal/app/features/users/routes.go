// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"
	"github.com/shelfshare/shelfshare/internal/app/system/auth"
)

// MountRoutes registers the user endpoints on the /api router.
func MountRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Get("/users", h.ServeList)
	r.Get("/users/{username}", h.ServeGet)
	r.Post("/users", h.ServeCreate)
	r.With(sm.RequireSignedIn).Patch("/users", h.ServeUpdate)
	r.With(sm.RequireSignedIn).Delete("/users", h.ServeDelete)
}

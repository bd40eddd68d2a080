// internal/app/features/lists/routes.go
package lists

import (
	"github.com/go-chi/chi/v5"
	"github.com/shelfshare/shelfshare/internal/app/system/auth"
)

// MountRoutes registers the reading-list endpoints on the /api router.
// Lists are private to their owner, so everything requires a session.
func MountRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSignedIn)
		r.Post("/list", h.ServeCreate)
		r.Get("/list", h.ServeListMine)
		r.Patch("/list/add", h.ServeAddBook)
		r.Patch("/list/remove", h.ServeRemoveBook)
		r.Delete("/list", h.ServeDelete)
	})
}

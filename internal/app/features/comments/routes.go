// internal/app/features/comments/routes.go
package comments

import (
	"github.com/go-chi/chi/v5"
	"github.com/shelfshare/shelfshare/internal/app/system/auth"
)

// MountRoutes registers the comment endpoints on the /api router.
func MountRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Get("/comments", h.ServeListByGroup)

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSignedIn)
		r.Post("/comments", h.ServeCreate)
		r.Post("/comments/reply", h.ServeReply)
		r.Delete("/comments", h.ServeDelete)
		r.Get("/comments/user", h.ServeListMine)
	})
}

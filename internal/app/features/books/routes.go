// internal/app/features/books/routes.go
package books

import (
	"github.com/go-chi/chi/v5"
	"github.com/shelfshare/shelfshare/internal/app/system/auth"
)

// MountRoutes registers the book endpoints on the /api router.
func MountRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Get("/book", h.ServeList)
	r.Get("/book/title/{title}", h.ServeGetByTitle)

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSignedIn)
		r.Post("/book", h.ServeAdd)
		r.Patch("/book/add/{title}/group/{name}", h.ServeAttachGroup)
		r.Patch("/book/remove/{title}/group/{name}", h.ServeDetachGroup)
	})
}

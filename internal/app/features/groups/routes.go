// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"
	"github.com/shelfshare/shelfshare/internal/app/system/auth"
)

// MountRoutes registers the group endpoints on the /api router. Reads
// are public; every mutation requires a signed-in caller.
func MountRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Get("/groups", h.ServeListAll)
	r.Get("/groups/name/{name}", h.ServeGetByName)

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSignedIn)
		r.Post("/groups", h.ServeCreate)
		r.Post("/groups/name/{name}", h.ServeJoin)
		r.Patch("/groups/leave", h.ServeLeave)
		r.Patch("/groups/remove", h.ServeRemoveMember)
		r.Patch("/groups/admin", h.ServeChangeAdmin)
		r.Patch("/groups/group", h.ServeRename)
		r.Delete("/groups", h.ServeDelete)
		r.Get("/groups/session", h.ServeListMine)
		r.Get("/groups/admin", h.ServeListAdmin)
	})
}

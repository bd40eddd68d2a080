// internal/app/features/friends/routes.go
package friends

import (
	"github.com/go-chi/chi/v5"
	"github.com/shelfshare/shelfshare/internal/app/system/auth"
)

// MountRoutes registers the friend endpoints on the /api router. All of
// them act on behalf of the signed-in caller.
func MountRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSignedIn)
		r.Get("/friends", h.ServeList)
		r.Delete("/friends/{friend}", h.ServeRemoveFriend)
		r.Get("/friend/requests", h.ServeListRequests)
		r.Post("/friend/requests/{to}", h.ServeSendRequest)
		r.Delete("/friend/requests/{to}", h.ServeRemoveRequest)
		r.Put("/friend/accept/{from}", h.ServeAccept)
		r.Put("/friend/reject/{from}", h.ServeReject)
	})
}

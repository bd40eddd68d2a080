// internal/app/features/session/routes.go
package session

import (
	"github.com/go-chi/chi/v5"
	"github.com/shelfshare/shelfshare/internal/app/system/auth"
)

// MountRoutes registers the session endpoints on the /api router.
func MountRoutes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Post("/login", h.ServeLogin)
	r.Post("/logout", h.ServeLogout)
	r.With(sm.RequireSignedIn).Get("/session", h.ServeCurrent)
}

// internal/app/features/users/handler.go
package users

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	sessionstore "github.com/shelfshare/shelfshare/internal/app/store/sessions"
	userstore "github.com/shelfshare/shelfshare/internal/app/store/users"
	"github.com/shelfshare/shelfshare/internal/app/system/auth"
	"github.com/shelfshare/shelfshare/internal/app/system/authz"
	"github.com/shelfshare/shelfshare/internal/app/system/httpjson"
	"github.com/shelfshare/shelfshare/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler owns account management: registration, lookup, profile
// updates, and account deletion.
type Handler struct {
	Users    *userstore.Store
	Sessions *sessionstore.Store
	SM       *auth.SessionManager
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, sessions *sessionstore.Store, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Sessions: sessions, SM: sm, Log: logger}
}

type userBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ServeList handles GET /api/users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "All users", "users", users)
}

// ServeGet handles GET /api/users/{username}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, chi.URLParam(r, "username"))
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "User found", "user", u)
}

// ServeCreate handles POST /api/users. Registration is open only to
// signed-out callers; an active session must log out first.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, ok := auth.CurrentUser(r); ok {
		httpjson.Error(w, http.StatusForbidden, "log out before creating a new account")
		return
	}

	var body userBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	u, err := h.Users.Create(ctx, body.Username, body.Password)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	h.Log.Info("user registered", zap.String("username", u.Username))
	httpjson.MsgWith(w, http.StatusCreated, "User created successfully!", "user", u)
}

// ServeUpdate handles PATCH /api/users for the acting user. Blank
// fields are left unchanged.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var body userBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	u, err := h.Users.Update(ctx, userID, body.Username, body.Password)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "User updated successfully!", "user", u)
}

// ServeDelete handles DELETE /api/users: the acting user deletes their
// own account. The session ends first so a failed delete cannot leave a
// live session for a half-removed account.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	username, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	token := h.SM.SignOut(w, r)
	if err := h.Sessions.End(ctx, token); err != nil {
		h.Log.Warn("could not close login session record", zap.Error(err))
	}

	if _, err := h.Users.Delete(ctx, userID); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	h.Log.Info("user deleted own account", zap.String("username", username))
	httpjson.Msg(w, http.StatusOK, "User deleted!")
}

// internal/app/features/session/handler.go
package session

import (
	"context"
	"net/http"

	sessionstore "github.com/shelfshare/shelfshare/internal/app/store/sessions"
	userstore "github.com/shelfshare/shelfshare/internal/app/store/users"
	"github.com/shelfshare/shelfshare/internal/app/system/auth"
	"github.com/shelfshare/shelfshare/internal/app/system/authz"
	"github.com/shelfshare/shelfshare/internal/app/system/httpjson"
	"github.com/shelfshare/shelfshare/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler owns login, logout, and the current-session lookup.
type Handler struct {
	Users    *userstore.Store
	Sessions *sessionstore.Store
	SM       *auth.SessionManager
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, sessions *sessionstore.Store, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Sessions: sessions, SM: sm, Log: logger}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ServeLogin handles POST /api/login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var creds credentials
	if err := httpjson.Decode(r, &creds); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	u, err := h.Users.Authenticate(ctx, creds.Username, creds.Password)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	token, err := h.Sessions.Start(ctx, u)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	err = h.SM.SignIn(w, r, &auth.SessionUser{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Token:    token,
	})
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not establish session")
		return
	}

	h.Log.Info("user logged in", zap.String("username", u.Username))
	httpjson.Msg(w, http.StatusOK, "Logged in!")
}

// ServeLogout handles POST /api/logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	token := h.SM.SignOut(w, r)
	if err := h.Sessions.End(ctx, token); err != nil {
		h.Log.Warn("could not close login session record", zap.Error(err))
	}
	httpjson.Msg(w, http.StatusOK, "Logged out!")
}

// ServeCurrent handles GET /api/session and returns the acting user.
func (h *Handler) ServeCurrent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Current session", "user", u)
}

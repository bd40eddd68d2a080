// internal/app/features/friends/handler.go
package friends

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	friendstore "github.com/shelfshare/shelfshare/internal/app/store/friends"
	userstore "github.com/shelfshare/shelfshare/internal/app/store/users"
	"github.com/shelfshare/shelfshare/internal/app/system/authz"
	"github.com/shelfshare/shelfshare/internal/app/system/httpjson"
	"github.com/shelfshare/shelfshare/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler exposes friendships and friend requests. URL parameters name
// the other party by username; resolution to ids happens here.
type Handler struct {
	Friends *friendstore.Store
	Users   *userstore.Store
	Log     *zap.Logger
}

func NewHandler(friends *friendstore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Friends: friends, Users: users, Log: logger}
}

func (h *Handler) resolve(ctx context.Context, username string) (primitive.ObjectID, error) {
	u, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return u.ID, nil
}

// ServeList handles GET /api/friends: the caller's friends as usernames.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	ids, err := h.Friends.Friends(ctx, userID)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	names, err := h.Users.UsernamesByID(ctx, ids)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	friends := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			friends = append(friends, name)
		}
	}
	httpjson.MsgWith(w, http.StatusOK, "Your friends", "friends", friends)
}

// ServeRemoveFriend handles DELETE /api/friends/{friend}.
func (h *Handler) ServeRemoveFriend(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	friendID, err := h.resolve(ctx, chi.URLParam(r, "friend"))
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	if err := h.Friends.RemoveFriend(ctx, userID, friendID); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.Msg(w, http.StatusOK, "Friend removed")
}

// ServeListRequests handles GET /api/friend/requests: requests waiting
// on the caller.
func (h *Handler) ServeListRequests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	reqs, err := h.Friends.Requests(ctx, userID)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Pending requests", "requests", reqs)
}

// ServeSendRequest handles POST /api/friend/requests/{to}.
func (h *Handler) ServeSendRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	toID, err := h.resolve(ctx, chi.URLParam(r, "to"))
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	req, err := h.Friends.SendRequest(ctx, userID, toID)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusCreated, "Friend request sent!", "request", req)
}

// ServeRemoveRequest handles DELETE /api/friend/requests/{to}: the
// caller withdraws their own pending request.
func (h *Handler) ServeRemoveRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	toID, err := h.resolve(ctx, chi.URLParam(r, "to"))
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	if err := h.Friends.RemoveRequest(ctx, userID, toID); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.Msg(w, http.StatusOK, "Friend request withdrawn")
}

// ServeAccept handles PUT /api/friend/accept/{from}.
func (h *Handler) ServeAccept(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	fromID, err := h.resolve(ctx, chi.URLParam(r, "from"))
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	if err := h.Friends.AcceptRequest(ctx, fromID, userID); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.Msg(w, http.StatusOK, "Friend request accepted!")
}

// ServeReject handles PUT /api/friend/reject/{from}.
func (h *Handler) ServeReject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	fromID, err := h.resolve(ctx, chi.URLParam(r, "from"))
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	if err := h.Friends.RejectRequest(ctx, fromID, userID); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.Msg(w, http.StatusOK, "Friend request rejected")
}

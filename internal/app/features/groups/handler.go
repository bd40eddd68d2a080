// internal/app/features/groups/handler.go
package groups

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	commentstore "github.com/shelfshare/shelfshare/internal/app/store/comments"
	groupstore "github.com/shelfshare/shelfshare/internal/app/store/groups"
	userstore "github.com/shelfshare/shelfshare/internal/app/store/users"
	"github.com/shelfshare/shelfshare/internal/app/system/authz"
	"github.com/shelfshare/shelfshare/internal/app/system/httpjson"
	"github.com/shelfshare/shelfshare/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler exposes the group registry over HTTP. Group deletion also
// sweeps the group's comments so none are orphaned; the two stores stay
// single-collection and this handler does the orchestration.
type Handler struct {
	Groups   *groupstore.Store
	Comments *commentstore.Store
	Users    *userstore.Store
	Log      *zap.Logger
}

func NewHandler(groups *groupstore.Store, comments *commentstore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Groups: groups, Comments: comments, Users: users, Log: logger}
}

type groupBody struct {
	Name    string `json:"name"`
	NewName string `json:"new_name"`
	// Member and Admin are usernames, resolved server-side.
	Member string `json:"member"`
	Admin  string `json:"admin"`
}

// ServeCreate handles POST /api/groups.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var body groupBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	g, err := h.Groups.Create(ctx, userID, body.Name)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	h.Log.Info("group created", zap.String("name", g.Name))
	httpjson.MsgWith(w, http.StatusCreated, "Group created!", "group", g)
}

// ServeGetByName handles GET /api/groups/name/{name}.
func (h *Handler) ServeGetByName(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByName(ctx, chi.URLParam(r, "name"))
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Group found", "group", g)
}

// ServeJoin handles POST /api/groups/name/{name}.
func (h *Handler) ServeJoin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	g, joined, err := h.Groups.Join(ctx, userID, chi.URLParam(r, "name"))
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	msg := "Joined the group!"
	if !joined {
		msg = "Already a member of this group"
	}
	httpjson.MsgWith(w, http.StatusOK, msg, "group", g)
}

// ServeLeave handles PATCH /api/groups/leave.
func (h *Handler) ServeLeave(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var body groupBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	g, err := h.Groups.Leave(ctx, userID, body.Name)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Left the group", "group", g)
}

// ServeRemoveMember handles PATCH /api/groups/remove. The acting admin
// names the member to remove.
func (h *Handler) ServeRemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var body groupBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	target, err := h.Users.GetByUsername(ctx, body.Member)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	g, err := h.Groups.RemoveMember(ctx, userID, target.ID, body.Name)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Member removed", "group", g)
}

// ServeChangeAdmin handles PATCH /api/groups/admin.
func (h *Handler) ServeChangeAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var body groupBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	newAdmin, err := h.Users.GetByUsername(ctx, body.Admin)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	g, err := h.Groups.ChangeAdmin(ctx, userID, newAdmin.ID, body.Name)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Admin changed", "group", g)
}

// ServeRename handles PATCH /api/groups/group.
func (h *Handler) ServeRename(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var body groupBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	g, err := h.Groups.Rename(ctx, userID, body.Name, body.NewName)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Group renamed", "group", g)
}

// ServeDelete handles DELETE /api/groups. After the group document is
// gone its comments are swept; a failed sweep is logged, not surfaced,
// since the group deletion itself already committed.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var body groupBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	g, err := h.Groups.Delete(ctx, userID, body.Name)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	swept, err := h.Comments.DeleteByGroup(ctx, g.ID)
	if err != nil {
		h.Log.Error("comment sweep after group delete failed",
			zap.String("group", g.Name),
			zap.Error(err))
	} else if swept > 0 {
		h.Log.Info("group comments swept",
			zap.String("group", g.Name),
			zap.Int64("deleted", swept))
	}

	httpjson.Msg(w, http.StatusOK, "Group deleted")
}

// ServeListAll handles GET /api/groups.
func (h *Handler) ServeListAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := h.Groups.ListAll(ctx)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "All groups", "groups", groups)
}

// ServeListMine handles GET /api/groups/session: the caller's groups.
func (h *Handler) ServeListMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	groups, err := h.Groups.ListForUser(ctx, userID)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Your groups", "groups", groups)
}

// ServeListAdmin handles GET /api/groups/admin: groups the caller
// administers.
func (h *Handler) ServeListAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	groups, err := h.Groups.ListAdministeredBy(ctx, userID)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Groups you administer", "groups", groups)
}

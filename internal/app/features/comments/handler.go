// internal/app/features/comments/handler.go
package comments

import (
	"context"
	"net/http"

	commentstore "github.com/shelfshare/shelfshare/internal/app/store/comments"
	"github.com/shelfshare/shelfshare/internal/app/system/authz"
	"github.com/shelfshare/shelfshare/internal/app/system/httpjson"
	"github.com/shelfshare/shelfshare/internal/app/system/normalize"
	"github.com/shelfshare/shelfshare/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler exposes the comment forest over HTTP.
type Handler struct {
	Comments *commentstore.Store
	Log      *zap.Logger
}

func NewHandler(comments *commentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Comments: comments, Log: logger}
}

type commentBody struct {
	Body string `json:"body"`
	// Group, Parent, and ID are ObjectID hex strings.
	Group  string `json:"group"`
	Parent string `json:"parent"`
	ID     string `json:"id"`
}

// ServeCreate handles POST /api/comments: a new top-level comment.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var body commentBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	group, err := primitive.ObjectIDFromHex(body.Group)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "group must be a valid id")
		return
	}

	c, err := h.Comments.Create(ctx, userID, body.Body, group)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusCreated, "Comment posted!", "comment", c)
}

// ServeReply handles POST /api/comments/reply.
func (h *Handler) ServeReply(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var body commentBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	group, err := primitive.ObjectIDFromHex(body.Group)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "group must be a valid id")
		return
	}
	parent, err := primitive.ObjectIDFromHex(body.Parent)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "parent must be a valid id")
		return
	}

	c, err := h.Comments.Reply(ctx, userID, body.Body, parent, group)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusCreated, "Reply posted!", "comment", c)
}

// ServeDelete handles DELETE /api/comments: removes the comment and its
// whole subtree.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var body commentBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(body.ID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "id must be a valid id")
		return
	}

	deleted, err := h.Comments.Remove(ctx, id, userID)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	h.Log.Info("comment subtree deleted", zap.Int64("count", deleted))
	httpjson.MsgWith(w, http.StatusOK, "Comment deleted", "deleted", deleted)
}

// ServeListByGroup handles GET /api/comments?group=<id>.
func (h *Handler) ServeListByGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	raw := normalize.QueryParam(r.URL.Query().Get("group"))
	group, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "group must be a valid id")
		return
	}

	comments, err := h.Comments.ListByGroup(ctx, group)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Group comments", "comments", comments)
}

// ServeListMine handles GET /api/comments/user: the caller's comments
// across all groups.
func (h *Handler) ServeListMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	comments, err := h.Comments.ListByAuthor(ctx, userID)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Your comments", "comments", comments)
}

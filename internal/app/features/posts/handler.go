// internal/app/features/posts/handler.go
package posts

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	poststore "github.com/shelfshare/shelfshare/internal/app/store/posts"
	userstore "github.com/shelfshare/shelfshare/internal/app/store/users"
	"github.com/shelfshare/shelfshare/internal/app/system/authz"
	"github.com/shelfshare/shelfshare/internal/app/system/httpjson"
	"github.com/shelfshare/shelfshare/internal/app/system/normalize"
	"github.com/shelfshare/shelfshare/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler exposes the public post feed.
type Handler struct {
	Posts *poststore.Store
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(posts *poststore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Posts: posts, Users: users, Log: logger}
}

type postBody struct {
	Content string `json:"content"`
}

// ServeList handles GET /api/posts, optionally filtered by ?author=
// (a username).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	author := normalize.QueryParam(r.URL.Query().Get("author"))
	if author == "" {
		posts, err := h.Posts.ListAll(ctx)
		if err != nil {
			httpjson.FromError(w, h.Log, err)
			return
		}
		httpjson.MsgWith(w, http.StatusOK, "All posts", "posts", posts)
		return
	}

	u, err := h.Users.GetByUsername(ctx, author)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	posts, err := h.Posts.ListByAuthor(ctx, u.ID)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Posts by "+u.Username, "posts", posts)
}

// ServeCreate handles POST /api/posts.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var body postBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	p, err := h.Posts.Create(ctx, userID, body.Content)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusCreated, "Post created!", "post", p)
}

// ServeUpdate handles PATCH /api/posts/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "post id must be a valid id")
		return
	}

	var body postBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	p, err := h.Posts.Update(ctx, id, userID, body.Content)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Post updated", "post", p)
}

// ServeDelete handles DELETE /api/posts/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "post id must be a valid id")
		return
	}

	if err := h.Posts.Delete(ctx, id, userID); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.Msg(w, http.StatusOK, "Post deleted")
}

// internal/app/features/lists/handler.go
package lists

import (
	"context"
	"net/http"

	bookstore "github.com/shelfshare/shelfshare/internal/app/store/books"
	liststore "github.com/shelfshare/shelfshare/internal/app/store/lists"
	"github.com/shelfshare/shelfshare/internal/app/system/authz"
	"github.com/shelfshare/shelfshare/internal/app/system/httpjson"
	"github.com/shelfshare/shelfshare/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler exposes personal reading lists. Books are referenced by title
// and resolved against the catalog.
type Handler struct {
	Lists *liststore.Store
	Books *bookstore.Store
	Log   *zap.Logger
}

func NewHandler(lists *liststore.Store, books *bookstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Lists: lists, Books: books, Log: logger}
}

type listBody struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// ServeCreate handles POST /api/list.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var body listBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	l, err := h.Lists.Create(ctx, userID, body.Name)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusCreated, "Reading list created!", "list", l)
}

// ServeListMine handles GET /api/list: the caller's reading lists.
func (h *Handler) ServeListMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	lists, err := h.Lists.ListForOwner(ctx, userID)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Your reading lists", "lists", lists)
}

// ServeAddBook handles PATCH /api/list/add.
func (h *Handler) ServeAddBook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var body listBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	b, err := h.Books.GetByTitle(ctx, body.Title)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	l, err := h.Lists.AddBook(ctx, userID, body.Name, b.ID)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Book added to list", "list", l)
}

// ServeRemoveBook handles PATCH /api/list/remove.
func (h *Handler) ServeRemoveBook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var body listBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	b, err := h.Books.GetByTitle(ctx, body.Title)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	l, err := h.Lists.RemoveBook(ctx, userID, body.Name, b.ID)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Book removed from list", "list", l)
}

// ServeDelete handles DELETE /api/list.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var body listBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	if err := h.Lists.Delete(ctx, userID, body.Name); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.Msg(w, http.StatusOK, "Reading list deleted")
}

// internal/app/features/books/handler.go
package books

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	bookstore "github.com/shelfshare/shelfshare/internal/app/store/books"
	groupstore "github.com/shelfshare/shelfshare/internal/app/store/groups"
	"github.com/shelfshare/shelfshare/internal/app/system/authz"
	"github.com/shelfshare/shelfshare/internal/app/system/httpjson"
	"github.com/shelfshare/shelfshare/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler exposes the shared book catalog. Attach/detach operations
// reference groups by name and resolve them here.
type Handler struct {
	Books  *bookstore.Store
	Groups *groupstore.Store
	Log    *zap.Logger
}

func NewHandler(books *bookstore.Store, groups *groupstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Books: books, Groups: groups, Log: logger}
}

type bookBody struct {
	Title string `json:"title"`
}

// ServeAdd handles POST /api/book.
func (h *Handler) ServeAdd(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var body bookBody
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	b, err := h.Books.Add(ctx, userID, body.Title)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusCreated, "Book added to the catalog!", "book", b)
}

// ServeList handles GET /api/book.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	books, err := h.Books.ListAll(ctx)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Catalog", "books", books)
}

// ServeGetByTitle handles GET /api/book/title/{title}.
func (h *Handler) ServeGetByTitle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, err := h.Books.GetByTitle(ctx, chi.URLParam(r, "title"))
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Book found", "book", b)
}

// ServeAttachGroup handles PATCH /api/book/add/{title}/group/{name}:
// marks the named group as reading the book.
func (h *Handler) ServeAttachGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByName(ctx, chi.URLParam(r, "name"))
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	b, err := h.Books.AttachGroup(ctx, chi.URLParam(r, "title"), g.ID)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Group attached to book", "book", b)
}

// ServeDetachGroup handles PATCH /api/book/remove/{title}/group/{name}.
func (h *Handler) ServeDetachGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByName(ctx, chi.URLParam(r, "name"))
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}

	b, err := h.Books.DetachGroup(ctx, chi.URLParam(r, "title"), g.ID)
	if err != nil {
		httpjson.FromError(w, h.Log, err)
		return
	}
	httpjson.MsgWith(w, http.StatusOK, "Group detached from book", "book", b)
}

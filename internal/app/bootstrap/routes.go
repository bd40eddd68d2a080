// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	booksfeature "github.com/shelfshare/shelfshare/internal/app/features/books"
	commentsfeature "github.com/shelfshare/shelfshare/internal/app/features/comments"
	friendsfeature "github.com/shelfshare/shelfshare/internal/app/features/friends"
	groupsfeature "github.com/shelfshare/shelfshare/internal/app/features/groups"
	healthfeature "github.com/shelfshare/shelfshare/internal/app/features/health"
	listsfeature "github.com/shelfshare/shelfshare/internal/app/features/lists"
	postsfeature "github.com/shelfshare/shelfshare/internal/app/features/posts"
	sessionfeature "github.com/shelfshare/shelfshare/internal/app/features/session"
	usersfeature "github.com/shelfshare/shelfshare/internal/app/features/users"
	bookstore "github.com/shelfshare/shelfshare/internal/app/store/books"
	commentstore "github.com/shelfshare/shelfshare/internal/app/store/comments"
	friendstore "github.com/shelfshare/shelfshare/internal/app/store/friends"
	groupstore "github.com/shelfshare/shelfshare/internal/app/store/groups"
	liststore "github.com/shelfshare/shelfshare/internal/app/store/lists"
	poststore "github.com/shelfshare/shelfshare/internal/app/store/posts"
	sessionstore "github.com/shelfshare/shelfshare/internal/app/store/sessions"
	userstore "github.com/shelfshare/shelfshare/internal/app/store/users"
	"github.com/shelfshare/shelfshare/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. ShelfShare applies session middleware,
// mounts the JSON API under /api, and serves the test console from public/.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. Deleted accounts and username changes take effect
	// immediately instead of at the next login.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	users := userstore.New(db)
	groups := groupstore.New(db)
	comments := commentstore.New(db, groups)
	friends := friendstore.New(db)
	posts := poststore.New(db)
	books := bookstore.New(db)
	lists := liststore.New(db)
	sessions := sessionstore.New(db)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// JSON API
	r.Route("/api", func(api chi.Router) {
		sessionfeature.MountRoutes(api, sessionfeature.NewHandler(users, sessions, sessionMgr, logger), sessionMgr)
		usersfeature.MountRoutes(api, usersfeature.NewHandler(users, sessions, sessionMgr, logger), sessionMgr)
		friendsfeature.MountRoutes(api, friendsfeature.NewHandler(friends, users, logger), sessionMgr)
		postsfeature.MountRoutes(api, postsfeature.NewHandler(posts, users, logger), sessionMgr)
		groupsfeature.MountRoutes(api, groupsfeature.NewHandler(groups, comments, users, logger), sessionMgr)
		commentsfeature.MountRoutes(api, commentsfeature.NewHandler(comments, logger), sessionMgr)
		booksfeature.MountRoutes(api, booksfeature.NewHandler(books, groups, logger), sessionMgr)
		listsfeature.MountRoutes(api, listsfeature.NewHandler(lists, books, logger), sessionMgr)
	})

	// Browser test console with pre-compressed file support (gzip/brotli)
	r.Handle("/*", fileserver.Handler("/", "public"))

	return r, nil
}

// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authfeature "github.com/dalemusser/campushub/internal/app/features/auth"
	commentsfeature "github.com/dalemusser/campushub/internal/app/features/comments"
	eventsfeature "github.com/dalemusser/campushub/internal/app/features/events"
	healthfeature "github.com/dalemusser/campushub/internal/app/features/health"
	postsfeature "github.com/dalemusser/campushub/internal/app/features/posts"
	commentstore "github.com/dalemusser/campushub/internal/app/store/comments"
	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	poststore "github.com/dalemusser/campushub/internal/app/store/posts"
	"github.com/dalemusser/campushub/internal/app/store/queries/rsvp"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// CampusHub builds the token issuer/verifier from the configured signing
// key, constructs one store per collection, and mounts the JSON feature
// routers: auth (public), events, posts, comments, and health. Token
// verification runs globally; each feature router decides whether a
// signed-in user (or a particular role) is required.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	issuer, err := auth.NewIssuer(appCfg.TokenKey, appCfg.TokenTTL)
	if err != nil {
		logger.Error("token issuer init failed", zap.Error(err))
		return nil, err
	}
	verifier, err := auth.NewVerifier(appCfg.TokenKey)
	if err != nil {
		logger.Error("token verifier init failed", zap.Error(err))
		return nil, err
	}

	db := deps.CampusHubMongoDatabase

	users := userstore.New(db)
	events := eventstore.New(db)
	posts := poststore.New(db)
	comments := commentstore.New(db, logger)
	coordinator := rsvp.NewCoordinator(db, logger)

	r := chi.NewRouter()

	// Global auth middleware: parses the bearer token (when present) and
	// puts the AuthUser in context. RequireSignedIn / RequireRole inside
	// each feature router decide whether anonymous requests get through.
	r.Use(verifier.LoadTokenUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.CampusHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Registration and login (public, throttled, audited)
	limits := ratelimit.NewAuthLimiter()
	audit := auditlog.New(db, appCfg.AuditLog, logger)
	authHandler := authfeature.NewHandler(users, issuer, limits, audit, logger)
	r.Mount("/auth", authfeature.Routes(authHandler))

	// Campus events and RSVPs
	eventsHandler := eventsfeature.NewHandler(events, users, coordinator, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler))

	// Forum posts, votes, and post-scoped comments
	postsHandler := postsfeature.NewHandler(posts, comments, logger)
	r.Mount("/posts", postsfeature.Routes(postsHandler))

	// Direct comment endpoints (delete, vote)
	commentsHandler := commentsfeature.NewHandler(comments, logger)
	r.Mount("/comments", commentsfeature.Routes(commentsHandler))

	return r, nil
}

// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	apistatsfeature "github.com/dalemusser/strataclub/internal/app/features/apistats"
	auditfeature "github.com/dalemusser/strataclub/internal/app/features/auditlog"
	clubfeature "github.com/dalemusser/strataclub/internal/app/features/club"
	dashboardfeature "github.com/dalemusser/strataclub/internal/app/features/dashboard"
	eventsfeature "github.com/dalemusser/strataclub/internal/app/features/events"
	financefeature "github.com/dalemusser/strataclub/internal/app/features/finance"
	healthfeature "github.com/dalemusser/strataclub/internal/app/features/health"
	inventoryfeature "github.com/dalemusser/strataclub/internal/app/features/inventory"
	jobsfeature "github.com/dalemusser/strataclub/internal/app/features/jobs"
	ledgerfeature "github.com/dalemusser/strataclub/internal/app/features/ledger"
	notificationsfeature "github.com/dalemusser/strataclub/internal/app/features/notifications"
	paymentsfeature "github.com/dalemusser/strataclub/internal/app/features/payments"
	postsfeature "github.com/dalemusser/strataclub/internal/app/features/posts"
	registrationsfeature "github.com/dalemusser/strataclub/internal/app/features/registrations"
	usersfeature "github.com/dalemusser/strataclub/internal/app/features/users"
	statsstore "github.com/dalemusser/strataclub/internal/app/store/apistats"
	"github.com/dalemusser/strataclub/internal/app/store/audit"
	ledgerstore "github.com/dalemusser/strataclub/internal/app/store/ledger"
	"github.com/dalemusser/strataclub/internal/app/store/ratelimit"
	"github.com/dalemusser/strataclub/internal/app/system/apicors"
	"github.com/dalemusser/strataclub/internal/app/system/apistats"
	"github.com/dalemusser/strataclub/internal/app/system/auditlog"
	"github.com/dalemusser/strataclub/internal/app/system/chatrelay"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/dalemusser/strataclub/internal/app/system/ledger"
	"github.com/dalemusser/strataclub/internal/app/system/uploads"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. Every JSON route lives under /api, authenticated
// with bearer tokens and served with permissive CORS. Health probes and
// uploaded files are served at the root.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase
	issuer := jwtauth.NewIssuer(appCfg.JWTSecret, appCfg.JWTExpiry)
	up := uploads.New(deps.FileStorage, logger)

	// Login lockout (nil if disabled)
	var limiter *ratelimit.Store
	if appCfg.RateLimitEnabled {
		limiter = ratelimit.New(db, ratelimit.Policy{
			MaxAttempts: appCfg.RateLimitLoginAttempts,
			Window:      appCfg.RateLimitLoginWindow,
			Lockout:     appCfg.RateLimitLoginLockout,
		})
	}

	trail := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	// A nil *chatrelay.Client must reach the finance handler as a nil
	// interface so the chat route reports it as unconfigured.
	var chat chatrelay.Completer
	if deps.Chat != nil {
		chat = deps.Chat
	}

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORSFromConfig(coreCfg))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// ─────────────────────────────────────────────────────────────────────────────
	// JSON API
	// Every request is counted in the per-route API stats. Failed requests
	// are also written to the request ledger for admins to review.
	// ─────────────────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {
		r.Use(apicors.Middleware(appCfg.APIAllowedOrigins...))
		r.Use(apistats.Middleware(apistats.Config{
			Store:          statsstore.New(db),
			Logger:         logger,
			BucketDuration: appCfg.APIStatsBucket,
		}))
		r.Use(ledger.Middleware(ledger.Config{
			Store:        ledgerstore.New(db),
			Logger:       logger,
			ExcludePaths: []string{"/api/ledger"},
		}))

		usersfeature.MountRoutes(r, usersfeature.NewHandler(db, issuer, deps.Mailer, up, limiter, trail, usersfeature.Config{
			FrontendURL:   appCfg.FrontendURL,
			AccountExpiry: appCfg.AccountExpiry,
			VerifyExpiry:  appCfg.EmailVerifyExpiry,
		}, logger), issuer)

		eventsfeature.MountRoutes(r, eventsfeature.NewHandler(db, up, deps.Cache, logger), issuer)
		registrationsfeature.MountRoutes(r, registrationsfeature.NewHandler(db, up, deps.Mailer, logger), issuer)
		clubfeature.MountRoutes(r, clubfeature.NewHandler(db, up, deps.Cache, logger), issuer)
		postsfeature.MountRoutes(r, postsfeature.NewHandler(db, up, logger), issuer)
		financefeature.MountRoutes(r, financefeature.NewHandler(db, chat, logger), issuer)
		inventoryfeature.MountRoutes(r, inventoryfeature.NewHandler(db, logger), issuer)
		notificationsfeature.MountRoutes(r, notificationsfeature.NewHandler(db, logger), issuer)

		paymentsfeature.MountRoutes(r, paymentsfeature.NewHandler(deps.Checkout, paymentsfeature.Config{
			FrontendURL: appCfg.FrontendURL,
			Currency:    appCfg.StripeCurrency,
		}, logger), issuer)

		ledgerfeature.MountRoutes(r, ledgerfeature.NewHandler(db, logger), issuer)
		dashboardfeature.MountRoutes(r, dashboardfeature.NewHandler(db, logger), issuer)
		apistatsfeature.MountRoutes(r, apistatsfeature.NewHandler(db, logger), issuer)
		auditfeature.MountRoutes(r, auditfeature.NewHandler(db, logger), issuer)
		if taskRunner != nil {
			jobsfeature.MountRoutes(r, jobsfeature.NewHandler(taskRunner, logger), issuer)
		}

		r.NotFound(func(w http.ResponseWriter, req *http.Request) {
			jsonutil.NotFound(w, "Route not found")
		})
	})

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Cache, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Uploaded files (local storage only)
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		jsonutil.NotFound(w, "Route not found")
	})

	logger.Info("routes mounted",
		zap.Bool("cache_enabled", deps.Cache.Enabled()),
		zap.Bool("chat_enabled", chat != nil),
		zap.Bool("login_rate_limit", limiter != nil))

	return r, nil
}

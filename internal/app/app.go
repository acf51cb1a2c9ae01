package app

import (
	"time"

	"agrivest-backend/internal/auth"
	"agrivest-backend/internal/config"
	"agrivest-backend/internal/constants"
	"agrivest-backend/internal/database"
	"agrivest-backend/internal/enquiries"
	"agrivest-backend/internal/health"
	"agrivest-backend/internal/middleware"
	"agrivest-backend/internal/preferences"
	"agrivest-backend/internal/transactions"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. Configuration is threaded explicitly; nothing reads ambient
// mutable state. Returns DB and Redis handles for startup checks.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	// --- Health (no auth) ---
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	healthHandlers := &health.Handlers{
		Rdb:            rdb,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			healthHandlers.DB = sqlDB
		}
	}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/errors", healthHandlers.Errors)
	app.Get("/reset", healthHandlers.Reset)

	// --- Auth (no auth middleware) ---
	var userFinder auth.UserFinder
	if db != nil {
		userFinder = &auth.GormUserFinder{DB: db}
	}
	authHandlers := &auth.Handlers{UserFinder: userFinder, Rdb: rdb, Config: sessionCfg}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	if db != nil && rdb != nil {
		prefStore := &preferences.Store{Rdb: rdb, Default: cfg.DefaultPageSize}
		prefHandlers := &preferences.Handlers{Store: prefStore}

		enquiryService := &enquiries.Service{
			DB:          db,
			PurgeWindow: time.Duration(cfg.ArchivePurgeDays) * 24 * time.Hour,
		}
		enquiryHandlers := &enquiries.Handlers{Service: enquiryService, Prefs: prefStore}

		txService := &transactions.Service{DB: db}
		txHandlers := &transactions.Handlers{Service: txService}

		// Public enquiry submission (lead capture form posts here).
		app.Post("/api/v1/enquiries", enquiryHandlers.Submit)

		// Admin registry. Every privileged operation is gated by the shared
		// permission map and re-checked inside the services.
		enqGroup := app.Group("/api/v1/enquiries", middleware.RequireAuth())
		enqGroup.Get("/", middleware.AuthorizePermission(constants.ViewEnquiries), enquiryHandlers.List)
		enqGroup.Get("/summary", middleware.AuthorizePermission(constants.ViewEnquiries), enquiryHandlers.Summary)
		enqGroup.Get("/:id", middleware.AuthorizePermission(constants.ViewEnquiries), enquiryHandlers.Detail)
		enqGroup.Patch("/:id", middleware.AuthorizePermission(constants.EditEnquiry), enquiryHandlers.Patch)
		enqGroup.Delete("/", middleware.AuthorizePermission(constants.DeleteEnquiry), enquiryHandlers.Delete)
		enqGroup.Post("/:id/read", middleware.AuthorizePermission(constants.ViewEnquiries), enquiryHandlers.MarkRead)
		enqGroup.Post("/:id/archive", middleware.AuthorizePermission(constants.ArchiveEnquiry), enquiryHandlers.Archive)
		enqGroup.Post("/:id/restore", middleware.AuthorizePermission(constants.RestoreEnquiry), enquiryHandlers.Restore)
		enqGroup.Post("/:id/transactions", middleware.AuthorizePermission(constants.RecordInvestment), txHandlers.Post)

		// Investor self-service ledger view.
		app.Get("/api/v1/portfolio", middleware.RequireAuth(),
			middleware.AuthorizePermission(constants.ViewPortfolio), enquiryHandlers.Portfolio)

		// Per-user display preferences.
		prefGroup := app.Group("/api/v1/preferences", middleware.RequireAuth())
		prefGroup.Get("/page-size", prefHandlers.GetPageSize)
		prefGroup.Put("/page-size", prefHandlers.SetPageSize)
	}

	return app, db, rdb, nil
}

package router

import (
	"net/http"

	authsvc "rentora-backend/internal/application/auth"
	favsvc "rentora-backend/internal/application/favorites"
	promosvc "rentora-backend/internal/application/promotions"
	propsvc "rentora-backend/internal/application/properties"
	statsvc "rentora-backend/internal/application/stats"
	uploadsvc "rentora-backend/internal/application/uploads"
	"rentora-backend/internal/config"
	"rentora-backend/internal/infrastructure/database"
	authhandler "rentora-backend/internal/interfaces/handlers/auth"
	favhandler "rentora-backend/internal/interfaces/handlers/favorites"
	healthhandler "rentora-backend/internal/interfaces/handlers/health"
	payhandler "rentora-backend/internal/interfaces/handlers/payments"
	promohandler "rentora-backend/internal/interfaces/handlers/promotions"
	prophandler "rentora-backend/internal/interfaces/handlers/properties"
	statshandler "rentora-backend/internal/interfaces/handlers/stats"
	uploadhandler "rentora-backend/internal/interfaces/handlers/uploads"
	"rentora-backend/internal/middleware"
	"rentora-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

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

	// Webhook is mounted before the session middleware so the raw body
	// survives for signature verification.
	stripeWebhook := &payhandler.WebhookHandler{WebhookSecret: cfg.StripeWebhookSecret}
	app.Post("/api/v1/stripe/webhook", func(c *fiber.Ctx) error {
		return stripeWebhook.HandleWebhook(c)
	})

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
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	app.Use(func(c *fiber.Ctx) error {
		if c.Locals("user") == nil {
			c.Locals("user", nil)
		}
		return c.Next()
	})

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             nil,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	if db != nil {
		stripeWebhook.DB = db
	}

	if db != nil && rdb != nil {
		// Auth
		as := &authsvc.Service{DB: db}
		ah := &authhandler.Handlers{Service: as, Rdb: rdb, Config: sessionCfg}
		ag := app.Group("/api/v1/auth")
		ag.Post("/register", ah.Register)
		ag.Post("/login", ah.Login)
		ag.Get("/me", ah.Me)
		ag.Delete("/logout", ah.Logout)
		ag.Post("/become-host", middleware.RequireAuth(), ah.BecomeHost)

		// Properties
		ps := &propsvc.Service{DB: db}
		ph := &prophandler.Handlers{Service: ps}
		pg := app.Group("/api/v1/properties")
		// Public routes first; "mine", "search" and "attention" must be
		// registered before the ":id" wildcard.
		pg.Get("/search", ph.Search)
		pg.Get("/mine", middleware.RequireAuth(), middleware.RequireRole(constants.RoleHost), ph.Mine)
		pg.Get("/attention", middleware.RequireAuth(), middleware.RequireRole(constants.RoleHost), ph.Attention)
		pg.Get("/", ph.ListPublished)
		pg.Post("/", middleware.RequireAuth(), middleware.RequireRole(constants.RoleHost), ph.Create)
		pg.Get("/:id", ph.Get)
		pg.Put("/:id", middleware.RequireAuth(), middleware.RequireRole(constants.RoleHost), ph.Update)
		pg.Delete("/:id", middleware.RequireAuth(), middleware.RequireRole(constants.RoleHost), ph.Delete)
		pg.Post("/:id/view", ph.TrackView)
		pg.Post("/:id/publish", middleware.RequireAuth(), middleware.RequireRole(constants.RoleHost), ph.Publish)
		pg.Post("/:id/unpublish", middleware.RequireAuth(), middleware.RequireRole(constants.RoleHost), ph.Unpublish)
		pg.Post("/:id/archive", middleware.RequireAuth(), middleware.RequireRole(constants.RoleHost), ph.Archive)
		pg.Post("/:id/restore", middleware.RequireAuth(), middleware.RequireRole(constants.RoleHost), ph.Restore)
		pg.Post("/:id/toggle-status", middleware.RequireAuth(), middleware.RequireRole(constants.RoleHost), ph.ToggleStatus)
		pg.Get("/:id/validate-publish", middleware.RequireAuth(), middleware.RequireRole(constants.RoleHost), ph.ValidatePublish)
		pg.Get("/:id/completeness", middleware.RequireAuth(), middleware.RequireRole(constants.RoleHost), ph.Completeness)

		// Favorites
		fs := &favsvc.Service{DB: db}
		fh := &favhandler.Handlers{Service: fs}
		fg := app.Group("/api/v1/favorites", middleware.RequireAuth())
		fg.Get("/", fh.List)
		fg.Get("/ids", fh.IDs)
		fg.Post("/:propertyID/toggle", fh.Toggle)

		// Promotions
		prs := &promosvc.Service{DB: db}
		prh := &promohandler.Handlers{
			Service:       prs,
			StripeCreator: &promohandler.RealStripeCreator{SecretKey: cfg.StripeSecretKey},
		}
		prg := app.Group("/api/v1/promotions")
		prg.Get("/plans", prh.Plans)
		prg.Post("/checkout", middleware.RequireAuth(), middleware.RequireRole(constants.RoleHost), prh.Checkout)
		pg.Get("/:id/promotions", middleware.RequireAuth(), middleware.RequireRole(constants.RoleHost), prh.History)
		pg.Get("/:id/promotions/active", middleware.RequireAuth(), middleware.RequireRole(constants.RoleHost), prh.Active)

		// Uploads
		sc := &uploadsvc.HTTPClient{BaseURL: cfg.SupabaseURL, SecretKey: cfg.SupabaseSecretKey}
		upsvc := &uploadsvc.Service{Client: sc, SupabaseURL: cfg.SupabaseURL}
		uph := &uploadhandler.Handlers{Service: upsvc}
		upg := app.Group("/api/v1/uploads", middleware.RequireAuth())
		upg.Post("/property-image", middleware.RequireRole(constants.RoleHost), uph.PropertyImage)
		upg.Post("/avatar", uph.Avatar)

		// Stats
		ss := &statsvc.Service{DB: db}
		sh := &statshandler.Handlers{Service: ss}
		sg := app.Group("/api/v1/stats", middleware.RequireAuth())
		sg.Get("/host", middleware.RequireRole(constants.RoleHost), sh.Host)
		sg.Get("/admin", middleware.RequireRole(constants.RoleAdmin), sh.Admin)
		sg.Get("/admin/views-over-time", middleware.RequireRole(constants.RoleAdmin), sh.ViewsOverTime)
		sg.Get("/admin/by-city", middleware.RequireRole(constants.RoleAdmin), sh.ByCity)
	}

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}

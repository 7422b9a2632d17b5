package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"toonranks/docs"
	"toonranks/internal/auth"
	"toonranks/internal/cache"
	"toonranks/internal/config"
	"toonranks/internal/database"
	"toonranks/internal/database/migration"
	handlers "toonranks/internal/http/handler"
	"toonranks/internal/http/middleware"
	applog "toonranks/internal/log"
	"toonranks/internal/mail"
	apptrace "toonranks/internal/otel"
	"toonranks/internal/ranking"
	"toonranks/internal/ratelimit"
	"toonranks/internal/repository/postgres"
	"toonranks/internal/service"
	"toonranks/internal/storage"
)

// @title Toon Ranks API
// @version 1.0
// @description Community rankings, reviews and discussion for manga, manhwa and manhua.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	applog.Configure(applog.Config{Level: cfg.LogLevel})
	logger := applog.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := apptrace.Init(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, cfg.Database.Schema, cfg.Database.Host); err != nil {
		logger.Fatal().Err(err).Msg("database migration failed")
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	// Rankings are served uncached when Redis is absent or unreachable.
	var rankCache ranking.Cache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRankingCache(cfg.Redis, applog.WithComponent("cache"))
		if err != nil {
			logger.Warn().Err(err).Msg("ranking cache disabled")
		} else {
			defer rc.Close()
			rankCache = rc
		}
	}

	tokens, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid auth configuration")
	}
	outbound := auth.NewHTTPClient(5 * time.Second)
	googleVerifier := auth.NewTokenInfoVerifier(cfg.Google.ClientID, outbound)

	users := postgres.NewUserPostgres(db)
	seriesRepo := postgres.NewSeriesPostgres(db)
	detailRepo := postgres.NewSeriesDetailPostgres(db)
	forumRepo := postgres.NewForumPostgres(db)

	deps := handlers.Deps{
		DB: db,
		Auth: service.NewAuthService(users, tokens, auth.NewRecaptcha(cfg.Recaptcha, outbound),
			googleVerifier, mail.NewSMTPSender(cfg.SMTP), cfg.PublicOrigin),
		Series:        service.NewSeriesService(seriesRepo, objStore, rankCache),
		SeriesDetails: service.NewSeriesDetailService(seriesRepo, detailRepo, objStore, rankCache),
		ReadingLists:  service.NewReadingListService(postgres.NewReadingListPostgres(db), seriesRepo),
		Issues:        service.NewIssueService(postgres.NewIssuePostgres(db), objStore),
		Forum:         service.NewForumService(forumRepo, seriesRepo),
		ForumMedia:    service.NewForumMediaService(postgres.NewForumMediaPostgres(db), forumRepo, objStore),
		Sitemaps:      service.NewSitemapService(forumRepo, cfg.PublicOrigin, cfg.URLsPerSitemap),
	}
	if cfg.Google.ClientID != "" && cfg.Google.ClientSecret != "" && cfg.Google.RedirectURL != "" {
		deps.Google = auth.NewGoogleOAuth(cfg.Google, googleVerifier, outbound)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps.Gatherer = reg
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to register http metrics")
	}

	limitMetrics := ratelimit.NewMetrics(reg)
	deps.SignupLimiter = ratelimit.PerMinute("signup", cfg.RateLimit.AuthPerMinute, limitMetrics)
	deps.LoginLimiter = ratelimit.PerMinute("login", cfg.RateLimit.AuthPerMinute, limitMetrics)
	deps.ResendLimiter = ratelimit.PerMinute("resend_verification", cfg.RateLimit.ResendPerMinute, limitMetrics)
	for _, l := range []*ratelimit.Limiter{deps.SignupLimiter, deps.LoginLimiter, deps.ResendLimiter} {
		l.StartJanitor(time.Minute)
		defer l.Stop()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    8 * 1024 * 1024,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(promMiddleware.Handler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	handlers.RegisterRoutes(app, deps)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	go func() {
		if err := app.Listen(addr); err != nil {
			logger.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()
	logger.Info().Str("addr", addr).Msg("server started")

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Error().Err(err).Msg("tracing shutdown")
	}
}

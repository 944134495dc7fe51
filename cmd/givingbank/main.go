package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"givingbank/internal/app"
	"givingbank/internal/config"
	"givingbank/internal/drafts"
	"givingbank/internal/forms"
	"givingbank/internal/handlers"
	"givingbank/internal/logging"
	"givingbank/internal/metrics"
	"givingbank/internal/notify"
	"givingbank/internal/session"
	"givingbank/internal/templates"
	"givingbank/internal/visitor"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	rt, err := app.Open(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer rt.Close()

	collector := metrics.Default

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Visitor pages; idle ones are torn down along with their timers
	sessions := session.NewRegistry(cfg.SessionIdle,
		session.WithLogger(logger),
		session.WithNotifierOptions(
			notify.WithTTL(cfg.NotifyTTL),
			notify.WithObserver(collector.ObserveNotification),
		),
	)
	collector.Visitors = sessions.Len
	go sessions.Start(ctx, time.Minute)

	if store, ok := rt.Drafts.(*drafts.SQLiteStore); ok {
		go pruneDrafts(ctx, store, logger)
	}

	formCfg := forms.Config{
		ResetDelay:   cfg.ResetDelay,
		SearchDelay:  cfg.SearchDelay,
		WelcomeDelay: cfg.WelcomeDelay,
		ProgressTTL:  notify.ProgressTTL,
		MinAge:       cfg.MinAge,
		MaxUploadMB:  cfg.MaxUploadMB,
	}
	env := &handlers.Env{
		Sessions: sessions,
		Forms: forms.NewService(formCfg, rt.Profiles, rt.Drafts,
			forms.WithLogger(logger),
			forms.OnReject(collector.ObserveRejection),
		),
		Metrics: collector,
		Log:     logger,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Immutable:             true,
		BodyLimit:             int(cfg.MaxUploadMB*1024*1024) + 1024*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).SendString(err.Error())
		},
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(helmet.New(helmet.Config{CrossOriginEmbedderPolicy: "unsafe-none"}))
	app.Use(logging.Middleware(logger))
	if cfg.MetricsEnabled {
		app.Use(collector.Middleware())
		app.Get("/metrics", collector.Handler())
	}

	// Static files
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.FS(templates.Static()),
		MaxAge: 3600,
	}))

	app.Get("/healthz", handlers.Health(env))

	site := app.Group("/", visitor.Middleware(visitor.Config{
		Secret:        cfg.SessionSecret,
		SecureCookies: cfg.SecureCookies,
	}))

	site.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	// CSRF protection; htmx sends the token from the cookie as a header
	site.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-CSRF-Token",
		CookieName:     "csrf_token",
		CookieSameSite: "Lax",
		CookieHTTPOnly: false,
		CookieSecure:   cfg.SecureCookies,
		Expiration:     1 * time.Hour,
	}))

	handlers.Register(site, env)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("Shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	logger.Info("GivingBank starting",
		zap.String("port", cfg.Port),
		zap.String("draft_backend", cfg.DraftBackend),
		zap.Strings("profiles", rt.Profiles.Names()),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
	sessions.Close()
}

// pruneDrafts drops drafts nobody touched for 30 days, once a day.
func pruneDrafts(ctx context.Context, store *drafts.SQLiteStore, logger *zap.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		n, err := store.Prune(ctx, time.Now().AddDate(0, 0, -30))
		if err != nil {
			logger.Error("failed to prune drafts", zap.Error(err))
		} else if n > 0 {
			logger.Info("pruned drafts", zap.Int64("count", n))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

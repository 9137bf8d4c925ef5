package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/fasttrack/internal/api"
	"github.com/terraincognita07/fasttrack/internal/cache"
	"github.com/terraincognita07/fasttrack/internal/cli"
	"github.com/terraincognita07/fasttrack/internal/config"
	"github.com/terraincognita07/fasttrack/internal/db"
	"github.com/terraincognita07/fasttrack/internal/services"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	csrfHeaderName = "X-CSRF-Token"
	csrfFormField  = "csrf_token"
)

var errCSRFTokenMissing = errors.New("csrf token missing")

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	time.Local = cfg.Location

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	if len(os.Args) > 1 && os.Args[1] == "export" {
		if err := cli.RunExportCommand(os.Args[2:], database, cfg.Location, os.Stdout); err != nil {
			log.Fatalf("export failed: %v", err)
		}
		return
	}

	var statsCache services.StatsCache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisStatsCache(cfg.RedisURL, cfg.StatsCacheTTL)
		if err != nil {
			log.Fatalf("redis init failed: %v", err)
		}
		defer redisCache.Close()
		statsCache = redisCache
	}

	handler, err := api.NewHandler(database, api.Options{
		SecretKey:        cfg.SecretKey,
		Location:         cfg.Location,
		CookieSecure:     cfg.CookieSecure,
		DevLogin:         cfg.IsDevelopment(),
		AuthorizedEmails: cfg.AuthorizedEmails,
		OAuth:            googleOAuthConfig(cfg),
		StatsCache:       statsCache,
		RateLimitRPS:     cfg.RateLimitRPS,
		RateLimitBurst:   cfg.RateLimitBurst,
	})
	if err != nil {
		log.Fatalf("handler init failed: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "FastTrack",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(csrf.New(csrfMiddlewareConfig(cfg.CookieSecure)))

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)

	var notifier services.Notifier = services.LogNotifier{}
	if cfg.ReminderWebhookURL != "" {
		notifier = services.NewWebhookNotifier(cfg.ReminderWebhookURL, &http.Client{Timeout: 8 * time.Second})
	}
	repositories := db.NewRepositories(database)
	reminders := services.NewReminderService(repositories.Settings, repositories.Sessions, notifier, cfg.Location, cfg.ReminderInterval)

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()
	reminders.Start(lifecycleCtx)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("FastTrack listening on http://0.0.0.0:%s (env: %s, db: %s, tz: %s)", cfg.Port, cfg.Env, cfg.DBPath, cfg.Location.String())
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// googleOAuthConfig returns nil when client credentials are not configured,
// which disables the Google sign-in routes.
func googleOAuthConfig(cfg config.Config) *oauth2.Config {
	if !cfg.GoogleEnabled() {
		return nil
	}
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     endpoints.Google,
		RedirectURL:  cfg.BaseURL + "/auth/google/callback",
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		KeyLookup:      "header:" + csrfHeaderName,
		CookieName:     "fasttrack_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
		Extractor:      csrfTokenFromHeaderOrForm,
	}
}

// JSON clients send the token in a header, HTML forms in a hidden field.
func csrfTokenFromHeaderOrForm(c *fiber.Ctx) (string, error) {
	if token := strings.TrimSpace(c.Get(csrfHeaderName)); token != "" {
		return token, nil
	}
	if token := strings.TrimSpace(c.FormValue(csrfFormField)); token != "" {
		return token, nil
	}
	return "", errCSRFTokenMissing
}

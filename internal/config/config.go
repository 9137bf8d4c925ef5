package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/terraincognita07/fasttrack/internal/services"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	minSecretKeyLength = 32
)

var insecureSecretKeys = []string{
	"change_me_in_production",
	"replace_with_at_least_32_random_characters",
	"changeme",
}

type Config struct {
	Port     string
	Env      string
	DBPath   string
	Location *time.Location

	SecretKey    string
	CookieSecure bool
	BaseURL      string

	AuthorizedEmails   []string
	GoogleClientID     string
	GoogleClientSecret string

	RedisURL      string
	StatsCacheTTL time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	ReminderWebhookURL string
	ReminderInterval   time.Duration
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: ignoring .env: %v", err)
	}

	secretKey, err := resolveSecretKey()
	if err != nil {
		return Config{}, err
	}
	port, err := resolvePort()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:               port,
		Env:                strings.ToLower(getEnv("APP_ENV", EnvProduction)),
		DBPath:             getEnv("DB_PATH", filepath.Join("data", "fasttrack.db")),
		Location:           loadLocation(getEnv("TZ", "UTC")),
		SecretKey:          secretKey,
		CookieSecure:       getEnvBool("COOKIE_SECURE", false),
		BaseURL:            strings.TrimRight(getEnv("BASE_URL", "http://localhost:"+port), "/"),
		AuthorizedEmails:   resolveAuthorizedEmails(),
		GoogleClientID:     strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID")),
		GoogleClientSecret: strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_SECRET")),
		RedisURL:           strings.TrimSpace(os.Getenv("REDIS_URL")),
		StatsCacheTTL:      getEnvDuration("STATS_CACHE_TTL", 10*time.Minute),
		RateLimitRPS:       getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),
		ReminderWebhookURL: strings.TrimSpace(os.Getenv("REMINDER_WEBHOOK_URL")),
		ReminderInterval:   getEnvDuration("REMINDER_INTERVAL", services.DefaultReminderInterval),
	}
	if len(cfg.AuthorizedEmails) == 0 {
		log.Printf("config: AUTHORIZED_EMAILS is empty, nobody can sign in")
	}
	return cfg, nil
}

func (cfg Config) IsDevelopment() bool {
	return cfg.Env == EnvDevelopment
}

func (cfg Config) GoogleEnabled() bool {
	return cfg.GoogleClientID != "" && cfg.GoogleClientSecret != ""
}

func resolveSecretKey() (string, error) {
	secretKey := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secretKey == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if slices.Contains(insecureSecretKeys, strings.ToLower(secretKey)) {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secretKey) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secretKey, nil
}

func resolvePort() (string, error) {
	raw := getEnv("PORT", "8080")
	port, err := strconv.Atoi(raw)
	if err != nil {
		return "", fmt.Errorf("PORT must be numeric: %q", raw)
	}
	if port < 1 || port > 65535 {
		return "", fmt.Errorf("PORT out of range: %d", port)
	}
	return strconv.Itoa(port), nil
}

// AUTHORIZED_EMAIL is the single-address spelling kept for older deployments.
func resolveAuthorizedEmails() []string {
	raw := os.Getenv("AUTHORIZED_EMAILS")
	if strings.TrimSpace(raw) == "" {
		raw = os.Getenv("AUTHORIZED_EMAIL")
	}
	return services.ParseAuthorizedEmails(raw)
}

func loadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("config: invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func getEnvFloat(key string, fallback float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

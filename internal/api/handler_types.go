package api

import (
	"html/template"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/fasttrack/internal/services"
	"golang.org/x/oauth2"
)

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	devLogin     bool
	now          func() time.Time
	rateLimit    rateLimitSettings

	oauth       *oauth2.Config
	userInfoURL string
	stateSealer *oauthStateSealer
	templates   map[string]*template.Template
	devLimiter  *attemptLimiter

	authService     *services.AuthService
	fastingService  *services.FastingService
	statsService    *services.StatsService
	settingsService *services.SettingsService
	exportService   *services.ExportService
}

// Options configures NewHandler. Zero values pick safe defaults: no
// OAuth provider, dev login off, UTC.
type Options struct {
	SecretKey        string
	Location         *time.Location
	CookieSecure     bool
	DevLogin         bool
	AuthorizedEmails []string
	OAuth            *oauth2.Config
	UserInfoURL      string
	StatsCache       services.StatsCache
	RateLimitRPS     float64
	RateLimitBurst   int
	Now              func() time.Time
}

type rateLimitSettings struct {
	rps   float64
	burst int
}

type FlashPayload struct {
	Error   string `json:"error,omitempty"`
	Success string `json:"success,omitempty"`
	Email   string `json:"email,omitempty"`
}

const authTokenTTL = 30 * 24 * time.Hour

type authClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

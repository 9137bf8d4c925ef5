package api

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/terraincognita07/fasttrack/internal/models"
	"github.com/terraincognita07/fasttrack/internal/templates"
	"gorm.io/gorm"
)

const (
	defaultGoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	datetimeLocalLayout      = "2006-01-02T15:04"
)

func NewHandler(database *gorm.DB, options Options) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if strings.TrimSpace(options.SecretKey) == "" {
		return nil, errors.New("secret key is required")
	}
	location := options.Location
	if location == nil {
		location = time.Local
	}
	now := options.Now
	if now == nil {
		now = time.Now
	}
	userInfoURL := strings.TrimSpace(options.UserInfoURL)
	if userInfoURL == "" {
		userInfoURL = defaultGoogleUserInfoURL
	}

	secretKey := []byte(options.SecretKey)
	sealer, err := newOAuthStateSealer(secretKey, oauthStateTTL)
	if err != nil {
		return nil, err
	}

	parsed, err := parseTemplates(location)
	if err != nil {
		return nil, err
	}

	handler := &Handler{
		secretKey:    secretKey,
		location:     location,
		cookieSecure: options.CookieSecure,
		devLogin:     options.DevLogin,
		now:          now,
		rateLimit:    rateLimitSettings{rps: options.RateLimitRPS, burst: options.RateLimitBurst},
		oauth:        options.OAuth,
		userInfoURL:  userInfoURL,
		stateSealer:  sealer,
		templates:    parsed,
		devLimiter:   newAttemptLimiter(devLoginFailureLimit, devLoginFailureWindow),
	}
	return handler.withDependencies(database, options), nil
}

func parseTemplates(location *time.Location) (map[string]*template.Template, error) {
	funcMap := template.FuncMap{
		"formatTime": func(value time.Time) string {
			if value.IsZero() {
				return ""
			}
			return value.In(location).Format("Mon 02 Jan 2006 15:04")
		},
		"formatOptionalTime": func(value *time.Time) string {
			if value == nil {
				return "-"
			}
			return value.In(location).Format("Mon 02 Jan 2006 15:04")
		},
		"formatHours": func(value float64) string {
			return fmt.Sprintf("%.1f", value)
		},
		"sessionHours": func(session models.FastingSession) string {
			if session.IsActive() {
				return "-"
			}
			return fmt.Sprintf("%.1f", session.Duration().Hours())
		},
		"goalHours": func(minutes *int) string {
			if minutes == nil {
				return "-"
			}
			return fmt.Sprintf("%.1f", float64(*minutes)/60)
		},
		"derefString": func(value *string) string {
			if value == nil {
				return ""
			}
			return *value
		},
		"derefInt": func(value *int) string {
			if value == nil {
				return ""
			}
			return fmt.Sprintf("%d", *value)
		},
		"formatInputTime": func(value time.Time) string {
			return value.In(location).Format(datetimeLocalLayout)
		},
		"formatOptionalInputTime": func(value *time.Time) string {
			if value == nil {
				return ""
			}
			return value.In(location).Format(datetimeLocalLayout)
		},
		"formatDuration": func(seconds int64) string {
			return fmt.Sprintf("%dh %02dm", seconds/3600, (seconds%3600)/60)
		},
		"minutesSelected": func(current *int, minutes int) bool {
			return current != nil && *current == minutes
		},
		"isTheme": func(current string, candidate string) bool {
			return current == candidate
		},
		"themes": func() []string {
			return []string{models.ThemeSystem, models.ThemeLight, models.ThemeDark}
		},
	}

	parsed := make(map[string]*template.Template)
	for _, page := range []string{"signin", "dashboard", "history", "settings", "not_found"} {
		tmpl, err := template.New("base").Funcs(funcMap).ParseFS(templates.Files, "base.html", page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		parsed[page] = tmpl
	}
	return parsed, nil
}

func (handler *Handler) currentTime() time.Time {
	return handler.now().UTC()
}

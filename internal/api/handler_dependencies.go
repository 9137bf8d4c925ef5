package api

import (
	"github.com/terraincognita07/fasttrack/internal/db"
	"github.com/terraincognita07/fasttrack/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB, options Options) *Handler {
	repos := db.NewRepositories(database)

	allowlist := services.NewEmailAllowlist(options.AuthorizedEmails)
	handler.authService = services.NewAuthService(repos.Users, allowlist)
	handler.fastingService = services.NewFastingService(repos.Sessions, repos.Settings, options.StatsCache)
	handler.statsService = services.NewStatsService(repos.Sessions, repos.Settings, options.StatsCache)
	handler.settingsService = services.NewSettingsService(repos.Settings, repos.Users, options.StatsCache)
	handler.exportService = services.NewExportService(repos.Sessions)
	return handler
}

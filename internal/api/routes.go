package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	limiter := RateLimit(handler.rateLimit.rps, handler.rateLimit.burst)
	registerPageRoutes(app, handler, limiter)
	registerAPIRoutes(app, handler, limiter)
}

func registerPageRoutes(app *fiber.App, handler *Handler, limiter fiber.Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)

	auth := app.Group("/auth", limiter)
	auth.Get("/signin", handler.ShowSignIn)
	auth.Get("/google", handler.GoogleRedirect)
	auth.Get("/google/callback", handler.GoogleCallback)
	auth.Post("/dev-login", handler.DevLogin)

	app.Get("/", handler.AuthRequired, handler.ShowDashboard)
	app.Get("/history", handler.AuthRequired, handler.ShowHistory)
	app.Get("/settings", handler.AuthRequired, handler.ShowSettings)
}

// HTML forms only submit GET and POST, so the PUT and DELETE routes below have
// POST twins.
func registerAPIRoutes(app *fiber.App, handler *Handler, limiter fiber.Handler) {
	api := app.Group("/api", limiter)

	api.Post("/auth/logout", handler.AuthRequired, handler.Logout)

	fasts := api.Group("/fasts", handler.AuthRequired)
	fasts.Post("/start", handler.StartFast)
	fasts.Get("/active", handler.ActiveFast)
	fasts.Post("/active/start-time", handler.AdjustActiveStart)
	fasts.Post("/:id/stop", handler.StopFast)

	sessions := api.Group("/sessions", handler.AuthRequired)
	sessions.Get("", handler.ListSessions)
	sessions.Put("/:id", handler.EditSession)
	sessions.Put("/:id/note", handler.UpdateSessionNote)
	sessions.Delete("/:id", handler.DeleteSession)
	sessions.Post("/:id", handler.EditSession)
	sessions.Post("/:id/note", handler.UpdateSessionNote)
	sessions.Post("/:id/delete", handler.DeleteSession)

	stats := api.Group("/stats", handler.AuthRequired)
	stats.Get("", handler.GetStats)
	stats.Get("/charts", handler.GetCharts)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Get("", handler.GetSettings)
	settings.Post("/theme", handler.UpdateTheme)
	settings.Post("/default-goal", handler.UpdateDefaultGoal)
	settings.Post("/reminder", handler.UpdateReminder)
	settings.Post("/max-duration", handler.UpdateMaxDuration)
	settings.Delete("/delete-account", handler.DeleteAccount)
	settings.Post("/delete-account", handler.DeleteAccount)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/json", handler.ExportJSON)
	export.Get("/pdf", handler.ExportPDF)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

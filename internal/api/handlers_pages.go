package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fasttrack/internal/services"
)

func (handler *Handler) ShowSignIn(c *fiber.Ctx) error {
	if user := handler.optionalAuthenticatedUser(c); user != nil {
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	flash := handler.popFlashCookie(c)
	return handler.render(c, "signin", fiber.Map{
		"Title":         "FastTrack | Sign In",
		"Flash":         flash,
		"GoogleEnabled": handler.oauth != nil,
		"DevLogin":      handler.devLogin,
	})
}

func (handler *Handler) ShowDashboard(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/auth/signin", fiber.StatusSeeOther)
	}
	now := handler.currentTime()

	progress, err := handler.fastingService.ActiveProgress(user.ID, now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load active fast")
	}
	stats, err := handler.statsService.Summary(c.UserContext(), user.ID, now, handler.location)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load stats")
	}
	settings, err := handler.settingsService.Load(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load settings")
	}

	return handler.render(c, "dashboard", fiber.Map{
		"Title":       "FastTrack | Dashboard",
		"Flash":       handler.popFlashCookie(c),
		"Active":      progress,
		"Stats":       stats,
		"Settings":    settings,
		"GoalOptions": goalOptions,
	})
}

func (handler *Handler) ShowHistory(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/auth/signin", fiber.StatusSeeOther)
	}

	page, err := handler.fastingService.ListCompletedPage(user.ID, c.Query("cursor"), services.DefaultPageSize)
	if errors.Is(err, services.ErrInvalidCursor) {
		return c.Redirect("/history", fiber.StatusSeeOther)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load sessions")
	}

	return handler.render(c, "history", fiber.Map{
		"Title": "FastTrack | History",
		"Flash": handler.popFlashCookie(c),
		"Page":  page,
	})
}

func (handler *Handler) ShowSettings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/auth/signin", fiber.StatusSeeOther)
	}

	settings, err := handler.settingsService.Load(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load settings")
	}

	return handler.render(c, "settings", fiber.Map{
		"Title":       "FastTrack | Settings",
		"Flash":       handler.popFlashCookie(c),
		"Settings":    settings,
		"GoalOptions": goalOptions,
	})
}

type goalOption struct {
	Minutes int
	Label   string
}

var goalOptions = []goalOption{
	{Minutes: 12 * 60, Label: "12 hours"},
	{Minutes: 14 * 60, Label: "14 hours"},
	{Minutes: 16 * 60, Label: "16 hours"},
	{Minutes: 18 * 60, Label: "18 hours"},
	{Minutes: 20 * 60, Label: "20 hours"},
	{Minutes: 24 * 60, Label: "24 hours"},
	{Minutes: 36 * 60, Label: "36 hours"},
	{Minutes: 48 * 60, Label: "48 hours"},
}

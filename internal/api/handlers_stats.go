package api

import (
	"github.com/gofiber/fiber/v2"
)

// GetStats answers JSON null when the user has no completed fasts.
func (handler *Handler) GetStats(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	stats, err := handler.statsService.Summary(c.UserContext(), user.ID, handler.currentTime(), handler.location)
	if err != nil {
		return respondServiceError(c, err, "load stats")
	}
	return c.JSON(stats)
}

func (handler *Handler) GetCharts(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	rangeDays := c.QueryInt("range", 7)
	data, err := handler.statsService.Charts(c.UserContext(), user.ID, rangeDays, handler.currentTime(), handler.location)
	if err != nil {
		return respondServiceError(c, err, "load charts")
	}
	return c.JSON(data)
}

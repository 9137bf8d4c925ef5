package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api/") || acceptsJSON(c) {
		return apiError(c, fiber.StatusNotFound, "not found")
	}

	if user := handler.optionalAuthenticatedUser(c); user != nil {
		c.Locals(contextUserKey, user)
	}

	primaryPath, primaryLabel := "/auth/signin", "Sign in"
	if _, ok := currentUser(c); ok {
		primaryPath, primaryLabel = "/", "Back to dashboard"
	}

	c.Status(fiber.StatusNotFound)
	return handler.render(c, "not_found", fiber.Map{
		"Title":        "FastTrack | Page Not Found",
		"PrimaryPath":  primaryPath,
		"PrimaryLabel": primaryLabel,
	})
}

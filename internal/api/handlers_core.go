package api

import (
	"bytes"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fasttrack/internal/models"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) render(c *fiber.Ctx, name string, data fiber.Map) error {
	tmpl, ok := handler.templates[name]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("template not found")
	}
	payload := handler.withTemplateDefaults(c, data)
	var output bytes.Buffer
	if err := tmpl.ExecuteTemplate(&output, "base", payload); err != nil {
		log.Printf("api: render %s: %v", name, err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render template")
	}
	c.Type("html", "utf-8")
	return c.Send(output.Bytes())
}

func (handler *Handler) withTemplateDefaults(c *fiber.Ctx, data fiber.Map) fiber.Map {
	payload := fiber.Map{
		"CSRFToken": csrfToken(c),
		"Theme":     models.ThemeSystem,
	}
	if user, ok := currentUser(c); ok {
		payload["CurrentUser"] = user
		if theme, err := handler.settingsService.Theme(user.ID); err == nil {
			payload["Theme"] = theme
		}
	}
	for key, value := range data {
		payload[key] = value
	}
	return payload
}

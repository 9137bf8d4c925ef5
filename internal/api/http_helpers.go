package api

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fasttrack/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func fieldError(c *fiber.Ctx, status int, field string, message string) error {
	payload := fiber.Map{"error": message}
	if field != "" {
		payload["field"] = field
	}
	return c.Status(status).JSON(payload)
}

// respondServiceError maps service errors onto the JSON error contract.
func respondServiceError(c *fiber.Ctx, err error, action string) error {
	status, field, message := classifyServiceError(err, action)
	return fieldError(c, status, field, message)
}

// classifyServiceError picks status, field and message for err. Anything
// unrecognised is logged and reported as a generic 500.
func classifyServiceError(err error, action string) (int, string, string) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		status := fiber.StatusBadRequest
		if errors.Is(err, services.ErrFastAlreadyActive) {
			status = fiber.StatusConflict
		}
		return status, validationErr.Result.Field, validationErr.Result.Message
	case errors.Is(err, services.ErrSessionNotFound):
		return fiber.StatusNotFound, "", "session not found"
	case errors.Is(err, services.ErrFastAlreadyActive):
		return fiber.StatusConflict, "", services.MessageFastAlreadyActive
	case errors.Is(err, services.ErrFastNotActive):
		return fiber.StatusConflict, "", "No active fast"
	case errors.Is(err, services.ErrSessionStillActive):
		return fiber.StatusConflict, "", "Stop the fast before editing it"
	case errors.Is(err, services.ErrInvalidCursor):
		return fiber.StatusBadRequest, "cursor", "Invalid cursor"
	default:
		log.Printf("api: %s failed: %v", action, err)
		return fiber.StatusInternalServerError, "", "failed to " + action
	}
}

// respondMutationError sends form posts back to page with a flash message and
// everything else through the JSON error contract.
func (handler *Handler) respondMutationError(c *fiber.Ctx, err error, action string, page string) error {
	if !isFormSubmission(c) {
		return respondServiceError(c, err, action)
	}
	_, _, message := classifyServiceError(err, action)
	handler.setFlashCookie(c, FlashPayload{Error: message})
	return c.Redirect(page, fiber.StatusSeeOther)
}

// respondMutationSuccess redirects form posts to page and answers JSON
// clients with payload.
func (handler *Handler) respondMutationSuccess(c *fiber.Ctx, status int, payload any, page string, message string) error {
	if isFormSubmission(c) {
		if message != "" {
			handler.setFlashCookie(c, FlashPayload{Success: message})
		}
		return c.Redirect(page, fiber.StatusSeeOther)
	}
	return c.Status(status).JSON(payload)
}

func acceptsJSON(c *fiber.Ctx) bool {
	return strings.Contains(strings.ToLower(c.Get(fiber.HeaderAccept)), fiber.MIMEApplicationJSON)
}

// isFormSubmission reports a classic browser form post, which expects a
// redirect rather than a JSON body.
func isFormSubmission(c *fiber.Ctx) bool {
	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
	isForm := strings.HasPrefix(contentType, fiber.MIMEApplicationForm) || strings.HasPrefix(contentType, fiber.MIMEMultipartForm)
	return isForm && !acceptsJSON(c)
}

func csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals("csrf").(string)
	return token
}

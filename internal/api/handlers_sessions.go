package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fasttrack/internal/services"
)

func (handler *Handler) ListSessions(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	page, err := handler.fastingService.ListCompletedPage(user.ID, c.Query("cursor"), parsePositiveQueryInt(c.Query("pageSize")))
	if err != nil {
		return respondServiceError(c, err, "load sessions")
	}
	return c.JSON(page)
}

func (handler *Handler) EditSession(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := editSessionInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	startedAt, ok := parseClientTime(input.StartedAt, handler.location)
	if !ok {
		return fieldError(c, fiber.StatusBadRequest, services.FieldStartedAt, "Invalid start time")
	}
	endedAt, ok := parseClientTime(input.EndedAt, handler.location)
	if !ok {
		return fieldError(c, fiber.StatusBadRequest, services.FieldEndedAt, "Invalid end time")
	}

	candidate := services.Interval{StartedAt: startedAt, EndedAt: endedAt}
	session, err := handler.fastingService.EditSession(c.UserContext(), user.ID, c.Params("id"), candidate, handler.currentTime())
	if err != nil {
		return handler.respondMutationError(c, err, "update session", "/history")
	}
	return handler.respondMutationSuccess(c, fiber.StatusOK, session, "/history", "Session updated")
}

func (handler *Handler) UpdateSessionNote(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := noteInput{}
	if err := c.BodyParser(&input); err != nil {
		return fieldError(c, fiber.StatusBadRequest, services.FieldNote, "invalid payload")
	}

	session, err := handler.fastingService.UpdateNote(c.UserContext(), user.ID, c.Params("id"), input.Note)
	if err != nil {
		return handler.respondMutationError(c, err, "update note", "/history")
	}
	return handler.respondMutationSuccess(c, fiber.StatusOK, session, "/history", "Note saved")
}

func (handler *Handler) DeleteSession(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.fastingService.Delete(c.UserContext(), user.ID, c.Params("id")); err != nil {
		return handler.respondMutationError(c, err, "delete session", "/history")
	}
	return handler.respondMutationSuccess(c, fiber.StatusOK, fiber.Map{"ok": true}, "/history", "Session deleted")
}

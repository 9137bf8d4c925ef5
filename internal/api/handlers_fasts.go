package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fasttrack/internal/services"
)

func (handler *Handler) StartFast(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := startFastInput{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return fieldError(c, fiber.StatusBadRequest, services.FieldGoalMinutes, "invalid payload")
		}
	}
	input.GoalMinutes = formOptionalMinutes(c, input.GoalMinutes)

	session, err := handler.fastingService.Start(c.UserContext(), user.ID, input.GoalMinutes, handler.currentTime())
	if err != nil {
		return handler.respondMutationError(c, err, "start fast", "/")
	}
	return handler.respondMutationSuccess(c, fiber.StatusCreated, session, "/", "Fast started")
}

// ActiveFast answers {"fast": null} when nothing is running.
func (handler *Handler) ActiveFast(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	progress, err := handler.fastingService.ActiveProgress(user.ID, handler.currentTime())
	if err != nil {
		return respondServiceError(c, err, "load active fast")
	}
	return c.JSON(fiber.Map{"fast": progress})
}

func (handler *Handler) StopFast(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	session, err := handler.fastingService.Stop(c.UserContext(), user.ID, c.Params("id"), handler.currentTime())
	if err != nil {
		return handler.respondMutationError(c, err, "stop fast", "/")
	}
	return handler.respondMutationSuccess(c, fiber.StatusOK, session, "/", "Fast completed")
}

func (handler *Handler) AdjustActiveStart(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := adjustStartInput{}
	if err := c.BodyParser(&input); err != nil {
		return fieldError(c, fiber.StatusBadRequest, services.FieldStartedAt, "invalid payload")
	}
	startedAt, ok := parseClientTime(input.StartedAt, handler.location)
	if !ok {
		return fieldError(c, fiber.StatusBadRequest, services.FieldStartedAt, "Invalid start time")
	}

	session, err := handler.fastingService.AdjustActiveStart(c.UserContext(), user.ID, startedAt, handler.currentTime())
	if err != nil {
		return handler.respondMutationError(c, err, "adjust start time", "/")
	}
	return handler.respondMutationSuccess(c, fiber.StatusOK, session, "/", "Start time updated")
}

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fasttrack/internal/services"
)

func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	settings, err := handler.settingsService.Load(user.ID)
	if err != nil {
		return respondServiceError(c, err, "load settings")
	}
	return c.JSON(settings)
}

func (handler *Handler) UpdateTheme(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := themeInput{}
	if err := c.BodyParser(&input); err != nil {
		return fieldError(c, fiber.StatusBadRequest, services.FieldTheme, "invalid payload")
	}

	theme, err := handler.settingsService.UpdateTheme(user.ID, input.Theme)
	if err != nil {
		return handler.respondMutationError(c, err, "update theme", "/settings")
	}
	return handler.respondMutationSuccess(c, fiber.StatusOK, fiber.Map{"theme": theme}, "/settings", "Theme updated")
}

func (handler *Handler) UpdateDefaultGoal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := defaultGoalInput{}
	if err := c.BodyParser(&input); err != nil {
		return fieldError(c, fiber.StatusBadRequest, services.FieldDefaultGoalMinutes, "invalid payload")
	}
	input.GoalMinutes = formOptionalMinutes(c, input.GoalMinutes)

	if err := handler.settingsService.UpdateDefaultGoal(c.UserContext(), user.ID, input.GoalMinutes); err != nil {
		return handler.respondMutationError(c, err, "update default goal", "/settings")
	}
	return handler.respondSettingsSaved(c, user.ID, "Default goal saved")
}

func (handler *Handler) UpdateReminder(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := reminderInput{}
	if err := c.BodyParser(&input); err != nil {
		return fieldError(c, fiber.StatusBadRequest, services.FieldReminderTime, "invalid payload")
	}

	update := services.ReminderUpdate{Enabled: input.Enabled, Time: input.Time}
	if err := handler.settingsService.UpdateReminder(user.ID, update); err != nil {
		return handler.respondMutationError(c, err, "update reminder", "/settings")
	}
	return handler.respondSettingsSaved(c, user.ID, "Reminder saved")
}

func (handler *Handler) UpdateMaxDuration(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := maxDurationInput{}
	if err := c.BodyParser(&input); err != nil {
		return fieldError(c, fiber.StatusBadRequest, services.FieldMaxDuration, "invalid payload")
	}
	input.MaxDurationMinutes = formOptionalMinutes(c, input.MaxDurationMinutes)

	if err := handler.settingsService.UpdateMaxDuration(user.ID, input.MaxDurationMinutes); err != nil {
		return handler.respondMutationError(c, err, "update max duration", "/settings")
	}
	return handler.respondSettingsSaved(c, user.ID, "Max duration saved")
}

func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.settingsService.DeleteAccount(c.UserContext(), user.ID); err != nil {
		return handler.respondMutationError(c, err, "delete account", "/settings")
	}

	handler.clearAuthCookie(c)
	if isFormSubmission(c) {
		return c.Redirect("/auth/signin", fiber.StatusSeeOther)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// respondSettingsSaved answers JSON clients with the stored settings after a
// per-field update.
func (handler *Handler) respondSettingsSaved(c *fiber.Ctx, userID uint, message string) error {
	if isFormSubmission(c) {
		return handler.respondMutationSuccess(c, fiber.StatusOK, nil, "/settings", message)
	}
	settings, err := handler.settingsService.Load(userID)
	if err != nil {
		return respondServiceError(c, err, "load settings")
	}
	return c.JSON(settings)
}

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fasttrack/internal/models"
)

const (
	authCookieName       = "fasttrack_auth"
	flashCookieName      = "fasttrack_flash"
	oauthStateCookieName = "fasttrack_oauth_state"
	contextUserKey       = "current_user"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok && user != nil
}

package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fasttrack/internal/security"
	"github.com/terraincognita07/fasttrack/internal/services"
	"golang.org/x/oauth2"
)

const (
	oauthStateTTL     = 10 * time.Minute
	userInfoBodyLimit = 1 << 20
)

const (
	messageSignInFailed     = "Sign-in failed, please try again"
	messageSignInExpired    = "Sign-in expired, please try again"
	messageNotAuthorized    = "This email is not authorized"
	messageInvalidEmail     = "Enter a valid email address"
	messageTooManyAttempts  = "Too many sign-in attempts, try again later"
	messageGoogleNotEnabled = "Google sign-in is not configured"
)

func (handler *Handler) GoogleRedirect(c *fiber.Ctx) error {
	if handler.oauth == nil {
		return handler.respondAuthError(c, fiber.StatusNotFound, messageGoogleNotEnabled, "")
	}

	state, err := security.NewState()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to start sign-in")
	}
	sealed, err := handler.stateSealer.seal(state, handler.currentTime())
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to start sign-in")
	}

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    sealed,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  handler.currentTime().Add(oauthStateTTL),
	})
	return c.Redirect(handler.oauth.AuthCodeURL(state), fiber.StatusSeeOther)
}

func (handler *Handler) GoogleCallback(c *fiber.Ctx) error {
	if handler.oauth == nil {
		return handler.respondAuthError(c, fiber.StatusNotFound, messageGoogleNotEnabled, "")
	}
	if c.Query("error") != "" {
		return handler.respondAuthError(c, fiber.StatusUnauthorized, messageSignInFailed, "")
	}

	rawState := c.Cookies(oauthStateCookieName)
	handler.expireCookie(c, oauthStateCookieName)
	expected, err := handler.stateSealer.open(rawState, handler.currentTime())
	if err != nil || subtle.ConstantTimeCompare([]byte(expected), []byte(c.Query("state"))) != 1 {
		return handler.respondAuthError(c, fiber.StatusBadRequest, messageSignInExpired, "")
	}

	ctx := c.UserContext()
	token, err := handler.oauth.Exchange(ctx, c.Query("code"))
	if err != nil {
		log.Printf("auth: code exchange failed: %v", err)
		return handler.respondAuthError(c, fiber.StatusBadGateway, messageSignInFailed, "")
	}
	profile, err := handler.fetchIdentityProfile(ctx, token)
	if err != nil {
		log.Printf("auth: userinfo request failed: %v", err)
		return handler.respondAuthError(c, fiber.StatusBadGateway, messageSignInFailed, "")
	}

	user, err := handler.authService.SignIn(profile)
	if err != nil {
		return handler.respondSignInError(c, err, profile.Email)
	}
	if err := handler.setAuthCookie(c, &user); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// DevLogin signs in an allowlisted email without a provider round trip. The
// route answers 404 unless the server runs in development mode.
func (handler *Handler) DevLogin(c *fiber.Ctx) error {
	if !handler.devLogin {
		return handler.NotFound(c)
	}

	key := requestLimiterKey(c)
	now := handler.currentTime()
	if handler.devLimiter.blocked(key, now) {
		return handler.respondAuthError(c, fiber.StatusTooManyRequests, messageTooManyAttempts, "")
	}

	input := devLoginInput{}
	if err := c.BodyParser(&input); err != nil {
		handler.devLimiter.recordFailure(key, now)
		return handler.respondAuthError(c, fiber.StatusBadRequest, messageInvalidEmail, "")
	}

	user, err := handler.authService.SignInDev(input.Email)
	if err != nil {
		handler.devLimiter.recordFailure(key, now)
		return handler.respondSignInError(c, err, input.Email)
	}
	handler.devLimiter.forget(key)

	if err := handler.setAuthCookie(c, &user); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	if isFormSubmission(c) {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return c.JSON(fiber.Map{"ok": true, "user": user})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	if isFormSubmission(c) {
		return c.Redirect("/auth/signin", fiber.StatusSeeOther)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) respondSignInError(c *fiber.Ctx, err error, email string) error {
	switch {
	case errors.Is(err, services.ErrEmailNotAuthorized):
		return handler.respondAuthError(c, fiber.StatusForbidden, messageNotAuthorized, email)
	case errors.Is(err, services.ErrAuthEmailInvalid):
		return handler.respondAuthError(c, fiber.StatusBadRequest, messageInvalidEmail, email)
	default:
		log.Printf("auth: sign-in failed: %v", err)
		return handler.respondAuthError(c, fiber.StatusInternalServerError, messageSignInFailed, "")
	}
}

// respondAuthError sends browsers back to the sign-in page with a flash and
// answers API clients with JSON.
func (handler *Handler) respondAuthError(c *fiber.Ctx, status int, message string, email string) error {
	browser := isFormSubmission(c) || (c.Method() == fiber.MethodGet && !acceptsJSON(c))
	if !browser {
		return apiError(c, status, message)
	}
	handler.setFlashCookie(c, FlashPayload{Error: message, Email: email})
	return c.Redirect("/auth/signin", fiber.StatusSeeOther)
}

type userInfoPayload struct {
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (handler *Handler) fetchIdentityProfile(ctx context.Context, token *oauth2.Token) (services.IdentityProfile, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, handler.userInfoURL, nil)
	if err != nil {
		return services.IdentityProfile{}, err
	}
	response, err := handler.oauth.Client(ctx, token).Do(request)
	if err != nil {
		return services.IdentityProfile{}, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return services.IdentityProfile{}, fmt.Errorf("userinfo status %d", response.StatusCode)
	}

	payload := userInfoPayload{}
	if err := json.NewDecoder(io.LimitReader(response.Body, userInfoBodyLimit)).Decode(&payload); err != nil {
		return services.IdentityProfile{}, fmt.Errorf("decode userinfo: %w", err)
	}
	if payload.EmailVerified != nil && !*payload.EmailVerified {
		return services.IdentityProfile{}, errors.New("provider email is not verified")
	}
	return services.IdentityProfile{
		Email: payload.Email,
		Name:  payload.Name,
		Image: payload.Picture,
	}, nil
}

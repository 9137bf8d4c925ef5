package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/fasttrack/internal/models"
	"gorm.io/gorm"
)

type AuthUserRepository interface {
	FindByID(userID uint) (models.User, error)
	FindByNormalizedEmail(email string) (models.User, error)
	CreateWithSettings(user *models.User, settings *models.UserSettings) error
	UpdateProfile(userID uint, name string, image string) error
}

// IdentityProfile is what the identity provider reports about a signed-in
// person.
type IdentityProfile struct {
	Email string
	Name  string
	Image string
}

type AuthService struct {
	users     AuthUserRepository
	allowlist EmailAllowlist
}

func NewAuthService(users AuthUserRepository, allowlist EmailAllowlist) *AuthService {
	return &AuthService{users: users, allowlist: allowlist}
}

func (service *AuthService) IsAuthorized(email string) bool {
	return service.allowlist.Allows(email)
}

// SignIn upserts the user behind an allowlisted profile. A new user gets a
// default settings row in the same step. Profile fields only overwrite the
// stored ones when the provider sends them.
func (service *AuthService) SignIn(profile IdentityProfile) (models.User, error) {
	email := NormalizeAuthEmail(profile.Email)
	if email == "" {
		return models.User{}, ErrAuthEmailInvalid
	}
	if !service.allowlist.Allows(email) {
		return models.User{}, ErrEmailNotAuthorized
	}

	name := strings.TrimSpace(profile.Name)
	image := strings.TrimSpace(profile.Image)

	user, err := service.users.FindByNormalizedEmail(email)
	switch {
	case err == nil:
		if name == "" && image == "" {
			return user, nil
		}
		if name == "" {
			name = user.Name
		}
		if image == "" {
			image = user.Image
		}
		if err := service.users.UpdateProfile(user.ID, name, image); err != nil {
			return models.User{}, err
		}
		user.Name = name
		user.Image = image
		return user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return models.User{}, err
	}

	user = models.User{Email: email, Name: name, Image: image}
	settings := models.DefaultUserSettings(0)
	if err := service.users.CreateWithSettings(&user, &settings); err != nil {
		if isDuplicateKey(err) {
			return service.users.FindByNormalizedEmail(email)
		}
		return models.User{}, err
	}
	return user, nil
}

// SignInDev signs in through the development credential login. An existing
// user keeps the stored profile.
func (service *AuthService) SignInDev(rawEmail string) (models.User, error) {
	email := NormalizeAuthEmail(rawEmail)
	if email == "" {
		return models.User{}, ErrAuthEmailInvalid
	}
	if !service.allowlist.Allows(email) {
		return models.User{}, ErrEmailNotAuthorized
	}
	user, err := service.users.FindByNormalizedEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}
	return service.SignIn(devProfile(email))
}

func devProfile(email string) IdentityProfile {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	return IdentityProfile{Email: email, Name: "Dev (" + local + ")"}
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

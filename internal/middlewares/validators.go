package middlewares

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/validation"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{4,15}$`)

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required(models.MsgPasswordIsRequired),
		validation.IsString(models.MsgPasswordMustBeAString),
		validation.Length(6, 50, models.MsgPasswordLength),
		validation.IsStrongPassword(models.MsgPasswordMustBeStrong),
	}
}

func confirmPasswordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required(models.MsgConfirmPasswordIsRequired),
		validation.IsString(models.MsgConfirmPasswordMustBeAString),
		validation.Length(6, 50, models.MsgConfirmPasswordLength),
		validation.IsStrongPassword(models.MsgConfirmPasswordMustBeStrong),
		validation.EqualsField("password", models.MsgPasswordsDoNotMatch),
	}
}

// RegisterValidator validates the registration body. The email rule also
// checks uniqueness against the store; the storage-layer unique index
// remains authoritative for the race window.
func RegisterValidator(users UserReader) func(http.Handler) http.Handler {
	emailUnique := func(ctx context.Context, value any, bag *validation.Bag) (any, error) {
		email, _ := value.(string)
		user, err := users.GetByEmail(ctx, email)
		if err != nil {
			return nil, validation.EscalateUnavailable()
		}
		if user != nil {
			return nil, errors.New(models.MsgEmailAlreadyExists)
		}
		return email, nil
	}

	return Validate(validation.NewSchema(
		validation.Field{Name: "name", Source: validation.SourceBody, Rules: []validation.Rule{
			validation.Required(models.MsgNameIsRequired),
			validation.IsString(models.MsgNameMustBeAString),
			validation.Trim(),
			validation.Length(1, 100, models.MsgNameLength),
		}},
		validation.Field{Name: "email", Source: validation.SourceBody, Rules: []validation.Rule{
			validation.Required(models.MsgEmailIsRequired),
			validation.IsString(models.MsgEmailIsInvalid),
			validation.Trim(),
			validation.IsEmail(models.MsgEmailIsInvalid),
			emailUnique,
		}},
		validation.Field{Name: "password", Source: validation.SourceBody, Rules: passwordRules()},
		validation.Field{Name: "confirm_password", Source: validation.SourceBody, Rules: confirmPasswordRules()},
		validation.Field{Name: "date_of_birth", Source: validation.SourceBody, Rules: []validation.Rule{
			validation.IsISO8601(models.MsgDateOfBirthISO8601),
		}},
	))
}

// LoginValidator checks the credentials: the password field is validated
// first so the email rule can compare it against the stored hash. A
// failed lookup or hash mismatch is a credential mismatch, never a hint
// of which part was wrong.
func LoginValidator(users UserReader) func(http.Handler) http.Handler {
	credentials := func(ctx context.Context, value any, bag *validation.Bag) (any, error) {
		email, _ := value.(string)
		password, ok := bag.Value("password")
		if !ok {
			// The password field failed its own rules; let those surface.
			return email, nil
		}

		user, err := users.GetByEmail(ctx, email)
		if err != nil {
			return nil, validation.EscalateUnavailable()
		}
		if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password.(string))) != nil {
			return nil, &validation.StatusError{
				Status:  http.StatusUnauthorized,
				Code:    models.CodeCredentialMismatch,
				Message: models.MsgEmailOrPasswordIncorrect,
			}
		}

		bag.Attach(attachUser, user)
		return email, nil
	}

	return Validate(validation.NewSchema(
		validation.Field{Name: "password", Source: validation.SourceBody, Rules: passwordRules()},
		validation.Field{Name: "email", Source: validation.SourceBody, Rules: []validation.Rule{
			validation.Required(models.MsgEmailIsRequired),
			validation.IsString(models.MsgEmailIsInvalid),
			validation.Trim(),
			validation.IsEmail(models.MsgEmailIsInvalid),
			credentials,
		}},
	))
}

// ForgotPasswordValidator resolves the account behind the email and
// attaches it for the handler.
func ForgotPasswordValidator(users UserReader) func(http.Handler) http.Handler {
	exists := func(ctx context.Context, value any, bag *validation.Bag) (any, error) {
		email, _ := value.(string)
		user, err := users.GetByEmail(ctx, email)
		if err != nil {
			return nil, validation.EscalateUnavailable()
		}
		if user == nil {
			return nil, &validation.StatusError{
				Status:  http.StatusNotFound,
				Code:    models.CodeUserNotFound,
				Message: models.MsgUserNotFound,
			}
		}
		bag.Attach(attachUser, user)
		return email, nil
	}

	return Validate(validation.NewSchema(
		validation.Field{Name: "email", Source: validation.SourceBody, Rules: []validation.Rule{
			validation.Required(models.MsgEmailIsRequired),
			validation.IsString(models.MsgEmailIsInvalid),
			validation.Trim(),
			validation.IsEmail(models.MsgEmailIsInvalid),
			exists,
		}},
	))
}

// ResetPasswordValidator validates the new password pair and the
// forgot-password token in one schema.
func ResetPasswordValidator(codec TokenParser, users UserReader) func(http.Handler) http.Handler {
	return Validate(validation.NewSchema(
		validation.Field{Name: "password", Source: validation.SourceBody, Rules: passwordRules()},
		validation.Field{Name: "confirm_password", Source: validation.SourceBody, Rules: confirmPasswordRules()},
		validation.Field{Name: "forgot_password_token", Source: validation.SourceBody, Rules: []validation.Rule{
			forgotPasswordTokenRule(codec, users),
		}},
	))
}

// UpdateMeValidator validates the profile patch. Every field is optional;
// absent fields are skipped entirely.
func UpdateMeValidator(users UserReader) func(http.Handler) http.Handler {
	usernameUnique := func(ctx context.Context, value any, bag *validation.Bag) (any, error) {
		username, _ := value.(string)
		user, err := users.GetByUsername(ctx, username)
		if err != nil {
			return nil, validation.EscalateUnavailable()
		}
		if user != nil {
			return nil, errors.New(models.MsgUsernameAlreadyExists)
		}
		return username, nil
	}

	return Validate(validation.NewSchema(
		validation.Field{Name: "name", Source: validation.SourceBody, Optional: true, Rules: []validation.Rule{
			validation.IsString(models.MsgNameMustBeAString),
			validation.Trim(),
			validation.Length(1, 100, models.MsgNameLength),
		}},
		validation.Field{Name: "date_of_birth", Source: validation.SourceBody, Optional: true, Rules: []validation.Rule{
			validation.IsISO8601(models.MsgDateOfBirthISO8601),
		}},
		validation.Field{Name: "bio", Source: validation.SourceBody, Optional: true, Rules: []validation.Rule{
			validation.IsString(models.MsgBioMustBeAString),
			validation.Trim(),
			validation.Length(1, 200, models.MsgBioLength),
		}},
		validation.Field{Name: "location", Source: validation.SourceBody, Optional: true, Rules: []validation.Rule{
			validation.IsString(models.MsgLocationMustBeAString),
			validation.Trim(),
			validation.Length(1, 200, models.MsgLocationLength),
		}},
		validation.Field{Name: "website", Source: validation.SourceBody, Optional: true, Rules: []validation.Rule{
			validation.IsString(models.MsgWebsiteMustBeAString),
			validation.Trim(),
			validation.Length(1, 200, models.MsgWebsiteLength),
		}},
		validation.Field{Name: "username", Source: validation.SourceBody, Optional: true, Rules: []validation.Rule{
			validation.IsString(models.MsgUsernameMustBeAString),
			validation.Trim(),
			validation.Matches(usernameRegex, models.MsgUsernameInvalid),
			usernameUnique,
		}},
		validation.Field{Name: "avatar", Source: validation.SourceBody, Optional: true, Rules: []validation.Rule{
			validation.IsString(models.MsgImageURLMustBeAString),
			validation.Trim(),
			validation.Length(1, 400, models.MsgImageURLLength),
		}},
		validation.Field{Name: "cover_photo", Source: validation.SourceBody, Optional: true, Rules: []validation.Rule{
			validation.IsString(models.MsgImageURLMustBeAString),
			validation.Trim(),
			validation.Length(1, 400, models.MsgImageURLLength),
		}},
	))
}

func userIDRules(users UserReader) []validation.Rule {
	exists := func(ctx context.Context, value any, bag *validation.Bag) (any, error) {
		userID, ok := value.(uuid.UUID)
		if !ok {
			return nil, validation.EscalateUnavailable()
		}
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return nil, validation.EscalateUnavailable()
		}
		if user == nil {
			return nil, &validation.StatusError{
				Status:  http.StatusNotFound,
				Code:    models.CodeUserNotFound,
				Message: models.MsgUserNotFound,
			}
		}
		return userID, nil
	}

	return []validation.Rule{
		validation.IsUUID(&validation.StatusError{
			Status:  http.StatusNotFound,
			Code:    models.CodeUserNotFound,
			Message: models.MsgInvalidUserID,
		}),
		exists,
	}
}

// FollowValidator checks followed_user_id looks like a valid id and the
// target user exists.
func FollowValidator(users UserReader) func(http.Handler) http.Handler {
	return Validate(validation.NewSchema(
		validation.Field{Name: "followed_user_id", Source: validation.SourceBody, Rules: userIDRules(users)},
	))
}

// UnfollowValidator checks the user_id route parameter the same way.
func UnfollowValidator(users UserReader) func(http.Handler) http.Handler {
	return Validate(validation.NewSchema(
		validation.Field{Name: "user_id", Source: validation.SourceParam, Rules: userIDRules(users)},
	))
}

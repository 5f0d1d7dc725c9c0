package middlewares

import (
	"context"

	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/validation"
)

// contextKey is an unexported type for keys in context
type contextKey struct{}

var bagKey = contextKey{}

// Attachment keys written by validation rules and read by handlers.
const (
	attachAuthorization       = "decoded_authorization"
	attachRefreshToken        = "decoded_refresh_token"
	attachEmailVerifyToken    = "decoded_email_verify_token"
	attachForgotPasswordToken = "decoded_forgot_password_token"
	attachUser                = "user"
)

// WithBag stores a validation bag in the context. Validate calls this
// for every request; tests use it to seed handler input directly.
func WithBag(ctx context.Context, bag *validation.Bag) context.Context {
	return context.WithValue(ctx, bagKey, bag)
}

// GetBag retrieves the validation bag from the context. Returns nil if
// no validator ran for this request.
func GetBag(ctx context.Context) *validation.Bag {
	bag, _ := ctx.Value(bagKey).(*validation.Bag)
	return bag
}

func payloadAttachment(ctx context.Context, key string) *models.TokenPayload {
	bag := GetBag(ctx)
	if bag == nil {
		return nil
	}
	v, _ := bag.Attachment(key)
	payload, _ := v.(*models.TokenPayload)
	return payload
}

// GetAuthorizedPayload returns the decoded access token payload.
func GetAuthorizedPayload(ctx context.Context) *models.TokenPayload {
	return payloadAttachment(ctx, attachAuthorization)
}

// GetRefreshPayload returns the decoded refresh token payload.
func GetRefreshPayload(ctx context.Context) *models.TokenPayload {
	return payloadAttachment(ctx, attachRefreshToken)
}

// GetEmailVerifyPayload returns the decoded email verify token payload.
func GetEmailVerifyPayload(ctx context.Context) *models.TokenPayload {
	return payloadAttachment(ctx, attachEmailVerifyToken)
}

// GetForgotPasswordPayload returns the decoded forgot password token payload.
func GetForgotPasswordPayload(ctx context.Context) *models.TokenPayload {
	return payloadAttachment(ctx, attachForgotPasswordToken)
}

// GetAuthenticatedUser returns the user record resolved by the login or
// forgot-password validators.
func GetAuthenticatedUser(ctx context.Context) *models.UserDB {
	bag := GetBag(ctx)
	if bag == nil {
		return nil
	}
	v, _ := bag.Attachment(attachUser)
	user, _ := v.(*models.UserDB)
	return user
}

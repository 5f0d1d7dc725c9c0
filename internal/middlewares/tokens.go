package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sbilibin2017/gw-user-auth/internal/jwt"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/validation"
)

// tokenStatusError maps codec failures onto the stable token error codes.
func tokenStatusError(err error, expiredMessage, invalidMessage string) *validation.StatusError {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return &validation.StatusError{
			Status:  http.StatusUnauthorized,
			Code:    models.CodeTokenExpired,
			Message: expiredMessage,
		}
	}
	return &validation.StatusError{
		Status:  http.StatusUnauthorized,
		Code:    models.CodeTokenInvalid,
		Message: invalidMessage,
	}
}

func tokenMissingError(message string) *validation.StatusError {
	return &validation.StatusError{
		Status:  http.StatusUnauthorized,
		Code:    models.CodeTokenMissing,
		Message: message,
	}
}

// AccessTokenValidator verifies the Authorization bearer token with the
// access purpose and attaches its payload to the request bag.
func AccessTokenValidator(codec TokenParser) func(http.Handler) http.Handler {
	rule := func(ctx context.Context, value any, bag *validation.Bag) (any, error) {
		header, _ := value.(string)
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return nil, tokenMissingError(models.MsgAccessTokenIsRequired)
		}

		payload, err := codec.Parse(ctx, parts[1], models.TokenPurposeAccess)
		if err != nil {
			return nil, tokenStatusError(err, models.MsgAccessTokenIsExpired, models.MsgAccessTokenIsInvalid)
		}

		bag.Attach(attachAuthorization, payload)
		return parts[1], nil
	}

	return Validate(validation.NewSchema(validation.Field{
		Name:   "Authorization",
		Source: validation.SourceHeader,
		Rules:  []validation.Rule{rule},
	}))
}

// RefreshTokenValidator verifies the refresh_token body field in three
// steps: presence, signature/expiry with the refresh purpose, and a
// cross-check that the exact string is still persisted. Deleting the
// record revokes the token even though its signature would still verify.
func RefreshTokenValidator(codec TokenParser, refreshTokens RefreshTokenReader) func(http.Handler) http.Handler {
	rule := func(ctx context.Context, value any, bag *validation.Bag) (any, error) {
		token, _ := value.(string)
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, tokenMissingError(models.MsgRefreshTokenIsRequired)
		}

		payload, err := codec.Parse(ctx, token, models.TokenPurposeRefresh)
		if err != nil {
			return nil, tokenStatusError(err, models.MsgRefreshTokenIsExpired, models.MsgRefreshTokenIsInvalid)
		}

		record, err := refreshTokens.GetByToken(ctx, token)
		if err != nil {
			return nil, validation.EscalateUnavailable()
		}
		if record == nil {
			return nil, &validation.StatusError{
				Status:  http.StatusUnauthorized,
				Code:    models.CodeTokenRevoked,
				Message: models.MsgRefreshTokenRevoked,
			}
		}

		bag.Attach(attachRefreshToken, payload)
		return token, nil
	}

	return Validate(validation.NewSchema(validation.Field{
		Name:   "refresh_token",
		Source: validation.SourceBody,
		Rules:  []validation.Rule{rule},
	}))
}

// EmailVerifyTokenValidator verifies the email_verify_token body field
// with the email-verify purpose. The one-time gate (stored token cleared
// on consumption) is enforced by the service against the user record.
func EmailVerifyTokenValidator(codec TokenParser) func(http.Handler) http.Handler {
	rule := func(ctx context.Context, value any, bag *validation.Bag) (any, error) {
		token, _ := value.(string)
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, tokenMissingError(models.MsgEmailVerifyTokenIsRequired)
		}

		payload, err := codec.Parse(ctx, token, models.TokenPurposeEmailVerify)
		if err != nil {
			return nil, tokenStatusError(err, models.MsgEmailVerifyTokenIsExpired, models.MsgEmailVerifyTokenIsInvalid)
		}

		bag.Attach(attachEmailVerifyToken, payload)
		return token, nil
	}

	return Validate(validation.NewSchema(validation.Field{
		Name:   "email_verify_token",
		Source: validation.SourceBody,
		Rules:  []validation.Rule{rule},
	}))
}

// forgotPasswordTokenRule implements the three-step check for the
// forgot_password_token field: presence, purpose-scoped verification,
// and a cross-check that the token is still the exact one on record.
func forgotPasswordTokenRule(codec TokenParser, users UserReader) validation.Rule {
	return func(ctx context.Context, value any, bag *validation.Bag) (any, error) {
		token, _ := value.(string)
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, tokenMissingError(models.MsgForgotPasswordTokenIsRequired)
		}

		payload, err := codec.Parse(ctx, token, models.TokenPurposeForgotPassword)
		if err != nil {
			return nil, tokenStatusError(err, models.MsgForgotPasswordTokenIsExpired, models.MsgForgotPasswordTokenIsInvalid)
		}

		user, err := users.GetByID(ctx, payload.UserID)
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
		if user.ForgotPasswordToken != token {
			return nil, &validation.StatusError{
				Status:  http.StatusUnauthorized,
				Code:    models.CodeTokenRevoked,
				Message: models.MsgForgotPasswordTokenIsInvalid,
			}
		}

		bag.Attach(attachForgotPasswordToken, payload)
		return token, nil
	}
}

// ForgotPasswordTokenValidator validates the forgot_password_token body
// field on its own (the verify-forgot-password confirmation step).
func ForgotPasswordTokenValidator(codec TokenParser, users UserReader) func(http.Handler) http.Handler {
	return Validate(validation.NewSchema(validation.Field{
		Name:   "forgot_password_token",
		Source: validation.SourceBody,
		Rules:  []validation.Rule{forgotPasswordTokenRule(codec, users)},
	}))
}

// VerifiedUserValidator rejects requests whose access token snapshot is
// not Verified. Runs after AccessTokenValidator.
func VerifiedUserValidator() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload := GetAuthorizedPayload(r.Context())
			if payload == nil || payload.Verify != models.Verified {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(models.ErrorResponse{
					Error: models.MsgUserNotVerified,
					Code:  models.CodeUserNotVerified,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

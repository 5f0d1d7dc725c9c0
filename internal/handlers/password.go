package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/middlewares"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
)

// ForgotPassworder defines the interface that the service must implement.
type ForgotPassworder interface {
	ForgotPassword(ctx context.Context, user *models.UserDB) error
}

// PasswordResetter defines the interface that the service must implement.
type PasswordResetter interface {
	ResetPassword(ctx context.Context, userID uuid.UUID, password string) error
}

// ForgotPasswordRequest represents the JSON body for a reset request
// swagger:model ForgotPasswordRequest
type ForgotPasswordRequest struct {
	// Account email
	// required: true
	// default: john@example.com
	Email string `json:"email"`
}

// ForgotPasswordResponse represents a successful reset-request response
// swagger:model ForgotPasswordResponse
type ForgotPasswordResponse struct {
	// Success message
	// default: Check email to reset password
	Message string `json:"message"`
}

// NewForgotPasswordHandler returns an HTTP handler that starts a
// password reset. The validator resolves the account, so the handler
// only triggers the token issue and email.
// @Summary Request a password reset
// @Description Issues a forgot password token and emails the reset link.
// @Tags users
// @Accept json
// @Produce json
// @Param forgotPasswordRequest body handlers.ForgotPasswordRequest true "Password reset request"
// @Success 200 {object} handlers.ForgotPasswordResponse "Check email to reset password"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 422 {object} models.ValidationErrorResponse "Validation error"
// @Router /users/forgot-password [post]
func NewForgotPasswordHandler(svc ForgotPassworder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user := middlewares.GetAuthenticatedUser(ctx)
		if user == nil {
			writeInternalError(w)
			return
		}

		if err := svc.ForgotPassword(ctx, user); err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeInternalError(w)
			return
		}

		writeJSON(w, http.StatusOK, ForgotPasswordResponse{
			Message: models.MsgCheckEmailToResetPassword,
		})
	}
}

// VerifyForgotPasswordRequest represents the JSON body for token verification
// swagger:model VerifyForgotPasswordRequest
type VerifyForgotPasswordRequest struct {
	// Forgot password token from the reset email
	// required: true
	ForgotPasswordToken string `json:"forgot_password_token"`
}

// VerifyForgotPasswordResponse represents a successful verification response
// swagger:model VerifyForgotPasswordResponse
type VerifyForgotPasswordResponse struct {
	// Success message
	// default: Verify forgot password success
	Message string `json:"message"`
}

// NewVerifyForgotPasswordHandler returns an HTTP handler that checks a
// forgot password token before the client shows the reset form. The
// validator does all the work; reaching the handler means the token is
// good.
// @Summary Verify a forgot password token
// @Description Confirms the reset token is valid, unexpired and still current for its account.
// @Tags users
// @Accept json
// @Produce json
// @Param verifyForgotPasswordRequest body handlers.VerifyForgotPasswordRequest true "Token verification request"
// @Success 200 {object} handlers.VerifyForgotPasswordResponse "Verify forgot password success"
// @Failure 401 {object} models.ErrorResponse "Token missing, invalid, expired or superseded"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /users/verify-forgot-password [post]
func NewVerifyForgotPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, VerifyForgotPasswordResponse{
			Message: models.MsgVerifyForgotPasswordSuccess,
		})
	}
}

// ResetPasswordRequest represents the JSON body for a password reset
// swagger:model ResetPasswordRequest
type ResetPasswordRequest struct {
	// Forgot password token from the reset email
	// required: true
	ForgotPasswordToken string `json:"forgot_password_token"`

	// New password
	// required: true
	// default: Secret123!
	Password string `json:"password"`

	// Confirm password, must match password
	// required: true
	// default: Secret123!
	ConfirmPassword string `json:"confirm_password"`
}

// ResetPasswordResponse represents a successful reset response
// swagger:model ResetPasswordResponse
type ResetPasswordResponse struct {
	// Success message
	// default: Reset password success
	Message string `json:"message"`
}

// NewResetPasswordHandler returns an HTTP handler that completes a
// password reset and consumes the token.
// @Summary Reset password
// @Description Replaces the password and invalidates the reset token so the link cannot be replayed.
// @Tags users
// @Accept json
// @Produce json
// @Param resetPasswordRequest body handlers.ResetPasswordRequest true "Password reset"
// @Success 200 {object} handlers.ResetPasswordResponse "Reset password success"
// @Failure 401 {object} models.ErrorResponse "Token missing, invalid, expired or superseded"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 422 {object} models.ValidationErrorResponse "Validation error"
// @Router /users/reset-password [post]
func NewResetPasswordHandler(svc PasswordResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		bag := middlewares.GetBag(ctx)
		payload := middlewares.GetForgotPasswordPayload(ctx)
		if bag == nil || payload == nil {
			writeInternalError(w)
			return
		}

		if err := svc.ResetPassword(ctx, payload.UserID, bag.String("password")); err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeInternalError(w)
			return
		}

		writeJSON(w, http.StatusOK, ResetPasswordResponse{
			Message: models.MsgResetPasswordSuccess,
		})
	}
}

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/middlewares"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/services"
)

// EmailVerifier defines the interface that the service must implement.
type EmailVerifier interface {
	VerifyEmail(ctx context.Context, userID uuid.UUID) (alreadyVerified bool, err error)
}

// VerifyEmailResender defines the interface that the service must implement.
type VerifyEmailResender interface {
	ResendVerifyEmail(ctx context.Context, userID uuid.UUID) (alreadyVerified bool, err error)
}

// VerifyEmailRequest represents the JSON body for email verification
// swagger:model VerifyEmailRequest
type VerifyEmailRequest struct {
	// Email verify token from the verification email
	// required: true
	EmailVerifyToken string `json:"email_verify_token"`
}

// VerifyEmailResponse represents a successful verification response
// swagger:model VerifyEmailResponse
type VerifyEmailResponse struct {
	// Success message
	// default: Email verify success
	Message string `json:"message"`
}

// NewVerifyEmailHandler returns an HTTP handler for email verification.
// Verifying an already verified account is not an error; the response
// message says so instead.
// @Summary Verify email
// @Description Consumes the email verify token and marks the account verified.
// @Tags users
// @Accept json
// @Produce json
// @Param verifyEmailRequest body handlers.VerifyEmailRequest true "Email verification request"
// @Success 200 {object} handlers.VerifyEmailResponse "Email verify success"
// @Failure 401 {object} models.ErrorResponse "Token missing, invalid or expired"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /users/verify-email [post]
func NewVerifyEmailHandler(svc EmailVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		payload := middlewares.GetEmailVerifyPayload(ctx)
		if payload == nil {
			writeInternalError(w)
			return
		}

		alreadyVerified, err := svc.VerifyEmail(ctx, payload.UserID)
		if err != nil {
			switch err {
			case services.ErrUserNotFound:
				writeError(w, http.StatusNotFound, models.MsgUserNotFound, models.CodeUserNotFound)
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeInternalError(w)
			}
			return
		}

		message := models.MsgEmailVerifySuccess
		if alreadyVerified {
			message = models.MsgEmailAlreadyVerified
		}
		writeJSON(w, http.StatusOK, VerifyEmailResponse{
			Message: message,
		})
	}
}

// ResendVerifyEmailResponse represents a successful resend response
// swagger:model ResendVerifyEmailResponse
type ResendVerifyEmailResponse struct {
	// Success message
	// default: Resend verify email success
	Message string `json:"message"`
}

// NewResendVerifyEmailHandler returns an HTTP handler that reissues the
// verification email. Any previously issued verify token stops working.
// @Summary Resend verification email
// @Description Issues a fresh email verify token and sends it to the account's address.
// @Tags users
// @Produce json
// @Success 200 {object} handlers.ResendVerifyEmailResponse "Resend verify email success"
// @Failure 401 {object} models.ErrorResponse "Token missing, invalid or expired"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /users/resend-verify-email [post]
// @Security BearerAuth
func NewResendVerifyEmailHandler(svc VerifyEmailResender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		payload := middlewares.GetAuthorizedPayload(ctx)
		if payload == nil {
			writeInternalError(w)
			return
		}

		alreadyVerified, err := svc.ResendVerifyEmail(ctx, payload.UserID)
		if err != nil {
			switch err {
			case services.ErrUserNotFound:
				writeError(w, http.StatusNotFound, models.MsgUserNotFound, models.CodeUserNotFound)
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeInternalError(w)
			}
			return
		}

		message := models.MsgResendVerifyEmailSuccess
		if alreadyVerified {
			message = models.MsgEmailAlreadyVerifiedBefore
		}
		writeJSON(w, http.StatusOK, ResendVerifyEmailResponse{
			Message: message,
		})
	}
}

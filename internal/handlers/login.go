package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/middlewares"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
)

// Loginer defines the interface that the service must implement.
// Credential checking happens in the login validator, so the service
// only issues the session token pair.
type Loginer interface {
	Login(ctx context.Context, userID uuid.UUID, verify models.VerifyStatus) (*models.TokenPair, error)
}

// LoginRequest represents the JSON body for login
// swagger:model LoginRequest
type LoginRequest struct {
	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// default: Secret123!
	Password string `json:"password"`
}

// LoginResponse represents a successful login response
// swagger:model LoginResponse
type LoginResponse struct {
	// Success message
	// default: Login success
	Message string `json:"message"`

	// Issued token pair
	Result *models.TokenPair `json:"result"`
}

// NewLoginHandler returns an HTTP handler for login.
// @Summary Log in
// @Description Verifies credentials and issues an access/refresh token pair.
// @Tags users
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "User login request"
// @Success 200 {object} handlers.LoginResponse "Login success"
// @Failure 401 {object} models.ErrorResponse "Email or password is incorrect"
// @Failure 422 {object} models.ValidationErrorResponse "Validation error"
// @Router /users/login [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user := middlewares.GetAuthenticatedUser(ctx)
		if user == nil {
			writeInternalError(w)
			return
		}

		pair, err := svc.Login(ctx, user.UserID, user.Verify)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeInternalError(w)
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{
			Message: models.MsgLoginSuccess,
			Result:  pair,
		})
	}
}

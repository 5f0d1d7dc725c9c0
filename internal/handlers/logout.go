package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/middlewares"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/services"
)

// Logouter defines the interface that the service must implement.
type Logouter interface {
	Logout(ctx context.Context, refreshToken string) error
}

// LogoutRequest represents the JSON body for logout
// swagger:model LogoutRequest
type LogoutRequest struct {
	// Refresh token to revoke
	// required: true
	RefreshToken string `json:"refresh_token"`
}

// LogoutResponse represents a successful logout response
// swagger:model LogoutResponse
type LogoutResponse struct {
	// Success message
	// default: Logout success
	Message string `json:"message"`
}

// NewLogoutHandler returns an HTTP handler for logout.
// @Summary Log out
// @Description Revokes the presented refresh token. The access token stays valid until it expires.
// @Tags users
// @Accept json
// @Produce json
// @Param logoutRequest body handlers.LogoutRequest true "Logout request"
// @Success 200 {object} handlers.LogoutResponse "Logout success"
// @Failure 401 {object} models.ErrorResponse "Token missing, invalid, expired or revoked"
// @Router /users/logout [post]
// @Security BearerAuth
func NewLogoutHandler(svc Logouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		bag := middlewares.GetBag(ctx)
		if bag == nil {
			writeInternalError(w)
			return
		}

		err := svc.Logout(ctx, bag.String("refresh_token"))
		if err != nil {
			switch err {
			case services.ErrRefreshTokenNotFound:
				writeError(w, http.StatusUnauthorized, models.MsgRefreshTokenRevoked, models.CodeTokenRevoked)
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeInternalError(w)
			}
			return
		}

		writeJSON(w, http.StatusOK, LogoutResponse{
			Message: models.MsgLogoutSuccess,
		})
	}
}

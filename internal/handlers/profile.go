package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/services"
)

// ProfileGetter defines the interface that the service must implement.
type ProfileGetter interface {
	GetProfile(ctx context.Context, username string) (*models.UserDB, error)
}

// ProfileResponse represents a public profile response
// swagger:model ProfileResponse
type ProfileResponse struct {
	// Success message
	// default: Get profile success
	Message string `json:"message"`

	// Public user record
	Result *models.UserDB `json:"result"`
}

// NewGetProfileHandler returns an HTTP handler for reading a public
// profile by username. No authentication required.
// @Summary Get a public profile
// @Description Returns the public profile for a username.
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} handlers.ProfileResponse "Get profile success"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /users/{username} [get]
func NewGetProfileHandler(svc ProfileGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		username := chi.URLParam(r, "username")

		user, err := svc.GetProfile(ctx, username)
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

		writeJSON(w, http.StatusOK, ProfileResponse{
			Message: models.MsgGetProfileSuccess,
			Result:  user,
		})
	}
}

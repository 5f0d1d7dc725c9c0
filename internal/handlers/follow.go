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

// FollowWriter defines the interface that the service must implement.
type FollowWriter interface {
	Follow(ctx context.Context, userID, followedUserID uuid.UUID) (alreadyFollowed bool, err error)
}

// UnfollowWriter defines the interface that the service must implement.
type UnfollowWriter interface {
	Unfollow(ctx context.Context, userID, followedUserID uuid.UUID) (alreadyUnfollowed bool, err error)
}

// FollowRequest represents the JSON body for following a user
// swagger:model FollowRequest
type FollowRequest struct {
	// ID of the user to follow
	// required: true
	FollowedUserID string `json:"followed_user_id"`
}

// FollowResponse represents a successful follow response
// swagger:model FollowResponse
type FollowResponse struct {
	// Success message
	// default: Follow success
	Message string `json:"message"`
}

// NewFollowHandler returns an HTTP handler for following a user.
// Following an already followed user is not an error.
// @Summary Follow a user
// @Description Adds a follow edge from the authenticated user to the target.
// @Tags users
// @Accept json
// @Produce json
// @Param followRequest body handlers.FollowRequest true "Follow request"
// @Success 200 {object} handlers.FollowResponse "Follow success"
// @Failure 400 {object} models.ErrorResponse "Cannot follow yourself"
// @Failure 401 {object} models.ErrorResponse "Token missing, invalid or expired"
// @Failure 403 {object} models.ErrorResponse "User not verified"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /users/follow [post]
// @Security BearerAuth
func NewFollowHandler(svc FollowWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		payload := middlewares.GetAuthorizedPayload(ctx)
		bag := middlewares.GetBag(ctx)
		if payload == nil || bag == nil {
			writeInternalError(w)
			return
		}

		followedValue, _ := bag.Value("followed_user_id")
		followedUserID, ok := followedValue.(uuid.UUID)
		if !ok {
			writeInternalError(w)
			return
		}

		alreadyFollowed, err := svc.Follow(ctx, payload.UserID, followedUserID)
		if err != nil {
			switch err {
			case services.ErrCannotFollowSelf:
				writeError(w, http.StatusBadRequest, models.MsgCannotFollowSelf, models.CodeValidationError)
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeInternalError(w)
			}
			return
		}

		message := models.MsgFollowSuccess
		if alreadyFollowed {
			message = models.MsgAlreadyFollowed
		}
		writeJSON(w, http.StatusOK, FollowResponse{
			Message: message,
		})
	}
}

// UnfollowResponse represents a successful unfollow response
// swagger:model UnfollowResponse
type UnfollowResponse struct {
	// Success message
	// default: Unfollow success
	Message string `json:"message"`
}

// NewUnfollowHandler returns an HTTP handler for unfollowing a user.
// Unfollowing a user who was never followed is not an error.
// @Summary Unfollow a user
// @Description Removes the follow edge from the authenticated user to the target.
// @Tags users
// @Produce json
// @Param user_id path string true "ID of the user to unfollow"
// @Success 200 {object} handlers.UnfollowResponse "Unfollow success"
// @Failure 401 {object} models.ErrorResponse "Token missing, invalid or expired"
// @Failure 403 {object} models.ErrorResponse "User not verified"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /users/follow/{user_id} [delete]
// @Security BearerAuth
func NewUnfollowHandler(svc UnfollowWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		payload := middlewares.GetAuthorizedPayload(ctx)
		bag := middlewares.GetBag(ctx)
		if payload == nil || bag == nil {
			writeInternalError(w)
			return
		}

		targetValue, _ := bag.Value("user_id")
		targetUserID, ok := targetValue.(uuid.UUID)
		if !ok {
			writeInternalError(w)
			return
		}

		alreadyUnfollowed, err := svc.Unfollow(ctx, payload.UserID, targetUserID)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeInternalError(w)
			return
		}

		message := models.MsgUnfollowSuccess
		if alreadyUnfollowed {
			message = models.MsgAlreadyUnfollowed
		}
		writeJSON(w, http.StatusOK, UnfollowResponse{
			Message: message,
		})
	}
}

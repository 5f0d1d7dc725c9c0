package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/middlewares"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/services"
	"github.com/sbilibin2017/gw-user-auth/internal/validation"
)

// MeReader defines the interface that the service must implement.
type MeReader interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// MeUpdater defines the interface that the service must implement.
type MeUpdater interface {
	UpdateMe(ctx context.Context, userID uuid.UUID, patch *models.UserPatch) (*models.UserDB, error)
}

// MeResponse represents the authenticated user's own record
// swagger:model MeResponse
type MeResponse struct {
	// Success message
	// default: Get me success
	Message string `json:"message"`

	// User record
	Result *models.UserDB `json:"result"`
}

// NewGetMeHandler returns an HTTP handler for reading the authenticated
// user's own record.
// @Summary Get own profile
// @Description Returns the authenticated user's record.
// @Tags users
// @Produce json
// @Success 200 {object} handlers.MeResponse "Get me success"
// @Failure 401 {object} models.ErrorResponse "Token missing, invalid or expired"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /users/me [get]
// @Security BearerAuth
func NewGetMeHandler(svc MeReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		payload := middlewares.GetAuthorizedPayload(ctx)
		if payload == nil {
			writeInternalError(w)
			return
		}

		user, err := svc.GetMe(ctx, payload.UserID)
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

		writeJSON(w, http.StatusOK, MeResponse{
			Message: models.MsgGetMeSuccess,
			Result:  user,
		})
	}
}

// UpdateMeRequest represents the JSON body for a profile update. Every
// field is optional; absent fields stay unchanged.
// swagger:model UpdateMeRequest
type UpdateMeRequest struct {
	Name        *string `json:"name,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Location    *string `json:"location,omitempty"`
	Website     *string `json:"website,omitempty"`
	Username    *string `json:"username,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
	CoverPhoto  *string `json:"cover_photo,omitempty"`
}

// UpdateMeResponse represents a successful profile update response
// swagger:model UpdateMeResponse
type UpdateMeResponse struct {
	// Success message
	// default: Update me success
	Message string `json:"message"`

	// Updated user record
	Result *models.UserDB `json:"result"`
}

// patchFromBag collects the validated, normalized update fields. Only
// fields the client actually sent appear in the bag.
func patchFromBag(bag *validation.Bag) *models.UserPatch {
	patch := &models.UserPatch{}

	str := func(name string) *string {
		if v, ok := bag.Value(name); ok {
			if s, ok := v.(string); ok {
				return &s
			}
		}
		return nil
	}

	patch.Name = str("name")
	patch.Bio = str("bio")
	patch.Location = str("location")
	patch.Website = str("website")
	patch.Username = str("username")
	patch.Avatar = str("avatar")
	patch.CoverPhoto = str("cover_photo")

	if v, ok := bag.Value("date_of_birth"); ok {
		if dob, ok := v.(time.Time); ok {
			patch.DateOfBirth = &dob
		}
	}

	return patch
}

// NewUpdateMeHandler returns an HTTP handler for updating the
// authenticated user's profile.
// @Summary Update own profile
// @Description Applies the sent profile fields. Requires a verified account.
// @Tags users
// @Accept json
// @Produce json
// @Param updateMeRequest body handlers.UpdateMeRequest true "Profile update request"
// @Success 200 {object} handlers.UpdateMeResponse "Update me success"
// @Failure 401 {object} models.ErrorResponse "Token missing, invalid or expired"
// @Failure 403 {object} models.ErrorResponse "User not verified"
// @Failure 400 {object} models.ErrorResponse "Username already exists"
// @Failure 422 {object} models.ValidationErrorResponse "Validation error"
// @Router /users/me [patch]
// @Security BearerAuth
func NewUpdateMeHandler(svc MeUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		payload := middlewares.GetAuthorizedPayload(ctx)
		bag := middlewares.GetBag(ctx)
		if payload == nil || bag == nil {
			writeInternalError(w)
			return
		}

		user, err := svc.UpdateMe(ctx, payload.UserID, patchFromBag(bag))
		if err != nil {
			switch err {
			case services.ErrUsernameAlreadyExists:
				writeError(w, http.StatusBadRequest, models.MsgUsernameAlreadyExists, models.CodeUsernameAlreadyExists)
			case services.ErrUserNotFound:
				writeError(w, http.StatusNotFound, models.MsgUserNotFound, models.CodeUserNotFound)
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeInternalError(w)
			}
			return
		}

		writeJSON(w, http.StatusOK, UpdateMeResponse{
			Message: models.MsgUpdateMeSuccess,
			Result:  user,
		})
	}
}

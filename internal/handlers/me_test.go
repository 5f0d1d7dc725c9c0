package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/services"
	"github.com/sbilibin2017/gw-user-auth/internal/validation"
)

func authorizedBag(userID uuid.UUID) func(bag *validation.Bag) {
	return func(bag *validation.Bag) {
		bag.Attach("decoded_authorization", &models.TokenPayload{
			UserID:  userID,
			Purpose: models.TokenPurposeAccess,
			Verify:  models.Verified,
		})
	}
}

func TestGetMeHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	user := &models.UserDB{UserID: userID, Name: "John", Email: "john@example.com"}

	mockSvc := NewMockMeReader(ctrl)
	mockSvc.EXPECT().
		GetMe(gomock.Any(), userID).
		Return(user, nil)

	r := newBagRequest(http.MethodGet, "/users/me", authorizedBag(userID))
	w := httptest.NewRecorder()

	NewGetMeHandler(mockSvc).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.MsgGetMeSuccess, resp.Message)
	assert.Equal(t, "john@example.com", resp.Result.Email)
}

func TestUpdateMeHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("updates sent fields only", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSvc := NewMockMeUpdater(ctrl)
		mockSvc.EXPECT().
			UpdateMe(gomock.Any(), userID, gomock.Any()).
			DoAndReturn(func(_ interface{}, _ uuid.UUID, patch *models.UserPatch) (*models.UserDB, error) {
				require.NotNil(t, patch.Bio)
				assert.Equal(t, "hello", *patch.Bio)
				require.NotNil(t, patch.Username)
				assert.Equal(t, "john_2000", *patch.Username)
				assert.Nil(t, patch.Name)
				assert.Nil(t, patch.DateOfBirth)
				return &models.UserDB{UserID: userID, Bio: "hello", Username: "john_2000"}, nil
			})

		r := newBagRequest(http.MethodPatch, "/users/me", func(bag *validation.Bag) {
			authorizedBag(userID)(bag)
			bag.SetValue("bio", "hello")
			bag.SetValue("username", "john_2000")
		})
		w := httptest.NewRecorder()

		NewUpdateMeHandler(mockSvc).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp UpdateMeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, models.MsgUpdateMeSuccess, resp.Message)
		assert.Equal(t, "john_2000", resp.Result.Username)
	})

	t.Run("username taken", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockSvc := NewMockMeUpdater(ctrl)
		mockSvc.EXPECT().
			UpdateMe(gomock.Any(), userID, gomock.Any()).
			Return(nil, services.ErrUsernameAlreadyExists)

		r := newBagRequest(http.MethodPatch, "/users/me", func(bag *validation.Bag) {
			authorizedBag(userID)(bag)
			bag.SetValue("username", "taken")
		})
		w := httptest.NewRecorder()

		NewUpdateMeHandler(mockSvc).ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp models.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, models.CodeUsernameAlreadyExists, resp.Code)
	})
}

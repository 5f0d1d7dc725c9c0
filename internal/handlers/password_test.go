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
	"github.com/sbilibin2017/gw-user-auth/internal/validation"
)

func TestForgotPasswordHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: uuid.New(), Email: "john@example.com", Name: "John"}

	mockSvc := NewMockForgotPassworder(ctrl)
	mockSvc.EXPECT().
		ForgotPassword(gomock.Any(), user).
		Return(nil)

	r := newBagRequest(http.MethodPost, "/users/forgot-password", func(bag *validation.Bag) {
		bag.Attach("user", user)
	})
	w := httptest.NewRecorder()

	NewForgotPasswordHandler(mockSvc).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ForgotPasswordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.MsgCheckEmailToResetPassword, resp.Message)
}

func TestVerifyForgotPasswordHandler(t *testing.T) {
	r := newBagRequest(http.MethodPost, "/users/verify-forgot-password", nil)
	w := httptest.NewRecorder()

	NewVerifyForgotPasswordHandler().ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp VerifyForgotPasswordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.MsgVerifyForgotPasswordSuccess, resp.Message)
}

func TestResetPasswordHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	mockSvc := NewMockPasswordResetter(ctrl)
	mockSvc.EXPECT().
		ResetPassword(gomock.Any(), userID, "NewPass1!").
		Return(nil)

	r := newBagRequest(http.MethodPost, "/users/reset-password", func(bag *validation.Bag) {
		bag.SetValue("password", "NewPass1!")
		bag.Attach("decoded_forgot_password_token", &models.TokenPayload{
			UserID:  userID,
			Purpose: models.TokenPurposeForgotPassword,
		})
	})
	w := httptest.NewRecorder()

	NewResetPasswordHandler(mockSvc).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ResetPasswordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.MsgResetPasswordSuccess, resp.Message)
}

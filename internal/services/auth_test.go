package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/repositories"
	"github.com/sbilibin2017/gw-user-auth/internal/services"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockRefresh := services.NewMockRefreshTokenWriter(ctrl)
	mockTokens := services.NewMockTokenGenerator(ctrl)
	mockNotifier := services.NewMockEmailNotifier(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockRefresh, mockTokens, mockNotifier)

	dob := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("successful registration", func(t *testing.T) {
		mockTokens.EXPECT().
			Generate(gomock.Any(), gomock.Any(), models.Unverified, models.TokenPurposeEmailVerify).
			Return("verify-token", nil)

		var saved *models.UserDB
		mockWriter.EXPECT().
			Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user *models.UserDB) error {
				saved = user
				return nil
			})

		mockTokens.EXPECT().
			Generate(gomock.Any(), gomock.Any(), models.Unverified, models.TokenPurposeAccess).
			Return("access-token", nil)
		mockTokens.EXPECT().
			Generate(gomock.Any(), gomock.Any(), models.Unverified, models.TokenPurposeRefresh).
			Return("refresh-token", nil)
		mockRefresh.EXPECT().
			Save(gomock.Any(), "refresh-token", gomock.Any(), gomock.Any()).
			Return(nil)

		mockNotifier.EXPECT().
			SendVerificationEmail(gomock.Any(), "alice@example.com", "alice", "verify-token")

		pair, err := svc.Register(context.Background(), "alice", "alice@example.com", "Abcdef1!", dob)
		require.NoError(t, err)
		assert.Equal(t, "access-token", pair.AccessToken)
		assert.Equal(t, "refresh-token", pair.RefreshToken)

		require.NotNil(t, saved)
		assert.Equal(t, models.Unverified, saved.Verify)
		assert.Equal(t, "verify-token", saved.EmailVerifyToken)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("Abcdef1!")))
	})

	t.Run("email already exists", func(t *testing.T) {
		mockTokens.EXPECT().
			Generate(gomock.Any(), gomock.Any(), models.Unverified, models.TokenPurposeEmailVerify).
			Return("verify-token", nil)
		mockWriter.EXPECT().
			Save(gomock.Any(), gomock.Any()).
			Return(repositories.ErrAlreadyExists)

		_, err := svc.Register(context.Background(), "bob", "bob@example.com", "Abcdef1!", dob)
		assert.ErrorIs(t, err, services.ErrEmailAlreadyExists)
	})

	t.Run("save error", func(t *testing.T) {
		mockTokens.EXPECT().
			Generate(gomock.Any(), gomock.Any(), models.Unverified, models.TokenPurposeEmailVerify).
			Return("verify-token", nil)
		mockWriter.EXPECT().
			Save(gomock.Any(), gomock.Any()).
			Return(errors.New("db error"))

		_, err := svc.Register(context.Background(), "eve", "eve@example.com", "Abcdef1!", dob)
		assert.EqualError(t, err, "db error")
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRefresh := services.NewMockRefreshTokenWriter(ctrl)
	mockTokens := services.NewMockTokenGenerator(ctrl)

	svc := services.NewAuthService(nil, nil, mockRefresh, mockTokens, nil)

	userID := uuid.New()

	mockTokens.EXPECT().
		Generate(gomock.Any(), userID, models.Verified, models.TokenPurposeAccess).
		Return("access-token", nil)
	mockTokens.EXPECT().
		Generate(gomock.Any(), userID, models.Verified, models.TokenPurposeRefresh).
		Return("refresh-token", nil)
	mockRefresh.EXPECT().
		Save(gomock.Any(), "refresh-token", userID, gomock.Any()).
		Return(nil)

	pair, err := svc.Login(context.Background(), userID, models.Verified)
	require.NoError(t, err)
	assert.Equal(t, "access-token", pair.AccessToken)
	assert.Equal(t, "refresh-token", pair.RefreshToken)
}

func TestAuthService_Logout(t *testing.T) {
	tests := []struct {
		name    string
		rows    int64
		err     error
		wantErr error
	}{
		{name: "successful logout", rows: 1},
		{name: "token already revoked", rows: 0, wantErr: services.ErrRefreshTokenNotFound},
		{name: "delete error", err: errors.New("db error"), wantErr: errors.New("db error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRefresh := services.NewMockRefreshTokenWriter(ctrl)
			svc := services.NewAuthService(nil, nil, mockRefresh, nil, nil)

			mockRefresh.EXPECT().
				Delete(gomock.Any(), "refresh-token").
				Return(tt.rows, tt.err)

			err := svc.Logout(context.Background(), "refresh-token")
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthService_VerifyEmail(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name        string
		user        *models.UserDB
		setVerified bool
		wantAlready bool
		wantErr     error
	}{
		{
			name:    "user not found",
			user:    nil,
			wantErr: services.ErrUserNotFound,
		},
		{
			name:        "already verified",
			user:        &models.UserDB{UserID: userID, Verify: models.Verified, EmailVerifyToken: ""},
			wantAlready: true,
		},
		{
			name:        "verifies pending user",
			user:        &models.UserDB{UserID: userID, Verify: models.Unverified, EmailVerifyToken: "token"},
			setVerified: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockReader := services.NewMockUserReader(ctrl)
			mockWriter := services.NewMockUserWriter(ctrl)
			svc := services.NewAuthService(mockReader, mockWriter, nil, nil, nil)

			mockReader.EXPECT().
				GetByID(gomock.Any(), userID).
				Return(tt.user, nil)
			if tt.setVerified {
				mockWriter.EXPECT().
					SetVerified(gomock.Any(), userID).
					Return(nil)
			}

			already, err := svc.VerifyEmail(context.Background(), userID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAlready, already)
		})
	}
}

func TestAuthService_ResendVerifyEmail(t *testing.T) {
	userID := uuid.New()

	t.Run("already verified", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockReader := services.NewMockUserReader(ctrl)
		svc := services.NewAuthService(mockReader, nil, nil, nil, nil)

		mockReader.EXPECT().
			GetByID(gomock.Any(), userID).
			Return(&models.UserDB{UserID: userID, Verify: models.Verified}, nil)

		already, err := svc.ResendVerifyEmail(context.Background(), userID)
		require.NoError(t, err)
		assert.True(t, already)
	})

	t.Run("reissues token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockReader := services.NewMockUserReader(ctrl)
		mockWriter := services.NewMockUserWriter(ctrl)
		mockTokens := services.NewMockTokenGenerator(ctrl)
		mockNotifier := services.NewMockEmailNotifier(ctrl)
		svc := services.NewAuthService(mockReader, mockWriter, nil, mockTokens, mockNotifier)

		mockReader.EXPECT().
			GetByID(gomock.Any(), userID).
			Return(&models.UserDB{
				UserID: userID,
				Name:   "alice",
				Email:  "alice@example.com",
				Verify: models.Unverified,
			}, nil)
		mockTokens.EXPECT().
			Generate(gomock.Any(), userID, models.Unverified, models.TokenPurposeEmailVerify).
			Return("new-token", nil)
		mockWriter.EXPECT().
			SetEmailVerifyToken(gomock.Any(), userID, "new-token").
			Return(nil)
		mockNotifier.EXPECT().
			SendVerificationEmail(gomock.Any(), "alice@example.com", "alice", "new-token")

		already, err := svc.ResendVerifyEmail(context.Background(), userID)
		require.NoError(t, err)
		assert.False(t, already)
	})
}

func TestAuthService_ForgotPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWriter := services.NewMockUserWriter(ctrl)
	mockTokens := services.NewMockTokenGenerator(ctrl)
	mockNotifier := services.NewMockEmailNotifier(ctrl)
	svc := services.NewAuthService(nil, mockWriter, nil, mockTokens, mockNotifier)

	user := &models.UserDB{
		UserID: uuid.New(),
		Name:   "alice",
		Email:  "alice@example.com",
		Verify: models.Verified,
	}

	mockTokens.EXPECT().
		Generate(gomock.Any(), user.UserID, models.Verified, models.TokenPurposeForgotPassword).
		Return("reset-token", nil)
	mockWriter.EXPECT().
		SetForgotPasswordToken(gomock.Any(), user.UserID, "reset-token").
		Return(nil)
	mockNotifier.EXPECT().
		SendPasswordResetEmail(gomock.Any(), "alice@example.com", "alice", "reset-token")

	err := svc.ForgotPassword(context.Background(), user)
	assert.NoError(t, err)
}

func TestAuthService_ResetPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWriter := services.NewMockUserWriter(ctrl)
	svc := services.NewAuthService(nil, mockWriter, nil, nil, nil)

	userID := uuid.New()

	mockWriter.EXPECT().
		ResetPassword(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, hash string) error {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("NewPass1!"))
		})

	err := svc.ResetPassword(context.Background(), userID, "NewPass1!")
	assert.NoError(t, err)
}

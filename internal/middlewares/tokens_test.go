package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-user-auth/internal/config"
	"github.com/sbilibin2017/gw-user-auth/internal/jwt"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/validation"
)

func validationBagWithPayload(payload *models.TokenPayload) *validation.Bag {
	bag := validation.NewBag()
	bag.Attach(attachAuthorization, payload)
	return bag
}

func testTokenConfig(ttl time.Duration) *config.Config {
	return &config.Config{
		AccessToken:         config.TokenConfig{Secret: "access-secret", TTL: ttl},
		RefreshToken:        config.TokenConfig{Secret: "refresh-secret", TTL: ttl},
		EmailVerifyToken:    config.TokenConfig{Secret: "email-verify-secret", TTL: ttl},
		ForgotPasswordToken: config.TokenConfig{Secret: "forgot-password-secret", TTL: ttl},
	}
}

// runMiddleware sends the request through the middleware and captures the
// request the inner handler saw, if it ran at all.
func runMiddleware(mw func(http.Handler) http.Handler, r *http.Request) (*httptest.ResponseRecorder, *http.Request) {
	var captured *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.WriteHeader(http.StatusOK)
	})
	w := httptest.NewRecorder()
	mw(next).ServeHTTP(w, r)
	return w, captured
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAccessTokenValidator(t *testing.T) {
	codec := jwt.New(testTokenConfig(time.Hour))
	userID := uuid.New()

	t.Run("valid bearer token", func(t *testing.T) {
		token, err := codec.Generate(context.Background(), userID, models.Verified, models.TokenPurposeAccess)
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		w, captured := runMiddleware(AccessTokenValidator(codec), r)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, captured)

		payload := GetAuthorizedPayload(captured.Context())
		require.NotNil(t, payload)
		assert.Equal(t, userID, payload.UserID)
		assert.Equal(t, models.Verified, payload.Verify)
	})

	t.Run("missing header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/users/me", nil)

		w, captured := runMiddleware(AccessTokenValidator(codec), r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, captured)
		assert.Equal(t, models.CodeTokenMissing, decodeError(t, w).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expiredCodec := jwt.New(testTokenConfig(-time.Hour))
		token, err := expiredCodec.Generate(context.Background(), userID, models.Verified, models.TokenPurposeAccess)
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		w, _ := runMiddleware(AccessTokenValidator(codec), r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, models.CodeTokenExpired, resp.Code)
		assert.Equal(t, models.MsgAccessTokenIsExpired, resp.Error)
	})

	t.Run("token of another purpose", func(t *testing.T) {
		token, err := codec.Generate(context.Background(), userID, models.Verified, models.TokenPurposeRefresh)
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		w, _ := runMiddleware(AccessTokenValidator(codec), r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, models.CodeTokenInvalid, decodeError(t, w).Code)
	})
}

func TestRefreshTokenValidator(t *testing.T) {
	codec := jwt.New(testTokenConfig(time.Hour))
	userID := uuid.New()

	newRequest := func(body string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/users/logout", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		return r
	}

	t.Run("valid persisted token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		token, err := codec.Generate(context.Background(), userID, models.Verified, models.TokenPurposeRefresh)
		require.NoError(t, err)

		mockTokens := NewMockRefreshTokenReader(ctrl)
		mockTokens.EXPECT().
			GetByToken(gomock.Any(), token).
			Return(&models.RefreshTokenDB{Token: token, UserID: userID}, nil)

		w, captured := runMiddleware(
			RefreshTokenValidator(codec, mockTokens),
			newRequest(`{"refresh_token":"`+token+`"}`),
		)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, captured)

		payload := GetRefreshPayload(captured.Context())
		require.NotNil(t, payload)
		assert.Equal(t, userID, payload.UserID)
		assert.Equal(t, token, GetBag(captured.Context()).String("refresh_token"))
	})

	t.Run("revoked token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		token, err := codec.Generate(context.Background(), userID, models.Verified, models.TokenPurposeRefresh)
		require.NoError(t, err)

		mockTokens := NewMockRefreshTokenReader(ctrl)
		mockTokens.EXPECT().
			GetByToken(gomock.Any(), token).
			Return(nil, nil)

		w, _ := runMiddleware(
			RefreshTokenValidator(codec, mockTokens),
			newRequest(`{"refresh_token":"`+token+`"}`),
		)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, models.CodeTokenRevoked, resp.Code)
		assert.Equal(t, models.MsgRefreshTokenRevoked, resp.Error)
	})

	t.Run("missing token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		w, _ := runMiddleware(
			RefreshTokenValidator(codec, NewMockRefreshTokenReader(ctrl)),
			newRequest(`{}`),
		)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, models.CodeTokenMissing, decodeError(t, w).Code)
	})
}

func TestEmailVerifyTokenValidator(t *testing.T) {
	codec := jwt.New(testTokenConfig(time.Hour))
	userID := uuid.New()

	token, err := codec.Generate(context.Background(), userID, models.Unverified, models.TokenPurposeEmailVerify)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/users/verify-email",
		strings.NewReader(`{"email_verify_token":"`+token+`"}`))

	w, captured := runMiddleware(EmailVerifyTokenValidator(codec), r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)

	payload := GetEmailVerifyPayload(captured.Context())
	require.NotNil(t, payload)
	assert.Equal(t, userID, payload.UserID)
}

func TestForgotPasswordTokenValidator(t *testing.T) {
	codec := jwt.New(testTokenConfig(time.Hour))
	userID := uuid.New()

	newRequest := func(token string) *http.Request {
		return httptest.NewRequest(http.MethodPost, "/users/verify-forgot-password",
			strings.NewReader(`{"forgot_password_token":"`+token+`"}`))
	}

	t.Run("current token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		token, err := codec.Generate(context.Background(), userID, models.Verified, models.TokenPurposeForgotPassword)
		require.NoError(t, err)

		mockUsers := NewMockUserReader(ctrl)
		mockUsers.EXPECT().
			GetByID(gomock.Any(), userID).
			Return(&models.UserDB{UserID: userID, ForgotPasswordToken: token}, nil)

		w, captured := runMiddleware(ForgotPasswordTokenValidator(codec, mockUsers), newRequest(token))

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, captured)
		require.NotNil(t, GetForgotPasswordPayload(captured.Context()))
	})

	t.Run("superseded token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		token, err := codec.Generate(context.Background(), userID, models.Verified, models.TokenPurposeForgotPassword)
		require.NoError(t, err)

		mockUsers := NewMockUserReader(ctrl)
		mockUsers.EXPECT().
			GetByID(gomock.Any(), userID).
			Return(&models.UserDB{UserID: userID, ForgotPasswordToken: "a-newer-token"}, nil)

		w, _ := runMiddleware(ForgotPasswordTokenValidator(codec, mockUsers), newRequest(token))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, models.CodeTokenRevoked, resp.Code)
		assert.Equal(t, models.MsgForgotPasswordTokenIsInvalid, resp.Error)
	})

	t.Run("user gone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		token, err := codec.Generate(context.Background(), userID, models.Verified, models.TokenPurposeForgotPassword)
		require.NoError(t, err)

		mockUsers := NewMockUserReader(ctrl)
		mockUsers.EXPECT().
			GetByID(gomock.Any(), userID).
			Return(nil, nil)

		w, _ := runMiddleware(ForgotPasswordTokenValidator(codec, mockUsers), newRequest(token))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, models.CodeUserNotFound, decodeError(t, w).Code)
	})
}

func TestVerifiedUserValidator(t *testing.T) {
	tests := []struct {
		name       string
		verify     models.VerifyStatus
		wantStatus int
	}{
		{name: "verified user passes", verify: models.Verified, wantStatus: http.StatusOK},
		{name: "unverified user rejected", verify: models.Unverified, wantStatus: http.StatusForbidden},
		{name: "banned user rejected", verify: models.Banned, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag := validationBagWithPayload(&models.TokenPayload{
				UserID:  uuid.New(),
				Purpose: models.TokenPurposeAccess,
				Verify:  tt.verify,
			})

			r := httptest.NewRequest(http.MethodPatch, "/users/me", nil)
			r = r.WithContext(WithBag(r.Context(), bag))

			w, _ := runMiddleware(VerifiedUserValidator(), r)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	t.Run("no access payload at all", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPatch, "/users/me", nil)
		w, _ := runMiddleware(VerifiedUserValidator(), r)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

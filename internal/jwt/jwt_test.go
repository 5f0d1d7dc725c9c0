package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-user-auth/internal/config"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
)

func testConfig(accessTTL time.Duration) *config.Config {
	return &config.Config{
		AccessToken:         config.TokenConfig{Secret: "access-secret", TTL: accessTTL},
		RefreshToken:        config.TokenConfig{Secret: "refresh-secret", TTL: time.Hour},
		EmailVerifyToken:    config.TokenConfig{Secret: "verify-secret", TTL: time.Hour},
		ForgotPasswordToken: config.TokenConfig{Secret: "forgot-secret", TTL: time.Hour},
	}
}

func TestJWT_GenerateAndParse(t *testing.T) {
	j := New(testConfig(time.Minute))
	ctx := context.Background()
	userID := uuid.New()

	token, err := j.Generate(ctx, userID, models.Verified, models.TokenPurposeAccess)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	payload, err := j.Parse(ctx, token, models.TokenPurposeAccess)
	assert.NoError(t, err)
	assert.Equal(t, userID, payload.UserID)
	assert.Equal(t, models.TokenPurposeAccess, payload.Purpose)
	assert.Equal(t, models.Verified, payload.Verify)
}

func TestJWT_PurposesAreNotInterchangeable(t *testing.T) {
	j := New(testConfig(time.Minute))
	ctx := context.Background()

	tests := []struct {
		name      string
		signedAs  models.TokenPurpose
		parsedAs  models.TokenPurpose
	}{
		{"access as refresh", models.TokenPurposeAccess, models.TokenPurposeRefresh},
		{"refresh as access", models.TokenPurposeRefresh, models.TokenPurposeAccess},
		{"email verify as forgot password", models.TokenPurposeEmailVerify, models.TokenPurposeForgotPassword},
		{"forgot password as email verify", models.TokenPurposeForgotPassword, models.TokenPurposeEmailVerify},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := j.Generate(ctx, uuid.New(), models.Unverified, tt.signedAs)
			assert.NoError(t, err)

			payload, err := j.Parse(ctx, token, tt.parsedAs)
			assert.ErrorIs(t, err, ErrTokenInvalid)
			assert.Nil(t, payload)
		})
	}
}

func TestJWT_SamePurposeDifferentSecret(t *testing.T) {
	ctx := context.Background()
	j1 := New(testConfig(time.Minute))

	other := testConfig(time.Minute)
	other.AccessToken.Secret = "a-different-secret"
	j2 := New(other)

	token, err := j1.Generate(ctx, uuid.New(), models.Unverified, models.TokenPurposeAccess)
	assert.NoError(t, err)

	payload, err := j2.Parse(ctx, token, models.TokenPurposeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Nil(t, payload)
}

func TestJWT_ExpiredToken(t *testing.T) {
	j := New(testConfig(-time.Minute))
	ctx := context.Background()

	token, err := j.Generate(ctx, uuid.New(), models.Unverified, models.TokenPurposeAccess)
	assert.NoError(t, err)

	payload, err := j.Parse(ctx, token, models.TokenPurposeAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Nil(t, payload)
}

func TestJWT_MalformedToken(t *testing.T) {
	j := New(testConfig(time.Minute))
	ctx := context.Background()

	payload, err := j.Parse(ctx, "not.a.token", models.TokenPurposeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Nil(t, payload)
}

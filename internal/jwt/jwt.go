package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-user-auth/internal/config"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
)

// Error variables distinguishing expiry from every other verification
// failure, for user-facing messaging.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// JWT signs and verifies tokens scoped to one of four purposes. Each
// purpose has its own secret, so a token leaked or misused for one
// purpose can never be replayed as another.
type JWT struct {
	secrets map[models.TokenPurpose]string
	ttls    map[models.TokenPurpose]time.Duration
}

// New creates a JWT codec from the purpose-scoped token configuration.
func New(cfg *config.Config) *JWT {
	return &JWT{
		secrets: map[models.TokenPurpose]string{
			models.TokenPurposeAccess:         cfg.AccessToken.Secret,
			models.TokenPurposeRefresh:        cfg.RefreshToken.Secret,
			models.TokenPurposeEmailVerify:    cfg.EmailVerifyToken.Secret,
			models.TokenPurposeForgotPassword: cfg.ForgotPasswordToken.Secret,
		},
		ttls: map[models.TokenPurpose]time.Duration{
			models.TokenPurposeAccess:         cfg.AccessToken.TTL,
			models.TokenPurposeRefresh:        cfg.RefreshToken.TTL,
			models.TokenPurposeEmailVerify:    cfg.EmailVerifyToken.TTL,
			models.TokenPurposeForgotPassword: cfg.ForgotPasswordToken.TTL,
		},
	}
}

// Generate creates a signed token for the given user and purpose, expiring
// after the purpose's configured TTL. Pure function of inputs and secret.
func (j *JWT) Generate(ctx context.Context, userID uuid.UUID, verify models.VerifyStatus, purpose models.TokenPurpose) (string, error) {
	secret, ok := j.secrets[purpose]
	if !ok {
		return "", ErrTokenInvalid
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    userID.String(),
		"token_type": string(purpose),
		"verify":     int64(verify),
		"exp":        now.Add(j.ttls[purpose]).Unix(),
		"iat":        now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse verifies the signature and expiry of tokenString against the
// purpose-scoped secret and returns the decoded payload.
//
// Returns ErrTokenExpired past expiry and ErrTokenInvalid for every other
// failure, including a purpose mismatch. Never mutates external state.
func (j *JWT) Parse(ctx context.Context, tokenString string, purpose models.TokenPurpose) (*models.TokenPayload, error) {
	secret, ok := j.secrets[purpose]
	if !ok {
		return nil, ErrTokenInvalid
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	tokenType, _ := claims["token_type"].(string)
	if tokenType != string(purpose) {
		return nil, ErrTokenInvalid
	}

	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	verify, _ := claims["verify"].(float64)

	return &models.TokenPayload{
		UserID:  userID,
		Purpose: purpose,
		Verify:  models.VerifyStatus(verify),
	}, nil
}

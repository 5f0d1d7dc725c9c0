package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/repositories"
)

// Error variables
var (
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, user *models.UserDB) error
	SetVerified(ctx context.Context, userID uuid.UUID) error
	SetEmailVerifyToken(ctx context.Context, userID uuid.UUID, token string) error
	SetForgotPasswordToken(ctx context.Context, userID uuid.UUID, token string) error
	ResetPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

// RefreshTokenWriter persists and revokes refresh tokens.
type RefreshTokenWriter interface {
	Save(ctx context.Context, token string, userID uuid.UUID, issuedAt time.Time) error
	Delete(ctx context.Context, token string) (int64, error)
}

// TokenGenerator signs tokens for a given purpose.
type TokenGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID, verify models.VerifyStatus, purpose models.TokenPurpose) (string, error)
}

// EmailNotifier sends account emails. Implementations must not fail the
// calling request: sending is fire-and-forget.
type EmailNotifier interface {
	SendVerificationEmail(ctx context.Context, email, name, token string)
	SendPasswordResetEmail(ctx context.Context, email, name, token string)
}

// AuthService handles registration, login, logout and the email verify /
// password reset token lifecycle.
type AuthService struct {
	reader        UserReader
	writer        UserWriter
	refreshTokens RefreshTokenWriter
	tokens        TokenGenerator
	notifier      EmailNotifier
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	refreshTokens RefreshTokenWriter,
	tokens TokenGenerator,
	notifier EmailNotifier,
) *AuthService {
	return &AuthService{
		reader:        reader,
		writer:        writer,
		refreshTokens: refreshTokens,
		tokens:        tokens,
		notifier:      notifier,
	}
}

// issueTokenPair signs an access/refresh pair and persists the refresh
// token so it can later be revoked.
func (svc *AuthService) issueTokenPair(ctx context.Context, userID uuid.UUID, verify models.VerifyStatus) (*models.TokenPair, error) {
	accessToken, err := svc.tokens.Generate(ctx, userID, verify, models.TokenPurposeAccess)
	if err != nil {
		logger.Log.Errorw("failed to generate access token", "userID", userID, "err", err)
		return nil, err
	}

	refreshToken, err := svc.tokens.Generate(ctx, userID, verify, models.TokenPurposeRefresh)
	if err != nil {
		logger.Log.Errorw("failed to generate refresh token", "userID", userID, "err", err)
		return nil, err
	}

	if err := svc.refreshTokens.Save(ctx, refreshToken, userID, time.Now().UTC()); err != nil {
		logger.Log.Errorw("failed to save refresh token", "userID", userID, "err", err)
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Register creates an unverified user, issues a session token pair and
// sends the verification email.
func (svc *AuthService) Register(ctx context.Context, name, email, password string, dateOfBirth time.Time) (*models.TokenPair, error) {
	userID := uuid.New()

	emailVerifyToken, err := svc.tokens.Generate(ctx, userID, models.Unverified, models.TokenPurposeEmailVerify)
	if err != nil {
		logger.Log.Errorw("failed to generate email verify token", "userID", userID, "err", err)
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user := &models.UserDB{
		UserID:           userID,
		Name:             name,
		Email:            email,
		Password:         string(hashedPassword),
		DateOfBirth:      dateOfBirth,
		Verify:           models.Unverified,
		EmailVerifyToken: emailVerifyToken,
	}

	if err := svc.writer.Save(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			logger.Log.Errorw("email already exists", "email", email)
			return nil, ErrEmailAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, err
	}

	pair, err := svc.issueTokenPair(ctx, userID, models.Unverified)
	if err != nil {
		return nil, err
	}

	if svc.notifier != nil {
		svc.notifier.SendVerificationEmail(ctx, email, name, emailVerifyToken)
	}

	return pair, nil
}

// Login issues a session token pair for an already authenticated user.
// Credential checking happens during request validation.
func (svc *AuthService) Login(ctx context.Context, userID uuid.UUID, verify models.VerifyStatus) (*models.TokenPair, error) {
	return svc.issueTokenPair(ctx, userID, verify)
}

// Logout revokes the given refresh token. Returns ErrRefreshTokenNotFound
// when the token was already revoked.
func (svc *AuthService) Logout(ctx context.Context, refreshToken string) error {
	rows, err := svc.refreshTokens.Delete(ctx, refreshToken)
	if err != nil {
		logger.Log.Errorw("failed to delete refresh token", "err", err)
		return err
	}
	if rows == 0 {
		return ErrRefreshTokenNotFound
	}
	return nil
}

// VerifyEmail consumes the user's email verify token and marks the
// account verified. Returns alreadyVerified=true when the token was
// consumed before; verifying twice is not an error.
func (svc *AuthService) VerifyEmail(ctx context.Context, userID uuid.UUID) (alreadyVerified bool, err error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "userID", userID, "err", err)
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}

	if user.EmailVerifyToken == "" {
		return true, nil
	}

	if err := svc.writer.SetVerified(ctx, userID); err != nil {
		logger.Log.Errorw("failed to set user verified", "userID", userID, "err", err)
		return false, err
	}
	return false, nil
}

// ResendVerifyEmail issues a fresh email verify token, replacing any
// previous one, and sends it. Returns alreadyVerified=true for accounts
// that no longer need verification.
func (svc *AuthService) ResendVerifyEmail(ctx context.Context, userID uuid.UUID) (alreadyVerified bool, err error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "userID", userID, "err", err)
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}

	if user.Verify == models.Verified {
		return true, nil
	}

	token, err := svc.tokens.Generate(ctx, userID, user.Verify, models.TokenPurposeEmailVerify)
	if err != nil {
		logger.Log.Errorw("failed to generate email verify token", "userID", userID, "err", err)
		return false, err
	}

	if err := svc.writer.SetEmailVerifyToken(ctx, userID, token); err != nil {
		logger.Log.Errorw("failed to store email verify token", "userID", userID, "err", err)
		return false, err
	}

	if svc.notifier != nil {
		svc.notifier.SendVerificationEmail(ctx, user.Email, user.Name, token)
	}
	return false, nil
}

// ForgotPassword issues a forgot password token for the user, replacing
// any previous one, and sends the reset email.
func (svc *AuthService) ForgotPassword(ctx context.Context, user *models.UserDB) error {
	token, err := svc.tokens.Generate(ctx, user.UserID, user.Verify, models.TokenPurposeForgotPassword)
	if err != nil {
		logger.Log.Errorw("failed to generate forgot password token", "userID", user.UserID, "err", err)
		return err
	}

	if err := svc.writer.SetForgotPasswordToken(ctx, user.UserID, token); err != nil {
		logger.Log.Errorw("failed to store forgot password token", "userID", user.UserID, "err", err)
		return err
	}

	if svc.notifier != nil {
		svc.notifier.SendPasswordResetEmail(ctx, user.Email, user.Name, token)
	}
	return nil
}

// ResetPassword replaces the user's password and consumes the forgot
// password token, so the reset link cannot be replayed.
func (svc *AuthService) ResetPassword(ctx context.Context, userID uuid.UUID, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if err := svc.writer.ResetPassword(ctx, userID, string(hashedPassword)); err != nil {
		logger.Log.Errorw("failed to reset password", "userID", userID, "err", err)
		return err
	}
	return nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
)

const userColumns = `user_id, name, email, password, date_of_birth, verify,
	email_verify_token, forgot_password_token, bio, location, website,
	username, avatar, cover_photo, created_at, updated_at`

// UserReadRepository reads user records.
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

func (r *UserReadRepository) getOne(ctx context.Context, query string, args ...any) (*models.UserDB, error) {
	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns the user with the given id, or nil when absent.
func (r *UserReadRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE user_id = $1`, userColumns)
	return r.getOne(ctx, query, userID)
}

// GetByEmail returns the user with the given email, or nil when absent.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return r.getOne(ctx, query, email)
}

// GetByUsername returns the user with the given username, or nil when absent.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1 AND username <> ''`, userColumns)
	return r.getOne(ctx, query, username)
}

// UserWriteRepository mutates user records. Every mutation touches a
// single row, so no statement needs a surrounding transaction.
type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user. Returns ErrAlreadyExists on a unique
// constraint violation (email or username already taken).
func (r *UserWriteRepository) Save(ctx context.Context, user *models.UserDB) error {
	query := `
		INSERT INTO users (user_id, name, email, password, date_of_birth, verify,
			email_verify_token, forgot_password_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	args := []any{
		user.UserID, user.Name, user.Email, user.Password, user.DateOfBirth,
		user.Verify, user.EmailVerifyToken, user.ForgotPasswordToken,
	}

	_, err := r.db.ExecContext(ctx, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{user.UserID, user.Email},
		"error", err,
	)

	if err != nil {
		return translateUniqueViolation(err)
	}
	return nil
}

func (r *UserWriteRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)

	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	return err
}

// SetVerified marks the user verified and consumes the email verify token.
func (r *UserWriteRepository) SetVerified(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE users
		SET verify = $2, email_verify_token = '', updated_at = NOW()
		WHERE user_id = $1
	`
	return r.exec(ctx, query, userID, models.Verified)
}

// SetEmailVerifyToken stores a freshly issued email verify token.
func (r *UserWriteRepository) SetEmailVerifyToken(ctx context.Context, userID uuid.UUID, token string) error {
	query := `
		UPDATE users
		SET email_verify_token = $2, updated_at = NOW()
		WHERE user_id = $1
	`
	return r.exec(ctx, query, userID, token)
}

// SetForgotPasswordToken stores a freshly issued forgot password token.
func (r *UserWriteRepository) SetForgotPasswordToken(ctx context.Context, userID uuid.UUID, token string) error {
	query := `
		UPDATE users
		SET forgot_password_token = $2, updated_at = NOW()
		WHERE user_id = $1
	`
	return r.exec(ctx, query, userID, token)
}

// ResetPassword replaces the password hash and consumes the forgot
// password token in a single statement.
func (r *UserWriteRepository) ResetPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	query := `
		UPDATE users
		SET password = $2, forgot_password_token = '', updated_at = NOW()
		WHERE user_id = $1
	`
	return r.exec(ctx, query, userID, passwordHash)
}

// UpdateProfile applies the non-nil patch fields and returns the updated
// record. Returns ErrAlreadyExists when the new username is taken.
func (r *UserWriteRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, patch *models.UserPatch) (*models.UserDB, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{}
	next := 1

	add := func(column string, value any) {
		set = append(set, fmt.Sprintf("%s = $%d", column, next))
		args = append(args, value)
		next++
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.DateOfBirth != nil {
		add("date_of_birth", *patch.DateOfBirth)
	}
	if patch.Bio != nil {
		add("bio", *patch.Bio)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Website != nil {
		add("website", *patch.Website)
	}
	if patch.Username != nil {
		add("username", *patch.Username)
	}
	if patch.Avatar != nil {
		add("avatar", *patch.Avatar)
	}
	if patch.CoverPhoto != nil {
		add("cover_photo", *patch.CoverPhoto)
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE user_id = $%d RETURNING %s`,
		strings.Join(set, ", "), next, userColumns)
	args = append(args, userID)

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateUniqueViolation(err)
	}
	return &user, nil
}

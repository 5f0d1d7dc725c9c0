package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
)

// RefreshTokenReadRepository reads persisted refresh token records.
type RefreshTokenReadRepository struct {
	db *sqlx.DB
}

func NewRefreshTokenReadRepository(db *sqlx.DB) *RefreshTokenReadRepository {
	return &RefreshTokenReadRepository{db: db}
}

// GetByToken returns the record for the exact token string, or nil when
// it was never persisted or has been deleted (revoked).
func (r *RefreshTokenReadRepository) GetByToken(ctx context.Context, token string) (*models.RefreshTokenDB, error) {
	const query = `
		SELECT token, user_id, iat, created_at
		FROM refresh_tokens
		WHERE token = $1
	`

	var record models.RefreshTokenDB
	err := r.db.GetContext(ctx, &record, query, token)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// RefreshTokenWriteRepository persists and revokes refresh tokens.
type RefreshTokenWriteRepository struct {
	db *sqlx.DB
}

func NewRefreshTokenWriteRepository(db *sqlx.DB) *RefreshTokenWriteRepository {
	return &RefreshTokenWriteRepository{db: db}
}

// Save persists a freshly issued refresh token for its owner.
func (r *RefreshTokenWriteRepository) Save(ctx context.Context, token string, userID uuid.UUID, issuedAt time.Time) error {
	const query = `
		INSERT INTO refresh_tokens (token, user_id, iat, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	_, err := r.db.ExecContext(ctx, query, token, userID, issuedAt)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, issuedAt},
		"error", err,
	)

	return err
}

// Delete removes the record for the exact token string, revoking it.
// Returns the number of rows removed.
func (r *RefreshTokenWriteRepository) Delete(ctx context.Context, token string) (int64, error) {
	const query = `DELETE FROM refresh_tokens WHERE token = $1`

	res, err := r.db.ExecContext(ctx, query, token)

	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"result", rowsAffected,
		"error", err,
	)

	return rowsAffected, err
}

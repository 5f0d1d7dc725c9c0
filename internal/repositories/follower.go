package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-user-auth/internal/logger"
)

// FollowerReadRepository reads follow edges.
type FollowerReadRepository struct {
	db *sqlx.DB
}

func NewFollowerReadRepository(db *sqlx.DB) *FollowerReadRepository {
	return &FollowerReadRepository{db: db}
}

// Exists reports whether the directed follow edge is present.
func (r *FollowerReadRepository) Exists(ctx context.Context, userID, followedUserID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM followers
			WHERE user_id = $1 AND followed_user_id = $2
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, followedUserID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, followedUserID},
		"result", exists,
		"error", err,
	)

	return exists, err
}

// FollowerWriteRepository mutates follow edges.
type FollowerWriteRepository struct {
	db *sqlx.DB
}

func NewFollowerWriteRepository(db *sqlx.DB) *FollowerWriteRepository {
	return &FollowerWriteRepository{db: db}
}

// Save inserts the directed follow edge; inserting an existing edge is a
// no-op.
func (r *FollowerWriteRepository) Save(ctx context.Context, userID, followedUserID uuid.UUID) error {
	const query = `
		INSERT INTO followers (user_id, followed_user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, followed_user_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, userID, followedUserID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, followedUserID},
		"error", err,
	)

	return err
}

// Delete removes the directed follow edge. Returns the number of rows
// removed.
func (r *FollowerWriteRepository) Delete(ctx context.Context, userID, followedUserID uuid.UUID) (int64, error) {
	const query = `
		DELETE FROM followers
		WHERE user_id = $1 AND followed_user_id = $2
	`

	res, err := r.db.ExecContext(ctx, query, userID, followedUserID)

	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, followedUserID},
		"result", rowsAffected,
		"error", err,
	)

	return rowsAffected, err
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// FollowerDB is a directed follow edge between two users.
type FollowerDB struct {
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	FollowedUserID uuid.UUID `json:"followed_user_id" db:"followed_user_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

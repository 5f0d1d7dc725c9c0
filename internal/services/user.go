package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
	"github.com/sbilibin2017/gw-user-auth/internal/repositories"
)

var (
	// ErrUsernameAlreadyExists is returned when a profile update picks a taken username.
	ErrUsernameAlreadyExists = errors.New("username already exists")
	// ErrCannotFollowSelf is returned when a user tries to follow their own account.
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
)

// ProfileReader defines read operations for profiles.
type ProfileReader interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
}

// ProfileWriter defines write operations for profiles.
type ProfileWriter interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch *models.UserPatch) (*models.UserDB, error)
}

// ProfileCache caches public profiles by username.
type ProfileCache interface {
	Get(ctx context.Context, username string) (*models.UserDB, error)
	Set(ctx context.Context, user *models.UserDB) error
	Delete(ctx context.Context, usernames ...string) error
}

// FollowerReader reads follow edges.
type FollowerReader interface {
	Exists(ctx context.Context, userID, followedUserID uuid.UUID) (bool, error)
}

// FollowerWriter mutates follow edges.
type FollowerWriter interface {
	Save(ctx context.Context, userID, followedUserID uuid.UUID) error
	Delete(ctx context.Context, userID, followedUserID uuid.UUID) (int64, error)
}

// UserService handles profile reads and updates and the follow graph.
type UserService struct {
	reader       ProfileReader
	writer       ProfileWriter
	cache        ProfileCache
	followReader FollowerReader
	followWriter FollowerWriter
}

// NewUserService creates a new UserService.
func NewUserService(
	reader ProfileReader,
	writer ProfileWriter,
	cache ProfileCache,
	followReader FollowerReader,
	followWriter FollowerWriter,
) *UserService {
	return &UserService{
		reader:       reader,
		writer:       writer,
		cache:        cache,
		followReader: followReader,
		followWriter: followWriter,
	}
}

// GetMe returns the authenticated user's own record.
func (svc *UserService) GetMe(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "userID", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateMe applies the patch to the user's profile and returns the
// updated record. Cached profiles for both the old and new username are
// dropped.
func (svc *UserService) UpdateMe(ctx context.Context, userID uuid.UUID, patch *models.UserPatch) (*models.UserDB, error) {
	current, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "userID", userID, "err", err)
		return nil, err
	}
	if current == nil {
		return nil, ErrUserNotFound
	}

	updated, err := svc.writer.UpdateProfile(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			logger.Log.Errorw("username already exists", "userID", userID)
			return nil, ErrUsernameAlreadyExists
		}
		logger.Log.Errorw("failed to update profile", "userID", userID, "err", err)
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}

	if svc.cache != nil {
		if err := svc.cache.Delete(ctx, current.Username, updated.Username); err != nil {
			logger.Log.Errorw("failed to invalidate profile cache", "userID", userID, "err", err)
		}
	}

	return updated, nil
}

// GetProfile returns the public profile for a username, serving from
// cache when possible.
func (svc *UserService) GetProfile(ctx context.Context, username string) (*models.UserDB, error) {
	if svc.cache != nil {
		cached, err := svc.cache.Get(ctx, username)
		if err != nil {
			logger.Log.Errorw("failed to read profile cache", "username", username, "err", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user by username", "username", username, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if svc.cache != nil {
		if err := svc.cache.Set(ctx, user); err != nil {
			logger.Log.Errorw("failed to cache profile", "username", username, "err", err)
		}
	}

	return user, nil
}

// Follow adds a follow edge. Returns alreadyFollowed=true when the edge
// exists; following twice is not an error.
func (svc *UserService) Follow(ctx context.Context, userID, followedUserID uuid.UUID) (alreadyFollowed bool, err error) {
	if userID == followedUserID {
		return false, ErrCannotFollowSelf
	}

	exists, err := svc.followReader.Exists(ctx, userID, followedUserID)
	if err != nil {
		logger.Log.Errorw("failed to check follow edge", "userID", userID, "err", err)
		return false, err
	}
	if exists {
		return true, nil
	}

	if err := svc.followWriter.Save(ctx, userID, followedUserID); err != nil {
		logger.Log.Errorw("failed to save follow edge", "userID", userID, "err", err)
		return false, err
	}
	return false, nil
}

// Unfollow removes a follow edge. Returns alreadyUnfollowed=true when no
// edge existed; unfollowing twice is not an error.
func (svc *UserService) Unfollow(ctx context.Context, userID, followedUserID uuid.UUID) (alreadyUnfollowed bool, err error) {
	rows, err := svc.followWriter.Delete(ctx, userID, followedUserID)
	if err != nil {
		logger.Log.Errorw("failed to delete follow edge", "userID", userID, "err", err)
		return false, err
	}
	return rows == 0, nil
}

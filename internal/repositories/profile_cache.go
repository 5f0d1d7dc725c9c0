package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
)

// ProfileCacheRepository caches public profiles by username in Redis.
type ProfileCacheRepository struct {
	client *redis.Client
	exp    time.Duration
}

// NewProfileCacheRepository creates a cache with the given entry TTL.
func NewProfileCacheRepository(client *redis.Client, expiration time.Duration) *ProfileCacheRepository {
	return &ProfileCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func profileKey(username string) string {
	return fmt.Sprintf("user_profile:%s", username)
}

// Get returns the cached profile, or nil on a cache miss.
func (r *ProfileCacheRepository) Get(ctx context.Context, username string) (*models.UserDB, error) {
	key := profileKey(username)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		logger.Log.Infow(
			"key", key,
			"error", err,
		)
		return nil, err
	}

	var user models.UserDB
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		logger.Log.Infow(
			"key", key,
			"error", err,
		)
		return nil, err
	}

	return &user, nil
}

// Set caches the profile under its username with the configured TTL.
func (r *ProfileCacheRepository) Set(ctx context.Context, user *models.UserDB) error {
	if user.Username == "" {
		return nil
	}

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	key := profileKey(user.Username)
	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Infow(
		"key", key,
		"error", err,
	)

	return err
}

// Delete drops the cache entries for the given usernames, e.g. after a
// profile update.
func (r *ProfileCacheRepository) Delete(ctx context.Context, usernames ...string) error {
	keys := make([]string, 0, len(usernames))
	for _, username := range usernames {
		if username != "" {
			keys = append(keys, profileKey(username))
		}
	}
	if len(keys) == 0 {
		return nil
	}

	err := r.client.Del(ctx, keys...).Err()

	logger.Log.Infow(
		"keys", keys,
		"error", err,
	)

	return err
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenStore holds opaque refresh tokens with a TTL. Redis expiry
// doubles as token expiry, so there is no separate cleanup path.
type RefreshTokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Find(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

type redisRefreshTokenStore struct {
	client *redis.Client
}

// NewRefreshTokenStore connects to redis and verifies the connection
func NewRefreshTokenStore(addr, password string, db int) (RefreshTokenStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRefreshTokenStore{client: rdb}, nil
}

func tokenKey(token string) string {
	return fmt.Sprintf("refresh_token:%s", token)
}

func (s *redisRefreshTokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(token), userID, ttl).Err()
}

// Find returns the user id the token was issued to.
func (s *redisRefreshTokenStore) Find(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRefreshTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *redisRefreshTokenStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, tokenKey(token)).Err()
}

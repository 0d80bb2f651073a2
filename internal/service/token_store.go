package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore records issued token IDs so they can be revoked before expiry.
type TokenStore interface {
	Store(ctx context.Context, kind string, userID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, kind string, userID uuid.UUID, tokenID string) (bool, error)
	Revoke(ctx context.Context, kind string, userID uuid.UUID, tokenID string) error
}

const (
	TokenKindAccess  = "access_token"
	TokenKindRefresh = "refresh_token"
)

type redisTokenStore struct {
	redisClient *redis.Client
}

func NewRedisTokenStore(redisClient *redis.Client) TokenStore {
	return &redisTokenStore{redisClient: redisClient}
}

func tokenKey(kind string, userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", kind, userID.String(), tokenID)
}

func (s *redisTokenStore) Store(ctx context.Context, kind string, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return s.redisClient.Set(ctx, tokenKey(kind, userID, tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) Exists(ctx context.Context, kind string, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := s.redisClient.Exists(ctx, tokenKey(kind, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, kind string, userID uuid.UUID, tokenID string) error {
	return s.redisClient.Del(ctx, tokenKey(kind, userID, tokenID)).Err()
}

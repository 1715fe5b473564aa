package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Token status constants
const (
	TokenStatusNormal = 1 // Token is valid
	TokenStatusKicked = 2 // Token was kicked by new login
	TokenStatusLogout = 3 // Token was logged out
)

// TokenStore manages token storage in Redis. A user has at most one live
// token; a new login replaces (kicks) the previous one.
type TokenStore struct {
	rdb          *redis.Client
	accessExpire time.Duration
	keyPrefix    string
}

// NewTokenStore creates a new TokenStore
func NewTokenStore(rdb *redis.Client, keyPrefix string, expireHours int) *TokenStore {
	if keyPrefix == "" {
		keyPrefix = "kmsup:"
	}
	return &TokenStore{
		rdb:          rdb,
		accessExpire: time.Duration(expireHours) * time.Hour,
		keyPrefix:    keyPrefix + "token:",
	}
}

// tokenKey generates the Redis key for a user's token
// Format: {prefix}token:{userId}
func (s *TokenStore) tokenKey(userId string) string {
	return fmt.Sprintf("%s%s", s.keyPrefix, userId)
}

// RecordToken stores the token for a user, replacing any previous one.
func (s *TokenStore) RecordToken(ctx context.Context, userId, token string) error {
	return s.rdb.Set(ctx, s.tokenKey(userId), token, s.accessExpire).Err()
}

// VerifyToken checks whether the presented token is the user's live token.
// Returns TokenStatusKicked when a newer login has replaced it.
func (s *TokenStore) VerifyToken(ctx context.Context, userId, token string) (int, error) {
	stored, err := s.rdb.Get(ctx, s.tokenKey(userId)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return TokenStatusLogout, nil
		}
		return 0, err
	}
	if stored != token {
		return TokenStatusKicked, nil
	}
	return TokenStatusNormal, nil
}

// RevokeToken removes the user's token (logout).
func (s *TokenStore) RevokeToken(ctx context.Context, userId string) error {
	return s.rdb.Del(ctx, s.tokenKey(userId)).Err()
}

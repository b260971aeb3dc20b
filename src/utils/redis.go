package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps refresh tokens in Redis with an expiration. A nil client
// means Redis is not configured (development mode): storing succeeds as a
// no-op and validation lets the token through.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// StoreRefreshToken saves the refresh token under the user's key.
func (t *TokenStore) StoreRefreshToken(ctx context.Context, userID, refreshToken string, expiresIn time.Duration) error {
	if t.client == nil {
		log.Println("⚠️ Redis not configured, skipping refresh token storage")
		return nil
	}

	key := fmt.Sprintf("refresh_token:%s", userID)
	if err := t.client.Set(ctx, key, refreshToken, expiresIn).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token: %v", err)
	}
	return nil
}

// ValidateRefreshToken checks the presented token against the stored one.
func (t *TokenStore) ValidateRefreshToken(ctx context.Context, userID, refreshToken string) (bool, error) {
	if t.client == nil {
		return true, nil // dev mode - skip validation
	}

	key := fmt.Sprintf("refresh_token:%s", userID)
	storedToken, err := t.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get refresh token: %v", err)
	}

	return storedToken == refreshToken, nil
}

// DeleteRefreshToken removes the stored token (used on logout).
func (t *TokenStore) DeleteRefreshToken(ctx context.Context, userID string) error {
	if t.client == nil {
		return nil
	}

	key := fmt.Sprintf("refresh_token:%s", userID)
	if err := t.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %v", err)
	}
	return nil
}

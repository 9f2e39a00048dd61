package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrResetTokenNotFound signals an absent or expired reset token.
var ErrResetTokenNotFound = errors.New("reset token not found")

const resetTokenKeyPrefix = "auth:reset_token:"

// ResetTokenStore keeps single-use password reset tokens with a TTL.
// Expiry is enforced by the store itself.
type ResetTokenStore interface {
	Save(ctx context.Context, token, employeeID string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, error)
}

type resetTokenStore struct {
	client *redis.Client
}

// NewResetTokenStore builds a redis-backed store.
func NewResetTokenStore(client *redis.Client) ResetTokenStore {
	return &resetTokenStore{client: client}
}

func (s *resetTokenStore) Save(ctx context.Context, token, employeeID string, ttl time.Duration) error {
	key := resetTokenKeyPrefix + token
	if err := s.client.Set(ctx, key, employeeID, ttl).Err(); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}
	return nil
}

// Consume atomically fetches and deletes the token, so it cannot be
// redeemed twice.
func (s *resetTokenStore) Consume(ctx context.Context, token string) (string, error) {
	key := resetTokenKeyPrefix + token
	employeeID, err := s.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrResetTokenNotFound
		}
		return "", fmt.Errorf("consume reset token: %w", err)
	}
	return employeeID, nil
}

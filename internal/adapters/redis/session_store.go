package redis_adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"

	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const sessionKeyPrefix = "ops_session:"

// RedisSessionStore - реестр живых сессий операторов. Ключ истекает вместе с сессией.
type RedisSessionStore struct {
	client goredis.UniversalClient
}

func NewRedisSessionStore(client goredis.UniversalClient) (*RedisSessionStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	return &RedisSessionStore{client: client}, nil
}

func sessionKey(id uuid.UUID) string {
	return sessionKeyPrefix + id.String()
}

func (s *RedisSessionStore) Save(ctx context.Context, session *domain.OpsSession, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	if err := s.client.Set(ctx, sessionKey(session.ID), session.Email, ttl).Err(); err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to save ops session", err, port.Fields{
			"component":  "RedisSessionStore",
			"method":     "Save",
			"session_id": session.ID,
		})
		return fmt.Errorf("failed to save ops session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check ops session: %w", err)
	}
	return n > 0, nil
}

// Delete отзывает сессию. Отсутствующий ключ не ошибка.
func (s *RedisSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete ops session: %w", err)
	}
	return nil
}

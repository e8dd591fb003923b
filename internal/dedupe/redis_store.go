package dedupe

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"mrsummarizer/internal/constants"
)

// RedisStore keeps the processed set in a shared Redis set, so the dedupe
// guarantee holds across processes and restarts. Every mutation is
// immediately durable.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = constants.DefaultKeyPrefix
	}
	return &RedisStore{
		client: client,
		key:    keyPrefix + ":" + constants.ProcessedMessagesKey,
	}
}

func (s *RedisStore) Add(ctx context.Context, id string) error {
	if err := s.client.SAdd(ctx, s.key, id).Err(); err != nil {
		return fmt.Errorf("redis SADD failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Contains(ctx context.Context, id string) (bool, error) {
	member, err := s.client.SIsMember(ctx, s.key, id).Result()
	if err != nil {
		return false, fmt.Errorf("redis SISMEMBER failed: %w", err)
	}
	return member, nil
}

func (s *RedisStore) All(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis SMEMBERS failed: %w", err)
	}
	return ids, nil
}

// Persist is a no-op; Redis writes are durable at Add time.
func (s *RedisStore) Persist(_ context.Context) error {
	return nil
}

func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis SCARD failed: %w", err)
	}
	return int(n), nil
}

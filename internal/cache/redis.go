package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rolodex-dev/rolodex/internal/domain"
)

// Redis keeps sessions in a shared redis so multiple instances see the
// same cache. Keys are namespaced to avoid colliding with other data.
type Redis struct {
	client *redis.Client
}

const redisKeyPrefix = "session:"

func NewRedis(addr, password string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

func (r *Redis) Get(ctx context.Context, token string) (*domain.User, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Redis) Set(ctx context.Context, token string, user *domain.User, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisKeyPrefix+token, raw, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, redisKeyPrefix+token).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

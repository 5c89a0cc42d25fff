// Package tokenstore issues opaque single-use tokens backed by Redis.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("token not found or already used")

type Store interface {
	Issue(ctx context.Context, value string, ttl time.Duration) (string, error)
	// Consume returns the value bound to token and invalidates it.
	Consume(ctx context.Context, token string) (string, error)
}

type redisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore keys tokens as "<prefix>:<token>"; a trailing colon on prefix is dropped.
func NewRedisStore(rdb *redis.Client, prefix string) Store {
	return &redisStore{rdb: rdb, prefix: strings.TrimSuffix(prefix, ":")}
}

func (s *redisStore) key(token string) string {
	return fmt.Sprintf("%s:%s", s.prefix, token)
}

func (s *redisStore) Issue(ctx context.Context, value string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, s.key(token), value, ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *redisStore) Consume(ctx context.Context, token string) (string, error) {
	val, err := s.rdb.GetDel(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

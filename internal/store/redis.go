package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/handsomefox/movie-sentiment/internal/catalog"
)

const redisKeyPrefix = "handoff:"

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ Handoffs = (*RedisStore)(nil)

// OpenRedis connects to the server at rawURL, which may be a redis:// URL
// or a bare host:port.
func OpenRedis(ctx context.Context, rawURL string, ttl time.Duration) (*RedisStore, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	opts := &redis.Options{Addr: rawURL}
	if strings.Contains(rawURL, "://") {
		parsed, err := redis.ParseURL(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		if cerr := rdb.Close(); cerr != nil {
			return nil, fmt.Errorf("ping redis: %w; close failed: %w", err, cerr)
		}
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }

func (s *RedisStore) Put(ctx context.Context, token string, movie catalog.Movie) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token is required")
	}
	buf, err := json.Marshal(movie)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, redisKeyPrefix+token, buf, s.ttl).Err()
}

// Take reads and deletes the entry in one MULTI block.
func (s *RedisStore) Take(ctx context.Context, token string) (catalog.Movie, error) {
	key := redisKeyPrefix + token

	var get *redis.StringCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.Get(ctx, key)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return catalog.Movie{}, err
	}

	raw, err := get.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return catalog.Movie{}, ErrNotFound
		}
		return catalog.Movie{}, err
	}

	var movie catalog.Movie
	if err := json.Unmarshal(raw, &movie); err != nil {
		return catalog.Movie{}, fmt.Errorf("decode handoff: %w", err)
	}
	return movie, nil
}

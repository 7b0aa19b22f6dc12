package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kirillkom/resume-rag/internal/infrastructure/resilience"
)

const defaultKeyPrefix = "resume-rag:"

type Options struct {
	Addr               string
	Password           string
	DB                 int
	KeyPrefix          string
	TTL                time.Duration
	ResilienceExecutor *resilience.Executor
}

// Store keeps cache entries in Redis with an optional server-side TTL.
type Store struct {
	client   *goredis.Client
	prefix   string
	ttl      time.Duration
	executor *resilience.Executor
}

func New(ctx context.Context, options Options) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     options.Addr,
		Password: options.Password,
		DB:       options.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewWithClient(client, options), nil
}

func NewWithClient(client *goredis.Client, options Options) *Store {
	prefix := options.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Store{
		client:   client,
		prefix:   prefix,
		ttl:      options.TTL,
		executor: options.ResilienceExecutor,
	}
}

func (s *Store) Close() error {
	return s.client.Close()
}

type lookup struct {
	payload []byte
	found   bool
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := resilience.Call(ctx, s.executor, "redis.cache_get", func(ctx context.Context) (lookup, error) {
		payload, err := s.client.Get(ctx, s.prefix+key).Bytes()
		if errors.Is(err, goredis.Nil) {
			return lookup{}, nil
		}
		if err != nil {
			return lookup{}, fmt.Errorf("redis get: %w", err)
		}
		return lookup{payload: payload, found: true}, nil
	}, classifyRedisError)
	if err != nil {
		return nil, false, resilience.WrapTemporary("redis cache get", err, classifyRedisError)
	}
	return res.payload, res.found, nil
}

// Set stores the entry; a zero TTL keeps it until removed.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	err := s.executor.Execute(ctx, "redis.cache_set", func(ctx context.Context) error {
		if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
			return fmt.Errorf("redis set: %w", err)
		}
		return nil
	}, classifyRedisError)
	return resilience.WrapTemporary("redis cache set", err, classifyRedisError)
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return resilience.WrapTemporary("redis cache remove", fmt.Errorf("redis del: %w", err), classifyRedisError)
	}
	return nil
}

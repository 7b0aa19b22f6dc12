package natskv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/kirillkom/resume-rag/internal/infrastructure/resilience"
)

const defaultBucket = "resume_rag_cache"

type Options struct {
	Bucket               string
	TTL                  time.Duration
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

// Store keeps cache entries in a JetStream key-value bucket.
type Store struct {
	conn     *nats.Conn
	kv       jetstream.KeyValue
	executor *resilience.Executor
}

func New(ctx context.Context, url string, options Options) (*Store, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := false
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}
	bucket := options.Bucket
	if bucket == "" {
		bucket = defaultBucket
	}

	conn, err := nats.Connect(
		url,
		nats.Name("resume-rag"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream context: %w", err)
	}
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "resume embedding cache",
		History:     1,
		TTL:         options.TTL,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open kv bucket %q: %w", bucket, err)
	}

	return &Store{
		conn:     conn,
		kv:       kv,
		executor: options.ResilienceExecutor,
	}, nil
}

func (s *Store) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}

type lookup struct {
	payload []byte
	found   bool
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := resilience.Call(ctx, s.executor, "nats.kv_get", func(ctx context.Context) (lookup, error) {
		entry, err := s.kv.Get(ctx, key)
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return lookup{}, nil
		}
		if err != nil {
			return lookup{}, fmt.Errorf("nats kv get: %w", err)
		}
		return lookup{payload: entry.Value(), found: true}, nil
	}, classifyNATSError)
	if err != nil {
		return nil, false, resilience.WrapTemporary("nats kv get", err, classifyNATSError)
	}
	return res.payload, res.found, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	err := s.executor.Execute(ctx, "nats.kv_put", func(ctx context.Context) error {
		if _, err := s.kv.Put(ctx, key, value); err != nil {
			return fmt.Errorf("nats kv put: %w", err)
		}
		return nil
	}, classifyNATSError)
	return resilience.WrapTemporary("nats kv put", err, classifyNATSError)
}

func (s *Store) Remove(ctx context.Context, key string) error {
	err := s.kv.Delete(ctx, key)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return resilience.WrapTemporary("nats kv delete", fmt.Errorf("nats kv delete: %w", err), classifyNATSError)
	}
	return nil
}

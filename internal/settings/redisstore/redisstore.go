// Package redisstore persists setting values in a Redis hash and notifies
// other service instances of changes over Pub/Sub.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/52North/SOS-sub013/internal/config"
	"github.com/52North/SOS-sub013/internal/observability"
	"github.com/52North/SOS-sub013/internal/settings"
)

var tracer = otel.Tracer("sos/settings/redis")

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("redis settings store unavailable")

// Default breaker settings.
const (
	DefaultFailureThreshold = 5
	DefaultOpenTimeout      = 30 * time.Second
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithKeyPrefix sets the prefix of the keys used by the store.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTimeout bounds every Redis command.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// WithBreaker configures the circuit breaker: it opens after threshold
// consecutive failures and probes again after timeout.
func WithBreaker(threshold uint32, timeout time.Duration) Option {
	return func(s *Store) {
		s.threshold = threshold
		s.openTimeout = timeout
	}
}

// Store keeps all values in the hash <prefix>values. Every change is
// announced on the channel <prefix>changes.
type Store struct {
	client      redis.UniversalClient
	logger      observability.Logger
	prefix      string
	timeout     time.Duration
	threshold   uint32
	openTimeout time.Duration
	instance    string
	cb          *gobreaker.CircuitBreaker

	mu     sync.Mutex
	pubsub *redis.PubSub
	done   chan struct{}
}

// New creates a store using client. The client is closed by Close.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client:      client,
		logger:      observability.NopLogger(),
		prefix:      config.DefaultRedisKeyPrefix,
		threshold:   DefaultFailureThreshold,
		openTimeout: DefaultOpenTimeout,
		instance:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "settings-redis",
		Timeout: s.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			s.logger.Warn("circuit breaker state change",
				observability.String("name", name),
				observability.String("from", from.String()),
				observability.String("to", to.String()),
			)
		},
	})
	return s
}

// Dial connects to the server described by cfg and checks the connection.
func Dial(ctx context.Context, cfg *config.RedisStoreConfig, opts ...Option) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	if cfg.KeyPrefix != "" {
		opts = append([]Option{WithKeyPrefix(cfg.KeyPrefix)}, opts...)
	}
	if cfg.Timeout > 0 {
		opts = append([]Option{WithTimeout(cfg.Timeout.Duration())}, opts...)
	}
	return New(client, opts...), nil
}

func (s *Store) hashKey() string {
	return s.prefix + "values"
}

func (s *Store) channel() string {
	return s.prefix + "changes"
}

// do runs fn inside a span and the circuit breaker.
func (s *Store) do(ctx context.Context, op, key string, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "settings."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("settings.key", key),
		),
	)
	defer span.End()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, fn(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// GetSettingValue implements settings.Store.
func (s *Store) GetSettingValue(ctx context.Context, key string) (string, error) {
	var v string
	err := s.do(ctx, "get", key, func(ctx context.Context) error {
		var err error
		v, err = s.client.HGet(ctx, s.hashKey(), key).Result()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return "", settings.ErrNotFound
	}
	return v, err
}

// SaveSettingValue implements settings.Store.
func (s *Store) SaveSettingValue(ctx context.Context, key, value string) error {
	return s.do(ctx, "save", key, func(ctx context.Context) error {
		if err := s.client.HSet(ctx, s.hashKey(), key, value).Err(); err != nil {
			return err
		}
		return s.publish(ctx)
	})
}

// DeleteSettingValue implements settings.Store.
func (s *Store) DeleteSettingValue(ctx context.Context, key string) error {
	return s.do(ctx, "delete", key, func(ctx context.Context) error {
		n, err := s.client.HDel(ctx, s.hashKey(), key).Result()
		if err != nil || n == 0 {
			return err
		}
		return s.publish(ctx)
	})
}

// GetSettingValues implements settings.Store.
func (s *Store) GetSettingValues(ctx context.Context) (map[string]string, error) {
	var values map[string]string
	err := s.do(ctx, "getAll", "", func(ctx context.Context) error {
		var err error
		values, err = s.client.HGetAll(ctx, s.hashKey()).Result()
		return err
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// GetSettingKeys implements settings.Store.
func (s *Store) GetSettingKeys(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.do(ctx, "keys", "", func(ctx context.Context) error {
		var err error
		keys, err = s.client.HKeys(ctx, s.hashKey()).Result()
		return err
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// DeleteAll implements settings.Store.
func (s *Store) DeleteAll(ctx context.Context) error {
	return s.do(ctx, "deleteAll", "", func(ctx context.Context) error {
		if err := s.client.Del(ctx, s.hashKey()).Err(); err != nil {
			return err
		}
		return s.publish(ctx)
	})
}

func (s *Store) publish(ctx context.Context) error {
	return s.client.Publish(ctx, s.channel(), s.instance).Err()
}

// Watch calls onChange, typically settings.Service.Refresh, whenever
// another store instance changed a value. It returns once the
// subscription is active; it ends with ctx or Close.
func (s *Store) Watch(ctx context.Context, onChange func(context.Context) error) error {
	pubsub := s.client.Subscribe(ctx, s.channel())
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("failed to subscribe to setting changes: %w", err)
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.pubsub = pubsub
	s.done = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if msg.Payload == s.instance {
					continue
				}
				s.logger.Debug("settings changed by another instance",
					observability.String("instance", msg.Payload),
				)
				if err := onChange(ctx); err != nil {
					s.logger.Error("failed to apply changed settings",
						observability.Error(err),
					)
				}
			}
		}
	}()
	return nil
}

// State returns the state of the circuit breaker.
func (s *Store) State() gobreaker.State {
	return s.cb.State()
}

// Close stops watching and closes the client.
func (s *Store) Close() error {
	s.mu.Lock()
	pubsub, done := s.pubsub, s.done
	s.pubsub, s.done = nil, nil
	s.mu.Unlock()

	if pubsub != nil {
		_ = pubsub.Close()
		<-done
	}
	return s.client.Close()
}

// Ping checks the connection to the server. It fails while the circuit
// breaker is open.
func (s *Store) Ping(ctx context.Context) error {
	if s.cb.State() == gobreaker.StateOpen {
		return ErrUnavailable
	}
	return s.client.Ping(ctx).Err()
}

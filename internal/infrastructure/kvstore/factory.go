package kvstore

import (
	"fmt"

	"go.uber.org/zap"
)

// Factory creates key-value stores based on configuration
type Factory struct {
	redisConfig           RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory store
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Create returns a Redis-backed store, falling back to in-memory when allowed.
// A lost in-memory cart cache degrades to an empty local cart, which the
// reconciler tolerates; it never blocks startup.
func (f *Factory) Create(keyPrefix string) (Store, error) {
	store, err := NewRedisStore(f.redisConfig, keyPrefix)
	if err == nil {
		f.logger.Info("using Redis key-value store", zap.String("prefix", keyPrefix))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis store unavailable and fallback disabled: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory key-value store",
		zap.String("prefix", keyPrefix),
		zap.Error(err))
	return NewInMemoryStore(), nil
}

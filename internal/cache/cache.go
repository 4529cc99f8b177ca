// Package cache stores encoded calculation results keyed by their inputs.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/iwvelando/fincalculate/internal/config"
	"github.com/iwvelando/fincalculate/pkg/constants"
	"github.com/iwvelando/fincalculate/pkg/datetime"
	"github.com/iwvelando/fincalculate/pkg/formula"
	"go.uber.org/zap"
)

const keyPrefix = "fincalc:v1:"

// Repository is a string key/value store with per-entry expiry.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Key identifies the outcome of evaluating kind on values. The month is part
// of the key because payoff dates are relative to the current month.
func Key(kind formula.Kind, values formula.Values, now time.Time) string {
	return keyPrefix + kind.Key() + ":" + datetime.MonthKey(now) + ":" + values.Canonical()
}

// New builds the repository selected by cfg.Backend.
func New(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case constants.CacheBackendNone:
		logger.Info("result caching disabled", zap.String("op", "cache.New"))
		return None{}, nil
	case "", constants.CacheBackendMemory:
		logger.Info("using in-memory result cache",
			zap.String("op", "cache.New"),
			zap.Duration("ttl", cfg.TTL),
		)
		return NewMemory(cfg.TTL, DefaultMaxEntries), nil
	case constants.CacheBackendRedis:
		addr := cfg.RedisAddr
		if addr == "" {
			addr = constants.DefaultRedisAddr
		}
		repo, err := NewRedis(ctx, addr, cfg.TTL, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("using redis result cache",
			zap.String("op", "cache.New"),
			zap.String("addr", addr),
			zap.Duration("ttl", cfg.TTL),
		)
		return repo, nil
	}
	return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
}

// None is a Repository that never stores anything.
type None struct{}

// Get always misses.
func (None) Get(context.Context, string) (string, bool) {
	return "", false
}

// Set discards the value.
func (None) Set(context.Context, string, string) error {
	return nil
}

// Close releases nothing.
func (None) Close() error {
	return nil
}

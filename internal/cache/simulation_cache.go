package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"restockplan/internal/config"
	"restockplan/internal/domain"
)

const (
	simulationResultKeyPrefix = "sim:result"
	simulationScanBatchSize   = 100
)

// SimulationCache memoizes engine output keyed by the identity of the
// input params. The engine is pure, so a hit is always safe to serve.
type SimulationCache interface {
	Get(ctx context.Context, params *domain.SimulationParams) (*domain.SimulationResult, bool, error)
	Set(ctx context.Context, params *domain.SimulationParams, result *domain.SimulationResult) error
	InvalidateAll(ctx context.Context) error
}

type redisSimulationCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSimulationCache struct{}

func NewSimulationCache(cfg config.CacheConfig) (SimulationCache, error) {
	if !cfg.Enabled {
		return &noopSimulationCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSimulationCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopSimulationCache() SimulationCache {
	return &noopSimulationCache{}
}

func (c *redisSimulationCache) Get(ctx context.Context, params *domain.SimulationParams) (*domain.SimulationResult, bool, error) {
	key, err := buildSimulationResultKey(params)
	if err != nil {
		return nil, false, err
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.SimulationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode simulation result cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisSimulationCache) Set(ctx context.Context, params *domain.SimulationParams, result *domain.SimulationResult) error {
	key, err := buildSimulationResultKey(params)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode simulation result cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSimulationCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, simulationResultKeyPrefix, simulationScanBatchSize)
}

func (n *noopSimulationCache) Get(ctx context.Context, params *domain.SimulationParams) (*domain.SimulationResult, bool, error) {
	return nil, false, nil
}

func (n *noopSimulationCache) Set(ctx context.Context, params *domain.SimulationParams, result *domain.SimulationResult) error {
	return nil
}

func (n *noopSimulationCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// buildSimulationResultKey hashes the canonical JSON encoding of the
// params. encoding/json sorts map keys, so structurally identical params
// always produce the same key regardless of object identity.
func buildSimulationResultKey(params *domain.SimulationParams) (string, error) {
	payload, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encode simulation params for cache key: %w", err)
	}
	sum := sha1.Sum(payload)
	return fmt.Sprintf("%s:%s", simulationResultKeyPrefix, hex.EncodeToString(sum[:])), nil
}

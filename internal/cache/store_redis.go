package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"idp-gateway/internal/authorize/models"
	"idp-gateway/pkg/platform/sentinel"
)

var (
	cacheOpDurationMs = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "idp_gateway_transaction_cache_duration_ms",
		Help:    "Latency of transaction cache operations in milliseconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	}, []string{"op"})
)

const redisKeyPrefix = "idp:"

// RedisCache is a Redis-backed transaction cache. This is the
// production-recommended implementation for distributed deployments where
// multiple instances serve the same transaction across requests.
type RedisCache struct {
	client         *redis.Client
	transactionTTL time.Duration
	authCodeTTL    time.Duration
}

// NewRedis constructs a Redis-backed transaction cache. transactionTTL bounds
// pre-issuance entries; authCodeTTL bounds the short window between code
// issuance and token exchange.
func NewRedis(client *redis.Client, transactionTTL, authCodeTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:         client,
		transactionTTL: transactionTTL,
		authCodeTTL:    authCodeTTL,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*models.Transaction, error) {
	defer observe("get", time.Now())

	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("transaction %q: %w", key, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	var txn models.Transaction
	if err := json.Unmarshal(raw, &txn); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	return &txn, nil
}

func (c *RedisCache) Put(ctx context.Context, key string, txn *models.Transaction) error {
	defer observe("put", time.Now())

	raw, err := json.Marshal(txn)
	if err != nil {
		return fmt.Errorf("encode transaction: %w", err)
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, raw, c.ttlFor(txn)).Err(); err != nil {
		return fmt.Errorf("put transaction: %w", err)
	}
	return nil
}

// PutUnderNewKey re-keys the entry in one round trip so no reader ever
// observes both keys live.
func (c *RedisCache) PutUnderNewKey(ctx context.Context, newKey, oldKey string, txn *models.Transaction) error {
	defer observe("rekey", time.Now())

	raw, err := json.Marshal(txn)
	if err != nil {
		return fmt.Errorf("encode transaction: %w", err)
	}
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKeyPrefix+newKey, raw, c.ttlFor(txn))
		pipe.Del(ctx, redisKeyPrefix+oldKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("rekey transaction: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	defer observe("delete", time.Now())

	n, err := c.client.Del(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %q: %w", key, sentinel.ErrNotFound)
	}
	return nil
}

func (c *RedisCache) ttlFor(txn *models.Transaction) time.Duration {
	if txn != nil && txn.State == models.StateCodeIssued {
		return c.authCodeTTL
	}
	return c.transactionTTL
}

func observe(op string, start time.Time) {
	cacheOpDurationMs.WithLabelValues(op).
		Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}

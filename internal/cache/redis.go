package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	ec "github.com/kgraph/extractor-core/pkgs/errors"
	"github.com/kgraph/extractor-core/internal/schema"
	"github.com/redis/go-redis/v9"
)

// RedisCache is the production Cache backed by a single long-lived
// *redis.Client per process, matching the concurrency model's shared-
// resource contract.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) GetAPIKey(ctx context.Context, sha256hex string) (*schema.ApiKey, error) {
	data, err := c.client.Get(ctx, apiKeyKey(sha256hex)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ec.ErrCacheMiss.Clone()
	}
	if err != nil {
		return nil, ec.ErrCacheUnavailable.Clone().Warp(err)
	}
	var key schema.ApiKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, ec.ErrCacheEncodingError.Clone().Warp(err)
	}
	return &key, nil
}

func (c *RedisCache) PutAPIKey(ctx context.Context, sha256hex string, key schema.ApiKey) error {
	data, err := json.Marshal(key)
	if err != nil {
		return ec.ErrCacheEncodingError.Clone().Warp(err)
	}
	if err := c.client.Set(ctx, apiKeyKey(sha256hex), data, 0).Err(); err != nil {
		return ec.ErrCacheUnavailable.Clone().Warp(err)
	}
	return nil
}

func (c *RedisCache) GetExtractionJob(ctx context.Context, jobID uuid.UUID) (*schema.ExtractionJob, error) {
	data, err := c.client.Get(ctx, jobKey(jobID.String())).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ec.ErrCacheMiss.Clone()
	}
	if err != nil {
		return nil, ec.ErrCacheUnavailable.Clone().Warp(err)
	}
	var job schema.ExtractionJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, ec.ErrCacheEncodingError.Clone().Warp(err)
	}
	return &job, nil
}

// PutExtractionJob writes the full current ExtractionJob record as a
// single atomic put, per the Orchestrator's per-transition contract.
func (c *RedisCache) PutExtractionJob(ctx context.Context, job schema.ExtractionJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return ec.ErrCacheEncodingError.Clone().Warp(err)
	}
	if err := c.client.Set(ctx, jobKey(job.JobID.String()), data, 0).Err(); err != nil {
		return ec.ErrCacheUnavailable.Clone().Warp(err)
	}
	return nil
}

func (c *RedisCache) GetExtractionResult(ctx context.Context, sha256hex string) (*schema.ExtractionResult, bool, error) {
	data, err := c.client.Get(ctx, tierCKey(sha256hex)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, ec.ErrCacheUnavailable.Clone().Warp(err)
	}
	var result schema.ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, ec.ErrCacheEncodingError.Clone().Warp(err)
	}
	return &result, true, nil
}

func (c *RedisCache) PutExtractionResult(ctx context.Context, sha256hex string, result schema.ExtractionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return ec.ErrCacheEncodingError.Clone().Warp(err)
	}
	if err := c.client.Set(ctx, tierCKey(sha256hex), data, 0).Err(); err != nil {
		return ec.ErrCacheUnavailable.Clone().Warp(err)
	}
	return nil
}

func (c *RedisCache) PushJob(ctx context.Context, envelope JobEnvelope) error {
	data, err := json.Marshal(envelope)
	if err != nil {
		return ec.ErrCacheEncodingError.Clone().Warp(err)
	}
	if err := c.client.LPush(ctx, queueExtraction, data).Err(); err != nil {
		return ec.ErrCacheUnavailable.Clone().Warp(err)
	}
	return nil
}

// PopJob blocks on queue:extraction for up to timeout. The returned bool
// is false with a nil error on a plain poll timeout (no job available).
func (c *RedisCache) PopJob(ctx context.Context, timeout time.Duration) (*JobEnvelope, bool, error) {
	result, err := c.client.BLPop(ctx, timeout, queueExtraction).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, ec.ErrCacheUnavailable.Clone().Warp(err)
	}
	if len(result) != 2 {
		return nil, false, ec.ErrCacheEncodingError.Clone()
	}
	var envelope JobEnvelope
	if err := json.Unmarshal([]byte(result[1]), &envelope); err != nil {
		return nil, false, ec.ErrCacheEncodingError.Clone().Warp(err)
	}
	return &envelope, true, nil
}

func (c *RedisCache) SendToDLQ(ctx context.Context, envelope DLQEnvelope) error {
	data, err := json.Marshal(envelope)
	if err != nil {
		return ec.ErrCacheEncodingError.Clone().Warp(err)
	}
	if err := c.client.LPush(ctx, queueDLQ, data).Err(); err != nil {
		return ec.ErrCacheUnavailable.Clone().Warp(err)
	}
	return nil
}

func (c *RedisCache) IncrementRetryCount(ctx context.Context, jobID string) (int, error) {
	n, err := c.client.HIncrBy(ctx, retryCountsKey, jobID, 1).Result()
	if err != nil {
		return 0, ec.ErrCacheUnavailable.Clone().Warp(err)
	}
	return int(n), nil
}

func (c *RedisCache) GetRetryCount(ctx context.Context, jobID string) (int, error) {
	val, err := c.client.HGet(ctx, retryCountsKey, jobID).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, ec.ErrCacheUnavailable.Clone().Warp(err)
	}
	return val, nil
}

func (c *RedisCache) ShouldRetry(ctx context.Context, jobID string, maxRetries int) (bool, error) {
	count, err := c.GetRetryCount(ctx, jobID)
	if err != nil {
		return false, err
	}
	return count < maxRetries, nil
}

func (c *RedisCache) ClearRetryCount(ctx context.Context, jobID string) error {
	if err := c.client.HDel(ctx, retryCountsKey, jobID).Err(); err != nil {
		return ec.ErrCacheUnavailable.Clone().Warp(err)
	}
	return nil
}

// Package cache wraps the Redis-backed keyspace the core treats as its
// process-wide fast KV store: API keys, extraction job state, the Tier-C
// result cache, the job queue, and the dead-letter queue. Keyspace rules
// are named constants here, not string literals at call sites, per the
// design guidance to keep the Redis client a single abstraction with a
// documented keyspace contract.
package cache

import "fmt"

const (
	queueExtraction = "queue:extraction"
	queueDLQ        = "queue:dlq"
	retryCountsKey  = "retry_counts"
)

func apiKeyKey(sha256hex string) string {
	return fmt.Sprintf("api_key:%s", sha256hex)
}

func jobKey(jobID string) string {
	return fmt.Sprintf("extraction_job:%s", jobID)
}

// tierCKey returns the bare, unprefixed cache key used for Tier-C
// extraction results, per §6's keyspace contract.
func tierCKey(sha256hex string) string {
	return sha256hex
}

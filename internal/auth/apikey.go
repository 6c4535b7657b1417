// Package auth implements the API-key validation interface described in
// §1 ("Authentication (API-key validation against the cache store) is
// described only as an interface") and testable property #9:
// ApiKeyStore.validate(k) returns true iff api_key:{sha256(k)} exists AND
// is_active is true. Grounded on the teacher's internal/storage API-key
// lookup shape, adapted from a Postgres query to the Cache's
// api_key:{sha256hex} keyspace entry (§6).
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/kgraph/extractor-core/internal/cache"
	ec "github.com/kgraph/extractor-core/pkgs/errors"
)

// ApiKeyStore validates raw API keys against the Cache's api_key:{hash}
// keyspace. It holds no state beyond the Cache client it wraps, per §5's
// "Cache connection... treated as thread/task-safe by contract".
type ApiKeyStore struct {
	cache cache.Cache
}

func NewApiKeyStore(c cache.Cache) *ApiKeyStore {
	return &ApiKeyStore{cache: c}
}

// HashKey computes the lowercase hex SHA-256 digest used as the cache
// key and as ApiKey.KeyHash.
func HashKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

// Validate reports whether rawKey corresponds to an active ApiKey
// record. A cache miss is not an error: it simply means the key is
// invalid.
func (s *ApiKeyStore) Validate(ctx context.Context, rawKey string) (bool, error) {
	if rawKey == "" {
		return false, nil
	}
	key, err := s.cache.GetAPIKey(ctx, HashKey(rawKey))
	if err != nil {
		var cacheErr *ec.Error
		if errors.As(err, &cacheErr) && cacheErr.InternalStatusCode == ec.ECCacheMiss {
			return false, nil
		}
		return false, err
	}
	if key == nil {
		return false, nil
	}
	return key.IsActive, nil
}

package cache

import "time"

const DefaultBaseDelay = 2 * time.Second

// CalculateBackoffDelay returns base_delay * 2^(retryCount-1), so with
// the default 2s base: 2, 4, 8, ... for retryCount = 1, 2, 3, ...
func CalculateBackoffDelay(retryCount int, baseDelay time.Duration) time.Duration {
	if retryCount < 1 {
		return 0
	}
	return baseDelay * time.Duration(1<<uint(retryCount-1))
}

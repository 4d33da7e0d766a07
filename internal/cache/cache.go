// Package cache provides a small string cache used to memoize expensive
// payoff simulations. A Redis-backed implementation is used when a Redis
// address is configured; otherwise an in-process map serves as fallback.
package cache

// Cache is the contract shared by the Redis and in-memory implementations.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

package cache

import "log/slog"

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger for cache events. The default is slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOpenHook registers a function called with the normalized path after
// every successful archive open.
func WithOpenHook(fn func(path string)) Option {
	return func(c *Cache) { c.onOpen = fn }
}

// WithNormalizer replaces the path normalization used for cache keys.
func WithNormalizer(fn func(path string) (string, error)) Option {
	return func(c *Cache) {
		if fn != nil {
			c.normalize = fn
		}
	}
}

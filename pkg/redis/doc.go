// Package redis provides Redis connection management with retry logic and
// environment-based configuration. The returned client backs the
// cross-instance notification fan-out in pkg/feed.
package redis

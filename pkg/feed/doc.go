// Package feed provides realtime delivery of notifications to their
// owners: a Feed fans published notifications out to per-user
// subscriptions, and a Listener wraps the subscribe/unsubscribe lifecycle
// for one user session.
//
// Two Feed implementations ship with the package. MemoryFeed delivers
// within a single process and backs tests and development. RedisFeed uses
// Redis pub/sub so events published on one application instance reach
// subscribers connected to another.
//
// Both implementations drop messages for slow consumers instead of
// blocking publishers; the persistent store remains the source of truth
// and a dropped event is recovered by the next Inbox load.
package feed

// Package notifications implements the tide notification pipeline's domain
// core: the notification model with its per-type payload union, per-user
// alerting preferences, storage interfaces with Postgres and in-memory
// implementations, the per-session Inbox mirror with its unread counter,
// the pure grouping engine, and the presenter that turns notifications
// into localized display strings and navigation targets.
//
// Data flows realtime feed -> Inbox -> GroupNotifications -> Presenter for
// rendering, while pkg/alert consumes the same notifications for
// out-of-band alerting gated by Preferences.
//
// The Inbox applies mutations optimistically and rolls them back when the
// server rejects them; its unread counter is recomputed from the snapshot
// after every mutation so it always equals the number of unread entries.
package notifications

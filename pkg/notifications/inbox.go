package notifications

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/tidehq/tide/pkg/logger"
)

// Inbox mirrors the server-side notification state for one signed-in user:
// an ordered snapshot (newest first) plus an unread counter. It is mutated
// by Load (refetch), Receive (realtime push), and the user-action methods.
//
// Mutations are optimistic: the local change is applied first, then the
// server mutation is requested. On server failure the local change is
// rolled back by applying the inverse delta to the current state rather
// than restoring a pre-image, so a Receive that lands while the request is
// in flight is never lost. The unread counter is recomputed from the
// snapshot after every mutation, which keeps it equal to the number of
// unread entries and never negative.
type Inbox struct {
	userID  string
	storage Storage
	log     *slog.Logger

	mu      sync.Mutex
	items   []Notification
	unread  int
	lastErr error
}

// InboxOption configures an Inbox.
type InboxOption func(*Inbox)

// WithInboxLogger sets the logger for the Inbox.
func WithInboxLogger(log *slog.Logger) InboxOption {
	return func(b *Inbox) {
		if log != nil {
			b.log = log
		}
	}
}

// NewInbox creates an inbox bound to one user.
func NewInbox(userID string, storage Storage, opts ...InboxOption) *Inbox {
	b := &Inbox{
		userID:  userID,
		storage: storage,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// UserID returns the user the inbox belongs to.
func (b *Inbox) UserID() string { return b.userID }

// Load fetches a page of notifications and replaces the current snapshot.
// On failure the prior snapshot is left intact and the error is recorded;
// the caller may re-invoke Load.
func (b *Inbox) Load(ctx context.Context, opts ListOptions) error {
	items, err := b.storage.List(ctx, b.userID, opts)

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.lastErr = err
		return err
	}

	b.items = items
	b.lastErr = nil
	b.recount()
	return nil
}

// Receive prepends a newly arrived notification to the snapshot.
// Redelivery of an id already present (reconnect replay) is dropped.
func (b *Inbox) Receive(n Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.indexOf(n.ID) >= 0 {
		b.log.Debug("duplicate notification delivery dropped",
			logger.NotificationID(n.ID),
			logger.UserID(b.userID),
		)
		return
	}

	b.items = append([]Notification{n}, b.items...)
	b.recount()
}

// MarkRead flags the notification as read locally, then requests the
// server-side mutation. On server failure the local flag is rolled back.
func (b *Inbox) MarkRead(ctx context.Context, id string) error {
	b.mu.Lock()
	idx := b.indexOf(id)
	if idx < 0 {
		b.mu.Unlock()
		return ErrNotificationNotFound
	}
	wasUnread := !b.items[idx].Read
	if wasUnread {
		b.items[idx].MarkAsRead()
		b.recount()
	}
	b.mu.Unlock()

	if err := b.storage.MarkRead(ctx, b.userID, id); err != nil {
		b.mu.Lock()
		if wasUnread {
			if idx := b.indexOf(id); idx >= 0 {
				b.items[idx].Read = false
				b.items[idx].ReadAt = nil
			}
			b.recount()
		}
		b.lastErr = err
		b.mu.Unlock()
		return err
	}
	return nil
}

// MarkAllRead flags every notification in the snapshot as read, then
// requests the bulk server-side mutation. Rolled back on failure.
func (b *Inbox) MarkAllRead(ctx context.Context) error {
	b.mu.Lock()
	var unreadIDs []string
	for i := range b.items {
		if !b.items[i].Read {
			unreadIDs = append(unreadIDs, b.items[i].ID)
			b.items[i].MarkAsRead()
		}
	}
	b.recount()
	b.mu.Unlock()

	if _, err := b.storage.MarkAllRead(ctx, b.userID); err != nil {
		b.mu.Lock()
		for _, id := range unreadIDs {
			if idx := b.indexOf(id); idx >= 0 {
				b.items[idx].Read = false
				b.items[idx].ReadAt = nil
			}
		}
		b.recount()
		b.lastErr = err
		b.mu.Unlock()
		return err
	}
	return nil
}

// Remove deletes the notification locally, then requests server deletion.
// The entry is reinserted on server failure.
func (b *Inbox) Remove(ctx context.Context, id string) error {
	b.mu.Lock()
	idx := b.indexOf(id)
	if idx < 0 {
		b.mu.Unlock()
		return ErrNotificationNotFound
	}
	removed := b.items[idx]
	b.items = append(b.items[:idx], b.items[idx+1:]...)
	b.recount()
	b.mu.Unlock()

	if err := b.storage.Delete(ctx, b.userID, id); err != nil {
		b.mu.Lock()
		b.reinsert(removed)
		b.recount()
		b.lastErr = err
		b.mu.Unlock()
		return err
	}
	return nil
}

// BulkAction applies a batched read or delete over ids. The unread counter
// moves only by the number of affected notifications that were actually
// unread, not by len(ids). Returns the server-reported affected count.
func (b *Inbox) BulkAction(ctx context.Context, ids []string, action BulkAction) (int, error) {
	if !action.Valid() {
		return 0, ErrUnknownBulkAction
	}

	b.mu.Lock()
	var (
		readIDs []string       // ids flipped from unread to read
		removed []Notification // entries deleted locally
	)
	switch action {
	case BulkActionRead:
		idSet := toIDSet(ids)
		for i := range b.items {
			if idSet[b.items[i].ID] && !b.items[i].Read {
				readIDs = append(readIDs, b.items[i].ID)
				b.items[i].MarkAsRead()
			}
		}
	case BulkActionDelete:
		idSet := toIDSet(ids)
		kept := b.items[:0:0]
		for _, n := range b.items {
			if idSet[n.ID] {
				removed = append(removed, n)
				continue
			}
			kept = append(kept, n)
		}
		b.items = kept
	}
	b.recount()
	b.mu.Unlock()

	affected, err := b.storage.BulkUpdate(ctx, b.userID, action, ids)
	if err != nil {
		b.mu.Lock()
		for _, id := range readIDs {
			if idx := b.indexOf(id); idx >= 0 {
				b.items[idx].Read = false
				b.items[idx].ReadAt = nil
			}
		}
		for _, n := range removed {
			b.reinsert(n)
		}
		b.recount()
		b.lastErr = err
		b.mu.Unlock()
		return 0, err
	}
	return affected, nil
}

// UnreadCount returns the current unread counter. Never negative.
func (b *Inbox) UnreadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unread
}

// Len returns the number of notifications in the snapshot.
func (b *Inbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Snapshot returns a copy of the current snapshot, newest first.
func (b *Inbox) Snapshot() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := make([]Notification, len(b.items))
	copy(items, b.items)
	return items
}

// Err returns the error recorded by the most recent failed operation, or
// nil after a successful Load.
func (b *Inbox) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Groups partitions the current snapshot into display groups.
func (b *Inbox) Groups(now time.Time, pr *Presenter) []Group {
	return GroupNotifications(b.Snapshot(), now, pr)
}

// recount recomputes the unread counter from the snapshot. Callers must
// hold b.mu.
func (b *Inbox) recount() {
	count := 0
	for i := range b.items {
		if !b.items[i].Read {
			count++
		}
	}
	b.unread = count
}

// indexOf returns the snapshot index of id, or -1. Callers must hold b.mu.
func (b *Inbox) indexOf(id string) int {
	for i := range b.items {
		if b.items[i].ID == id {
			return i
		}
	}
	return -1
}

// reinsert puts a rolled-back entry back into the snapshot, preserving
// newest-first order. Callers must hold b.mu.
func (b *Inbox) reinsert(n Notification) {
	if b.indexOf(n.ID) >= 0 {
		return
	}
	pos := sort.Search(len(b.items), func(i int) bool {
		return !b.items[i].CreatedAt.After(n.CreatedAt)
	})
	b.items = append(b.items, Notification{})
	copy(b.items[pos+1:], b.items[pos:])
	b.items[pos] = n
}

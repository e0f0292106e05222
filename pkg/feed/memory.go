package feed

import (
	"context"
	"sync"

	"github.com/tidehq/tide/pkg/notifications"
)

// MemoryFeed is a single-process Feed implementation. Each subscriber has
// a buffered channel; when the buffer is full new messages are dropped for
// that subscriber so one stalled reader cannot stall the publisher.
type MemoryFeed struct {
	mu         sync.RWMutex
	byUser     map[string]map[*memorySubscription]struct{}
	bufferSize int
	closed     bool
	cleanupWg  sync.WaitGroup
}

// NewMemoryFeed creates an in-memory feed. A minimum buffer size of 1 is
// enforced so sends stay non-blocking.
func NewMemoryFeed(bufferSize int) *MemoryFeed {
	return &MemoryFeed{
		byUser:     make(map[string]map[*memorySubscription]struct{}),
		bufferSize: max(bufferSize, 1),
	}
}

func (f *MemoryFeed) Publish(ctx context.Context, n notifications.Notification) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return ErrFeedClosed
	}

	for sub := range f.byUser[n.UserID] {
		if !sub.send(n) {
			// Drop slow or closed subscribers asynchronously so the
			// publish path never takes the write lock.
			go f.remove(sub)
		}
	}
	return nil
}

func (f *MemoryFeed) Subscribe(ctx context.Context, userID string) (Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrFeedClosed
	}

	sub := newMemorySubscription(userID, f.bufferSize)
	if f.byUser[userID] == nil {
		f.byUser[userID] = make(map[*memorySubscription]struct{})
	}
	f.byUser[userID][sub] = struct{}{}

	// Auto-cleanup on context cancellation.
	if ctx.Done() != nil {
		f.cleanupWg.Add(1)
		go func() {
			defer f.cleanupWg.Done()
			select {
			case <-ctx.Done():
				f.remove(sub)
			case <-sub.done:
			}
		}()
	}

	return sub, nil
}

// Close shuts down the feed and closes all subscriptions. Safe to call
// multiple times.
func (f *MemoryFeed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true

	for _, subs := range f.byUser {
		for sub := range subs {
			_ = sub.Close()
		}
	}
	clear(f.byUser)
	f.mu.Unlock()

	f.cleanupWg.Wait()
	return nil
}

func (f *MemoryFeed) remove(sub *memorySubscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if subs := f.byUser[sub.userID]; subs != nil {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(f.byUser, sub.userID)
		}
	}
	_ = sub.Close()
}

type memorySubscription struct {
	userID string
	ch     chan notifications.Notification
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

func newMemorySubscription(userID string, bufferSize int) *memorySubscription {
	return &memorySubscription{
		userID: userID,
		ch:     make(chan notifications.Notification, bufferSize),
		done:   make(chan struct{}),
	}
}

func (s *memorySubscription) Events() <-chan notifications.Notification {
	return s.ch
}

func (s *memorySubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ch)
		close(s.done)
	}
	return nil
}

func (s *memorySubscription) send(n notifications.Notification) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- n:
		return true
	default:
		return false
	}
}

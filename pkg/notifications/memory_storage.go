package notifications

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of Storage and
// PreferencesStorage. Suitable for development and testing.
type MemoryStorage struct {
	notifications map[string][]Notification // userID -> notifications
	preferences   map[string]Preferences    // userID -> preferences
	mu            sync.RWMutex
}

// NewMemoryStorage creates a new in-memory notification storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		notifications: make(map[string][]Notification),
		preferences:   make(map[string]Preferences),
	}
}

func (s *MemoryStorage) Create(ctx context.Context, notif Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if notif.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidNotification)
	}
	if notif.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidNotification)
	}

	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = time.Now()
	}

	s.notifications[notif.UserID] = append(s.notifications[notif.UserID], notif)
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, userID, notifID string) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.notifications[userID] {
		if n.ID == notifID {
			// Return a copy to prevent external mutation of stored data.
			notif := n
			return &notif, nil
		}
	}

	return nil, ErrNotificationNotFound
}

func (s *MemoryStorage) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []Notification
	for _, n := range s.notifications[userID] {
		if opts.OnlyUnread && n.Read {
			continue
		}
		if len(opts.Types) > 0 && !containsType(opts.Types, n.Type) {
			continue
		}
		if opts.Since != nil && n.CreatedAt.Before(*opts.Since) {
			continue
		}
		filtered = append(filtered, n)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	start := opts.Offset
	if start > len(filtered) {
		return []Notification{}, nil
	}

	end := start + opts.Limit
	if opts.Limit == 0 || end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], nil
}

func (s *MemoryStorage) MarkRead(ctx context.Context, userID string, notifIDs ...string) error {
	if len(notifIDs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idSet := toIDSet(notifIDs)
	items := s.notifications[userID]
	matched := false
	for i := range items {
		if !idSet[items[i].ID] {
			continue
		}
		matched = true
		if !items[i].Read {
			items[i].MarkAsRead()
		}
	}
	if !matched {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *MemoryStorage) MarkAllRead(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	affected := 0
	items := s.notifications[userID]
	for i := range items {
		if !items[i].Read {
			items[i].MarkAsRead()
			affected++
		}
	}
	return affected, nil
}

func (s *MemoryStorage) BulkUpdate(ctx context.Context, userID string, action BulkAction, notifIDs []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idSet := toIDSet(notifIDs)
	items := s.notifications[userID]

	switch action {
	case BulkActionRead:
		affected := 0
		for i := range items {
			if idSet[items[i].ID] && !items[i].Read {
				items[i].MarkAsRead()
				affected++
			}
		}
		return affected, nil
	case BulkActionDelete:
		kept := items[:0:0]
		affected := 0
		for _, n := range items {
			if idSet[n.ID] {
				affected++
				continue
			}
			kept = append(kept, n)
		}
		s.notifications[userID] = kept
		return affected, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBulkAction, action)
	}
}

func (s *MemoryStorage) Delete(ctx context.Context, userID string, notifIDs ...string) error {
	if len(notifIDs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idSet := toIDSet(notifIDs)
	kept := s.notifications[userID][:0:0]
	matched := false
	for _, n := range s.notifications[userID] {
		if idSet[n.ID] {
			matched = true
			continue
		}
		kept = append(kept, n)
	}
	if !matched {
		return ErrNotificationNotFound
	}
	s.notifications[userID] = kept
	return nil
}

func (s *MemoryStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications[userID] {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStorage) GetPreferences(ctx context.Context, userID string) (Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if prefs, ok := s.preferences[userID]; ok {
		return prefs, nil
	}
	return DefaultPreferences(userID), nil
}

func (s *MemoryStorage) SavePreferences(ctx context.Context, prefs Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prefs.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidNotification)
	}
	s.preferences[prefs.UserID] = prefs
	return nil
}

func containsType(types []Type, t Type) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func toIDSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

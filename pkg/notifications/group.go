package notifications

import (
	"sort"
	"time"
)

// GroupKind classifies the subject entity a display group is keyed by.
type GroupKind string

const (
	GroupKindTask  GroupKind = "task"
	GroupKindSpace GroupKind = "space"
	GroupKindOther GroupKind = "other"
)

// Group is a derived display aggregate of notifications sharing a subject
// entity and a calendar-day bucket. Groups are recomputed from the current
// snapshot on every render pass and are never persisted.
type Group struct {
	Key      string
	Kind     GroupKind
	Title    string
	Members  []Notification // sorted by creation time, newest first
	Expanded bool
}

// UnreadCount returns the number of unread members.
func (g *Group) UnreadCount() int {
	count := 0
	for _, n := range g.Members {
		if !n.Read {
			count++
		}
	}
	return count
}

// LatestAt returns the creation time of the most recent member. Members
// are sorted newest first, so this is the first member's timestamp.
func (g *Group) LatestAt() time.Time {
	if len(g.Members) == 0 {
		return time.Time{}
	}
	return g.Members[0].CreatedAt
}

// Summary returns the collapsed-group display text: a single-member group
// shows that notification's message verbatim, a multi-member group shows a
// localized count string.
func (g *Group) Summary(pr *Presenter) string {
	if len(g.Members) == 1 {
		return pr.Body(g.Members[0])
	}
	return pr.GroupSummary(len(g.Members), g.UnreadCount())
}

// GroupNotifications partitions a flat list of notifications into display
// groups. Membership is deterministic: two notifications share a group iff
// they share subject kind, subject id, and calendar-day bucket; "other"
// notifications are singleton groups keyed by their own id. Groups appear
// in the order their first member appears in the recency-sorted input, and
// every group starts collapsed.
func GroupNotifications(notifs []Notification, now time.Time, pr *Presenter) []Group {
	if len(notifs) == 0 {
		return []Group{}
	}

	sorted := make([]Notification, len(notifs))
	copy(sorted, notifs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	var (
		groups  []Group
		indexOf = make(map[string]int)
	)

	for _, n := range sorted {
		key, kind := groupKey(n, now, pr)

		if idx, ok := indexOf[key]; ok {
			groups[idx].Members = append(groups[idx].Members, n)
			continue
		}

		title := pr.Title(n)
		if kind == GroupKindSpace {
			title = pr.SpaceActivity()
		}

		indexOf[key] = len(groups)
		groups = append(groups, Group{
			Key:     key,
			Kind:    kind,
			Title:   title,
			Members: []Notification{n},
		})
	}

	return groups
}

// groupKey computes the deterministic membership key for a notification.
// Task-related notifications without a related id and space notifications
// without a space id degrade to singleton "other" groups.
func groupKey(n Notification, now time.Time, pr *Presenter) (string, GroupKind) {
	switch {
	case n.Type.IsTaskKind() && n.RelatedID != "":
		return "task:" + n.RelatedID + ":" + pr.DayBucket(n.CreatedAt, now), GroupKindTask
	case n.Type.IsSpaceKind() && n.SpaceID != "":
		return "space:" + n.SpaceID + ":" + pr.DayBucket(n.CreatedAt, now), GroupKindSpace
	default:
		return "other:" + n.ID, GroupKindOther
	}
}

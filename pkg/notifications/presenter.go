package notifications

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder nouns used when a payload field is absent. Rendering must
// never fail on a sparse payload.
const (
	fallbackActor = "someone"
	fallbackTodo  = "a task"
	fallbackSpace = "a space"
)

// Presenter maps a notification's type and payload to localized display
// strings and an in-app navigation target. It is total over the closed
// type set plus a default branch for unrecognized types.
type Presenter struct {
	p *message.Printer
}

// NewPresenter creates a presenter for the given language. Strings not
// present in the message catalog fall back to the English format text.
func NewPresenter(lang language.Tag) *Presenter {
	return &Presenter{p: message.NewPrinter(lang)}
}

// Title returns a short localized heading for the notification.
func (pr *Presenter) Title(n Notification) string {
	switch n.Type {
	case TypeTodoAssigned:
		return pr.p.Sprintf("New task assigned")
	case TypeTodoCompleted:
		return pr.p.Sprintf("Task completed")
	case TypeTodoUpdated:
		return pr.p.Sprintf("Task updated")
	case TypeCommentAdded:
		return pr.p.Sprintf("New comment")
	case TypeSpaceInvited:
		return pr.p.Sprintf("Space invitation")
	case TypeMemberJoined:
		return pr.p.Sprintf("New member")
	default:
		return pr.p.Sprintf("Notification")
	}
}

// Body returns the localized one-line message for the notification.
func (pr *Presenter) Body(n Notification) string {
	switch n.Type {
	case TypeTodoAssigned:
		actor, todo := todoFields(n.Data)
		return pr.p.Sprintf("%s assigned you %s", actor, todo)
	case TypeTodoCompleted:
		actor, todo := todoFields(n.Data)
		return pr.p.Sprintf("%s completed %s", actor, todo)
	case TypeTodoUpdated:
		actor, todo := todoFields(n.Data)
		return pr.p.Sprintf("%s updated %s", actor, todo)
	case TypeCommentAdded:
		p, _ := n.Data.(CommentAddedPayload)
		actor := orFallback(p.Actor, fallbackActor)
		todo := orFallback(p.TodoTitle, fallbackTodo)
		if p.Comment != "" {
			return pr.p.Sprintf("%s commented on %s: %s", actor, todo, p.Comment)
		}
		return pr.p.Sprintf("%s commented on %s", actor, todo)
	case TypeSpaceInvited:
		p, _ := n.Data.(SpaceInvitedPayload)
		actor := orFallback(p.Actor, fallbackActor)
		space := orFallback(p.SpaceName, fallbackSpace)
		return pr.p.Sprintf("%s invited you to %s", actor, space)
	case TypeMemberJoined:
		p, _ := n.Data.(MemberJoinedPayload)
		actor := orFallback(p.Actor, fallbackActor)
		space := orFallback(p.SpaceName, fallbackSpace)
		return pr.p.Sprintf("%s joined %s", actor, space)
	default:
		return pr.p.Sprintf("You have a new notification")
	}
}

// Target resolves the in-app destination the notification links to.
// Task-related types route to the todo's detail view when a related id is
// present, space-related types to the space view, and everything else to
// the notifications listing.
func (pr *Presenter) Target(n Notification) string {
	switch {
	case n.Type.IsTaskKind() && n.RelatedID != "":
		return "/todos/" + n.RelatedID
	case n.Type.IsSpaceKind() && n.SpaceID != "":
		return "/spaces/" + n.SpaceID
	default:
		return "/notifications"
	}
}

// SpaceActivity returns the fixed label used as the title of space groups.
func (pr *Presenter) SpaceActivity() string {
	return pr.p.Sprintf("Space activity")
}

// DayBucket returns the calendar-day label for t relative to now: "Today",
// "Yesterday", or a month/day string. The label is part of the grouping
// key, so conversations naturally split across day boundaries.
func (pr *Presenter) DayBucket(t, now time.Time) string {
	ty, tm, td := t.Date()
	switch ny, nm, nd := now.Date(); {
	case ty == ny && tm == nm && td == nd:
		return pr.p.Sprintf("Today")
	default:
		yy, ym, yd := now.AddDate(0, 0, -1).Date()
		if ty == yy && tm == ym && td == yd {
			return pr.p.Sprintf("Yesterday")
		}
	}
	// Month abbreviations are printer keys of their own so catalogs can
	// translate them.
	return pr.p.Sprintf("%s %d", pr.p.Sprintf(t.Format("Jan")), td)
}

// GroupSummary returns the localized collapsed-group summary: the member
// count, plus the unread count when nonzero.
func (pr *Presenter) GroupSummary(total, unread int) string {
	if unread > 0 {
		return pr.p.Sprintf("%d notifications, %d unread", total, unread)
	}
	return pr.p.Sprintf("%d notifications", total)
}

func todoFields(data Payload) (actor, todo string) {
	actor, todo = fallbackActor, fallbackTodo
	switch p := data.(type) {
	case TodoAssignedPayload:
		actor = orFallback(p.Actor, fallbackActor)
		todo = orFallback(p.TodoTitle, fallbackTodo)
	case TodoCompletedPayload:
		actor = orFallback(p.Actor, fallbackActor)
		todo = orFallback(p.TodoTitle, fallbackTodo)
	case TodoUpdatedPayload:
		actor = orFallback(p.Actor, fallbackActor)
		todo = orFallback(p.TodoTitle, fallbackTodo)
	}
	return actor, todo
}

func orFallback(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

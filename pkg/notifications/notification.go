package notifications

import (
	"encoding/json"
	"time"
)

// Type is the closed set of events that produce notifications.
type Type string

const (
	TypeTodoAssigned  Type = "todo_assigned"
	TypeTodoCompleted Type = "todo_completed"
	TypeTodoUpdated   Type = "todo_updated"
	TypeCommentAdded  Type = "comment_added"
	TypeSpaceInvited  Type = "space_invited"
	TypeMemberJoined  Type = "member_joined"
)

// Valid reports whether t is one of the known notification types.
func (t Type) Valid() bool {
	switch t {
	case TypeTodoAssigned, TypeTodoCompleted, TypeTodoUpdated,
		TypeCommentAdded, TypeSpaceInvited, TypeMemberJoined:
		return true
	}
	return false
}

// IsTaskKind reports whether the type relates to a single todo.
func (t Type) IsTaskKind() bool {
	switch t {
	case TypeTodoAssigned, TypeTodoCompleted, TypeTodoUpdated, TypeCommentAdded:
		return true
	}
	return false
}

// IsSpaceKind reports whether the type relates to a space as a whole.
func (t Type) IsSpaceKind() bool {
	return t == TypeSpaceInvited || t == TypeMemberJoined
}

// Notification is the core domain model for the notification pipeline.
// The payload shape is determined by Type; renderers must tolerate a nil
// payload and absent payload fields.
type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Type      Type       `json:"type"`
	Data      Payload    `json:"-"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	RelatedID string     `json:"related_id,omitempty"`
	SpaceID   string     `json:"space_id,omitempty"`
}

// MarkAsRead marks the notification as read with the current timestamp.
func (n *Notification) MarkAsRead() {
	n.Read = true
	now := time.Now()
	n.ReadAt = &now
}

// notificationJSON mirrors Notification with the payload as raw JSON so the
// tagged union can be decoded based on the type field.
type notificationJSON struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Type      Type            `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Read      bool            `json:"read"`
	ReadAt    *time.Time      `json:"read_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	RelatedID string          `json:"related_id,omitempty"`
	SpaceID   string          `json:"space_id,omitempty"`
}

func (n Notification) MarshalJSON() ([]byte, error) {
	raw, err := EncodePayload(n.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(notificationJSON{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Data:      raw,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
		RelatedID: n.RelatedID,
		SpaceID:   n.SpaceID,
	})
}

func (n *Notification) UnmarshalJSON(data []byte) error {
	var raw notificationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	payload, err := DecodePayload(raw.Type, raw.Data)
	if err != nil {
		return err
	}

	*n = Notification{
		ID:        raw.ID,
		UserID:    raw.UserID,
		Type:      raw.Type,
		Data:      payload,
		Read:      raw.Read,
		ReadAt:    raw.ReadAt,
		CreatedAt: raw.CreatedAt,
		RelatedID: raw.RelatedID,
		SpaceID:   raw.SpaceID,
	}
	return nil
}

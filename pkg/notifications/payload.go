package notifications

import (
	"encoding/json"
)

// Payload is the tagged union of per-type notification data. Each Type has
// exactly one payload variant; all fields are optional and renderers fall
// back to placeholder text when they are empty.
type Payload interface {
	payloadType() Type
}

// TodoAssignedPayload accompanies TypeTodoAssigned.
type TodoAssignedPayload struct {
	Actor     string `json:"actor,omitempty"`
	TodoTitle string `json:"todo_title,omitempty"`
}

func (TodoAssignedPayload) payloadType() Type { return TypeTodoAssigned }

// TodoCompletedPayload accompanies TypeTodoCompleted.
type TodoCompletedPayload struct {
	Actor     string `json:"actor,omitempty"`
	TodoTitle string `json:"todo_title,omitempty"`
}

func (TodoCompletedPayload) payloadType() Type { return TypeTodoCompleted }

// TodoUpdatedPayload accompanies TypeTodoUpdated.
type TodoUpdatedPayload struct {
	Actor     string `json:"actor,omitempty"`
	TodoTitle string `json:"todo_title,omitempty"`
}

func (TodoUpdatedPayload) payloadType() Type { return TypeTodoUpdated }

// CommentAddedPayload accompanies TypeCommentAdded.
type CommentAddedPayload struct {
	Actor     string `json:"actor,omitempty"`
	TodoTitle string `json:"todo_title,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

func (CommentAddedPayload) payloadType() Type { return TypeCommentAdded }

// SpaceInvitedPayload accompanies TypeSpaceInvited.
type SpaceInvitedPayload struct {
	Actor        string `json:"actor,omitempty"`
	SpaceName    string `json:"space_name,omitempty"`
	InviteeEmail string `json:"invitee_email,omitempty"`
}

func (SpaceInvitedPayload) payloadType() Type { return TypeSpaceInvited }

// MemberJoinedPayload accompanies TypeMemberJoined.
type MemberJoinedPayload struct {
	Actor     string `json:"actor,omitempty"`
	SpaceName string `json:"space_name,omitempty"`
}

func (MemberJoinedPayload) payloadType() Type { return TypeMemberJoined }

// DecodePayload decodes raw JSON into the payload variant matching t.
// Unknown types and empty payloads decode to nil without error, so a row
// written by a newer version of the application still renders with
// placeholder text.
func DecodePayload(t Type, raw json.RawMessage) (Payload, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	switch t {
	case TypeTodoAssigned:
		var p TodoAssignedPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case TypeTodoCompleted:
		var p TodoCompletedPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case TypeTodoUpdated:
		var p TodoUpdatedPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case TypeCommentAdded:
		var p CommentAddedPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case TypeSpaceInvited:
		var p SpaceInvitedPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case TypeMemberJoined:
		var p MemberJoinedPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, nil
	}
}

// EncodePayload encodes a payload variant to JSON. A nil payload encodes
// to nil so the data column stays NULL instead of storing "null".
func EncodePayload(p Payload) (json.RawMessage, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

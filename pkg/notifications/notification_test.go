package notifications_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidehq/tide/pkg/notifications"
)

func TestType_Valid(t *testing.T) {
	t.Parallel()

	valid := []notifications.Type{
		notifications.TypeTodoAssigned,
		notifications.TypeTodoCompleted,
		notifications.TypeTodoUpdated,
		notifications.TypeCommentAdded,
		notifications.TypeSpaceInvited,
		notifications.TypeMemberJoined,
	}
	for _, typ := range valid {
		assert.True(t, typ.Valid(), "expected %q to be valid", typ)
	}

	assert.False(t, notifications.Type("").Valid())
	assert.False(t, notifications.Type("todo_archived").Valid())
}

func TestType_Kinds(t *testing.T) {
	t.Parallel()

	t.Run("task kinds", func(t *testing.T) {
		for _, typ := range []notifications.Type{
			notifications.TypeTodoAssigned,
			notifications.TypeTodoCompleted,
			notifications.TypeTodoUpdated,
			notifications.TypeCommentAdded,
		} {
			assert.True(t, typ.IsTaskKind(), "%q", typ)
			assert.False(t, typ.IsSpaceKind(), "%q", typ)
		}
	})

	t.Run("space kinds", func(t *testing.T) {
		for _, typ := range []notifications.Type{
			notifications.TypeSpaceInvited,
			notifications.TypeMemberJoined,
		} {
			assert.True(t, typ.IsSpaceKind(), "%q", typ)
			assert.False(t, typ.IsTaskKind(), "%q", typ)
		}
	})
}

func TestNotification_MarkAsRead(t *testing.T) {
	t.Parallel()

	n := notifications.Notification{ID: "n1", UserID: "u1", Type: notifications.TypeTodoAssigned}
	require.False(t, n.Read)
	require.Nil(t, n.ReadAt)

	n.MarkAsRead()

	assert.True(t, n.Read)
	require.NotNil(t, n.ReadAt)
	assert.WithinDuration(t, time.Now(), *n.ReadAt, time.Second)
}

func TestNotification_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	t.Run("with payload", func(t *testing.T) {
		n := notifications.Notification{
			ID:     "n1",
			UserID: "u1",
			Type:   notifications.TypeCommentAdded,
			Data: notifications.CommentAddedPayload{
				Actor:     "alice",
				TodoTitle: "Ship the release",
				Comment:   "looks good",
			},
			CreatedAt: created,
			RelatedID: "todo-1",
			SpaceID:   "space-1",
		}

		raw, err := json.Marshal(n)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"comment":"looks good"`)

		var decoded notifications.Notification
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, n.ID, decoded.ID)
		assert.Equal(t, n.Type, decoded.Type)
		assert.Equal(t, n.Data, decoded.Data)
		assert.True(t, created.Equal(decoded.CreatedAt))
	})

	t.Run("nil payload stays nil", func(t *testing.T) {
		n := notifications.Notification{
			ID:        "n2",
			UserID:    "u1",
			Type:      notifications.TypeMemberJoined,
			CreatedAt: created,
		}

		raw, err := json.Marshal(n)
		require.NoError(t, err)

		var decoded notifications.Notification
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Nil(t, decoded.Data)
	})

	t.Run("unknown type decodes without payload", func(t *testing.T) {
		raw := []byte(`{"id":"n3","user_id":"u1","type":"todo_archived","data":{"actor":"bob"},"created_at":"2025-03-14T09:30:00Z"}`)

		var decoded notifications.Notification
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, notifications.Type("todo_archived"), decoded.Type)
		assert.Nil(t, decoded.Data)
	})
}

func TestDecodePayload(t *testing.T) {
	t.Parallel()

	t.Run("decodes matching variant", func(t *testing.T) {
		p, err := notifications.DecodePayload(notifications.TypeSpaceInvited,
			json.RawMessage(`{"actor":"alice","space_name":"Design","invitee_email":"bob@example.com"}`))
		require.NoError(t, err)
		require.IsType(t, notifications.SpaceInvitedPayload{}, p)
		assert.Equal(t, "bob@example.com", p.(notifications.SpaceInvitedPayload).InviteeEmail)
	})

	t.Run("empty and null are nil", func(t *testing.T) {
		for _, raw := range []json.RawMessage{nil, json.RawMessage("null")} {
			p, err := notifications.DecodePayload(notifications.TypeTodoAssigned, raw)
			require.NoError(t, err)
			assert.Nil(t, p)
		}
	})

	t.Run("unknown type is nil without error", func(t *testing.T) {
		p, err := notifications.DecodePayload(notifications.Type("mystery"), json.RawMessage(`{"a":1}`))
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("malformed json errors", func(t *testing.T) {
		_, err := notifications.DecodePayload(notifications.TypeTodoAssigned, json.RawMessage(`{`))
		assert.Error(t, err)
	})
}

func TestPreferences_PlaybackVolume(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		volume int
		want   float64
	}{
		{"default", 50, 0.5},
		{"full", 100, 1.0},
		{"muted", 0, 0.0},
		{"clamped high", 150, 1.0},
		{"clamped low", -10, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := notifications.Preferences{UserID: "u1", SoundVolume: tt.volume}
			assert.InDelta(t, tt.want, p.PlaybackVolume(), 1e-9)
		})
	}
}

func TestDefaultPreferences(t *testing.T) {
	t.Parallel()

	p := notifications.DefaultPreferences("u1")
	assert.Equal(t, "u1", p.UserID)
	assert.True(t, p.SoundEnabled)
	assert.True(t, p.BrowserEnabled)
	assert.Equal(t, 50, p.SoundVolume)
}

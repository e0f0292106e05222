package notifications_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidehq/tide/pkg/notifications"
)

func seedStorage(t *testing.T, storage *notifications.MemoryStorage) {
	t.Helper()

	base := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	rows := []notifications.Notification{
		{ID: "n1", UserID: "u1", Type: notifications.TypeTodoAssigned, CreatedAt: base, RelatedID: "todo-1"},
		{ID: "n2", UserID: "u1", Type: notifications.TypeCommentAdded, CreatedAt: base.Add(time.Minute), RelatedID: "todo-1"},
		{ID: "n3", UserID: "u1", Type: notifications.TypeSpaceInvited, CreatedAt: base.Add(2 * time.Minute), SpaceID: "space-1"},
		{ID: "x1", UserID: "u2", Type: notifications.TypeTodoAssigned, CreatedAt: base, RelatedID: "todo-9"},
	}
	for _, n := range rows {
		require.NoError(t, storage.Create(context.Background(), n))
	}
}

func TestMemoryStorage_Create(t *testing.T) {
	t.Parallel()

	storage := notifications.NewMemoryStorage()

	t.Run("requires id and user id", func(t *testing.T) {
		err := storage.Create(context.Background(), notifications.Notification{UserID: "u1"})
		assert.ErrorIs(t, err, notifications.ErrInvalidNotification)

		err = storage.Create(context.Background(), notifications.Notification{ID: "n1"})
		assert.ErrorIs(t, err, notifications.ErrInvalidNotification)
	})

	t.Run("defaults created at", func(t *testing.T) {
		require.NoError(t, storage.Create(context.Background(), notifications.Notification{
			ID: "n1", UserID: "u1", Type: notifications.TypeTodoAssigned,
		}))

		stored, err := storage.Get(context.Background(), "u1", "n1")
		require.NoError(t, err)
		assert.False(t, stored.CreatedAt.IsZero())
	})
}

func TestMemoryStorage_List(t *testing.T) {
	t.Parallel()

	storage := notifications.NewMemoryStorage()
	seedStorage(t, storage)

	t.Run("newest first and user scoped", func(t *testing.T) {
		list, err := storage.List(context.Background(), "u1", notifications.ListOptions{})
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "n3", list[0].ID)
		assert.Equal(t, "n1", list[2].ID)
	})

	t.Run("only unread", func(t *testing.T) {
		require.NoError(t, storage.MarkRead(context.Background(), "u1", "n2"))

		list, err := storage.List(context.Background(), "u1", notifications.ListOptions{OnlyUnread: true})
		require.NoError(t, err)
		require.Len(t, list, 2)
		for _, n := range list {
			assert.False(t, n.Read)
		}
	})

	t.Run("type filter", func(t *testing.T) {
		list, err := storage.List(context.Background(), "u1", notifications.ListOptions{
			Types: []notifications.Type{notifications.TypeSpaceInvited},
		})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "n3", list[0].ID)
	})

	t.Run("since filter", func(t *testing.T) {
		since := time.Date(2025, 3, 14, 10, 1, 0, 0, time.UTC)
		list, err := storage.List(context.Background(), "u1", notifications.ListOptions{Since: &since})
		require.NoError(t, err)
		require.Len(t, list, 2)
	})

	t.Run("pagination", func(t *testing.T) {
		list, err := storage.List(context.Background(), "u1", notifications.ListOptions{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "n2", list[0].ID)

		list, err = storage.List(context.Background(), "u1", notifications.ListOptions{Offset: 99})
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestMemoryStorage_MarkAllRead(t *testing.T) {
	t.Parallel()

	storage := notifications.NewMemoryStorage()
	seedStorage(t, storage)

	affected, err := storage.MarkAllRead(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, affected)

	count, err := storage.CountUnread(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Other users untouched.
	count, err = storage.CountUnread(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Second run affects nothing.
	affected, err = storage.MarkAllRead(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, affected)
}

func TestMemoryStorage_BulkUpdate(t *testing.T) {
	t.Parallel()

	t.Run("read counts only flipped rows", func(t *testing.T) {
		storage := notifications.NewMemoryStorage()
		seedStorage(t, storage)
		require.NoError(t, storage.MarkRead(context.Background(), "u1", "n1"))

		affected, err := storage.BulkUpdate(context.Background(), "u1",
			notifications.BulkActionRead, []string{"n1", "n2", "n3"})
		require.NoError(t, err)
		assert.Equal(t, 2, affected)
	})

	t.Run("delete removes matching rows", func(t *testing.T) {
		storage := notifications.NewMemoryStorage()
		seedStorage(t, storage)

		affected, err := storage.BulkUpdate(context.Background(), "u1",
			notifications.BulkActionDelete, []string{"n1", "n3", "missing"})
		require.NoError(t, err)
		assert.Equal(t, 2, affected)

		list, err := storage.List(context.Background(), "u1", notifications.ListOptions{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "n2", list[0].ID)
	})

	t.Run("unknown action", func(t *testing.T) {
		storage := notifications.NewMemoryStorage()
		_, err := storage.BulkUpdate(context.Background(), "u1",
			notifications.BulkAction("archive"), []string{"n1"})
		assert.ErrorIs(t, err, notifications.ErrUnknownBulkAction)
	})
}

func TestMemoryStorage_MarkRead(t *testing.T) {
	t.Parallel()

	storage := notifications.NewMemoryStorage()
	seedStorage(t, storage)

	t.Run("marking twice keeps resolving", func(t *testing.T) {
		require.NoError(t, storage.MarkRead(context.Background(), "u1", "n1"))
		require.NoError(t, storage.MarkRead(context.Background(), "u1", "n1"))
	})

	t.Run("unknown id", func(t *testing.T) {
		err := storage.MarkRead(context.Background(), "u1", "ghost")
		assert.ErrorIs(t, err, notifications.ErrNotificationNotFound)
	})

	t.Run("cross-user id", func(t *testing.T) {
		err := storage.MarkRead(context.Background(), "u1", "x1")
		assert.ErrorIs(t, err, notifications.ErrNotificationNotFound)
	})
}

func TestMemoryStorage_Delete(t *testing.T) {
	t.Parallel()

	storage := notifications.NewMemoryStorage()
	seedStorage(t, storage)

	require.NoError(t, storage.Delete(context.Background(), "u1", "n1", "n2"))

	list, err := storage.List(context.Background(), "u1", notifications.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	t.Run("unknown id", func(t *testing.T) {
		err := storage.Delete(context.Background(), "u1", "ghost")
		assert.ErrorIs(t, err, notifications.ErrNotificationNotFound)
	})

	t.Run("cross-user id reports not found and leaves the row", func(t *testing.T) {
		err := storage.Delete(context.Background(), "u1", "x1")
		assert.ErrorIs(t, err, notifications.ErrNotificationNotFound)

		_, err = storage.Get(context.Background(), "u2", "x1")
		assert.NoError(t, err)
	})
}

func TestMemoryStorage_Preferences(t *testing.T) {
	t.Parallel()

	storage := notifications.NewMemoryStorage()

	t.Run("defaults when never saved", func(t *testing.T) {
		prefs, err := storage.GetPreferences(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, notifications.DefaultPreferences("u1"), prefs)
	})

	t.Run("upsert round trip", func(t *testing.T) {
		saved := notifications.Preferences{UserID: "u1", SoundEnabled: false, BrowserEnabled: true, SoundVolume: 80}
		require.NoError(t, storage.SavePreferences(context.Background(), saved))

		prefs, err := storage.GetPreferences(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, saved, prefs)

		saved.SoundVolume = 20
		require.NoError(t, storage.SavePreferences(context.Background(), saved))
		prefs, err = storage.GetPreferences(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, 20, prefs.SoundVolume)
	})

	t.Run("requires user id", func(t *testing.T) {
		err := storage.SavePreferences(context.Background(), notifications.Preferences{})
		assert.ErrorIs(t, err, notifications.ErrInvalidNotification)
	})
}

package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tidehq/tide/pkg/pg"
)

// PostgresStorage implements Storage and PreferencesStorage on top of the
// notifications and notification_preferences tables (see migrations/).
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a Postgres-backed notification storage.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

const notificationColumns = "id, user_id, type, data, is_read, read_at, created_at, related_id, space_id"

func (s *PostgresStorage) Create(ctx context.Context, notif Notification) error {
	if notif.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidNotification)
	}
	if notif.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidNotification)
	}
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = time.Now()
	}

	data, err := EncodePayload(notif.Data)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, data, is_read, read_at, created_at, related_id, space_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''))`,
		notif.ID, notif.UserID, string(notif.Type), data, notif.Read, notif.ReadAt,
		notif.CreatedAt, notif.RelatedID, notif.SpaceID,
	)
	if err != nil {
		// Redelivery of an already stored notification id is a no-op.
		if pg.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Get(ctx context.Context, userID, notifID string) (*Notification, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+notificationColumns+" FROM notifications WHERE user_id = $1 AND id = $2",
		userID, notifID,
	)

	notif, err := scanNotification(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return notif, nil
}

func (s *PostgresStorage) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	var sb strings.Builder
	sb.WriteString("SELECT " + notificationColumns + " FROM notifications WHERE user_id = $1")
	args := []any{userID}

	if opts.OnlyUnread {
		sb.WriteString(" AND is_read = false")
	}
	if len(opts.Types) > 0 {
		types := make([]string, len(opts.Types))
		for i, t := range opts.Types {
			types[i] = string(t)
		}
		args = append(args, types)
		fmt.Fprintf(&sb, " AND type = ANY($%d)", len(args))
	}
	if opts.Since != nil {
		args = append(args, *opts.Since)
		fmt.Fprintf(&sb, " AND created_at > $%d", len(args))
	}

	sb.WriteString(" ORDER BY created_at DESC")

	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	result := []Notification{}
	for rows.Next() {
		notif, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		result = append(result, *notif)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return result, nil
}

func (s *PostgresStorage) MarkRead(ctx context.Context, userID string, notifIDs ...string) error {
	if len(notifIDs) == 0 {
		return nil
	}
	// COALESCE keeps the original read_at when a row is marked twice, and
	// already-read rows still count as matched instead of reporting not
	// found.
	tag, err := s.pool.Exec(ctx, `
		UPDATE notifications SET is_read = true, read_at = COALESCE(read_at, now())
		WHERE user_id = $1 AND id = ANY($2)`,
		userID, notifIDs,
	)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *PostgresStorage) MarkAllRead(ctx context.Context, userID string) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE notifications SET is_read = true, read_at = now()
		WHERE user_id = $1 AND is_read = false`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStorage) BulkUpdate(ctx context.Context, userID string, action BulkAction, notifIDs []string) (int, error) {
	if len(notifIDs) == 0 {
		return 0, nil
	}

	switch action {
	case BulkActionRead:
		tag, err := s.pool.Exec(ctx, `
			UPDATE notifications SET is_read = true, read_at = now()
			WHERE user_id = $1 AND id = ANY($2) AND is_read = false`,
			userID, notifIDs,
		)
		if err != nil {
			return 0, fmt.Errorf("bulk read: %w", err)
		}
		return int(tag.RowsAffected()), nil
	case BulkActionDelete:
		tag, err := s.pool.Exec(ctx,
			"DELETE FROM notifications WHERE user_id = $1 AND id = ANY($2)",
			userID, notifIDs,
		)
		if err != nil {
			return 0, fmt.Errorf("bulk delete: %w", err)
		}
		return int(tag.RowsAffected()), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBulkAction, action)
	}
}

func (s *PostgresStorage) Delete(ctx context.Context, userID string, notifIDs ...string) error {
	if len(notifIDs) == 0 {
		return nil
	}
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM notifications WHERE user_id = $1 AND id = ANY($2)",
		userID, notifIDs,
	)
	if err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *PostgresStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		"SELECT count(*) FROM notifications WHERE user_id = $1 AND is_read = false",
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

func (s *PostgresStorage) GetPreferences(ctx context.Context, userID string) (Preferences, error) {
	prefs := Preferences{UserID: userID}
	err := s.pool.QueryRow(ctx, `
		SELECT sound_enabled, browser_enabled, sound_volume
		FROM notification_preferences WHERE user_id = $1`,
		userID,
	).Scan(&prefs.SoundEnabled, &prefs.BrowserEnabled, &prefs.SoundVolume)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return DefaultPreferences(userID), nil
		}
		return Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	return prefs, nil
}

func (s *PostgresStorage) SavePreferences(ctx context.Context, prefs Preferences) error {
	if prefs.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidNotification)
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO notification_preferences (user_id, sound_enabled, browser_enabled, sound_volume)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			sound_enabled = EXCLUDED.sound_enabled,
			browser_enabled = EXCLUDED.browser_enabled,
			sound_volume = EXCLUDED.sound_volume,
			updated_at = now()`,
		prefs.UserID, prefs.SoundEnabled, prefs.BrowserEnabled, prefs.SoundVolume,
	)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func scanNotification(row pgx.Row) (*Notification, error) {
	var (
		notif     Notification
		typ       string
		data      []byte
		relatedID *string
		spaceID   *string
	)
	if err := row.Scan(&notif.ID, &notif.UserID, &typ, &data, &notif.Read,
		&notif.ReadAt, &notif.CreatedAt, &relatedID, &spaceID); err != nil {
		return nil, err
	}

	notif.Type = Type(typ)
	if relatedID != nil {
		notif.RelatedID = *relatedID
	}
	if spaceID != nil {
		notif.SpaceID = *spaceID
	}

	payload, err := DecodePayload(notif.Type, json.RawMessage(data))
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	notif.Data = payload

	return &notif, nil
}

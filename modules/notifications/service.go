package notifications

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tidehq/tide/pkg/alert"
	"github.com/tidehq/tide/pkg/feed"
	"github.com/tidehq/tide/pkg/logger"
	"github.com/tidehq/tide/pkg/notifications"
)

// SendParams describes a notification to be created and delivered.
type SendParams struct {
	UserID    string
	Type      notifications.Type
	Data      notifications.Payload
	RelatedID string
	SpaceID   string
}

// Validate checks the minimum a notification needs before it is stored.
func (p SendParams) Validate() error {
	if p.UserID == "" || !p.Type.Valid() {
		return notifications.ErrInvalidNotification
	}
	return nil
}

// Service owns the write path of the notification pipeline: persist a new
// notification, fan it out to live subscribers, and trigger best-effort
// alerting. Read paths go through Storage directly from the HTTP handlers.
type Service struct {
	storage    notifications.Storage
	feed       feed.Feed
	dispatcher *alert.Dispatcher
	log        *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithFeed attaches a real-time fan-out channel for new notifications.
func WithFeed(f feed.Feed) ServiceOption {
	return func(s *Service) { s.feed = f }
}

// WithDispatcher attaches the alert dispatcher (sound, platform
// notifications, invite email).
func WithDispatcher(d *alert.Dispatcher) ServiceOption {
	return func(s *Service) { s.dispatcher = d }
}

// WithServiceLogger sets the logger for the Service.
func WithServiceLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates the notification pipeline service. Feed and
// dispatcher are optional; without them Send only persists.
func NewService(storage notifications.Storage, opts ...ServiceOption) *Service {
	s := &Service{
		storage: storage,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send creates a notification, stores it, and delivers it. Storage failure
// aborts the send; fan-out and alerting failures are logged and swallowed
// so a flaky subscriber can never lose a persisted notification.
func (s *Service) Send(ctx context.Context, params SendParams) (notifications.Notification, error) {
	if err := params.Validate(); err != nil {
		return notifications.Notification{}, err
	}

	n := notifications.Notification{
		ID:        uuid.NewString(),
		UserID:    params.UserID,
		Type:      params.Type,
		Data:      params.Data,
		CreatedAt: time.Now().UTC(),
		RelatedID: params.RelatedID,
		SpaceID:   params.SpaceID,
	}

	if err := s.storage.Create(ctx, n); err != nil {
		return notifications.Notification{}, errors.Join(ErrSendFailed, err)
	}

	if s.feed != nil {
		if err := s.feed.Publish(ctx, n); err != nil {
			s.log.WarnContext(ctx, "notification fan-out failed",
				logger.Component("notifications"),
				logger.NotificationID(n.ID),
				logger.UserID(n.UserID),
				logger.Error(err),
			)
		}
	}

	if s.dispatcher != nil {
		s.dispatcher.Notify(ctx, n)
	}

	s.log.InfoContext(ctx, "notification sent",
		logger.Component("notifications"),
		logger.NotificationID(n.ID),
		logger.UserID(n.UserID),
		logger.EventType(string(n.Type)),
	)

	return n, nil
}

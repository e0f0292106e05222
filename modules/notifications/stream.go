package notifications

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tidehq/tide/pkg/auth"
	"github.com/tidehq/tide/pkg/feed"
	"github.com/tidehq/tide/pkg/logger"
	"github.com/tidehq/tide/pkg/notifications"
)

const (
	sseKeepAliveInterval = 25 * time.Second

	// sseWriteWait bounds a single event write. The deadline is re-armed
	// before every write, so an active stream outlives any server-wide
	// write timeout while a stalled client still gets disconnected.
	sseWriteWait = 10 * time.Second
)

// streamHandlers serves the live notification endpoints: server-sent
// events for browsers and WebSocket for native clients.
type streamHandlers struct {
	feed      feed.Feed
	presenter *notifications.Presenter
	log       *slog.Logger
}

// sse streams the caller's notifications as server-sent events. Each
// event carries the rendered notification; a comment line is emitted
// periodically to keep intermediaries from closing the connection.
func (s *streamHandlers) sse(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, ErrStreamingUnsupported)
		return
	}

	sub, err := s.feed.Subscribe(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrStreamingUnsupported)
		return
	}
	defer func() { _ = sub.Close() }()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// The connection inherits the server's write deadline, which would cut
	// the stream mid-flight. Replace it with a fresh per-write deadline.
	rc := http.NewResponseController(w)
	write := func(p []byte) error {
		_ = rc.SetWriteDeadline(time.Now().Add(sseWriteWait))
		_, err := w.Write(p)
		return err
	}

	keepAlive := time.NewTicker(sseKeepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			if err := write([]byte(": keep-alive\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case n, ok := <-sub.Events():
			if !ok {
				return
			}
			data, err := json.Marshal(renderNotification(s.presenter, n))
			if err != nil {
				s.log.ErrorContext(r.Context(), "failed to encode notification event",
					logger.Component("notifications"),
					logger.NotificationID(n.ID),
					logger.Error(err),
				)
				continue
			}
			if err := write([]byte("event: notification\ndata: ")); err != nil {
				return
			}
			if err := write(data); err != nil {
				return
			}
			if err := write([]byte("\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

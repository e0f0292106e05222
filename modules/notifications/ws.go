package notifications

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tidehq/tide/pkg/auth"
	"github.com/tidehq/tide/pkg/feed"
	"github.com/tidehq/tide/pkg/logger"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// websocket streams the caller's notifications over a WebSocket. Inbound
// frames are read only to service pongs and detect closes.
func (s *streamHandlers) websocket(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	sub, err := s.feed.Subscribe(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		_ = sub.Close()
		return
	}

	go s.wsWritePump(conn, sub)
	wsReadPump(conn, sub)
}

// wsWritePump copies rendered notifications from the subscription to the
// connection and keeps it alive with periodic pings.
func (s *streamHandlers) wsWritePump(conn *websocket.Conn, sub feed.Subscription) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case n, ok := <-sub.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			data, err := json.Marshal(renderNotification(s.presenter, n))
			if err != nil {
				s.log.Error("failed to encode notification frame",
					logger.Component("notifications"),
					logger.NotificationID(n.ID),
					logger.Error(err),
				)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// wsReadPump drains the connection until it closes, then ends the
// subscription so the write pump unblocks.
func wsReadPump(conn *websocket.Conn, sub feed.Subscription) {
	defer func() { _ = sub.Close() }()

	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	conn.SetReadLimit(512)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

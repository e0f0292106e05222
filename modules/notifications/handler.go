package notifications

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidehq/tide/pkg/auth"
	"github.com/tidehq/tide/pkg/logger"
	"github.com/tidehq/tide/pkg/notifications"
)

// notificationView is the wire shape of a single notification, combining
// the stored row with its rendered presentation.
type notificationView struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	Target    string     `json:"target"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	RelatedID string     `json:"related_id,omitempty"`
	SpaceID   string     `json:"space_id,omitempty"`
}

// groupView is the wire shape of one rendered notification group.
type groupView struct {
	Key       string             `json:"key"`
	Kind      string             `json:"kind"`
	Title     string             `json:"title"`
	Summary   string             `json:"summary,omitempty"`
	Unread    int                `json:"unread"`
	LatestAt  time.Time          `json:"latest_at"`
	DayBucket string             `json:"day_bucket"`
	Members   []notificationView `json:"members"`
}

func renderNotification(pr *notifications.Presenter, n notifications.Notification) notificationView {
	return notificationView{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     pr.Title(n),
		Body:      pr.Body(n),
		Target:    pr.Target(n),
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
		RelatedID: n.RelatedID,
		SpaceID:   n.SpaceID,
	}
}

func renderGroup(pr *notifications.Presenter, g notifications.Group, now time.Time) groupView {
	members := make([]notificationView, 0, len(g.Members))
	for _, n := range g.Members {
		members = append(members, renderNotification(pr, n))
	}
	latest := g.LatestAt()
	return groupView{
		Key:       g.Key,
		Kind:      string(g.Kind),
		Title:     g.Title,
		Summary:   g.Summary(pr),
		Unread:    g.UnreadCount(),
		LatestAt:  latest,
		DayBucket: pr.DayBucket(latest, now),
		Members:   members,
	}
}

// handlers carries the dependencies shared by every HTTP endpoint of the
// notifications module.
type handlers struct {
	storage   notifications.Storage
	prefs     notifications.PreferencesStorage
	service   *Service
	presenter *notifications.Presenter
	log       *slog.Logger
}

type createRequest struct {
	UserID    string             `json:"user_id"`
	Type      notifications.Type `json:"type"`
	Data      json.RawMessage    `json:"data,omitempty"`
	RelatedID string             `json:"related_id,omitempty"`
	SpaceID   string             `json:"space_id,omitempty"`
}

// create lets in-app producers raise a notification for any user. The
// recipient defaults to the caller when user_id is omitted.
func (s *handlers) create(w http.ResponseWriter, r *http.Request) {
	callerID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.UserID == "" {
		req.UserID = callerID
	}

	data, err := notifications.DecodePayload(req.Type, req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	n, err := s.service.Send(r.Context(), SendParams{
		UserID:    req.UserID,
		Type:      req.Type,
		Data:      data,
		RelatedID: req.RelatedID,
		SpaceID:   req.SpaceID,
	})
	if err != nil {
		if errors.Is(err, notifications.ErrInvalidNotification) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.serverError(w, r, "failed to create notification", err)
		return
	}
	writeJSON(w, http.StatusCreated, renderNotification(s.presenter, n))
}

func (s *handlers) list(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	opts, err := parseListOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	notifs, err := s.storage.List(r.Context(), userID, opts)
	if err != nil {
		s.serverError(w, r, "failed to list notifications", err)
		return
	}

	if parseBool(r.URL.Query().Get("grouped")) {
		now := time.Now().UTC()
		groups := notifications.GroupNotifications(notifs, now, s.presenter)
		views := make([]groupView, 0, len(groups))
		for _, g := range groups {
			views = append(views, renderGroup(s.presenter, g, now))
		}
		writeJSON(w, http.StatusOK, map[string]any{"groups": views})
		return
	}

	views := make([]notificationView, 0, len(notifs))
	for _, n := range notifs {
		views = append(views, renderNotification(s.presenter, n))
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": views})
}

func (s *handlers) unreadCount(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	count, err := s.storage.CountUnread(r.Context(), userID)
	if err != nil {
		s.serverError(w, r, "failed to count unread notifications", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (s *handlers) markRead(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	id := pathID(r)
	if err := s.storage.MarkRead(r.Context(), userID, id); err != nil {
		if errors.Is(err, notifications.ErrNotificationNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		s.serverError(w, r, "failed to mark notification read", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *handlers) markAllRead(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	updated, err := s.storage.MarkAllRead(r.Context(), userID)
	if err != nil {
		s.serverError(w, r, "failed to mark all notifications read", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

type bulkRequest struct {
	Action notifications.BulkAction `json:"action"`
	IDs    []string                 `json:"ids"`
}

func (s *handlers) bulk(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !req.Action.Valid() {
		writeError(w, http.StatusBadRequest, notifications.ErrUnknownBulkAction)
		return
	}

	affected, err := s.storage.BulkUpdate(r.Context(), userID, req.Action, req.IDs)
	if err != nil {
		s.serverError(w, r, "failed to apply bulk action", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"affected": affected})
}

func (s *handlers) remove(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	id := pathID(r)
	if err := s.storage.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, notifications.ErrNotificationNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		s.serverError(w, r, "failed to delete notification", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *handlers) getPreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	prefs, err := s.prefs.GetPreferences(r.Context(), userID)
	if err != nil {
		s.serverError(w, r, "failed to load preferences", err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

type preferencesRequest struct {
	SoundEnabled   bool `json:"sound_enabled"`
	BrowserEnabled bool `json:"browser_enabled"`
	SoundVolume    int  `json:"sound_volume"`
}

func (s *handlers) savePreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	var req preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.SoundVolume < 0 || req.SoundVolume > 100 {
		writeError(w, http.StatusBadRequest, errors.New("sound_volume must be between 0 and 100"))
		return
	}

	prefs := notifications.Preferences{
		UserID:         userID,
		SoundEnabled:   req.SoundEnabled,
		BrowserEnabled: req.BrowserEnabled,
		SoundVolume:    req.SoundVolume,
	}
	if err := s.prefs.SavePreferences(r.Context(), prefs); err != nil {
		s.serverError(w, r, "failed to save preferences", err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *handlers) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.log.ErrorContext(r.Context(), msg,
		logger.Component("notifications"),
		logger.Error(err),
	)
	writeError(w, http.StatusInternalServerError, errors.New("internal server error"))
}

func parseListOptions(r *http.Request) (notifications.ListOptions, error) {
	q := r.URL.Query()
	var opts notifications.ListOptions

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return opts, errors.New("invalid limit")
		}
		opts.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return opts, errors.New("invalid offset")
		}
		opts.Offset = offset
	}
	opts.OnlyUnread = parseBool(q.Get("unread"))
	if v := q.Get("types"); v != "" {
		for _, raw := range strings.Split(v, ",") {
			t := notifications.Type(strings.TrimSpace(raw))
			if !t.Valid() {
				return opts, errors.New("unknown notification type: " + string(t))
			}
			opts.Types = append(opts.Types, t)
		}
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return opts, errors.New("since must be RFC3339")
		}
		opts.Since = &since
	}
	return opts, nil
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

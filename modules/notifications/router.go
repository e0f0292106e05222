package notifications

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tidehq/tide/pkg/auth"
	"github.com/tidehq/tide/pkg/feed"
	"github.com/tidehq/tide/pkg/notifications"
	"golang.org/x/text/language"
)

// RouterOptions configures the notification module's HTTP surface. Storage
// and Preferences are required; Feed enables the /stream and /ws endpoints.
type RouterOptions struct {
	Storage     notifications.Storage
	Preferences notifications.PreferencesStorage
	Feed        feed.Feed
	Service     *Service // enables POST / for producers
	Language    language.Tag
	Logger      *slog.Logger
}

// Router builds the notification module router. Every route requires an
// authenticated user.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/notifications", notifications.Router(notifications.RouterOptions{
//	    Storage:     store,
//	    Preferences: store,
//	    Feed:        fanout,
//	}))
func Router(opts RouterOptions) chi.Router {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	lang := opts.Language
	if lang == language.Und {
		lang = language.English
	}

	h := &handlers{
		storage:   opts.Storage,
		prefs:     opts.Preferences,
		service:   opts.Service,
		presenter: notifications.NewPresenter(lang),
		log:       log,
	}

	r := chi.NewRouter()
	r.Use(auth.RequireUser)

	r.Get("/", h.list)
	if opts.Service != nil {
		r.Post("/", h.create)
	}
	r.Get("/unread-count", h.unreadCount)
	r.Post("/read-all", h.markAllRead)
	r.Post("/bulk", h.bulk)
	r.Post("/{id}/read", h.markRead)
	r.Delete("/{id}", h.remove)

	r.Get("/preferences", h.getPreferences)
	r.Put("/preferences", h.savePreferences)

	if opts.Feed != nil {
		stream := &streamHandlers{feed: opts.Feed, presenter: h.presenter, log: log}
		r.Get("/stream", stream.sse)
		r.Get("/ws", stream.websocket)
	}

	return r
}

func pathID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

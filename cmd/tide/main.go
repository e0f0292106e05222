package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/language"

	"github.com/tidehq/tide/modules/notifications"
	"github.com/tidehq/tide/pkg/alert"
	"github.com/tidehq/tide/pkg/config"
	"github.com/tidehq/tide/pkg/email"
	"github.com/tidehq/tide/pkg/feed"
	"github.com/tidehq/tide/pkg/httpserver"
	"github.com/tidehq/tide/pkg/logger"
	notifstore "github.com/tidehq/tide/pkg/notifications"
	"github.com/tidehq/tide/pkg/pg"
	"github.com/tidehq/tide/pkg/redis"
)

type appConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	FeedBackend string `env:"FEED_BACKEND" envDefault:"memory"` // memory or redis
	FeedBuffer  int    `env:"FEED_BUFFER" envDefault:"16"`
	HTTP        httpserver.Config
	DB          pg.Config
	Redis       redis.Config
	Email       email.Config
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithEnvironment(cfg.Environment, "tide"),
	)
	logger.SetAsDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.ErrorContext(ctx, "tide exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.DB, log); err != nil {
		return err
	}

	store := notifstore.NewPostgresStorage(pool)

	var fanout feed.Feed
	healthChecks := []func(context.Context) error{pg.Healthcheck(pool)}
	if cfg.FeedBackend == "redis" {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		fanout = feed.NewRedisFeed(client, cfg.FeedBuffer, feed.WithRedisFeedLogger(log))
		healthChecks = append(healthChecks, redis.Healthcheck(client))
	} else {
		fanout = feed.NewMemoryFeed(cfg.FeedBuffer)
	}
	defer func() { _ = fanout.Close() }()

	sender, err := email.NewPostmarkClient(cfg.Email)
	if err != nil {
		log.WarnContext(ctx, "postmark not configured, using dev email sender", logger.Error(err))
		sender = email.NewDevSender(log)
	}

	presenter := notifstore.NewPresenter(language.English)
	dispatcher := alert.NewDispatcher(store,
		alert.WithEmailSink(alert.NewEmailSink(sender, presenter, log)),
		alert.WithDispatcherLogger(log),
	)

	svc := notifications.NewService(store,
		notifications.WithFeed(fanout),
		notifications.WithDispatcher(dispatcher),
		notifications.WithServiceLogger(log),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(ctx, log))
	r.Get("/ready", httpserver.HealthCheckHandler(ctx, log, healthChecks...))

	r.Mount("/notifications", notifications.Router(notifications.RouterOptions{
		Storage:     store,
		Preferences: store,
		Feed:        fanout,
		Service:     svc,
		Language:    language.English,
		Logger:      log,
	}))

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

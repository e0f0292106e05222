// Package logger provides a factory for configured log/slog loggers plus
// typed attribute helpers used across the tide services.
//
// Basic usage:
//
//	log := logger.New(logger.WithEnvironment(cfg.Env, "tide"))
//	logger.SetAsDefault(log)
//
//	log.Info("notification delivered",
//		logger.UserID(userID),
//		logger.NotificationID(notifID),
//	)
//
// The factory defaults to JSON output at INFO level, which is safe for
// production log aggregation. WithDevelopment switches to human-readable
// text output at DEBUG level.
package logger

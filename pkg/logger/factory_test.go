package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidehq/tide/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))
		log.Info("hello", slog.String("k", "v"))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "v", record["k"])
	})

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatText))
		log.Info("hello")

		assert.True(t, strings.Contains(buf.String(), "msg=hello"))
	})

	t.Run("level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))

		log.Info("dropped")
		assert.Empty(t, buf.String())

		log.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("static attrs on every record", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithAttr(slog.String("service", "tide")))
		log.Info("hello")

		assert.Contains(t, buf.String(), `"service":"tide"`)
	})

	t.Run("invalid format panics", func(t *testing.T) {
		assert.Panics(t, func() {
			logger.New(logger.WithFormat(logger.Format("xml")))
		})
	})

	t.Run("environment presets", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithEnvironment("production", "tide"), logger.WithOutput(&buf))
		log.Info("hello")
		assert.Contains(t, buf.String(), `"env":"production"`)

		buf.Reset()
		log = logger.New(logger.WithEnvironment("development", "tide"), logger.WithOutput(&buf))
		log.Debug("verbose")
		assert.Contains(t, buf.String(), "verbose")
	})
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	t.Run("error attr", func(t *testing.T) {
		attr := logger.Error(errors.New("boom"))
		assert.Equal(t, "error", attr.Key)

		assert.Equal(t, slog.Attr{}, logger.Error(nil))
	})

	t.Run("id attrs", func(t *testing.T) {
		assert.Equal(t, "user_id", logger.UserID("u1").Key)
		assert.Equal(t, "space_id", logger.SpaceID("s1").Key)
		assert.Equal(t, "notification_id", logger.NotificationID("n1").Key)
		assert.Equal(t, slog.Attr{}, logger.UserID(nil))
	})

	t.Run("attrs render through a handler", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))
		log.LogAttrs(context.Background(), slog.LevelInfo, "evt",
			logger.Component("feed"),
			logger.EventType("comment_added"),
			logger.UserID("u1"),
		)

		out := buf.String()
		assert.Contains(t, out, `"component":"feed"`)
		assert.Contains(t, out, `"event_type":"comment_added"`)
		assert.Contains(t, out, `"user_id":"u1"`)
	})
}

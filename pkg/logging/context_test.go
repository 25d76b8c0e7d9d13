package logging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/netorganizer/netorg/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("falls back to default", func(t *testing.T) {
		assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	})

	t.Run("returns stored logger", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		assert.Same(t, tl.Logger, logging.Ctx(ctx))
	})
}

func TestWithRunID(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	t.Run("generates id", func(t *testing.T) {
		runCtx := logging.WithRunID(ctx, "")
		id := logging.RunID(runCtx)
		_, err := uuid.Parse(id)
		require.NoError(t, err)

		logging.Ctx(runCtx).Info().Msg("organizing")
		tl.AssertContains(t, `"run_id":"`+id+`"`)
	})

	t.Run("keeps given id", func(t *testing.T) {
		runCtx := logging.WithRunID(ctx, "run-1")
		assert.Equal(t, "run-1", logging.RunID(runCtx))
	})

	assert.Empty(t, logging.RunID(context.Background()))
}

func TestFieldHelpers(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	ctx = logging.WithMAC(ctx, "aa:bb:cc:dd:ee:ff")
	ctx = logging.WithGroup(ctx, "Cameras")
	ctx = logging.WithSource(ctx, "active_clients")
	ctx = logging.WithOperation(ctx, "push")
	ctx = logging.WithError(ctx, errors.New("boom"))
	ctx = logging.WithFields(ctx, map[string]any{"ips": []string{"10.0.0.2"}, "count": 2})

	logging.Ctx(ctx).Warn().Msg("check")

	for _, want := range []string{
		`"mac":"aa:bb:cc:dd:ee:ff"`,
		`"group":"Cameras"`,
		`"source":"active_clients"`,
		`"operation":"push"`,
		`"error":"boom"`,
		`"ips":["10.0.0.2"]`,
		`"count":2`,
		`"level":"warn"`,
	} {
		tl.AssertContains(t, want)
	}

	assert.Equal(t, ctx, logging.WithError(ctx, nil))
}

func TestNewLoggerFromConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.Output = "discard"
	cfg.Level = "warning"
	cfg.Fields = map[string]any{"component": "test"}

	logger := logging.NewLoggerFromConfig(cfg)
	assert.Equal(t, "warn", logger.GetLevel().String())

	cfg.Level = "bogus"
	logger = logging.NewLoggerFromConfig(cfg)
	assert.Equal(t, "info", logger.GetLevel().String())
}

func TestCaptureLoggingForTest(t *testing.T) {
	tl := logging.CaptureLoggingForTest(t)
	logging.Warn().Str("mac", "aa:aa").Msg("lease kept")
	ev, ok := tl.Event("lease kept")
	assert.True(t, ok)
	assert.Equal(t, "aa:aa", ev["mac"])
	assert.Equal(t, "warn", ev["level"])
	assert.Len(t, tl.Events(), 1)
}

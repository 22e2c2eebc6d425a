package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/alekit/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	original := *logging.Default()
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(original)
		zerolog.SetGlobalLevel(originalLevel)
	})

	buf := &bytes.Buffer{}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logging.SetDefault(zerolog.New(buf).Level(zerolog.InfoLevel))

	logging.Default().Debug().Msg("debug message")
	logging.Default().Info().Msg("info message")
	logging.Default().Warn().Msg("warn message")
	logging.Default().Err(assert.AnError).Msg("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, assert.AnError.Error())
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithDocument(ctx, "A001.ale")
	ctx = logging.WithMacro(ctx, "Avid cleanup")
	ctx = logging.WithOperation(ctx, "run")

	logging.FromContext(ctx).Info().Msg("rule applied")

	testLogger.AssertContains(t, `"document":"A001.ale"`)
	testLogger.AssertContains(t, `"macro":"Avid cleanup"`)
	testLogger.AssertContains(t, `"operation":"run"`)
	testLogger.AssertContains(t, "rule applied")
	assert.Equal(t, 1, testLogger.Count())
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	//nolint:staticcheck // nil context is exercised on purpose
	assert.Equal(t, logging.Default(), logging.FromContext(nil))
	assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
}

func TestForDocument(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	logging.ForDocument(testLogger.Logger, "B002.ale").Warn().Msg("column missing")
	testLogger.AssertContains(t, `"document":"B002.ale"`)
	testLogger.AssertContains(t, `"level":"warn"`)

	assert.NotNil(t, logging.ForDocument(nil, "x"))
}

func TestConfigFunctions(t *testing.T) {
	original := *logging.Default()
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(original)
		zerolog.SetGlobalLevel(originalLevel)
	})

	t.Run("DefaultConfig returns sensible defaults", func(t *testing.T) {
		cfg := logging.DefaultConfig()
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "auto", cfg.Format)
		assert.Equal(t, "stderr", cfg.Output)
		assert.False(t, cfg.AddCaller)
	})

	t.Run("file output filters by level", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "alekit.log")
		logging.Configure(&logging.Config{Level: "warn", Format: "json", Output: path})

		logging.Default().Info().Msg("info message")
		logging.Default().Warn().Msg("warn message")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(content), "info message")
		assert.Contains(t, string(content), "warn message")
	})

	t.Run("console format to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "console.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "info", Format: "console", Output: path, NoColor: true})
		logger.Info().Str("document", "A001.ale").Msg("console test")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "console test")
		assert.Contains(t, string(content), "INF")
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		assert.NotPanics(t, func() {
			_ = logging.NewLoggerFromConfig(nil)
		})
	})
}

func TestDisableLoggingForTest(t *testing.T) {
	logging.DisableLoggingForTest(t)
	assert.NotPanics(t, func() { logging.Default().Info().Msg("discarded") })
	assert.NotNil(t, logging.NewNopLogger())
}

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/deppfellow/surf-tools/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerService_WithoutLicense(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()

	service := NewLoggerService(cfg)
	require.NotNil(t, service)
	assert.Nil(t, service.GetApplication())

	// Shutdown on a disabled service must be a no-op.
	service.Shutdown()
}

func TestGetApplication_NilService(t *testing.T) {
	var service *LoggerService
	assert.Nil(t, service.GetApplication())
}

func TestNewLogger_JSONFormat(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	logger := newLogger(cfg, nil, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("check", "weather").Msg("visible")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "weather", entry["check"])
	assert.Equal(t, "surf-tools", entry["service"])
	assert.Equal(t, "local", entry["environment"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	assert.Equal(t, int(tracelog.LogLevelDebug), GetPgxTraceLogLevel(zerolog.DebugLevel))
	assert.Equal(t, int(tracelog.LogLevelError), GetPgxTraceLogLevel(zerolog.ErrorLevel))
	assert.Equal(t, int(tracelog.LogLevelNone), GetPgxTraceLogLevel(zerolog.Disabled))
}

func TestWithTraceContext_NilTransaction(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	logger := WithTraceContext(base, nil)
	logger.Info().Msg("plain")

	assert.NotContains(t, buf.String(), "trace.id")
}

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom("DEBUG", "Text")
	assert.Equal(t, DebugLevel, cfg.Level)
	assert.True(t, cfg.Pretty)

	cfg = ConfigFrom("warn", "json")
	assert.Equal(t, WarnLevel, cfg.Level)
	assert.False(t, cfg.Pretty)
}

func TestConfigure_JSONOutputRespectsLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	lgr := Configure(Config{Level: WarnLevel, Output: &buf})

	lgr.Info().Msg("dropped")
	lgr.Warn().Str("entity", "student").Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "student", entry["entity"])
	assert.Equal(t, "kept", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestLogLevel_UnknownFallsBackToInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, LogLevel("verbose").zerologLevel())
}

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

func TestConfigFromSettings(t *testing.T) {
	cfg := ConfigFromSettings(" DEBUG ", "json")
	assert.Equal(t, "debug", cfg.Level)
	assert.False(t, cfg.Pretty)

	assert.True(t, ConfigFromSettings("info", "console").Pretty)
}

func TestConfigure_JSONComponent(t *testing.T) {
	t.Cleanup(func() { Configure(Config{Level: "info", Pretty: true}) })

	var buf bytes.Buffer
	Configure(Config{Level: "warn", Output: &buf})

	Info().Msg("dropped")
	l := Component("store")
	l.Warn().Str("driver", "memory").Msg("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "store", line["component"])
	assert.Equal(t, "memory", line["driver"])
	assert.Equal(t, "warn", line["level"])
}

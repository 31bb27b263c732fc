package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
}

func TestConfigure_JSONWithService(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { Configure(Config{Level: InfoLevel, Pretty: true}) })

	Configure(Config{Level: DebugLevel, Output: &buf, Service: "sectionhub"})
	Info().Str("key", "value").Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sectionhub", entry["service"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "info", entry["level"])
}

func TestConfigure_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { Configure(Config{Level: InfoLevel, Pretty: true}) })

	Configure(Config{Level: ErrorLevel, Output: &buf})
	Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	Error().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

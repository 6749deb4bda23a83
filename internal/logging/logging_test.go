package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestJSONLoggerCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "info", "json")
	require.NoError(t, err)

	Component(l, "watch").Info("report changed", "path", "hunt.txt")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "watch", event["component"])
	assert.Equal(t, "report changed", event["msg"])
	assert.Equal(t, "hunt.txt", event["path"])
	assert.Equal(t, "INFO", event["level"])
}

func TestLevelFiltersRecords(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn", "text")
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestNewUnknownSettingsFallBack(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "loud", "yaml")
	require.Error(t, err)
	require.NotNil(t, l)

	l.Info("still logs")
	assert.True(t, strings.Contains(buf.String(), "still logs"))
}

func TestDiscard(t *testing.T) {
	l := Component(nil, "api")
	l.Error("nowhere")
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatText, ParseFormat("tint"))
	assert.Equal(t, FormatText, ParseFormat("TEXT"))
	assert.Equal(t, FormatJSON, ParseFormat(" json "))
	assert.Equal(t, FormatAuto, ParseFormat(""))
	assert.Equal(t, FormatAuto, ParseFormat("logfmt"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug", slog.LevelWarn))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR", slog.LevelWarn))
	assert.Equal(t, slog.LevelWarn, ParseLevel("", slog.LevelWarn))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty", slog.LevelInfo))
}

func TestNewAutoIsJSONOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, FormatAuto, slog.LevelInfo)
	log.Debug("hidden")
	log.Info("clipboard backend bound", "backend", "memory")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "clipboard backend bound", rec["msg"])
	assert.Equal(t, "memory", rec["backend"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, FormatText, slog.LevelDebug).Debug("skipped", "candidate", "linux:xclip")
	assert.Contains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), "linux:xclip")
	assert.False(t, IsTTY(&buf))
}

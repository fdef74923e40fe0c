package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat("HUMAN"))
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatAuto, ParseFormat("auto"))
	assert.Equal(t, FormatAuto, ParseFormat("nonsense"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("shouting"))
}

func TestIsTTYNonFile(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}

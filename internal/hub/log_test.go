package hub

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateNeverSplitsRunes(t *testing.T) {
	// 3-byte runes, so every cut point except multiples of 3 lands inside one
	s := strings.Repeat("日本語", 50)

	for max := 1; max < 20; max++ {
		got := truncate(s, max)
		assert.True(t, utf8.ValidString(got), "max=%d produced invalid UTF-8: %q", max, got)
		assert.LessOrEqual(t, len(got)-len("…"), max, "max=%d", max)
	}
}

func TestTruncateShortStringUnchanged(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 120))
	assert.Equal(t, "日本語", truncate("日本語", 9))
}

package hub

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"go.mkw.dev/clipfeed/internal/protocol"
)

// logItem logs a stored item at INFO (id, kind, session) and DEBUG (text
// preview up to 120 bytes, or payload size for binary kinds).
func logItem(event, session string, item protocol.Item) {
	slog.Info(event, "session", session, "id", item.ID, "kind", item.Kind)

	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	if item.Kind == protocol.KindText {
		slog.Debug("feed item", "kind", item.Kind, "preview", truncate(item.Data, 120))
	} else {
		slog.Debug("feed item", "kind", item.Kind, "name", item.Name, "size_bytes", len(item.Data))
	}
}

// truncate shortens s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "…"
}

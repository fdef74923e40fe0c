// Package clip provides read access to the system clipboard via
// golang.design/x/clipboard. The watcher owns polling and change detection,
// so a Backend only answers "what is on the clipboard right now" for the
// two modalities the feed carries.
package clip

import "log/slog"

// Backend is the clipboard capability the watcher consumes.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// Text returns the current text contents, or nil when the clipboard
	// holds no text.
	Text() []byte

	// Image returns the current image contents as PNG bytes, or nil when
	// the clipboard holds no image.
	Image() []byte

	// Close releases any resources held by the backend.
	Close()
}

// New returns the system clipboard backend, falling back to a no-op
// headless backend when no display environment is available (containers,
// CI, servers without X11/Wayland). Init is performed here rather than in
// init() so that sub-commands which never touch the clipboard don't log
// spurious warnings.
func New() Backend {
	b, err := newSystemBackend()
	if err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return headlessBackend{}
	}
	return b
}

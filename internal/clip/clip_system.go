package clip

import (
	"runtime"

	"golang.design/x/clipboard"
)

type systemBackend struct{}

func newSystemBackend() (Backend, error) {
	if err := clipboard.Init(); err != nil {
		return nil, err
	}
	return systemBackend{}, nil
}

func (systemBackend) Name() string { return runtime.GOOS + " clipboard" }

func (systemBackend) Text() []byte {
	return clipboard.Read(clipboard.FmtText)
}

// Image returns PNG bytes; golang.design/x/clipboard normalises image
// contents to PNG on every platform.
func (systemBackend) Image() []byte {
	return clipboard.Read(clipboard.FmtImage)
}

func (systemBackend) Close() {}

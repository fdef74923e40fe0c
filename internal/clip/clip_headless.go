package clip

// headlessBackend is a no-op clipboard backend for environments without a
// display server. It never reports contents.
type headlessBackend struct{}

func (headlessBackend) Name() string  { return "headless (no-op)" }
func (headlessBackend) Text() []byte  { return nil }
func (headlessBackend) Image() []byte { return nil }
func (headlessBackend) Close()        {}

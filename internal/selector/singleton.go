package selector

import (
	"io"
	"log/slog"
	"sync"

	"go.klb.dev/pasteboard/internal/clip"
)

var (
	once  sync.Once
	mu    sync.Mutex
	bound clip.Backend
)

// Init selects and binds the process-wide backend. Only the first call
// selects; every call returns the bound backend.
func Init(opts Options) clip.Backend {
	once.Do(func() {
		b := Build(opts).Select()
		mu.Lock()
		bound = b
		mu.Unlock()
		slog.Info("clipboard backend bound", "backend", b.Name())
	})
	mu.Lock()
	defer mu.Unlock()
	return bound
}

// Default returns the process-wide backend, binding it with default options
// if Init has not run.
func Default() clip.Backend { return Init(Options{}) }

// Get reads format from the process-wide backend.
func Get(format string) ([]byte, bool) { return Default().Get(format) }

// Put writes data under format to the process-wide backend.
func Put(data []byte, format string) { Default().Put(data, format) }

// Formats lists the formats the process-wide backend can supply.
func Formats() []string { return Default().Formats() }

// Release closes the bound backend when it holds resources, such as the bolt
// store's file lock. It ends the process's clipboard use: call it once, at
// exit. Release never binds a backend.
func Release() {
	mu.Lock()
	b := bound
	mu.Unlock()
	if b != nil {
		closeBackend(b)
	}
}

func closeBackend(b clip.Backend) {
	c, ok := b.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		slog.Debug("closing clipboard backend", "backend", b.Name(), "err", err)
	}
}

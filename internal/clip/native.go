//go:build linux || darwin || windows

package clip

import (
	"fmt"
	"log/slog"
	"runtime"

	"golang.design/x/clipboard"
)

// nativeBackend talks to the OS clipboard through golang.design/x/clipboard:
// X11 on Linux, NSPasteboard on macOS, the Win32 clipboard on Windows. It
// understands text and PNG images.
type nativeBackend struct {
	name string
}

// NewNative returns the OS clipboard backend. clipboard.Init is called here
// rather than in init() so that processes that end up on another backend
// never touch the display. Init fails without a display server or when the
// binary was built with CGO_ENABLED=0.
func NewNative() (Backend, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	return &nativeBackend{name: nativeName()}, nil
}

func nativeName() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS NSPasteboard"
	case "windows":
		return "Windows Clipboard"
	default:
		return "X11 clipboard"
	}
}

func (b *nativeBackend) Name() string { return b.name }

func (b *nativeBackend) Get(format string) ([]byte, bool) {
	f, ok := nativeFormat(format)
	if !ok {
		return nil, false
	}
	data := clipboard.Read(f)
	if data == nil {
		return nil, false
	}
	return data, true
}

func (b *nativeBackend) Put(data []byte, format string) {
	f, ok := nativeFormat(format)
	if !ok {
		slog.Debug("native clipboard: unsupported format, dropped", "format", format)
		return
	}
	clipboard.Write(f, data)
}

func (b *nativeBackend) Formats() []string {
	out := []string{}
	if clipboard.Read(clipboard.FmtText) != nil {
		out = append(out, FormatText)
	}
	if clipboard.Read(clipboard.FmtImage) != nil {
		out = append(out, FormatPNG)
	}
	return out
}

func nativeFormat(format string) (clipboard.Format, bool) {
	switch {
	case IsText(format):
		return clipboard.FmtText, true
	case format == FormatPNG:
		return clipboard.FmtImage, true
	default:
		return 0, false
	}
}

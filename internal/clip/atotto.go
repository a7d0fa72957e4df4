package clip

import (
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"
)

// atottoBackend is a text-only fallback using github.com/atotto/clipboard,
// which shells out to pbcopy, xclip, xsel, wl-copy or termux helpers, or
// uses the Win32 API directly.
type atottoBackend struct{}

// NewAtotto returns the atotto backend, or ErrBackendUnavailable when the
// library found no clipboard utility at init time.
func NewAtotto() (Backend, error) {
	if clipboard.Unsupported {
		return nil, fmt.Errorf("%w: no clipboard utility found", ErrBackendUnavailable)
	}
	return atottoBackend{}, nil
}

func (atottoBackend) Name() string { return "atotto (text)" }

func (atottoBackend) Get(format string) ([]byte, bool) {
	if !IsText(format) {
		return nil, false
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		slog.Debug("atotto clipboard read failed", "err", err)
		return nil, false
	}
	if text == "" {
		return nil, false
	}
	return []byte(text), true
}

func (atottoBackend) Put(data []byte, format string) {
	if !IsText(format) {
		slog.Debug("atotto clipboard: non-text format dropped", "format", format)
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		slog.Debug("atotto clipboard write failed", "err", err)
	}
}

func (b atottoBackend) Formats() []string {
	if _, ok := b.Get(FormatText); ok {
		return []string{FormatText}
	}
	return []string{}
}

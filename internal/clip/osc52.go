package clip

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/mattn/go-isatty"
)

var isTerminal = func(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// osc52Backend sets the clipboard of the terminal emulator the process is
// attached to by writing an OSC 52 escape sequence. It is how a remote SSH
// session reaches the local clipboard. Terminals rarely answer OSC 52
// queries, so reads are unsupported: Get is always absent and Formats empty.
type osc52Backend struct {
	out    io.Writer
	tmux   bool
	screen bool
}

// NewOSC52 returns the OSC 52 backend when running inside an SSH session
// with stderr or stdout attached to a terminal.
func NewOSC52() (Backend, error) {
	if getenv("SSH_TTY") == "" && getenv("SSH_CONNECTION") == "" {
		return nil, fmt.Errorf("%w: osc52: not an SSH session", ErrBackendUnavailable)
	}
	for _, f := range []*os.File{os.Stderr, os.Stdout} {
		if isTerminal(f) {
			return newOSC52(f), nil
		}
	}
	return nil, fmt.Errorf("%w: osc52: no terminal attached", ErrBackendUnavailable)
}

func newOSC52(w io.Writer) *osc52Backend {
	return &osc52Backend{
		out:    w,
		tmux:   getenv("TMUX") != "",
		screen: strings.HasPrefix(getenv("TERM"), "screen"),
	}
}

func (b *osc52Backend) Name() string { return "OSC 52 terminal (write-only)" }

func (b *osc52Backend) Get(string) ([]byte, bool) { return nil, false }

func (b *osc52Backend) Put(data []byte, format string) {
	if !IsText(format) {
		slog.Debug("osc52: non-text format dropped", "format", format)
		return
	}
	seq := osc52.New(string(data))
	switch {
	case b.tmux:
		seq = seq.Tmux()
	case b.screen:
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(b.out); err != nil {
		slog.Debug("osc52 write failed", "err", err)
	}
}

func (b *osc52Backend) Formats() []string { return []string{} }

package clip

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

const commandTimeout = 2 * time.Second

// Swapped in tests.
var (
	lookPath = exec.LookPath
	getenv   = os.Getenv

	defaultRunner runner = execRunner{}
)

// runner executes clipboard helper binaries.
type runner interface {
	// Output runs the command and returns its stdout.
	Output(name string, args ...string) ([]byte, error)
	// Input runs the command with stdin as its standard input. Stdout is
	// discarded: xclip and wl-copy fork a child that keeps serving the
	// selection, and waiting on its stdout would block until it exits.
	Input(stdin []byte, name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Output(name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = time.Second
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

func (execRunner) Input(stdin []byte, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.WaitDelay = time.Second
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s timeout: %w", name, ctx.Err())
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// commandSpec describes a clipboard driven by external helper binaries.
type commandSpec struct {
	name string
	// bins must all be on $PATH.
	bins []string
	// session reports whether the desktop session the helpers need is
	// present. nil means no requirement.
	session func() bool
	get     func(format string) []string
	put     func(format string) []string
	// list prints one format per line. nil means the helpers only handle
	// plain text.
	list []string
}

var wlClipboardSpec = commandSpec{
	name: "wl-clipboard",
	bins: []string{"wl-copy", "wl-paste"},
	session: func() bool {
		return strings.EqualFold(strings.TrimSpace(getenv("XDG_SESSION_TYPE")), "wayland") ||
			strings.TrimSpace(getenv("WAYLAND_DISPLAY")) != ""
	},
	get:  func(f string) []string { return []string{"wl-paste", "--no-newline", "--type", f} },
	put:  func(f string) []string { return []string{"wl-copy", "--type", f} },
	list: []string{"wl-paste", "--list-types"},
}

var xclipSpec = commandSpec{
	name:    "xclip",
	bins:    []string{"xclip"},
	session: func() bool { return strings.TrimSpace(getenv("DISPLAY")) != "" },
	get:     func(f string) []string { return []string{"xclip", "-selection", "clipboard", "-o", "-t", f} },
	put:     func(f string) []string { return []string{"xclip", "-selection", "clipboard", "-i", "-t", f} },
	list:    []string{"xclip", "-selection", "clipboard", "-o", "-t", "TARGETS"},
}

var termuxSpec = commandSpec{
	name: "termux",
	bins: []string{"termux-clipboard-get", "termux-clipboard-set"},
	get:  func(string) []string { return []string{"termux-clipboard-get"} },
	put:  func(string) []string { return []string{"termux-clipboard-set"} },
}

// NewWlClipboard returns a backend driving wl-copy / wl-paste. It requires a
// Wayland session.
func NewWlClipboard() (Backend, error) { return newCommand(&wlClipboardSpec) }

// NewXclip returns a backend driving xclip against the CLIPBOARD selection.
// It requires $DISPLAY.
func NewXclip() (Backend, error) { return newCommand(&xclipSpec) }

// NewTermux returns the Termux:API backend for Android. Text only.
func NewTermux() (Backend, error) { return newCommand(&termuxSpec) }

type commandBackend struct {
	spec *commandSpec
	run  runner
}

func newCommand(spec *commandSpec) (Backend, error) {
	if spec.session != nil && !spec.session() {
		return nil, fmt.Errorf("%w: %s: no display session", ErrBackendUnavailable, spec.name)
	}
	for _, bin := range spec.bins {
		if _, err := lookPath(bin); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrBackendUnavailable, spec.name, err)
		}
	}
	return &commandBackend{spec: spec, run: defaultRunner}, nil
}

func (b *commandBackend) Name() string { return b.spec.name }

func (b *commandBackend) textOnly() bool { return b.spec.list == nil }

func (b *commandBackend) Get(format string) ([]byte, bool) {
	if b.textOnly() && !IsText(format) {
		return nil, false
	}
	argv := b.spec.get(format)
	out, err := b.run.Output(argv[0], argv[1:]...)
	if err != nil {
		slog.Debug("clipboard helper read failed", "backend", b.spec.name, "format", format, "err", err)
		return nil, false
	}
	if b.textOnly() && len(out) == 0 {
		return nil, false
	}
	return out, true
}

func (b *commandBackend) Put(data []byte, format string) {
	if b.textOnly() && !IsText(format) {
		slog.Debug("clipboard helper: non-text format dropped", "backend", b.spec.name, "format", format)
		return
	}
	argv := b.spec.put(format)
	if err := b.run.Input(data, argv[0], argv[1:]...); err != nil {
		slog.Debug("clipboard helper write failed", "backend", b.spec.name, "format", format, "err", err)
	}
}

func (b *commandBackend) Formats() []string {
	if b.textOnly() {
		if _, ok := b.Get(FormatText); ok {
			return []string{FormatText}
		}
		return []string{}
	}
	out, err := b.run.Output(b.spec.list[0], b.spec.list[1:]...)
	if err != nil {
		slog.Debug("clipboard helper list failed", "backend", b.spec.name, "err", err)
		return []string{}
	}
	formats := []string{}
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			formats = append(formats, line)
		}
	}
	return formats
}

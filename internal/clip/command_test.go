package clip

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHelpers emulates a clipboard helper holding one selection.
type fakeHelpers struct {
	calls   []string
	format  string
	data    []byte
	targets string
	fail    bool
}

func (f *fakeHelpers) Output(name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	if f.fail {
		return nil, errors.New("exit status 1")
	}
	last := ""
	if len(args) > 0 {
		last = args[len(args)-1]
	}
	switch {
	case last == "TARGETS" || last == "--list-types":
		return []byte(f.targets), nil
	case name == "termux-clipboard-get":
		return f.data, nil
	case f.data != nil && last == f.format:
		return f.data, nil
	}
	return nil, errors.New("target not available")
}

func (f *fakeHelpers) Input(stdin []byte, name string, args ...string) error {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	if f.fail {
		return errors.New("exit status 1")
	}
	f.data = append([]byte(nil), stdin...)
	if len(args) > 0 {
		f.format = args[len(args)-1]
	}
	return nil
}

func stubEnv(t *testing.T, env map[string]string, bins ...string) {
	t.Helper()
	oldEnv, oldLook := getenv, lookPath
	t.Cleanup(func() { getenv, lookPath = oldEnv, oldLook })

	getenv = func(k string) string { return env[k] }
	lookPath = func(name string) (string, error) {
		for _, b := range bins {
			if b == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestXclipRequiresDisplay(t *testing.T) {
	stubEnv(t, nil, "xclip")
	_, err := NewXclip()
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	stubEnv(t, map[string]string{"DISPLAY": ":0"})
	_, err = NewXclip()
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	stubEnv(t, map[string]string{"DISPLAY": ":0"}, "xclip")
	b, err := NewXclip()
	require.NoError(t, err)
	assert.Equal(t, "xclip", b.Name())
}

func TestWlClipboardNeedsBothHelpers(t *testing.T) {
	stubEnv(t, map[string]string{"WAYLAND_DISPLAY": "wayland-0"}, "wl-copy")
	_, err := NewWlClipboard()
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	stubEnv(t, map[string]string{"XDG_SESSION_TYPE": "Wayland"}, "wl-copy", "wl-paste")
	_, err = NewWlClipboard()
	assert.NoError(t, err)
}

func TestTermuxHasNoSessionRequirement(t *testing.T) {
	stubEnv(t, nil, "termux-clipboard-get", "termux-clipboard-set")
	_, err := NewTermux()
	assert.NoError(t, err)
}

func TestXclipRoundTrip(t *testing.T) {
	fake := &fakeHelpers{targets: "TARGETS\nUTF8_STRING\n\ntext/plain\n"}
	b := &commandBackend{spec: &xclipSpec, run: fake}

	b.Put([]byte("Great"), "UTF8_STRING")
	got, ok := b.Get("UTF8_STRING")
	require.True(t, ok)
	assert.Equal(t, "Great", string(got))

	_, ok = b.Get("image/png")
	assert.False(t, ok)

	assert.Equal(t, []string{"TARGETS", "UTF8_STRING", "text/plain"}, b.Formats())
	assert.Equal(t, []string{
		"xclip -selection clipboard -i -t UTF8_STRING",
		"xclip -selection clipboard -o -t UTF8_STRING",
		"xclip -selection clipboard -o -t image/png",
		"xclip -selection clipboard -o -t TARGETS",
	}, fake.calls)
}

func TestWlClipboardArgs(t *testing.T) {
	fake := &fakeHelpers{targets: "text/plain\ntext/html\n"}
	b := &commandBackend{spec: &wlClipboardSpec, run: fake}

	b.Put([]byte("<b>hi</b>"), "text/html")
	got, ok := b.Get("text/html")
	require.True(t, ok)
	assert.Equal(t, "<b>hi</b>", string(got))
	assert.Equal(t, []string{"text/plain", "text/html"}, b.Formats())
	assert.Equal(t, "wl-copy --type text/html", fake.calls[0])
	assert.Equal(t, "wl-paste --no-newline --type text/html", fake.calls[1])
}

func TestTermuxIsTextOnly(t *testing.T) {
	fake := &fakeHelpers{}
	b := &commandBackend{spec: &termuxSpec, run: fake}

	assert.Empty(t, b.Formats())
	fake.calls = nil

	b.Put([]byte("png"), FormatPNG)
	assert.Empty(t, fake.calls, "non-text put must not reach the helper")

	b.Put([]byte("hello"), FormatText)
	got, ok := b.Get("UTF8_STRING")
	require.True(t, ok)
	assert.Equal(t, "hello", string(got))
	assert.Equal(t, []string{FormatText}, b.Formats())

	_, ok = b.Get(FormatPNG)
	assert.False(t, ok)
}

func TestCommandFailuresDegrade(t *testing.T) {
	fake := &fakeHelpers{fail: true}
	b := &commandBackend{spec: &xclipSpec, run: fake}

	assert.NotPanics(t, func() { b.Put([]byte("x"), FormatText) })
	_, ok := b.Get(FormatText)
	assert.False(t, ok)
	assert.Empty(t, b.Formats())
	assert.NotNil(t, b.Formats())
}

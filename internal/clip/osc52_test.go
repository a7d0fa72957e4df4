package clip

import (
	"bytes"
	"encoding/base64"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOSC52RequiresSSH(t *testing.T) {
	stubEnv(t, nil)
	_, err := NewOSC52()
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestOSC52RequiresTerminal(t *testing.T) {
	stubEnv(t, map[string]string{"SSH_TTY": "/dev/pts/3"})
	old := isTerminal
	t.Cleanup(func() { isTerminal = old })
	isTerminal = func(*os.File) bool { return false }

	_, err := NewOSC52()
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	isTerminal = func(*os.File) bool { return true }
	b, err := NewOSC52()
	assert.NoError(t, err)
	assert.NotNil(t, b)
}

func TestOSC52WritesSequence(t *testing.T) {
	stubEnv(t, nil)
	var buf bytes.Buffer
	b := newOSC52(&buf)

	b.Put([]byte("hello"), FormatText)
	assert.Contains(t, buf.String(), "\x1b]52;")
	assert.Contains(t, buf.String(), base64.StdEncoding.EncodeToString([]byte("hello")))

	buf.Reset()
	b.Put([]byte("img"), FormatPNG)
	assert.Zero(t, buf.Len())

	_, ok := b.Get(FormatText)
	assert.False(t, ok)
	assert.Empty(t, b.Formats())
}

func TestOSC52WrapsForTmux(t *testing.T) {
	stubEnv(t, map[string]string{"TMUX": "/tmp/tmux-1000/default,1,0"})
	var buf bytes.Buffer
	newOSC52(&buf).Put([]byte("hi"), FormatText)
	assert.Contains(t, buf.String(), "\x1bPtmux;")
}

func TestIsText(t *testing.T) {
	for _, f := range []string{"text/plain", "text/plain;charset=utf-8", "UTF8_STRING", "STRING", "TEXT"} {
		assert.True(t, IsText(f), f)
	}
	for _, f := range []string{"image/png", "text/html", "TARGETS", "utf8_string"} {
		assert.False(t, IsText(f), f)
	}
}

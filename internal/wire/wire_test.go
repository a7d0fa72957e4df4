package wire

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/pasteboard/internal/crypto"
	"go.klb.dev/pasteboard/internal/message"
)

func pipe(t *testing.T, key *crypto.Key) (*Conn, *Conn) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() {
		_ = a.Close()
		_ = b.Close()
	})
	return New(a, key), New(b, key)
}

// echo answers every request on c with a DATA message carrying its payload.
func echo(c *Conn) {
	for {
		msg, err := c.ReadMsg()
		if err != nil {
			return
		}
		_ = c.WriteMsg(&message.Message{Type: message.TypeData, Format: msg.Format, Data: msg.Data, Found: true})
	}
}

func TestRoundtripPlain(t *testing.T) {
	client, server := pipe(t, nil)
	go echo(server)

	resp, err := client.Roundtrip(&message.Message{Type: message.TypeGet, Format: "text/plain", Data: []byte("hi")}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, message.TypeData, resp.Type)
	assert.True(t, resp.Found)
	assert.Equal(t, "hi", string(resp.Data))
}

func TestRoundtripEncrypted(t *testing.T) {
	key, err := crypto.DeriveKey("token")
	require.NoError(t, err)
	client, server := pipe(t, key)
	go echo(server)

	resp, err := client.Roundtrip(&message.Message{Type: message.TypeGet, Format: "UTF8_STRING", Data: []byte("secret")}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "UTF8_STRING", resp.Format)
	assert.Equal(t, "secret", string(resp.Data))
}

func TestEncryptedLineIsOpaque(t *testing.T) {
	key, err := crypto.DeriveKey("token")
	require.NoError(t, err)
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	client := New(a, key)

	go func() {
		_ = client.WriteMsg(&message.Message{Type: message.TypePut, Data: []byte("secret")})
	}()
	buf := make([]byte, 4096)
	n, err := b.Read(buf)
	require.NoError(t, err)
	line := string(buf[:n])

	assert.False(t, strings.HasPrefix(line, "{"))
	assert.NotContains(t, line, "PUT")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestEncryptedMismatchFails(t *testing.T) {
	k1, _ := crypto.DeriveKey("one")
	k2, _ := crypto.DeriveKey("two")
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	client, server := New(a, k1), New(b, k2)

	errs := make(chan error, 1)
	go func() {
		_, err := server.ReadMsg()
		errs <- err
	}()
	require.NoError(t, client.WriteMsg(&message.Message{Type: message.TypePing}))
	err := <-errs
	require.Error(t, err)
	assert.ErrorIs(t, err, crypto.ErrDecrypt)
}

func TestRoundtripTimeout(t *testing.T) {
	client, server := pipe(t, nil)
	go func() {
		_, _ = server.ReadMsg() // read but never answer
	}()
	_, err := client.Roundtrip(&message.Message{Type: message.TypePing}, 50*time.Millisecond)
	require.Error(t, err)
	var ne net.Error
	require.ErrorAs(t, err, &ne)
	assert.True(t, ne.Timeout())
}

func TestReadRejectsOversizedLine(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	server := New(b, nil)

	go func() {
		chunk := []byte(strings.Repeat("a", 1<<20))
		for i := 0; i <= MaxMessageSize>>20; i++ {
			if _, err := a.Write(chunk); err != nil {
				return
			}
		}
	}()
	_, err := server.ReadMsg()
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestWriteRejectsOversizedMessage(t *testing.T) {
	client, _ := pipe(t, nil)
	err := client.WriteMsg(&message.Message{Type: message.TypePut, Data: make([]byte, MaxMessageSize)})
	assert.ErrorIs(t, err, ErrTooLarge)
}

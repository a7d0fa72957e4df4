// Package wire handles reading and writing newline-delimited JSON messages
// over a net.Conn, with optional NaCl secretbox encryption.
//
// Wire format (unencrypted):
//
//	<json>\n
//
// Wire format (encrypted):
//
//	<base64(nonce+ciphertext)>\n
//
// Framing is identical in both cases: every line is a single message.
package wire

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"time"

	"go.klb.dev/pasteboard/internal/crypto"
	"go.klb.dev/pasteboard/internal/message"
)

const (
	// MaxMessageSize is the largest line we will read (16 MiB). Base64
	// inflates payloads by a third, so the largest clipboard payload that
	// fits is roughly 12 MiB.
	MaxMessageSize = 16 * 1024 * 1024

	writeDeadline = 5 * time.Second
)

// ErrTooLarge is returned by ReadMsg for lines over MaxMessageSize.
var ErrTooLarge = errors.New("message too large")

// Conn wraps a net.Conn with buffered newline-delimited JSON framing
// and optional encryption.
type Conn struct {
	conn net.Conn
	br   *bufio.Reader
	key  *crypto.Key // nil = no encryption
}

// New wraps conn. If key is non-nil every message is encrypted with NaCl
// secretbox before being written and decrypted after being read.
func New(conn net.Conn, key *crypto.Key) *Conn {
	return &Conn{
		conn: conn,
		br:   bufio.NewReaderSize(conn, 64*1024),
		key:  key,
	}
}

// SetReadDeadline sets or clears the read deadline.
func (c *Conn) SetReadDeadline(d time.Duration) {
	if d == 0 {
		_ = c.conn.SetReadDeadline(time.Time{})
	} else {
		_ = c.conn.SetReadDeadline(time.Now().Add(d))
	}
}

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.conn.Close() }

// RemoteAddr returns the remote network address.
func (c *Conn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// WriteMsg serialises msg to JSON, optionally encrypts it, and writes it
// followed by a newline.
func (c *Conn) WriteMsg(msg *message.Message) error {
	raw, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	var line []byte
	if c.key != nil {
		ct, err := c.key.Seal(raw)
		if err != nil {
			return fmt.Errorf("encrypt: %w", err)
		}
		line = base64.StdEncoding.AppendEncode(nil, ct)
	} else {
		line = raw
	}
	if len(line) >= MaxMessageSize {
		return fmt.Errorf("%w (%d bytes)", ErrTooLarge, len(line))
	}
	line = append(line, '\n')

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	_, err = c.conn.Write(line)
	_ = c.conn.SetWriteDeadline(time.Time{})
	return err
}

// ReadMsg reads one newline-terminated line, optionally decrypts it, and
// deserialises it into a Message.
func (c *Conn) ReadMsg() (*message.Message, error) {
	line, err := c.readLine()
	if err != nil {
		return nil, err
	}

	raw := line
	if c.key != nil {
		ct, err := base64.StdEncoding.DecodeString(string(line))
		if err != nil {
			return nil, fmt.Errorf("base64 decode: %w", err)
		}
		raw, err = c.key.Open(ct)
		if err != nil {
			return nil, fmt.Errorf("decrypt: %w", err)
		}
	}
	return message.Decode(raw)
}

// Roundtrip writes req and reads one reply, giving up after timeout.
func (c *Conn) Roundtrip(req *message.Message, timeout time.Duration) (*message.Message, error) {
	if err := c.WriteMsg(req); err != nil {
		return nil, fmt.Errorf("write %s: %w", req.Type, err)
	}
	c.SetReadDeadline(timeout)
	defer c.SetReadDeadline(0)
	resp, err := c.ReadMsg()
	if err != nil {
		return nil, fmt.Errorf("read %s reply: %w", req.Type, err)
	}
	return resp, nil
}

// readLine returns the next line without its trailing newline, refusing to
// buffer more than MaxMessageSize bytes.
func (c *Conn) readLine() ([]byte, error) {
	var buf []byte
	for {
		chunk, err := c.br.ReadSlice('\n')
		if len(buf)+len(chunk) > MaxMessageSize {
			return nil, fmt.Errorf("%w (over %d bytes)", ErrTooLarge, MaxMessageSize)
		}
		buf = append(buf, chunk...)
		if err == nil {
			return bytes.TrimSuffix(buf[:len(buf)-1], []byte{'\r'}), nil
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return nil, err
		}
	}
}

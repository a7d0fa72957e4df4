// Package message defines the pasteboard daemon protocol.
//
// Every message is one line of JSON. Payloads are []byte fields, which
// encoding/json carries as base64 strings, so binary formats (images, etc.)
// are safe to embed. A client sends one request per line and reads exactly
// one reply:
//
//	PING            -> PONG     (Backend set)
//	GET   Format    -> DATA     (Found, Data)
//	PUT   Format    -> OK
//	TYPES           -> FORMATS  (Formats)
//	anything else   -> ERROR
//
// On authenticated connections the first line must be AUTH; a bad token is
// answered with ERROR and the connection is closed.
package message

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Type identifies the kind of message.
type Type string

const (
	TypeAuth    Type = "AUTH"
	TypePing    Type = "PING"
	TypePong    Type = "PONG"
	TypeGet     Type = "GET"
	TypeData    Type = "DATA"
	TypePut     Type = "PUT"
	TypeOK      Type = "OK"
	TypeTypes   Type = "TYPES"
	TypeFormats Type = "FORMATS"
	TypeError   Type = "ERROR"
)

// Message is the top-level wire envelope.
type Message struct {
	// Always present
	Type   Type   `json:"type"`
	Source string `json:"source,omitempty"`

	// GET / PUT / DATA
	Format string `json:"format,omitempty"`
	Data   []byte `json:"data,omitempty"`
	// DATA: false when the daemon's backend has nothing under Format.
	Found bool `json:"found,omitempty"`

	// FORMATS
	Formats []string `json:"formats,omitempty"`

	// PONG: name of the backend the daemon serves.
	Backend string `json:"backend,omitempty"`

	// AUTH: token is base64-encoded.
	Payload string `json:"payload,omitempty"`

	// ERROR
	Error string `json:"error,omitempty"`
}

// NewAuth builds the AUTH message for token.
func NewAuth(source, token string) *Message {
	return &Message{
		Type:    TypeAuth,
		Source:  source,
		Payload: base64.StdEncoding.EncodeToString([]byte(token)),
	}
}

// Token returns the decoded AUTH token, or "" if Payload is not valid base64.
func (m *Message) Token() string {
	b, err := base64.StdEncoding.DecodeString(m.Payload)
	if err != nil {
		return ""
	}
	return string(b)
}

// Errorf builds an ERROR reply.
func Errorf(format string, args ...any) *Message {
	return &Message{Type: TypeError, Error: fmt.Sprintf(format, args...)}
}

// Encode serialises the message to JSON without a trailing newline.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode deserialises a message from raw JSON bytes.
func Decode(b []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("message decode: %w", err)
	}
	if m.Type == "" {
		return nil, fmt.Errorf("message decode: missing type")
	}
	return &m, nil
}

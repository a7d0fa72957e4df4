// Package crypto provides NaCl secretbox encryption for daemon connections
// that cross the network.
//
// A 32-byte symmetric key is derived from the shared token using HKDF-SHA256.
// Every message is sealed with a random 24-byte nonce prepended to the
// ciphertext:
//
//	[ 24-byte nonce ][ ciphertext ]
//
// The local IPC socket never uses this package; the wire layer passes a nil
// key there and messages are sent as plain JSON.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

var hkdfInfo = []byte("pasteboard-v1")

// ErrDecrypt is returned by Open when the ciphertext was not sealed with the
// same key, usually because the two sides were given different tokens.
var ErrDecrypt = errors.New("decryption failed (wrong token?)")

// Key is a derived secretbox key.
type Key [keySize]byte

// DeriveKey derives a Key from token. Both sides must use the same token to
// derive the same key.
func DeriveKey(token string) (*Key, error) {
	if token == "" {
		return nil, errors.New("key derivation: empty token")
	}
	h := hkdf.New(sha256.New, []byte(token), nil, hkdfInfo)
	var k Key
	if _, err := io.ReadFull(h, k[:]); err != nil {
		return nil, fmt.Errorf("key derivation: %w", err)
	}
	return &k, nil
}

// Seal encrypts plaintext, returning nonce+ciphertext.
func (k *Key) Seal(plaintext []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("nonce generation: %w", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, (*[keySize]byte)(k)), nil
}

// Open decrypts nonce+ciphertext produced by Seal.
func (k *Key) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("ciphertext too short (%d bytes)", len(sealed))
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, (*[keySize]byte)(k))
	if !ok {
		return nil, ErrDecrypt
	}
	return plain, nil
}

// Package clip defines the clipboard capability contract and every backend
// that satisfies it. One file per variant:
//
//	dummy.go    - always empty, never fails; the fallback of last resort
//	memory.go   - in-process store (daemon default, tests)
//	bolt.go     - bbolt-backed persistent store (daemon --store)
//	native.go   - golang.design/x/clipboard (cgo: X11, Cocoa, Win32)
//	atotto.go   - github.com/atotto/clipboard (text only, shells out)
//	command.go  - wl-clipboard, xclip and termux command backends
//	osc52.go    - write-only terminal clipboard over OSC 52
//
// Backends are constructed by the selector package. A constructor may fail
// with ErrBackendUnavailable; once constructed a backend never returns an
// error: failures degrade to "absent" on Get and to a no-op on Put.
package clip

import "errors"

// ErrBackendUnavailable is returned by backend constructors when the
// resources the backend needs (display server, helper binary, daemon) are
// missing. The selector treats it as "try the next candidate".
var ErrBackendUnavailable = errors.New("clipboard backend unavailable")

// Backend is the interface that all clipboard implementations satisfy.
//
// Format identifiers are opaque strings (a MIME type such as "text/plain" or
// an X11 target such as "UTF8_STRING") compared by exact match.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// Get returns the payload stored under format. The second result is
	// false when the backend has no data for format; that is not an error.
	Get(format string) ([]byte, bool)

	// Put replaces the clipboard contents with data under format. Whether
	// data previously stored under other formats survives is backend-defined.
	Put(data []byte, format string)

	// Formats lists the formats the backend can currently supply, in
	// backend-defined order. It is empty when the clipboard is empty.
	Formats() []string
}

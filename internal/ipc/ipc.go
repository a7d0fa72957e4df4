// Package ipc provides the local channel CLI invocations use to reach a
// running pasteboard daemon on the same host.
//
// The channel carries the NDJSON protocol from package message over a Unix
// domain socket (a named pipe on Windows). It is never encrypted or
// authenticated: the socket lives in a per-user runtime directory and the
// pipe is owner-restricted by the OS.
package ipc

import (
	"net"
	"os"
	"time"
)

// SocketPath returns the platform-appropriate path for the IPC socket.
//
//   - Linux:   $XDG_RUNTIME_DIR/pasteboard.sock
//   - macOS:   $TMPDIR/pasteboard.sock
//   - Windows: \\.\pipe\pasteboard
//
// $PASTEBOARD_SOCKET overrides all of them.
func SocketPath() string {
	if s := os.Getenv("PASTEBOARD_SOCKET"); s != "" {
		return s
	}
	return socketPath()
}

// Dial connects to the daemon, giving up after timeout.
func Dial(timeout time.Duration) (net.Conn, error) {
	return dialIPC(SocketPath(), timeout)
}

// IsRunning reports whether a daemon appears to be listening on the IPC
// socket. It does a cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := Dial(time.Second)
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen creates a net.Listener on the IPC socket path.
func Listen() (net.Listener, error) {
	return listenIPC(SocketPath())
}

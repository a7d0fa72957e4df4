//go:build !windows

package ipc

import (
	"net"
	"os"
	"path/filepath"
	"time"
)

func socketPath() string {
	// Linux: prefer XDG_RUNTIME_DIR
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "pasteboard.sock")
	}
	// macOS / fallback
	return filepath.Join(os.TempDir(), "pasteboard.sock")
}

func listenIPC(path string) (net.Listener, error) {
	// A live daemon answers the dial; only a stale socket from a crashed
	// run may be removed.
	if c, err := net.DialTimeout("unix", path, time.Second); err == nil {
		_ = c.Close()
		return nil, &net.OpError{Op: "listen", Net: "unix", Err: errAlreadyRunning}
	}
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	_ = os.Chmod(path, 0o600)
	return ln, nil
}

func dialIPC(path string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", path, timeout)
}

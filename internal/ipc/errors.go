package ipc

import "errors"

var errAlreadyRunning = errors.New("another pasteboard daemon is already listening")

//go:build !linux && !darwin && !windows

package clip

import "fmt"

// NewNative is unavailable on platforms golang.design/x/clipboard does not
// support.
func NewNative() (Backend, error) {
	return nil, fmt.Errorf("%w: no native clipboard on this platform", ErrBackendUnavailable)
}

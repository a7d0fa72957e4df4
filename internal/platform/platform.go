// Package platform identifies the running operating system with the small,
// closed set of tags the backend selector keys its candidate lists on.
package platform

import "runtime"

// Platform tags.
const (
	Linux   = "linux"
	MacOSX  = "macosx"
	Windows = "win"
	Android = "android"
	IOS     = "ios"
	Unknown = "unknown"
)

// Known lists every tag Detect can return.
var Known = []string{Linux, MacOSX, Windows, Android, IOS, Unknown}

// Detect returns the tag for the running process.
func Detect() string { return fromGOOS(runtime.GOOS) }

func fromGOOS(goos string) string {
	switch goos {
	case "linux":
		return Linux
	case "darwin":
		return MacOSX
	case "windows":
		return Windows
	case "android":
		return Android
	case "ios":
		return IOS
	default:
		return Unknown
	}
}

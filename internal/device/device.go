// Package device classifies the host the experiment runs on.
package device

import "strings"

// Class is a coarse device family. The set is open; only Phone changes behavior.
type Class string

const (
	Desktop Class = "desktop"
	Tablet  Class = "tablet"
	Phone   Class = "phone"
)

// Parse maps a user supplied name to a Class. Unknown names are kept as-is.
func Parse(name string) Class {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Desktop
	}
	return Class(name)
}

// FromGOOS returns the class implied by a runtime.GOOS value.
func FromGOOS(goos string) Class {
	switch goos {
	case "android", "ios":
		return Phone
	default:
		return Desktop
	}
}

// FromUserAgent classifies a browser user agent string.
func FromUserAgent(ua string) Class {
	switch {
	case ua == "":
		return Desktop
	case strings.Contains(ua, "iPad"),
		strings.Contains(ua, "Tablet"),
		strings.Contains(ua, "Android") && !strings.Contains(ua, "Mobile"):
		return Tablet
	case strings.Contains(ua, "Mobi"),
		strings.Contains(ua, "iPhone"),
		strings.Contains(ua, "iPod"),
		strings.Contains(ua, "Windows Phone"):
		return Phone
	default:
		return Desktop
	}
}

// Compact reports whether the class should get the lighter post-processing setup.
func (c Class) Compact() bool { return c == Phone }

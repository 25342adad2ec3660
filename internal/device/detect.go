//go:build !js

package device

import "runtime"

// Detect returns the class of the machine running the binary.
func Detect() Class {
	return FromGOOS(runtime.GOOS)
}

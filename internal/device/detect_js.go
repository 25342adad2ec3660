//go:build js

package device

import "syscall/js"

// Detect classifies the browser through navigator.userAgent.
func Detect() Class {
	nav := js.Global().Get("navigator")
	if nav.IsUndefined() || nav.IsNull() {
		return Desktop
	}
	return FromUserAgent(nav.Get("userAgent").String())
}

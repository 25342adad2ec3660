//go:build js

package audio

import "errors"

// SelectFile is unavailable in the browser; soundtracks come from --soundtrack.
func SelectFile() (string, error) {
	return "", errors.New("file dialog not supported in the browser")
}

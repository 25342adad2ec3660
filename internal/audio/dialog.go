//go:build !js

package audio

import (
	"errors"

	"github.com/ncruces/zenity"
)

// SelectFile asks the user for an audio file. Cancelling yields "".
// It blocks, so call it off the loop goroutine.
func SelectFile() (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Open soundtrack"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", nil
	}
	return filename, err
}

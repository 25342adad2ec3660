//go:build !js

package audio

import (
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
)

func init() {
	decoders[".flac"] = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) }
}

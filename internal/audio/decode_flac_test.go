//go:build !js

package audio

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestFlacRegistered(t *testing.T) {
	if _, ok := decoders[".flac"]; !ok {
		t.Fatal("flac decoder missing on native builds")
	}
	_, _, _, err := decode(filepath.Join(t.TempDir(), "missing.FLAC"))
	if err == nil || strings.Contains(err.Error(), "unsupported") {
		t.Errorf("flac should reach the file system, got %v", err)
	}
}

package floor

import (
	"fmt"
	"image"
	_ "image/png"
	"io/fs"

	"go.uber.org/zap"
)

// LoadTexture decodes path from fsys in the background and swaps it in when
// done. Until then, and forever if loading fails, the renderer uses its
// built-in sprite. The returned channel is closed once the attempt finishes.
func (f *Field) LoadTexture(fsys fs.FS, path string, log *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		img, err := decodeImage(fsys, path)
		if err != nil {
			log.Warn("particle texture unavailable", zap.String("path", path), zap.Error(err))
			return
		}
		f.SetTexture(img)
		log.Debug("particle texture loaded", zap.String("path", path),
			zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	}()
	return done
}

func decodeImage(fsys fs.FS, path string) (image.Image, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

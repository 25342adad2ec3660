// Package render draws the particle field through a Kage sprite shader.
package render

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/particle-floor/internal/camera"
	"github.com/iburimskiy/particle-floor/internal/floor"
)

//go:embed sprite.kage
var spriteSource []byte

const (
	spriteSize = 32
	// pointScale converts attribute size units to pixels at unit focal length.
	pointScale = 0.15
)

// Points draws a floor.Field as camera-facing textured quads.
type Points struct {
	shader *ebiten.Shader
	clear  color.Color

	fallback *ebiten.Image
	texture  *ebiten.Image
	source   image.Image

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewPoints compiles the sprite shader.
func NewPoints(clear color.Color) (*Points, error) {
	s, err := ebiten.NewShader(spriteSource)
	if err != nil {
		return nil, fmt.Errorf("compile sprite shader: %w", err)
	}
	fallback := ebiten.NewImage(spriteSize, spriteSize)
	fallback.WritePixels(SoftDisc(spriteSize))
	return &Points{
		shader:   s,
		clear:    clear,
		fallback: fallback,
	}, nil
}

// Draw clears dst and draws every visible point of f as seen by cam.
func (r *Points) Draw(dst *ebiten.Image, f *floor.Field, cam *camera.Camera) {
	dst.Fill(r.clear)

	tex := r.spriteTexture(f)
	b := tex.Bounds()
	sx0, sy0 := float32(b.Min.X), float32(b.Min.Y)
	sx1, sy1 := float32(b.Max.X), float32(b.Max.Y)

	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	quads := BuildQuads(f, cam, w, h)
	if len(quads) == 0 {
		return
	}

	op := &ebiten.DrawTrianglesShaderOptions{}
	op.Images[0] = tex

	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
	for _, q := range quads {
		if len(r.vertices)+4 > math.MaxUint16 {
			dst.DrawTrianglesShader(r.vertices, r.indices, r.shader, op)
			r.vertices = r.vertices[:0]
			r.indices = r.indices[:0]
		}
		base := uint16(len(r.vertices))
		half := q.Size / 2
		cr, cg, cb := q.Color[0], q.Color[1], q.Color[2]
		r.vertices = append(r.vertices,
			ebiten.Vertex{DstX: q.X - half, DstY: q.Y - half, SrcX: sx0, SrcY: sy0, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: 1},
			ebiten.Vertex{DstX: q.X + half, DstY: q.Y - half, SrcX: sx1, SrcY: sy0, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: 1},
			ebiten.Vertex{DstX: q.X - half, DstY: q.Y + half, SrcX: sx0, SrcY: sy1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: 1},
			ebiten.Vertex{DstX: q.X + half, DstY: q.Y + half, SrcX: sx1, SrcY: sy1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: 1},
		)
		r.indices = append(r.indices, base, base+1, base+2, base+1, base+3, base+2)
	}
	dst.DrawTrianglesShader(r.vertices, r.indices, r.shader, op)
}

// spriteTexture converts the field texture once it has loaded.
func (r *Points) spriteTexture(f *floor.Field) *ebiten.Image {
	src := f.Texture()
	if src == nil {
		return r.fallback
	}
	if src != r.source {
		if r.texture != nil {
			r.texture.Deallocate()
		}
		r.texture = ebiten.NewImageFromImage(src)
		r.source = src
	}
	return r.texture
}

// Quad is a projected point in screen pixels.
type Quad struct {
	X, Y  float32
	Size  float32
	Color [3]float32
}

// BuildQuads projects every point of f and drops those behind the camera or
// off screen. Order follows the field so draw order is stable.
func BuildQuads(f *floor.Field, cam *camera.Camera, width, height int) []Quad {
	viewProj := cam.ViewProjection()
	focal := float32(height) / (2 * float32(math.Tan(float64(cam.FOV)*math.Pi/360)))
	fw, fh := float32(width), float32(height)

	quads := make([]Quad, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		pos, size := f.Vertex(i)
		ndc, w := camera.Project(viewProj, pos)
		if w <= cam.Near {
			continue
		}
		px := size * pointScale * focal / w
		if px <= 0 {
			continue
		}
		x := (ndc.X() + 1) / 2 * fw
		y := (1 - ndc.Y()) / 2 * fh
		if x+px < 0 || x-px > fw || y+px < 0 || y-px > fh {
			continue
		}
		c := f.Point(i).Color
		quads = append(quads, Quad{X: x, Y: y, Size: px, Color: [3]float32{c.X(), c.Y(), c.Z()}})
	}
	return quads
}

// SoftDisc returns RGBA pixels of a white disc with a soft edge, used until
// the particle texture has loaded.
func SoftDisc(size int) []byte {
	pix := make([]byte, size*size*4)
	c := float64(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)-c, float64(y)-c) / (float64(size) / 2)
			a := clamp01((1 - d) * 2.5)
			v := byte(a * 255)
			i := (y*size + x) * 4
			// premultiplied
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, v
		}
	}
	return pix
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Package floor builds the particle floor: a fixed grid of point sprites whose
// animation is driven entirely by a handful of shared uniforms.
package floor

import (
	"fmt"
	"image"
	"math/rand/v2"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/particle-floor/internal/config"
)

// Point is one particle. Everything but the uniforms is fixed at construction.
type Point struct {
	Position mgl32.Vec3
	UV       mgl32.Vec2
	Color    mgl32.Vec3
	Size     float32
	Phase    float32
}

// Uniforms are shared by every point of the field.
type Uniforms struct {
	Tick           float64
	Repeat         float64
	NoiseScale     float64
	TimeScale      float64
	PointSizeScale float64

	// Level is the soundtrack level in [0,1], zero when silent.
	Level float64
	// Focus is the last ground plane hit, valid when HasFocus is set.
	Focus    mgl32.Vec3
	HasFocus bool
}

// Options configures New.
type Options struct {
	Width   int
	Height  int
	Palette []string
	Knobs   config.Floor
	// Rand drives the initial randomization. Nil means a randomly seeded source.
	Rand *rand.Rand
}

// Field is the particle floor.
type Field struct {
	width  int
	height int
	points []Point

	palette  []mgl32.Vec3
	position mgl32.Vec3
	uniforms Uniforms

	texture atomic.Pointer[image.Image]
}

// New allocates width*height points and randomizes their attributes.
func New(opts Options) (*Field, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid grid size %dx%d", opts.Width, opts.Height)
	}
	if len(opts.Palette) == 0 {
		opts.Palette = config.Palette
	}
	palette, err := parsePalette(opts.Palette)
	if err != nil {
		return nil, err
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	f := &Field{
		width:   opts.Width,
		height:  opts.Height,
		points:  make([]Point, opts.Width*opts.Height),
		palette: palette,
		uniforms: Uniforms{
			Repeat:         opts.Knobs.Repeat,
			NoiseScale:     opts.Knobs.NoiseScale,
			TimeScale:      opts.Knobs.TimeScale,
			PointSizeScale: opts.Knobs.PointSizeScale,
		},
	}

	w, h := float32(f.width), float32(f.height)
	for i := range f.points {
		col := float32(i % f.width)
		row := float32(i / f.width)
		p := &f.points[i]

		p.Phase = rng.Float32()
		p.Size = rng.Float32() * config.MaxPointSize
		p.UV = mgl32.Vec2{col / w, row / h}
		p.Color = palette[rng.IntN(len(palette))]
		p.Position = mgl32.Vec3{
			(col/w - 0.5) * w,
			(float32(i)/w/h-0.5)*h + rng.Float32()*config.MaxJitter,
			0,
		}
	}
	return f, nil
}

func parsePalette(hexes []string) ([]mgl32.Vec3, error) {
	out := make([]mgl32.Vec3, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex("#" + h)
		if err != nil {
			return nil, fmt.Errorf("palette entry %q: %w", h, err)
		}
		out = append(out, mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)})
	}
	return out, nil
}

// Len is the number of points. It never changes.
func (f *Field) Len() int { return len(f.points) }

// Point returns the i-th point.
func (f *Field) Point(i int) Point { return f.points[i] }

// Palette returns the normalized palette colors.
func (f *Field) Palette() []mgl32.Vec3 { return f.palette }

// Uniforms returns a copy of the current uniform set.
func (f *Field) Uniforms() Uniforms { return f.uniforms }

// Update advances the animation clock by one frame.
func (f *Field) Update() {
	f.uniforms.Tick += config.TickStep
}

// Move translates the whole cloud.
func (f *Field) Move(pos mgl32.Vec3) { f.position = pos }

// Position returns the translation set by Move.
func (f *Field) Position() mgl32.Vec3 { return f.position }

// SetFocus records a ground plane hit for the vertex stage.
func (f *Field) SetFocus(p mgl32.Vec3) {
	f.uniforms.Focus = p
	f.uniforms.HasFocus = true
}

// SetLevel sets the soundtrack level, clamped to [0,1].
func (f *Field) SetLevel(v float64) {
	f.uniforms.Level = min(max(v, 0), 1)
}

func (f *Field) SetRepeat(v float64)         { f.uniforms.Repeat = v }
func (f *Field) SetNoiseScale(v float64)     { f.uniforms.NoiseScale = v }
func (f *Field) SetTimeScale(v float64)      { f.uniforms.TimeScale = v }
func (f *Field) SetPointSizeScale(v float64) { f.uniforms.PointSizeScale = v }

// Texture returns the sprite texture, or nil until one has been loaded.
func (f *Field) Texture() image.Image {
	if p := f.texture.Load(); p != nil {
		return *p
	}
	return nil
}

// SetTexture swaps the sprite texture. Safe to call from any goroutine.
func (f *Field) SetTexture(img image.Image) {
	f.texture.Store(&img)
}

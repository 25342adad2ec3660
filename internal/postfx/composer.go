package postfx

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Composer renders a frame into an off-screen buffer and runs passes over it,
// ping-ponging between two images of the surface size.
type Composer struct {
	read  *ebiten.Image
	write *ebiten.Image

	width  int
	height int

	clear   color.Color
	shaders map[string]*ebiten.Shader
	log     *zap.Logger
}

// NewComposer allocates buffers of the given pixel size.
func NewComposer(width, height int, clear color.Color, log *zap.Logger) *Composer {
	c := &Composer{
		clear:   clear,
		shaders: make(map[string]*ebiten.Shader),
		log:     log,
	}
	c.SetSize(width, height)
	return c
}

// Compile builds the shader of every pass. A pass that fails to compile fails
// the whole chain.
func (c *Composer) Compile(passes []Pass) error {
	for _, p := range passes {
		if _, ok := c.shaders[p.Name()]; ok {
			continue
		}
		s, err := ebiten.NewShader(p.Source())
		if err != nil {
			return fmt.Errorf("compile %s: %w", p.Name(), err)
		}
		c.shaders[p.Name()] = s
	}
	return nil
}

// SetSize reallocates the buffers when the size changes.
func (c *Composer) SetSize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if c.read != nil && c.width == width && c.height == height {
		return
	}
	if c.read != nil {
		c.read.Deallocate()
		c.write.Deallocate()
	}
	c.width, c.height = width, height
	c.read = ebiten.NewImage(width, height)
	c.write = ebiten.NewImage(width, height)
}

// Reset starts a new frame.
func (c *Composer) Reset() {
	c.read.Fill(c.clear)
	c.write.Clear()
}

// Render draws the scene into the current buffer.
func (c *Composer) Render(draw func(dst *ebiten.Image)) {
	c.write.Fill(c.clear)
	draw(c.write)
	c.swap()
}

// Pass applies p to the current buffer. Passes without a compiled shader are
// skipped.
func (c *Composer) Pass(p Pass) {
	s, ok := c.shaders[p.Name()]
	if !ok {
		c.log.Debug("skipping uncompiled pass", zap.String("pass", p.Name()))
		return
	}
	op := &ebiten.DrawRectShaderOptions{
		Uniforms: p.Uniforms(),
		Blend:    ebiten.BlendCopy,
	}
	op.Images[0] = c.read
	c.write.DrawRectShader(c.width, c.height, s, op)
	c.swap()
}

// ToScreen presents the current buffer.
func (c *Composer) ToScreen(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{Blend: ebiten.BlendCopy}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	if sw != c.width || sh != c.height {
		op.GeoM.Scale(float64(sw)/float64(c.width), float64(sh)/float64(c.height))
		op.Filter = ebiten.FilterLinear
	}
	screen.DrawImage(c.read, op)
}

func (c *Composer) swap() {
	c.read, c.write = c.write, c.read
}

// Package scene composes the experiment: camera, particle floor, ground plane
// and the post-processing chain, plus the input handlers that steer them.
package scene

import (
	"fmt"
	"image/color"
	"io/fs"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-floor/internal/camera"
	"github.com/iburimskiy/particle-floor/internal/config"
	"github.com/iburimskiy/particle-floor/internal/floor"
	"github.com/iburimskiy/particle-floor/internal/logger"
	"github.com/iburimskiy/particle-floor/internal/postfx"
	"github.com/iburimskiy/particle-floor/internal/render"
)

// Composer runs the post-processing chain.
type Composer interface {
	Compile(passes []postfx.Pass) error
	SetSize(width, height int)
	Reset()
	Render(draw func(dst *ebiten.Image))
	Pass(p postfx.Pass)
	ToScreen(screen *ebiten.Image)
}

// Renderer draws the particle field.
type Renderer interface {
	Draw(dst *ebiten.Image, f *floor.Field, cam *camera.Camera)
}

// Damping holds the per-axis smoothing of the camera follow.
type Damping struct {
	Camera mgl32.Vec3
	Mouse  mgl32.Vec3
}

// DefaultDamping is the reference camera follow.
var DefaultDamping = Damping{
	Camera: mgl32.Vec3{config.CameraDamping, config.CameraDamping, config.CameraDamping},
	Mouse:  mgl32.Vec3{config.MouseDamping, config.MouseDamping, config.MouseDamping},
}

// ClearColor is the background of every frame.
var ClearColor = color.RGBA{
	R: config.ClearColor >> 16 & 0xff,
	G: config.ClearColor >> 8 & 0xff,
	B: config.ClearColor & 0xff,
	A: 0xff,
}

// Scene is the single fixed scene of the experiment. All methods must be
// called from the loop goroutine.
type Scene struct {
	params config.Params
	log    *zap.Logger

	camera  *camera.Camera
	damping Damping
	// pointer is in [-1,1] on both axes, y down.
	pointer mgl32.Vec2
	// screen is the last raw pointer position in logical pixels.
	screen mgl32.Vec2

	ground camera.Plane
	field  *floor.Field
	passes []postfx.Pass

	// composer is nil without post-processing.
	composer Composer
	renderer Renderer

	surfaceWidth  int
	surfaceHeight int

	bindings map[ebiten.Key]func()
}

type options struct {
	composer Composer
	renderer Renderer
	rand     *rand.Rand
	log      *zap.Logger
	assets   fs.FS
	texture  string
	damping  *Damping
}

// Option customizes New.
type Option func(*options)

// WithComposer replaces the default off-screen composer.
func WithComposer(c Composer) Option { return func(o *options) { o.composer = c } }

// WithRenderer replaces the default point renderer.
func WithRenderer(r Renderer) Option { return func(o *options) { o.renderer = r } }

// WithRand seeds the particle field.
func WithRand(r *rand.Rand) Option { return func(o *options) { o.rand = r } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.log = l } }

// WithTexture loads the particle sprite from fsys in the background.
func WithTexture(fsys fs.FS, path string) Option {
	return func(o *options) {
		o.assets = fsys
		o.texture = path
	}
}

// WithDamping overrides DefaultDamping.
func WithDamping(d Damping) Option { return func(o *options) { o.damping = &d } }

// New builds the scene. Errors creating the rendering resources are returned.
func New(params config.Params, opts ...Option) (*Scene, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	log := logger.OrNop(o.log)

	if params.Size.Width <= 0 || params.Size.Height <= 0 {
		return nil, fmt.Errorf("invalid viewport %dx%d", params.Size.Width, params.Size.Height)
	}

	s := &Scene{
		params:   params,
		log:      log,
		damping:  DefaultDamping,
		bindings: make(map[ebiten.Key]func()),
	}
	if o.damping != nil {
		s.damping = *o.damping
	}

	s.camera = camera.NewPerspective(
		config.FieldOfView,
		float32(params.Size.Width)/float32(params.Size.Height),
		config.NearPlane,
		config.FarPlane,
	)
	s.camera.Position = mgl32.Vec3{0, 0, config.CameraDistance}

	s.surfaceWidth, s.surfaceHeight = s.surfaceSize(params.Size.Width, params.Size.Height)

	s.passes = postfx.Chain(params.Noise, params.Vignette)
	if params.PostProcessing {
		s.composer = o.composer
		if s.composer == nil {
			s.composer = postfx.NewComposer(s.surfaceWidth, s.surfaceHeight, ClearColor, log)
		}
		if err := s.composer.Compile(s.passes); err != nil {
			return nil, fmt.Errorf("post-processing: %w", err)
		}
	}

	s.renderer = o.renderer
	if s.renderer == nil {
		r, err := render.NewPoints(ClearColor)
		if err != nil {
			return nil, err
		}
		s.renderer = r
	}

	s.ground = camera.Plane{Width: config.RayPlaneSize, Height: config.RayPlaneSize}

	field, err := floor.New(floor.Options{
		Width:  config.FieldWidth,
		Height: config.FieldHeight,
		Knobs:  params.Floor,
		Rand:   o.rand,
	})
	if err != nil {
		return nil, fmt.Errorf("particle field: %w", err)
	}
	s.field = field
	if o.assets != nil {
		field.LoadTexture(o.assets, o.texture, log)
	}

	log.Info("scene ready",
		zap.String("name", params.Name),
		zap.String("device", string(params.Device)),
		zap.Bool("postProcessing", params.PostProcessing),
		zap.Int("points", field.Len()),
	)
	return s, nil
}

// RenderFrame draws one frame to screen and advances the animation.
func (s *Scene) RenderFrame(screen *ebiten.Image) {
	if s.params.PostProcessing {
		s.composer.Reset()
		s.composer.Render(func(dst *ebiten.Image) {
			s.renderer.Draw(dst, s.field, s.camera)
		})
		for _, p := range s.passes {
			if p.Enabled() {
				s.composer.Pass(p)
			}
		}
		s.composer.ToScreen(screen)
	} else {
		s.renderer.Draw(screen, s.field, s.camera)
	}

	s.followPointer()
	s.field.Update()
}

// followPointer eases the camera orientation towards the pointer.
func (s *Scene) followPointer() {
	rot := s.camera.Rotation
	x := rot.X() + (s.pointer.Y()*s.damping.Mouse.X()-rot.X())*s.damping.Camera.X()
	y := rot.Y() + (-s.pointer.X()*s.damping.Mouse.Y()-rot.Y())*s.damping.Camera.Y()
	s.camera.Rotation = mgl32.Vec3{x, y, rot.Z()}
}

// Resize adapts the scene to a new viewport in logical pixels.
func (s *Scene) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	s.params.Size = config.Size{Width: width, Height: height}
	s.surfaceWidth, s.surfaceHeight = s.surfaceSize(width, height)

	if s.composer != nil {
		s.composer.SetSize(s.surfaceWidth, s.surfaceHeight)
	}
	s.camera.Aspect = float32(width) / float32(height)
	s.camera.UpdateProjectionMatrix()
}

// SetPixelRatio changes the device pixel ratio and resizes the backing
// surface to match. Non-positive ratios are ignored.
func (s *Scene) SetPixelRatio(ratio float64) {
	if ratio <= 0 || ratio == s.params.PixelRatio {
		return
	}
	s.params.PixelRatio = ratio
	s.Resize(s.params.Size.Width, s.params.Size.Height)
	s.log.Debug("pixel ratio changed", zap.Float64("ratio", ratio))
}

func (s *Scene) surfaceSize(width, height int) (int, int) {
	r := s.params.Ratio()
	return int(float64(width) * r), int(float64(height) * r)
}

// SurfaceSize is the backing surface size in device pixels.
func (s *Scene) SurfaceSize() (int, int) { return s.surfaceWidth, s.surfaceHeight }

// Params returns the construction parameters, with the current viewport size.
func (s *Scene) Params() config.Params { return s.params }

// Camera returns the scene camera.
func (s *Scene) Camera() *camera.Camera { return s.camera }

// Field returns the particle floor.
func (s *Scene) Field() *floor.Field { return s.field }

// Passes returns the post-processing chain in application order.
func (s *Scene) Passes() []postfx.Pass { return s.passes }

// Pointer returns the pointer in normalized coordinates.
func (s *Scene) Pointer() mgl32.Vec2 { return s.pointer }

// Ground returns the invisible raycast target.
func (s *Scene) Ground() camera.Plane { return s.ground }

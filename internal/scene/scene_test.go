package scene

import (
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/particle-floor/internal/camera"
	"github.com/iburimskiy/particle-floor/internal/config"
	"github.com/iburimskiy/particle-floor/internal/device"
	"github.com/iburimskiy/particle-floor/internal/floor"
	"github.com/iburimskiy/particle-floor/internal/postfx"
)

type recorder struct {
	calls []string
}

type fakeComposer struct {
	rec        *recorder
	compileErr error
	width      int
	height     int
}

func (c *fakeComposer) Compile(passes []postfx.Pass) error {
	c.rec.calls = append(c.rec.calls, "compile")
	return c.compileErr
}

func (c *fakeComposer) SetSize(width, height int) {
	c.width, c.height = width, height
}

func (c *fakeComposer) Reset() { c.rec.calls = append(c.rec.calls, "reset") }

func (c *fakeComposer) Render(draw func(dst *ebiten.Image)) {
	c.rec.calls = append(c.rec.calls, "render")
	draw(nil)
}

func (c *fakeComposer) Pass(p postfx.Pass) {
	c.rec.calls = append(c.rec.calls, "pass:"+p.Name())
}

func (c *fakeComposer) ToScreen(*ebiten.Image) { c.rec.calls = append(c.rec.calls, "screen") }

type fakeRenderer struct {
	rec *recorder
}

func (r *fakeRenderer) Draw(*ebiten.Image, *floor.Field, *camera.Camera) {
	r.rec.calls = append(r.rec.calls, "draw")
}

func newScene(t *testing.T, p config.Params) (*Scene, *recorder, *fakeComposer) {
	t.Helper()
	rec := &recorder{}
	comp := &fakeComposer{rec: rec}
	s, err := New(p,
		WithComposer(comp),
		WithRenderer(&fakeRenderer{rec: rec}),
		WithRand(rand.New(rand.NewPCG(3, 4))),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec.calls = nil
	return s, rec, comp
}

func desktop() config.Params {
	return config.Defaults(device.Desktop, config.Size{Width: 800, Height: 600})
}

func TestNewCamera(t *testing.T) {
	s, _, _ := newScene(t, desktop())
	c := s.Camera()
	if c.FOV != 50 || c.Near != 1 || c.Far != 1000 {
		t.Errorf("camera = fov %v near %v far %v", c.FOV, c.Near, c.Far)
	}
	if c.Aspect != float32(800)/float32(600) {
		t.Errorf("aspect = %v", c.Aspect)
	}
	if c.Position != (mgl32.Vec3{0, 0, 100}) {
		t.Errorf("position = %v", c.Position)
	}
	if g := s.Ground(); g.Width != 2000 || g.Height != 2000 {
		t.Errorf("ground = %+v", g)
	}
	if s.Field().Len() != config.FieldWidth*config.FieldHeight {
		t.Errorf("field has %d points", s.Field().Len())
	}
}

func TestNewFailsFast(t *testing.T) {
	boom := errors.New("no surface")
	rec := &recorder{}
	_, err := New(desktop(),
		WithComposer(&fakeComposer{rec: rec, compileErr: boom}),
		WithRenderer(&fakeRenderer{rec: rec}),
	)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapping %v", err, boom)
	}

	bad := desktop()
	bad.Size = config.Size{}
	if _, err := New(bad, WithComposer(&fakeComposer{rec: rec}), WithRenderer(&fakeRenderer{rec: rec})); err == nil {
		t.Error("expected error for empty viewport")
	}
}

func TestPassOrderAnyDevice(t *testing.T) {
	for _, dev := range []device.Class{device.Desktop, device.Tablet, device.Phone, "console"} {
		s, _, _ := newScene(t, config.Defaults(dev, config.Size{Width: 320, Height: 480}))
		var names []string
		for _, p := range s.Passes() {
			names = append(names, p.Name())
		}
		want := []string{"FXAAPass", "NoisePass", "VignettePass"}
		if !reflect.DeepEqual(names, want) {
			t.Errorf("%s: passes = %v", dev, names)
		}

		v := s.Passes()[2].(*postfx.Vignette)
		wantReduction := 0.5
		if dev == device.Phone {
			wantReduction = 0.2
		}
		if v.Reduction != wantReduction || v.Boost != 1.05 {
			t.Errorf("%s: vignette = %+v", dev, v)
		}
		n := s.Passes()[1].(*postfx.Noise)
		if n.Amount != 0.04 || n.Speed != 0.2 {
			t.Errorf("%s: noise = %+v", dev, n)
		}
	}
}

func TestRenderFrameComposition(t *testing.T) {
	s, rec, _ := newScene(t, desktop())
	s.RenderFrame(nil)
	want := []string{"reset", "render", "draw", "pass:FXAAPass", "pass:NoisePass", "pass:VignettePass", "screen"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v\nwant   %v", rec.calls, want)
	}

	rec.calls = nil
	s.Passes()[1].SetEnabled(false)
	s.RenderFrame(nil)
	want = []string{"reset", "render", "draw", "pass:FXAAPass", "pass:VignettePass", "screen"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("with noise disabled calls = %v", rec.calls)
	}
}

func TestRenderFrameDirect(t *testing.T) {
	p := desktop()
	p.PostProcessing = false
	s, rec, _ := newScene(t, p)
	s.UpdatePointer(800, 0)
	s.RenderFrame(nil)

	if !reflect.DeepEqual(rec.calls, []string{"draw"}) {
		t.Errorf("calls = %v", rec.calls)
	}
	if s.Camera().Rotation == (mgl32.Vec3{}) {
		t.Error("camera damping must run without post-processing too")
	}
	if got := s.Field().Uniforms().Tick; math.Abs(got-0.01) > 1e-12 {
		t.Errorf("tick = %v", got)
	}
}

func TestRenderFrameAdvancesTick(t *testing.T) {
	s, _, _ := newScene(t, desktop())
	for i := 0; i < 120; i++ {
		s.RenderFrame(nil)
	}
	if got := s.Field().Uniforms().Tick; math.Abs(got-1.2) > 1e-9 {
		t.Errorf("tick after 120 frames = %v", got)
	}
}

func TestCameraDamping(t *testing.T) {
	s, _, _ := newScene(t, desktop())
	s.UpdatePointer(600, 150) // pointer (0.5, -0.5)

	ptr := s.Pointer()
	targetX := ptr.Y() * 0.03
	targetY := -ptr.X() * 0.03

	for frame := 0; frame < 5; frame++ {
		old := s.Camera().Rotation
		s.RenderFrame(nil)
		got := s.Camera().Rotation

		wantX := old.X() + (targetX-old.X())*0.02
		wantY := old.Y() + (targetY-old.Y())*0.02
		if !near(got.X(), wantX) || !near(got.Y(), wantY) {
			t.Fatalf("frame %d: rotation = %v, want (%v, %v)", frame, got, wantX, wantY)
		}
		if got.Z() != old.Z() {
			t.Fatalf("frame %d: z rotation changed", frame)
		}
		// strictly closer to the target, never past it
		if math.Abs(float64(targetX-got.X())) >= math.Abs(float64(targetX-old.X())) {
			t.Fatalf("frame %d: x did not approach target", frame)
		}
		if (targetY-got.Y())*(targetY-old.Y()) < 0 {
			t.Fatalf("frame %d: y overshot", frame)
		}
	}
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 1e-7
}

func TestUpdatePointer(t *testing.T) {
	s, _, _ := newScene(t, desktop())
	tests := []struct {
		x, y float64
		want mgl32.Vec2
	}{
		{0, 0, mgl32.Vec2{-1, -1}},
		{800, 600, mgl32.Vec2{1, 1}},
		{400, 300, mgl32.Vec2{0, 0}},
		{200, 450, mgl32.Vec2{-0.5, 0.5}},
	}
	for _, tt := range tests {
		s.UpdatePointer(tt.x, tt.y)
		if got := s.Pointer(); !got.ApproxEqual(tt.want) {
			t.Errorf("UpdatePointer(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if got := s.ScreenPointer(); got != (mgl32.Vec2{200, 450}) {
		t.Errorf("ScreenPointer = %v", got)
	}
}

func TestPointerStaysNormalized(t *testing.T) {
	s, _, _ := newScene(t, desktop())
	for x := -100.0; x <= 900; x += 37 {
		for y := -100.0; y <= 700; y += 41 {
			s.MouseMove(x, y)
			p := s.Pointer()
			if p.X() < -1 || p.X() > 1 || p.Y() < -1 || p.Y() > 1 {
				t.Fatalf("pointer %v out of range for (%v, %v)", p, x, y)
			}
		}
	}
}

func TestPointerDisabled(t *testing.T) {
	p := config.Defaults(device.Phone, config.Size{Width: 400, Height: 800})
	s, _, _ := newScene(t, p)

	s.UpdatePointer(10, 10)
	s.Click(10, 10)
	s.MouseMove(10, 10)
	if s.Pointer() != (mgl32.Vec2{}) {
		t.Errorf("mouse disabled but pointer = %v", s.Pointer())
	}

	s.TouchMove([]Touch{{ID: 1, X: 400, Y: 0}, {ID: 2, X: 0, Y: 0}})
	if got := s.Pointer(); !got.ApproxEqual(mgl32.Vec2{1, -1}) {
		t.Errorf("touch move pointer = %v", got)
	}

	d, _, _ := newScene(t, desktop())
	d.TouchMove([]Touch{{X: 0, Y: 0}})
	d.TouchMove(nil)
	if d.Pointer() != (mgl32.Vec2{}) {
		t.Errorf("touch disabled but pointer = %v", d.Pointer())
	}
}

func TestResizeIdempotent(t *testing.T) {
	p := desktop()
	p.PixelRatio = 2
	s, _, comp := newScene(t, p)

	s.Resize(1024, 512)
	aspect := s.Camera().Aspect
	proj := s.Camera().Projection()
	w, h := s.SurfaceSize()

	s.Resize(1024, 512)
	if s.Camera().Aspect != aspect || s.Camera().Projection() != proj {
		t.Error("second resize changed the camera")
	}
	if w2, h2 := s.SurfaceSize(); w2 != w || h2 != h {
		t.Errorf("surface %dx%d -> %dx%d", w, h, w2, h2)
	}
	if w != 2048 || h != 1024 {
		t.Errorf("surface = %dx%d, want 2048x1024", w, h)
	}
	if comp.width != 2048 || comp.height != 1024 {
		t.Errorf("composer = %dx%d", comp.width, comp.height)
	}
	if aspect != 2 {
		t.Errorf("aspect = %v", aspect)
	}

	s.UpdatePointer(1024, 512)
	if got := s.Pointer(); !got.ApproxEqual(mgl32.Vec2{1, 1}) {
		t.Errorf("pointer after resize = %v", got)
	}
}

func TestCastRay(t *testing.T) {
	s, _, _ := newScene(t, desktop())

	s.UpdatePointer(400, 300)
	hit, ok := s.CastRay()
	if !ok {
		t.Fatal("center ray should hit the ground")
	}
	if !hit.ApproxEqualThreshold(mgl32.Vec3{}, 1e-3) {
		t.Errorf("hit = %v", hit)
	}
	u := s.Field().Uniforms()
	if !u.HasFocus || u.Focus != hit {
		t.Errorf("focus not forwarded: %+v", u)
	}

	// top of the screen maps to positive world y
	s.UpdatePointer(400, 0)
	hit, ok = s.CastRay()
	if !ok || hit.Y() <= 0 {
		t.Errorf("top hit = %v, %v", hit, ok)
	}
}

func TestCastRayMiss(t *testing.T) {
	s, _, _ := newScene(t, desktop())
	s.Camera().Rotation = mgl32.Vec3{math.Pi / 2, 0, 0} // looking up along +y
	if _, ok := s.CastRay(); ok {
		t.Error("expected miss when looking away from the ground")
	}
	if s.Field().Uniforms().HasFocus {
		t.Error("miss must not set focus")
	}
}

func TestRaycastFlag(t *testing.T) {
	s, _, _ := newScene(t, desktop())
	s.MouseMove(400, 300)
	if s.Field().Uniforms().HasFocus {
		t.Error("raycast disabled but focus set")
	}

	p := desktop()
	p.Raycast = true
	r, _, _ := newScene(t, p)
	r.MouseMove(400, 300)
	if !r.Field().Uniforms().HasFocus {
		t.Error("raycast enabled but focus not set")
	}
}

func TestKeyBindings(t *testing.T) {
	var fired int

	s, _, _ := newScene(t, desktop())
	s.Bind(ebiten.KeyO, func() { fired++ })
	s.KeyDown(ebiten.KeyO)
	s.KeyUp(ebiten.KeyO)
	s.KeyPress('o')
	if fired != 0 {
		t.Error("keyboard disabled but binding fired")
	}

	p := desktop()
	p.Keyboard = true
	k, _, _ := newScene(t, p)
	k.Bind(ebiten.KeyO, func() { fired++ })
	k.KeyDown(ebiten.KeyO)
	k.KeyDown(ebiten.KeyP)
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
}

func TestNoComposerWithoutPostProcessing(t *testing.T) {
	p := desktop()
	p.PostProcessing = false
	rec := &recorder{}
	s, err := New(p, WithRenderer(&fakeRenderer{rec: rec}))
	if err != nil {
		t.Fatal(err)
	}
	if s.composer != nil {
		t.Fatal("composer built without post-processing")
	}
	s.Resize(640, 480)
	s.RenderFrame(nil)
	if !reflect.DeepEqual(rec.calls, []string{"draw"}) {
		t.Errorf("calls = %v", rec.calls)
	}

	// a supplied composer is left alone too
	d, _, comp := newScene(t, p)
	d.Resize(640, 480)
	if comp.width != 0 || comp.height != 0 {
		t.Errorf("unused composer resized to %dx%d", comp.width, comp.height)
	}
}

func TestSetPixelRatio(t *testing.T) {
	s, _, comp := newScene(t, desktop())
	if w, h := s.SurfaceSize(); w != 800 || h != 600 {
		t.Fatalf("surface = %dx%d", w, h)
	}

	s.SetPixelRatio(2)
	if w, h := s.SurfaceSize(); w != 1600 || h != 1200 {
		t.Errorf("surface = %dx%d, want 1600x1200", w, h)
	}
	if comp.width != 1600 || comp.height != 1200 {
		t.Errorf("composer = %dx%d", comp.width, comp.height)
	}
	if s.Params().PixelRatio != 2 {
		t.Errorf("ratio = %v", s.Params().PixelRatio)
	}

	s.SetPixelRatio(0)
	if w, _ := s.SurfaceSize(); w != 1600 {
		t.Error("zero ratio applied")
	}
	// pointer mapping stays in logical pixels
	s.UpdatePointer(800, 600)
	if got := s.Pointer(); !got.ApproxEqual(mgl32.Vec2{1, 1}) {
		t.Errorf("pointer = %v", got)
	}
}

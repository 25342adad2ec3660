package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Touch is one active touch point in logical pixels.
type Touch struct {
	ID   int
	X, Y float64
}

// UpdatePointer maps a position in logical pixels to [-1,1] on both axes.
// It does nothing unless mouse input is enabled.
func (s *Scene) UpdatePointer(x, y float64) {
	if !s.params.Mouse {
		return
	}
	s.setPointer(x, y)
}

func (s *Scene) setPointer(x, y float64) {
	w, h := float64(s.params.Size.Width), float64(s.params.Size.Height)
	s.screen = mgl32.Vec2{float32(x), float32(y)}
	s.pointer = mgl32.Vec2{
		float32(clampUnit((x/w - 0.5) * 2)),
		float32(clampUnit((y/h - 0.5) * 2)),
	}
}

// ScreenPointer returns the last pointer position in logical pixels.
func (s *Scene) ScreenPointer() mgl32.Vec2 { return s.screen }

func clampUnit(v float64) float64 {
	return min(max(v, -1), 1)
}

// Click handles a primary button press.
func (s *Scene) Click(x, y float64) {
	s.UpdatePointer(x, y)
}

// MouseMove handles cursor motion. With raycasting enabled the pointer is also
// cast onto the ground plane.
func (s *Scene) MouseMove(x, y float64) {
	if !s.params.Mouse {
		return
	}
	s.UpdatePointer(x, y)
	if s.params.Raycast {
		s.CastRay()
	}
}

// CastRay intersects the pointer ray with the ground plane and hands the hit
// to the particle field. A miss is not an error.
func (s *Scene) CastRay() (mgl32.Vec3, bool) {
	// pointer y grows downward, NDC y upward
	ndc := mgl32.Vec2{s.pointer.X(), -s.pointer.Y()}
	ray := s.camera.RayFromNDC(ndc)
	hit, ok := s.ground.Intersect(ray)
	if !ok {
		return mgl32.Vec3{}, false
	}
	s.field.SetFocus(hit)
	return hit, true
}

// TouchStart is a hook for touch devices.
func (s *Scene) TouchStart(touches []Touch) {
	if !s.params.Touch {
		return
	}
	s.log.Debug("touch start", zap.Int("touches", len(touches)))
}

// TouchEnd is a hook for touch devices.
func (s *Scene) TouchEnd(touches []Touch) {
	if !s.params.Touch {
		return
	}
	s.log.Debug("touch end", zap.Int("touches", len(touches)))
}

// TouchMove follows the first touch point like a cursor.
func (s *Scene) TouchMove(touches []Touch) {
	if !s.params.Touch || len(touches) == 0 {
		return
	}
	s.setPointer(touches[0].X, touches[0].Y)
	if s.params.Raycast {
		s.CastRay()
	}
}

// Bind registers fn for key. Bindings only fire with keyboard input enabled.
func (s *Scene) Bind(key ebiten.Key, fn func()) {
	s.bindings[key] = fn
}

// KeyDown runs the binding of key, if any.
func (s *Scene) KeyDown(key ebiten.Key) {
	if !s.params.Keyboard {
		return
	}
	if fn, ok := s.bindings[key]; ok {
		fn()
	}
}

// KeyUp is a hook for key releases.
func (s *Scene) KeyUp(key ebiten.Key) {
	if !s.params.Keyboard {
		return
	}
	s.log.Debug("key up", zap.String("key", key.String()))
}

// KeyPress receives typed characters.
func (s *Scene) KeyPress(r rune) {
	if !s.params.Keyboard {
		return
	}
	s.log.Debug("key press", zap.String("char", string(r)))
}

package floor

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	waveFrequency = 0.08
	waveHeight    = 4.0
	focusLift     = 6.0
	focusRadius2  = 64.0
	pulseSpeed    = 2.0
)

// Vertex runs the vertex stage for point i and returns its displaced world
// position and sprite size. Geometry is never written back.
func (f *Field) Vertex(i int) (pos mgl32.Vec3, size float32) {
	p := f.points[i]
	u := f.uniforms

	t := u.Tick * u.TimeScale
	x, y := float64(p.Position.X()), float64(p.Position.Y())
	fx := x * waveFrequency * u.Repeat
	fy := y * waveFrequency * u.Repeat

	z := wave(fx+t, fy-t) * waveHeight * u.NoiseScale
	if u.HasFocus {
		dx := x + float64(f.position.X()) - float64(u.Focus.X())
		dy := y + float64(f.position.Y()) - float64(u.Focus.Y())
		z += focusLift * math.Exp(-(dx*dx+dy*dy)/focusRadius2)
	}

	pulse := 0.75 + 0.25*math.Sin(t*pulseSpeed*math.Pi+float64(p.Phase)*2*math.Pi)
	size = p.Size * float32(pulse*u.PointSizeScale*(1+u.Level))

	pos = mgl32.Vec3{p.Position.X(), p.Position.Y(), p.Position.Z() + float32(z)}.Add(f.position)
	return pos, size
}

// wave is a cheap smooth field in [-1,1].
func wave(u, v float64) float64 {
	return (math.Sin(u)*math.Cos(v) + 0.5*math.Sin(2.1*u+1.3*v+1.7)) / 1.5
}

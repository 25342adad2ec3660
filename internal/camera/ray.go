package camera

import "github.com/go-gl/mathgl/mgl32"

// Ray is a half line. Direction is unit length.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Plane is a double sided rectangle lying in the XY plane around Center.
type Plane struct {
	Center mgl32.Vec3
	Width  float32
	Height float32
}

var planeNormal = mgl32.Vec3{0, 0, 1}

// Intersect returns the first point where r crosses p.
func (p Plane) Intersect(r Ray) (mgl32.Vec3, bool) {
	denom := planeNormal.Dot(r.Direction)
	if abs32(denom) < 1e-6 {
		return mgl32.Vec3{}, false
	}
	t := p.Center.Sub(r.Origin).Dot(planeNormal) / denom
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	hit := r.At(t)
	d := hit.Sub(p.Center)
	if abs32(d.X()) > p.Width/2 || abs32(d.Y()) > p.Height/2 {
		return mgl32.Vec3{}, false
	}
	return hit, true
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

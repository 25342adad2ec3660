// Package camera holds the perspective camera and the ray math used to pick
// points on the ground plane.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera. Rotation is an XYZ Euler triple in radians.
type Camera struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3

	FOV    float32 // vertical, degrees
	Aspect float32
	Near   float32
	Far    float32

	projection mgl32.Mat4
}

// NewPerspective builds a camera at the origin and computes its projection.
func NewPerspective(fov, aspect, near, far float32) *Camera {
	c := &Camera{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
	c.UpdateProjectionMatrix()
	return c
}

// UpdateProjectionMatrix must be called after FOV, Aspect, Near or Far change.
func (c *Camera) UpdateProjectionMatrix() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// Projection returns the cached projection matrix.
func (c *Camera) Projection() mgl32.Mat4 { return c.projection }

// World returns the camera-to-world transform.
func (c *Camera) World() mgl32.Mat4 {
	rot := mgl32.HomogRotate3DX(c.Rotation.X()).
		Mul4(mgl32.HomogRotate3DY(c.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DZ(c.Rotation.Z()))
	return mgl32.Translate3D(c.Position.X(), c.Position.Y(), c.Position.Z()).Mul4(rot)
}

// View returns the world-to-camera transform.
func (c *Camera) View() mgl32.Mat4 { return c.World().Inv() }

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.View())
}

// Project maps a world point to normalized device coordinates. w is the clip
// space w, i.e. the distance in front of the camera; points with w <= Near are
// behind the near plane.
func Project(viewProj mgl32.Mat4, p mgl32.Vec3) (ndc mgl32.Vec3, w float32) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	w = clip.W()
	if w == 0 {
		return mgl32.Vec3{}, 0
	}
	return clip.Vec3().Mul(1 / w), w
}

// Unproject maps a point in normalized device coordinates back to world space.
func (c *Camera) Unproject(ndc mgl32.Vec3) mgl32.Vec3 {
	inv := c.ViewProjection().Inv()
	v := inv.Mul4x1(ndc.Vec4(1))
	return v.Vec3().Mul(1 / v.W())
}

// RayFromNDC returns the ray leaving the camera through a point of the screen
// expressed in normalized device coordinates (y up).
func (c *Camera) RayFromNDC(ndc mgl32.Vec2) Ray {
	target := c.Unproject(mgl32.Vec3{ndc.X(), ndc.Y(), 0.5})
	return Ray{
		Origin:    c.Position,
		Direction: target.Sub(c.Position).Normalize(),
	}
}

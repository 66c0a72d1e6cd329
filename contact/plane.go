// Package contact implements a continuous, differentiable contact and
// friction force between a tracked point on a body and a flat surface.
//
// The normal force is an exponential repulsion with nonlinear damping; the
// friction force blends an anchored elastic spring (stuck regime) with a
// capped viscous damper (sliding regime). The blend is driven by a
// continuous sliding state integrated by the host, so the resultant force
// never jumps under stiff integration.
package contact

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Plane is the contact surface frame. Its z-axis is the surface normal;
// the x and y axes span the tangent plane. A Plane is immutable for the
// duration of a simulation run.
type Plane struct {
	origin     r3.Vec
	ax, ay, az r3.Vec
}

// NewPlane builds a contact plane from an origin and an outward surface
// normal. The tangent basis is derived from the normal; callers that need
// specific tangent directions should use NewPlaneAxes.
func NewPlane(origin, normal r3.Vec) Plane {
	az := normal
	if n := r3.Norm(az); n < significantReal {
		az = r3.Vec{Z: 1}
	} else {
		az = r3.Scale(1/n, az)
	}

	// Gram-Schmidt against the world axis least aligned with the normal.
	ref := r3.Vec{X: 1}
	if math.Abs(az.X) > 0.9 {
		ref = r3.Vec{Y: 1}
	}
	ax := r3.Sub(ref, r3.Scale(r3.Dot(ref, az), az))
	ax = r3.Scale(1/r3.Norm(ax), ax)
	ay := r3.Cross(az, ax)

	return Plane{origin: origin, ax: ax, ay: ay, az: az}
}

// NewPlaneAxes builds a contact plane from an origin and an explicit
// orthonormal basis. The axes are assumed orthonormal and right-handed;
// az is the surface normal.
func NewPlaneAxes(origin, ax, ay, az r3.Vec) Plane {
	return Plane{origin: origin, ax: ax, ay: ay, az: az}
}

// Origin returns the plane origin in the world frame.
func (pl Plane) Origin() r3.Vec { return pl.origin }

// Normal returns the surface normal in the world frame.
func (pl Plane) Normal() r3.Vec { return pl.az }

// ToLocal expresses a world-frame point in the plane frame.
func (pl Plane) ToLocal(p r3.Vec) r3.Vec {
	d := r3.Sub(p, pl.origin)
	return r3.Vec{X: r3.Dot(d, pl.ax), Y: r3.Dot(d, pl.ay), Z: r3.Dot(d, pl.az)}
}

// VecToLocal rotates a world-frame vector into the plane frame.
func (pl Plane) VecToLocal(v r3.Vec) r3.Vec {
	return r3.Vec{X: r3.Dot(v, pl.ax), Y: r3.Dot(v, pl.ay), Z: r3.Dot(v, pl.az)}
}

// PointToWorld expresses a plane-frame point in the world frame.
func (pl Plane) PointToWorld(p r3.Vec) r3.Vec {
	return r3.Add(pl.origin, pl.VecToWorld(p))
}

// VecToWorld rotates a plane-frame vector into the world frame.
func (pl Plane) VecToWorld(v r3.Vec) r3.Vec {
	w := r3.Scale(v.X, pl.ax)
	w = r3.Add(w, r3.Scale(v.Y, pl.ay))
	w = r3.Add(w, r3.Scale(v.Z, pl.az))
	return w
}

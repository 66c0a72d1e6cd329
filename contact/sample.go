package contact

import "gonum.org/v1/gonum/spatial/r3"

// Sample holds every quantity computed during one force evaluation. It is
// valid for the duration of that step only; callers that need history must
// copy it. Fields without a World suffix are expressed in the plane frame.
type Sample struct {
	// Kinematics of the tracked point.
	PosWorld r3.Vec // position in the world frame
	VelWorld r3.Vec // velocity in the world frame
	Pos      r3.Vec // position in the plane frame
	Vel      r3.Vec // velocity in the plane frame, noise-snapped

	// Normal / tangential split.
	Pz  float64 // displacement along the surface normal
	Vz  float64 // velocity along the surface normal
	Pxy r3.Vec  // position projected onto the tangent plane
	Vxy r3.Vec  // velocity projected onto the tangent plane

	// Normal force.
	FzElas float64 // elastic part
	FzDamp float64 // damping part
	Fz     float64 // total, clamped to [0, maxNormalForce]

	// Friction.
	Mu             float64 // instantaneous coefficient of friction
	FxyLimit       float64 // Coulomb limit mu*Fz
	FricElas       r3.Vec  // elastic part of the friction force
	FricDamp       r3.Vec  // damping part of the friction force
	Fric           r3.Vec  // total friction force
	Fxy            float64 // magnitude of the friction force
	LimitSaturated bool    // the anchored-spring force hit the Coulomb limit

	// Resultant.
	Force      r3.Vec // normal + friction, plane frame
	ForceWorld r3.Vec // normal + friction, world frame
}

package contact

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Spring computes the contact force between one tracked point and one
// contact plane. It owns the friction anchor and the raw sliding state;
// the host integrator owns their advancement.
//
// The required call order within one step is:
//
//	sample := spr.Evaluate(pos, vel)   // force stage
//	e := spr.PotentialEnergy()         // optional, after Evaluate
//	sDot := spr.SlidingDot(acc)        // after acceleration is known
//	spr.SetSliding(...); spr.Advance() // step boundary
//
// Calling PotentialEnergy or SlidingDot before Evaluate in the same step
// yields stale results; that is a caller contract violation, not a
// detected error. A Spring is not safe for concurrent use, but distinct
// Springs share no state and may be evaluated in parallel.
type Spring struct {
	plane  Plane
	params Parameters
	coeffs Coefficients

	// anchor is the friction-spring zero effective for the current step.
	// pending is the value computed by Evaluate; it becomes the anchor at
	// the next Advance. The double buffer keeps the anchor from depending
	// on itself within a single step.
	anchor  r3.Vec
	pending r3.Vec

	// sliding is the raw integrated state. It is clamped to [0,1] only
	// when read for force computation, never mutated by clamping.
	sliding float64

	sample   Sample
	realized bool
}

// New creates a contact spring for the given plane. The sliding state
// starts at 1 (fully sliding) so that a point introduced away from
// equilibrium does not fire a spurious static-friction force; it decays
// toward 0 once the point settles.
func New(plane Plane, coeffs Coefficients, params Parameters) (*Spring, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid contact parameters: %w", err)
	}
	return &Spring{
		plane:   plane,
		params:  params,
		coeffs:  coeffs,
		sliding: 1.0,
	}, nil
}

// Plane returns the contact plane.
func (s *Spring) Plane() Plane { return s.plane }

// Parameters returns the current parameters.
func (s *Spring) Parameters() Parameters { return s.params }

// SetParameters applies new parameters and invalidates the evaluation
// cache. This is the explicit re-initialization point: the next Evaluate
// runs with the new values, and any Sample or energy from before it is
// void.
func (s *Spring) SetParameters(p Parameters) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid contact parameters: %w", err)
	}
	s.params = p
	s.realized = false
	return nil
}

// MuStatic returns the static coefficient of friction.
func (s *Spring) MuStatic() float64 { return s.coeffs.Static() }

// MuKinetic returns the kinetic coefficient of friction.
func (s *Spring) MuKinetic() float64 { return s.coeffs.Kinetic() }

// SetMuStatic sets the static coefficient; see Coefficients.SetStatic for
// the cross-adjustment of the kinetic coefficient.
func (s *Spring) SetMuStatic(mu float64) { s.coeffs.SetStatic(mu) }

// SetMuKinetic sets the kinetic coefficient; see Coefficients.SetKinetic
// for the cross-adjustment of the static coefficient.
func (s *Spring) SetMuKinetic(mu float64) { s.coeffs.SetKinetic(mu) }

// Sliding returns the raw sliding state as integrated by the host. The
// value may stray outside [0,1]; force computation clamps on read.
func (s *Spring) Sliding() float64 { return s.sliding }

// SetSliding stores the integrated sliding state for the next evaluation.
func (s *Spring) SetSliding(v float64) { s.sliding = v }

// Realized reports whether a Sample is available for the current
// configuration.
func (s *Spring) Realized() bool { return s.realized }

// LastSample returns a copy of the Sample from the most recent Evaluate.
func (s *Spring) LastSample() Sample { return s.sample }

// Evaluate computes the contact force for the tracked point at world
// position posW moving with world velocity velW, stores the resulting
// Sample, and records the next-step anchor. Evaluating twice with
// identical state and inputs yields identical results; the anchor used is
// always the one committed by the previous Advance.
func (s *Spring) Evaluate(posW, velW r3.Vec) Sample {
	d := &s.sample
	*d = Sample{PosWorld: posW, VelWorld: velW}

	// Transform into the plane frame and split normal/tangential.
	d.Pos = s.plane.ToLocal(posW)
	d.Vel = snapSmall(s.plane.VecToLocal(velW))
	d.Pz = d.Pos.Z
	d.Vz = d.Vel.Z
	d.Pxy = tangential(d.Pos)
	d.Vxy = tangential(d.Vel)

	p := s.params

	// Normal force. Damping scales with the elastic force so that it
	// vanishes as contact is lost and cannot suck the point back in.
	d.FzElas = p.D1 * math.Exp(-p.D2*(d.Pz-p.D0))
	d.FzDamp = -p.NormalViscosity * d.Vz * d.FzElas
	d.Fz = clampAboveZero(d.FzElas+d.FzDamp, maxNormalForce)

	// Coulomb limit from the blended coefficient of friction.
	sliding := clamp01(s.sliding)
	mus := s.coeffs.Static()
	muk := s.coeffs.Kinetic()
	d.Mu = mus - sliding*(mus-muk)
	d.FxyLimit = d.Mu * d.Fz

	// Pure-sliding candidate: viscous damping capped at the Coulomb
	// limit, zeroed entirely when the limit is numerically negligible.
	fricDampSpr := r3.Scale(-p.Viscosity, d.Vxy)
	var fricDampCapped r3.Vec
	if d.FxyLimit >= significantReal {
		fricDampCapped = capToLength(fricDampSpr, d.FxyLimit)
	}

	// Pure-stuck candidate: anchored spring plus damping. When the
	// combined force exceeds the Coulomb limit, both parts are scaled
	// uniformly so the direction is preserved.
	fricElasSpr := r3.Scale(-p.Elasticity, r3.Sub(d.Pxy, s.anchor))
	fricSpr := r3.Add(fricElasSpr, fricDampSpr)
	if fxySpr := r3.Norm(fricSpr); fxySpr > d.FxyLimit {
		d.LimitSaturated = true
		scale := d.FxyLimit / fxySpr
		fricElasSpr = r3.Scale(scale, fricElasSpr)
		fricDampSpr = r3.Scale(scale, fricDampSpr)
	}

	// Blend. The elastic term is scaled down as sliding rises; the
	// damping term morphs from the stuck-regime damping into the capped
	// slider. Scaling the damping term down instead gives the wrong
	// qualitative transition.
	d.FricElas = r3.Scale(1-sliding, fricElasSpr)
	d.FricDamp = r3.Add(fricDampSpr, r3.Scale(sliding, r3.Sub(fricDampCapped, fricDampSpr)))
	d.Fric = r3.Add(d.FricElas, d.FricDamp)
	d.Fxy = r3.Norm(d.Fric)

	// Record the anchor consistent with the elastic force actually
	// applied, including any saturation scaling. It becomes effective at
	// the next Advance.
	pending := r3.Add(d.Pxy, r3.Scale(1/p.Elasticity, d.FricElas))
	pending.Z = 0
	s.pending = pending

	// Resultant in both frames.
	d.Force = d.Fric
	d.Force.Z = d.Fz
	d.ForceWorld = s.plane.VecToWorld(d.Force)

	s.realized = true
	return *d
}

// SlidingDot returns the derivative of the sliding state, to be
// integrated by the host. It must be called after Evaluate, once the
// world-frame acceleration accW of the tracked point is known.
//
// Decay toward stuck fires at static equilibrium: the Coulomb limit was
// not hit, tangential and normal speeds are below the settle velocity,
// and the acceleration magnitude is below the settle acceleration. Rise
// toward sliding fires when the limit was hit or contact is effectively
// lost; it is checked second and overwrites decay on purpose.
func (s *Spring) SlidingDot(accW r3.Vec) float64 {
	p := s.params
	kTau := 1 / p.SlidingTimeConstant
	d := &s.sample

	slidingDot := 0.0
	if !d.LimitSaturated &&
		r3.Norm(d.Vxy) < p.SettleVelocity &&
		math.Abs(d.Vz) < p.SettleVelocity &&
		r3.Norm(accW) < p.SettleAcceleration {
		slidingDot = -kTau * s.sliding
	}
	if d.LimitSaturated || d.Fz < significantReal {
		slidingDot = kTau * (1 - s.sliding)
	}
	return slidingDot
}

// PotentialEnergy returns the energy stored in the spring: the strain
// energy of the exponential normal spring plus the strain energy of the
// tangential friction spring. The friction term uses the anchor computed
// by the current step's Evaluate, not the one committed at the previous
// step boundary; the stored energy must be consistent with the elastic
// force actually applied. Valid only after Evaluate.
func (s *Spring) PotentialEnergy() float64 {
	d := &s.sample
	energy := d.FzElas / s.params.D2
	r := r3.Sub(d.Pxy, s.pending)
	return energy + 0.5*s.params.Elasticity*r3.Norm2(r)
}

// Advance commits the anchor computed by the last Evaluate, making it the
// spring zero for the next step. The host calls this exactly once per
// accepted integration step.
func (s *Spring) Advance() {
	s.anchor = s.pending
}

// ResetAnchor projects the tracked point at world position posW onto the
// contact plane and sets both anchor buffers to that point. Used at
// initialization and after teleporting a body.
func (s *Spring) ResetAnchor(posW r3.Vec) {
	p := s.plane.ToLocal(posW)
	p.Z = 0
	s.anchor = p
	s.pending = p
	s.realized = false
}

// Anchor returns the spring zero effective for the next Evaluate, in the
// plane frame, or in the world frame when inWorld is true.
func (s *Spring) Anchor(inWorld bool) r3.Vec {
	if inWorld {
		return s.plane.PointToWorld(s.anchor)
	}
	return s.anchor
}

// NormalForce returns the total normal force vector from the last
// Evaluate, in the plane frame, or in the world frame when inWorld is
// true.
func (s *Spring) NormalForce(inWorld bool) r3.Vec {
	f := r3.Vec{Z: s.sample.Fz}
	if inWorld {
		return s.plane.VecToWorld(f)
	}
	return f
}

// FrictionForce returns the total friction force vector from the last
// Evaluate, in the plane frame, or in the world frame when inWorld is
// true.
func (s *Spring) FrictionForce(inWorld bool) r3.Vec {
	if inWorld {
		return s.plane.VecToWorld(s.sample.Fric)
	}
	return s.sample.Fric
}

// Force returns the resultant contact force from the last Evaluate, in
// the plane frame, or in the world frame when inWorld is true.
func (s *Spring) Force(inWorld bool) r3.Vec {
	if inWorld {
		return s.sample.ForceWorld
	}
	return s.sample.Force
}

// Mu returns the instantaneous coefficient of friction from the last
// Evaluate.
func (s *Spring) Mu() float64 { return s.sample.Mu }

// FrictionLimit returns the Coulomb limit mu*Fz from the last Evaluate.
func (s *Spring) FrictionLimit() float64 { return s.sample.FxyLimit }

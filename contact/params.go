package contact

import "fmt"

// Parameters holds the per-spring configuration. Shape and stiffness
// parameters take effect at re-initialization (SetParameters); changing
// them mid-step-sequence without re-initialization is undefined.
type Parameters struct {
	// D0, D1, D2 shape the exponential normal force
	// fzElas = D1 * exp(-D2 * (pz - D0)).
	// D0 shifts the force curve along the normal axis, D1 scales it,
	// D2 sets how steeply it rises with penetration.
	D0 float64
	D1 float64
	D2 float64

	// NormalViscosity scales normal damping by the current elastic force,
	// so damping vanishes as contact is lost.
	NormalViscosity float64

	// Elasticity is the tangential stiffness of the anchored friction
	// spring.
	Elasticity float64

	// Viscosity is the tangential damping coefficient.
	Viscosity float64

	// SlidingTimeConstant (tau) governs how quickly the sliding state
	// rises toward 1 or decays toward 0. Must be positive.
	SlidingTimeConstant float64

	// SettleVelocity is the speed below which motion counts as static
	// equilibrium for the decay-toward-stuck transition.
	SettleVelocity float64

	// SettleAcceleration is the acceleration magnitude below which the
	// tracked point counts as settled.
	SettleAcceleration float64
}

// DefaultParameters returns parameter values suitable for a point mass of
// around 1 kg resting on a firm surface, in MKS units.
func DefaultParameters() Parameters {
	return Parameters{
		D0:                  0.0065905,
		D1:                  0.5336,
		D2:                  1150.0,
		NormalViscosity:     0.5,
		Elasticity:          2000.0,
		Viscosity:           89.4427, // 2*sqrt(Elasticity), critically damped for unit mass
		SlidingTimeConstant: 0.01,
		SettleVelocity:      0.001,
		SettleAcceleration:  100.0,
	}
}

// Validate reports whether the parameters can drive a force evaluation.
func (p Parameters) Validate() error {
	if p.SlidingTimeConstant <= 0 {
		return fmt.Errorf("sliding time constant must be positive, got %g", p.SlidingTimeConstant)
	}
	if p.D1 < 0 {
		return fmt.Errorf("normal force scale d1 must be non-negative, got %g", p.D1)
	}
	if p.D2 <= 0 {
		return fmt.Errorf("normal force steepness d2 must be positive, got %g", p.D2)
	}
	if p.Elasticity <= 0 {
		return fmt.Errorf("tangential elasticity must be positive, got %g", p.Elasticity)
	}
	if p.Viscosity < 0 {
		return fmt.Errorf("tangential viscosity must be non-negative, got %g", p.Viscosity)
	}
	if p.NormalViscosity < 0 {
		return fmt.Errorf("normal viscosity must be non-negative, got %g", p.NormalViscosity)
	}
	if p.SettleVelocity <= 0 {
		return fmt.Errorf("settle velocity must be positive, got %g", p.SettleVelocity)
	}
	if p.SettleAcceleration <= 0 {
		return fmt.Errorf("settle acceleration must be positive, got %g", p.SettleAcceleration)
	}
	return nil
}

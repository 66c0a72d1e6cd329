package contact

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// significantReal is the threshold below which a value is treated as
	// numerical noise rather than a physically meaningful quantity.
	significantReal = 1e-14

	// maxNormalForce caps the normal force as a crude model of yielding.
	// Conservation of energy fails when the cap engages; that is the
	// accepted price for robustness against runaway stiff forces.
	maxNormalForce = 100000.0
)

// clampAboveZero clamps v to the [0, max] range.
func clampAboveZero(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// tangential zeroes the normal component of a plane-frame vector.
func tangential(v r3.Vec) r3.Vec {
	v.Z = 0
	return v
}

// snapSmall zeroes vector components below the noise threshold so that
// floating-point residue cannot contribute drift forces.
func snapSmall(v r3.Vec) r3.Vec {
	if math.Abs(v.X) < significantReal {
		v.X = 0
	}
	if math.Abs(v.Y) < significantReal {
		v.Y = 0
	}
	if math.Abs(v.Z) < significantReal {
		v.Z = 0
	}
	return v
}

// capToLength shortens v to the given length if it is longer, preserving
// direction.
func capToLength(v r3.Vec, length float64) r3.Vec {
	n := r3.Norm(v)
	if n <= length || n < significantReal {
		return v
	}
	return r3.Scale(length/n, v)
}

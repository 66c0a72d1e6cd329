package contact

import (
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// flatSpring builds a spring over a flat plane at the world origin with
// default parameters and the given friction coefficients.
func flatSpring(t *testing.T, mus, muk float64) *Spring {
	t.Helper()
	spr, err := New(NewPlane(r3.Vec{}, r3.Vec{Z: 1}), NewCoefficients(mus, muk), DefaultParameters())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return spr
}

func TestNewRejectsInvalidParameters(t *testing.T) {
	p := DefaultParameters()
	p.SlidingTimeConstant = 0
	if _, err := New(NewPlane(r3.Vec{}, r3.Vec{Z: 1}), NewCoefficients(0.7, 0.5), p); err == nil {
		t.Fatal("expected error for zero time constant")
	}
}

func TestSetParametersKeepsOldOnError(t *testing.T) {
	spr := flatSpring(t, 0.7, 0.5)
	bad := DefaultParameters()
	bad.Elasticity = -1
	if err := spr.SetParameters(bad); err == nil {
		t.Fatal("expected error")
	}
	if spr.Parameters().Elasticity != DefaultParameters().Elasticity {
		t.Errorf("parameters changed despite error")
	}
}

func TestSetParametersInvalidatesCache(t *testing.T) {
	spr := flatSpring(t, 0.7, 0.5)
	spr.Evaluate(r3.Vec{Z: 0.001}, r3.Vec{})
	if !spr.Realized() {
		t.Fatal("expected realized after Evaluate")
	}
	if err := spr.SetParameters(DefaultParameters()); err != nil {
		t.Fatalf("SetParameters: %v", err)
	}
	if spr.Realized() {
		t.Error("expected cache invalidated after SetParameters")
	}
}

func TestNormalForceBounds(t *testing.T) {
	spr := flatSpring(t, 0.7, 0.5)
	spr.ResetAnchor(r3.Vec{})

	// Sweep heights and normal speeds, including deep penetration that
	// drives the raw force past the yield cap and fast separation that
	// drives it negative.
	heights := []float64{-0.5, -0.05, -0.01, 0, 0.0065905, 0.01, 0.1, 10}
	speeds := []float64{-100, -1, -0.01, 0, 0.01, 1, 100}

	for _, pz := range heights {
		for _, vz := range speeds {
			sample := spr.Evaluate(r3.Vec{Z: pz}, r3.Vec{Z: vz})
			if sample.Fz < 0 || sample.Fz > 100000.0 {
				t.Errorf("pz=%g vz=%g: fz=%g outside [0, 100000]", pz, vz, sample.Fz)
			}
			if sample.FzElas < 0 {
				t.Errorf("pz=%g: fzElas=%g negative", pz, sample.FzElas)
			}
		}
	}
}

func TestSlidingClampedOnRead(t *testing.T) {
	spr := flatSpring(t, 0.7, 0.5)
	spr.ResetAnchor(r3.Vec{})
	p := spr.Parameters()

	// Below zero reads as fully stuck.
	spr.SetSliding(-0.4)
	sample := spr.Evaluate(r3.Vec{Z: p.D0}, r3.Vec{})
	if sample.Mu != 0.7 {
		t.Errorf("sliding=-0.4: mu=%g, want muStatic 0.7", sample.Mu)
	}
	if spr.Sliding() != -0.4 {
		t.Errorf("raw sliding mutated to %g", spr.Sliding())
	}

	// Above one reads as fully sliding.
	spr.SetSliding(1.7)
	sample = spr.Evaluate(r3.Vec{Z: p.D0}, r3.Vec{})
	if sample.Mu != 0.5 {
		t.Errorf("sliding=1.7: mu=%g, want muKinetic 0.5", sample.Mu)
	}
	if spr.Sliding() != 1.7 {
		t.Errorf("raw sliding mutated to %g", spr.Sliding())
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	spr := flatSpring(t, 0.7, 0.5)
	spr.ResetAnchor(r3.Vec{})
	spr.SetSliding(0.25)

	pos := r3.Vec{X: 0.002, Y: -0.001, Z: 0.004}
	vel := r3.Vec{X: 0.3, Y: 0.1, Z: -0.05}

	first := spr.Evaluate(pos, vel)
	e1 := spr.PotentialEnergy()
	second := spr.Evaluate(pos, vel)
	e2 := spr.PotentialEnergy()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("samples differ between identical evaluations:\n%+v\n%+v", first, second)
	}
	if e1 != e2 {
		t.Errorf("energy differs: %g vs %g", e1, e2)
	}

	// The committed anchor only moves at Advance, not at Evaluate.
	if got := spr.Anchor(false); r3.Norm(got) != 0 {
		t.Errorf("anchor moved during Evaluate: %v", got)
	}
}

func TestFrictionContinuityAtSaturation(t *testing.T) {
	// With the point resting at pz=d0 and no velocity, the anchored
	// spring hits the Coulomb limit at displacement x* = mu*d1/kp.
	// The friction force must be continuous across that boundary: the
	// jump measured at x*(1 +/- eps) has to shrink with eps.
	p := DefaultParameters()
	const sliding = 0.3
	mu := 0.7 - sliding*(0.7-0.5)
	xStar := mu * p.D1 / p.Elasticity

	fricAt := func(x float64) r3.Vec {
		spr := flatSpring(t, 0.7, 0.5)
		spr.ResetAnchor(r3.Vec{})
		spr.SetSliding(sliding)
		sample := spr.Evaluate(r3.Vec{X: x, Z: p.D0}, r3.Vec{})
		return sample.Fric
	}

	prev := math.Inf(1)
	for _, eps := range []float64{1e-2, 1e-3, 1e-4, 1e-5} {
		lo := fricAt(xStar * (1 - eps))
		hi := fricAt(xStar * (1 + eps))
		jump := r3.Norm(r3.Sub(hi, lo))
		if jump >= prev {
			t.Errorf("eps=%g: jump %g did not shrink from %g", eps, jump, prev)
		}
		prev = jump
	}
	if prev > 1e-4 {
		t.Errorf("residual jump %g too large at smallest eps", prev)
	}
}

func TestAnchorConsistency(t *testing.T) {
	// Recomputing the elastic force from the committed anchor must
	// reproduce the force actually applied, including saturation scaling.
	cases := []struct {
		name string
		pos  r3.Vec
		vel  r3.Vec
	}{
		{"unsaturated", r3.Vec{X: 1e-5, Z: 0.0065905}, r3.Vec{}},
		{"saturated", r3.Vec{X: 0.1, Y: -0.05, Z: 0.0065905}, r3.Vec{X: 0.4}},
		{"separating", r3.Vec{X: 0.01, Z: 0.05}, r3.Vec{Z: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spr := flatSpring(t, 0.7, 0.5)
			spr.ResetAnchor(r3.Vec{})
			spr.SetSliding(0.2)
			sample := spr.Evaluate(tc.pos, tc.vel)
			spr.Advance()

			kp := spr.Parameters().Elasticity
			recomputed := r3.Scale(-kp, r3.Sub(sample.Pxy, spr.Anchor(false)))
			if diff := r3.Norm(r3.Sub(recomputed, sample.FricElas)); diff > 1e-9 {
				t.Errorf("elastic force mismatch: recomputed %v, applied %v (diff %g)",
					recomputed, sample.FricElas, diff)
			}
		})
	}
}

func TestScenarioRestOnPlane(t *testing.T) {
	// Point at rest exactly at pz=d0 with the anchor underneath it:
	// fzElas = d1, no damping, no friction, and the sliding state decays.
	spr := flatSpring(t, 0.7, 0.5)
	p := spr.Parameters()
	spr.ResetAnchor(r3.Vec{Z: p.D0})
	spr.SetSliding(0)

	sample := spr.Evaluate(r3.Vec{Z: p.D0}, r3.Vec{})
	if math.Abs(sample.FzElas-p.D1) > 1e-12 {
		t.Errorf("fzElas=%g, want d1=%g", sample.FzElas, p.D1)
	}
	if r3.Norm(sample.FricDamp) != 0 || r3.Norm(sample.Fric) != 0 {
		t.Errorf("expected zero friction at rest, got fric=%v damp=%v", sample.Fric, sample.FricDamp)
	}
	if sample.LimitSaturated {
		t.Error("limit saturated at rest")
	}

	// Already stuck: derivative stays zero.
	if sDot := spr.SlidingDot(r3.Vec{}); sDot != 0 {
		t.Errorf("sDot=%g, want 0 at s=0", sDot)
	}

	// Part way to stuck: decays at -s/tau.
	spr.SetSliding(0.25)
	spr.Evaluate(r3.Vec{Z: p.D0}, r3.Vec{})
	want := -0.25 / p.SlidingTimeConstant
	if sDot := spr.SlidingDot(r3.Vec{}); math.Abs(sDot-want) > 1e-12 {
		t.Errorf("sDot=%g, want %g", sDot, want)
	}
}

func TestScenarioAirborneDragRises(t *testing.T) {
	// Suspended above contact with tangential speed: the normal force is
	// negligible, so the sliding state must rise regardless of
	// saturation.
	spr := flatSpring(t, 0.7, 0.5)
	p := spr.Parameters()
	spr.ResetAnchor(r3.Vec{})
	spr.SetSliding(0.5)

	sample := spr.Evaluate(r3.Vec{Z: p.D0 + 0.1}, r3.Vec{X: 1.0})
	if sample.Fz >= 1e-14 {
		t.Fatalf("fz=%g, expected negligible for airborne point", sample.Fz)
	}

	want := (1 - 0.5) / p.SlidingTimeConstant
	if sDot := spr.SlidingDot(r3.Vec{}); math.Abs(sDot-want) > 1e-12 {
		t.Errorf("sDot=%g, want %g (rising)", sDot, want)
	}
}

func TestScenarioSaturationCapsFriction(t *testing.T) {
	// A sudden large tangential displacement saturates the limit; the
	// returned friction magnitude equals the limit exactly.
	spr := flatSpring(t, 0.7, 0.5)
	p := spr.Parameters()
	spr.ResetAnchor(r3.Vec{})
	spr.SetSliding(0)

	sample := spr.Evaluate(r3.Vec{X: 0.25, Z: p.D0}, r3.Vec{})
	if !sample.LimitSaturated {
		t.Fatal("expected limit saturation")
	}
	if math.Abs(sample.Fxy-sample.FxyLimit) > 1e-12 {
		t.Errorf("fxy=%g, want limit %g", sample.Fxy, sample.FxyLimit)
	}

	// Saturation feeds the rise trigger.
	if sDot := spr.SlidingDot(r3.Vec{}); sDot <= 0 {
		t.Errorf("sDot=%g, want positive after saturation", sDot)
	}
}

func TestRiseOverridesDecay(t *testing.T) {
	// Airborne and motionless: the decay conditions hold (no saturation,
	// negligible speeds) and so does the rise condition (no contact).
	// Rise wins.
	spr := flatSpring(t, 0.7, 0.5)
	p := spr.Parameters()
	spr.ResetAnchor(r3.Vec{})
	spr.SetSliding(0)

	sample := spr.Evaluate(r3.Vec{Z: p.D0 + 0.1}, r3.Vec{})
	if sample.LimitSaturated {
		t.Fatal("unexpected saturation")
	}
	want := 1 / p.SlidingTimeConstant
	if sDot := spr.SlidingDot(r3.Vec{}); math.Abs(sDot-want) > 1e-12 {
		t.Errorf("sDot=%g, want %g (rise overrides decay)", sDot, want)
	}
}

func TestSlidingDotHold(t *testing.T) {
	// In contact, below the limit, but moving too fast to settle:
	// neither transition fires.
	spr := flatSpring(t, 0.7, 0.5)
	p := spr.Parameters()
	spr.SetSliding(0.5)
	spr.ResetAnchor(r3.Vec{X: -5e-5, Z: p.D0})

	// Anchor slightly behind the point, speed above the settle threshold
	// but with spring plus damping still inside the Coulomb limit.
	sample := spr.Evaluate(r3.Vec{Z: p.D0}, r3.Vec{X: 0.002})
	if sample.LimitSaturated {
		t.Fatal("unexpected saturation")
	}
	if sDot := spr.SlidingDot(r3.Vec{}); sDot != 0 {
		t.Errorf("sDot=%g, want 0 (hold)", sDot)
	}
}

func TestSlidingDotAccelerationBlocksDecay(t *testing.T) {
	// Same static-equilibrium kinematics, but a large acceleration keeps
	// the point from counting as settled.
	spr := flatSpring(t, 0.7, 0.5)
	p := spr.Parameters()
	spr.ResetAnchor(r3.Vec{Z: p.D0})
	spr.SetSliding(0.25)

	spr.Evaluate(r3.Vec{Z: p.D0}, r3.Vec{})
	if sDot := spr.SlidingDot(r3.Vec{X: 500}); sDot != 0 {
		t.Errorf("sDot=%g, want 0 with large acceleration", sDot)
	}
	if sDot := spr.SlidingDot(r3.Vec{X: 1}); sDot >= 0 {
		t.Errorf("sDot=%g, want negative with small acceleration", sDot)
	}
}

func TestPotentialEnergy(t *testing.T) {
	// Unsaturated, fully stuck: the pending anchor returns to the spring
	// zero, so the tangential term is the full spring strain.
	spr := flatSpring(t, 0.7, 0.5)
	p := spr.Parameters()
	spr.ResetAnchor(r3.Vec{})
	spr.SetSliding(0)

	const x = 1e-5
	sample := spr.Evaluate(r3.Vec{X: x, Z: p.D0}, r3.Vec{})
	if sample.LimitSaturated {
		t.Fatal("unexpected saturation")
	}

	want := sample.FzElas/p.D2 + 0.5*p.Elasticity*x*x
	if got := spr.PotentialEnergy(); math.Abs(got-want) > 1e-15 {
		t.Errorf("energy=%g, want %g", got, want)
	}
}

func TestAdvanceMakesAnchorVisibleNextStep(t *testing.T) {
	spr := flatSpring(t, 0.7, 0.5)
	p := spr.Parameters()
	spr.ResetAnchor(r3.Vec{})
	spr.SetSliding(0)

	pos := r3.Vec{X: 0.25, Z: p.D0}
	first := spr.Evaluate(pos, r3.Vec{})

	// Without Advance the anchor is unchanged and the force repeats.
	repeat := spr.Evaluate(pos, r3.Vec{})
	if !vecNear(first.Fric, repeat.Fric, 0) {
		t.Errorf("force changed without Advance: %v vs %v", first.Fric, repeat.Fric)
	}

	// After Advance the anchor has been dragged toward the point, so the
	// spring stretch shrinks.
	spr.Advance()
	after := spr.Evaluate(pos, r3.Vec{})
	stretchBefore := r3.Norm(r3.Sub(first.Pxy, r3.Vec{}))
	stretchAfter := r3.Norm(r3.Sub(after.Pxy, spr.Anchor(false)))
	if stretchAfter >= stretchBefore {
		t.Errorf("anchor did not move toward the point: stretch %g -> %g",
			stretchBefore, stretchAfter)
	}
}

func TestResetAnchorProjects(t *testing.T) {
	spr := flatSpring(t, 0.7, 0.5)
	spr.ResetAnchor(r3.Vec{X: 1, Y: 2, Z: 3})

	got := spr.Anchor(false)
	if got.Z != 0 {
		t.Errorf("anchor has normal component %g", got.Z)
	}
	if !vecNear(got, r3.Vec{X: 1, Y: 2}, 1e-12) {
		t.Errorf("anchor=%v, want projection (1,2,0)", got)
	}
	if !vecNear(spr.Anchor(true), r3.Vec{X: 1, Y: 2}, 1e-12) {
		t.Errorf("world anchor=%v, want (1,2,0)", spr.Anchor(true))
	}
}

func TestVelocityNoiseSnapped(t *testing.T) {
	spr := flatSpring(t, 0.7, 0.5)
	p := spr.Parameters()
	spr.ResetAnchor(r3.Vec{})
	spr.SetSliding(1)

	sample := spr.Evaluate(r3.Vec{Z: p.D0}, r3.Vec{X: 1e-16, Y: -1e-16, Z: 1e-16})
	if r3.Norm(sample.Vel) != 0 {
		t.Errorf("noise velocity survived: %v", sample.Vel)
	}
	if r3.Norm(sample.FricDamp) != 0 {
		t.Errorf("noise velocity produced drift force: %v", sample.FricDamp)
	}
}

func TestNegligibleLimitZeroesSlidingFriction(t *testing.T) {
	// Fully sliding with no contact: the damper candidate is zeroed
	// outright rather than normalized against a vanishing limit.
	spr := flatSpring(t, 0.7, 0.5)
	p := spr.Parameters()
	spr.ResetAnchor(r3.Vec{})
	spr.SetSliding(1)

	sample := spr.Evaluate(r3.Vec{Z: p.D0 + 0.1}, r3.Vec{X: 2})
	if r3.Norm(sample.Fric) != 0 {
		t.Errorf("friction %v with negligible limit, want zero", sample.Fric)
	}
}

func TestForceAccessorsMatchSample(t *testing.T) {
	pl := NewPlane(r3.Vec{}, r3.Vec{X: 0.3, Z: 1})
	spr, err := New(pl, NewCoefficients(0.7, 0.5), DefaultParameters())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	spr.ResetAnchor(r3.Vec{})
	spr.SetSliding(0.5)

	sample := spr.Evaluate(r3.Vec{X: 0.01, Z: 0.005}, r3.Vec{X: 0.1})

	if got := spr.Force(false); !vecNear(got, sample.Force, 0) {
		t.Errorf("Force(false)=%v, want %v", got, sample.Force)
	}
	if got := spr.Force(true); !vecNear(got, sample.ForceWorld, 0) {
		t.Errorf("Force(true)=%v, want %v", got, sample.ForceWorld)
	}
	if got := spr.FrictionForce(false); !vecNear(got, sample.Fric, 0) {
		t.Errorf("FrictionForce=%v, want %v", got, sample.Fric)
	}
	if got := spr.NormalForce(false); math.Abs(got.Z-sample.Fz) > 0 || got.X != 0 || got.Y != 0 {
		t.Errorf("NormalForce=%v, want (0,0,%g)", got, sample.Fz)
	}
	if spr.Mu() != sample.Mu || spr.FrictionLimit() != sample.FxyLimit {
		t.Errorf("mu/limit accessors disagree with sample")
	}

	// The world force is the plane force rotated out.
	if !vecNear(pl.VecToWorld(sample.Force), sample.ForceWorld, 1e-12) {
		t.Errorf("world force inconsistent with plane force")
	}
}

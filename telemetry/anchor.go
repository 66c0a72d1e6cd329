package telemetry

import "gonum.org/v1/gonum/spatial/r3"

// AnchorTracker reports the average speed of the friction anchor during
// a run. The anchor is sampled at an interval matched to the sliding
// time constant; only the last two samples are kept, and the speed is
// the distance between them over the elapsed time. With fewer than two
// samples there is not enough information and the speed is zero.
//
// A fast-moving anchor means the contact is consuming its stick budget:
// the spring zero is being dragged along by saturation every step.
type AnchorTracker struct {
	period float64
	last   float64
	t      [2]float64
	p      [2]r3.Vec
	n      int
}

// NewAnchorTracker creates a tracker sampling at the given interval in
// simulated seconds.
func NewAnchorTracker(period float64) *AnchorTracker {
	if period <= 0 {
		period = 0.01
	}
	return &AnchorTracker{period: period, last: -period}
}

// Observe offers the current anchor position; it is recorded only when a
// full sampling period has elapsed since the previous record.
func (a *AnchorTracker) Observe(t float64, anchor r3.Vec) {
	if t-a.last < a.period {
		return
	}
	a.last = t

	a.t[0] = a.t[1]
	a.t[1] = t
	a.p[0] = a.p[1]
	a.p[1] = anchor
	a.n++
}

// Speed returns the average anchor speed over the last sampling
// interval, or 0 if fewer than two samples have been recorded.
func (a *AnchorTracker) Speed() float64 {
	if a.n < 2 {
		return 0
	}
	dt := a.t[1] - a.t[0]
	if dt <= 0 {
		return 0
	}
	return r3.Norm(r3.Sub(a.p[1], a.p[0])) / dt
}

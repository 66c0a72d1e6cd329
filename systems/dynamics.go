// Package systems contains the ECS systems hosting the contact springs.
package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mthorley/groundspring/components"
	"github.com/mthorley/groundspring/contact"
)

// Observer receives every contact sample produced during a step, after
// the sliding state has been advanced.
type Observer func(spr *contact.Spring, sample contact.Sample)

// Dynamics advances point-mass bodies under gravity and contact forces.
// It is the host integrator the contact springs expect: per step it runs
// the force evaluation, integrates velocity and position, updates the
// sliding state from the fresh acceleration, and commits the anchors.
type Dynamics struct {
	filter ecs.Filter5[
		components.Position,
		components.Velocity,
		components.Acceleration,
		components.Body,
		components.Contacts,
	]
	gravity  r3.Vec
	dt       float64
	observer Observer
}

// NewDynamics creates a dynamics system stepping with the given gravity
// vector and time step.
func NewDynamics(w *ecs.World, gravity r3.Vec, dt float64) *Dynamics {
	return &Dynamics{
		filter: *ecs.NewFilter5[
			components.Position,
			components.Velocity,
			components.Acceleration,
			components.Body,
			components.Contacts,
		](w),
		gravity: gravity,
		dt:      dt,
	}
}

// SetObserver installs a telemetry hook called once per spring per step.
func (s *Dynamics) SetObserver(obs Observer) {
	s.observer = obs
}

// DT returns the integration step.
func (s *Dynamics) DT() float64 { return s.dt }

// Update advances every body by one step. Within a step the contract
// with each spring is: Evaluate, then SlidingDot with the acceleration
// that evaluation produced, then Advance. Sliding is integrated here
// with the same explicit step as the body state; bounding to [0,1]
// happens inside the spring when the value is read, never here.
func (s *Dynamics) Update(w *ecs.World) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, acc, body, con := query.Get()

		if body.Mass <= 0 {
			continue
		}

		// Force stage: gravity plus every contact spring.
		force := r3.Scale(body.Mass, s.gravity)
		for _, spr := range con.Springs {
			sample := spr.Evaluate(pos.Point, vel.Vec)
			force = r3.Add(force, sample.ForceWorld)
		}
		acc.Vec = r3.Scale(1/body.Mass, force)

		// Semi-implicit Euler.
		vel.Vec = r3.Add(vel.Vec, r3.Scale(s.dt, acc.Vec))
		pos.Point = r3.Add(pos.Point, r3.Scale(s.dt, vel.Vec))

		// Acceleration stage: sliding derivative, then step boundary.
		for _, spr := range con.Springs {
			sDot := spr.SlidingDot(acc.Vec)
			spr.SetSliding(spr.Sliding() + s.dt*sDot)
			spr.Advance()

			if s.observer != nil {
				s.observer(spr, spr.LastSample())
			}
		}
	}
}

package systems

import (
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mthorley/groundspring/components"
	"github.com/mthorley/groundspring/config"
	"github.com/mthorley/groundspring/contact"
)

// Scenario wires one point mass against one contact plane according to
// the sim section of the configuration: the plane is tilted about the
// world y-axis, the body starts drop_height above the plane origin with
// initial_speed along the plane's x-axis, and gravity points down the
// world z-axis.
type Scenario struct {
	World    *ecs.World
	Dynamics *Dynamics

	spring *contact.Spring
	entity ecs.Entity

	posMap *ecs.Map1[components.Position]
	velMap *ecs.Map1[components.Velocity]
	accMap *ecs.Map1[components.Acceleration]

	dt   float64
	step int
}

// NewScenario builds the world, body, and contact spring from cfg.
func NewScenario(cfg *config.Config) (*Scenario, error) {
	tilt := cfg.Derived.TiltRad
	normal := r3.Vec{X: math.Sin(tilt), Z: math.Cos(tilt)}
	plane := contact.NewPlane(r3.Vec{}, normal)

	spr, err := contact.New(plane, cfg.FrictionCoefficients(), cfg.ContactParameters())
	if err != nil {
		return nil, fmt.Errorf("building contact spring: %w", err)
	}

	start := plane.PointToWorld(r3.Vec{Z: cfg.Sim.DropHeight})
	spr.SetSliding(cfg.Contact.InitialSliding)
	spr.ResetAnchor(start)

	world := ecs.NewWorld()
	mapper := ecs.NewMap5[
		components.Position,
		components.Velocity,
		components.Acceleration,
		components.Body,
		components.Contacts,
	](world)

	pos := components.Position{Point: start}
	vel := components.Velocity{Vec: plane.VecToWorld(r3.Vec{X: cfg.Sim.InitialSpeed})}
	acc := components.Acceleration{}
	body := components.Body{Mass: cfg.Sim.Mass}
	con := components.Contacts{Springs: []*contact.Spring{spr}}
	entity := mapper.NewEntity(&pos, &vel, &acc, &body, &con)

	gravity := r3.Vec{Z: -cfg.Sim.Gravity}

	return &Scenario{
		World:    world,
		Dynamics: NewDynamics(world, gravity, cfg.Sim.DT),
		spring:   spr,
		entity:   entity,
		posMap:   ecs.NewMap1[components.Position](world),
		velMap:   ecs.NewMap1[components.Velocity](world),
		accMap:   ecs.NewMap1[components.Acceleration](world),
		dt:       cfg.Sim.DT,
	}, nil
}

// Step advances the scenario by one integration step.
func (sc *Scenario) Step() {
	sc.Dynamics.Update(sc.World)
	sc.step++
}

// Run advances the scenario by n steps.
func (sc *Scenario) Run(n int) {
	for i := 0; i < n; i++ {
		sc.Step()
	}
}

// Time returns the simulated time.
func (sc *Scenario) Time() float64 {
	return float64(sc.step) * sc.dt
}

// Spring returns the scenario's contact spring.
func (sc *Scenario) Spring() *contact.Spring {
	return sc.spring
}

// BodyState returns the body's world-frame position, velocity, and
// acceleration.
func (sc *Scenario) BodyState() (pos, vel, acc r3.Vec) {
	return sc.posMap.Get(sc.entity).Point,
		sc.velMap.Get(sc.entity).Vec,
		sc.accMap.Get(sc.entity).Vec
}

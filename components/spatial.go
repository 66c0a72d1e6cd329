// Package components contains ECS components for the simulation.
package components

import "gonum.org/v1/gonum/spatial/r3"

// Position is a body's world-frame position.
type Position struct {
	Point r3.Vec
}

// Velocity is a body's world-frame velocity.
type Velocity struct {
	Vec r3.Vec
}

// Acceleration is the world-frame acceleration computed during the most
// recent step. It is written by the dynamics system and read by the
// sliding-state update.
type Acceleration struct {
	Vec r3.Vec
}

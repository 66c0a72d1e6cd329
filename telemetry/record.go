// Package telemetry collects and exports per-step contact data.
package telemetry

import (
	"math"

	"github.com/mthorley/groundspring/contact"
)

// StepRecord is one row of per-step contact telemetry.
type StepRecord struct {
	Time      float64 `csv:"time"`
	Pz        float64 `csv:"pz"`
	Vz        float64 `csv:"vz"`
	Slip      float64 `csv:"slip"` // tangential speed
	FzElas    float64 `csv:"fz_elas"`
	FzDamp    float64 `csv:"fz_damp"`
	Fz        float64 `csv:"fz"`
	Fxy       float64 `csv:"fxy"`
	FxyLimit  float64 `csv:"fxy_limit"`
	Mu        float64 `csv:"mu"`
	Sliding   float64 `csv:"sliding"`
	Saturated bool    `csv:"saturated"`
	Energy    float64 `csv:"energy"`
}

// NewStepRecord builds a record from the spring state after a step. The
// spring must have been evaluated this step; energy is read from it
// directly so the friction term uses the step's updated anchor.
func NewStepRecord(t float64, spr *contact.Spring, sample contact.Sample) StepRecord {
	return StepRecord{
		Time:      t,
		Pz:        sample.Pz,
		Vz:        sample.Vz,
		Slip:      math.Hypot(sample.Vxy.X, sample.Vxy.Y),
		FzElas:    sample.FzElas,
		FzDamp:    sample.FzDamp,
		Fz:        sample.Fz,
		Fxy:       sample.Fxy,
		FxyLimit:  sample.FxyLimit,
		Mu:        sample.Mu,
		Sliding:   spr.Sliding(),
		Saturated: sample.LimitSaturated,
		Energy:    spr.PotentialEnergy(),
	}
}

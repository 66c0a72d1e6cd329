package main

import (
	"math"
	"sync"

	"github.com/mthorley/groundspring/config"
	"github.com/mthorley/groundspring/contact"
	"github.com/mthorley/groundspring/systems"
	"github.com/mthorley/groundspring/telemetry"
)

// Tilt angles evaluated per parameter vector. A flat drop exposes bounce
// and normal settling, the shallow tilt must stick, and the steep tilt
// exercises the sliding branch without being allowed to creep forever.
var evalTiltsDeg = []float64{0, 5, 20}

// Fitness weights. Settle time dominates; the rest separate parameter
// vectors that settle equally fast.
const (
	weightBounce      = 20.0
	weightEndSlip     = 50.0
	weightAnchorCreep = 10.0

	settleSlipThreshold = 0.005 // m/s
	settleVzThreshold   = 0.005 // m/s
)

// FitnessEvaluator runs headless drop scenarios and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config

	mu         sync.Mutex
	lastSettle float64 // mean settle time from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		baseConfig: baseCfg,
	}
}

// LastSettle returns the mean settle time from the most recent evaluation.
func (fe *FitnessEvaluator) LastSettle() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSettle
}

// runResult holds the results from a single scenario run.
type runResult struct {
	settleTime  float64 // time after which the body stayed settled
	bounce      float64 // highest rebound above the plane after first touch
	endSlip     float64 // tangential speed at the end of the run
	anchorSpeed float64 // anchor drift speed at the end of the run
	diverged    bool
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(evalTiltsDeg))
	var wg sync.WaitGroup

	for i, tilt := range evalTiltsDeg {
		wg.Add(1)
		go func(idx int, tiltDeg float64) {
			defer wg.Done()
			results[idx] = fe.runScenario(x, tiltDeg)
		}(i, tilt)
	}
	wg.Wait()

	var total, settleSum float64
	for _, r := range results {
		if r.diverged {
			// A diverging run disqualifies the whole vector.
			fe.mu.Lock()
			fe.lastSettle = math.Inf(1)
			fe.mu.Unlock()
			return 1e9
		}
		total += r.settleTime +
			weightBounce*r.bounce +
			weightEndSlip*r.endSlip +
			weightAnchorCreep*r.anchorSpeed
		settleSum += r.settleTime
	}

	n := float64(len(results))
	fe.mu.Lock()
	fe.lastSettle = settleSum / n
	fe.mu.Unlock()

	return total / n
}

// runScenario executes a single headless drop at the given tilt.
func (fe *FitnessEvaluator) runScenario(x []float64, tiltDeg float64) runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Sim.PlaneTiltDeg = tiltDeg
	cfg.Recompute()

	sc, err := systems.NewScenario(cfg)
	if err != nil {
		return runResult{diverged: true}
	}

	anchors := telemetry.NewAnchorTracker(cfg.Derived.AnchorPeriod)

	var res runResult
	touched := false
	settledSince := math.Inf(1)
	dt := cfg.Sim.DT
	stepN := 0

	sc.Dynamics.SetObserver(func(spr *contact.Spring, sample contact.Sample) {
		stepN++
		t := float64(stepN) * dt
		anchors.Observe(t, spr.Anchor(true))

		if !isFinite(sample.Pz) || !isFinite(sample.Vz) {
			res.diverged = true
			return
		}

		if sample.Pz <= cfg.Contact.D0 {
			touched = true
		}
		if touched && sample.Pz > res.bounce {
			res.bounce = sample.Pz
		}

		slip := math.Hypot(sample.Vxy.X, sample.Vxy.Y)
		if slip < settleSlipThreshold && math.Abs(sample.Vz) < settleVzThreshold {
			if math.IsInf(settledSince, 1) {
				settledSince = t
			}
		} else {
			settledSince = math.Inf(1)
		}
		res.endSlip = slip
	})

	sc.Run(cfg.Derived.Steps)

	if res.diverged {
		return res
	}
	if math.IsInf(settledSince, 1) {
		// Never settled; charge the full run.
		res.settleTime = cfg.Sim.Duration
	} else {
		res.settleTime = settledSince
	}
	res.anchorSpeed = anchors.Speed()
	return res
}

// copyConfig creates a copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg, _ := config.Load("")
	cfg.Contact = fe.baseConfig.Contact
	cfg.Friction = fe.baseConfig.Friction
	cfg.Sim = fe.baseConfig.Sim
	cfg.Telemetry = fe.baseConfig.Telemetry
	return cfg
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

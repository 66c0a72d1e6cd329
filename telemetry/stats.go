package telemetry

import "math"

// WindowStats summarizes one stats window of step records.
type WindowStats struct {
	WindowEnd     float64 `csv:"window_end"`
	Steps         int     `csv:"steps"`
	MeanFz        float64 `csv:"mean_fz"`
	MaxFz         float64 `csv:"max_fz"`
	MinPz         float64 `csv:"min_pz"`
	MaxSlip       float64 `csv:"max_slip"`
	MeanSliding   float64 `csv:"mean_sliding"`
	SaturatedFrac float64 `csv:"saturated_frac"`
}

// Collector accumulates step records into fixed-duration windows.
type Collector struct {
	windowSec float64
	windowEnd float64

	steps      int
	sumFz      float64
	maxFz      float64
	minPz      float64
	maxSlip    float64
	sumSliding float64
	saturated  int

	windows []WindowStats
}

// NewCollector creates a collector with the given window length in
// simulated seconds.
func NewCollector(windowSec float64) *Collector {
	if windowSec <= 0 {
		windowSec = 1
	}
	return &Collector{
		windowSec: windowSec,
		windowEnd: windowSec,
		minPz:     math.Inf(1),
	}
}

// Record adds one step record, flushing completed windows first.
func (c *Collector) Record(rec StepRecord) {
	for rec.Time >= c.windowEnd {
		c.flush()
	}

	c.steps++
	c.sumFz += rec.Fz
	if rec.Fz > c.maxFz {
		c.maxFz = rec.Fz
	}
	if rec.Pz < c.minPz {
		c.minPz = rec.Pz
	}
	if rec.Slip > c.maxSlip {
		c.maxSlip = rec.Slip
	}
	c.sumSliding += rec.Sliding
	if rec.Saturated {
		c.saturated++
	}
}

// Finish flushes the partial window in progress, if any.
func (c *Collector) Finish() {
	if c.steps > 0 {
		c.flush()
	}
}

// Windows returns the completed window summaries.
func (c *Collector) Windows() []WindowStats {
	return c.windows
}

func (c *Collector) flush() {
	ws := WindowStats{
		WindowEnd: c.windowEnd,
		Steps:     c.steps,
		MaxFz:     c.maxFz,
		MaxSlip:   c.maxSlip,
	}
	if c.steps > 0 {
		ws.MeanFz = c.sumFz / float64(c.steps)
		ws.MinPz = c.minPz
		ws.MeanSliding = c.sumSliding / float64(c.steps)
		ws.SaturatedFrac = float64(c.saturated) / float64(c.steps)
	}
	c.windows = append(c.windows, ws)

	c.windowEnd += c.windowSec
	c.steps = 0
	c.sumFz = 0
	c.maxFz = 0
	c.minPz = math.Inf(1)
	c.maxSlip = 0
	c.sumSliding = 0
	c.saturated = 0
}

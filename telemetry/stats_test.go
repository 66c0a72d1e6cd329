package telemetry

import (
	"math"
	"testing"
)

func TestCollectorWindows(t *testing.T) {
	c := NewCollector(1.0)

	// Two full windows plus a partial third.
	for i := 0; i < 25; i++ {
		tm := float64(i) * 0.1
		c.Record(StepRecord{
			Time:      tm,
			Fz:        10,
			Pz:        0.004 - 0.001*float64(i%2),
			Slip:      0.5,
			Sliding:   0.5,
			Saturated: i%2 == 0,
		})
	}
	c.Finish()

	windows := c.Windows()
	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}

	w := windows[0]
	if w.Steps != 10 {
		t.Errorf("window 0 has %d steps, want 10", w.Steps)
	}
	if math.Abs(w.MeanFz-10) > 1e-12 {
		t.Errorf("mean fz = %g, want 10", w.MeanFz)
	}
	if math.Abs(w.SaturatedFrac-0.5) > 1e-12 {
		t.Errorf("saturated frac = %g, want 0.5", w.SaturatedFrac)
	}
	if w.MinPz != 0.003 {
		t.Errorf("min pz = %g, want 0.003", w.MinPz)
	}
	if w.MaxSlip != 0.5 {
		t.Errorf("max slip = %g, want 0.5", w.MaxSlip)
	}

	// Partial window holds the leftovers.
	if windows[2].Steps != 5 {
		t.Errorf("partial window has %d steps, want 5", windows[2].Steps)
	}
}

func TestCollectorEmptyWindow(t *testing.T) {
	c := NewCollector(1.0)

	// A record far in the future forces empty windows in between.
	c.Record(StepRecord{Time: 0.5, Fz: 1})
	c.Record(StepRecord{Time: 2.5, Fz: 3})
	c.Finish()

	windows := c.Windows()
	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}
	if windows[1].Steps != 0 {
		t.Errorf("gap window has %d steps, want 0", windows[1].Steps)
	}
	if windows[1].MeanFz != 0 {
		t.Errorf("gap window mean fz = %g, want 0", windows[1].MeanFz)
	}
}

package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/mthorley/groundspring/config"
	"github.com/mthorley/groundspring/contact"
	"github.com/mthorley/groundspring/systems"
	"github.com/mthorley/groundspring/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	duration := flag.Float64("duration", 0, "Simulated seconds (0 = use config)")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logWindows := flag.Bool("log-windows", false, "Output window stats via slog")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// CLI overrides
	if *duration > 0 {
		cfg.Sim.Duration = *duration
		cfg.Recompute()
	}
	windowSec := cfg.Telemetry.WindowSec
	if *statsWindow > 0 {
		windowSec = *statsWindow
	}

	sc, err := systems.NewScenario(cfg)
	if err != nil {
		slog.Error("failed to build scenario", "error", err)
		os.Exit(1)
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	collector := telemetry.NewCollector(windowSec)
	anchors := telemetry.NewAnchorTracker(cfg.Derived.AnchorPeriod)
	windowsWritten := 0

	dt := cfg.Sim.DT
	stepN := 0
	sc.Dynamics.SetObserver(func(spr *contact.Spring, sample contact.Sample) {
		stepN++
		t := float64(stepN) * dt

		rec := telemetry.NewStepRecord(t, spr, sample)
		collector.Record(rec)
		anchors.Observe(t, spr.Anchor(true))

		if stepN%cfg.Telemetry.SampleEvery == 0 {
			if err := out.WriteSample(rec); err != nil {
				slog.Error("failed to write sample", "error", err)
				os.Exit(1)
			}
		}

		// Flush newly completed windows as they appear.
		for _, ws := range collector.Windows()[windowsWritten:] {
			if *logWindows {
				slog.Info("window",
					"end", ws.WindowEnd,
					"mean_fz", ws.MeanFz,
					"min_pz", ws.MinPz,
					"max_slip", ws.MaxSlip,
					"mean_sliding", ws.MeanSliding,
					"saturated_frac", ws.SaturatedFrac,
				)
			}
			if err := out.WriteWindow(ws); err != nil {
				slog.Error("failed to write window", "error", err)
				os.Exit(1)
			}
			windowsWritten++
		}
	})

	slog.Info("starting simulation",
		"steps", cfg.Derived.Steps,
		"dt", dt,
		"tilt_deg", cfg.Sim.PlaneTiltDeg,
		"mu_static", cfg.Friction.MuStatic,
		"mu_kinetic", cfg.Friction.MuKinetic,
	)

	sc.Run(cfg.Derived.Steps)

	collector.Finish()
	for _, ws := range collector.Windows()[windowsWritten:] {
		if err := out.WriteWindow(ws); err != nil {
			slog.Error("failed to write window", "error", err)
			os.Exit(1)
		}
		windowsWritten++
	}

	pos, vel, _ := sc.BodyState()
	spr := sc.Spring()
	slog.Info("simulation complete",
		"time", sc.Time(),
		"pz", spr.LastSample().Pz,
		"vz", spr.LastSample().Vz,
		"fz", spr.NormalForce(false).Z,
		"sliding", spr.Sliding(),
		"anchor_speed", anchors.Speed(),
		"energy", spr.PotentialEnergy(),
		"pos_z", pos.Z,
		"speed", vel.X,
	)
	if dir := out.Dir(); dir != "" {
		slog.Info("output written", "dir", dir)
	}
}

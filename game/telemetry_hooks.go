package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/telemetry"
)

// setupTelemetry creates the recorder, its output directory and the step timer.
func setupTelemetry(cfg *config.Config, opts Options) (*telemetry.Recorder, *telemetry.OutputManager, *telemetry.PerfCollector, error) {
	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, nil, nil, fmt.Errorf("writing config snapshot: %w", err)
	}
	if output != nil {
		slog.Info("output_enabled", "dir", output.Dir())
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.WindowSteps)
	recorder := telemetry.NewRecorder(cfg, output, opts.LogStats)
	recorder.SetPerf(perf)
	return recorder, output, perf, nil
}

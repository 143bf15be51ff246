package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/systems"
)

// Recorder is a status view that keeps a census of the field, aggregates
// lifecycle events into windows and writes both to the output directory.
// Install it as the ecosystem's Observer to receive births and deaths.
type Recorder struct {
	stats     FieldStats
	collector *Collector
	bookmarks *BookmarkDetector
	output    *OutputManager
	perf      *PerfCollector

	logStats bool
	logEvery int

	run     int
	history []PopulationRow

	// statsCallback is called with each flushed window, if set.
	statsCallback func(WindowStats)
}

// NewRecorder creates a recorder using the telemetry section of cfg.
// output may be nil.
func NewRecorder(cfg *config.Config, output *OutputManager, logStats bool) *Recorder {
	return &Recorder{
		collector: NewCollector(cfg.Telemetry.WindowSteps),
		bookmarks: NewBookmarkDetector(10),
		output:    output,
		logStats:  logStats,
		logEvery:  cfg.Telemetry.LogEvery,
	}
}

// SetStatsCallback registers fn to receive every flushed window.
func (r *Recorder) SetStatsCallback(fn func(WindowStats)) {
	r.statsCallback = fn
}

// SetPerf attaches the step timer whose stats are reported with each window.
func (r *Recorder) SetPerf(p *PerfCollector) {
	r.perf = p
}

// RecordBirth implements systems.Observer.
func (r *Recorder) RecordBirth(s components.Species) {
	r.collector.RecordBirth(s)
}

// RecordDeath implements systems.Observer.
func (r *Recorder) RecordDeath(s components.Species, cause systems.Cause) {
	r.collector.RecordDeath(s, cause)
}

// RecordKill implements systems.Observer.
func (r *Recorder) RecordKill(predator, prey components.Species) {
	r.collector.RecordKill(predator, prey)
}

// ShowStatus counts the field and records the step.
func (r *Recorder) ShowStatus(step int, eco *systems.Ecosystem) {
	r.stats.Reset()
	r.stats.Count(eco)
	counts := r.stats.Counts()

	field := eco.Field()
	condition := field.WeatherCondition()
	row := NewPopulationRow(step, condition.String(), field.IsDay(), counts)
	row.Run = r.run
	r.history = append(r.history, row)

	if err := r.output.WritePopulation(row); err != nil {
		slog.Error("failed to write population", "error", err)
	}

	if r.logEvery > 0 && step%r.logEvery == 0 {
		slog.Info("status",
			"run", r.run,
			"step", step,
			"weather", condition.String(),
			"day", field.IsDay(),
			"population", r.stats.PopulationDetails(eco),
		)
	}

	// Step 0 is the freshly populated field; windows cover simulated steps only.
	if step == 0 {
		return
	}
	r.collector.Sample(row.Total, condition == systems.Raining)
	if r.collector.ShouldFlush(step) {
		r.flush(step, counts)
	}
}

func (r *Recorder) flush(step int, counts [components.NumSpecies]int) {
	stats := r.collector.Flush(step, counts)

	if r.statsCallback != nil {
		r.statsCallback(stats)
	}
	if r.logStats {
		stats.LogStats()
	}
	if err := r.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}

	if r.perf != nil {
		perfStats := r.perf.Stats()
		if r.logStats {
			perfStats.LogStats()
		}
		if err := r.output.WritePerf(perfStats, stats.WindowEnd); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range r.bookmarks.Check(stats) {
		if r.logStats {
			bm.LogBookmark()
		}
		if err := r.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// IsViable reports whether at least two species are alive at the last count.
func (r *Recorder) IsViable(eco *systems.Ecosystem) bool {
	return r.stats.IsViable(eco)
}

// Reset clears the history and starts a new run.
func (r *Recorder) Reset() {
	r.stats.Reset()
	r.collector.Reset()
	r.bookmarks.Reset()
	r.history = r.history[:0]
	r.run++
}

// History returns the rows recorded since the last reset.
func (r *Recorder) History() []PopulationRow {
	out := make([]PopulationRow, len(r.history))
	copy(out, r.history)
	return out
}

// Run returns how many times the recorder has been reset.
func (r *Recorder) Run() int {
	return r.run
}

// Close closes the output files.
func (r *Recorder) Close() error {
	return r.output.Close()
}

// Package game drives the ecosystem: it owns the roster of entities,
// advances the field one step at a time and reports to views.
package game

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/systems"
	"github.com/pthm-cable/savanna/telemetry"
)

// Simulator holds the complete simulation state.
type Simulator struct {
	cfg   *config.Config
	rng   systems.RandomSource
	field *systems.Field
	eco   *systems.Ecosystem
	view  View

	// roster lists entities in acting order. After each step it holds only live entities.
	roster   []ecs.Entity
	newborns []ecs.Entity
	step     int

	// Telemetry (optional)
	perf     *telemetry.PerfCollector
	recorder *telemetry.Recorder
	output   *telemetry.OutputManager
}

// New creates a simulator on a field of the configured size, populated
// and reported to view. A nil view uses a headless census view.
func New(cfg *config.Config, rng systems.RandomSource, view View) *Simulator {
	depth, width := gridSize(cfg)
	if view == nil {
		view = headlessView{}
	}

	field := systems.NewField(depth, width, rng, cfg.Weather.MaxLength, cfg.DayNight.HalfPeriod)
	s := &Simulator{
		cfg:   cfg,
		rng:   rng,
		field: field,
		eco:   systems.NewEcosystem(cfg, field, rng),
		view:  view,
	}
	s.Reset()
	return s
}

// Options configures a simulator built by NewWithOptions.
type Options struct {
	Seed      int64
	Depth     int    // overrides world.depth when positive
	Width     int    // overrides world.width when positive
	LogStats  bool   // log window stats and bookmarks
	OutputDir string // CSV output directory; empty disables output
	Views     []View // shown after the recorder
}

// NewWithOptions creates a simulator with a seeded random source and a
// telemetry recorder installed as both observer and first view.
func NewWithOptions(cfg *config.Config, opts Options) (*Simulator, error) {
	c := *cfg
	if opts.Depth > 0 {
		c.World.Depth = opts.Depth
	}
	if opts.Width > 0 {
		c.World.Width = opts.Width
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	recorder, output, perf, err := setupTelemetry(&c, opts)
	if err != nil {
		return nil, err
	}

	views := append(Views{recorder}, opts.Views...)

	depth, width := gridSize(&c)
	field := systems.NewField(depth, width, rng, c.Weather.MaxLength, c.DayNight.HalfPeriod)
	s := &Simulator{
		cfg:      &c,
		rng:      rng,
		field:    field,
		eco:      systems.NewEcosystem(&c, field, rng),
		view:     views,
		perf:     perf,
		recorder: recorder,
		output:   output,
	}
	s.eco.SetObserver(recorder)
	s.Reset()
	return s, nil
}

// Step returns the number of steps simulated since the last reset.
func (s *Simulator) Step() int {
	return s.step
}

// Ecosystem returns the entity arena.
func (s *Simulator) Ecosystem() *systems.Ecosystem {
	return s.eco
}

// Field returns the grid.
func (s *Simulator) Field() *systems.Field {
	return s.field
}

// Config returns the configuration in effect.
func (s *Simulator) Config() *config.Config {
	return s.cfg
}

// Roster returns a copy of the entities in acting order.
func (s *Simulator) Roster() []ecs.Entity {
	out := make([]ecs.Entity, len(s.roster))
	copy(out, s.roster)
	return out
}

// Population returns the number of entities on the roster.
func (s *Simulator) Population() int {
	return len(s.roster)
}

// IsViable asks the view whether the simulation can continue.
func (s *Simulator) IsViable() bool {
	return s.view.IsViable(s.eco)
}

// Recorder returns the telemetry recorder, or nil for simulators built with New.
func (s *Simulator) Recorder() *telemetry.Recorder {
	return s.recorder
}

// Close flushes and closes telemetry output.
func (s *Simulator) Close() error {
	return s.output.Close()
}

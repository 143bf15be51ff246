// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/savanna/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Default grid dimensions, used when the configured ones are not positive.
const (
	DefaultDepth = 80
	DefaultWidth = 120
)

// ErrUnknownSpecies is returned when a config names a species the world does not model.
var ErrUnknownSpecies = errors.New("unknown species")

// Config holds all simulation configuration parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Weather   WeatherConfig   `yaml:"weather"`
	DayNight  DayNightConfig  `yaml:"day_night"`
	Species   []SpeciesConfig `yaml:"species"`
	Runner    RunnerConfig    `yaml:"runner"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Stream    StreamConfig    `yaml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the grid dimensions.
type WorldConfig struct {
	Depth int `yaml:"depth"` // rows
	Width int `yaml:"width"` // columns
}

// WeatherConfig holds weather state machine parameters.
type WeatherConfig struct {
	MaxLength       int     `yaml:"max_length"`        // longest run of a single condition, in steps
	RainGrowthBonus float64 `yaml:"rain_growth_bonus"` // added to plant growth probability while raining
}

// DayNightConfig holds the day/night cycle.
type DayNightConfig struct {
	HalfPeriod int `yaml:"half_period"` // steps of day followed by the same number of night
}

// SpeciesConfig describes one species. Plants use the growth fields,
// animals use the breeding and feeding fields.
type SpeciesConfig struct {
	Name                string  `yaml:"name"`
	Kind                string  `yaml:"kind"` // plant, consumer, apex
	CreationProbability float64 `yaml:"creation_probability"`
	MaxAge              int     `yaml:"max_age"`

	// Plants
	GrowthRate        int     `yaml:"growth_rate,omitempty"`        // Bernoulli trials per step
	GrowthProbability float64 `yaml:"growth_probability,omitempty"` // per trial

	// Animals
	BreedingAge         int            `yaml:"breeding_age,omitempty"`
	BreedingProbability float64        `yaml:"breeding_probability,omitempty"`
	MaxLitterSize       int            `yaml:"max_litter_size,omitempty"`
	FoodValue           int            `yaml:"food_value,omitempty"`        // newborn food level
	RandomFoodLevel     bool           `yaml:"random_food_level,omitempty"` // seeded animals start with Intn(FoodValue)
	Hungers             bool           `yaml:"hungers,omitempty"`           // food level drops every step
	Nocturnal           bool           `yaml:"nocturnal,omitempty"`         // hunts and moves only at night
	MateDistance        int            `yaml:"mate_distance,omitempty"`     // radius searched for a male
	BirthDistance       int            `yaml:"birth_distance,omitempty"`    // radius offspring are placed in
	Diet                map[string]int `yaml:"diet,omitempty"`              // prey name -> food value restored
}

// RunnerConfig holds command runner parameters.
type RunnerConfig struct {
	LongRunSteps int `yaml:"long_run_steps"`
	QueueSize    int `yaml:"queue_size"`
}

// TelemetryConfig holds stats collection parameters.
type TelemetryConfig struct {
	WindowSteps int `yaml:"window_steps"` // steps per stats window
	LogEvery    int `yaml:"log_every"`    // log a status line every N steps (0 = never)
}

// StreamConfig holds websocket status streaming parameters.
type StreamConfig struct {
	QueueSize    int     `yaml:"queue_size"`
	WriteTimeout float64 `yaml:"write_timeout"` // seconds
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	// Table is indexed by components.Species.
	Table [components.NumSpecies]SpeciesParams
	// SeedOrder lists species in the order their creation draws are made.
	SeedOrder []components.Species
}

// SpeciesParams is the resolved, typed form of SpeciesConfig.
type SpeciesParams struct {
	Species components.Species
	Kind    components.Kind
	Defined bool

	CreationProbability float64
	MaxAge              int

	GrowthRate        int
	GrowthProbability float64

	BreedingAge         int
	BreedingProbability float64
	MaxLitterSize       int
	FoodValue           int
	RandomFoodLevel     bool
	Hungers             bool
	Nocturnal           bool
	MateDistance        int
	BirthDistance       int
	Diet                [components.NumSpecies]int // 0 = not prey
}

// Eats reports whether prey is part of this species' diet.
func (p *SpeciesParams) Eats(prey components.Species) bool {
	return p.Diet[prey] > 0
}

// Params returns the resolved parameters of a species.
func (c *Config) Params(s components.Species) *SpeciesParams {
	return &c.Derived.Table[s]
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults. Panics if they fail to parse.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// A species list in the user file replaces the default list wholesale.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve validates the config and recomputes derived values.
// Call it again after mutating species parameters in place.
func (c *Config) Resolve() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Validate checks species definitions for unknown names and out-of-range values.
func (c *Config) Validate() error {
	seen := make(map[components.Species]bool, len(c.Species))
	for _, sc := range c.Species {
		s, ok := components.ParseSpecies(sc.Name)
		if !ok {
			return fmt.Errorf("species %q: %w", sc.Name, ErrUnknownSpecies)
		}
		if seen[s] {
			return fmt.Errorf("species %q defined twice", sc.Name)
		}
		seen[s] = true

		kind, ok := components.ParseKind(sc.Kind)
		if !ok {
			return fmt.Errorf("species %q: unknown kind %q", sc.Name, sc.Kind)
		}
		if err := checkProbability(sc.Name, "creation_probability", sc.CreationProbability); err != nil {
			return err
		}
		if sc.MaxAge <= 0 {
			return fmt.Errorf("species %q: max_age must be positive", sc.Name)
		}

		if kind == components.KindPlant {
			if len(sc.Diet) > 0 {
				return fmt.Errorf("species %q: plants have no diet", sc.Name)
			}
			if err := checkProbability(sc.Name, "growth_probability", sc.GrowthProbability); err != nil {
				return err
			}
			continue
		}

		if err := checkProbability(sc.Name, "breeding_probability", sc.BreedingProbability); err != nil {
			return err
		}
		if sc.MaxLitterSize <= 0 {
			return fmt.Errorf("species %q: max_litter_size must be positive", sc.Name)
		}
		if sc.MateDistance <= 0 || sc.BirthDistance <= 0 {
			return fmt.Errorf("species %q: mate_distance and birth_distance must be positive", sc.Name)
		}
		if limit := max(c.World.Depth, c.World.Width); limit > 0 && max(sc.MateDistance, sc.BirthDistance) > limit {
			return fmt.Errorf("species %q: mate_distance and birth_distance must not exceed %d", sc.Name, limit)
		}
		for prey, value := range sc.Diet {
			if _, ok := components.ParseSpecies(prey); !ok {
				return fmt.Errorf("species %q diet %q: %w", sc.Name, prey, ErrUnknownSpecies)
			}
			if value <= 0 {
				return fmt.Errorf("species %q diet %q: food value must be positive", sc.Name, prey)
			}
		}
	}
	return nil
}

func checkProbability(name, field string, p float64) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("species %q: %s %v outside [0,1]", name, field, p)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
// Assumes Validate has passed.
func (c *Config) computeDerived() {
	c.Derived.Table = [components.NumSpecies]SpeciesParams{}
	c.Derived.SeedOrder = c.Derived.SeedOrder[:0]

	for _, sc := range c.Species {
		s, _ := components.ParseSpecies(sc.Name)
		kind, _ := components.ParseKind(sc.Kind)
		p := SpeciesParams{
			Species:             s,
			Kind:                kind,
			Defined:             true,
			CreationProbability: sc.CreationProbability,
			MaxAge:              sc.MaxAge,
			GrowthRate:          sc.GrowthRate,
			GrowthProbability:   sc.GrowthProbability,
			BreedingAge:         sc.BreedingAge,
			BreedingProbability: sc.BreedingProbability,
			MaxLitterSize:       sc.MaxLitterSize,
			FoodValue:           sc.FoodValue,
			RandomFoodLevel:     sc.RandomFoodLevel,
			Hungers:             sc.Hungers,
			Nocturnal:           sc.Nocturnal,
			MateDistance:        sc.MateDistance,
			BirthDistance:       sc.BirthDistance,
		}
		for prey, value := range sc.Diet {
			ps, _ := components.ParseSpecies(prey)
			p.Diet[ps] = value
		}
		c.Derived.Table[s] = p
		c.Derived.SeedOrder = append(c.Derived.SeedOrder, s)
	}

	if c.Weather.MaxLength <= 0 {
		c.Weather.MaxLength = 9
	}
	if c.DayNight.HalfPeriod <= 0 {
		c.DayNight.HalfPeriod = 12
	}
	if c.Runner.LongRunSteps <= 0 {
		c.Runner.LongRunSteps = 4000
	}
	if c.Runner.QueueSize <= 0 {
		c.Runner.QueueSize = 16
	}
	if c.Telemetry.WindowSteps <= 0 {
		c.Telemetry.WindowSteps = 50
	}
	if c.Stream.QueueSize <= 0 {
		c.Stream.QueueSize = 256
	}
}

// FindSpecies returns the config entry for a species, or nil.
func (c *Config) FindSpecies(s components.Species) *SpeciesConfig {
	for i := range c.Species {
		if ps, ok := components.ParseSpecies(c.Species[i].Name); ok && ps == s {
			return &c.Species[i]
		}
	}
	return nil
}

// Clone returns a deep copy that can be mutated and re-resolved
// without affecting c.
func (c *Config) Clone() *Config {
	out := *c
	out.Species = make([]SpeciesConfig, len(c.Species))
	for i, sc := range c.Species {
		if sc.Diet != nil {
			diet := make(map[string]int, len(sc.Diet))
			for k, v := range sc.Diet {
				diet[k] = v
			}
			sc.Diet = diet
		}
		out.Species[i] = sc
	}
	out.Derived.SeedOrder = append([]components.Species(nil), c.Derived.SeedOrder...)
	return &out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

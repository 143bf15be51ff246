// Package telemetry provides population census, windowed statistics and CSV output.
package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/systems"
)

// PopulationRow is one per-step census line in population.csv.
type PopulationRow struct {
	Run     int    `csv:"run"` // incremented on every reset
	Step    int    `csv:"step"`
	Weather string `csv:"weather"`
	Day     bool   `csv:"day"`
	Grass   int    `csv:"grass"`
	Acacia  int    `csv:"acacia"`
	Rabbit  int    `csv:"rabbit"`
	Mouse   int    `csv:"mouse"`
	Snake   int    `csv:"snake"`
	Tiger   int    `csv:"tiger"`
	Total   int    `csv:"total"`
}

// NewPopulationRow builds a row from per-species counts.
func NewPopulationRow(step int, weather string, day bool, counts [components.NumSpecies]int) PopulationRow {
	row := PopulationRow{
		Step:    step,
		Weather: weather,
		Day:     day,
		Grass:   counts[components.Grass],
		Acacia:  counts[components.Acacia],
		Rabbit:  counts[components.Rabbit],
		Mouse:   counts[components.Mouse],
		Snake:   counts[components.Snake],
		Tiger:   counts[components.Tiger],
	}
	for _, c := range counts {
		row.Total += c
	}
	return row
}

// WindowStats holds aggregated statistics for a window of steps.
type WindowStats struct {
	WindowStart int `csv:"-"`
	WindowEnd   int `csv:"window_end"`

	// Population at window end
	Grass  int `csv:"grass"`
	Acacia int `csv:"acacia"`
	Rabbit int `csv:"rabbit"`
	Mouse  int `csv:"mouse"`
	Snake  int `csv:"snake"`
	Tiger  int `csv:"tiger"`

	Represented int `csv:"species_alive"`

	// Events during window
	Births             int `csv:"births"`
	Deaths             int `csv:"deaths"`
	DeathsAge          int `csv:"deaths_age"`
	DeathsHunger       int `csv:"deaths_hunger"`
	DeathsOvercrowding int `csv:"deaths_overcrowding"`
	DeathsEaten        int `csv:"deaths_eaten"`
	Kills              int `csv:"kills"`

	// Total population over the window's steps
	PopulationMean float64 `csv:"population_mean"`
	PopulationStd  float64 `csv:"population_std"`

	// Share of the window's steps that were rainy
	RainFraction float64 `csv:"rain_fraction"`
}

// SetCounts copies per-species counts into the stats.
func (s *WindowStats) SetCounts(counts [components.NumSpecies]int) {
	s.Grass = counts[components.Grass]
	s.Acacia = counts[components.Acacia]
	s.Rabbit = counts[components.Rabbit]
	s.Mouse = counts[components.Mouse]
	s.Snake = counts[components.Snake]
	s.Tiger = counts[components.Tiger]
	s.Represented = systems.Represented(counts)
}

// MeanStd returns the mean and sample standard deviation of values.
// The deviation is 0 for fewer than two values.
func MeanStd(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStart),
		slog.Int("window_end", s.WindowEnd),
		slog.Int("grass", s.Grass),
		slog.Int("acacia", s.Acacia),
		slog.Int("rabbit", s.Rabbit),
		slog.Int("mouse", s.Mouse),
		slog.Int("snake", s.Snake),
		slog.Int("tiger", s.Tiger),
		slog.Int("species_alive", s.Represented),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("deaths_age", s.DeathsAge),
		slog.Int("deaths_hunger", s.DeathsHunger),
		slog.Int("deaths_overcrowding", s.DeathsOvercrowding),
		slog.Int("deaths_eaten", s.DeathsEaten),
		slog.Int("kills", s.Kills),
		slog.Float64("population_mean", s.PopulationMean),
		slog.Float64("population_std", s.PopulationStd),
		slog.Float64("rain_fraction", s.RainFraction),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}

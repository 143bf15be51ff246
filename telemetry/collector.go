package telemetry

import (
	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/systems"
)

// Collector accumulates lifecycle events within windows of steps and
// produces WindowStats. It implements systems.Observer.
type Collector struct {
	windowSteps int

	// Current window tracking
	windowStart int

	// Event counters for current window
	births [components.NumSpecies]int
	deaths [components.NumSpecies][systems.NumCauses]int
	kills  [components.NumSpecies][components.NumSpecies]int

	// Per-step samples for current window
	population []float64
	rainySteps int
}

// NewCollector creates a collector that flushes every windowSteps steps.
func NewCollector(windowSteps int) *Collector {
	if windowSteps < 1 {
		windowSteps = 1
	}
	return &Collector{windowSteps: windowSteps}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(s components.Species) {
	c.births[s]++
}

// RecordDeath records a death event.
func (c *Collector) RecordDeath(s components.Species, cause systems.Cause) {
	c.deaths[s][cause]++
}

// RecordKill records a predator eating its prey.
func (c *Collector) RecordKill(predator, prey components.Species) {
	c.kills[predator][prey]++
}

// Births returns births of s in the current window.
func (c *Collector) Births(s components.Species) int {
	return c.births[s]
}

// Deaths returns deaths of s by cause in the current window.
func (c *Collector) Deaths(s components.Species, cause systems.Cause) int {
	return c.deaths[s][cause]
}

// Kills returns how often predator ate prey in the current window.
func (c *Collector) Kills(predator, prey components.Species) int {
	return c.kills[predator][prey]
}

// Sample records the end-of-step state used for window averages.
func (c *Collector) Sample(total int, raining bool) {
	c.population = append(c.population, float64(total))
	if raining {
		c.rainySteps++
	}
}

// ShouldFlush returns true if enough steps have passed to flush the window.
func (c *Collector) ShouldFlush(step int) bool {
	return step-c.windowStart >= c.windowSteps
}

// Flush produces a WindowStats and resets counters for the next window.
// counts are the live populations at the current step.
func (c *Collector) Flush(step int, counts [components.NumSpecies]int) WindowStats {
	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   step,
	}
	stats.SetCounts(counts)

	for s := range c.births {
		stats.Births += c.births[s]
		for cause, n := range c.deaths[s] {
			stats.Deaths += n
			switch systems.Cause(cause) {
			case systems.CauseAge:
				stats.DeathsAge += n
			case systems.CauseHunger:
				stats.DeathsHunger += n
			case systems.CauseOvercrowding:
				stats.DeathsOvercrowding += n
			case systems.CauseEaten:
				stats.DeathsEaten += n
			}
		}
		for _, n := range c.kills[s] {
			stats.Kills += n
		}
	}

	stats.PopulationMean, stats.PopulationStd = MeanStd(c.population)
	if len(c.population) > 0 {
		stats.RainFraction = float64(c.rainySteps) / float64(len(c.population))
	}

	c.clear()
	c.windowStart = step
	return stats
}

// Reset discards the current window and restarts counting at step 0.
func (c *Collector) Reset() {
	c.clear()
	c.windowStart = 0
}

func (c *Collector) clear() {
	c.births = [components.NumSpecies]int{}
	c.deaths = [components.NumSpecies][systems.NumCauses]int{}
	c.kills = [components.NumSpecies][components.NumSpecies]int{}
	c.population = c.population[:0]
	c.rainySteps = 0
}

// WindowSteps returns the number of steps per window.
func (c *Collector) WindowSteps() int {
	return c.windowSteps
}

package game

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/systems"
)

// countingView records how often it is shown and reset.
type countingView struct {
	shows  []int
	resets int
	viable bool
}

func (v *countingView) ShowStatus(step int, _ *systems.Ecosystem) { v.shows = append(v.shows, step) }
func (v *countingView) IsViable(*systems.Ecosystem) bool { return v.viable }
func (v *countingView) Reset() { v.resets++ }

func testConfig(t *testing.T, depth, width int) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.World.Depth = depth
	cfg.World.Width = width
	return cfg
}

// withOnly returns a config seeding only the given species, each with probability p.
func withOnly(t *testing.T, cfg *config.Config, p float64, names ...string) *config.Config {
	t.Helper()
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	for i := range cfg.Species {
		if keep[cfg.Species[i].Name] {
			cfg.Species[i].CreationProbability = p
		} else {
			cfg.Species[i].CreationProbability = 0
		}
	}
	if err := cfg.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return cfg
}

func newTestSimulator(t *testing.T, depth, width int, seed int64, view View) *Simulator {
	t.Helper()
	return New(testConfig(t, depth, width), rand.New(rand.NewSource(seed)), view)
}

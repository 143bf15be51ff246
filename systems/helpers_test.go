package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
)

// scriptedSource replays fixed draws. Once a script runs out, Float64
// returns fallback and Intn returns 0.
type scriptedSource struct {
	floats   []float64
	ints     []int
	fallback float64
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return s.fallback
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

// always returns a source whose Bernoulli draws all succeed (0) or all fail (0.99).
func always(succeed bool) *scriptedSource {
	if succeed {
		return &scriptedSource{fallback: 0}
	}
	return &scriptedSource{fallback: 0.99}
}

// recordingObserver counts lifecycle events.
type recordingObserver struct {
	births map[components.Species]int
	deaths map[Cause]int
	kills  int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		births: make(map[components.Species]int),
		deaths: make(map[Cause]int),
	}
}

func (o *recordingObserver) RecordBirth(s components.Species) { o.births[s]++ }
func (o *recordingObserver) RecordDeath(_ components.Species, c Cause) { o.deaths[c]++ }
func (o *recordingObserver) RecordKill(_, _ components.Species) { o.kills++ }

func newTestEcosystem(t *testing.T, depth, width int, rng RandomSource) (*Ecosystem, *recordingObserver) {
	t.Helper()
	cfg := config.Default()
	field := NewField(depth, width, rng, cfg.Weather.MaxLength, cfg.DayNight.HalfPeriod)
	eco := NewEcosystem(cfg, field, rng)
	obs := newRecordingObserver()
	eco.SetObserver(obs)
	return eco, obs
}

func loc(row, col int) components.Location {
	return components.Location{Row: row, Col: col}
}

// spawnMale places a male (never gives birth) of species s at l with age 0.
func spawnMale(eco *Ecosystem, s components.Species, l components.Location) ecs.Entity {
	return eco.Spawn(s, false, false, l)
}

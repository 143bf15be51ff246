package game

import (
	"log/slog"

	"github.com/pthm-cable/savanna/components"
)

// Reset returns the simulation to a freshly populated field at step 0.
func (s *Simulator) Reset() {
	s.step = 0
	s.eco.Reset()
	s.roster = s.roster[:0]
	s.newborns = s.newborns[:0]

	s.view.Reset()
	s.Populate()
	s.view.ShowStatus(s.step, s.eco)

	slog.Info("simulation_reset",
		"depth", s.field.Depth(),
		"width", s.field.Width(),
		"population", len(s.roster),
	)
}

// Populate seeds every cell of the field. For each cell a sex is drawn,
// then one creation draw per species in seed order; the first success
// claims the cell. Species with zero creation probability are skipped.
func (s *Simulator) Populate() {
	cfg := s.cfg
	for row := 0; row < s.field.Depth(); row++ {
		for col := 0; col < s.field.Width(); col++ {
			female := s.rng.Intn(2) == 0
			loc := components.Location{Row: row, Col: col}
			for _, sp := range cfg.Derived.SeedOrder {
				p := cfg.Params(sp)
				if p.CreationProbability == 0 {
					continue
				}
				if s.rng.Float64() <= p.CreationProbability {
					s.roster = append(s.roster, s.eco.Spawn(sp, female, true, loc))
					break
				}
			}
		}
	}
}

package game

import (
	"context"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/telemetry"
)

// SimulateOneStep advances the field by one step: every entity on the
// roster acts once in roster order, the dead are dropped, newborns are
// appended and the view is shown the result.
func (s *Simulator) SimulateOneStep() {
	s.perf.StartStep()

	s.step++
	s.field.IncreaseStep()

	s.perf.StartPhase(telemetry.PhaseAct)
	newborns := s.newborns[:0]
	kept := s.roster[:0]
	for _, e := range s.roster {
		newborns = s.eco.Act(e, newborns)
		if s.eco.IsAlive(e) {
			kept = append(kept, e)
		} else {
			s.eco.Release(e)
		}
	}

	// Entities kept above may have been eaten later in the pass,
	// and newborns may have been eaten before the pass ended.
	s.perf.StartPhase(telemetry.PhaseReap)
	s.roster = s.reap(kept)
	s.roster = append(s.roster, s.reap(newborns)...)
	s.newborns = newborns[:0]

	s.perf.StartPhase(telemetry.PhaseStatus)
	s.view.ShowStatus(s.step, s.eco)

	s.perf.EndStep()
}

// reap filters entities in place, releasing the dead.
func (s *Simulator) reap(entities []ecs.Entity) []ecs.Entity {
	live := entities[:0]
	for _, e := range entities {
		if s.eco.IsAlive(e) {
			live = append(live, e)
			continue
		}
		s.eco.Release(e)
	}
	return live
}

// Simulate runs up to n steps, stopping early once the view reports the
// field is no longer viable. It returns the number of steps run.
func (s *Simulator) Simulate(n int) int {
	return s.simulate(n, nil)
}

// SimulateContext is like Simulate but also stops when ctx is done.
// Cancellation is checked between steps.
func (s *Simulator) SimulateContext(ctx context.Context, n int) (int, error) {
	ran := s.simulate(n, func() bool { return ctx.Err() != nil })
	return ran, ctx.Err()
}

// RunLongSimulation runs the configured long run (4000 steps by default).
func (s *Simulator) RunLongSimulation() int {
	return s.Simulate(s.cfg.Runner.LongRunSteps)
}

func (s *Simulator) simulate(n int, halt func() bool) int {
	ran := 0
	for ran < n && s.view.IsViable(s.eco) {
		if halt != nil && halt() {
			break
		}
		s.SimulateOneStep()
		ran++
	}
	return ran
}

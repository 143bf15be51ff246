package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
)

// findFood scans the immediate neighbours of here in random order and eats
// the first live prey found. The predator's food level is restored to the
// prey's food value and the prey's cell is returned so the predator can
// move into it.
func (eco *Ecosystem) findFood(e ecs.Entity, here components.Location, p *config.SpeciesParams) (components.Location, bool) {
	for _, where := range eco.field.AdjacentLocations(here, 1) {
		occ, ok := eco.field.ObjectAt(where)
		if !ok || !eco.IsAlive(occ) {
			continue
		}
		prey := eco.orgMap.Get(occ).Species
		if !p.Eats(prey) {
			continue
		}

		eco.SetDead(occ, CauseEaten)
		eco.vitalsMap.Get(e).FoodLevel = p.Diet[prey]
		eco.observer.RecordKill(p.Species, prey)
		return where, true
	}
	return components.Location{}, false
}

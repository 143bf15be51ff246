package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/config"
)

// actPlant ages a plant and lets it seed neighbouring cells.
// Plants never move; they die of age or by being eaten.
func (eco *Ecosystem) actPlant(e ecs.Entity, p *config.SpeciesParams, newborns []ecs.Entity) []ecs.Entity {
	vit := eco.vitalsMap.Get(e)
	vit.Age++
	if vit.Age > p.MaxAge {
		eco.SetDead(e, CauseAge)
		return newborns
	}
	return eco.grow(e, p, newborns)
}

// grow places one seedling per successful growth trial into free
// immediate neighbours, stopping early when none are left.
func (eco *Ecosystem) grow(e ecs.Entity, p *config.SpeciesParams, newborns []ecs.Entity) []ecs.Entity {
	here, ok := eco.Location(e)
	if !ok {
		return newborns
	}
	free := eco.field.FreeAdjacentLocations(here, 1)
	seedlings := eco.growthTrials(p)

	for b := 0; b < seedlings && len(free) > 0; b++ {
		loc := free[0]
		free = free[1:]
		young := eco.Spawn(p.Species, false, false, loc)
		eco.observer.RecordBirth(p.Species)
		newborns = append(newborns, young)
	}
	return newborns
}

// growthTrials runs GrowthRate Bernoulli trials and returns the number of
// successes. Rain raises the per-trial probability.
func (eco *Ecosystem) growthTrials(p *config.SpeciesParams) int {
	prob := p.GrowthProbability
	if eco.field.WeatherCondition() == Raining {
		prob += eco.cfg.Weather.RainGrowthBonus
	}

	total := 0
	for i := 0; i < p.GrowthRate; i++ {
		if eco.rng.Float64() <= prob {
			total++
		}
	}
	return total
}

package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
)

// giveBirth lets a female produce a litter into free cells within the
// species' birth distance. A litter is only realised when a live male of
// the same species is within the species' mate distance.
func (eco *Ecosystem) giveBirth(e ecs.Entity, p *config.SpeciesParams, newborns []ecs.Entity) []ecs.Entity {
	here, ok := eco.Location(e)
	if !ok {
		return newborns
	}
	free := eco.field.FreeAdjacentLocations(here, p.BirthDistance)
	births := eco.litterSize(e, p)
	if births == 0 || !eco.mateNearby(here, p) {
		return newborns
	}

	for b := 0; b < births && len(free) > 0; b++ {
		loc := free[0]
		free = free[1:]
		young := eco.Spawn(p.Species, coinFlip(eco.rng), false, loc)
		eco.observer.RecordBirth(p.Species)
		newborns = append(newborns, young)
	}
	return newborns
}

// litterSize draws the number of births for this step: zero unless the
// animal has reached breeding age and wins the breeding draw, otherwise
// uniform in [1, MaxLitterSize].
func (eco *Ecosystem) litterSize(e ecs.Entity, p *config.SpeciesParams) int {
	if eco.vitalsMap.Get(e).Age < p.BreedingAge {
		return 0
	}
	if eco.rng.Float64() > p.BreedingProbability {
		return 0
	}
	return eco.rng.Intn(p.MaxLitterSize) + 1
}

// mateNearby reports whether a live male of the same species stands
// within the species' mate distance of here.
func (eco *Ecosystem) mateNearby(here components.Location, p *config.SpeciesParams) bool {
	for _, where := range eco.field.AdjacentLocations(here, p.MateDistance) {
		occ, ok := eco.field.ObjectAt(where)
		if !ok || !eco.IsAlive(occ) {
			continue
		}
		org := eco.orgMap.Get(occ)
		if org.Species == p.Species && !org.Female {
			return true
		}
	}
	return false
}

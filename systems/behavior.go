package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
)

// actAnimal runs one step for consumers and apex predators:
//
//	age -> hunger -> (female) give birth -> eat or wander -> overcrowding
//
// Nocturnal species skip eating and moving during the day, but still die
// when boxed in with no free neighbour.
func (eco *Ecosystem) actAnimal(e ecs.Entity, p *config.SpeciesParams, newborns []ecs.Entity) []ecs.Entity {
	vit := eco.vitalsMap.Get(e)
	vit.Age++
	if vit.Age > p.MaxAge {
		eco.SetDead(e, CauseAge)
		return newborns
	}
	if p.Hungers {
		vit.FoodLevel--
		if vit.FoodLevel <= 0 {
			eco.SetDead(e, CauseHunger)
			return newborns
		}
	}

	// Spawning offspring may move component storage; vit is not used past here.
	if eco.orgMap.Get(e).Female {
		newborns = eco.giveBirth(e, p, newborns)
	}

	here, ok := eco.Location(e)
	if !ok {
		return newborns
	}

	active := !p.Nocturnal || !eco.field.IsDay()

	var (
		target components.Location
		found  bool
	)
	if active {
		target, found = eco.findFood(e, here, p)
	}
	if !found {
		target, found = eco.field.FreeAdjacentLocation(here)
	}

	switch {
	case !found:
		eco.SetDead(e, CauseOvercrowding)
	case active:
		eco.SetLocation(e, target)
	}
	return newborns
}

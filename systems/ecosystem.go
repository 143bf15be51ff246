package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
)

// Cause records why an entity died.
type Cause uint8

const (
	CauseAge Cause = iota
	CauseHunger
	CauseOvercrowding
	CauseEaten
	CauseRemoved // killed from outside the step loop
	NumCauses
)

// String returns the cause name used in logs and CSV headers.
func (c Cause) String() string {
	switch c {
	case CauseAge:
		return "age"
	case CauseHunger:
		return "hunger"
	case CauseOvercrowding:
		return "overcrowding"
	case CauseEaten:
		return "eaten"
	case CauseRemoved:
		return "removed"
	}
	return "unknown"
}

// Observer receives lifecycle events as they happen during a step.
type Observer interface {
	RecordBirth(s components.Species)
	RecordDeath(s components.Species, cause Cause)
	RecordKill(predator, prey components.Species)
}

type nopObserver struct{}

func (nopObserver) RecordBirth(components.Species) {}
func (nopObserver) RecordDeath(components.Species, Cause) {}
func (nopObserver) RecordKill(components.Species, components.Species) {}

// Ecosystem is the entity arena. Entities are ECS handles; their state
// lives in Organism, Vitals and Placement components, and the Field maps
// occupied cells back to handles. Handles of removed entities are
// generation-checked, so stale references are detected rather than
// aliasing a newer entity.
type Ecosystem struct {
	cfg      *config.Config
	rng      RandomSource
	field    *Field
	observer Observer

	world     *ecs.World
	mapper    *ecs.Map3[components.Organism, components.Vitals, components.Placement]
	orgMap    *ecs.Map[components.Organism]
	vitalsMap *ecs.Map[components.Vitals]
	placeMap  *ecs.Map[components.Placement]
	filter    *ecs.Filter2[components.Organism, components.Vitals]
}

// NewEcosystem creates an empty arena over field.
func NewEcosystem(cfg *config.Config, field *Field, rng RandomSource) *Ecosystem {
	world := ecs.NewWorld()
	return &Ecosystem{
		cfg:       cfg,
		rng:       rng,
		field:     field,
		observer:  nopObserver{},
		world:     world,
		mapper:    ecs.NewMap3[components.Organism, components.Vitals, components.Placement](world),
		orgMap:    ecs.NewMap[components.Organism](world),
		vitalsMap: ecs.NewMap[components.Vitals](world),
		placeMap:  ecs.NewMap[components.Placement](world),
		filter:    ecs.NewFilter2[components.Organism, components.Vitals](world),
	}
}

// SetObserver installs the lifecycle event sink. nil restores the no-op sink.
func (eco *Ecosystem) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	eco.observer = o
}

// Field returns the field the entities live on.
func (eco *Ecosystem) Field() *Field {
	return eco.field
}

// Config returns the configuration the arena was built with.
func (eco *Ecosystem) Config() *config.Config {
	return eco.cfg
}

// Spawn creates a live entity of species s and places it at loc.
// With randomAge, animals start at a random age (and, for species with
// RandomFoodLevel, a random food level); plants always start at age 0.
func (eco *Ecosystem) Spawn(s components.Species, female, randomAge bool, loc components.Location) ecs.Entity {
	p := eco.cfg.Params(s)

	vit := components.Vitals{Alive: true}
	if p.Kind != components.KindPlant {
		vit.FoodLevel = p.FoodValue
		if randomAge {
			vit.Age = eco.rng.Intn(p.MaxAge)
			if p.RandomFoodLevel && p.FoodValue > 0 {
				vit.FoodLevel = eco.rng.Intn(p.FoodValue)
			}
		}
	}
	org := components.Organism{Species: s, Female: female}
	place := components.Placement{}

	e := eco.mapper.NewEntity(&org, &vit, &place)
	eco.SetLocation(e, loc)
	return e
}

// IsAlive reports whether e refers to a live entity.
func (eco *Ecosystem) IsAlive(e ecs.Entity) bool {
	if !eco.world.Alive(e) {
		return false
	}
	return eco.vitalsMap.Get(e).Alive
}

// Location returns where e stands. ok is false once e is dead.
func (eco *Ecosystem) Location(e ecs.Entity) (loc components.Location, ok bool) {
	if !eco.world.Alive(e) {
		return components.Location{}, false
	}
	place := eco.placeMap.Get(e)
	return place.Loc, place.Placed
}

// SpeciesOf returns the species of e.
func (eco *Ecosystem) SpeciesOf(e ecs.Entity) (components.Species, bool) {
	if !eco.world.Alive(e) {
		return 0, false
	}
	return eco.orgMap.Get(e).Species, true
}

// IsFemale reports the sex of e.
func (eco *Ecosystem) IsFemale(e ecs.Entity) bool {
	if !eco.world.Alive(e) {
		return false
	}
	return eco.orgMap.Get(e).Female
}

// Vitals returns a copy of e's lifecycle counters.
func (eco *Ecosystem) Vitals(e ecs.Entity) (components.Vitals, bool) {
	if !eco.world.Alive(e) {
		return components.Vitals{}, false
	}
	return *eco.vitalsMap.Get(e), true
}

// SetLocation moves e to loc, releasing the cell it held.
// A different occupant of loc is killed with CauseRemoved.
// No-op for dead entities.
func (eco *Ecosystem) SetLocation(e ecs.Entity, loc components.Location) {
	if !eco.IsAlive(e) {
		return
	}
	if occ, ok := eco.field.ObjectAt(loc); ok && occ != e {
		eco.SetDead(occ, CauseRemoved)
	}
	place := eco.placeMap.Get(e)
	if place.Placed {
		if occ, ok := eco.field.ObjectAt(place.Loc); ok && occ == e {
			eco.field.Clear(place.Loc)
		}
	}
	place.Loc = loc
	place.Placed = true
	eco.field.Place(e, loc)
}

// SetDead kills e: its cell is released and it never acts again.
// Calling it on a dead entity does nothing.
func (eco *Ecosystem) SetDead(e ecs.Entity, cause Cause) {
	if !eco.IsAlive(e) {
		return
	}
	eco.vitalsMap.Get(e).Alive = false

	place := eco.placeMap.Get(e)
	if place.Placed {
		if occ, ok := eco.field.ObjectAt(place.Loc); ok && occ == e {
			eco.field.Clear(place.Loc)
		}
		place.Placed = false
		place.Loc = components.Location{}
	}
	eco.observer.RecordDeath(eco.orgMap.Get(e).Species, cause)
}

// Release removes a dead entity from the arena. Live entities are left alone.
func (eco *Ecosystem) Release(e ecs.Entity) {
	if !eco.world.Alive(e) || eco.vitalsMap.Get(e).Alive {
		return
	}
	eco.world.RemoveEntity(e)
}

// Act performs one step of e's behaviour and returns newborns appended
// to the given slice. Dead or stale handles are ignored.
func (eco *Ecosystem) Act(e ecs.Entity, newborns []ecs.Entity) []ecs.Entity {
	if !eco.IsAlive(e) {
		return newborns
	}
	p := eco.cfg.Params(eco.orgMap.Get(e).Species)
	if p.Kind == components.KindPlant {
		return eco.actPlant(e, p, newborns)
	}
	return eco.actAnimal(e, p, newborns)
}

// Counts returns the number of live entities per species.
func (eco *Ecosystem) Counts() [components.NumSpecies]int {
	var counts [components.NumSpecies]int
	query := eco.filter.Query()
	for query.Next() {
		org, vit := query.Get()
		if vit.Alive {
			counts[org.Species]++
		}
	}
	return counts
}

// Represented returns how many species have at least one live member.
func Represented(counts [components.NumSpecies]int) int {
	n := 0
	for _, c := range counts {
		if c > 0 {
			n++
		}
	}
	return n
}

// Viable reports whether two or more species are still alive.
func Viable(counts [components.NumSpecies]int) bool {
	return Represented(counts) >= 2
}

// Reset removes every entity and resets the field.
func (eco *Ecosystem) Reset() {
	var all []ecs.Entity
	query := eco.filter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	// Query iteration must complete before the world is modified.
	for _, e := range all {
		eco.world.RemoveEntity(e)
	}
	eco.field.Reset()
}

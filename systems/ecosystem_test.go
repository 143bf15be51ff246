package systems

import (
	"testing"

	"github.com/pthm-cable/savanna/components"
)

func TestSpawnRandomAge(t *testing.T) {
	tests := []struct {
		species  components.Species
		wantAge  int
		wantFood int
	}{
		{components.Rabbit, 7, 30}, // no random food level
		{components.Snake, 7, 3},   // Intn(40)
		{components.Tiger, 7, 3},   // Intn(100)
		{components.Grass, 0, 0},   // plants ignore random age
	}

	for _, tt := range tests {
		t.Run(tt.species.String(), func(t *testing.T) {
			rng := &scriptedSource{ints: []int{0, 0, 7, 3}}
			eco, _ := newTestEcosystem(t, 2, 2, rng)

			e := eco.Spawn(tt.species, true, true, loc(0, 0))

			vit, ok := eco.Vitals(e)
			if !ok {
				t.Fatal("spawned entity not found")
			}
			if vit.Age != tt.wantAge || vit.FoodLevel != tt.wantFood || !vit.Alive {
				t.Errorf("vitals = %+v, want age %d food %d alive", vit, tt.wantAge, tt.wantFood)
			}
			if !eco.IsFemale(e) {
				t.Error("sex not kept")
			}
		})
	}
}

func TestSetDeadIsIdempotent(t *testing.T) {
	eco, obs := newTestEcosystem(t, 3, 3, always(false))
	e := spawnMale(eco, components.Rabbit, loc(1, 1))

	eco.SetDead(e, CauseRemoved)
	eco.SetDead(e, CauseRemoved)

	if obs.deaths[CauseRemoved] != 1 {
		t.Errorf("recorded %d deaths, want 1", obs.deaths[CauseRemoved])
	}
	if _, ok := eco.Location(e); ok {
		t.Error("dead entity still has a location")
	}
	if eco.Field().Occupied() != 0 {
		t.Error("dead entity still occupies its cell")
	}

	// Moving a dead entity does nothing.
	eco.SetLocation(e, loc(0, 0))
	if _, ok := eco.Field().ObjectAt(loc(0, 0)); ok {
		t.Error("dead entity was placed")
	}
}

func TestSetLocationDoesNotClearNewOccupant(t *testing.T) {
	eco, _ := newTestEcosystem(t, 3, 3, always(false))
	a := spawnMale(eco, components.Mouse, loc(0, 0))
	b := spawnMale(eco, components.Mouse, loc(2, 2))

	// b is placed over a's cell by hand, then a moves away.
	eco.Field().Place(b, loc(0, 0))
	eco.SetLocation(a, loc(1, 1))

	if got, ok := eco.Field().ObjectAt(loc(0, 0)); !ok || got != b {
		t.Error("moving away cleared another entity's cell")
	}
}

func TestReleaseOnlyRemovesDead(t *testing.T) {
	eco, _ := newTestEcosystem(t, 3, 3, always(false))
	live := spawnMale(eco, components.Mouse, loc(0, 0))
	dead := spawnMale(eco, components.Mouse, loc(1, 1))
	eco.SetDead(dead, CauseRemoved)

	eco.Release(live)
	eco.Release(dead)

	if !eco.IsAlive(live) {
		t.Error("live entity released")
	}
	if _, ok := eco.SpeciesOf(dead); ok {
		t.Error("released entity still resolvable")
	}
	// Acting on a stale handle is a no-op.
	if newborns := eco.Act(dead, nil); len(newborns) != 0 {
		t.Error("stale handle acted")
	}
}

func TestCountsAndReset(t *testing.T) {
	eco, _ := newTestEcosystem(t, 4, 4, always(false))
	spawnMale(eco, components.Grass, loc(0, 0))
	spawnMale(eco, components.Grass, loc(0, 1))
	spawnMale(eco, components.Tiger, loc(3, 3))
	dead := spawnMale(eco, components.Rabbit, loc(2, 2))
	eco.SetDead(dead, CauseRemoved)

	counts := eco.Counts()
	if counts[components.Grass] != 2 || counts[components.Tiger] != 1 || counts[components.Rabbit] != 0 {
		t.Errorf("Counts() = %v", counts)
	}

	eco.Reset()

	if counts := eco.Counts(); counts != [components.NumSpecies]int{} {
		t.Errorf("Counts() after reset = %v, want all zero", counts)
	}
	if eco.Field().Occupied() != 0 {
		t.Error("field not cleared by reset")
	}
}

func TestSetLocationKillsDisplacedOccupant(t *testing.T) {
	eco, obs := newTestEcosystem(t, 3, 3, always(false))
	a := spawnMale(eco, components.Mouse, loc(1, 1))
	b := spawnMale(eco, components.Rabbit, loc(0, 0))

	eco.SetLocation(b, loc(1, 1))

	if eco.IsAlive(a) {
		t.Error("displaced occupant still alive")
	}
	if _, ok := eco.Location(a); ok {
		t.Error("displaced occupant still has a location")
	}
	if obs.deaths[CauseRemoved] != 1 {
		t.Errorf("recorded %d removals, want 1", obs.deaths[CauseRemoved])
	}
	if got, ok := eco.Field().ObjectAt(loc(1, 1)); !ok || got != b {
		t.Errorf("ObjectAt(1,1) = %v, want %v", got, b)
	}
	if eco.Field().Occupied() != 1 {
		t.Errorf("Occupied() = %d, want 1", eco.Field().Occupied())
	}
}

func TestViable(t *testing.T) {
	tests := []struct {
		name   string
		counts [components.NumSpecies]int
		want   bool
	}{
		{"empty", [components.NumSpecies]int{}, false},
		{"one species", [components.NumSpecies]int{components.Grass: 40}, false},
		{"two species", [components.NumSpecies]int{components.Grass: 40, components.Tiger: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Viable(tt.counts); got != tt.want {
				t.Errorf("Viable(%v) = %v, want %v", tt.counts, got, tt.want)
			}
		})
	}
}

package systems

import (
	"testing"

	"github.com/pthm-cable/savanna/components"
)

// ---------- aging and hunger ----------

func TestRabbitStarves(t *testing.T) {
	eco, obs := newTestEcosystem(t, 5, 5, always(false))
	rabbit := spawnMale(eco, components.Rabbit, loc(2, 2))

	for i := 1; i < 30; i++ {
		eco.Act(rabbit, nil)
		if !eco.IsAlive(rabbit) {
			t.Fatalf("died after %d steps, want alive for 29", i)
		}
	}
	eco.Act(rabbit, nil)

	if eco.IsAlive(rabbit) {
		t.Fatal("alive with an empty stomach")
	}
	if obs.deaths[CauseHunger] != 1 {
		t.Errorf("hunger deaths = %d, want 1", obs.deaths[CauseHunger])
	}
}

func TestMouseNeverHungers(t *testing.T) {
	eco, obs := newTestEcosystem(t, 5, 5, always(false))
	mouse := spawnMale(eco, components.Mouse, loc(2, 2))

	for i := 1; i <= 50; i++ {
		eco.Act(mouse, nil)
		if !eco.IsAlive(mouse) {
			t.Fatalf("died at age %d, want alive through age 50", i)
		}
	}
	vit, _ := eco.Vitals(mouse)
	if vit.FoodLevel != 50 {
		t.Errorf("FoodLevel = %d, want 50", vit.FoodLevel)
	}

	eco.Act(mouse, nil)
	if eco.IsAlive(mouse) {
		t.Fatal("alive at age 51")
	}
	if obs.deaths[CauseAge] != 1 {
		t.Errorf("age deaths = %d, want 1", obs.deaths[CauseAge])
	}
}

// ---------- feeding and movement ----------

func TestPredatorEats(t *testing.T) {
	tests := []struct {
		predator components.Species
		prey     components.Species
		night    bool
		food     int
	}{
		{components.Rabbit, components.Grass, false, 30},
		{components.Mouse, components.Grass, false, 50},
		{components.Snake, components.Mouse, false, 40},
		{components.Snake, components.Rabbit, false, 50},
		{components.Tiger, components.Rabbit, true, 100},
		{components.Tiger, components.Mouse, true, 100},
	}

	for _, tt := range tests {
		t.Run(tt.predator.String()+"_"+tt.prey.String(), func(t *testing.T) {
			eco, obs := newTestEcosystem(t, 1, 2, always(false))
			if tt.night {
				for eco.Field().IsDay() {
					eco.Field().IncreaseStep()
				}
			}
			hunter := spawnMale(eco, tt.predator, loc(0, 0))
			prey := spawnMale(eco, tt.prey, loc(0, 1))

			eco.Act(hunter, nil)

			if eco.IsAlive(prey) {
				t.Fatal("prey survived")
			}
			if got, _ := eco.Field().ObjectAt(loc(0, 1)); got != hunter {
				t.Error("predator did not move into the prey's cell")
			}
			if _, ok := eco.Field().ObjectAt(loc(0, 0)); ok {
				t.Error("predator's old cell still occupied")
			}
			vit, _ := eco.Vitals(hunter)
			if vit.FoodLevel != tt.food {
				t.Errorf("FoodLevel = %d, want %d", vit.FoodLevel, tt.food)
			}
			if obs.kills != 1 || obs.deaths[CauseEaten] != 1 {
				t.Errorf("kills = %d, eaten = %d; want 1 and 1", obs.kills, obs.deaths[CauseEaten])
			}
		})
	}
}

func TestIgnoresNonPrey(t *testing.T) {
	eco, _ := newTestEcosystem(t, 1, 3, always(false))
	rabbit := spawnMale(eco, components.Rabbit, loc(0, 1))
	mouse := spawnMale(eco, components.Mouse, loc(0, 0))

	eco.Act(rabbit, nil)

	if !eco.IsAlive(mouse) {
		t.Error("rabbit ate a mouse")
	}
	if got, _ := eco.Field().ObjectAt(loc(0, 2)); got != rabbit {
		t.Error("rabbit did not wander into the free cell")
	}
}

func TestOvercrowding(t *testing.T) {
	tests := []struct {
		name    string
		species components.Species
	}{
		{"consumer", components.Rabbit},
		{"nocturnal by day", components.Tiger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eco, obs := newTestEcosystem(t, 3, 3, always(false))
			animal := spawnMale(eco, tt.species, loc(1, 1))
			for _, l := range eco.Field().AdjacentLocations(loc(1, 1), 1) {
				spawnMale(eco, components.Snake, l)
			}

			eco.Act(animal, nil)

			if eco.IsAlive(animal) {
				t.Fatal("survived with no free neighbour")
			}
			if obs.deaths[CauseOvercrowding] != 1 {
				t.Errorf("overcrowding deaths = %d, want 1", obs.deaths[CauseOvercrowding])
			}
		})
	}
}

func TestTigerRestsByDay(t *testing.T) {
	eco, _ := newTestEcosystem(t, 1, 3, always(false))
	rabbit := spawnMale(eco, components.Rabbit, loc(0, 0))
	tiger := spawnMale(eco, components.Tiger, loc(0, 1))

	if !eco.Field().IsDay() {
		t.Fatal("field does not start in daylight")
	}
	eco.Act(tiger, nil)

	if !eco.IsAlive(rabbit) {
		t.Error("tiger hunted by day")
	}
	if here, _ := eco.Location(tiger); here != loc(0, 1) {
		t.Errorf("tiger moved by day to %v", here)
	}
	vit, _ := eco.Vitals(tiger)
	if vit.FoodLevel != 99 {
		t.Errorf("FoodLevel = %d, want 99", vit.FoodLevel)
	}

	for eco.Field().IsDay() {
		eco.Field().IncreaseStep()
	}
	eco.Act(tiger, nil)

	if eco.IsAlive(rabbit) {
		t.Error("tiger did not hunt at night")
	}
}

// ---------- breeding ----------

func TestTigerStarvesByDay(t *testing.T) {
	// Weather draws, then age 0 and food level 1 at spawn.
	rng := &scriptedSource{ints: []int{0, 0, 0, 1}, fallback: 0.99}
	eco, obs := newTestEcosystem(t, 3, 3, rng)
	tiger := eco.Spawn(components.Tiger, false, true, loc(1, 1))

	eco.Act(tiger, nil)

	if eco.IsAlive(tiger) {
		t.Fatal("tiger survived with no food left")
	}
	if obs.deaths[CauseHunger] != 1 {
		t.Errorf("hunger deaths = %d, want 1", obs.deaths[CauseHunger])
	}
}

func TestGiveBirth(t *testing.T) {
	// age is the mother's age at spawn; mate is the neighbour's cell (nil for none).
	tests := []struct {
		name    string
		species components.Species
		age     int
		mate    *components.Location
		female  bool
		draw    float64
		want    int
	}{
		{"success", components.Rabbit, 10, &components.Location{Row: 1, Col: 1}, false, 0, 1},
		{"no mate", components.Rabbit, 10, nil, false, 0, 0},
		{"neighbour is female", components.Rabbit, 10, &components.Location{Row: 1, Col: 1}, true, 0, 0},
		{"mate out of range", components.Rabbit, 10, &components.Location{Row: 0, Col: 0}, false, 0, 0},
		{"too young", components.Rabbit, 2, &components.Location{Row: 1, Col: 1}, false, 0, 0},
		{"draw fails", components.Rabbit, 10, &components.Location{Row: 1, Col: 1}, false, 0.99, 0},
		{"mouse mates at distance 2", components.Mouse, 10, &components.Location{Row: 0, Col: 0}, false, 0, 1},
		{"snake mates at distance 2", components.Snake, 25, &components.Location{Row: 0, Col: 0}, false, 0, 1},
		{"snake neighbour is female", components.Snake, 25, &components.Location{Row: 1, Col: 1}, true, 0, 0},
		{"snake too young", components.Snake, 15, &components.Location{Row: 1, Col: 1}, false, 0, 0},
		{"tiger breeds by day", components.Tiger, 45, &components.Location{Row: 0, Col: 0}, false, 0, 1},
		{"tiger no mate", components.Tiger, 45, nil, false, 0, 0},
		{"tiger too young", components.Tiger, 30, &components.Location{Row: 1, Col: 1}, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// first two ints pick the weather, the third the mother's age
			rng := &scriptedSource{ints: []int{0, 0, tt.age}, fallback: tt.draw}
			eco, obs := newTestEcosystem(t, 5, 5, rng)
			if eco.Config().Params(tt.species).RandomFoodLevel {
				rng.ints = append(rng.ints, 30)
			}
			mother := eco.Spawn(tt.species, true, true, loc(2, 2))
			if tt.mate != nil {
				eco.Spawn(tt.species, tt.female, false, *tt.mate)
			}

			newborns := eco.Act(mother, nil)

			if len(newborns) != tt.want {
				t.Fatalf("got %d newborns, want %d", len(newborns), tt.want)
			}
			if obs.births[tt.species] != tt.want {
				t.Errorf("recorded %d births, want %d", obs.births[tt.species], tt.want)
			}
			for _, n := range newborns {
				vit, _ := eco.Vitals(n)
				if vit.Age != 0 || vit.FoodLevel != eco.Config().Params(tt.species).FoodValue {
					t.Errorf("newborn vitals = %+v", vit)
				}
				if _, ok := eco.Location(n); !ok {
					t.Error("newborn not placed")
				}
			}
		})
	}
}

func TestLitterLimitedByFreeCells(t *testing.T) {
	// mother boxed in except for one free cell, next to a male
	rng := &scriptedSource{ints: []int{0, 0, 10}, fallback: 0}
	eco, _ := newTestEcosystem(t, 1, 3, rng)
	mother := eco.Spawn(components.Rabbit, true, true, loc(0, 1))
	spawnMale(eco, components.Rabbit, loc(0, 0))
	rng.ints = []int{0, 2} // shuffle, then a litter of 3

	newborns := eco.Act(mother, nil)

	if len(newborns) != 1 {
		t.Errorf("got %d newborns, want 1", len(newborns))
	}
}

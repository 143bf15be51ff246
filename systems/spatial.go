// Package systems provides the field, weather and species behaviour of the simulation.
package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
)

// InvariantViolation is the panic value raised when a caller hands the
// field a location outside the grid. Neighbour searches clamp to the
// grid, so this only fires on programming errors.
type InvariantViolation struct {
	Op           string
	Loc          components.Location
	Depth, Width int
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("field %s: location %v outside %dx%d grid", e.Op, e.Loc, e.Depth, e.Width)
}

// Field is a bounded rectangular grid holding at most one entity per cell.
// It owns the occupancy registry, the weather and the step counter that
// drives the day/night cycle.
type Field struct {
	depth, width int
	rng          RandomSource

	occupancy map[components.Location]ecs.Entity
	where     map[ecs.Entity]components.Location // reverse index for eviction on Place

	weather          *Weather
	maxWeatherLength int
	halfPeriod       int
	step             int
}

// NewField creates an empty field. depth and width must be positive.
func NewField(depth, width int, rng RandomSource, maxWeatherLength, dayHalfPeriod int) *Field {
	if depth <= 0 || width <= 0 {
		panic(&InvariantViolation{Op: "new", Depth: depth, Width: width})
	}
	if dayHalfPeriod <= 0 {
		dayHalfPeriod = 1
	}
	return &Field{
		depth:            depth,
		width:            width,
		rng:              rng,
		occupancy:        make(map[components.Location]ecs.Entity),
		where:            make(map[ecs.Entity]components.Location),
		weather:          NewWeather(rng, maxWeatherLength),
		maxWeatherLength: maxWeatherLength,
		halfPeriod:       dayHalfPeriod,
	}
}

// InBounds reports whether loc lies inside the grid.
func (f *Field) InBounds(loc components.Location) bool {
	return loc.Row >= 0 && loc.Row < f.depth && loc.Col >= 0 && loc.Col < f.width
}

func (f *Field) mustBeInBounds(op string, loc components.Location) {
	if !f.InBounds(loc) {
		panic(&InvariantViolation{Op: op, Loc: loc, Depth: f.depth, Width: f.width})
	}
}

// Place registers e at loc. Any mapping e held elsewhere is dropped.
// An existing occupant of loc loses its mapping; Ecosystem.SetLocation
// kills it first so no live entity is left unplaced.
func (f *Field) Place(e ecs.Entity, loc components.Location) {
	f.mustBeInBounds("place", loc)

	if prev, ok := f.where[e]; ok && f.occupancy[prev] == e {
		delete(f.occupancy, prev)
	}
	if other, ok := f.occupancy[loc]; ok && other != e {
		delete(f.where, other)
	}
	f.occupancy[loc] = e
	f.where[e] = loc
}

// Clear empties loc. No-op if it is already empty.
func (f *Field) Clear(loc components.Location) {
	f.mustBeInBounds("clear", loc)
	if e, ok := f.occupancy[loc]; ok {
		delete(f.occupancy, loc)
		if f.where[e] == loc {
			delete(f.where, e)
		}
	}
}

// Reset empties the whole field, rewinds the step counter and draws fresh weather.
func (f *Field) Reset() {
	clear(f.occupancy)
	clear(f.where)
	f.step = 0
	f.weather = NewWeather(f.rng, f.maxWeatherLength)
}

// ObjectAt returns the occupant of loc, if any.
func (f *Field) ObjectAt(loc components.Location) (ecs.Entity, bool) {
	f.mustBeInBounds("get", loc)
	e, ok := f.occupancy[loc]
	return e, ok
}

// ObjectAtRC is ObjectAt for a row/column pair.
func (f *Field) ObjectAtRC(row, col int) (ecs.Entity, bool) {
	return f.ObjectAt(components.Location{Row: row, Col: col})
}

// AdjacentLocations returns every in-bounds cell within Chebyshev distance
// of loc, excluding loc itself. The order is shuffled on every call so the
// first match found by a scan carries no directional bias.
func (f *Field) AdjacentLocations(loc components.Location, distance int) []components.Location {
	f.mustBeInBounds("adjacent", loc)
	if distance < 1 {
		return nil
	}
	distance = min(distance, max(f.depth, f.width))

	locs := make([]components.Location, 0, (2*distance+1)*(2*distance+1)-1)
	for dr := -distance; dr <= distance; dr++ {
		row := loc.Row + dr
		if row < 0 || row >= f.depth {
			continue
		}
		for dc := -distance; dc <= distance; dc++ {
			col := loc.Col + dc
			if col < 0 || col >= f.width || (dr == 0 && dc == 0) {
				continue
			}
			locs = append(locs, components.Location{Row: row, Col: col})
		}
	}
	shuffle(f.rng, locs)
	return locs
}

// FreeAdjacentLocations returns the unoccupied subset of AdjacentLocations.
func (f *Field) FreeAdjacentLocations(loc components.Location, distance int) []components.Location {
	adjacent := f.AdjacentLocations(loc, distance)
	free := adjacent[:0]
	for _, l := range adjacent {
		if _, taken := f.occupancy[l]; !taken {
			free = append(free, l)
		}
	}
	return free
}

// FreeAdjacentLocation returns a free immediate neighbour of loc, if any.
func (f *Field) FreeAdjacentLocation(loc components.Location) (components.Location, bool) {
	free := f.FreeAdjacentLocations(loc, 1)
	if len(free) == 0 {
		return components.Location{}, false
	}
	return free[0], true
}

// IncreaseStep advances the step counter and the weather.
func (f *Field) IncreaseStep() {
	f.step++
	f.weather.Update()
}

// Step returns the number of steps taken since the last reset.
func (f *Field) Step() int {
	return f.step
}

// IsDay reports whether the current step falls in the light half of the cycle.
// Steps [0, halfPeriod) are day, the next halfPeriod steps are night, and so on.
func (f *Field) IsDay() bool {
	return (f.step/f.halfPeriod)%2 == 0
}

// Weather returns the weather machine.
func (f *Field) Weather() *Weather {
	return f.weather
}

// WeatherCondition returns the current weather condition.
func (f *Field) WeatherCondition() Condition {
	return f.weather.Condition()
}

// Depth returns the number of rows.
func (f *Field) Depth() int {
	return f.depth
}

// Width returns the number of columns.
func (f *Field) Width() int {
	return f.width
}

// Occupied returns the number of occupied cells.
func (f *Field) Occupied() int {
	return len(f.occupancy)
}

// Each calls fn for every occupied cell, in no particular order.
func (f *Field) Each(fn func(loc components.Location, e ecs.Entity)) {
	for loc, e := range f.occupancy {
		fn(loc, e)
	}
}

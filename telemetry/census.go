package telemetry

import (
	"fmt"
	"strings"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/systems"
)

// FieldStats counts the occupants of a field by species.
type FieldStats struct {
	counts  [components.NumSpecies]int
	counted bool
}

// Reset forgets the last count.
func (fs *FieldStats) Reset() {
	fs.counts = [components.NumSpecies]int{}
	fs.counted = false
}

// Count walks the field's occupancy and tallies live occupants per species.
func (fs *FieldStats) Count(eco *systems.Ecosystem) {
	fs.counts = [components.NumSpecies]int{}
	eco.Field().Each(func(_ components.Location, e ecs.Entity) {
		if !eco.IsAlive(e) {
			return
		}
		if s, ok := eco.SpeciesOf(e); ok {
			fs.counts[s]++
		}
	})
	fs.counted = true
}

// Counts returns the tallies of the last Count.
func (fs *FieldStats) Counts() [components.NumSpecies]int {
	return fs.counts
}

// Represented returns how many species have at least one live member.
func (fs *FieldStats) Represented() int {
	return systems.Represented(fs.counts)
}

// IsViable reports whether at least two species are still alive,
// counting the field first if it has not been counted since the last reset.
func (fs *FieldStats) IsViable(eco *systems.Ecosystem) bool {
	if !fs.counted {
		fs.Count(eco)
	}
	return systems.Viable(fs.counts)
}

// PopulationDetails renders the counts as "grass: 12 rabbit: 4 ...",
// listing only species that are present.
func (fs *FieldStats) PopulationDetails(eco *systems.Ecosystem) string {
	if !fs.counted {
		fs.Count(eco)
	}
	var sb strings.Builder
	for _, s := range components.AllSpecies() {
		if fs.counts[s] == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s: %d ", s, fs.counts[s])
	}
	return strings.TrimSpace(sb.String())
}

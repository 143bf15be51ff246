// Package components defines ECS components for the simulation.
package components

import "strings"

// Kind groups species by the behaviour they share.
type Kind uint8

const (
	KindPlant    Kind = iota // grows in place, never moves
	KindConsumer             // eats plants, is eaten by apex predators
	KindApex                 // eats consumers
)

// String returns the lowercase kind name used in config files.
func (k Kind) String() string {
	switch k {
	case KindPlant:
		return "plant"
	case KindConsumer:
		return "consumer"
	case KindApex:
		return "apex"
	}
	return "unknown"
}

// ParseKind parses a kind name as written in config files.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plant":
		return KindPlant, true
	case "consumer":
		return KindConsumer, true
	case "apex":
		return KindApex, true
	}
	return 0, false
}

// Species is the closed set of organisms the world knows about.
// The numeric value indexes per-species tables.
type Species uint8

const (
	Grass Species = iota
	Acacia
	Rabbit
	Mouse
	Snake
	Tiger

	NumSpecies = int(Tiger) + 1
)

var speciesNames = [NumSpecies]string{"grass", "acacia", "rabbit", "mouse", "snake", "tiger"}

// String returns the lowercase species name.
func (s Species) String() string {
	if int(s) < NumSpecies {
		return speciesNames[s]
	}
	return "unknown"
}

// ParseSpecies resolves a species name (case-insensitive).
func ParseSpecies(name string) (Species, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range speciesNames {
		if n == name {
			return Species(i), true
		}
	}
	return 0, false
}

// AllSpecies returns every species in declaration order.
func AllSpecies() []Species {
	out := make([]Species, NumSpecies)
	for i := range out {
		out[i] = Species(i)
	}
	return out
}

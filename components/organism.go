package components

// Organism bundles identity and sex. Plants ignore Female.
type Organism struct {
	Species Species
	Female  bool
}

// Vitals tracks the per-step lifecycle counters of an entity.
type Vitals struct {
	Age       int
	FoodLevel int  // steps left before starvation (species that hunger only)
	Alive     bool
}

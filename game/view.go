package game

import "github.com/pthm-cable/savanna/systems"

// View receives the state of the ecosystem after every step.
// All methods are called from the goroutine driving the simulation.
type View interface {
	// ShowStatus is called with the step number after each step and after a reset.
	ShowStatus(step int, eco *systems.Ecosystem)
	// IsViable reports whether the simulation should keep running.
	IsViable(eco *systems.Ecosystem) bool
	// Reset clears anything the view accumulated for the previous run.
	Reset()
}

// Views fans status updates out to several views.
// Viability is decided by the first view.
type Views []View

// ShowStatus forwards to every view.
func (vs Views) ShowStatus(step int, eco *systems.Ecosystem) {
	for _, v := range vs {
		v.ShowStatus(step, eco)
	}
}

// IsViable asks the first view. An empty list falls back to a census.
func (vs Views) IsViable(eco *systems.Ecosystem) bool {
	if len(vs) == 0 {
		return headlessView{}.IsViable(eco)
	}
	return vs[0].IsViable(eco)
}

// Reset forwards to every view.
func (vs Views) Reset() {
	for _, v := range vs {
		v.Reset()
	}
}

// headlessView shows nothing and is viable while two or more species live.
type headlessView struct{}

func (headlessView) ShowStatus(int, *systems.Ecosystem) {}

func (headlessView) IsViable(eco *systems.Ecosystem) bool {
	return systems.Viable(eco.Counts())
}

func (headlessView) Reset() {}

package systems

// Condition is the current weather state.
type Condition uint8

const (
	Sunny Condition = iota
	Raining
	Foggy
)

// String returns the lowercase condition name.
func (c Condition) String() string {
	switch c {
	case Raining:
		return "raining"
	case Foggy:
		return "foggy"
	}
	return "sunny"
}

// DefaultMaxWeatherLength is the longest a condition can last, in steps.
const DefaultMaxWeatherLength = 9

// Weather cycles between raining, foggy and sunny. Each condition is held
// for a random number of steps in [1, maxLength]; any condition may follow
// any other, including itself.
type Weather struct {
	rng       RandomSource
	maxLength int
	condition Condition
	remaining int
}

// NewWeather creates a weather machine and draws its first condition.
func NewWeather(rng RandomSource, maxLength int) *Weather {
	if maxLength <= 0 {
		maxLength = DefaultMaxWeatherLength
	}
	w := &Weather{rng: rng, maxLength: maxLength}
	w.randomize()
	return w
}

// randomize draws a new condition and duration. Two of the four outcomes
// map to sunny, so sunny is the most common state.
func (w *Weather) randomize() {
	switch w.rng.Intn(4) {
	case 1:
		w.condition = Raining
	case 2:
		w.condition = Foggy
	default:
		w.condition = Sunny
	}
	w.remaining = w.rng.Intn(w.maxLength) + 1
}

// Update advances the weather by one step.
func (w *Weather) Update() {
	w.remaining--
	if w.remaining <= 0 {
		w.randomize()
	}
}

// Condition returns the current condition.
func (w *Weather) Condition() Condition {
	return w.condition
}

// Remaining returns how many more steps the current condition lasts.
func (w *Weather) Remaining() int {
	return w.remaining
}

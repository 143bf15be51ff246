package components

import "testing"

func TestParseSpecies(t *testing.T) {
	tests := []struct {
		in   string
		want Species
		ok   bool
	}{
		{"grass", Grass, true},
		{" Tiger ", Tiger, true},
		{"MOUSE", Mouse, true},
		{"fox", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSpecies(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseSpecies(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSpeciesNamesRoundTrip(t *testing.T) {
	for _, s := range AllSpecies() {
		got, ok := ParseSpecies(s.String())
		if !ok || got != s {
			t.Errorf("ParseSpecies(%q) = %v, %v", s.String(), got, ok)
		}
	}
	if Species(NumSpecies).String() != "unknown" {
		t.Error("out-of-range species has a name")
	}
}

func TestLocation(t *testing.T) {
	a := Location{Row: 2, Col: 3}
	b := Location{Row: 2, Col: 3}
	if a != b {
		t.Error("equal coordinates compare unequal")
	}

	m := map[Location]int{a: 1}
	if m[b] != 1 {
		t.Error("location does not work as a map key")
	}
	if a.String() != "(2,3)" {
		t.Errorf("String() = %q", a.String())
	}
}

package components

import "fmt"

// Location is a cell coordinate on the field grid.
// Two locations are equal iff both row and column match, so Location
// can be used directly as a map key.
type Location struct {
	Row, Col int
}

// String formats the location as "(row,col)".
func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.Row, l.Col)
}

// Placement records where an entity currently sits on the field.
// Placed is false once the entity has died and released its cell.
type Placement struct {
	Loc    Location
	Placed bool
}

package core

import "fmt"

// Shape is the row and column extent of a frame.
//
// A lazy collection keeps the shape of every entry even while the entry's
// payload is not resident.
type Shape struct {
	Rows int
	Cols int
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d)", s.Rows, s.Cols)
}

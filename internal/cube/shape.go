package cube

import (
	"fmt"
	"strings"
)

// Shape represents the batch dimensions of a cube: the arbitrary leading axes
// (direction, time, frequency, ...) to the left of the fixed antenna and
// correlation axes.
type Shape []int

// NumElements returns the total number of batch cells. An empty shape is a
// scalar batch with a single cell.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate rejects batch axes of zero or negative extent.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("batch axis %d has extent %d, want > 0", i, dim)
		}
	}
	return nil
}

// Equal reports whether two batch shapes match axis for axis.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	c := make(Shape, len(s))
	copy(c, s)
	return c
}

// String renders the batch axes as [d0 d1 ...].
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = fmt.Sprint(dim)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

package pkg

import "fmt"

// Coord is a 2D integer position on the character grid. Board squares and
// screen cells share the type; the rendering code translates between the two.
type Coord struct {
	X, Y int32
}

func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y}
}

// TaxicabLength returns |X| + |Y|. Square parity is derived from it.
func (c Coord) TaxicabLength() int32 {
	x, y := c.X, c.Y
	if x < 0 {
		x = -x
	}
	if y < 0 {
		y = -y
	}
	return x + y
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

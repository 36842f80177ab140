package universe

//NextState applies the birth/survival rule to one cell
func NextState(c Cell, liveNeighbors int) Cell {
	switch {
	case c == Alive && liveNeighbors < 2:
		return Dead
	case c == Alive && (liveNeighbors == 2 || liveNeighbors == 3):
		return Alive
	case c == Alive && liveNeighbors > 3:
		return Dead
	case c == Dead && liveNeighbors == 3:
		return Alive
	}
	return c
}

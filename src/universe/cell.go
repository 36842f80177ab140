package universe

//Cell is the state of one grid position
type Cell uint8

const (
	Dead Cell = iota
	Alive
)

//Live maps the cell to its contribution to a neighbor count
func (c Cell) Live() int {
	if c == Alive {
		return 1
	}
	return 0
}

//Toggled returns the opposite state
func (c Cell) Toggled() Cell {
	if c == Alive {
		return Dead
	}
	return Alive
}

func (c Cell) String() string {
	if c == Alive {
		return "Alive"
	}
	return "Dead"
}

//Coord addresses a cell by row and column
type Coord struct {
	Row int
	Col int
}

//Seed returns the initial state of the cell at linear index i
type Seed func(i int) Cell

//DefaultSeed marks every cell whose index is divisible by 9 or 7
func DefaultSeed(i int) Cell {
	if i%9 == 0 || i%7 == 0 {
		return Alive
	}
	return Dead
}

//EmptySeed leaves every cell dead
func EmptySeed(int) Cell {
	return Dead
}

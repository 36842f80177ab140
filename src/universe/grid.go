package universe

import "fmt"

//OutOfBoundsError is the panic value for coordinates outside the grid
type OutOfBoundsError struct {
	Row, Col      int
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("cell (%d, %d) is outside the %dx%d grid", e.Row, e.Col, e.Width, e.Height)
}

//Index returns the position of row, col in the row-major cell buffer
//it panics if the coordinates are outside the grid
func (u *Universe) Index(row int, col int) int {
	u.checkBounds(row, col)
	return row*u.width + col
}

//Cells returns a read-only view of the current generation
//the view is valid until the next mutating call
func (u *Universe) Cells() View {
	return View{width: u.width, height: u.height, cells: u.cells}
}

//SetCells kills every cell and then brings the given coordinates to life
//coordinates outside the grid are skipped
func (u *Universe) SetCells(coords []Coord) {
	for i := range u.cells {
		u.cells[i] = Dead
	}
	for _, c := range coords {
		if !u.contains(c.Row, c.Col) {
			continue
		}
		u.cells[c.Row*u.width+c.Col] = Alive
	}
}

func (u *Universe) contains(row int, col int) bool {
	return row >= 0 && col >= 0 && row < u.height && col < u.width
}

func (u *Universe) checkBounds(row int, col int) {
	if !u.contains(row, col) {
		panic(&OutOfBoundsError{Row: row, Col: col, Width: u.width, Height: u.height})
	}
}

//View is a read-only window onto one generation
type View struct {
	width  int
	height int
	cells  []Cell
}

//NewView builds a view over a copy of cells
//it panics if len(cells) != width*height
func NewView(width int, height int, cells []Cell) View {
	if len(cells) != width*height {
		panic(fmt.Sprintf("view of %dx%d needs %d cells, got %d", width, height, width*height, len(cells)))
	}
	return View{width: width, height: height, cells: append([]Cell(nil), cells...)}
}

func (v View) Width() int  { return v.width }
func (v View) Height() int { return v.height }
func (v View) Len() int    { return len(v.cells) }

//Get returns the cell at linear index i
func (v View) Get(i int) Cell { return v.cells[i] }

//At returns the cell at row, col
func (v View) At(row int, col int) Cell {
	if row < 0 || col < 0 || row >= v.height || col >= v.width {
		panic(&OutOfBoundsError{Row: row, Col: col, Width: v.width, Height: v.height})
	}
	return v.cells[row*v.width+col]
}

//LiveCells counts the live cells in the view
func (v View) LiveCells() int {
	n := 0
	for _, c := range v.cells {
		n += c.Live()
	}
	return n
}

//Alive lists the coordinates of the live cells in row-major order
func (v View) Alive() []Coord {
	var coords []Coord
	for i, c := range v.cells {
		if c == Alive {
			coords = append(coords, Coord{Row: i / v.width, Col: i % v.width})
		}
	}
	return coords
}

//Copy returns a view that stays valid after the universe changes
func (v View) Copy() View {
	return View{width: v.width, height: v.height, cells: append([]Cell(nil), v.cells...)}
}

//AppendTo appends the cells to dst, row by row
func (v View) AppendTo(dst []Cell) []Cell {
	return append(dst, v.cells...)
}

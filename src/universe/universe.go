package universe

import "fmt"

//Universe is a toroidal Game of Life grid
//it is not safe for concurrent use: callers serialize every mutating call
type Universe struct {
	width  int
	height int
	cells  []Cell
	seed   Seed
}

//Stats describes the generation produced by Tick
type Stats struct {
	LiveCells int
	Changed   int
}

//Option configures a Universe at construction
type Option func(u *Universe)

//WithSeed replaces DefaultSeed as the construction and reset pattern
func WithSeed(s Seed) Option {
	return func(u *Universe) {
		if s != nil {
			u.seed = s
		}
	}
}

//New creates a width x height universe filled from the seed pattern
func New(width int, height int, opts ...Option) *Universe {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("universe dimensions must be positive, got %dx%d", width, height))
	}
	u := Universe{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
		seed:   DefaultSeed,
	}
	for _, o := range opts {
		o(&u)
	}
	u.Reset()
	return &u
}

func (u *Universe) Width() int  { return u.width }
func (u *Universe) Height() int { return u.height }

//Tick advances the universe by one generation
//the next generation is computed into a new buffer from the untouched current one
//and replaces it only once every cell is done
func (u *Universe) Tick() Stats {
	var st Stats
	next := make([]Cell, len(u.cells))
	for row := 0; row < u.height; row++ {
		for col := 0; col < u.width; col++ {
			i := row*u.width + col
			cur := u.cells[i]
			n := NextState(cur, liveNeighbors(u.cells, u.width, u.height, row, col))
			next[i] = n
			st.LiveCells += n.Live()
			if n != cur {
				st.Changed++
			}
		}
	}
	u.cells = next
	return st
}

//ToggleCell flips the state of one cell without applying the rule
//it panics if the coordinates are outside the grid
func (u *Universe) ToggleCell(row int, col int) {
	i := u.Index(row, col)
	u.cells[i] = u.cells[i].Toggled()
}

//Reset restores the seed pattern the universe was built with
func (u *Universe) Reset() {
	for i := range u.cells {
		u.cells[i] = u.seed(i)
	}
}

//LiveCells counts the live cells of the current generation
func (u *Universe) LiveCells() int {
	return u.Cells().LiveCells()
}

package simulation

import "toruslife/src/universe"

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string           //template name
	Descr       string           //template descr
	Coordinates []universe.Coord //live cells, row and column
}

//BuiltinTemplates returns the templates every Simulation starts with
func BuiltinTemplates() []Template {
	return []Template{{
		Name:        "blinker",
		Descr:       "period 2 oscillator",
		Coordinates: []universe.Coord{{Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 1, Col: 3}},
	}, {
		Name:        "block",
		Descr:       "2x2 still life",
		Coordinates: []universe.Coord{{Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 2, Col: 1}, {Row: 2, Col: 2}},
	}, {
		Name:        "glider",
		Descr:       "moves one cell diagonally every 4 generations",
		Coordinates: []universe.Coord{{Row: 0, Col: 1}, {Row: 1, Col: 2}, {Row: 2, Col: 0}, {Row: 2, Col: 1}, {Row: 2, Col: 2}},
	}, {
		Name:  "sample",
		Descr: "eight cell sample used by the benchmarks",
		Coordinates: []universe.Coord{
			{Row: 1, Col: 1}, {Row: 2, Col: 1},
			{Row: 1, Col: 2}, {Row: 2, Col: 2},
			{Row: 3, Col: 3},
			{Row: 2, Col: 4},
			{Row: 3, Col: 4},
			{Row: 3, Col: 5},
		},
	}}
}

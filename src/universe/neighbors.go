package universe

//LiveNeighborCount counts the live cells around row, col
//the grid wraps at the edges, so every cell has exactly 8 neighbors
func (u *Universe) LiveNeighborCount(row int, col int) int {
	u.checkBounds(row, col)
	return liveNeighbors(u.cells, u.width, u.height, row, col)
}

func liveNeighbors(cells []Cell, width int, height int, row int, col int) int {
	count := 0
	for dr := -1; dr < 2; dr++ {
		for dc := -1; dc < 2; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nr := (row + dr + height) % height
			nc := (col + dc + width) % width
			count += cells[nr*width+nc].Live()
		}
	}
	return count
}

package engine

// Von Neumann offsets in visiting order: west, north, south, east
var neighborOffsets = [4][2]int{
	{-1, 0},
	{0, -1},
	{0, 1},
	{1, 0},
}

// neighbors appends the indices adjacent to (x, y) onto dst
//
// Without StrictEdges only the linear index is bounds-checked, so a west
// neighbor of column 0 resolves to the last cell of the previous row and an
// east neighbor of the last column to the first cell of the next row.
func (w *World) neighbors(x, y int, dst []int) []int {
	n := len(w.cells)
	for _, off := range neighborOffsets {
		nx, ny := x+off[0], y+off[1]
		if w.cfg.StrictEdges && (nx < 0 || nx >= w.width || ny < 0 || ny >= w.height) {
			continue
		}
		idx := nx + w.width*ny
		if idx < 0 || idx >= n {
			continue
		}
		dst = append(dst, idx)
	}
	return dst
}

// partitionNeighbors fills w.empties and w.prey for the cell at (x, y)
func (w *World) partitionNeighbors(x, y int) {
	w.empties = w.empties[:0]
	w.prey = w.prey[:0]

	var buf [4]int
	for _, idx := range w.neighbors(x, y, buf[:0]) {
		switch w.cells[idx].Kind {
		case KindEmpty:
			w.empties = append(w.empties, idx)
		case KindFish:
			w.prey = append(w.prey, idx)
		}
	}
}

// Neighbors returns the adjacent indices of (x, y) under the world's edge rule
func (w *World) Neighbors(x, y int) []int {
	return w.neighbors(x, y, make([]int, 0, 4))
}

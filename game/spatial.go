package game

import "math"

// SpatialCellSize is roughly twice the largest common body radius (epic pentagon).
const SpatialCellSize = 96.0

// EntityRef identifies an entity in the grid
type EntityRef struct {
	Kind EntityKind
	Idx  int // index into the corresponding flat list
}

// SpatialGrid is a uniform grid for broad-phase collision queries
type SpatialGrid struct {
	cols, rows int
	cells      [][]EntityRef
}

// NewSpatialGrid sizes a grid that covers a w×h map
func NewSpatialGrid(w, h float64) *SpatialGrid {
	cols := max(int(math.Ceil(w/SpatialCellSize)), 1)
	rows := max(int(math.Ceil(h/SpatialCellSize)), 1)
	return &SpatialGrid{
		cols:  cols,
		rows:  rows,
		cells: make([][]EntityRef, cols*rows),
	}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *SpatialGrid) clampCell(cx, cy int) (int, int) {
	if cx < 0 {
		cx = 0
	} else if cx >= g.cols {
		cx = g.cols - 1
	}
	if cy < 0 {
		cy = 0
	} else if cy >= g.rows {
		cy = g.rows - 1
	}
	return cx, cy
}

// span returns the inclusive cell range covered by a bounding box
func (g *SpatialGrid) span(x, y, radius float64) (minCX, minCY, maxCX, maxCY int) {
	minCX, minCY = g.clampCell(int(math.Floor((x-radius)/SpatialCellSize)), int(math.Floor((y-radius)/SpatialCellSize)))
	maxCX, maxCY = g.clampCell(int(math.Floor((x+radius)/SpatialCellSize)), int(math.Floor((y+radius)/SpatialCellSize)))
	return
}

// Insert adds an entity reference at the given position
func (g *SpatialGrid) Insert(x, y float64, ref EntityRef) {
	cx, cy := g.clampCell(int(math.Floor(x/SpatialCellSize)), int(math.Floor(y/SpatialCellSize)))
	idx := cy*g.cols + cx
	g.cells[idx] = append(g.cells[idx], ref)
}

// QueryBuf appends results to buf and returns the extended slice, avoiding per-call allocation.
// Positions outside the map share the edge cells with Insert.
func (g *SpatialGrid) QueryBuf(x, y, radius float64, buf []EntityRef) []EntityRef {
	minCX, minCY, maxCX, maxCY := g.span(x, y, radius)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[cy*g.cols+cx]...)
		}
	}
	return buf
}

package fluid

// Neighbor holds a nearby particle with precomputed spatial data.
// This avoids recomputing the pair delta and distance in the kernel loops.
type Neighbor struct {
	Index  int32   // index into the tick snapshot
	DX, DY float32 // delta from query origin to the neighbor
	DistSq float32 // squared distance (avoid sqrt until needed)
}

// Grid buckets snapshot indices into uniform cells so that neighbor
// queries only scan the cells overlapping the support radius instead of
// the full population. The kernel math is unchanged; only the candidate
// set shrinks.
type Grid struct {
	cellSize float32
	cols     int
	rows     int
	width    float32
	height   float32
	cells    [][]int32 // flat grid of snapshot index lists
}

// NewGrid creates a grid covering the given domain. cellSize should be
// at least the kernel radius for a 3x3 cell scan to cover the support.
func NewGrid(width, height, cellSize float32) *Grid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]int32, cols*rows)
	for i := range cells {
		cells[i] = make([]int32, 0, 8)
	}

	return &Grid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		width:    width,
		height:   height,
		cells:    cells,
	}
}

// Clear removes all indices from the grid.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds a snapshot index at the given position.
func (g *Grid) Insert(idx int32, x, y float32) {
	g.cells[g.cellIndex(x, y)] = append(g.cells[g.cellIndex(x, y)], idx)
}

// QueryRadiusInto appends every particle within radius of (x, y) to dst,
// including the particle at the origin itself, and returns the updated
// slice. Reuse dst across calls to avoid allocations. positions indexes
// particle coordinates by snapshot index.
func (g *Grid) QueryRadiusInto(dst []Neighbor, x, y, radius float32, positions []Particle) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1

	centerCol := int(x / g.cellSize)
	centerRow := int(y / g.cellSize)

	radiusSq := radius * radius

	for dr := -cellRadius; dr <= cellRadius; dr++ {
		row := centerRow + dr
		if row < 0 || row >= g.rows {
			continue
		}
		for dc := -cellRadius; dc <= cellRadius; dc++ {
			col := centerCol + dc
			if col < 0 || col >= g.cols {
				continue
			}

			for _, idx := range g.cells[row*g.cols+col] {
				p := &positions[idx]
				dx := p.X - x
				dy := p.Y - y
				distSq := dx*dx + dy*dy

				if distSq <= radiusSq {
					dst = append(dst, Neighbor{Index: idx, DX: dx, DY: dy, DistSq: distSq})
				}
			}
		}
	}

	return dst
}

// cellIndex returns the flat index for a world position, clamped to the
// grid bounds. Particles always sit inside the domain after integration
// but the clamp keeps a mid-tick out-of-range position harmless.
func (g *Grid) cellIndex(x, y float32) int {
	col := int(x / g.cellSize)
	row := int(y / g.cellSize)

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return row*g.cols + col
}

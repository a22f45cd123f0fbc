package core

// Grid is an off-screen cell buffer. Section renders stage their
// output in a grid so a failed attempt can be rolled back or discarded
// without touching the live surface.
type Grid struct {
	width  int
	height int
	cells  []Cell
}

// NewGrid creates a grid of the given size filled with empty cells.
// Negative dimensions are treated as zero.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	empty := EmptyCell()
	for i := range g.cells {
		g.cells[i] = empty
	}
	return g
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in rows.
func (g *Grid) Height() int { return g.height }

// At returns the cell at (x, y), or an empty cell when out of range.
func (g *Grid) At(x, y int) Cell {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return EmptyCell()
	}
	return g.cells[y*g.width+x]
}

// Set places a cell at (x, y). Writes outside the grid are dropped.
func (g *Grid) Set(x, y int, c Cell) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return
	}
	g.cells[y*g.width+x] = c
}

// Fill sets every cell in rect (clipped to the grid) to c.
func (g *Grid) Fill(rect ScreenRect, c Cell) {
	bounds := NewScreenRect(0, 0, g.height, g.width)
	clipped := rect.Intersection(bounds)
	for row := clipped.Top; row < clipped.Bottom; row++ {
		for col := clipped.Left; col < clipped.Right; col++ {
			g.cells[row*g.width+col] = c
		}
	}
}

// WriteString writes s at (x, y) with the given style and returns the
// number of columns consumed. Wide grapheme clusters occupy two
// columns with a continuation cell; output is clipped at the right
// edge (a wide cluster that does not fit is dropped).
func (g *Grid) WriteString(x, y int, s string, style Style) int {
	if y < 0 || y >= g.height {
		return 0
	}
	col := x
	for _, cell := range CellsFromString(s, style) {
		if cell.IsContinuation() {
			continue
		}
		if col+cell.Width > g.width {
			break
		}
		g.Set(col, y, cell)
		if cell.Width == 2 {
			g.Set(col+1, y, ContinuationCell())
		}
		col += cell.Width
	}
	return col - x
}

// Row returns a copy of row y, or nil when out of range.
func (g *Grid) Row(y int) []Cell {
	if y < 0 || y >= g.height {
		return nil
	}
	row := make([]Cell, g.width)
	copy(row, g.cells[y*g.width:(y+1)*g.width])
	return row
}

// RowString returns the text content of row y with trailing spaces
// trimmed.
func (g *Grid) RowString(y int) string {
	s := StringFromCells(g.Row(y))
	end := len(s)
	for end > 0 && s[end-1] == ' ' {
		end--
	}
	return s[:end]
}

// Snapshot returns a deep copy of the grid.
func (g *Grid) Snapshot() *Grid {
	snap := &Grid{
		width:  g.width,
		height: g.height,
		cells:  make([]Cell, len(g.cells)),
	}
	copy(snap.cells, g.cells)
	return snap
}

// Restore copies the cells of snap back into the grid. Grids of
// different sizes are left untouched.
func (g *Grid) Restore(snap *Grid) {
	if snap == nil || snap.width != g.width || snap.height != g.height {
		return
	}
	copy(g.cells, snap.cells)
}

// Package grid describes the fixed rectangular domain both field models evolve
// over: its size, the static boundary/interior classification of every cell,
// and the index and coordinate helpers shared by the solvers.
package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrGridTooSmall indicates a width or height below MinSize.
	ErrGridTooSmall = errors.New("grid: width and height must be at least 3")
	// ErrOutOfRange indicates a row or column outside the grid.
	ErrOutOfRange = errors.New("grid: coordinates out of range")
)

// MinSize is the smallest width or height that still leaves one interior row
// and column for the stencil to evolve.
const MinSize = 3

// Status classifies a cell as evolved or static.
type Status uint8

const (
	// Interior cells are evolved every step.
	Interior Status = iota
	// Boundary cells form the fixed outer wall and are never evolved.
	Boundary
)

func (s Status) String() string {
	if s == Boundary {
		return "boundary"
	}
	return "interior"
}

// Span is an inclusive column range of interior cells inside one row.
type Span struct {
	Row   int
	Start int
	End   int
}

// Grid is a W×H domain with a precomputed per-cell Status. It is immutable once
// built and safe to share read-only between the driver and its field.
type Grid struct {
	width, height int
	status        []Status
	spans         []Span
	boundary      []int
}

// New builds a width×height grid whose outer ring is Boundary and whose
// remaining cells are Interior.
func New(width, height int) (*Grid, error) {
	if width < MinSize || height < MinSize {
		return nil, fmt.Errorf("%w: got %dx%d", ErrGridTooSmall, width, height)
	}
	g := &Grid{
		width:    width,
		height:   height,
		status:   make([]Status, width*height),
		boundary: make([]int, 0, 2*(width+height)-4),
	}
	for idx := range g.status {
		row, col := idx/width, idx%width
		if row == 0 || row == height-1 || col == 0 || col == width-1 {
			g.status[idx] = Boundary
			g.boundary = append(g.boundary, idx)
		}
	}
	g.spans = buildSpans(g)
	return g, nil
}

// buildSpans groups contiguous interior cells of each row into spans so the
// stepping loops never have to test the classification per cell.
func buildSpans(g *Grid) []Span {
	spans := make([]Span, 0, g.height-2)
	for y := 0; y < g.height; y++ {
		base := y * g.width
		in := false
		start := 0
		for x := 0; x < g.width; x++ {
			interior := g.status[base+x] == Interior
			if interior && !in {
				in = true
				start = x
			}
			if in && (!interior || x == g.width-1) {
				end := x - 1
				if interior {
					end = x
				}
				spans = append(spans, Span{Row: y, Start: start, End: end})
				in = false
			}
		}
	}
	return spans
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.status) }

// Classify returns the static status of the cell at index.
func (g *Grid) Classify(index int) Status { return g.status[index] }

// IsInterior reports whether the cell at index is evolved.
func (g *Grid) IsInterior(index int) bool { return g.status[index] == Interior }

// Spans returns the interior spans in row-major order. The slice is shared and
// must not be modified.
func (g *Grid) Spans() []Span { return g.spans }

// BoundaryCells returns the indices of every Boundary cell in ascending order.
// The slice is shared and must not be modified.
func (g *Grid) BoundaryCells() []int { return g.boundary }

// InBounds reports whether (row, col) lies inside the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.height && col >= 0 && col < g.width
}

// Index converts (row, col) into a row-major index.
func (g *Grid) Index(row, col int) (int, error) {
	if !g.InBounds(row, col) {
		return 0, fmt.Errorf("%w: (%d, %d) on %dx%d grid", ErrOutOfRange, row, col, g.width, g.height)
	}
	return row*g.width + col, nil
}

// Center returns the index of the cell at the origin of the centered frame.
func (g *Grid) Center() int {
	return (g.height/2)*g.width + g.width/2
}

// ToCenteredCoords maps a row-major index to coordinates with the origin at the
// grid center, +x to the right and +y up.
func (g *Grid) ToCenteredCoords(index int) (x, y int) {
	row, col := index/g.width, index%g.width
	return col - g.width/2, g.height/2 - row
}

// ToIndex is the left inverse of ToCenteredCoords. ok is false when (x, y)
// falls outside the grid.
func (g *Grid) ToIndex(x, y int) (index int, ok bool) {
	col := x + g.width/2
	row := g.height/2 - y
	if !g.InBounds(row, col) {
		return 0, false
	}
	return row*g.width + col, true
}

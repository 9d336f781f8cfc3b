package main

type gridOffset struct {
	dx int
	dy int
}

var brushFootprint = precomputeFootprint(brushRadius)

// precomputeFootprint lists the offsets of a filled disc of the given radius.
func precomputeFootprint(radius int) []gridOffset {
	footprint := make([]gridOffset, 0, (2*radius+1)*(2*radius+1))
	r2 := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= r2 {
				footprint = append(footprint, gridOffset{dx: x, dy: y})
			}
		}
	}
	return footprint
}

// brushCells calls fn for every interior cell of the footprint centered on
// (row, col).
func brushCells(width, height, row, col int, fn func(row, col int)) {
	for _, o := range brushFootprint {
		r, c := row+o.dy, col+o.dx
		if r <= 0 || r >= height-1 || c <= 0 || c >= width-1 {
			continue
		}
		fn(r, c)
	}
}

// clampCoord constrains v to lie within the inclusive [lo, hi] range.
func clampCoord(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

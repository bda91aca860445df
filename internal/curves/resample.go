package curves

import (
	"fmt"
	"math"
)

// UniformGrid builds a strictly increasing depth grid from top to bottom at
// the given step. The final sample lands exactly on bottom.
func UniformGrid(top, bottom, step float64) ([]float64, error) {
	if step <= 0 {
		return nil, fmt.Errorf("grid step must be positive, got %v", step)
	}
	if bottom <= top {
		return nil, fmt.Errorf("grid interval invalid: top %v, bottom %v", top, bottom)
	}
	n := int(math.Floor((bottom-top)/step + 1e-9))
	grid := make([]float64, 0, n+2)
	for i := 0; i <= n; i++ {
		grid = append(grid, top+float64(i)*step)
	}
	if grid[len(grid)-1] < bottom-1e-9 {
		grid = append(grid, bottom)
	} else {
		grid[len(grid)-1] = bottom
	}
	return grid, nil
}

// Resample returns a copy of the log interpolated onto the given grid.
func Resample(l *Log, grid []float64) (*Log, error) {
	for i := 1; i < len(grid); i++ {
		if grid[i] <= grid[i-1] {
			return nil, fmt.Errorf("target grid not strictly increasing at index %d", i)
		}
	}
	out := &Log{
		Name:   l.Name,
		Unit:   l.Unit,
		Depths: append([]float64(nil), grid...),
		Values: make([]float64, len(grid)),
	}
	for i, md := range grid {
		out.Values[i] = l.ValueAt(md)
	}
	return out, nil
}

// Splice overwrites the samples of dst falling inside [top, bottom] with the
// donor log interpolated onto dst's grid. Samples outside the window keep
// their original values. The spliced log stays on dst's depth grid.
func Splice(dst, donor *Log, top, bottom float64) error {
	if bottom <= top {
		return fmt.Errorf("splice window invalid: top %v, bottom %v", top, bottom)
	}
	if len(donor.Depths) == 0 {
		return fmt.Errorf("donor log %q has no samples", donor.Name)
	}
	for i, md := range dst.Depths {
		if md < top || md > bottom {
			continue
		}
		dst.Values[i] = donor.ValueAt(md)
	}
	return nil
}

// Composite builds a merged log on the base log's grid: base values where
// the base has them, donor values (interpolated) only at base samples that
// are NaN and fall inside the donor's depth coverage. The result is a new
// log named name.
func Composite(name string, base, donor *Log) (*Log, error) {
	if len(donor.Depths) == 0 {
		return nil, fmt.Errorf("donor log %q has no samples", donor.Name)
	}
	top := donor.Depths[0]
	bottom := donor.Depths[len(donor.Depths)-1]
	out := base.Clone()
	out.Name = name
	for i, md := range out.Depths {
		if !math.IsNaN(out.Values[i]) {
			continue
		}
		if md < top || md > bottom {
			continue
		}
		out.Values[i] = donor.ValueAt(md)
	}
	return out, nil
}

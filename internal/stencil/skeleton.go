package stencil

import (
	"fmt"

	"stencil-snap/internal/opencv/safe"
)

// skeletonize thins every connected stroke to its unit-width centerline
// using Zhang-Suen iterative thinning. The iteration runs to a fixed point,
// so applying it to its own output changes nothing. GoCV carries no thinning
// binding, so this stage works directly on the mask bytes.
func skeletonize(mask *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateBinaryMask(mask, "skeletonization"); err != nil {
		return nil, err
	}

	rows := mask.Rows()
	cols := mask.Cols()

	data, err := mask.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("mask byte access failed: %w", err)
	}

	grid := make([]uint8, len(data))
	for i, v := range data {
		if v > 0 {
			grid[i] = 1
		}
	}

	changed := true
	for changed {
		changed = thinningPass(grid, rows, cols, 0)
		if thinningPass(grid, rows, cols, 1) {
			changed = true
		}
	}

	out := make([]uint8, len(grid))
	for i, v := range grid {
		if v == 1 {
			out[i] = 255
		}
	}

	result, err := safe.NewMatFromBytes(rows, cols, out)
	if err != nil {
		return nil, fmt.Errorf("skeleton Mat construction failed: %w", err)
	}

	return result, nil
}

// thinningPass performs one Zhang-Suen sub-iteration (phase 0 or 1) and
// reports whether any pixel was removed. Deletions within one pass are
// applied simultaneously, as the algorithm requires.
func thinningPass(grid []uint8, rows, cols, phase int) bool {
	at := func(r, c int) uint8 {
		if r < 0 || r >= rows || c < 0 || c >= cols {
			return 0
		}
		return grid[r*cols+c]
	}

	var toClear []int

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if grid[r*cols+c] == 0 {
				continue
			}

			// Neighbors p2..p9 clockwise starting north.
			p2 := at(r-1, c)
			p3 := at(r-1, c+1)
			p4 := at(r, c+1)
			p5 := at(r+1, c+1)
			p6 := at(r+1, c)
			p7 := at(r+1, c-1)
			p8 := at(r, c-1)
			p9 := at(r-1, c-1)

			neighbors := int(p2 + p3 + p4 + p5 + p6 + p7 + p8 + p9)
			if neighbors < 2 || neighbors > 6 {
				continue
			}

			if transitions(p2, p3, p4, p5, p6, p7, p8, p9) != 1 {
				continue
			}

			if phase == 0 {
				if p2*p4*p6 != 0 || p4*p6*p8 != 0 {
					continue
				}
			} else {
				if p2*p4*p8 != 0 || p2*p6*p8 != 0 {
					continue
				}
			}

			toClear = append(toClear, r*cols+c)
		}
	}

	for _, idx := range toClear {
		grid[idx] = 0
	}

	return len(toClear) > 0
}

// transitions counts 0->1 steps in the circular sequence p2..p9,p2.
func transitions(ps ...uint8) int {
	count := 0
	for i := range ps {
		if ps[i] == 0 && ps[(i+1)%len(ps)] == 1 {
			count++
		}
	}
	return count
}

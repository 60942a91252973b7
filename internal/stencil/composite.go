package stencil

import (
	"fmt"
	"image/color"

	"stencil-snap/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// composite unions the line and shading masks into the final ink mask, then
// paints ink pixels with the accent color over a white canvas. Output is a
// 3-channel BGR Mat sized like the masks.
func composite(lines, shading *safe.Mat, ink color.RGBA) (*safe.Mat, error) {
	if err := safe.ValidateBinaryMask(lines, "compositing"); err != nil {
		return nil, err
	}
	if err := safe.ValidateBinaryMask(shading, "compositing"); err != nil {
		return nil, err
	}

	rows := lines.Rows()
	cols := lines.Cols()
	if shading.Rows() != rows || shading.Cols() != cols {
		return nil, fmt.Errorf("mask dimensions differ: %dx%d vs %dx%d",
			cols, rows, shading.Cols(), shading.Rows())
	}

	inkMask, err := safe.NewMat(rows, cols, gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, fmt.Errorf("failed to create ink mask: %w", err)
	}
	defer inkMask.Close()

	linesMat := lines.GetMat()
	shadingMat := shading.GetMat()
	inkMat := inkMask.GetMat()
	gocv.BitwiseOr(linesMat, shadingMat, &inkMat)

	return paint(inkMask, ink)
}

// paint renders a binary mask as accent-on-white color output.
func paint(inkMask *safe.Mat, ink color.RGBA) (*safe.Mat, error) {
	rows := inkMask.Rows()
	cols := inkMask.Cols()

	mask, err := inkMask.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("ink mask byte access failed: %w", err)
	}

	// Mat layout is BGR.
	canvas := make([]uint8, rows*cols*3)
	for i, v := range mask {
		o := i * 3
		if v > 0 {
			canvas[o] = ink.B
			canvas[o+1] = ink.G
			canvas[o+2] = ink.R
		} else {
			canvas[o] = 255
			canvas[o+1] = 255
			canvas[o+2] = 255
		}
	}

	mat, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV8UC3, canvas)
	if err != nil {
		return nil, fmt.Errorf("canvas Mat construction failed: %w", err)
	}

	out, err := safe.NewMatFromMat(mat)
	mat.Close()
	if err != nil {
		return nil, fmt.Errorf("canvas wrapping failed: %w", err)
	}

	return out, nil
}

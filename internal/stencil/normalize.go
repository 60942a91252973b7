package stencil

import (
	"fmt"
	"image"

	"stencil-snap/internal/opencv/conversion"
	"stencil-snap/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// normalize bounds the image to MaxSide on its longer dimension and converts
// it to single-channel intensity. Downscaling uses area interpolation so the
// later edge detector does not pick up resampling aliasing.
func normalize(src *safe.Mat) (*safe.Mat, error) {
	if src == nil || !src.IsValid() || src.Empty() {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidImage)
	}

	rows := src.Rows()
	cols := src.Cols()
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: zero area %dx%d", ErrInvalidImage, cols, rows)
	}

	bounded := src
	maxSide := rows
	if cols > maxSide {
		maxSide = cols
	}

	if maxSide > MaxSide {
		scale := float64(MaxSide) / float64(maxSide)
		newCols := int(float64(cols) * scale)
		newRows := int(float64(rows) * scale)

		resized, err := safe.NewMat(newRows, newCols, src.Type())
		if err != nil {
			return nil, fmt.Errorf("resize allocation failed: %w", err)
		}

		srcMat := src.GetMat()
		dstMat := resized.GetMat()
		gocv.Resize(srcMat, &dstMat, image.Point{X: newCols, Y: newRows}, 0, 0, gocv.InterpolationArea)

		bounded = resized
		defer resized.Close()
	}

	gray, err := conversion.ConvertToGrayscale(bounded)
	if err != nil {
		return nil, fmt.Errorf("grayscale conversion failed: %w", err)
	}

	return gray, nil
}

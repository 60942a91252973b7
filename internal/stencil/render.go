package stencil

import (
	"fmt"
	"image"

	"stencil-snap/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// renderLines re-thickens the unit-width skeleton to the requested stroke
// width with a single elliptical dilation. Because every stroke enters at
// width one, the output width is uniform and monotonic in lineWeight.
func renderLines(skeleton *safe.Mat, lineWeight int) (*safe.Mat, error) {
	if err := safe.ValidateBinaryMask(skeleton, "line rendering"); err != nil {
		return nil, err
	}

	k := clampInt(lineWeight, minControl, maxControl)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: k, Y: k})
	defer kernel.Close()

	lines, err := safe.NewMat(skeleton.Rows(), skeleton.Cols(), skeleton.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to create lines Mat: %w", err)
	}

	srcMat := skeleton.GetMat()
	linesMat := lines.GetMat()
	gocv.Dilate(srcMat, &linesMat, kernel)

	return lines, nil
}

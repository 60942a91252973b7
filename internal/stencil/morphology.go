package stencil

import (
	"fmt"
	"image"

	"stencil-snap/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// cleanMask removes isolated speckles from the candidate mask with one
// opening, then bridges small gaps in continuous strokes with one closing.
func cleanMask(candidate *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateBinaryMask(candidate, "morphological cleanup"); err != nil {
		return nil, err
	}

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: 3, Y: 3})
	defer kernel.Close()

	opened, err := safe.NewMat(candidate.Rows(), candidate.Cols(), candidate.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to create opened Mat: %w", err)
	}
	defer opened.Close()

	srcMat := candidate.GetMat()
	openedMat := opened.GetMat()
	gocv.MorphologyEx(srcMat, &openedMat, gocv.MorphOpen, kernel)

	closed, err := safe.NewMat(candidate.Rows(), candidate.Cols(), candidate.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to create closed Mat: %w", err)
	}

	closedMat := closed.GetMat()
	gocv.MorphologyEx(openedMat, &closedMat, gocv.MorphClose, kernel)

	return closed, nil
}

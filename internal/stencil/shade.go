package stencil

import (
	"fmt"
	"image"
	"math"

	"stencil-snap/internal/opencv/safe"

	"gocv.io/x/gocv"
)

const (
	shadeGamma         = 0.75
	shadeDotThreshold  = 0.55 * 255
	shadeCleanupThresh = 80
)

// shade derives the stippled halftone mask from the enhanced intensity
// image. Dots land where the source is dark; density rises with detail.
// Detail 1 and 2 disable shading entirely.
func shade(sharp *safe.Mat, detail int) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(sharp, "halftone shading"); err != nil {
		return nil, err
	}

	rows := sharp.Rows()
	cols := sharp.Cols()

	detail = clampInt(detail, minControl, maxControl)
	strength := clampFloat(float64(detail-2)/6.0, 0, 1)
	if strength <= 0 {
		return emptyMask(rows, cols)
	}

	inverted, err := invertWithGamma(sharp, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("tone inversion failed: %w", err)
	}
	defer inverted.Close()

	// Coarse dot grid: area-average down, hard-threshold, nearest-neighbor
	// back up so dot edges stay crisp.
	block := int(clampFloat(10-strength*6, 4, 10))
	smallCols := max(cols/block, 1)
	smallRows := max(rows/block, 1)

	small, err := safe.NewMat(smallRows, smallCols, gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, fmt.Errorf("failed to create downsample Mat: %w", err)
	}
	defer small.Close()

	invMat := inverted.GetMat()
	smallMat := small.GetMat()
	gocv.Resize(invMat, &smallMat, image.Point{X: smallCols, Y: smallRows}, 0, 0, gocv.InterpolationArea)

	gocv.Threshold(smallMat, &smallMat, shadeDotThreshold, 255, gocv.ThresholdBinary)

	dots, err := safe.NewMat(rows, cols, gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, fmt.Errorf("failed to create dots Mat: %w", err)
	}

	dotsMat := dots.GetMat()
	gocv.Resize(smallMat, &dotsMat, image.Point{X: cols, Y: rows}, 0, 0, gocv.InterpolationNearestNeighbor)

	// Light blur plus re-threshold drops single-pixel artifacts.
	gocv.GaussianBlur(dotsMat, &dotsMat, image.Point{X: 3, Y: 3}, 0, 0, gocv.BorderDefault)
	gocv.Threshold(dotsMat, &dotsMat, shadeCleanupThresh, 255, gocv.ThresholdBinary)

	return dots, nil
}

// invertWithGamma gamma-compresses normalized intensity and inverts it, so
// darker source regions map to higher values.
func invertWithGamma(sharp *safe.Mat, rows, cols int) (*safe.Mat, error) {
	data, err := sharp.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("intensity byte access failed: %w", err)
	}

	var lut [256]uint8
	for v := 0; v < 256; v++ {
		g := math.Pow(float64(v)/255.0, shadeGamma)
		lut[v] = uint8(math.Round((1.0 - g) * 255.0))
	}

	out := make([]uint8, len(data))
	for i, v := range data {
		out[i] = lut[v]
	}

	return safe.NewMatFromBytes(rows, cols, out)
}

func emptyMask(rows, cols int) (*safe.Mat, error) {
	mask, err := safe.NewMat(rows, cols, gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, fmt.Errorf("failed to create empty mask: %w", err)
	}

	maskMat := mask.GetMat()
	maskMat.SetTo(gocv.NewScalar(0, 0, 0, 0))

	return mask, nil
}

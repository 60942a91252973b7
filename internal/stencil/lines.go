package stencil

import (
	"fmt"

	"stencil-snap/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// extractLines produces the binary ink-candidate mask: gradient edges from
// Canny unioned with dark strokes from an inverted adaptive threshold.
// Higher detail lowers the Canny thresholds and shrinks the adaptive
// neighborhood, so raising detail only ever admits more candidates.
func extractLines(sharp *safe.Mat, detail int) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(sharp, "line extraction"); err != nil {
		return nil, err
	}

	detail = clampInt(detail, minControl, maxControl)

	edges, err := cannyEdges(sharp, detail)
	if err != nil {
		return nil, fmt.Errorf("edge detection failed: %w", err)
	}
	defer edges.Close()

	strokes, err := darkStrokes(sharp, detail)
	if err != nil {
		return nil, fmt.Errorf("adaptive threshold failed: %w", err)
	}
	defer strokes.Close()

	combo, err := safe.NewMat(sharp.Rows(), sharp.Cols(), gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, fmt.Errorf("failed to create candidate Mat: %w", err)
	}

	edgesMat := edges.GetMat()
	strokesMat := strokes.GetMat()
	comboMat := combo.GetMat()
	gocv.BitwiseOr(edgesMat, strokesMat, &comboMat)

	return combo, nil
}

func cannyEdges(sharp *safe.Mat, detail int) (*safe.Mat, error) {
	tLow := float32(40 + (maxControl-detail)*6)
	tHigh := float32(120 + (maxControl-detail)*8)

	edges, err := safe.NewMat(sharp.Rows(), sharp.Cols(), gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, fmt.Errorf("failed to create edges Mat: %w", err)
	}

	srcMat := sharp.GetMat()
	edgesMat := edges.GetMat()
	gocv.Canny(srcMat, &edgesMat, tLow, tHigh)

	return edges, nil
}

func darkStrokes(sharp *safe.Mat, detail int) (*safe.Mat, error) {
	block := clampInt(31-2*detail, 15, 31)
	if block%2 == 0 {
		block++
	}

	th, err := safe.NewMat(sharp.Rows(), sharp.Cols(), gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, fmt.Errorf("failed to create threshold Mat: %w", err)
	}
	defer th.Close()

	srcMat := sharp.GetMat()
	thMat := th.GetMat()
	gocv.AdaptiveThreshold(srcMat, &thMat, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinary, block, 2)

	// Adaptive threshold marks bright background; invert so ink is foreground.
	inverted, err := safe.NewMat(sharp.Rows(), sharp.Cols(), gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, fmt.Errorf("failed to create inverted Mat: %w", err)
	}

	invMat := inverted.GetMat()
	gocv.BitwiseNot(thMat, &invMat)

	return inverted, nil
}

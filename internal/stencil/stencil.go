// Package stencil converts a raster photograph into a stylized stencil:
// a white canvas carrying accent-colored ink lines along the photo's edges
// and contours, optionally shaded with a halftone dot pattern in darker
// regions. The pipeline is a fixed sequence of pure value-in/value-out
// stages with no state across invocations, so concurrent calls need no
// coordination.
package stencil

import (
	"fmt"
	"image"

	"stencil-snap/internal/opencv/conversion"
	"stencil-snap/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// Render runs the full stencil pipeline over a decoded color image.
// Parameters outside [1,8] are clamped, never rejected. The returned Mat is
// a 3-channel BGR image owned by the caller; src is left untouched.
//
// Stage order: normalize, enhance, then a line branch (extract, clean,
// skeletonize, re-thicken) and a shading branch (halftone) both reading the
// enhanced image, joined by the compositor.
func Render(src *safe.Mat, p Params) (*safe.Mat, error) {
	p = p.Clamp()

	gray, err := normalize(src)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	defer gray.Close()

	sharp, err := enhance(gray)
	if err != nil {
		return nil, fmt.Errorf("enhance: %w", err)
	}
	defer sharp.Close()

	candidate, err := extractLines(sharp, p.Detail)
	if err != nil {
		return nil, fmt.Errorf("extract lines: %w", err)
	}

	cleaned, err := cleanMask(candidate)
	candidate.Close()
	if err != nil {
		return nil, fmt.Errorf("clean mask: %w", err)
	}

	skeleton, err := skeletonize(cleaned)
	cleaned.Close()
	if err != nil {
		return nil, fmt.Errorf("skeletonize: %w", err)
	}

	lines, err := renderLines(skeleton, p.LineWeight)
	skeleton.Close()
	if err != nil {
		return nil, fmt.Errorf("render lines: %w", err)
	}
	defer lines.Close()

	shading, err := shade(sharp, p.Detail)
	if err != nil {
		return nil, fmt.Errorf("shade: %w", err)
	}
	defer shading.Close()

	out, err := composite(lines, shading, InkColor)
	if err != nil {
		return nil, fmt.Errorf("composite: %w", err)
	}

	return out, nil
}

// RenderLegacy is the parameter-less ancestor of Render: Canny at fixed
// thresholds, one default dilation, and a slightly different purple accent.
// It predates the adaptive, halftone, and skeletonization stages and is kept
// for the legacy endpoint, not as a second supported mode.
func RenderLegacy(src *safe.Mat) (*safe.Mat, error) {
	gray, err := normalize(src)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	defer gray.Close()

	edges, err := safe.NewMat(gray.Rows(), gray.Cols(), gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, fmt.Errorf("failed to create edges Mat: %w", err)
	}
	defer edges.Close()

	grayMat := gray.GetMat()
	edgesMat := edges.GetMat()
	gocv.Canny(grayMat, &edgesMat, 80, 160)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: 3, Y: 3})
	defer kernel.Close()

	dilated, err := safe.NewMat(gray.Rows(), gray.Cols(), gocv.MatTypeCV8UC1)
	if err != nil {
		return nil, fmt.Errorf("failed to create dilated Mat: %w", err)
	}
	defer dilated.Close()

	dilatedMat := dilated.GetMat()
	gocv.Dilate(edgesMat, &dilatedMat, kernel)

	out, err := paint(dilated, LegacyInkColor)
	if err != nil {
		return nil, fmt.Errorf("composite: %w", err)
	}

	return out, nil
}

// RenderImage is a convenience wrapper for callers holding a standard Go
// image rather than a Mat.
func RenderImage(img image.Image, p Params) (image.Image, error) {
	src, err := conversion.ImageToMat(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	defer src.Close()

	out, err := Render(src, p)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	return conversion.MatToImage(out)
}

package stencil

import (
	"fmt"
	"image"

	"stencil-snap/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// Enhancer constants. The bilateral pass keeps strong edges while flattening
// sensor noise; CLAHE lifts local contrast without global over-exposure; the
// unsharp pass restores acutance lost to the bilateral smoothing.
const (
	bilateralDiameter   = 7
	bilateralSigmaColor = 50.0
	bilateralSigmaSpace = 50.0

	claheClipLimit = 2.2
	claheTileSize  = 8

	unsharpSigma  = 1.0
	unsharpAmount = 1.35
)

// enhance runs the denoise, local contrast, and sharpen steps over an
// intensity image. Both the line and shading branches read its output.
func enhance(gray *safe.Mat) (*safe.Mat, error) {
	chain := NewChain(
		&denoiseStep{},
		&contrastStep{},
		&unsharpStep{},
	)

	return chain.Execute(gray)
}

type denoiseStep struct{}

func (d *denoiseStep) Name() string {
	return "bilateral_denoise"
}

func (d *denoiseStep) Apply(input *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(input, "bilateral denoise"); err != nil {
		return nil, err
	}

	dst, err := safe.NewMat(input.Rows(), input.Cols(), input.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to create destination Mat: %w", err)
	}

	srcMat := input.GetMat()
	dstMat := dst.GetMat()
	gocv.BilateralFilter(srcMat, &dstMat, bilateralDiameter, bilateralSigmaColor, bilateralSigmaSpace)

	return dst, nil
}

type contrastStep struct{}

func (c *contrastStep) Name() string {
	return "clahe_contrast"
}

func (c *contrastStep) Apply(input *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(input, "local contrast"); err != nil {
		return nil, err
	}

	dst, err := safe.NewMat(input.Rows(), input.Cols(), input.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to create destination Mat: %w", err)
	}

	clahe := gocv.NewCLAHEWithParams(claheClipLimit, image.Point{X: claheTileSize, Y: claheTileSize})
	defer clahe.Close()

	srcMat := input.GetMat()
	dstMat := dst.GetMat()
	clahe.Apply(srcMat, &dstMat)

	return dst, nil
}

type unsharpStep struct{}

func (u *unsharpStep) Name() string {
	return "unsharp_mask"
}

// Apply computes sharp = 1.35*src - 0.35*blur; AddWeighted saturates to
// the valid intensity range, so no sample can overflow.
func (u *unsharpStep) Apply(input *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(input, "unsharp mask"); err != nil {
		return nil, err
	}

	blur, err := safe.NewMat(input.Rows(), input.Cols(), input.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to create blur Mat: %w", err)
	}
	defer blur.Close()

	srcMat := input.GetMat()
	blurMat := blur.GetMat()
	gocv.GaussianBlur(srcMat, &blurMat, image.Point{X: 0, Y: 0}, unsharpSigma, unsharpSigma, gocv.BorderDefault)

	dst, err := safe.NewMat(input.Rows(), input.Cols(), input.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to create destination Mat: %w", err)
	}

	dstMat := dst.GetMat()
	gocv.AddWeighted(srcMat, unsharpAmount, blurMat, -(unsharpAmount - 1.0), 0, &dstMat)

	return dst, nil
}

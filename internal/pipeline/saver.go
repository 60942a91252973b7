package pipeline

import (
	"fmt"
	"image/png"
	"io"

	"stencil-snap/internal/logger"
	"stencil-snap/internal/opencv/conversion"
	"stencil-snap/internal/opencv/safe"
)

// Saver encodes processed Mats as PNG.
type Saver struct {
	logger logger.Logger
}

func NewSaver(log logger.Logger) *Saver {
	return &Saver{logger: log}
}

func (s *Saver) EncodePNG(mat *safe.Mat, w io.Writer) error {
	if err := safe.ValidateMatForOperation(mat, "PNG encoding"); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	img, err := conversion.MatToImage(mat)
	if err != nil {
		return fmt.Errorf("Mat to image conversion failed: %w", err)
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("PNG encoding failed: %w", err)
	}

	s.logger.Debug("Saver", "image encoded", map[string]interface{}{
		"width":  mat.Cols(),
		"height": mat.Rows(),
	})

	return nil
}

package pipeline

import (
	"bytes"
	"fmt"
	"image"

	// Upload formats. jpeg/png/gif come from the standard library; webp and
	// bmp from golang.org/x/image.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"stencil-snap/internal/logger"
	"stencil-snap/internal/opencv/conversion"
	"stencil-snap/internal/stencil"
)

// Loader decodes uploaded image payloads into ImageData.
type Loader struct {
	logger logger.Logger
}

func NewLoader(log logger.Logger) *Loader {
	return &Loader{logger: log}
}

func (l *Loader) LoadFromBytes(data []byte) (*ImageData, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", stencil.ErrInvalidImage)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode failed: %v", stencil.ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: zero area %dx%d", stencil.ErrInvalidImage, bounds.Dx(), bounds.Dy())
	}

	mat, err := conversion.ImageToMat(img)
	if err != nil {
		return nil, fmt.Errorf("%w: Mat conversion failed: %v", stencil.ErrInvalidImage, err)
	}

	l.logger.Debug("Loader", "image decoded", map[string]interface{}{
		"format": format,
		"width":  bounds.Dx(),
		"height": bounds.Dy(),
		"bytes":  len(data),
	})

	return &ImageData{
		Image:    img,
		Mat:      mat,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Channels: mat.Channels(),
		Format:   format,
	}, nil
}

// Package pipeline handles the decode and encode boundaries around the
// stencil core: encoded upload bytes in, PNG bytes out.
package pipeline

import (
	"image"

	"stencil-snap/internal/opencv/safe"
)

// ImageData carries one decoded image through the service: the Go image for
// encoding, the Mat for processing, and its basic geometry.
type ImageData struct {
	Image    image.Image
	Mat      *safe.Mat
	Width    int
	Height   int
	Channels int
	Format   string
}

// Close releases the Mat. The embedded Go image is garbage collected.
func (d *ImageData) Close() {
	if d == nil || d.Mat == nil {
		return
	}
	d.Mat.Close()
}

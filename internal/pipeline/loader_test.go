package pipeline

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"stencil-snap/internal/logger"
	"stencil-snap/internal/stencil"

	"github.com/rs/zerolog"
)

func testLogger() logger.Logger {
	return logger.NewZerolog(io.Discard, zerolog.Disabled)
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}

	return buf.Bytes()
}

func TestLoaderDecodesPNG(t *testing.T) {
	loader := NewLoader(testLogger())

	data, err := loader.LoadFromBytes(pngBytes(t, 32, 24))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	defer data.Close()

	if data.Width != 32 || data.Height != 24 {
		t.Errorf("decoded size = %dx%d, want 32x24", data.Width, data.Height)
	}
	if data.Channels != 3 {
		t.Errorf("channels = %d, want 3", data.Channels)
	}
	if data.Format != "png" {
		t.Errorf("format = %q, want png", data.Format)
	}
	if data.Mat.Rows() != 24 || data.Mat.Cols() != 32 {
		t.Errorf("Mat size = %dx%d, want 32x24", data.Mat.Cols(), data.Mat.Rows())
	}
}

func TestLoaderRejectsBadPayloads(t *testing.T) {
	loader := NewLoader(testLogger())

	cases := []struct {
		name    string
		payload []byte
	}{
		{"empty", nil},
		{"garbage", []byte("not an image at all")},
		{"truncated png", pngBytes(t, 16, 16)[:20]},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loader.LoadFromBytes(tc.payload)
			if !errors.Is(err, stencil.ErrInvalidImage) {
				t.Errorf("LoadFromBytes error = %v, want ErrInvalidImage", err)
			}
		})
	}
}

func TestSaverRoundTrip(t *testing.T) {
	loader := NewLoader(testLogger())
	saver := NewSaver(testLogger())

	data, err := loader.LoadFromBytes(pngBytes(t, 20, 10))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	defer data.Close()

	var buf bytes.Buffer
	if err := saver.EncodePNG(data.Mat, &buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode of saver output: %v", err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() != 20 || bounds.Dy() != 10 {
		t.Errorf("re-decoded size = %dx%d, want 20x10", bounds.Dx(), bounds.Dy())
	}
}

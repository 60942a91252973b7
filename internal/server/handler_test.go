package server

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"stencil-snap/internal/logger"

	"github.com/rs/zerolog"
)

func testServer() *Server {
	log := logger.NewZerolog(io.Discard, zerolog.Disabled)
	return New(DefaultConfig(), log)
}

func uploadBody(t *testing.T, payload []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "input.png")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("part.Write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("writer.Close: %v", err)
	}

	return &buf, writer.FormDataContentType()
}

func testImagePNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			c := color.RGBA{R: 255, G: 255, B: 255, A: 255}
			if x >= 20 && x < 44 && y >= 20 && y < 44 {
				c = color.RGBA{A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}

	return buf.Bytes()
}

func postStencil(t *testing.T, srv *Server, path string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := uploadBody(t, payload)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "{\"ok\":true}\n" {
		t.Errorf("body = %q, want ok json", got)
	}
}

func TestStencilEndpoint(t *testing.T) {
	srv := testServer()

	rec := postStencil(t, srv, "/stencil?lineWeight=2&detail=5", testImagePNG(t))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("response is not decodable PNG: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 64 || bounds.Dy() != 64 {
		t.Errorf("output size = %dx%d, want 64x64", bounds.Dx(), bounds.Dy())
	}
}

func TestStencilEndpointClampsParameters(t *testing.T) {
	srv := testServer()
	payload := testImagePNG(t)

	clamped := postStencil(t, srv, "/stencil?lineWeight=0&detail=4", payload)
	floor := postStencil(t, srv, "/stencil?lineWeight=1&detail=4", payload)

	if clamped.Code != http.StatusOK || floor.Code != http.StatusOK {
		t.Fatalf("statuses = %d, %d, want 200", clamped.Code, floor.Code)
	}

	if !bytes.Equal(clamped.Body.Bytes(), floor.Body.Bytes()) {
		t.Error("lineWeight=0 and lineWeight=1 produced different output")
	}
}

func TestStencilEndpointRejectsBadUpload(t *testing.T) {
	srv := testServer()

	rec := postStencil(t, srv, "/stencil", []byte("definitely not an image"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestLegacyEndpoint(t *testing.T) {
	srv := testServer()

	rec := postStencil(t, srv, "/stencil/legacy", testImagePNG(t))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if _, err := png.Decode(rec.Body); err != nil {
		t.Fatalf("legacy response is not decodable PNG: %v", err)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := testServer()

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/stencil", nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("preflight status = %d, want 204", rec.Code)
		}
		if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
			t.Errorf("Allow-Origin = %q, want *", origin)
		}
	})

	t.Run("simple request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
			t.Errorf("Allow-Origin = %q, want *", origin)
		}
	})
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"stencil-snap/internal/opencv/safe"
	"stencil-snap/internal/stencil"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (s *Server) handleStencil(w http.ResponseWriter, r *http.Request) {
	params := stencil.Params{
		LineWeight: queryInt(r, "lineWeight", stencil.DefaultLineWeight),
		Detail:     queryInt(r, "detail", stencil.DefaultDetail),
	}

	s.serveRendered(w, r, func(src *safe.Mat) (*safe.Mat, error) {
		return stencil.Render(src, params)
	})
}

func (s *Server) handleStencilLegacy(w http.ResponseWriter, r *http.Request) {
	s.serveRendered(w, r, stencil.RenderLegacy)
}

// serveRendered runs the shared decode/render/encode flow around the given
// pipeline entry point.
func (s *Server) serveRendered(w http.ResponseWriter, r *http.Request, render func(*safe.Mat) (*safe.Mat, error)) {
	start := time.Now()

	data, err := s.readUpload(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	input, err := s.loader.LoadFromBytes(data)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	defer input.Close()

	out, err := render(input.Mat)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, stencil.ErrInvalidImage) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, err)
		return
	}
	defer out.Close()

	w.Header().Set("Content-Type", "image/png")
	if err := s.saver.EncodePNG(out, w); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.Error("Handler", err, map[string]interface{}{"path": r.URL.Path})
		return
	}

	s.logger.Info("Handler", "stencil rendered", map[string]interface{}{
		"path":        r.URL.Path,
		"input_size":  fmt.Sprintf("%dx%d", input.Width, input.Height),
		"output_size": fmt.Sprintf("%dx%d", out.Cols(), out.Rows()),
		"duration_ms": time.Since(start).Milliseconds(),
	})
}

// readUpload pulls the image bytes from the multipart "file" field, falling
// back to the raw request body.
func (s *Server) readUpload(r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, s.config.MaxUploadBytes)

	file, _, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		return io.ReadAll(file)
	}
	if err != http.ErrMissingFile && err != http.ErrNotMultipart {
		return nil, fmt.Errorf("upload read failed: %w", err)
	}

	return io.ReadAll(r.Body)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Warning("Handler", "request rejected", map[string]interface{}{
		"status": status,
		"error":  err.Error(),
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// queryInt reads an integer query parameter, keeping the default on absent
// or malformed values. Out-of-range values pass through; the core clamps.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}

	return v
}

package stencil

import "image/color"

const (
	// MaxSide bounds the longer image side after normalization.
	MaxSide = 1400

	// DefaultLineWeight and DefaultDetail apply when the caller supplies none.
	DefaultLineWeight = 3
	DefaultDetail     = 4

	minControl = 1
	maxControl = 8
)

// InkColor is the accent painted on ink pixels by the full pipeline.
var InkColor = color.RGBA{R: 140, G: 90, B: 255, A: 255}

// LegacyInkColor is the accent of the parameter-less ancestor pipeline.
// Kept distinct on purpose; the two were never unified upstream.
var LegacyInkColor = color.RGBA{R: 180, G: 80, B: 255, A: 255}

// Params holds the two user-facing controls. Both live in [1,8]; values
// outside the range are clamped silently, never rejected.
type Params struct {
	LineWeight int
	Detail     int
}

func DefaultParams() Params {
	return Params{LineWeight: DefaultLineWeight, Detail: DefaultDetail}
}

// Clamp returns a copy with both controls forced into [1,8].
func (p Params) Clamp() Params {
	return Params{
		LineWeight: clampInt(p.LineWeight, minControl, maxControl),
		Detail:     clampInt(p.Detail, minControl, maxControl),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

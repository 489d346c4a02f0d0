package compositor

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/image/draw"
)

// ErrUnknownInterpolation is returned by ParseInterpolation.
var ErrUnknownInterpolation = errors.New("compositor: unknown interpolation")

// Interpolation selects the resampling kernel used to scale frames.
type Interpolation int

const (
	// ApproxBiLinear mixes nearest-neighbor and bilinear sampling.
	// Fast, with quality close to BiLinear. This is the default.
	ApproxBiLinear Interpolation = iota

	// NearestNeighbor is the fastest and blockiest.
	NearestNeighbor

	// BiLinear is smooth and moderately fast.
	BiLinear

	// CatmullRom is the sharpest and slowest.
	CatmullRom
)

// String returns the name accepted by ParseInterpolation.
func (i Interpolation) String() string {
	switch i {
	case ApproxBiLinear:
		return "approx-bilinear"
	case NearestNeighbor:
		return "nearest"
	case BiLinear:
		return "bilinear"
	case CatmullRom:
		return "catmull-rom"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}

// ParseInterpolation parses a kernel name. Matching ignores case; the empty
// string selects ApproxBiLinear.
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "approx-bilinear", "approxbilinear":
		return ApproxBiLinear, nil
	case "nearest", "nearest-neighbor":
		return NearestNeighbor, nil
	case "bilinear":
		return BiLinear, nil
	case "catmull-rom", "catmullrom", "bicubic":
		return CatmullRom, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownInterpolation, s)
}

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case NearestNeighbor:
		return draw.NearestNeighbor
	case BiLinear:
		return draw.BiLinear
	case CatmullRom:
		return draw.CatmullRom
	default:
		return draw.ApproxBiLinear
	}
}

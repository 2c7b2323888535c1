package interp

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownTechnique is returned for an unrecognized technique name.
	ErrUnknownTechnique = errors.New("unknown interpolation technique")

	// ErrTooFewPoints is returned when the calibration table has fewer than
	// two points.
	ErrTooFewPoints = errors.New("calibration table needs at least 2 points")
)

// Technique selects an interpolation strategy.
type Technique string

const (
	PiecewiseLinear Technique = "pwl"
	Spline          Technique = "spl"
	LeastSquares    Technique = "lsq"
)

// Techniques lists every supported technique.
var Techniques = []Technique{PiecewiseLinear, Spline, LeastSquares}

// ParseTechnique resolves the short (pwl, spl, lsq) or long
// (piecewise_linear, spline, least_squares) technique name.
func ParseTechnique(name string) (Technique, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pwl", "piecewise_linear", "piecewise-linear":
		return PiecewiseLinear, nil
	case "spl", "spline":
		return Spline, nil
	case "lsq", "least_squares", "least-squares":
		return LeastSquares, nil
	}
	return "", fmt.Errorf("%w: %q (want pwl, spl or lsq)", ErrUnknownTechnique, name)
}

// Description returns a human readable name.
func (t Technique) Description() string {
	switch t {
	case PiecewiseLinear:
		return "piecewise linear"
	case Spline:
		return "spline"
	case LeastSquares:
		return "least-squares"
	}
	return string(t)
}

// Package interp maps target fields to driving voltages through a
// calibration table, using one of three techniques:
//
//   - PiecewiseLinear: linear interpolation between neighbouring calibration
//     points; targets outside the calibrated span are StatusOutOfRange.
//   - Spline: an interpolating cubic spline through every calibration point,
//     extended past the table along its end cubics; targets the spline
//     cannot evaluate are StatusFitFailed.
//   - LeastSquares: a straight line fitted to the whole table, applied to
//     every target including those outside the calibrated span.
//
// All functions are pure: the same inputs always give the same results.
package interp

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/talvi/pulsemagstep/pkg/calibration"
)

// Evaluator computes the Result for a single target field.
type Evaluator func(field float64) Result

// NewEvaluator fits t to table once and returns an Evaluator for it.
func NewEvaluator(t Technique, table calibration.Table) (Evaluator, error) {
	var newFn func(calibration.Table) Evaluator
	switch t {
	case PiecewiseLinear:
		newFn = newPiecewiseEvaluator
	case Spline:
		newFn = newSplineEvaluator
	case LeastSquares:
		newFn = newLineEvaluator
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTechnique, string(t))
	}

	if table.Len() < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrTooFewPoints, table.Len())
	}

	return newFn(table), nil
}

// Interpolate computes one Result per target, in target order.
func Interpolate(targets []float64, t Technique, table calibration.Table) ([]Result, error) {
	eval, err := NewEvaluator(t, table)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(targets))
	invalid := 0
	for i, f := range targets {
		results[i] = eval(f)
		if !results[i].Valid() {
			invalid++
		}
	}

	logrus.WithFields(logrus.Fields{
		"technique": string(t),
		"targets":   len(targets),
		"points":    table.Len(),
		"invalid":   invalid,
	}).Debug("interpolation done")

	return results, nil
}

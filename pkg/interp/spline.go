package interp

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	gonuminterp "gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"

	"github.com/talvi/pulsemagstep/pkg/calibration"
)

// minSplinePoints is the number of knots a not-a-knot cubic needs.
const minSplinePoints = 4

// splineCurve is a fitted spline plus the cubics of its end segments, which
// carry it past the knot span.
type splineCurve struct {
	spline *gonuminterp.NotAKnotCubic
	lo, hi float64
	// Coefficients in powers of (field - lo) and (field - hi).
	left, right *mat.VecDense
}

func newSplineEvaluator(table calibration.Table) Evaluator {
	curve, err := fitSpline(table)
	if err != nil {
		logrus.WithError(err).Warn("spline fit failed, every spline result is marked invalid")
		return func(field float64) Result {
			return invalid(field, StatusFitFailed)
		}
	}

	return func(field float64) Result {
		v, err := curve.predict(field)
		if err != nil {
			logrus.WithError(err).WithField("field", field).Debug("spline evaluation failed")
			return invalid(field, StatusFitFailed)
		}
		return valid(field, v)
	}
}

// fitSpline fits an interpolating (zero smoothing) cubic spline of voltage
// over field.
func fitSpline(table calibration.Table) (curve *splineCurve, err error) {
	if table.Len() < minSplinePoints {
		return nil, fmt.Errorf("spline needs at least %d calibration points, got %d", minSplinePoints, table.Len())
	}
	if !table.Ascending() {
		return nil, fmt.Errorf("spline needs strictly increasing calibration fields")
	}

	defer func() {
		if r := recover(); r != nil {
			curve, err = nil, fmt.Errorf("spline fit panicked: %v", r)
		}
	}()

	xs := table.Fields()
	spline := &gonuminterp.NotAKnotCubic{}
	if err := spline.Fit(xs, table.Voltages()); err != nil {
		return nil, err
	}

	n := len(xs)
	curve = &splineCurve{spline: spline, lo: xs[0], hi: xs[n-1]}
	if curve.left, err = endCubic(spline, xs[0], xs[1], xs[0]); err != nil {
		return nil, err
	}
	if curve.right, err = endCubic(spline, xs[n-2], xs[n-1], xs[n-1]); err != nil {
		return nil, err
	}
	return curve, nil
}

// endCubic recovers the cubic the spline uses on [a, b] by sampling it at four
// points and solving for the coefficients in powers of (x - origin).
func endCubic(spline *gonuminterp.NotAKnotCubic, a, b, origin float64) (*mat.VecDense, error) {
	u := make([]float64, 4)
	v := make([]float64, 4)
	for i := range u {
		x := a + float64(i)*(b-a)/3
		u[i] = x - origin
		v[i] = spline.Predict(x)
	}
	c, err := polyfit(u, v, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to recover spline end segment: %w", err)
	}
	return c, nil
}

func (s *splineCurve) predict(field float64) (v float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("spline evaluation panicked: %v", r)
		}
	}()

	switch {
	case math.IsNaN(field):
		return 0, fmt.Errorf("field is NaN")
	case field < s.lo:
		v = horner(s.left, field-s.lo)
	case field > s.hi:
		v = horner(s.right, field-s.hi)
	default:
		v = s.spline.Predict(field)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("spline evaluated to %v", v)
	}
	return v, nil
}

func horner(c *mat.VecDense, u float64) float64 {
	v := 0.0
	for i := c.Len() - 1; i >= 0; i-- {
		v = v*u + c.AtVec(i)
	}
	return v
}

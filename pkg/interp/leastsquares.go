package interp

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/talvi/pulsemagstep/pkg/calibration"
)

// FitLine fits voltage = slope*field + intercept to the table by ordinary
// least squares.
func FitLine(table calibration.Table) (slope, intercept float64, err error) {
	if table.Len() < 2 {
		return 0, 0, fmt.Errorf("%w, got %d", ErrTooFewPoints, table.Len())
	}

	c, err := polyfit(table.Fields(), table.Voltages(), 1)
	if err != nil {
		return 0, 0, err
	}
	return c.AtVec(1), c.AtVec(0), nil
}

func newLineEvaluator(table calibration.Table) Evaluator {
	slope, intercept, err := FitLine(table)
	if err != nil {
		logrus.WithError(err).Warn("least-squares fit failed, every least-squares result is marked invalid")
		return func(field float64) Result {
			return invalid(field, StatusFitFailed)
		}
	}

	logrus.WithFields(logrus.Fields{
		"slope":     slope,
		"intercept": intercept,
	}).Debug("least-squares line fitted")

	// No range check: the line is meant to extrapolate.
	return func(field float64) Result {
		v := field*slope + intercept
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid(field, StatusFitFailed)
		}
		return valid(field, v)
	}
}

// polyfit returns the coefficients, lowest order first, of the polynomial of
// the given degree that best fits y over x.
func polyfit(x, y []float64, degree int) (*mat.VecDense, error) {
	if len(x) <= degree {
		return nil, fmt.Errorf("cannot fit degree %d polynomial to %d points", degree, len(x))
	}

	a := vandermonde(x, degree)
	b := mat.NewVecDense(len(y), y)
	c := mat.NewVecDense(degree+1, nil)

	qr := new(mat.QR)
	qr.Factorize(a)

	if err := qr.SolveVecTo(c, false, b); err != nil {
		return nil, fmt.Errorf("could not solve QR: %v", err)
	}
	return c, nil
}

// vandermonde calculates the Vandermonde matrix of a for the given degree.
func vandermonde(a []float64, degree int) *mat.Dense {
	x := mat.NewDense(len(a), degree+1, nil)
	for i := range a {
		for j, p := 0, 1.0; j <= degree; j, p = j+1, p*a[i] {
			x.Set(i, j, p)
		}
	}
	return x
}

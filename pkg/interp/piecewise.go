package interp

import (
	"math"

	"github.com/talvi/pulsemagstep/pkg/calibration"
)

func newPiecewiseEvaluator(table calibration.Table) Evaluator {
	points := table.Points
	return func(field float64) Result {
		return segment(field, points)
	}
}

// segment interpolates linearly inside the segment containing field. The
// search restarts from the first point on every call because targets are not
// required to be sorted.
func segment(field float64, points []calibration.Point) Result {
	lo, hi := points[0].Field, points[len(points)-1].Field
	if math.IsNaN(field) || field < lo || field > hi {
		return invalid(field, StatusOutOfRange)
	}

	// First point whose field is >= the target, so an exact match never
	// yields a zero-width segment.
	s := 0
	for points[s].Field < field {
		s++
	}
	if points[s].Field == field {
		return valid(field, points[s].Voltage)
	}

	prev, next := points[s-1], points[s]
	slope := (next.Voltage - prev.Voltage) / (next.Field - prev.Field)
	return valid(field, prev.Voltage+slope*(field-prev.Field))
}

// Package fields generates the sequence of target field values that a step
// table is computed for.
package fields

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidSampling is returned when the sampling parameters violate
	// the preconditions of Generate.
	ErrInvalidSampling = errors.New("invalid field sampling")

	// ErrUnknownDistribution is returned for an unrecognized distribution name.
	ErrUnknownDistribution = errors.New("unknown step distribution")
)

// MaxCount bounds the number of targets a single Generate call produces.
const MaxCount = 10000

// Distribution selects how target fields are spaced.
type Distribution string

const (
	Linear      Distribution = "linear"
	Logarithmic Distribution = "exponential"
)

// ParseDistribution accepts lin[ear], exp[onential] and log[arithmic].
// Matching is by prefix, so "e" alone means exponential.
func ParseDistribution(name string) (Distribution, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case n == "":
		return "", fmt.Errorf("%w: empty name", ErrUnknownDistribution)
	case strings.HasPrefix(n, "e"), strings.HasPrefix(n, "log"):
		return Logarithmic, nil
	case strings.HasPrefix(n, "lin"):
		return Linear, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDistribution, name)
}

// Generate returns target fields from start to end.
//
// Linear sampling uses a half-open range [start, end+step) with
// step = (end-start)/(count-1), so the result holds count values, or
// count+1 when floating-point rounding admits one more sample. Any such extra
// sample lies less than one step beyond end.
//
// Logarithmic sampling samples log10(start)..log10(end) linearly and maps each
// value back through 10^x, rounded to one decimal place.
func Generate(start, end float64, count int, dist Distribution) ([]float64, error) {
	if count < 2 {
		return nil, fmt.Errorf("%w: count must be at least 2, got %d", ErrInvalidSampling, count)
	}
	if count > MaxCount {
		return nil, fmt.Errorf("%w: count must be at most %d, got %d", ErrInvalidSampling, MaxCount, count)
	}
	if math.IsNaN(start) || math.IsNaN(end) || math.IsInf(start, 0) || math.IsInf(end, 0) {
		return nil, fmt.Errorf("%w: start and end must be finite", ErrInvalidSampling)
	}
	if start >= end {
		return nil, fmt.Errorf("%w: start (%g) must be less than end (%g)", ErrInvalidSampling, start, end)
	}

	switch dist {
	case Linear:
		return linear(start, end, count), nil
	case Logarithmic:
		if start <= 0 {
			return nil, fmt.Errorf("%w: logarithmic start must be positive, got %g", ErrInvalidSampling, start)
		}
		exps := linear(log10(start), log10(end), count)
		values := make([]float64, len(exps))
		for i, x := range exps {
			values[i] = roundTenth(math.Pow(10, x))
		}
		return values, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownDistribution, dist)
}

func linear(start, end float64, count int) []float64 {
	step := (end - start) / float64(count-1)
	n := int(math.Ceil((end + step - start) / step))
	values := make([]float64, n)
	for i := range values {
		values[i] = start + float64(i)*step
	}
	return values
}

// log10 snaps results within rounding error of an integer, so decades such as
// 1000 map to exactly 3.
func log10(v float64) float64 {
	l := math.Log10(v)
	if r := math.Round(l); math.Abs(l-r) < 1e-12 {
		return r
	}
	return l
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

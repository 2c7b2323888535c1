package interp

import (
	"encoding/json"
	"fmt"
)

// Status tells whether a Result carries a usable voltage.
type Status int

const (
	StatusValid Status = iota
	// StatusOutOfRange marks a target outside the calibrated field span
	// (piecewise linear only).
	StatusOutOfRange
	// StatusFitFailed marks a target the fitted model could not evaluate.
	StatusFitFailed
)

const (
	// OutOfRangeSentinel is the legacy voltage printed for StatusOutOfRange.
	OutOfRangeSentinel = -1.0
	// FitFailedSentinel is the legacy voltage printed for StatusFitFailed.
	FitFailedSentinel = -1.0e30
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusOutOfRange:
		return "out-of-range"
	case StatusFitFailed:
		return "fit-failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	switch str {
	case "valid":
		*s = StatusValid
	case "out-of-range":
		*s = StatusOutOfRange
	case "fit-failed":
		*s = StatusFitFailed
	default:
		return fmt.Errorf("unknown status %q", str)
	}
	return nil
}

// Result is the voltage computed for one target field. Voltage is only
// meaningful when Status is StatusValid.
type Result struct {
	Field   float64 `json:"field"`
	Voltage float64 `json:"voltage"`
	Status  Status  `json:"status"`
}

func valid(field, voltage float64) Result {
	return Result{Field: field, Voltage: voltage, Status: StatusValid}
}

func invalid(field float64, s Status) Result {
	return Result{Field: field, Status: s}
}

// Valid reports whether r holds a usable voltage.
func (r Result) Valid() bool {
	return r.Status == StatusValid
}

// Sentinel returns the voltage, or the legacy out-of-band marker for an
// invalid result.
func (r Result) Sentinel() float64 {
	switch r.Status {
	case StatusOutOfRange:
		return OutOfRangeSentinel
	case StatusFitFailed:
		return FitFailedSentinel
	}
	return r.Voltage
}

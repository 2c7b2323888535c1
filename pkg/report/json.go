package report

import (
	"encoding/json"
	"io"

	"github.com/talvi/pulsemagstep/pkg/interp"
)

// Step is the JSON view of one result. Voltage is omitted when the result
// is invalid so a consumer can never mistake a marker for a setting.
type Step struct {
	Field   float64       `json:"field"`
	Voltage *float64      `json:"voltage,omitempty"`
	Status  interp.Status `json:"status"`
}

// Steps converts results to their JSON view.
func Steps(results []interp.Result) []Step {
	steps := make([]Step, len(results))
	for i, r := range results {
		steps[i] = Step{Field: r.Field, Status: r.Status}
		if r.Valid() {
			v := r.Voltage
			steps[i].Voltage = &v
		}
	}
	return steps
}

// WriteJSON writes results as an indented JSON array.
func WriteJSON(w io.Writer, results []interp.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Steps(results))
}

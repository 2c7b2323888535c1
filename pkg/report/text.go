// Package report renders interpolation results for the operator: as a text
// step table, as JSON, or as a graph of the calibration curve.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/talvi/pulsemagstep/pkg/interp"
)

// TextOptions controls WriteText.
type TextOptions struct {
	// LegacySentinels prints -1 / -1e30 for invalid rows instead of the
	// status name.
	LegacySentinels bool
	// Color highlights invalid rows.
	Color bool
}

// WriteText writes one "field<TAB>voltage" line per result.
func WriteText(w io.Writer, results []interp.Result, opts TextOptions) error {
	warn := color.New(color.FgYellow)
	if opts.Color {
		warn.EnableColor()
	} else {
		warn.DisableColor()
	}

	for _, r := range results {
		var line string
		switch {
		case r.Valid():
			line = fmt.Sprintf("%6.1f\t%5.1f", r.Field, r.Voltage)
		case opts.LegacySentinels:
			line = fmt.Sprintf("%6.1f\t%5.1f", r.Field, r.Sentinel())
		default:
			line = fmt.Sprintf("%6.1f\t%s", r.Field, warn.Sprint(r.Status))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Summary counts the invalid results by status.
func Summary(results []interp.Result) (outOfRange, fitFailed int) {
	for _, r := range results {
		switch r.Status {
		case interp.StatusOutOfRange:
			outOfRange++
		case interp.StatusFitFailed:
			fitFailed++
		}
	}
	return outOfRange, fitFailed
}

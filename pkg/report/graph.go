package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/talvi/pulsemagstep/pkg/calibration"
	"github.com/talvi/pulsemagstep/pkg/interp"
)

// maxCurveSamples bounds the number of fields the curve is evaluated at.
const maxCurveSamples = 2000

// GraphFile renders the graph to path. A ".svg" extension selects SVG,
// anything else PNG.
func GraphFile(path string, table calibration.Table, results []interp.Result, t interp.Technique) error {
	fp, err := os.Create(path)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create graph file %s", path)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", path)
		}
	}(fp)

	renderer := chart.PNG
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		renderer = chart.SVG
	}

	if err := Graph(fp, renderer, table, results, t); err != nil {
		return pkgerrors.Wrapf(err, "failed to render graph to %s", path)
	}

	logrus.WithField("path", path).Info("graph written")
	return nil
}

// Graph plots field against voltage: the calibration points, the
// interpolated steps, and the curve the technique traces between them.
// Invalid results are left out.
func Graph(w io.Writer, renderer chart.RendererProvider, table calibration.Table, results []interp.Result, t interp.Technique) error {
	if table.Len() == 0 {
		return fmt.Errorf("cannot graph an empty calibration table")
	}

	curve, err := curveSeries(table, results, t)
	if err != nil {
		return err
	}

	steps := chart.ContinuousSeries{
		Name: "interpolated step",
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    3,
			DotColor:    chart.ColorBlack,
		},
	}
	for _, r := range results {
		if !r.Valid() {
			continue
		}
		steps.XValues = append(steps.XValues, r.Voltage)
		steps.YValues = append(steps.YValues, r.Field)
	}

	points := chart.ContinuousSeries{
		Name:    "calibration point",
		XValues: table.Voltages(),
		YValues: table.Fields(),
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    4,
			DotColor:    chart.ColorRed,
		},
	}

	series := []chart.Series{}
	if len(curve.XValues) >= 2 {
		series = append(series, curve)
	}
	if len(steps.XValues) > 0 {
		series = append(series, steps)
	}
	series = append(series, points)

	ch := chart.Chart{
		Title:      fmt.Sprintf("Calibration (%s)", t.Description()),
		Width:      1024,
		Height:     768,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Voltage"},
		YAxis:      chart.YAxis{Name: "Field"},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return ch.Render(renderer, w)
}

// curveSeries evaluates t at integer fields spanning both the calibration
// table and the results.
func curveSeries(table calibration.Table, results []interp.Result, t interp.Technique) (chart.ContinuousSeries, error) {
	lo, hi := table.FieldRange()
	if len(results) > 0 {
		lo = math.Min(lo, results[0].Field)
		hi = math.Max(hi, results[len(results)-1].Field)
	}

	start, end := math.Trunc(lo), math.Trunc(hi+1)
	stride := math.Max(1, math.Ceil((end-start)/maxCurveSamples))
	var fields []float64
	for f := start; f < end; f += stride {
		fields = append(fields, f)
	}

	curve := chart.ContinuousSeries{
		Name: "calibration curve",
		Style: chart.Style{
			StrokeColor: chart.ColorCyan,
			StrokeWidth: 1.5,
		},
	}

	evaluated, err := interp.Interpolate(fields, t, table)
	if err != nil {
		return curve, err
	}
	for _, r := range evaluated {
		if !r.Valid() {
			continue
		}
		curve.XValues = append(curve.XValues, r.Voltage)
		curve.YValues = append(curve.YValues, r.Field)
	}
	return curve, nil
}

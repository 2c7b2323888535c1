package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/talvi/pulsemagstep/pkg/calibration"
	"github.com/talvi/pulsemagstep/pkg/config"
	"github.com/talvi/pulsemagstep/pkg/fields"
	"github.com/talvi/pulsemagstep/pkg/interp"
	"github.com/talvi/pulsemagstep/pkg/report"
)

// stepOptions holds the step-table flags. Flags the user did not set fall
// back to the config file.
type stepOptions struct {
	technique    string
	steps        int
	minField     float64
	maxField     float64
	distribution string
	graph        string
	scale        float64
	literal      string

	json            bool
	legacySentinels bool
	noColor         bool
}

func (o *stepOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	o.registerSampling(cmd)
	f.StringVarP(&o.graph, "graph", "g", "", "write a graph of the calibration and steps (PNG, or SVG for .svg)")
	f.Float64Var(&o.scale, "scale", 1, "multiply calibration fields by this factor")
	f.StringVar(&o.literal, "calibration-literal", "", "calibration pairs given inline instead of a file")
	o.registerOutput(cmd)
}

func (o *stepOptions) registerSampling(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.technique, "interpolation", "i", "spl", "spl spline, pwl piecewise linear, lsq least-squares")
	f.IntVarP(&o.steps, "steps", "s", 35, "number of steps")
	f.Float64VarP(&o.minField, "min", "m", 3.3, "minimum field")
	f.Float64VarP(&o.maxField, "max", "a", 1000, "maximum field")
	f.StringVarP(&o.distribution, "distribution", "d", "exp", "step distribution: lin[ear] or exp[onential]")
}

func (o *stepOptions) registerOutput(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&o.json, "json", false, "print results as JSON")
	f.BoolVar(&o.legacySentinels, "legacy-sentinels", false, "print -1 / -1e30 for invalid steps instead of their status")
	f.BoolVar(&o.noColor, "no-color", false, "disable colored output")
}

// apply copies every flag the user set into conf.
func (o *stepOptions) apply(cmd *cobra.Command, conf config.Config) error {
	f := cmd.Flags()
	if f.Changed("interpolation") {
		conf.SetTechnique(o.technique)
	}
	if f.Changed("steps") {
		if o.steps < 2 {
			return fmt.Errorf("%w: steps must be at least 2, got %d", fields.ErrInvalidSampling, o.steps)
		}
		conf.SetSteps(o.steps)
	}
	if f.Changed("min") {
		conf.SetMinField(o.minField)
	}
	if f.Changed("max") {
		conf.SetMaxField(o.maxField)
	}
	if f.Changed("distribution") {
		conf.SetDistribution(o.distribution)
	}
	if f.Changed("graph") {
		conf.SetGraph(o.graph)
	}
	if f.Changed("scale") {
		if o.scale <= 0 {
			return fmt.Errorf("scale must be positive, got %g", o.scale)
		}
		conf.SetFieldScale(o.scale)
	}
	if f.Changed("calibration-literal") {
		conf.SetCalibrationLiteral(o.literal)
	}
	return nil
}

func (o *stepOptions) textOptions() report.TextOptions {
	return report.TextOptions{
		LegacySentinels: o.legacySentinels,
		Color:           !o.noColor && !color.NoColor,
	}
}

// loadConfig reads the config file and overlays the command's flags and
// optional calibration file argument.
func loadConfig(cmd *cobra.Command, opts *stepOptions, args []string) (*config.File, error) {
	conf, err := config.NewFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := opts.apply(cmd, conf); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		conf.SetCalibrationFile(args[0])
	}

	logrus.WithFields(conf.LogrusFields()).Debug("config loaded")
	return conf, nil
}

func loadTable(conf config.Config) (calibration.Table, error) {
	table, err := calibration.Load(calibration.Source{
		Path:    conf.CalibrationFile(),
		Literal: conf.CalibrationLiteral(),
		Scale:   conf.FieldScale(),
	})
	if err != nil {
		return calibration.Table{}, err
	}
	if !table.Ascending() {
		logrus.Warn("calibration fields are not strictly increasing, results may be meaningless")
	}
	return table, nil
}

// computeSteps runs the whole pipeline described by conf.
func computeSteps(conf config.Config, table calibration.Table) ([]interp.Result, interp.Technique, error) {
	technique, err := interp.ParseTechnique(conf.Technique())
	if err != nil {
		return nil, "", err
	}
	dist, err := fields.ParseDistribution(conf.Distribution())
	if err != nil {
		return nil, "", err
	}

	targets, err := fields.Generate(conf.MinField(), conf.MaxField(), conf.Steps(), dist)
	if err != nil {
		return nil, "", err
	}

	results, err := interp.Interpolate(targets, technique, table)
	if err != nil {
		return nil, "", err
	}
	return results, technique, nil
}

func runSteps(cmd *cobra.Command, opts *stepOptions, args []string) error {
	conf, err := loadConfig(cmd, opts, args)
	if err != nil {
		return err
	}

	table, err := loadTable(conf)
	if err != nil {
		return fmt.Errorf("failed to load calibration: %w", err)
	}

	results, technique, err := computeSteps(conf, table)
	if err != nil {
		return err
	}

	if err := printResults(cmd, opts, results); err != nil {
		return err
	}

	if path := conf.Graph(); path != "" {
		if err := report.GraphFile(path, table, results, technique); err != nil {
			return err
		}
	}

	return nil
}

func printResults(cmd *cobra.Command, opts *stepOptions, results []interp.Result) error {
	if oor, ff := report.Summary(results); oor+ff > 0 {
		logrus.WithFields(logrus.Fields{
			"outOfRange": oor,
			"fitFailed":  ff,
		}).Warn("some steps have no valid voltage")
	}

	if opts.json {
		return report.WriteJSON(cmd.OutOrStdout(), results)
	}
	return report.WriteText(cmd.OutOrStdout(), results, opts.textOptions())
}

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/talvi/pulsemagstep/pkg/calibration"
	"github.com/talvi/pulsemagstep/pkg/client"
	"github.com/talvi/pulsemagstep/pkg/fields"
	"github.com/talvi/pulsemagstep/pkg/interp"
)

var (
	logLevel   = "info"
	configPath = ""
)

var (
	gSteps        = "Steps:"
	gService      = "Service:"
	commandGroups = []string{
		gSteps,
		gService,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	var mle *calibration.MalformedLineError
	switch {
	case errors.As(err, &mle):
		fmt.Fprintf(os.Stderr, "\nError: calibration line %d is not a \"voltage field\" pair\n", mle.Line)
		fmt.Fprintf(os.Stderr, "  %s\n", mle.Text)
	case errors.Is(err, calibration.ErrNoSource):
		fmt.Fprintln(os.Stderr, "\nError: no calibration given")
		fmt.Fprintln(os.Stderr, "  - Pass a calibration file as the argument")
		fmt.Fprintln(os.Stderr, "  - Or set calibrationFile / calibrationLiteral in the config file")
	case errors.Is(err, interp.ErrUnknownTechnique):
		fmt.Fprintln(os.Stderr, "\nError: unknown interpolation technique")
		fmt.Fprintln(os.Stderr, "  Use spl (spline), pwl (piecewise linear) or lsq (least-squares)")
	case errors.Is(err, fields.ErrUnknownDistribution):
		fmt.Fprintln(os.Stderr, "\nError: unknown step distribution")
		fmt.Fprintln(os.Stderr, "  Use lin[ear] or exp[onential]")
	case errors.Is(err, client.ErrServiceNotRunning):
		fmt.Fprintln(os.Stderr, "\nError: step service is not running")
		fmt.Fprintln(os.Stderr, "Is 'pulsemagstep serve' running at that address?")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	opts := &stepOptions{}

	cmd := &cobra.Command{
		Use:   "pulsemagstep [flags] <calibration_file>",
		Short: "pulsemagstep computes pulse magnetiser settings for a range of fields",
		Long: `pulsemagstep computes pulse magnetiser settings for a range of fields.

Given a calibration file of measured "voltage field" pairs, it prints the
voltage needed for each step of a linear or exponential field sequence, using
spline, piecewise linear or least-squares interpolation.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSteps(cmd, opts, args)
		},
	}

	opts.register(cmd)

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", "", "config file path (defaults apply when unset)")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewVersionCommand(),
		NewConfigCommand(),
		NewServeCommand(),
		NewRemoteCommand(),
	)

	return cmd
}

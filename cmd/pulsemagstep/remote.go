package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talvi/pulsemagstep/pkg/client"
	"github.com/talvi/pulsemagstep/pkg/server"
)

var remoteAddr = defaultListenAddr

func NewRemoteCommand() *cobra.Command {
	opts := &stepOptions{}

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Fetch a step table from a running step service",
		Long: `Fetch a step table from a running step service.

Only the sampling flags given on the command line are sent; the service fills
in the rest from its own config.`,
		GroupID: gService,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := remoteRequest(cmd, opts)

			results, err := client.NewClient(remoteAddr).GetSteps(req)
			if err != nil {
				return fmt.Errorf("failed to fetch steps: %w", err)
			}

			return printResults(cmd, opts, results)
		},
	}

	opts.registerSampling(cmd)
	opts.registerOutput(cmd)
	cmd.PersistentFlags().StringVar(&remoteAddr, "addr", defaultListenAddr, "step service address (host:port, URL or unix:///path/to.sock)")

	cmd.AddCommand(
		newRemoteCalibrationCommand(),
		newRemoteConfigCommand(),
		newRemoteVersionCommand(),
	)

	return cmd
}

func newRemoteCalibrationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "calibration",
		Short: "Print the calibration table the service is using",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := client.NewClient(remoteAddr).GetCalibration()
			if err != nil {
				return fmt.Errorf("failed to fetch calibration: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "# voltage field")
			for _, p := range table.Points {
				fmt.Fprintf(out, "%g %g\n", p.Voltage, p.Field)
			}
			return nil
		},
	}
}

func newRemoteConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective config of the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := client.NewClient(remoteAddr).GetConfig()
			if err != nil {
				return fmt.Errorf("failed to fetch config: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(conf)
		},
	}
}

func newRemoteVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := client.NewClient(remoteAddr).GetVersion()
			if err != nil {
				return fmt.Errorf("failed to fetch version: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func remoteRequest(cmd *cobra.Command, opts *stepOptions) server.StepsRequest {
	f := cmd.Flags()
	var req server.StepsRequest
	if f.Changed("interpolation") {
		req.Technique = &opts.technique
	}
	if f.Changed("steps") {
		req.Steps = &opts.steps
	}
	if f.Changed("min") {
		req.Min = &opts.minField
	}
	if f.Changed("max") {
		req.Max = &opts.maxField
	}
	if f.Changed("distribution") {
		req.Distribution = &opts.distribution
	}
	return req
}

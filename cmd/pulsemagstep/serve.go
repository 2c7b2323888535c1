package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/talvi/pulsemagstep/pkg/server"
	"github.com/talvi/pulsemagstep/pkg/version"
)

const defaultListenAddr = "127.0.0.1:8035"

var listenAddr = defaultListenAddr

// NewServeCommand .
func NewServeCommand() *cobra.Command {
	opts := &stepOptions{}

	cmd := &cobra.Command{
		Use:   "serve [calibration_file]",
		Short: "Serve step tables over HTTP",
		Long: `Serve step tables over HTTP.

The calibration is loaded once at startup. Step requests may override the
sampling range, step count, distribution and technique; anything omitted falls
back to the config file. Send SIGHUP to reload the config file.`,
		GroupID: gService,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd, opts, args)
			if err != nil {
				return err
			}
			table, err := loadTable(conf)
			if err != nil {
				return fmt.Errorf("failed to load calibration: %w", err)
			}

			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
				"points":  table.Len(),
			}).Info("step service starting")

			// Receive SIGHUP to reload config
			go func() {
				sigc := make(chan os.Signal, 1)
				signal.Notify(sigc, syscall.SIGHUP)
				for range sigc {
					if err := conf.Load(); err != nil {
						logrus.Errorf("failed to reload config: %v", err)
						continue
					}
					if err := opts.apply(cmd, conf); err != nil {
						logrus.Errorf("failed to reapply flags: %v", err)
						continue
					}
					logrus.WithFields(conf.LogrusFields()).Infof("config reloaded")
				}
			}()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.Run(ctx, listenAddr, server.New(table, conf))
		},
	}

	opts.registerSampling(cmd)
	f := cmd.Flags()
	f.Float64Var(&opts.scale, "scale", 1, "multiply calibration fields by this factor")
	f.StringVar(&opts.literal, "calibration-literal", "", "calibration pairs given inline instead of a file")
	f.StringVar(&listenAddr, "listen", defaultListenAddr, "address to listen on (host:port or unix:///path/to.sock)")

	return cmd
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/talvi/pulsemagstep/pkg/config"
	"github.com/talvi/pulsemagstep/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Show or create the config file",
		GroupID: gSteps,
	}

	force := false
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config to --config",
		RunE: func(_ *cobra.Command, _ []string) error {
			if configPath == "" {
				return fmt.Errorf("no config path given, use --config")
			}
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", configPath)
			}

			conf := config.NewFileFromConfig(config.DefaultRawFileConfig(), configPath)
			if err := conf.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			logrus.Infof("wrote default config to %s", configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.NewFile(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			raw, err := config.NewRawFileConfigFromConfig(conf)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(raw)
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

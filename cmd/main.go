package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/logcask/logcask/cmd/bench"
	"github.com/logcask/logcask/cmd/compact"
	"github.com/logcask/logcask/cmd/get"
	"github.com/logcask/logcask/cmd/rm"
	"github.com/logcask/logcask/cmd/set"
	"github.com/logcask/logcask/cmd/stats"
	"github.com/logcask/logcask/utils"
	"github.com/logcask/logcask/utils/log"
)

const (
	dataDirDesc  = "set the path of the data directory"
	configDesc   = "set the path of an optional logcask YAML configuration file"
	logLevelDesc = "set the log level (debug|info|warning|error)"
)

var (
	// flagPrintVersion set flag to show current logcask version.
	flagPrintVersion bool
	flagDataDir      string
	flagConfigPath   string
	flagLogLevel     string
)

// Execute builds the command tree and executes commands.
func Execute() error {

	// c is the root command.
	c := &cobra.Command{
		Use:               "logcask",
		SilenceErrors:     true,
		PersistentPreRunE: configure,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Print version if specified.
			if flagPrintVersion {
				fmt.Printf("version: %v\n", utils.Tag)
				fmt.Printf("commit hash: %v\n", utils.GitHash)
				fmt.Printf("utc build time: %v\n", utils.BuildStamp)
				return nil
			}
			// Print information regarding usage.
			return cmd.Usage()
		},
	}

	// Adds subcommands and flags.
	c.AddCommand(set.Cmd)
	c.AddCommand(get.Cmd)
	c.AddCommand(rm.Cmd)
	c.AddCommand(compact.Cmd)
	c.AddCommand(stats.Cmd)
	c.AddCommand(bench.Cmd)
	c.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", dataDirDesc)
	c.PersistentFlags().StringVarP(&flagConfigPath, "config", "c", "", configDesc)
	c.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", logLevelDesc)
	c.Flags().BoolVarP(&flagPrintVersion, "version", "v", false, "show the version info and exit")

	return c.Execute()
}

// configure resolves the effective configuration before any
// subcommand runs: file values first, then flag overrides.
func configure(cmd *cobra.Command, _ []string) error {
	config := utils.NewDefaultConfig()

	if flagConfigPath != "" {
		data, err := os.ReadFile(flagConfigPath)
		if err != nil {
			return fmt.Errorf("failed to read configuration file error: %w", err)
		}
		if err := config.Parse(data); err != nil {
			return fmt.Errorf("failed to parse configuration file error: %w", err)
		}
		log.Info("using %v for configuration", flagConfigPath)
	}
	if flagDataDir != "" {
		config.DataDir = flagDataDir
	}
	if flagLogLevel != "" {
		config.LogLevel = flagLogLevel
	}

	log.SetLevelFromString(config.LogLevel)
	utils.InstanceConfig = config
	return nil
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/boshu2/guardian/internal/config"
)

var (
	flagOutput  string
	flagColor   string
	flagBaseDir string
	flagVerbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "guardian",
	Short:         "Guardian is a policy gatekeeper for autonomous coding agents",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		overrides := &config.Config{
			Output:  flagOutput,
			Color:   flagColor,
			BaseDir: flagBaseDir,
			Verbose: flagVerbose,
		}
		cfg = config.Load(overrides)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagOutput, "output", "", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "", "color mode: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&flagBaseDir, "base-dir", "", "Guardian data directory (default .guardian)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

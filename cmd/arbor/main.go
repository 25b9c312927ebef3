package main

import (
	"fmt"
	"os"

	"github.com/phanxgames/arbor/internal/config"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "arbor",
		Short: "Frame-synchronized scale interpolation for Ebitengine scenes",
		Long: `arbor loads a YAML scene of sprites, alpha programs and scale
interpolators, then traces it headlessly, charts it, or runs it in a window.

Without --config the built-in pulsing-box scene is used.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Scene file (YAML)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file")

	rootCmd.AddCommand(
		newVersionCmd(),
		newValidateCmd(),
		newTraceCmd(),
		newPlotCmd(),
		newRunCmd(),
	)
	return rootCmd
}

// loadConfig reads --config, falling back to the built-in scene.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

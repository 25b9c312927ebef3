package main

import (
	"fmt"

	"github.com/phanxgames/arbor/internal/config"
	"github.com/phanxgames/arbor/internal/stage"
	"github.com/phanxgames/arbor/internal/trace"
	"github.com/spf13/cobra"
)

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Run a scene headlessly and report interpolator activity",
		Long: `Step a scene for a fixed number of frames without opening a window and
report, for every scale interpolator, how many transform writes it made and
where it ended up.

Examples:
  arbor trace                      # Built-in scene
  arbor trace -c scene.yaml -n 600
  arbor trace -c scene.yaml --json # Per-frame records`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			tr, err := runTrace(cmd)
			if err != nil {
				return err
			}
			if jsonOut {
				return tr.WriteJSON(cmd.OutOrStdout())
			}
			return tr.WriteText(cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntP("frames", "n", 0, "Frames to run (default from the scene file)")
	cmd.Flags().Bool("debug", false, "Log per-frame scheduler stats at debug level")

	return cmd
}

// runTrace loads, builds and traces the scene selected by cmd's flags.
func runTrace(cmd *cobra.Command) (tr *trace.Trace, err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	defer closeLogInto(closeLog, &err)

	st, err := stage.Build(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		st.Scene.SetDebugMode(true)
		defer st.Scene.SetDebugMode(false)
	}

	frames := framesFlag(cmd, cfg)
	logger.Info("tracing", "frames", frames, "tps", cfg.TPS, "interpolators", len(st.Interpolators))
	return trace.Run(st, frames, cfg.TPS)
}

func framesFlag(cmd *cobra.Command, cfg *config.Config) int {
	if n, _ := cmd.Flags().GetInt("frames"); n > 0 {
		return n
	}
	return cfg.Frames
}

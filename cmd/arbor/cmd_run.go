package main

import (
	"fmt"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/internal/stage"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a window and run the scene",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			showFPS, _ := cmd.Flags().GetBool("fps")
			debug, _ := cmd.Flags().GetBool("debug")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, closeLog, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer closeLogInto(closeLog, &err)

			st, err := stage.Build(cfg, logger)
			if err != nil {
				return fmt.Errorf("build scene: %w", err)
			}
			st.Scene.ClearColor = arbor.Color{R: 0.1, G: 0.1, B: 0.15, A: 1}
			st.Scene.SetDebugMode(debug)

			return arbor.Run(st.Scene, arbor.RunConfig{
				Title:   cfg.Window.Title,
				Width:   cfg.Window.Width,
				Height:  cfg.Window.Height,
				TPS:     cfg.TPS,
				ShowFPS: showFPS,
			})
		},
	}

	cmd.Flags().Bool("fps", true, "Show FPS and scheduler overlay")
	cmd.Flags().Bool("debug", false, "Enable scene debug checks and logging")

	return cmd
}

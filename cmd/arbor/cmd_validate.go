package main

import (
	"encoding/json"
	"fmt"

	"github.com/phanxgames/arbor/internal/stage"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a scene file and build it without running",
		Long: `Validate a scene file.

This command checks for:
  - Unknown alpha modes and easing names
  - Interpolators referencing missing sprites or alphas
  - Duplicate sprite names
  - Axis transforms that cannot be inverted

Examples:
  arbor validate -c scene.yaml
  arbor validate -c scene.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			jsonOut, _ := cmd.Flags().GetBool("json")

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

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"valid":         true,
					"sprites":       len(cfg.Sprites),
					"targets":       len(st.Targets),
					"interpolators": len(st.Interpolators),
				})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d sprites, %d targets, %d interpolators\n",
				len(cfg.Sprites), len(st.Targets), len(st.Interpolators))
			return err
		},
	}
}

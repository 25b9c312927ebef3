package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Chart interpolator scale over time as a PNG",
		Long: `Trace a scene headlessly and save a line chart of each scale
interpolator's last applied scale against the scene clock.

Examples:
  arbor plot -c scene.yaml -o scale.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			title, _ := cmd.Flags().GetString("title")
			jsonOut, _ := cmd.Flags().GetBool("json")

			tr, err := runTrace(cmd)
			if err != nil {
				return err
			}
			if err := tr.SavePNG(out, title); err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"plot": out})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return err
		},
	}

	cmd.Flags().StringP("out", "o", "scale.png", "Output PNG path")
	cmd.Flags().String("title", "Scale interpolators", "Chart title")
	cmd.Flags().IntP("frames", "n", 0, "Frames to run (default from the scene file)")
	cmd.Flags().Bool("debug", false, "Log per-frame scheduler stats at debug level")

	return cmd
}

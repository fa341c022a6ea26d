package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rinehartj/scansplit/internal/config"
	"github.com/rinehartj/scansplit/internal/logging"
	"github.com/rinehartj/scansplit/model"
	"github.com/rinehartj/scansplit/scanio"
	"github.com/rinehartj/scansplit/whitebalance"
)

// calibrateCommand constructs the 'calibrate' subcommand: derive a
// white-balance profile from a scan of a reference white card.
func calibrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate [reference scan]",
		Short: "Builds a white-balance profile from a reference white scan",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			out, _ := cmd.Flags().GetString("out")
			regionSpec, _ := cmd.Flags().GetString("region")

			scan, err := scanio.ReadWithConfig(args[0], scanio.Config{DefaultDPI: cfg.DefaultDPI})
			if err != nil {
				logging.Fatal(ctx, "could not read reference scan", zap.Error(err))
			}

			region := scan.Bounds()
			if regionSpec != "" {
				region, err = parseRegion(regionSpec)
				if err != nil {
					logging.Fatal(ctx, "could not parse region", zap.Error(err))
				}
			}

			profile, err := whitebalance.Calibrate(scan, region, cfg.CalibrationConfig())
			if err != nil {
				logging.Fatal(ctx, "calibration failed", zap.Error(err))
			}
			if err := profile.Save(out); err != nil {
				logging.Fatal(ctx, "could not save profile", zap.Error(err))
			}

			logging.Info(ctx, "profile saved",
				zap.String("path", out),
				zap.Float64s("gains", profile.Gains[:]))
		},
	}

	cmd.Flags().String("out", "profile.json", "Profile output path")
	cmd.Flags().String("region", "", "Sample region as x,y,width,height (default: whole scan)")

	return cmd
}

// parseRegion parses "x,y,width,height" into a Rect.
func parseRegion(spec string) (model.Rect, error) {
	var x, y, width, height int
	if _, err := fmt.Sscanf(spec, "%d,%d,%d,%d", &x, &y, &width, &height); err != nil {
		return model.Rect{}, fmt.Errorf("region %q is not x,y,width,height: %w", spec, err)
	}
	return model.NewRect(x, y, width, height), nil
}

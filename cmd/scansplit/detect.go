package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rinehartj/scansplit"
	"github.com/rinehartj/scansplit/internal/config"
	"github.com/rinehartj/scansplit/internal/logging"
	"github.com/rinehartj/scansplit/model"
)

// detectedRegion is the JSON shape printed per region.
type detectedRegion struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// detectCommand constructs the 'detect' subcommand: print the detected
// photo regions of a scan as JSON without writing any images.
func detectCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect [scan file]",
		Short: "Prints the detected photo regions of a scan as JSON",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			detectConfig, err := cfg.DetectConfig()
			if err != nil {
				logging.Fatal(ctx, "invalid detection config", zap.Error(err))
			}

			regions, err := scansplit.Load(args[0]).
				DetectConfig(detectConfig).
				Regions(ctx)
			if err != nil {
				logging.Fatal(ctx, "detection failed",
					zap.String("scan", args[0]), zap.Error(err))
			}

			out := make([]detectedRegion, 0, len(regions))
			for _, region := range regions {
				out = append(out, regionJSON(region))
			}
			encoded, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				logging.Fatal(ctx, "could not encode regions", zap.Error(err))
			}
			fmt.Println(string(encoded)) //nolint: forbidigo
		},
	}

	return cmd
}

func regionJSON(region model.Region) detectedRegion {
	return detectedRegion{
		X:      region.Box.X,
		Y:      region.Box.Y,
		Width:  region.Box.Width,
		Height: region.Box.Height,
	}
}

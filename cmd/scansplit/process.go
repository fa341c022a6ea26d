package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rinehartj/scansplit"
	"github.com/rinehartj/scansplit/caption"
	"github.com/rinehartj/scansplit/export"
	"github.com/rinehartj/scansplit/internal/config"
	"github.com/rinehartj/scansplit/internal/logging"
	"github.com/rinehartj/scansplit/metadata"
	"github.com/rinehartj/scansplit/scanio"
	"github.com/rinehartj/scansplit/whitebalance"
)

// processCommand constructs the 'process' subcommand: detect the photos
// on each scan, correct, stamp and export them.
func processCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [scan files]",
		Short: "Splits scans into individual corrected photos",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			outDir, _ := cmd.Flags().GetString("out")
			profilePath, _ := cmd.Flags().GetString("profile")
			title, _ := cmd.Flags().GetString("title")
			date, _ := cmd.Flags().GetString("date")
			keepScan, _ := cmd.Flags().GetBool("keep-scan")
			suggest, _ := cmd.Flags().GetBool("suggest-titles")
			wholeScan, _ := cmd.Flags().GetBool("whole-scan")

			detectConfig, err := cfg.DetectConfig()
			if err != nil {
				logging.Fatal(ctx, "invalid detection config", zap.Error(err))
			}
			exportConfig, err := cfg.ExportConfig()
			if err != nil {
				logging.Fatal(ctx, "invalid export config", zap.Error(err))
			}

			var profile *whitebalance.Profile
			if profilePath != "" {
				profile, err = whitebalance.LoadProfile(profilePath)
				if err != nil {
					logging.Fatal(ctx, "could not load white-balance profile", zap.Error(err))
				}
			}

			var stamp time.Time
			if date != "" {
				stamp, err = time.Parse("2006-01-02", date)
				if err != nil {
					logging.Fatal(ctx, "could not parse date", zap.Error(err))
				}
			}

			for _, path := range args {
				scan, err := scanio.ReadWithConfig(path, scanio.Config{DefaultDPI: cfg.DefaultDPI})
				if err != nil {
					logging.Fatal(ctx, "could not read scan",
						zap.String("scan", path), zap.Error(err))
				}

				session := scansplit.FromScan(scan).
					DetectConfig(detectConfig).
					ExportConfig(exportConfig).
					Profile(profile).
					Workers(cfg.Workers).
					CropMargin(cfg.CropMargin)
				if wholeScan {
					session = session.WholeScanFallback()
				}
				if title != "" || !stamp.IsZero() {
					session = session.Stamp(stamp, title)
				}

				if suggest {
					if err := suggestTitles(ctx, session, stamp); err != nil {
						logging.Fatal(ctx, "could not suggest titles", zap.Error(err))
					}
				}

				records, warnings, err := session.Export(ctx, outDir, nil)
				if err != nil {
					logging.Fatal(ctx, "processing failed",
						zap.String("scan", path), zap.Error(err))
				}
				for _, record := range records {
					fmt.Println(record.Path) //nolint: forbidigo
				}
				if len(warnings) > 0 {
					fmt.Fprintln(os.Stderr, scansplit.FormatWarnings(warnings))
				}

				if keepScan {
					if err := exportRawScan(ctx, session, exportConfig, outDir, path); err != nil {
						logging.Fatal(ctx, "could not keep scan", zap.Error(err))
					}
				}
			}
		},
	}

	cmd.Flags().String("out", ".", "Output directory")
	cmd.Flags().String("profile", "", "White-balance profile JSON path")
	cmd.Flags().String("title", "", "Title stamped on every photo")
	cmd.Flags().String("date", "", "Capture date stamped on every photo (YYYY-MM-DD)")
	cmd.Flags().Bool("keep-scan", false, "Also export the untouched full scan")
	cmd.Flags().Bool("suggest-titles", false, "Suggest per-photo titles via OCR")
	cmd.Flags().Bool("whole-scan", false, "Treat an empty detection as one whole-scan photo")

	return cmd
}

// suggestTitles runs OCR over each cropped photo and stamps the first
// recognized text line as its title. Requires the ocr build tag.
func suggestTitles(ctx context.Context, session *scansplit.Session, stamp time.Time) error {
	suggester, err := caption.NewSuggester()
	if err != nil {
		return err
	}
	defer func() { _ = suggester.Close() }()

	images, err := session.Images(ctx)
	if err != nil {
		return err
	}
	for i, img := range images {
		text, err := suggester.Suggest(img)
		if err != nil {
			logging.Warn(ctx, "no title suggestion",
				zap.Int("region", i), zap.Error(err))
			continue
		}
		if text != "" {
			metadata.Assign(img, stamp, text)
		}
	}
	return nil
}

// exportRawScan writes the original scan next to the split photos,
// named after the input file.
func exportRawScan(ctx context.Context, session *scansplit.Session, exportConfig export.Config, outDir, scanPath string) error {
	base := strings.TrimSuffix(filepath.Base(scanPath), filepath.Ext(scanPath))
	name := export.SanitizeFilename(base + " full scan")

	exporter := export.NewExporterWithConfig(exportConfig)
	final, err := exporter.WriteImage(ctx, session.Scan().Image(), filepath.Join(outDir, name))
	if err != nil {
		return err
	}
	fmt.Println(final) //nolint: forbidigo
	return nil
}

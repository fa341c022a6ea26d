package scansplit

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rinehartj/scansplit/detect"
	"github.com/rinehartj/scansplit/edit"
	"github.com/rinehartj/scansplit/export"
	"github.com/rinehartj/scansplit/internal/logging"
	"github.com/rinehartj/scansplit/metadata"
	"github.com/rinehartj/scansplit/model"
	"github.com/rinehartj/scansplit/rotate"
	"github.com/rinehartj/scansplit/whitebalance"
)

// Session drives one scan through the pipeline: detect, edit, crop,
// correct, rotate, export. Each configuration method returns a new
// Session instance, making chains safe to fork; stage methods run the
// pipeline and cache their results on the session they are called on.
type Session struct {
	scan    *model.RawScan
	options sessionOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning

	// Cached stage results
	regions []model.Region
	images  []*model.CroppedImage
}

// clone creates a shallow copy of the Session with a deep copy of
// options.
func (s *Session) clone() *Session {
	return &Session{
		scan:     s.scan,
		options:  s.options.clone(),
		err:      s.err,
		warnings: append([]Warning(nil), s.warnings...),
		regions:  s.regions,
		images:   s.images,
	}
}

// Scan returns the session's raw scan.
func (s *Session) Scan() *model.RawScan {
	return s.scan
}

// ============================================================================
// Configuration Methods (return new Session instance)
// ============================================================================

// DetectConfig replaces the region detection configuration.
//
// Example:
//
//	config := detect.DefaultConfig()
//	config.Mode = detect.ThresholdOtsu
//	regions, err := scansplit.FromScan(scan).DetectConfig(config).Regions(ctx)
func (s *Session) DetectConfig(config detect.Config) *Session {
	newS := s.clone()
	newS.options.detectConfig = config
	return newS
}

// ExportConfig replaces the export configuration.
func (s *Session) ExportConfig(config export.Config) *Session {
	newS := s.clone()
	newS.options.exportConfig = config
	return newS
}

// Profile sets the white-balance profile applied to every cropped
// region. Without a profile, regions are exported uncorrected.
func (s *Session) Profile(profile *whitebalance.Profile) *Session {
	newS := s.clone()
	newS.options.profile = profile
	return newS
}

// TagWriter sets the external metadata integration that receives one
// tag-write request per exported file. A write failure becomes a
// warning, never an export rollback.
func (s *Session) TagWriter(writer metadata.TagWriter) *Session {
	newS := s.clone()
	newS.options.tagWriter = writer
	return newS
}

// Workers sets the number of concurrent per-region processing tasks.
func (s *Session) Workers(n int) *Session {
	newS := s.clone()
	if n < 1 {
		n = 1
	}
	newS.options.workers = n
	return newS
}

// WholeScanFallback makes an empty detection yield the whole scan as a
// single region (with a warning) instead of failing with ErrNoRegions.
func (s *Session) WholeScanFallback() *Session {
	newS := s.clone()
	newS.options.wholeScanFallback = true
	return newS
}

// Stamp assigns a (timestamp, title) pair to every cropped region.
//
// Example:
//
//	records, _, err := scansplit.Load("scan.tiff").
//	    Stamp(time.Date(1987, 6, 14, 0, 0, 0, 0, time.UTC), "Summer trip").
//	    Export(ctx, "out", nil)
func (s *Session) Stamp(timestamp time.Time, title string) *Session {
	newS := s.clone()
	newS.options.stamp = newStamp(timestamp, title)
	return newS
}

// CropMargin sets the pixel inset trimmed from every region when it is
// cropped, removing the background halo detection tends to leave.
func (s *Session) CropMargin(px int) *Session {
	newS := s.clone()
	newS.options.cropMargin = px
	return newS
}

// Edit queues region edits to apply after detection, in order. Rejected
// edits become warnings; the surviving edits still apply.
//
// Example:
//
//	images, err := scansplit.FromScan(scan).
//	    Edit(edit.Delete(2), edit.Add(model.Rect{})).
//	    Images(ctx)
func (s *Session) Edit(edits ...edit.Edit) *Session {
	newS := s.clone()
	newS.options.pendingEdits = append(newS.options.pendingEdits, edits...)
	return newS
}

// ============================================================================
// Stage Methods (run the pipeline, cache results on this session)
// ============================================================================

// Regions detects the photo regions on the scan, applies any queued
// edits, and returns the result. Detection runs once; repeated calls
// return the cached sequence.
func (s *Session) Regions(ctx context.Context) ([]model.Region, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.regions != nil {
		return s.regions, nil
	}

	detector := detect.NewDetectorWithConfig(s.options.detectConfig)
	regions, err := detector.Detect(ctx, s.scan)
	if err != nil {
		if errors.Is(err, detect.ErrNoRegions) && s.options.wholeScanFallback {
			regions = []model.Region{{
				Box:        s.scan.Bounds(),
				Source:     s.scan,
				Provenance: model.ProvenanceAuto,
			}}
			s.warn(Warning{
				Stage:   "detect",
				Region:  -1,
				Message: "no regions found, falling back to whole scan",
				Err:     err,
			})
		} else {
			return nil, err
		}
	}
	logging.Debug(ctx, "regions detected", zap.Int("count", len(regions)))

	if len(s.options.pendingEdits) > 0 {
		editor := edit.NewEditor(s.scan)
		edited, rejected := editor.Apply(regions, s.options.pendingEdits)
		for _, r := range rejected {
			s.warn(Warning{
				Stage:   "edit",
				Region:  r.Edit.Index,
				Message: fmt.Sprintf("%s edit %d rejected", r.Edit.Op, r.Position),
				Err:     r.Err,
			})
		}
		regions = edited
	}

	s.regions = regions
	return regions, nil
}

// Images crops every region, applies the white-balance profile when one
// is set, and stamps metadata. Regions are processed concurrently on the
// configured number of workers; a failing region becomes a warning and
// its siblings continue. On cancellation the images completed so far are
// returned alongside the context error and remain valid and exportable.
func (s *Session) Images(ctx context.Context) ([]*model.CroppedImage, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.images != nil {
		return s.images, nil
	}

	regions, err := s.Regions(ctx)
	if err != nil {
		return nil, err
	}

	var corrector *whitebalance.Corrector
	if s.options.profile != nil {
		corrector, err = whitebalance.NewCorrector(s.options.profile)
		if err != nil {
			return nil, err
		}
	}

	results := make([]*model.CroppedImage, len(regions))
	var mu sync.Mutex
	var wg sync.WaitGroup

	indices := make(chan int)
	for w := 0; w < s.options.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				img, err := s.processRegion(regions[i], corrector)
				mu.Lock()
				if err != nil {
					s.warn(Warning{
						Stage:   "process",
						Region:  i,
						Message: "region skipped",
						Err:     err,
					})
				} else {
					results[i] = img
				}
				mu.Unlock()
			}
		}()
	}

	// Feed region indices until done or cancelled; cancellation is
	// checked at region boundaries so completed images stay intact.
feed:
	for i := range regions {
		select {
		case indices <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indices)
	wg.Wait()

	images := make([]*model.CroppedImage, 0, len(results))
	for _, img := range results {
		if img != nil {
			images = append(images, img)
		}
	}
	logging.Debug(ctx, "regions processed",
		zap.Int("regions", len(regions)), zap.Int("images", len(images)))

	if err := ctx.Err(); err != nil {
		return images, err
	}
	s.images = images
	return images, nil
}

// processRegion crops, corrects and stamps a single region. Each call
// exclusively owns the buffer it creates.
func (s *Session) processRegion(region model.Region, corrector *whitebalance.Corrector) (*model.CroppedImage, error) {
	img, err := model.NewCroppedImage(region, s.options.cropMargin)
	if err != nil {
		return nil, err
	}
	if corrector != nil {
		if err := corrector.Apply(img); err != nil {
			return nil, err
		}
	}
	if s.options.stamp != nil {
		metadata.Assign(img, s.options.stamp.Timestamp, s.options.stamp.Title)
	}
	return img, nil
}

// Warnings returns the warnings accumulated so far.
func (s *Session) Warnings() []Warning {
	return s.warnings
}

func (s *Session) warn(w Warning) {
	s.warnings = append(s.warnings, w)
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Export crops and processes every region (if not already done), writes
// each image into dir, and hands a tag-write request to the configured
// TagWriter per file. namer derives filenames; nil uses the stock
// date-title policy. A failing region export becomes a warning and does
// not abort its siblings; a failing tag write is a warning and never
// rolls back the file already on disk. Exported buffers are released.
//
// Returns the export records, all accumulated warnings, and an error
// only when the pipeline itself failed.
func (s *Session) Export(ctx context.Context, dir string, namer export.Namer) ([]export.Record, []Warning, error) {
	images, err := s.Images(ctx)
	if err != nil && len(images) == 0 {
		return nil, s.warnings, err
	}
	if namer == nil {
		namer = export.DateTitleNamer()
	}

	exporter := export.NewExporterWithConfig(s.options.exportConfig)
	var records []export.Record

	for i, img := range images {
		name := namer(i, len(images), img.Meta)
		record, err := exporter.Export(ctx, img, filepath.Join(dir, name))
		if err != nil {
			s.warn(Warning{
				Stage:   "export",
				Region:  i,
				Message: "export failed",
				Err:     err,
			})
			continue
		}
		logging.Info(ctx, "image exported",
			zap.String("path", record.Path), zap.Int("region", i))

		if s.options.tagWriter != nil && record.Meta != nil {
			request := metadata.NewTagRequest(record.Path, *record.Meta)
			if err := s.options.tagWriter.WriteTags(ctx, request); err != nil {
				s.warn(Warning{
					Stage:   "metadata",
					Region:  i,
					Message: "tag write failed",
					Err:     &metadata.WriteError{Path: record.Path, Err: err},
				})
			}
		}

		img.Release()
		records = append(records, *record)
	}

	// A cancellation that still produced images surfaces after their
	// export so completed work is not lost.
	if err != nil {
		return records, s.warnings, err
	}
	return records, s.warnings, nil
}

// ============================================================================
// In-place adjustments
// ============================================================================

// Rotate turns the cropped image at index by turns quarter turns,
// clockwise for positive values and counter-clockwise for negative.
// Images(ctx) must have run first.
func (s *Session) Rotate(index, turns int) error {
	if s.images == nil {
		return fmt.Errorf("scansplit: no images processed yet")
	}
	if index < 0 || index >= len(s.images) {
		return fmt.Errorf("scansplit: no image at index %d", index)
	}
	img := s.images[index]

	target := img.Rotation
	for turns > 0 {
		target = target.Clockwise()
		turns--
	}
	for turns < 0 {
		target = target.CounterClockwise()
		turns++
	}
	return rotate.To(img, target)
}

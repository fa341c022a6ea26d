package scansplit_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rinehartj/scansplit"
	"github.com/rinehartj/scansplit/detect"
	"github.com/rinehartj/scansplit/edit"
	"github.com/rinehartj/scansplit/export"
	"github.com/rinehartj/scansplit/metadata"
	"github.com/rinehartj/scansplit/model"
	"github.com/rinehartj/scansplit/whitebalance"
)

// testScan builds a scan with a near-white bed and dark photo blocks.
func testScan(w, h int, blocks ...model.Rect) *model.RawScan {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 250, G: 250, B: 250, A: 255})
		}
	}
	for _, b := range blocks {
		for y := b.Top(); y < b.Bottom(); y++ {
			for x := b.Left(); x < b.Right(); x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
			}
		}
	}
	return model.NewRawScan(img, 300, 300)
}

// grayProfile calibrates against a mean-200 reference patch.
func grayProfile(t *testing.T) *whitebalance.Profile {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	reference := model.NewRawScan(img, 300, 300)
	profile, err := whitebalance.Calibrate(reference, model.NewRect(0, 0, 50, 50), whitebalance.DefaultConfig())
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	return profile
}

func pngConfig() export.Config {
	config := export.DefaultConfig()
	config.Format = export.PNG
	return config
}

// recordingTagWriter captures tag-write requests, optionally failing.
type recordingTagWriter struct {
	requests []*metadata.TagRequest
	err      error
}

func (w *recordingTagWriter) WriteTags(ctx context.Context, request *metadata.TagRequest) error {
	if w.err != nil {
		return w.err
	}
	w.requests = append(w.requests, request)
	return nil
}

func TestSessionEndToEnd(t *testing.T) {
	scan := testScan(200, 100,
		model.NewRect(20, 20, 50, 40),
		model.NewRect(120, 25, 60, 40),
	)
	writer := &recordingTagWriter{}
	dir := t.TempDir()

	records, warnings, err := scansplit.FromScan(scan).
		ExportConfig(pngConfig()).
		Profile(grayProfile(t)).
		TagWriter(writer).
		Stamp(time.Date(1987, 6, 14, 0, 0, 0, 0, time.UTC), "Summer trip").
		Export(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("Expected no warnings, got:\n%s", scansplit.FormatWarnings(warnings))
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	expected := []string{
		filepath.Join(dir, "1987.06.14 Summer trip 1.png"),
		filepath.Join(dir, "1987.06.14 Summer trip 2.png"),
	}
	for i, record := range records {
		if record.Path != expected[i] {
			t.Errorf("Record %d: expected path %s, got %s", i, expected[i], record.Path)
		}
		if _, err := os.Stat(record.Path); err != nil {
			t.Errorf("Record %d: expected file on disk: %v", i, err)
		}
		if !record.Image.Corrected {
			t.Errorf("Record %d: expected corrected image", i)
		}
		if record.Image.Img != nil {
			t.Errorf("Record %d: expected buffer released after export", i)
		}
		if record.Meta == nil || record.Meta.Title != "Summer trip" {
			t.Errorf("Record %d: expected stamped metadata, got %+v", i, record.Meta)
		}
	}

	if len(writer.requests) != 2 {
		t.Fatalf("Expected 2 tag requests, got %d", len(writer.requests))
	}
	if writer.requests[0].Path != expected[0] {
		t.Errorf("Expected tag request for %s, got %s", expected[0], writer.requests[0].Path)
	}
}

func TestSessionRegionsCached(t *testing.T) {
	scan := testScan(120, 100, model.NewRect(30, 30, 50, 40))
	session := scansplit.FromScan(scan)

	first, err := session.Regions(context.Background())
	if err != nil {
		t.Fatalf("Regions failed: %v", err)
	}
	second, err := session.Regions(context.Background())
	if err != nil {
		t.Fatalf("Regions failed: %v", err)
	}
	if &first[0] != &second[0] {
		t.Error("Expected repeated Regions calls to return the cached sequence")
	}
}

func TestSessionNoRegions(t *testing.T) {
	scan := testScan(100, 100)

	_, err := scansplit.FromScan(scan).Regions(context.Background())
	if !errors.Is(err, detect.ErrNoRegions) {
		t.Errorf("Expected ErrNoRegions, got %v", err)
	}
}

func TestSessionWholeScanFallback(t *testing.T) {
	scan := testScan(100, 80)

	session := scansplit.FromScan(scan).WholeScanFallback()
	regions, err := session.Regions(context.Background())
	if err != nil {
		t.Fatalf("Regions failed: %v", err)
	}

	if len(regions) != 1 {
		t.Fatalf("Expected 1 fallback region, got %d", len(regions))
	}
	if regions[0].Box != scan.Bounds() {
		t.Errorf("Expected whole-scan box %v, got %v", scan.Bounds(), regions[0].Box)
	}

	warnings := session.Warnings()
	if len(warnings) != 1 || warnings[0].Stage != "detect" {
		t.Errorf("Expected one detect warning, got %v", warnings)
	}
}

func TestSessionEdits(t *testing.T) {
	scan := testScan(200, 100,
		model.NewRect(20, 20, 50, 40),
		model.NewRect(120, 25, 60, 40),
	)

	session := scansplit.FromScan(scan).Edit(
		edit.Delete(0),
		edit.Resize(5, 10, 10), // bad index: rejected, batch continues
	)
	regions, err := session.Regions(context.Background())
	if err != nil {
		t.Fatalf("Regions failed: %v", err)
	}

	if len(regions) != 1 {
		t.Fatalf("Expected 1 region after delete, got %d", len(regions))
	}
	warnings := session.Warnings()
	if len(warnings) != 1 || warnings[0].Stage != "edit" {
		t.Errorf("Expected one edit warning, got %v", warnings)
	}
}

func TestSessionChainForksAreIndependent(t *testing.T) {
	scan := testScan(200, 100, model.NewRect(20, 20, 50, 40))
	base := scansplit.FromScan(scan)

	edited := base.Edit(edit.Delete(0))

	regions, err := base.Regions(context.Background())
	if err != nil {
		t.Fatalf("Regions failed: %v", err)
	}
	if len(regions) != 1 {
		t.Errorf("Expected base session unaffected by fork, got %d regions", len(regions))
	}

	editedRegions, err := edited.Regions(context.Background())
	if err != nil {
		t.Fatalf("Regions failed: %v", err)
	}
	if len(editedRegions) != 0 {
		t.Errorf("Expected forked session to apply its edit, got %d regions", len(editedRegions))
	}
}

func TestSessionImagesCropMargin(t *testing.T) {
	scan := testScan(120, 100, model.NewRect(30, 30, 50, 40))

	images, err := scansplit.FromScan(scan).CropMargin(5).Images(context.Background())
	if err != nil {
		t.Fatalf("Images failed: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("Expected 1 image, got %d", len(images))
	}
	if images[0].Width() != 40 || images[0].Height() != 30 {
		t.Errorf("Expected 40x30 after 5px margin, got %dx%d", images[0].Width(), images[0].Height())
	}
}

func TestSessionWorkers(t *testing.T) {
	scan := testScan(220, 220,
		model.NewRect(20, 20, 50, 50),
		model.NewRect(120, 20, 50, 50),
		model.NewRect(20, 120, 50, 50),
		model.NewRect(120, 120, 50, 50),
	)

	images, err := scansplit.FromScan(scan).
		Workers(4).
		Profile(grayProfile(t)).
		Images(context.Background())
	if err != nil {
		t.Fatalf("Images failed: %v", err)
	}
	if len(images) != 4 {
		t.Fatalf("Expected 4 images, got %d", len(images))
	}
	for i, img := range images {
		if !img.Corrected {
			t.Errorf("Image %d: expected corrected", i)
		}
	}
}

func TestSessionRotate(t *testing.T) {
	scan := testScan(120, 100, model.NewRect(30, 30, 50, 40))
	session := scansplit.FromScan(scan).CropMargin(0)

	images, err := session.Images(context.Background())
	if err != nil {
		t.Fatalf("Images failed: %v", err)
	}

	if err := session.Rotate(0, 1); err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if images[0].Rotation != model.Rotate90 {
		t.Errorf("Expected rotation 90°, got %v", images[0].Rotation)
	}
	if images[0].Width() != 40 || images[0].Height() != 50 {
		t.Errorf("Expected 40x50 after quarter turn, got %dx%d", images[0].Width(), images[0].Height())
	}

	// Negative turns rotate back.
	if err := session.Rotate(0, -1); err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if images[0].Rotation != model.Rotate0 {
		t.Errorf("Expected rotation 0°, got %v", images[0].Rotation)
	}

	if err := session.Rotate(9, 1); err == nil {
		t.Error("Expected error for out-of-range index, got nil")
	}
}

func TestSessionRotateBeforeImages(t *testing.T) {
	scan := testScan(120, 100, model.NewRect(30, 30, 50, 40))
	if err := scansplit.FromScan(scan).Rotate(0, 1); err == nil {
		t.Error("Expected error rotating before Images, got nil")
	}
}

func TestSessionTagWriteFailureIsWarning(t *testing.T) {
	scan := testScan(120, 100, model.NewRect(30, 30, 50, 40))
	writer := &recordingTagWriter{err: errors.New("exiftool missing")}
	dir := t.TempDir()

	records, warnings, err := scansplit.FromScan(scan).
		ExportConfig(pngConfig()).
		TagWriter(writer).
		Stamp(time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), "Photo").
		Export(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	// The export itself survives a failed tag write.
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if _, err := os.Stat(records[0].Path); err != nil {
		t.Errorf("Expected exported file on disk: %v", err)
	}

	if len(warnings) != 1 || warnings[0].Stage != "metadata" {
		t.Fatalf("Expected one metadata warning, got %v", warnings)
	}
	var we *metadata.WriteError
	if !errors.As(warnings[0].Err, &we) {
		t.Errorf("Expected WriteError in warning, got %v", warnings[0].Err)
	}
}

func TestSessionExportCustomNamer(t *testing.T) {
	scan := testScan(200, 100,
		model.NewRect(20, 20, 50, 40),
		model.NewRect(120, 25, 60, 40),
	)
	dir := t.TempDir()

	records, _, err := scansplit.FromScan(scan).
		ExportConfig(pngConfig()).
		Export(context.Background(), dir, export.IndexNamer("frame"))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if filepath.Base(records[0].Path) != "frame 1.png" {
		t.Errorf("Expected \"frame 1.png\", got %q", filepath.Base(records[0].Path))
	}
}

func TestLoadMissingFile(t *testing.T) {
	session := scansplit.Load(filepath.Join(t.TempDir(), "absent.tiff"))
	if _, err := session.Regions(context.Background()); err == nil {
		t.Error("Expected error from session over missing file, got nil")
	}
}

func TestMust(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected Must to panic on error")
		}
	}()
	scansplit.Must(0, errors.New("boom"))
}

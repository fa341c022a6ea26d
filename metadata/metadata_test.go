package metadata

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/rinehartj/scansplit/model"
)

func testImage(t *testing.T) *model.CroppedImage {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	scan := model.NewRawScan(img, 300, 300)
	cropped, err := model.NewCroppedImage(model.Region{
		Box:    model.NewRect(0, 0, 10, 10),
		Source: scan,
	}, 0)
	if err != nil {
		t.Fatalf("NewCroppedImage failed: %v", err)
	}
	return cropped
}

func TestAssign(t *testing.T) {
	img := testImage(t)
	ts := time.Date(1987, 6, 14, 0, 0, 0, 0, time.UTC)

	Assign(img, ts, "Summer cottage")

	if img.Meta == nil {
		t.Fatal("Expected metadata to be attached")
	}
	if !img.Meta.Timestamp.Equal(ts) {
		t.Errorf("Expected timestamp %v, got %v", ts, img.Meta.Timestamp)
	}
	if img.Meta.Title != "Summer cottage" {
		t.Errorf("Expected title \"Summer cottage\", got %q", img.Meta.Title)
	}
}

func TestAssignReplaces(t *testing.T) {
	img := testImage(t)
	Assign(img, time.Date(1987, 6, 14, 0, 0, 0, 0, time.UTC), "First")
	Assign(img, time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC), "Second")

	if img.Meta.Title != "Second" {
		t.Errorf("Expected replacement title \"Second\", got %q", img.Meta.Title)
	}
}

func TestTagRequestArgs(t *testing.T) {
	req := NewTagRequest("/photos/1987.06.14 Summer.jpg", model.Metadata{
		Timestamp: time.Date(1987, 6, 14, 0, 0, 0, 0, time.UTC),
		Title:     "Summer",
	})

	expected := []string{
		"-DateTimeOriginal=1987:06:14 00:00:00",
		"-CreateDate=1987:06:14 00:00:00",
		"-ModifyDate=1987:06:14 00:00:00",
		"-Title=Summer",
		"-XPTitle=Summer",
		"-overwrite_original",
		"/photos/1987.06.14 Summer.jpg",
	}

	got := req.Args()
	if len(got) != len(expected) {
		t.Fatalf("Expected %d args, got %d: %v", len(expected), len(got), got)
	}
	for i, want := range expected {
		if got[i] != want {
			t.Errorf("Arg %d: expected %q, got %q", i, want, got[i])
		}
	}
}

func TestTagRequestJSON(t *testing.T) {
	req := NewTagRequest("/out/photo.tiff", model.Metadata{
		Timestamp: time.Date(2001, 12, 24, 15, 30, 0, 0, time.UTC),
		Title:     "Christmas eve",
	})

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	// Timestamps travel as ISO-8601.
	if !strings.Contains(string(data), "2001-12-24T15:30:00Z") {
		t.Errorf("Expected ISO-8601 timestamp in JSON, got %s", data)
	}

	var decoded TagRequest
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Path != req.Path || decoded.Title != req.Title || !decoded.Timestamp.Equal(req.Timestamp) {
		t.Errorf("Expected round-tripped request %+v, got %+v", req, decoded)
	}
}

func TestWriteError(t *testing.T) {
	cause := errors.New("exiftool: not found")
	err := &WriteError{Path: "/out/photo.tiff", Err: cause}

	if !strings.Contains(err.Error(), "/out/photo.tiff") {
		t.Errorf("Expected message to carry the path, got %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to reach the cause through Unwrap")
	}
}

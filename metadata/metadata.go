// Package metadata attaches user metadata to cropped photos and shapes
// the tag-write requests handed to an external embedding tool.
//
// The core never invokes the tool. It emits a TagRequest per exported
// file; the integration (process lookup, invocation, failure
// translation) lives behind the TagWriter interface, outside this
// module. A failed tag write is surfaced as a WriteError but never rolls
// the export back, because the file is already safely on disk.
package metadata

import (
	"context"
	"fmt"
	"time"

	"github.com/rinehartj/scansplit/model"
)

// exifTimeLayout is the timestamp form EXIF date tags expect.
const exifTimeLayout = "2006:01:02 15:04:05"

// Assign attaches a (timestamp, title) pair to img. It is pure data
// attachment with no I/O; assigning again replaces the previous pair.
func Assign(img *model.CroppedImage, timestamp time.Time, title string) {
	img.Meta = &model.Metadata{Timestamp: timestamp, Title: title}
}

// TagRequest is the message emitted for the external metadata tool: one
// finished file and the tags to embed in it.
type TagRequest struct {
	// Path is the exported file the tags belong to.
	Path string `json:"path"`

	// Timestamp is the capture date to embed. Serialized as ISO-8601 in
	// JSON and EXIF form in Args.
	Timestamp time.Time `json:"timestamp"`

	// Title is the user-assigned photo title.
	Title string `json:"title"`
}

// NewTagRequest builds the tag-write request for an exported file.
func NewTagRequest(path string, meta model.Metadata) *TagRequest {
	return &TagRequest{
		Path:      path,
		Timestamp: meta.Timestamp,
		Title:     meta.Title,
	}
}

// Args renders the request as an exiftool-style argument vector: the
// three EXIF date tags, the title tags, and the path. Integrations that
// shell out to exiftool can pass it through unchanged.
func (r *TagRequest) Args() []string {
	date := r.Timestamp.Format(exifTimeLayout)
	return []string{
		"-DateTimeOriginal=" + date,
		"-CreateDate=" + date,
		"-ModifyDate=" + date,
		"-Title=" + r.Title,
		"-XPTitle=" + r.Title,
		"-overwrite_original",
		r.Path,
	}
}

// TagWriter is the boundary to the external embedding tool.
// Implementations live outside the core.
type TagWriter interface {
	// WriteTags embeds the requested tags into the file at request.Path.
	WriteTags(ctx context.Context, request *TagRequest) error
}

// WriteError reports a failed tag write. It is non-fatal: the exported
// file stays on disk and the failure is only surfaced to the caller.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("metadata: writing tags for %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying tool error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// Package export serializes finished photos to disk.
//
// Writes are atomic: the image is encoded to a hidden temporary file in
// the target directory, synced, and renamed into place. A failed export
// removes the temporary and never leaves a partial file at the requested
// path. Collision handling is policy: reject, or auto-suffix the way the
// scanning workflow numbers repeat prints.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/rinehartj/scansplit/model"
)

// CollisionPolicy decides what happens when the target path already
// exists.
type CollisionPolicy int

const (
	// AutoSuffix appends " 2", " 3", ... before the extension until a
	// free path is found.
	AutoSuffix CollisionPolicy = iota
	// Reject fails the export and leaves the existing file untouched.
	Reject
)

// String returns the policy name.
func (p CollisionPolicy) String() string {
	switch p {
	case AutoSuffix:
		return "auto-suffix"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// Config holds exporter configuration.
type Config struct {
	// Format selects the output encoding.
	Format Format

	// JPEGQuality applies when Format is JPEG.
	JPEGQuality int

	// Collision selects the behavior when the target path exists.
	Collision CollisionPolicy
}

// DefaultConfig returns the default exporter configuration.
func DefaultConfig() Config {
	return Config{
		Format:      TIFF,
		JPEGQuality: 98,
		Collision:   AutoSuffix,
	}
}

// IOError reports a failed export. The wrapped cause is reachable with
// errors.Is, so fs.ErrExist distinguishes a collision rejection from a
// write failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("export: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *IOError) Unwrap() error {
	return e.Err
}

// Record is the terminal account of one export: where the file went and
// what was written. Records are never mutated after creation.
type Record struct {
	// Path is the final file path, after collision resolution.
	Path string

	// Image is the cropped photo that was serialized.
	Image *model.CroppedImage

	// Meta is the metadata attached at export time, nil when none.
	Meta *model.Metadata

	// Format is the encoding actually used.
	Format Format
}

// Exporter writes finished photos to files.
type Exporter struct {
	config Config
}

// NewExporter creates an exporter with default configuration.
func NewExporter() *Exporter {
	return NewExporterWithConfig(DefaultConfig())
}

// NewExporterWithConfig creates an exporter with custom configuration.
func NewExporterWithConfig(config Config) *Exporter {
	return &Exporter{config: config}
}

// Config returns the exporter configuration.
func (e *Exporter) Config() Config {
	return e.config
}

// Export serializes img to path (extension replaced to match the
// configured format) and returns the terminal record. Parent directories
// are created. On any failure the target path is left exactly as it was.
func (e *Exporter) Export(ctx context.Context, img *model.CroppedImage, path string) (*Record, error) {
	if img == nil || img.Img == nil {
		return nil, &IOError{Op: "export", Path: path, Err: errors.New("image buffer already released")}
	}

	final, err := e.WriteImage(ctx, img.Img, path)
	if err != nil {
		return nil, err
	}

	return &Record{
		Path:   final,
		Image:  img,
		Meta:   img.Meta,
		Format: e.config.Format,
	}, nil
}

// WriteImage atomically writes any image to path using the configured
// format and collision policy, returning the final path. Export and the
// keep-original-scan option both funnel through here.
func (e *Exporter) WriteImage(ctx context.Context, img image.Image, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &IOError{Op: "export", Path: path, Err: err}
	}

	path = withExtension(path, e.config.Format.Extension())
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &IOError{Op: "mkdir", Path: dir, Err: err}
	}

	final, err := e.resolveCollision(path)
	if err != nil {
		return "", err
	}

	// Encode into a hidden temporary in the same directory so the final
	// rename cannot cross filesystems.
	tmp := filepath.Join(dir, "."+uuid.NewString()+".tmp")
	if err := e.writeTemp(tmp, img); err != nil {
		os.Remove(tmp)
		return "", &IOError{Op: "write", Path: final, Err: err}
	}

	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", &IOError{Op: "rename", Path: final, Err: err}
	}
	return final, nil
}

func (e *Exporter) writeTemp(tmp string, img image.Image) error {
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	if err := encode(f, img, e.config.Format, e.config.JPEGQuality); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// resolveCollision applies the collision policy to path and returns the
// path to actually write.
func (e *Exporter) resolveCollision(path string) (string, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return path, nil
	}

	if e.config.Collision == Reject {
		return "", &IOError{Op: "export", Path: path, Err: fs.ErrExist}
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s %d%s", base, n, ext)
		if _, err := os.Stat(candidate); errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
	}
}

// withExtension swaps any existing extension on path for ext.
func withExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

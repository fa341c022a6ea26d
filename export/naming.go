package export

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/rinehartj/scansplit/model"
)

// Namer derives an output filename, without extension, for the region at
// index out of total exports. Filename policy belongs to the caller; the
// exporter only appends the format extension and resolves collisions.
type Namer func(index, total int, meta *model.Metadata) string

// DateTitleNamer is the stock policy: "YYYY.MM.DD Title N", with the
// date taken from the metadata timestamp and N a 1-based counter that is
// omitted when only a single region is exported. Images without metadata
// fall back to "scan N".
func DateTitleNamer() Namer {
	return func(index, total int, meta *model.Metadata) string {
		var parts []string
		if meta != nil {
			if !meta.Timestamp.IsZero() {
				parts = append(parts, meta.Timestamp.Format("2006.01.02"))
			}
			if title := strings.TrimSpace(meta.Title); title != "" {
				parts = append(parts, title)
			}
		}
		if len(parts) == 0 {
			parts = append(parts, "scan")
		}
		if total > 1 {
			parts = append(parts, fmt.Sprintf("%d", index+1))
		}
		return SanitizeFilename(strings.Join(parts, " "))
	}
}

// IndexNamer names files "prefix N" with a 1-based counter.
func IndexNamer(prefix string) Namer {
	return func(index, total int, meta *model.Metadata) string {
		return SanitizeFilename(fmt.Sprintf("%s %d", prefix, index+1))
	}
}

// stripMarks removes combining marks after NFD decomposition, then
// recomposes, so accented titles survive as plain ASCII-ish filenames.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeFilename makes name safe to use as a single path element:
// combining marks are stripped, path separators and other hostile
// characters become hyphens, and leading/trailing dots and spaces are
// trimmed.
func SanitizeFilename(name string) string {
	if normalized, _, err := transform.String(stripMarks, name); err == nil {
		name = normalized
	}

	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if r < 0x20 {
			return '-'
		}
		return r
	}, name)

	name = strings.Trim(name, " .")
	if name == "" {
		return "scan"
	}
	return name
}

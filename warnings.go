package scansplit

import (
	"fmt"
	"strings"
)

// Warning reports a non-fatal event encountered while processing a scan:
// a rejected edit, a whole-scan fallback, a failed tag write, or a
// single region failing while its siblings carry on.
type Warning struct {
	// Stage names the pipeline stage that produced the warning
	// ("detect", "edit", "process", "export", "metadata").
	Stage string

	// Region is the index of the affected region, or -1 when the
	// warning is not tied to one region.
	Region int

	// Message is a short human-readable description.
	Message string

	// Err is the underlying error, when there is one.
	Err error
}

// String formats the warning for display.
func (w Warning) String() string {
	var b strings.Builder
	b.WriteString(w.Stage)
	if w.Region >= 0 {
		fmt.Fprintf(&b, " (region %d)", w.Region)
	}
	b.WriteString(": ")
	b.WriteString(w.Message)
	if w.Err != nil {
		fmt.Fprintf(&b, ": %v", w.Err)
	}
	return b.String()
}

// FormatWarnings renders a warning list as one line per warning,
// suitable for logging.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

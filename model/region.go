package model

import "fmt"

// Provenance records how a region came to exist.
type Provenance int

const (
	// ProvenanceAuto marks a region produced by automatic detection.
	ProvenanceAuto Provenance = iota
	// ProvenanceManual marks a region created or adjusted by a user.
	ProvenanceManual
)

// String returns the provenance as "auto" or "manual".
func (p Provenance) String() string {
	switch p {
	case ProvenanceAuto:
		return "auto"
	case ProvenanceManual:
		return "manual"
	default:
		return fmt.Sprintf("provenance(%d)", int(p))
	}
}

// Region is a rectangular sub-area of a RawScan believed to contain one
// photograph. Box is expressed in the pixel coordinates of Source.
type Region struct {
	Box        Rect
	Source     *RawScan
	Provenance Provenance
}

// Validate checks the region invariants: a positive-area box lying fully
// inside the source scan. index identifies the region in error messages;
// pass -1 when the position is not meaningful.
func (r Region) Validate(index int) error {
	if r.Source == nil {
		return &InvalidRegionError{Index: index, Box: r.Box, Reason: "no source scan"}
	}
	bounds := r.Source.Bounds()
	if !r.Box.IsValid() {
		return &InvalidRegionError{Index: index, Box: r.Box, Bounds: bounds, Reason: "zero or negative area"}
	}
	if !bounds.ContainsRect(r.Box) {
		return &InvalidRegionError{Index: index, Box: r.Box, Bounds: bounds, Reason: "outside scan bounds"}
	}
	return nil
}

// InvalidRegionError reports a region whose geometry violates the scan
// bounds or the positive-area invariant.
type InvalidRegionError struct {
	Index  int // position in the working sequence, -1 when unknown
	Box    Rect
	Bounds Rect
	Reason string
}

func (e *InvalidRegionError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("model: invalid region %d (%s in %s): %s", e.Index, e.Box, e.Bounds, e.Reason)
	}
	return fmt.Sprintf("model: invalid region (%s in %s): %s", e.Box, e.Bounds, e.Reason)
}

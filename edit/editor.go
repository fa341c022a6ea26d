// Package edit applies user adjustments to a detected region sequence.
//
// Edits arrive as an ordered command list (the shape a crop-handle UI
// naturally produces) and are applied one at a time. A command that
// would leave a region invalid is rejected and reported; the sequence
// keeps its previous state and the rest of the batch still runs.
package edit

import (
	"fmt"

	"github.com/rinehartj/scansplit/model"
)

// Op identifies a region edit command.
type Op int

const (
	// OpMove repositions a region, keeping its size.
	OpMove Op = iota
	// OpResize changes a region's size, keeping its position.
	OpResize
	// OpAdd appends a new manual region.
	OpAdd
	// OpDelete removes a region.
	OpDelete
)

// String returns the op name.
func (o Op) String() string {
	switch o {
	case OpMove:
		return "move"
	case OpResize:
		return "resize"
	case OpAdd:
		return "add"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Edit is one user command against the working region sequence.
type Edit struct {
	// Op selects the command.
	Op Op

	// Index is the target region for Move, Resize and Delete, counted in
	// the sequence as it stands when the edit is applied.
	Index int

	// Box carries the new position for Move (size ignored), the new size
	// for Resize (position ignored), or the full box for Add. An Add
	// with a zero box becomes the whole scan bed.
	Box model.Rect
}

// Move builds a move command.
func Move(index, x, y int) Edit {
	return Edit{Op: OpMove, Index: index, Box: model.Rect{X: x, Y: y}}
}

// Resize builds a resize command.
func Resize(index, width, height int) Edit {
	return Edit{Op: OpResize, Index: index, Box: model.Rect{Width: width, Height: height}}
}

// Add builds an add command. A zero box adds a region covering the whole
// scan bed.
func Add(box model.Rect) Edit {
	return Edit{Op: OpAdd, Box: box}
}

// Delete builds a delete command.
func Delete(index int) Edit {
	return Edit{Op: OpDelete, Index: index}
}

// RejectedEdit reports one command that was refused. Position is the
// command's place in the submitted batch.
type RejectedEdit struct {
	Position int
	Edit     Edit
	Err      error
}

// Editor validates and applies edit commands against the regions of one
// scan.
type Editor struct {
	scan *model.RawScan
}

// NewEditor creates an editor for regions detected on scan.
func NewEditor(scan *model.RawScan) *Editor {
	return &Editor{scan: scan}
}

// Apply runs edits, in order, against regions and returns the resulting
// sequence plus the commands that were rejected. The input slice is not
// modified. Geometric edits are clamped to the scan bounds first; an
// edit whose clamped result is still invalid is rejected outright rather
// than silently corrected, so a region only ever disappears through an
// explicit Delete. Every region a user touches becomes provenance
// manual.
func (e *Editor) Apply(regions []model.Region, edits []Edit) ([]model.Region, []RejectedEdit) {
	working := append([]model.Region(nil), regions...)
	var rejected []RejectedEdit

	reject := func(pos int, ed Edit, err error) {
		rejected = append(rejected, RejectedEdit{Position: pos, Edit: ed, Err: err})
	}

	for pos, ed := range edits {
		switch ed.Op {
		case OpMove, OpResize:
			if ed.Index < 0 || ed.Index >= len(working) {
				reject(pos, ed, fmt.Errorf("edit: %s: no region at index %d", ed.Op, ed.Index))
				continue
			}

			box := working[ed.Index].Box
			if ed.Op == OpMove {
				box.X, box.Y = ed.Box.X, ed.Box.Y
			} else {
				box.Width, box.Height = ed.Box.Width, ed.Box.Height
			}

			candidate := model.Region{
				Box:        box.Clamp(e.scan.Bounds()),
				Source:     e.scan,
				Provenance: model.ProvenanceManual,
			}
			if err := candidate.Validate(ed.Index); err != nil {
				reject(pos, ed, err)
				continue
			}
			working[ed.Index] = candidate

		case OpAdd:
			box := ed.Box
			if box.IsEmpty() && box.X == 0 && box.Y == 0 {
				// The zero box is the "add a region" default: the whole
				// scan bed, to be dragged into place afterward.
				box = e.scan.Bounds()
			} else {
				box = box.Clamp(e.scan.Bounds())
			}

			candidate := model.Region{
				Box:        box,
				Source:     e.scan,
				Provenance: model.ProvenanceManual,
			}
			if err := candidate.Validate(len(working)); err != nil {
				reject(pos, ed, err)
				continue
			}
			working = append(working, candidate)

		case OpDelete:
			if ed.Index < 0 || ed.Index >= len(working) {
				reject(pos, ed, fmt.Errorf("edit: delete: no region at index %d", ed.Index))
				continue
			}
			working = append(working[:ed.Index], working[ed.Index+1:]...)

		default:
			reject(pos, ed, fmt.Errorf("edit: unknown op %d", int(ed.Op)))
		}
	}

	return working, rejected
}

package model

import "fmt"

// Rotation is the orientation of a cropped image relative to how it was
// scanned, in clockwise quarter turns. The state is cyclic: four turns in
// either direction return to Rotate0.
type Rotation int

const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

const rotationStates = 4

// Clockwise returns the state after one 90° clockwise turn.
func (r Rotation) Clockwise() Rotation {
	return (r + 1) % rotationStates
}

// CounterClockwise returns the state after one 90° counter-clockwise turn.
func (r Rotation) CounterClockwise() Rotation {
	return (r + rotationStates - 1) % rotationStates
}

// Degrees returns the clockwise rotation angle: 0, 90, 180 or 270.
func (r Rotation) Degrees() int {
	return int(r) * 90
}

// Swapped reports whether the rotation exchanges width and height.
func (r Rotation) Swapped() bool {
	return r == Rotate90 || r == Rotate270
}

// String returns the rotation as "90°" style text.
func (r Rotation) String() string {
	return fmt.Sprintf("%d°", r.Degrees())
}

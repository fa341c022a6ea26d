// Package model defines the value types shared by every stage of the
// scan-splitting pipeline.
//
// The central types mirror the life of a photograph on the scan bed:
//
//   - [RawScan] - the captured bitmap plus its physical scan parameters
//   - [Region] - a rectangle believed to contain one photograph
//   - [CroppedImage] - a region materialized into an owned pixel buffer
//   - [Metadata] - the (timestamp, title) pair embedded on export
//
// # Ownership
//
// A RawScan is read-only shared input: detection classifies its pixels in
// place and cropping copies them out, but nothing mutates the scan after
// construction. A CroppedImage, by contrast, is exclusively owned by the
// stage holding it; white-balance correction and rotation replace its
// buffer and update its state, and the buffer is released after export.
//
// # Geometry
//
// [Rect] is an integer pixel rectangle with the origin at the top-left
// corner, matching the coordinate system scanners report. Right and
// Bottom edges are exclusive, so a Rect converts cleanly to the half-open
// rectangles used by the image package.
package model

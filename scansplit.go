// Package scansplit provides a fluent API for splitting a flatbed scan
// holding several photographs into individually cropped, color-corrected,
// correctly oriented image files.
//
// Basic usage:
//
//	records, warnings, err := scansplit.Load("scan.tiff").Export(ctx, "out", nil)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", scansplit.FormatWarnings(warnings))
//	}
//
// With calibration and metadata:
//
//	profile, err := whitebalance.LoadProfile("profile.json")
//	if err != nil {
//	    // handle error
//	}
//	records, warnings, err := scansplit.Load("scan.tiff").
//	    Profile(profile).
//	    Stamp(captureDate, "Summer cottage").
//	    Export(ctx, "out", nil)
//
// For finer control the stage packages (detect, edit, whitebalance,
// rotate, metadata, export) are also available directly.
package scansplit

import (
	"github.com/rinehartj/scansplit/model"
	"github.com/rinehartj/scansplit/scanio"
)

// FromScan starts a session over an already-acquired scan.
//
// Example:
//
//	scan := model.NewRawScan(img, 300, 300)
//	regions, err := scansplit.FromScan(scan).Regions(ctx)
func FromScan(scan *model.RawScan) *Session {
	return &Session{
		scan:    scan,
		options: defaultSessionOptions(),
	}
}

// Load starts a session over a scan file saved by the acquisition
// layer. The file is read immediately; a read failure surfaces from the
// first stage method called on the session.
//
// Example:
//
//	records, warnings, err := scansplit.Load("scan.tiff").Export(ctx, "out", nil)
func Load(filename string) *Session {
	scan, err := scanio.Read(filename)
	return &Session{
		scan:    scan,
		options: defaultSessionOptions(),
		err:     err,
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	regions := scansplit.Must(scansplit.FromScan(scan).Regions(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

package scansplit

import (
	"time"

	"github.com/rinehartj/scansplit/detect"
	"github.com/rinehartj/scansplit/edit"
	"github.com/rinehartj/scansplit/export"
	"github.com/rinehartj/scansplit/metadata"
	"github.com/rinehartj/scansplit/model"
	"github.com/rinehartj/scansplit/whitebalance"
)

// sessionOptions holds the configuration accumulated by the fluent
// chain.
type sessionOptions struct {
	detectConfig detect.Config
	exportConfig export.Config

	// cropMargin is the pixel inset applied when regions are cropped.
	cropMargin int

	// workers bounds the per-region processing concurrency.
	workers int

	// wholeScanFallback turns an empty detection into one full-bed
	// region instead of an error.
	wholeScanFallback bool

	// profile, when set, is applied to every cropped region.
	profile *whitebalance.Profile

	// tagWriter, when set, receives a tag-write request per export.
	tagWriter metadata.TagWriter

	// stamp, when set, is assigned to every cropped region.
	stamp *model.Metadata

	// pendingEdits are applied to the detected regions, in order.
	pendingEdits []edit.Edit
}

// defaultSessionOptions returns the default session configuration.
func defaultSessionOptions() sessionOptions {
	return sessionOptions{
		detectConfig: detect.DefaultConfig(),
		exportConfig: export.DefaultConfig(),
		cropMargin:   5,
		workers:      1,
	}
}

// clone creates a deep copy of sessionOptions so each chain method
// returns an independent instance.
func (o sessionOptions) clone() sessionOptions {
	newOpts := o
	if o.pendingEdits != nil {
		newOpts.pendingEdits = make([]edit.Edit, len(o.pendingEdits))
		copy(newOpts.pendingEdits, o.pendingEdits)
	}
	if o.stamp != nil {
		stamp := *o.stamp
		newOpts.stamp = &stamp
	}
	return newOpts
}

// newStamp builds the metadata value assigned by Stamp.
func newStamp(timestamp time.Time, title string) *model.Metadata {
	return &model.Metadata{Timestamp: timestamp, Title: title}
}

// Package detect finds the individual photographs on a flatbed scan.
//
// Detection classifies every pixel as scan-bed background or photo
// foreground, labels the connected foreground components, and turns the
// surviving components into ordered Regions:
//
//	detector := detect.NewDetector()
//	regions, err := detector.Detect(ctx, scan)
//	if errors.Is(err, detect.ErrNoRegions) {
//	    // fall back to the whole scan as one region, if desired
//	}
//
// The background reference is sampled from the border bands of the scan,
// so both near-white and near-black scanner lids work without
// configuration. All of the policy constants (threshold, minimum photo
// area, merge tolerance) live in Config.
package detect

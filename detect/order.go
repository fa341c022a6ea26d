package detect

import (
	"sort"

	"github.com/rinehartj/scansplit/model"
)

// rowOverlapRatio is the vertical overlap above which two boxes are
// considered to sit in the same row of the scan bed.
const rowOverlapRatio = 0.5

// orderBoxes sorts boxes into top-left reading order:
// boxes in the same horizontal row go left to right, rows go top to
// bottom. Photos on a scan bed rarely align exactly, so "same row" means
// substantial vertical overlap rather than equal Y.
func orderBoxes(boxes []model.Rect) {
	sort.SliceStable(boxes, func(i, j int) bool {
		bi, bj := boxes[i], boxes[j]

		if sameRow(bi, bj) {
			return bi.X < bj.X
		}
		if bi.Y != bj.Y {
			return bi.Y < bj.Y
		}
		return bi.X < bj.X
	})
}

// sameRow reports whether the vertical extents of a and b overlap by more
// than rowOverlapRatio of the shorter box.
func sameRow(a, b model.Rect) bool {
	top := a.Top()
	if b.Top() > top {
		top = b.Top()
	}
	bottom := a.Bottom()
	if b.Bottom() < bottom {
		bottom = b.Bottom()
	}
	overlap := bottom - top
	if overlap <= 0 {
		return false
	}

	shorter := a.Height
	if b.Height < shorter {
		shorter = b.Height
	}
	if shorter == 0 {
		return false
	}
	return float64(overlap)/float64(shorter) > rowOverlapRatio
}

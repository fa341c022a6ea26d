package detect

import (
	"context"
	"image"

	"github.com/rinehartj/scansplit/model"
)

// foreground is the mask value produced by binary thresholding.
const foreground = 255

// component is one connected blob of foreground pixels.
type component struct {
	box    model.Rect
	pixels int
}

// findComponents labels the 4-connected foreground components of mask
// using an iterative flood fill. Cancellation is checked before each new
// component is traced; a cancelled pass returns without a partial result.
func findComponents(ctx context.Context, mask *image.Gray) ([]component, error) {
	w := mask.Rect.Dx()
	h := mask.Rect.Dy()
	visited := make([]bool, w*h)

	var components []component
	stack := make([]model.Point, 0, 256)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if visited[y*w+x] || mask.GrayAt(x, y).Y != foreground {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			// Flood fill one component with an explicit stack; scans are
			// large enough that recursion would overflow.
			minX, minY := x, y
			maxX, maxY := x, y
			pixels := 0

			visited[y*w+x] = true
			stack = append(stack[:0], model.Point{X: x, Y: y})

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				pixels++

				if p.X < minX {
					minX = p.X
				}
				if p.X > maxX {
					maxX = p.X
				}
				if p.Y < minY {
					minY = p.Y
				}
				if p.Y > maxY {
					maxY = p.Y
				}

				neighbors := [4]model.Point{
					{X: p.X - 1, Y: p.Y},
					{X: p.X + 1, Y: p.Y},
					{X: p.X, Y: p.Y - 1},
					{X: p.X, Y: p.Y + 1},
				}
				for _, n := range neighbors {
					if n.X < 0 || n.X >= w || n.Y < 0 || n.Y >= h {
						continue
					}
					if visited[n.Y*w+n.X] || mask.GrayAt(n.X, n.Y).Y != foreground {
						continue
					}
					visited[n.Y*w+n.X] = true
					stack = append(stack, n)
				}
			}

			components = append(components, component{
				box:    model.NewRect(minX, minY, maxX-minX+1, maxY-minY+1),
				pixels: pixels,
			})
		}
	}

	return components, nil
}

// mergeBoxes repeatedly unions any two boxes whose overlap exceeds
// overlapRatio until no pair qualifies. A photo cut in two by a thin
// background-colored scratch produces boxes that overlap heavily and
// collapse back into one here.
func mergeBoxes(boxes []model.Rect, overlapRatio float64) []model.Rect {
	if len(boxes) < 2 {
		return boxes
	}

	merged := true
	for merged {
		merged = false
		for i := 0; i < len(boxes) && !merged; i++ {
			for j := i + 1; j < len(boxes); j++ {
				if boxes[i].OverlapRatio(boxes[j]) <= overlapRatio {
					continue
				}
				boxes[i] = boxes[i].Union(boxes[j])
				boxes = append(boxes[:j], boxes[j+1:]...)
				merged = true
				break
			}
		}
	}
	return boxes
}

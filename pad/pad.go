package pad

import (
	"fmt"
	"math"

	"github.com/padchart/stepgraph/step"
)

// Data is the fully-resolved, immutable description of a pad layout: its
// identifier, lane count, per-arrow geometry/pairing tables, and the
// maximum separation two bracketed arrows may have. Built once via New and
// never mutated afterward; safe to share across goroutines.
type Data struct {
	name                 string
	arrows               []*ArrowData
	maxBracketSeparation float64
}

// New resolves a pad identifier and a list of per-arrow inputs into an
// immutable Data. Lane, MirroredLane, and FlippedLane are assigned here:
// Lane is simply the input order; MirroredLane/FlippedLane are resolved by
// matching X/Y coordinates against a left-right mirror and an up-down flip
// of the layout, which is how the source renders a "mirror" chart modifier
// without needing a second hand-authored table.
func New(name string, arrows []ArrowInput, maxBracketSeparation float64) (*Data, error) {
	if len(arrows) == 0 {
		return nil, fmt.Errorf("pad %q: at least one arrow is required", name)
	}

	resolved := make([]*ArrowData, len(arrows))
	for i, in := range arrows {
		resolved[i] = newArrowData(in)
		resolved[i].Lane = i
	}

	minX, maxX := resolved[0].X, resolved[0].X
	minY, maxY := resolved[0].Y, resolved[0].Y
	for _, a := range resolved {
		minX, maxX = math.Min(minX, a.X), math.Max(maxX, a.X)
		minY, maxY = math.Min(minY, a.Y), math.Max(maxY, a.Y)
	}

	for _, a := range resolved {
		mirroredX := minX + maxX - a.X
		flippedY := minY + maxY - a.Y
		a.MirroredLane = findLane(resolved, mirroredX, a.Y, a.Lane)
		a.FlippedLane = findLane(resolved, a.X, flippedY, a.Lane)
	}

	for _, a := range resolved {
		a.ValidNextArrows = reachableLanes(a)
	}

	return &Data{name: name, arrows: resolved, maxBracketSeparation: maxBracketSeparation}, nil
}

func findLane(arrows []*ArrowData, x, y float64, fallback int) int {
	const eps = 1e-6
	for _, a := range arrows {
		if math.Abs(a.X-x) < eps && math.Abs(a.Y-y) < eps {
			return a.Lane
		}
	}
	return fallback
}

func reachableLanes(a *ArrowData) []int {
	seen := make(map[int]bool)
	for f := 0; f < step.NumFeet; f++ {
		for lane := range a.AnyReachable(step.Foot(f)) {
			seen[lane] = true
		}
	}
	out := make([]int, 0, len(seen))
	for lane := range seen {
		out = append(out, lane)
	}
	return out
}

// Name returns the pad identifier string (e.g. "dance-single").
func (d *Data) Name() string { return d.name }

// NumArrows returns the number of lanes on this layout.
func (d *Data) NumArrows() int { return len(d.arrows) }

// Arrow returns the ArrowData for lane, or nil if out of range.
func (d *Data) Arrow(lane int) *ArrowData {
	if lane < 0 || lane >= len(d.arrows) {
		return nil
	}
	return d.arrows[lane]
}

// MaxBracketSeparation is the farthest distance (in Distance units) two
// bracketed arrows may be apart and still form an ordinary bracket; a
// bracket whose arrows are farther apart counts as a stretch bracket. Zero
// disables the distance check.
func (d *Data) MaxBracketSeparation() float64 {
	return d.maxBracketSeparation
}

// Distance estimates the physical cost of moving a foot between two points
// on the pad. Y-displacement (front/back) is cheaper than X-displacement
// (left/right) because a foot is longer than it is wide, so front-back
// reach is easier than side-to-side reach for the same raw distance.
func (d *Data) Distance(x1, y1, x2, y2 float64) float64 {
	const yCostFactor = 0.5
	dx := x2 - x1
	dy := (y2 - y1) * yCostFactor
	return math.Sqrt(dx*dx + dy*dy)
}

// ArrowDistance is a convenience wrapper around Distance for two lanes on
// this layout.
func (d *Data) ArrowDistance(laneA, laneB int) float64 {
	a, b := d.Arrow(laneA), d.Arrow(laneB)
	if a == nil || b == nil {
		return math.Inf(1)
	}
	return d.Distance(a.X, a.Y, b.X, b.Y)
}

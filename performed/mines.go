package performed

import (
	"math/rand"

	"github.com/padchart/stepgraph/expressed"
	"github.com/padchart/stepgraph/graph"
	"github.com/padchart/stepgraph/mineutils"
	"github.com/padchart/stepgraph/step"
)

// holdInterval is one settled hold's span on an arrow, from the hold's
// start to its release, used to decide whether a mine's position falls
// under an outstanding hold.
type holdInterval struct {
	arrow      int
	start, end int
}

// placeMines resolves every source ExpressedChart MineEvent against the
// settled PerformedChart step chain. A mine that cannot be associated at
// all (every candidate lane occupied) is dropped rather than failing the
// chart — this module carries no logging package (see DESIGN.md), so the
// drop is silent rather than warned.
func placeMines(g *graph.Graph, steps []StepNode, source []expressed.MineEvent, rng *rand.Rand) []Mine {
	numArrows := g.Pad.NumArrows()
	chain := make([]mineutils.ChainEntry, len(steps))
	for i, sn := range steps {
		chain[i] = mineutils.ChainEntry{Position: sn.Position, Node: sn.Node, Link: sn.Link}
	}
	_, stepEvents := mineutils.ReleasesAndSteps(chain, numArrows)
	holds := buildHoldIntervals(chain)

	claimed := make(map[int]map[int]bool)
	claim := func(pos, arrow int) {
		if claimed[pos] == nil {
			claimed[pos] = make(map[int]bool)
		}
		claimed[pos][arrow] = true
	}
	isClaimed := func(pos, arrow int) bool {
		return claimed[pos] != nil && claimed[pos][arrow]
	}

	var mines []Mine
	for _, src := range source {
		src := src
		isFree := func(arrow int) bool {
			if isClaimed(src.Position, arrow) {
				return false
			}
			if stepCoversPosition(chain, arrow, src.Position) {
				return false
			}
			if holdCoversPosition(holds, arrow, src.Position) {
				return false
			}
			return true
		}

		arrow, ok := resolveMinePlacement(src, stepEvents, isFree, rng, numArrows)
		if !ok {
			continue
		}
		claim(src.Position, arrow)
		mines = append(mines, Mine{Position: src.Position, Time: src.Time, Lane: arrow})
	}
	return mines
}

// resolveMinePlacement implements the placement chain for one mine: an AfterArrow/BeforeArrow mine first tries its
// recorded Nth-most-recent (or soonest, for BeforeArrow) arrow for the
// paired foot, stepping outward through MineUtils.BestNth; a NoArrow mine
// keeps its original lane if free; and anything that fails falls back to
// any free lane chosen at random.
func resolveMinePlacement(src expressed.MineEvent, steps []mineutils.Event, isFree func(int) bool, rng *rand.Rand, numArrows int) (int, bool) {
	switch src.Association {
	case expressed.AfterArrow:
		if arrow, _, ok := bestNth(steps, src.NthClosest, src.FootPaired, src.Position, mineutils.Backward, isFree, rng); ok {
			return arrow, true
		}
	case expressed.BeforeArrow:
		if arrow, _, ok := bestNth(steps, src.NthClosest, src.FootPaired, src.Position, mineutils.Forward, isFree, rng); ok {
			return arrow, true
		}
	case expressed.NoArrow:
		if isFree(src.OriginalLane) {
			return src.OriginalLane, true
		}
	}
	return randomFreeLane(numArrows, isFree, rng)
}

// bestNth extends mineutils.BestNth (which only searches backward) to a
// Forward direction by negating every position: "earlier than" in negated
// space is exactly "later than" in the original space, so BestNth's own
// depth-stepping and tie-breaking apply unchanged.
func bestNth(events []mineutils.Event, desiredN int, desiredFoot step.Foot, fromPosition int, dir mineutils.Direction, isFree func(int) bool, rng *rand.Rand) (int, step.Foot, bool) {
	if dir == mineutils.Backward {
		return mineutils.BestNth(events, desiredN, desiredFoot, fromPosition, isFree, rng)
	}
	mirrored := make([]mineutils.Event, len(events))
	for i, e := range events {
		mirrored[i] = mineutils.Event{Position: -e.Position, Arrow: e.Arrow, Foot: e.Foot}
	}
	return mineutils.BestNth(mirrored, desiredN, desiredFoot, -fromPosition, isFree, rng)
}

func randomFreeLane(numArrows int, isFree func(int) bool, rng *rand.Rand) (int, bool) {
	var free []int
	for a := 0; a < numArrows; a++ {
		if isFree(a) {
			free = append(free, a)
		}
	}
	if len(free) == 0 {
		return 0, false
	}
	return free[rng.Intn(len(free))], true
}

// buildHoldIntervals diffs the settled chain into per-arrow hold spans,
// used by holdCoversPosition to reject a mine landing strictly between a
// hold's start and its release (the start position itself is covered by
// stepCoversPosition).
func buildHoldIntervals(chain []mineutils.ChainEntry) []holdInterval {
	active := make(map[int]int)
	var holds []holdInterval
	for _, entry := range chain {
		for f := step.Foot(0); f < step.NumFeet; f++ {
			for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
				cell := entry.Link[f][pp]
				if !cell.Valid {
					continue
				}
				arrow := entry.Node.Matrix[f][pp].Arrow
				switch cell.Action {
				case step.Hold:
					active[arrow] = entry.Position
				case step.Release:
					if start, ok := active[arrow]; ok {
						holds = append(holds, holdInterval{arrow: arrow, start: start, end: entry.Position})
						delete(active, arrow)
					}
				}
			}
		}
	}
	return holds
}

func holdCoversPosition(holds []holdInterval, arrow, position int) bool {
	for _, h := range holds {
		if h.arrow == arrow && position > h.start && position < h.end {
			return true
		}
	}
	return false
}

// stepCoversPosition reports whether some foot's acting (non-Release) cell
// lands on arrow exactly at position.
func stepCoversPosition(chain []mineutils.ChainEntry, arrow, position int) bool {
	for _, entry := range chain {
		if entry.Position != position {
			continue
		}
		for f := step.Foot(0); f < step.NumFeet; f++ {
			for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
				cell := entry.Link[f][pp]
				if cell.Valid && cell.Action != step.Release && entry.Node.Matrix[f][pp].Arrow == arrow {
					return true
				}
			}
		}
	}
	return false
}

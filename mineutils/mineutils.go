// Package mineutils implements the mine-placement logic shared between
// ExpressedChart and PerformedChart: turning a settled step chain
// into release/step event lists, measuring how far back (or forward) an
// arrow was last (or will next be) stepped on, and picking the best
// Nth-most-recent arrow for a mine that wants to be associated with a
// particular foot's prior step.
//
// The core operation is a single linear scan over a chain of positioned
// events that reduces to per-arrow recency: how many distinct positions
// back (or forward) from a reference point an arrow was last (or will
// next be) played, and by which foot.
package mineutils

import (
	"math/rand"
	"sort"

	"github.com/padchart/stepgraph/graph"
	"github.com/padchart/stepgraph/step"
)

// Event is one per-foot, per-lane occurrence: a step (tap/hold-start) or a
// release (tap's implicit release/hold-end), at an integer chart position.
type Event struct {
	Position int
	Arrow    int
	Foot     step.Foot
}

// ChainEntry is one position along a settled step chain: the body state
// Node reached, and the Link taken to reach it from the previous entry
// (for the chain's first entry, the Link taken from the root state).
type ChainEntry struct {
	Position int
	Node     *graph.Node
	Link     graph.Link
}

// ReleasesAndSteps diffs a settled step chain into its release and step
// event lists. A Tap emits both (the contact and its implicit release); a
// Hold emits only a step (the release comes later, as its own Release
// action); a Release emits only a release. Passive Lifted transitions
// (the foot-swap's silent half) carry no LinkCell action and so
// contribute nothing here; that is how swaps are detected via the Lifted
// state: the swapping foot's own Tap already accounts
// for the swap, and the displaced foot did not itself act.
func ReleasesAndSteps(chain []ChainEntry, numArrows int) (releases, steps []Event) {
	for _, entry := range chain {
		for f := step.Foot(0); f < step.NumFeet; f++ {
			for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
				cell := entry.Link[f][pp]
				if !cell.Valid {
					continue
				}
				arrow := entry.Node.Matrix[f][pp].Arrow
				if arrow < 0 || arrow >= numArrows {
					continue
				}
				ev := Event{Position: entry.Position, Arrow: arrow, Foot: f}
				switch cell.Action {
				case step.Tap:
					steps = append(steps, ev)
					releases = append(releases, ev)
				case step.Hold:
					steps = append(steps, ev)
				case step.Release:
					releases = append(releases, ev)
				}
			}
		}
	}
	return releases, steps
}

// Direction controls which side of a reference position HowRecent and
// BestNth search: Backward looks at earlier positions (for AfterArrow mine
// placement), Forward at later ones (for BeforeArrow).
type Direction int

const (
	Backward Direction = iota
	Forward
)

// HowRecent returns the ordinal depth (0 = nearest) at which arrow first
// appears among events on the Backward or Forward side of fromPosition,
// and which foot played it there. Events sharing a position share the
// same ordinal.
func HowRecent(events []Event, arrow, fromPosition int, dir Direction) (n int, foot step.Foot, ok bool) {
	positions := distinctPositions(events, fromPosition, dir)
	for depth, pos := range positions {
		for _, e := range events {
			if e.Position == pos && e.Arrow == arrow {
				return depth, e.Foot, true
			}
		}
	}
	return 0, 0, false
}

// BestNth scans steps, respecting the same ordinal-depth rule as
// HowRecent, starting at desiredN and stepping outward (further into the
// past) whenever every arrow at a depth is unavailable. At each depth it
// prefers an arrow played by desiredFoot; failing that, any arrow at that
// depth; failing that, it moves to the next depth. isFree reports whether
// a candidate arrow is unoccupied at the mine's position (no other mine
// there, no step/hold covering it) — the caller owns that check, since it depends on state
// (other already-placed mines, the rest of the performed chain) this
// package does not track. rng breaks ties among equally eligible
// candidates deterministically for a given seed.
func BestNth(steps []Event, desiredN int, desiredFoot step.Foot, fromPosition int, isFree func(arrow int) bool, rng *rand.Rand) (arrow int, foot step.Foot, ok bool) {
	if desiredN < 0 {
		desiredN = 0
	}
	positions := distinctPositions(steps, fromPosition, Backward)
	for depth := desiredN; depth < len(positions); depth++ {
		pos := positions[depth]
		var atDepth []Event
		for _, e := range steps {
			if e.Position == pos {
				atDepth = append(atDepth, e)
			}
		}

		var free []Event
		for _, e := range atDepth {
			if isFree(e.Arrow) {
				free = append(free, e)
			}
		}
		if len(free) == 0 {
			continue
		}

		var preferred []Event
		for _, e := range free {
			if e.Foot == desiredFoot {
				preferred = append(preferred, e)
			}
		}
		pick := free
		if len(preferred) > 0 {
			pick = preferred
		}
		chosen := pick[rng.Intn(len(pick))]
		return chosen.Arrow, chosen.Foot, true
	}
	return 0, 0, false
}

func distinctPositions(events []Event, from int, dir Direction) []int {
	seen := make(map[int]bool)
	for _, e := range events {
		if dir == Backward && e.Position < from {
			seen[e.Position] = true
		}
		if dir == Forward && e.Position > from {
			seen[e.Position] = true
		}
	}
	out := make([]int, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	if dir == Backward {
		sort.Sort(sort.Reverse(sort.IntSlice(out)))
	} else {
		sort.Ints(out)
	}
	return out
}

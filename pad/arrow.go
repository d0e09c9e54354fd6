// Package pad holds the static per-layout geometry and pairing relations
// that the StepGraph builder treats as an input: which arrows exist, where
// they sit, and which pairs of arrows are bracketable, crossable, or
// invertible for each foot. None of this is computed by the core; it is
// loaded once (typically from JSON, see ArrowInput) and never mutated.
package pad

import "github.com/padchart/stepgraph/step"

// ArrowInput is the JSON-shaped per-arrow geometry and pairing relation
// table a layout file provides. Lane/MirroredLane/FlippedLane are assigned
// post-load from position, so they are not part of the input shape. Stretch crossover/invert tables are not part of the
// input either: they are derived once at load from the non-stretch
// crossover/invert tables intersected with OtherFootPairingsStretch (an
// arrow pair is a "stretch crossover" exactly when it both reaches only at
// stretch distance and would, at in-reach distance, be a crossover).
type ArrowInput struct {
	X, Y float64

	BracketablePairingsOtherHeel [step.NumFeet][]int
	BracketablePairingsOtherToe  [step.NumFeet][]int

	OtherFootPairings                         [step.NumFeet][]int
	OtherFootPairingsStretch                  [step.NumFeet][]int
	OtherFootPairingsOtherFootCrossoverFront  [step.NumFeet][]int
	OtherFootPairingsOtherFootCrossoverBehind [step.NumFeet][]int
	OtherFootPairingsInverted                 [step.NumFeet][]int
}

// ArrowData is the immutable, fully-resolved per-arrow record the rest of
// the core operates on: input relation lists converted to O(1) lookup
// tables, plus lane identity fields assigned from position.
type ArrowData struct {
	Lane         int
	MirroredLane int
	FlippedLane  int
	X, Y         float64

	BracketableOtherHeel [step.NumFeet]map[int]bool
	BracketableOtherToe  [step.NumFeet]map[int]bool

	OtherFootPairings        [step.NumFeet]map[int]bool
	OtherFootPairingsStretch [step.NumFeet]map[int]bool
	CrossoverFront           [step.NumFeet]map[int]bool
	CrossoverBehind          [step.NumFeet]map[int]bool
	CrossoverFrontStretch    [step.NumFeet]map[int]bool
	CrossoverBehindStretch   [step.NumFeet]map[int]bool
	Inverted                 [step.NumFeet]map[int]bool
	InvertedStretch          [step.NumFeet]map[int]bool

	// ValidNextArrows is the legacy adjacency list retained for callers
	// that still reason about single-arrow adjacency rather than the full
	// pairing relations above.
	ValidNextArrows []int
}

func toSet(lanes []int) map[int]bool {
	m := make(map[int]bool, len(lanes))
	for _, l := range lanes {
		m[l] = true
	}
	return m
}

func intersect(a, b map[int]bool) map[int]bool {
	out := make(map[int]bool)
	for lane := range a {
		if b[lane] {
			out[lane] = true
		}
	}
	return out
}

func union(sets ...map[int]bool) map[int]bool {
	out := make(map[int]bool)
	for _, s := range sets {
		for lane := range s {
			out[lane] = true
		}
	}
	return out
}

// newArrowData resolves one ArrowInput into an immutable ArrowData. Lane
// identity (Lane/MirroredLane/FlippedLane) is filled in by the caller
// (PadData.resolve) once every arrow's position is known.
func newArrowData(in ArrowInput) *ArrowData {
	a := &ArrowData{X: in.X, Y: in.Y}

	for f := 0; f < step.NumFeet; f++ {
		a.BracketableOtherHeel[f] = toSet(in.BracketablePairingsOtherHeel[f])
		a.BracketableOtherToe[f] = toSet(in.BracketablePairingsOtherToe[f])
		a.OtherFootPairings[f] = toSet(in.OtherFootPairings[f])
		a.OtherFootPairingsStretch[f] = toSet(in.OtherFootPairingsStretch[f])
		a.CrossoverFront[f] = toSet(in.OtherFootPairingsOtherFootCrossoverFront[f])
		a.CrossoverBehind[f] = toSet(in.OtherFootPairingsOtherFootCrossoverBehind[f])
		a.Inverted[f] = toSet(in.OtherFootPairingsInverted[f])

		a.CrossoverFrontStretch[f] = intersect(a.CrossoverFront[f], a.OtherFootPairingsStretch[f])
		a.CrossoverBehindStretch[f] = intersect(a.CrossoverBehind[f], a.OtherFootPairingsStretch[f])
		a.InvertedStretch[f] = intersect(a.Inverted[f], a.OtherFootPairingsStretch[f])
	}

	return a
}

// IsBracketablePair reports whether this arrow and other form a bracketable
// pair for foot f: other must be reachable by either the heel or the toe
// while this arrow is covered by the complementary portion.
func (a *ArrowData) IsBracketablePair(f step.Foot, other int) bool {
	return a.BracketableOtherHeel[f][other] || a.BracketableOtherToe[f][other]
}

// IsValidPairing reports whether other is a normal (non-crossover,
// non-invert) pairing for the other foot, in or out of stretch range.
func (a *ArrowData) IsValidPairing(f step.Foot, other int, allowStretch bool) bool {
	if a.OtherFootPairings[f][other] {
		return true
	}
	return allowStretch && a.OtherFootPairingsStretch[f][other]
}

// IsCrossoverFront reports whether placing the other foot on other, with
// this arrow held by foot f, is a front crossover.
func (a *ArrowData) IsCrossoverFront(f step.Foot, other int, allowStretch bool) bool {
	if a.CrossoverFront[f][other] {
		return true
	}
	return allowStretch && a.CrossoverFrontStretch[f][other]
}

// IsCrossoverBehind mirrors IsCrossoverFront for a behind crossover.
func (a *ArrowData) IsCrossoverBehind(f step.Foot, other int, allowStretch bool) bool {
	if a.CrossoverBehind[f][other] {
		return true
	}
	return allowStretch && a.CrossoverBehindStretch[f][other]
}

// IsInverted reports whether other is reachable only through an inverted
// (hips crossed past 90 degrees) pose relative to this arrow.
func (a *ArrowData) IsInverted(f step.Foot, other int, allowStretch bool) bool {
	if a.Inverted[f][other] {
		return true
	}
	return allowStretch && a.InvertedStretch[f][other]
}

// AnyReachable returns the union of every pairing relation (normal,
// crossover, invert; stretch and non-stretch) for foot f from this arrow.
// New uses it to fill ValidNextArrows.
func (a *ArrowData) AnyReachable(f step.Foot) map[int]bool {
	return union(
		a.OtherFootPairings[f], a.OtherFootPairingsStretch[f],
		a.CrossoverFront[f], a.CrossoverBehind[f],
		a.CrossoverFrontStretch[f], a.CrossoverBehindStretch[f],
		a.Inverted[f], a.InvertedStretch[f],
	)
}

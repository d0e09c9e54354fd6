package graph

import (
	"github.com/padchart/stepgraph/pad"
	"github.com/padchart/stepgraph/step"
)

// occupant records one (foot, portion) entry resting, held, or lifted on a
// given arrow, used by validateMatrix to enforce the occupancy invariant.
type occupant struct {
	foot    step.Foot
	portion step.FootPortion
	state   step.GraphArrowState
}

// enumerateMatrices walks a base-M numeral system (one "digit" per foot
// portion, M = numArrows*3+1: the values of footPortionOptions, since
// step.InvalidArrow only ever appears as Resting) and returns every Matrix
// surviving the pad-independent structural invariants. Geometric
// invariants that need pad relation tables (bracketability, crossover vs.
// stretch-bracket exclusivity) are applied by validateAgainstPad, which
// the caller runs before assigning orientations.
func enumerateMatrices(numArrows int) []Matrix {
	options := footPortionOptions(numArrows)

	var out []Matrix
	var m Matrix
	var walk func(slot int)
	walk = func(slot int) {
		if slot == step.NumFeet*step.NumFootPortions {
			if validateMatrix(m) {
				cp := m
				out = append(out, cp)
			}
			return
		}
		foot := step.Foot(slot / step.NumFootPortions)
		portion := step.FootPortion(slot % step.NumFootPortions)
		for _, opt := range options {
			m[foot][portion] = opt
			walk(slot + 1)
		}
	}
	walk(0)
	return out
}

// footPortionOptions lists every (arrow, state) combination a single foot
// portion may take: step.InvalidArrow with Resting (the "not in use"
// value), or any real arrow with any of the three GraphArrowStates.
func footPortionOptions(numArrows int) []FootArrowState {
	out := []FootArrowState{invalidState}
	for arrow := 0; arrow < numArrows; arrow++ {
		out = append(out,
			FootArrowState{Arrow: arrow, State: step.Resting},
			FootArrowState{Arrow: arrow, State: step.Held},
			FootArrowState{Arrow: arrow, State: step.Lifted},
		)
	}
	return out
}

// validateMatrix enforces the pad-independent body-state invariants:
// the default portion of each foot must be on a valid arrow; a foot may
// not bracket the same arrow with both portions; at most one occupant of
// any arrow may be Resting/Held (others must be Lifted, and a Lifted
// occupant requires some other, non-Lifted occupant on that same arrow —
// its swap partner).
func validateMatrix(m Matrix) bool {
	for f := step.Foot(0); f < step.NumFeet; f++ {
		if !m[f][step.DefaultPortion].IsValid() {
			return false
		}
		h, t := m[f][step.Heel], m[f][step.Toe]
		if h.IsValid() && t.IsValid() && h.Arrow == t.Arrow {
			return false
		}
	}

	byArrow := make(map[int][]occupant)
	for f := step.Foot(0); f < step.NumFeet; f++ {
		for p := step.FootPortion(0); p < step.NumFootPortions; p++ {
			st := m[f][p]
			if !st.IsValid() {
				continue
			}
			byArrow[st.Arrow] = append(byArrow[st.Arrow], occupant{f, p, st.State})
		}
	}

	for _, occs := range byArrow {
		nonLifted := 0
		for _, o := range occs {
			if o.state != step.Lifted {
				nonLifted++
			}
		}
		if nonLifted > 1 {
			return false
		}
		for _, o := range occs {
			if o.state == step.Lifted && nonLifted == 0 {
				// A lift with no current owner on the arrow is a dangling
				// memory of a swap that never happened.
				return false
			}
		}
	}
	return true
}

// isBracketed reports whether foot f occupies both portions with valid
// (non-invalid) arrows in this matrix — a bracket.
func (m Matrix) isBracketed(f step.Foot) bool {
	return m[f][step.Heel].IsValid() && m[f][step.Toe].IsValid()
}

// validateAgainstPad applies the geometric invariants that need pad
// relation tables: a bracket's two arrows must be a bracketable pair, and
// no state may be simultaneously a crossover and a stretch-bracket (or an
// invert and a stretch-bracket) — only the simpler stretch-brackets and
// non-bracket crossovers may coexist independently.
func validateAgainstPad(p *pad.Data, m Matrix) bool {
	for f := step.Foot(0); f < step.NumFeet; f++ {
		if m.isBracketed(f) {
			h, t := m[f][step.Heel], m[f][step.Toe]
			arrow := p.Arrow(h.Arrow)
			if arrow == nil || !arrow.IsBracketablePair(f, t.Arrow) {
				return false
			}
		}
	}

	bothBracketed := m.isBracketed(step.Left) && m.isBracketed(step.Right)
	if !bothBracketed {
		return true
	}

	// With both feet bracketing, check whether this is a "stretch
	// bracket" (either foot's bracket needed stretch distance to form) and
	// whether it is simultaneously a crossover/invert according to the
	// resting default portions; both at once is not a standable pose.
	isStretch := false
	for f := step.Foot(0); f < step.NumFeet; f++ {
		h, t := m[f][step.Heel], m[f][step.Toe]
		arrow := p.Arrow(h.Arrow)
		if arrow != nil && !arrow.BracketableOtherHeel[f][t.Arrow] && !arrow.BracketableOtherToe[f][t.Arrow] {
			// unreachable: already validated bracketable above
			continue
		}
		if p.MaxBracketSeparation() > 0 {
			d := p.ArrowDistance(h.Arrow, t.Arrow)
			if d > p.MaxBracketSeparation() {
				isStretch = true
			}
		}
	}
	if !isStretch {
		return true
	}

	left := p.Arrow(m[step.Left][step.DefaultPortion].Arrow)
	if left == nil {
		return true
	}
	otherDefault := m[step.Right][step.DefaultPortion].Arrow
	isCrossedOrInverted := left.IsCrossoverFront(step.Left, otherDefault, true) ||
		left.IsCrossoverBehind(step.Left, otherDefault, true) ||
		left.IsInverted(step.Left, otherDefault, true)
	return !isCrossedOrInverted
}

// orientationsFor returns the BodyOrientations compatible with this
// matrix: Normal unless a foot's default portion sits on an arrow that is
// only reachable from the other foot's default portion via an inverted
// pairing, in which case the matching inverted orientation applies. When
// both feet's tables report an inverted pairing, both inverted
// orientations are returned.
func orientationsFor(p *pad.Data, m Matrix) []step.BodyOrientation {
	leftArrow := m[step.Left][step.DefaultPortion].Arrow
	rightArrow := m[step.Right][step.DefaultPortion].Arrow
	left := p.Arrow(leftArrow)
	if left == nil {
		return []step.BodyOrientation{step.Normal}
	}

	invertedLeftOverRight := left.IsInverted(step.Left, rightArrow, true)
	right := p.Arrow(rightArrow)
	invertedRightOverLeft := right != nil && right.IsInverted(step.Right, leftArrow, true)

	switch {
	case invertedLeftOverRight && !invertedRightOverLeft:
		return []step.BodyOrientation{step.InvertedLeftOverRight}
	case invertedRightOverLeft && !invertedLeftOverRight:
		return []step.BodyOrientation{step.InvertedRightOverLeft}
	case invertedLeftOverRight && invertedRightOverLeft:
		return []step.BodyOrientation{step.InvertedLeftOverRight, step.InvertedRightOverLeft}
	default:
		return []step.BodyOrientation{step.Normal}
	}
}

package graph

import (
	"github.com/padchart/stepgraph/pad"
	"github.com/padchart/stepgraph/step"
)

// pattern classifies what a single foot portion's action does to an
// arrow, independent of crossover/invert/stretch flavor.
type pattern int

const (
	patternSame pattern = iota
	patternNew
	patternSwap
)

// modifier layers crossover/invert/stretch flavor onto a pattern. Front vs.
// behind for crossovers comes directly from ArrowData's separate
// crossover-front/crossover-behind tables. ArrowData carries only a single
// (non-directional) "inverted" table, so front vs. behind for inverts is
// not a pad-geometry fact the way crossovers are; this builder resolves it
// from which inverted BodyOrientation the transition lands in
// (InvertedLeftOverRight -> "front", InvertedRightOverLeft -> "behind").
// This is a documented judgment call (see DESIGN.md) where the exact
// front/behind split for inverts is underdetermined by the input tables.
type modifier int

const (
	modNone modifier = iota
	modStretch
	modCrossoverFront
	modCrossoverFrontStretch
	modCrossoverBehind
	modCrossoverBehindStretch
	modInvertFront
	modInvertFrontStretch
	modInvertBehind
	modInvertBehindStretch
)

func (m modifier) isCrossover() bool {
	switch m {
	case modCrossoverFront, modCrossoverFrontStretch, modCrossoverBehind, modCrossoverBehindStretch:
		return true
	}
	return false
}

func (m modifier) isInvert() bool {
	switch m {
	case modInvertFront, modInvertFrontStretch, modInvertBehind, modInvertBehindStretch:
		return true
	}
	return false
}

func (m modifier) isStretch() bool {
	switch m {
	case modStretch, modCrossoverFrontStretch, modCrossoverBehindStretch, modInvertFrontStretch, modInvertBehindStretch:
		return true
	}
	return false
}

// singleStepPattern classifies one foot portion's action against the pad
// geometry: does it land on the same arrow, a new one, or hand off an
// arrow the other foot already holds (a swap)? And with what flavor? The
// flavor of a new placement is a property of the resulting stance — foot
// f on toArrow versus the other foot on otherFootArrow — so it is read
// from the other foot's arrow's relation tables, which describe exactly
// "with the other foot here, where may this foot go."
func singleStepPattern(p *pad.Data, f step.Foot, fromArrow, toArrow, otherFootArrow int, toOrient step.BodyOrientation) (pattern, modifier, bool) {
	if toArrow == fromArrow && fromArrow != step.InvalidArrow {
		return patternSame, modNone, true
	}

	if toArrow == otherFootArrow {
		// Swap: taking over the arrow the other foot occupies. The flavor
		// is read off the pre-swap stance (foot f still on fromArrow).
		return patternSwap, swapModifier(p, f, fromArrow, toArrow, toOrient), true
	}

	other := p.Arrow(otherFootArrow)
	if other == nil {
		return patternNew, modNone, true
	}
	g := f.Other()

	switch {
	case other.OtherFootPairings[g][toArrow]:
		return patternNew, modNone, true
	case other.OtherFootPairingsStretch[g][toArrow]:
		return patternNew, modStretch, true
	case other.CrossoverFront[g][toArrow]:
		return patternNew, modCrossoverFront, true
	case other.CrossoverFrontStretch[g][toArrow]:
		return patternNew, modCrossoverFrontStretch, true
	case other.CrossoverBehind[g][toArrow]:
		return patternNew, modCrossoverBehind, true
	case other.CrossoverBehindStretch[g][toArrow]:
		return patternNew, modCrossoverBehindStretch, true
	case other.Inverted[g][toArrow]:
		return patternNew, invertModifier(toOrient, false), true
	case other.InvertedStretch[g][toArrow]:
		return patternNew, invertModifier(toOrient, true), true
	}
	return 0, 0, false
}

func invertModifier(toOrient step.BodyOrientation, stretch bool) modifier {
	if toOrient == step.InvertedRightOverLeft {
		if stretch {
			return modInvertBehindStretch
		}
		return modInvertBehind
	}
	if stretch {
		return modInvertFrontStretch
	}
	return modInvertFront
}

// swapModifier classifies the stance foot f swaps out of: foot f on
// fromArrow with the other foot on toArrow (the arrow being handed off).
func swapModifier(p *pad.Data, f step.Foot, fromArrow, toArrow int, toOrient step.BodyOrientation) modifier {
	arrow := p.Arrow(fromArrow)
	if arrow == nil {
		return modNone
	}
	switch {
	case arrow.CrossoverFront[f][toArrow] || arrow.CrossoverFrontStretch[f][toArrow]:
		return modCrossoverFront
	case arrow.CrossoverBehind[f][toArrow] || arrow.CrossoverBehindStretch[f][toArrow]:
		return modCrossoverBehind
	case arrow.Inverted[f][toArrow] || arrow.InvertedStretch[f][toArrow]:
		if toOrient == step.InvertedRightOverLeft {
			return modInvertBehind
		}
		return modInvertFront
	default:
		return modNone
	}
}

// stanceModifier classifies the pose a foot already holds: foot f on
// fArrow with the other foot on otherArrow. Used to compare the pre- and
// post-transition poses when detecting swings.
func stanceModifier(p *pad.Data, f step.Foot, fArrow, otherArrow int, orient step.BodyOrientation) modifier {
	if orient.IsInverted() {
		return invertModifier(orient, false)
	}
	if fArrow == step.InvalidArrow || otherArrow == step.InvalidArrow {
		return modNone
	}
	other := p.Arrow(otherArrow)
	if other == nil {
		return modNone
	}
	g := f.Other()
	switch {
	case other.CrossoverFront[g][fArrow] || other.CrossoverFrontStretch[g][fArrow]:
		return modCrossoverFront
	case other.CrossoverBehind[g][fArrow] || other.CrossoverBehindStretch[g][fArrow]:
		return modCrossoverBehind
	}
	return modNone
}

func singleStepType(pat pattern, mod modifier) (step.Type, bool) {
	switch pat {
	case patternSame:
		return step.SameArrow, true
	case patternNew:
		switch mod {
		case modNone:
			return step.NewArrow, true
		case modStretch:
			return step.NewArrowStretch, true
		case modCrossoverFront:
			return step.CrossoverFront, true
		case modCrossoverFrontStretch:
			return step.CrossoverFrontStretch, true
		case modCrossoverBehind:
			return step.CrossoverBehind, true
		case modCrossoverBehindStretch:
			return step.CrossoverBehindStretch, true
		case modInvertFront:
			return step.InvertFront, true
		case modInvertFrontStretch:
			return step.InvertFrontStretch, true
		case modInvertBehind:
			return step.InvertBehind, true
		case modInvertBehindStretch:
			return step.InvertBehindStretch, true
		}
	case patternSwap:
		switch mod {
		case modNone, modStretch:
			return step.FootSwap, true
		case modCrossoverFront, modCrossoverFrontStretch:
			return step.FootSwapCrossoverFront, true
		case modCrossoverBehind, modCrossoverBehindStretch:
			return step.FootSwapCrossoverBehind, true
		case modInvertFront, modInvertFrontStretch:
			return step.FootSwapInvertFront, true
		case modInvertBehind, modInvertBehindStretch:
			return step.FootSwapInvertBehind, true
		}
	}
	return 0, false
}

// bracketOneArrowType labels a step where one portion of a foot places an
// arrow while the other portion keeps its own. The one-arrow bracket
// vocabulary collapses front/behind into a single Crossover or Invert
// label, and carries Stretch only on the plain New/Same variants.
func bracketOneArrowType(acting step.FootPortion, pat pattern, mod modifier) (step.Type, bool) {
	if acting == step.Heel {
		switch pat {
		case patternSame:
			if mod.isStretch() {
				return step.BracketOneArrowHeelSameStretch, true
			}
			return step.BracketOneArrowHeelSame, true
		case patternNew:
			switch {
			case mod.isCrossover():
				return step.BracketOneArrowHeelNewCrossover, true
			case mod.isInvert():
				return step.BracketOneArrowHeelNewInvert, true
			case mod.isStretch():
				return step.BracketOneArrowHeelNewStretch, true
			default:
				return step.BracketOneArrowHeelNew, true
			}
		case patternSwap:
			switch {
			case mod.isCrossover():
				return step.BracketOneArrowHeelSwapCrossover, true
			case mod.isInvert():
				return step.BracketOneArrowHeelSwapInvert, true
			default:
				return step.BracketOneArrowHeelSwap, true
			}
		}
		return 0, false
	}

	switch pat {
	case patternSame:
		if mod.isStretch() {
			return step.BracketOneArrowToeSameStretch, true
		}
		return step.BracketOneArrowToeSame, true
	case patternNew:
		switch {
		case mod.isCrossover():
			return step.BracketOneArrowToeNewCrossover, true
		case mod.isInvert():
			return step.BracketOneArrowToeNewInvert, true
		case mod.isStretch():
			return step.BracketOneArrowToeNewStretch, true
		default:
			return step.BracketOneArrowToeNew, true
		}
	case patternSwap:
		switch {
		case mod.isCrossover():
			return step.BracketOneArrowToeSwapCrossover, true
		case mod.isInvert():
			return step.BracketOneArrowToeSwapInvert, true
		default:
			return step.BracketOneArrowToeSwap, true
		}
	}
	return 0, false
}

// dominantModifier picks the modifier that should describe a full bracket
// as a whole: a crossover or invert on either portion dominates a plain
// step on the other; stretch is reported only when neither portion
// crosses or inverts.
func dominantModifier(a, b modifier) modifier {
	rank := func(m modifier) int {
		switch {
		case m.isCrossover():
			return 3
		case m.isInvert():
			return 2
		case m.isStretch():
			return 1
		default:
			return 0
		}
	}
	if rank(a) >= rank(b) {
		return a
	}
	return b
}

// fullBracketType picks the Bracket{Heel,Toe} base label from the two
// portions' patterns, then overrides with a whole-bracket modifier label
// when the transition as a whole is a crossover, invert, stretch, or swing
// (those modifiers apply to the bracket as a pose, not to one portion).
func fullBracketType(heelPat, toePat pattern, bracketMod modifier, swing bool) step.Type {
	base := fullBracketBase(heelPat, toePat)
	if swing {
		return step.BracketSwing
	}
	bothSwap := heelPat == patternSwap && toePat == patternSwap
	switch {
	case bracketMod.isCrossover():
		if bothSwap {
			return step.BracketHeelSwapToeSwapCrossover
		}
		switch bracketMod {
		case modCrossoverFrontStretch:
			return step.BracketCrossoverFrontStretch
		case modCrossoverBehind:
			return step.BracketCrossoverBehind
		case modCrossoverBehindStretch:
			return step.BracketCrossoverBehindStretch
		default:
			return step.BracketCrossoverFront
		}
	case bracketMod.isInvert():
		if bothSwap {
			return step.BracketHeelSwapToeSwapInvert
		}
		switch bracketMod {
		case modInvertFrontStretch:
			return step.BracketInvertFrontStretch
		case modInvertBehind:
			return step.BracketInvertBehind
		case modInvertBehindStretch:
			return step.BracketInvertBehindStretch
		default:
			return step.BracketInvertFront
		}
	case bracketMod.isStretch():
		if bothSwap {
			return base
		}
		return step.BracketStretch
	default:
		return base
	}
}

func fullBracketBase(heelPat, toePat pattern) step.Type {
	switch heelPat {
	case patternNew:
		switch toePat {
		case patternNew:
			return step.BracketHeelNewToeNew
		case patternSame:
			return step.BracketHeelNewToeSame
		default:
			return step.BracketHeelNewToeSwap
		}
	case patternSame:
		switch toePat {
		case patternNew:
			return step.BracketHeelSameToeNew
		case patternSame:
			return step.BracketHeelSameToeSame
		default:
			return step.BracketHeelSameToeSwap
		}
	default: // Swap
		switch toePat {
		case patternNew:
			return step.BracketHeelSwapToeNew
		case patternSame:
			return step.BracketHeelSwapToeSame
		default:
			return step.BracketHeelSwapToeSwap
		}
	}
}

// poseFrontBehind reduces a pose to whether it is crossed at all and, if
// so, whether the crossing leg passes in front (true) or behind (false).
// An inverted orientation dominates any per-step modifier.
func poseFrontBehind(orient step.BodyOrientation, mod modifier) (front, crossed bool) {
	if orient.IsInverted() {
		return orient == step.InvertedLeftOverRight, true
	}
	switch mod {
	case modCrossoverFront, modCrossoverFrontStretch:
		return true, true
	case modCrossoverBehind, modCrossoverBehindStretch:
		return false, true
	case modInvertFront, modInvertFrontStretch:
		return true, true
	case modInvertBehind, modInvertBehindStretch:
		return false, true
	}
	return false, false
}

// isSwing reports whether the move passes the foot around the other leg:
// both the departing and landing poses are crossed (a crossover or an
// invert) but on opposite front/behind sides, so the foot swings through
// an intermediate pose rather than stepping straight there. A move into or
// out of a normal pose is a plain step, never a swing.
func isSwing(fromOrient, toOrient step.BodyOrientation, fromMod, toMod modifier) bool {
	fromFront, fromCrossed := poseFrontBehind(fromOrient, fromMod)
	toFront, toCrossed := poseFrontBehind(toOrient, toMod)
	if !fromCrossed || !toCrossed {
		return false
	}
	return fromFront != toFront
}

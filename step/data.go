package step

// Metadata describes everything the StepGraph builder and the two search
// engines need to know about a step type that is not specific to a pad
// layout: whether it brackets, whether it swaps feet, whether it is
// jump-eligible, and what FootAction values it may carry.
type Metadata struct {
	IsBracket         bool
	IsBracketOneArrow bool
	IsCrossover       bool
	IsInvert          bool
	IsStretch         bool
	IsFootSwap        bool
	IsSwing           bool
	ActingPortion     FootPortion
	// JumpEligible is false for step types that can never be paired with a
	// simultaneous step on the other foot to form a jump (currently none;
	// reserved for future pad layouts with a foot that cannot jump).
	JumpEligible bool
	// ValidActions is the set of FootAction values this step type may carry.
	// Swaps and footswap-derived types only ever Tap (the receiving portion
	// taps the handed-off arrow); release is handled by the matrix cell
	// independently of step type.
	ValidActions map[FootAction]bool
}

// Data is the static, load-once table of Metadata indexed by Type ordinal.
// Computed once in init(); never mutated afterward.
var Data [numStepTypes]Metadata

func allActions() map[FootAction]bool {
	return map[FootAction]bool{Tap: true, Hold: true, Release: true}
}

func tapOnly() map[FootAction]bool {
	return map[FootAction]bool{Tap: true}
}

func init() {
	for t := Type(0); t < numStepTypes; t++ {
		Data[t] = Metadata{JumpEligible: true, ValidActions: allActions()}
	}

	set := func(t Type, m Metadata) {
		if m.ValidActions == nil {
			m.ValidActions = allActions()
		}
		m.JumpEligible = true
		Data[t] = m
	}

	set(SameArrow, Metadata{})
	set(NewArrow, Metadata{})
	set(NewArrowStretch, Metadata{IsStretch: true})

	set(CrossoverFront, Metadata{IsCrossover: true})
	set(CrossoverBehind, Metadata{IsCrossover: true})
	set(CrossoverFrontStretch, Metadata{IsCrossover: true, IsStretch: true})
	set(CrossoverBehindStretch, Metadata{IsCrossover: true, IsStretch: true})

	set(InvertFront, Metadata{IsInvert: true})
	set(InvertBehind, Metadata{IsInvert: true})
	set(InvertFrontStretch, Metadata{IsInvert: true, IsStretch: true})
	set(InvertBehindStretch, Metadata{IsInvert: true, IsStretch: true})

	set(FootSwap, Metadata{IsFootSwap: true, ValidActions: tapOnly()})
	set(FootSwapCrossoverFront, Metadata{IsFootSwap: true, IsCrossover: true, ValidActions: tapOnly()})
	set(FootSwapCrossoverBehind, Metadata{IsFootSwap: true, IsCrossover: true, ValidActions: tapOnly()})
	set(FootSwapInvertFront, Metadata{IsFootSwap: true, IsInvert: true, ValidActions: tapOnly()})
	set(FootSwapInvertBehind, Metadata{IsFootSwap: true, IsInvert: true, ValidActions: tapOnly()})

	set(Swing, Metadata{IsSwing: true})

	set(BracketOneArrowHeelNew, Metadata{IsBracket: true, IsBracketOneArrow: true, ActingPortion: Heel})
	set(BracketOneArrowHeelNewStretch, Metadata{IsBracket: true, IsBracketOneArrow: true, ActingPortion: Heel, IsStretch: true})
	set(BracketOneArrowHeelNewCrossover, Metadata{IsBracket: true, IsBracketOneArrow: true, ActingPortion: Heel, IsCrossover: true})
	set(BracketOneArrowHeelNewInvert, Metadata{IsBracket: true, IsBracketOneArrow: true, ActingPortion: Heel, IsInvert: true})
	set(BracketOneArrowHeelSame, Metadata{IsBracket: true, IsBracketOneArrow: true, ActingPortion: Heel})
	set(BracketOneArrowHeelSameStretch, Metadata{IsBracket: true, IsBracketOneArrow: true, ActingPortion: Heel, IsStretch: true})
	set(BracketOneArrowHeelSwap, Metadata{IsBracket: true, IsBracketOneArrow: true, IsFootSwap: true, ActingPortion: Heel, ValidActions: tapOnly()})
	set(BracketOneArrowHeelSwapCrossover, Metadata{IsBracket: true, IsBracketOneArrow: true, IsFootSwap: true, IsCrossover: true, ActingPortion: Heel, ValidActions: tapOnly()})
	set(BracketOneArrowHeelSwapInvert, Metadata{IsBracket: true, IsBracketOneArrow: true, IsFootSwap: true, IsInvert: true, ActingPortion: Heel, ValidActions: tapOnly()})

	set(BracketOneArrowToeNew, Metadata{IsBracket: true, IsBracketOneArrow: true, ActingPortion: Toe})
	set(BracketOneArrowToeNewStretch, Metadata{IsBracket: true, IsBracketOneArrow: true, ActingPortion: Toe, IsStretch: true})
	set(BracketOneArrowToeNewCrossover, Metadata{IsBracket: true, IsBracketOneArrow: true, ActingPortion: Toe, IsCrossover: true})
	set(BracketOneArrowToeNewInvert, Metadata{IsBracket: true, IsBracketOneArrow: true, ActingPortion: Toe, IsInvert: true})
	set(BracketOneArrowToeSame, Metadata{IsBracket: true, IsBracketOneArrow: true, ActingPortion: Toe})
	set(BracketOneArrowToeSameStretch, Metadata{IsBracket: true, IsBracketOneArrow: true, ActingPortion: Toe, IsStretch: true})
	set(BracketOneArrowToeSwap, Metadata{IsBracket: true, IsBracketOneArrow: true, IsFootSwap: true, ActingPortion: Toe, ValidActions: tapOnly()})
	set(BracketOneArrowToeSwapCrossover, Metadata{IsBracket: true, IsBracketOneArrow: true, IsFootSwap: true, IsCrossover: true, ActingPortion: Toe, ValidActions: tapOnly()})
	set(BracketOneArrowToeSwapInvert, Metadata{IsBracket: true, IsBracketOneArrow: true, IsFootSwap: true, IsInvert: true, ActingPortion: Toe, ValidActions: tapOnly()})

	set(BracketHeelNewToeNew, Metadata{IsBracket: true})
	set(BracketHeelNewToeSame, Metadata{IsBracket: true})
	set(BracketHeelNewToeSwap, Metadata{IsBracket: true, IsFootSwap: true, ValidActions: tapOnly()})
	set(BracketHeelSameToeNew, Metadata{IsBracket: true})
	set(BracketHeelSameToeSame, Metadata{IsBracket: true})
	set(BracketHeelSameToeSwap, Metadata{IsBracket: true, IsFootSwap: true, ValidActions: tapOnly()})
	set(BracketHeelSwapToeNew, Metadata{IsBracket: true, IsFootSwap: true, ValidActions: tapOnly()})
	set(BracketHeelSwapToeSame, Metadata{IsBracket: true, IsFootSwap: true, ValidActions: tapOnly()})
	set(BracketHeelSwapToeSwap, Metadata{IsBracket: true, IsFootSwap: true, ValidActions: tapOnly()})
	set(BracketHeelSwapToeSwapCrossover, Metadata{IsBracket: true, IsFootSwap: true, IsCrossover: true, ValidActions: tapOnly()})
	set(BracketHeelSwapToeSwapInvert, Metadata{IsBracket: true, IsFootSwap: true, IsInvert: true, ValidActions: tapOnly()})

	set(BracketCrossoverFront, Metadata{IsBracket: true, IsCrossover: true})
	set(BracketCrossoverBehind, Metadata{IsBracket: true, IsCrossover: true})
	set(BracketCrossoverFrontStretch, Metadata{IsBracket: true, IsCrossover: true, IsStretch: true})
	set(BracketCrossoverBehindStretch, Metadata{IsBracket: true, IsCrossover: true, IsStretch: true})
	set(BracketInvertFront, Metadata{IsBracket: true, IsInvert: true})
	set(BracketInvertBehind, Metadata{IsBracket: true, IsInvert: true})
	set(BracketInvertFrontStretch, Metadata{IsBracket: true, IsInvert: true, IsStretch: true})
	set(BracketInvertBehindStretch, Metadata{IsBracket: true, IsInvert: true, IsStretch: true})
	set(BracketStretch, Metadata{IsBracket: true, IsStretch: true})
	set(BracketSwing, Metadata{IsBracket: true, IsSwing: true})
}

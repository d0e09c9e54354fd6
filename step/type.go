package step

// Type labels a single foot-portion's transition between two GraphNodes.
// Ordinal values are part of the StepGraph binary persistence format
// (see package graphio); never reorder or remove an existing constant,
// only append and bump the format version.
type Type uint8

const (
	SameArrow Type = iota
	NewArrow
	NewArrowStretch

	CrossoverFront
	CrossoverBehind
	CrossoverFrontStretch
	CrossoverBehindStretch

	InvertFront
	InvertBehind
	InvertFrontStretch
	InvertBehindStretch

	FootSwap
	FootSwapCrossoverFront
	FootSwapCrossoverBehind
	FootSwapInvertFront
	FootSwapInvertBehind

	Swing

	BracketOneArrowHeelNew
	BracketOneArrowHeelNewStretch
	BracketOneArrowHeelNewCrossover
	BracketOneArrowHeelNewInvert
	BracketOneArrowHeelSame
	BracketOneArrowHeelSameStretch
	BracketOneArrowHeelSwap
	BracketOneArrowHeelSwapCrossover
	BracketOneArrowHeelSwapInvert

	BracketOneArrowToeNew
	BracketOneArrowToeNewStretch
	BracketOneArrowToeNewCrossover
	BracketOneArrowToeNewInvert
	BracketOneArrowToeSame
	BracketOneArrowToeSameStretch
	BracketOneArrowToeSwap
	BracketOneArrowToeSwapCrossover
	BracketOneArrowToeSwapInvert

	BracketHeelNewToeNew
	BracketHeelNewToeSame
	BracketHeelNewToeSwap
	BracketHeelSameToeNew
	BracketHeelSameToeSame
	BracketHeelSameToeSwap
	BracketHeelSwapToeNew
	BracketHeelSwapToeSame
	BracketHeelSwapToeSwap
	BracketHeelSwapToeSwapCrossover
	BracketHeelSwapToeSwapInvert

	BracketCrossoverFront
	BracketCrossoverBehind
	BracketCrossoverFrontStretch
	BracketCrossoverBehindStretch
	BracketInvertFront
	BracketInvertBehind
	BracketInvertFrontStretch
	BracketInvertBehindStretch
	BracketStretch
	BracketSwing

	numStepTypes
)

var typeNames = [numStepTypes]string{
	SameArrow:                        "SameArrow",
	NewArrow:                         "NewArrow",
	NewArrowStretch:                  "NewArrowStretch",
	CrossoverFront:                   "CrossoverFront",
	CrossoverBehind:                  "CrossoverBehind",
	CrossoverFrontStretch:            "CrossoverFrontStretch",
	CrossoverBehindStretch:           "CrossoverBehindStretch",
	InvertFront:                      "InvertFront",
	InvertBehind:                     "InvertBehind",
	InvertFrontStretch:               "InvertFrontStretch",
	InvertBehindStretch:              "InvertBehindStretch",
	FootSwap:                         "FootSwap",
	FootSwapCrossoverFront:           "FootSwapCrossoverFront",
	FootSwapCrossoverBehind:          "FootSwapCrossoverBehind",
	FootSwapInvertFront:              "FootSwapInvertFront",
	FootSwapInvertBehind:             "FootSwapInvertBehind",
	Swing:                            "Swing",
	BracketOneArrowHeelNew:           "BracketOneArrowHeelNew",
	BracketOneArrowHeelNewStretch:    "BracketOneArrowHeelNewStretch",
	BracketOneArrowHeelNewCrossover:  "BracketOneArrowHeelNewCrossover",
	BracketOneArrowHeelNewInvert:     "BracketOneArrowHeelNewInvert",
	BracketOneArrowHeelSame:          "BracketOneArrowHeelSame",
	BracketOneArrowHeelSameStretch:   "BracketOneArrowHeelSameStretch",
	BracketOneArrowHeelSwap:          "BracketOneArrowHeelSwap",
	BracketOneArrowHeelSwapCrossover: "BracketOneArrowHeelSwapCrossover",
	BracketOneArrowHeelSwapInvert:    "BracketOneArrowHeelSwapInvert",
	BracketOneArrowToeNew:            "BracketOneArrowToeNew",
	BracketOneArrowToeNewStretch:     "BracketOneArrowToeNewStretch",
	BracketOneArrowToeNewCrossover:   "BracketOneArrowToeNewCrossover",
	BracketOneArrowToeNewInvert:      "BracketOneArrowToeNewInvert",
	BracketOneArrowToeSame:           "BracketOneArrowToeSame",
	BracketOneArrowToeSameStretch:    "BracketOneArrowToeSameStretch",
	BracketOneArrowToeSwap:           "BracketOneArrowToeSwap",
	BracketOneArrowToeSwapCrossover:  "BracketOneArrowToeSwapCrossover",
	BracketOneArrowToeSwapInvert:     "BracketOneArrowToeSwapInvert",
	BracketHeelNewToeNew:             "BracketHeelNewToeNew",
	BracketHeelNewToeSame:            "BracketHeelNewToeSame",
	BracketHeelNewToeSwap:            "BracketHeelNewToeSwap",
	BracketHeelSameToeNew:            "BracketHeelSameToeNew",
	BracketHeelSameToeSame:           "BracketHeelSameToeSame",
	BracketHeelSameToeSwap:           "BracketHeelSameToeSwap",
	BracketHeelSwapToeNew:            "BracketHeelSwapToeNew",
	BracketHeelSwapToeSame:           "BracketHeelSwapToeSame",
	BracketHeelSwapToeSwap:           "BracketHeelSwapToeSwap",
	BracketHeelSwapToeSwapCrossover:  "BracketHeelSwapToeSwapCrossover",
	BracketHeelSwapToeSwapInvert:     "BracketHeelSwapToeSwapInvert",
	BracketCrossoverFront:            "BracketCrossoverFront",
	BracketCrossoverBehind:           "BracketCrossoverBehind",
	BracketCrossoverFrontStretch:     "BracketCrossoverFrontStretch",
	BracketCrossoverBehindStretch:    "BracketCrossoverBehindStretch",
	BracketInvertFront:               "BracketInvertFront",
	BracketInvertBehind:              "BracketInvertBehind",
	BracketInvertFrontStretch:        "BracketInvertFrontStretch",
	BracketInvertBehindStretch:       "BracketInvertBehindStretch",
	BracketStretch:                   "BracketStretch",
	BracketSwing:                     "BracketSwing",
}

func (t Type) String() string {
	if t < numStepTypes {
		if n := typeNames[t]; n != "" {
			return n
		}
	}
	return "StepType(?)"
}

// NumTypes is the number of distinct step type ordinals defined. Exposed so
// that graphio can assert ordinal stability at load time.
const NumTypes = int(numStepTypes)

// IsBracket reports whether t places or holds on two arrows with a single
// foot (either a full bracket or a bracket-one-arrow step).
func (t Type) IsBracket() bool {
	return Data[t].IsBracket
}

// IsBracketOneArrow reports whether t is a bracket step where the other
// portion of the foot was already resting before this transition.
func (t Type) IsBracketOneArrow() bool {
	return Data[t].IsBracketOneArrow
}

// IsCrossover reports whether t places the foot on the other foot's side of
// the body without a hip rotation.
func (t Type) IsCrossover() bool {
	return Data[t].IsCrossover
}

// IsInvert reports whether t requires the hips to be crossed past 90
// degrees.
func (t Type) IsInvert() bool {
	return Data[t].IsInvert
}

// IsStretch reports whether t is the stretch (unusually far apart) variant
// of a pairing.
func (t Type) IsStretch() bool {
	return Data[t].IsStretch
}

// IsFootSwap reports whether t hands an already-occupied arrow to the
// stepping foot.
func (t Type) IsFootSwap() bool {
	return Data[t].IsFootSwap
}

// IsSwing reports whether t is a transition through an intermediate pose
// between inverts and opposing crossovers.
func (t Type) IsSwing() bool {
	return Data[t].IsSwing
}

// ActingPortion reports the foot portion that performs a bracket-one-arrow
// step; meaningless when !t.IsBracketOneArrow().
func (t Type) ActingPortion() FootPortion {
	return Data[t].ActingPortion
}

package performed

import "github.com/padchart/stepgraph/step"

func fb(t step.Type) FallbackEntry { return FallbackEntry{Step: t} }

func fbInc(t step.Type) FallbackEntry { return FallbackEntry{Include: t, IsInclude: true} }

func chain(e ...FallbackEntry) []FallbackEntry { return e }

// DefaultStepTypeFallbacks returns a complete fallback table: every step
// type degrades toward simpler footing of the same family, bottoming out
// at NewArrow/SameArrow. Each key's list leads with the type itself so an
// Include of that key carries the whole family, most-faithful first.
func DefaultStepTypeFallbacks() map[step.Type][]FallbackEntry {
	m := make(map[step.Type][]FallbackEntry, step.NumTypes)

	m[step.SameArrow] = chain(fb(step.SameArrow))
	m[step.NewArrow] = chain(fb(step.NewArrow), fb(step.SameArrow))
	m[step.NewArrowStretch] = chain(fb(step.NewArrowStretch), fbInc(step.NewArrow))

	m[step.CrossoverFront] = chain(fb(step.CrossoverFront), fbInc(step.NewArrow))
	m[step.CrossoverBehind] = chain(fb(step.CrossoverBehind), fbInc(step.NewArrow))
	m[step.CrossoverFrontStretch] = chain(fb(step.CrossoverFrontStretch), fbInc(step.CrossoverFront))
	m[step.CrossoverBehindStretch] = chain(fb(step.CrossoverBehindStretch), fbInc(step.CrossoverBehind))

	m[step.InvertFront] = chain(fb(step.InvertFront), fbInc(step.CrossoverFront))
	m[step.InvertBehind] = chain(fb(step.InvertBehind), fbInc(step.CrossoverBehind))
	m[step.InvertFrontStretch] = chain(fb(step.InvertFrontStretch), fbInc(step.InvertFront))
	m[step.InvertBehindStretch] = chain(fb(step.InvertBehindStretch), fbInc(step.InvertBehind))

	m[step.FootSwap] = chain(fb(step.FootSwap), fb(step.SameArrow), fb(step.NewArrow))
	m[step.FootSwapCrossoverFront] = chain(fb(step.FootSwapCrossoverFront), fbInc(step.FootSwap), fbInc(step.CrossoverFront))
	m[step.FootSwapCrossoverBehind] = chain(fb(step.FootSwapCrossoverBehind), fbInc(step.FootSwap), fbInc(step.CrossoverBehind))
	m[step.FootSwapInvertFront] = chain(fb(step.FootSwapInvertFront), fbInc(step.FootSwap), fbInc(step.InvertFront))
	m[step.FootSwapInvertBehind] = chain(fb(step.FootSwapInvertBehind), fbInc(step.FootSwap), fbInc(step.InvertBehind))

	m[step.Swing] = chain(fb(step.Swing), fbInc(step.CrossoverFront), fbInc(step.CrossoverBehind))

	m[step.BracketOneArrowHeelNew] = chain(fb(step.BracketOneArrowHeelNew), fbInc(step.NewArrow))
	m[step.BracketOneArrowHeelNewStretch] = chain(fb(step.BracketOneArrowHeelNewStretch), fbInc(step.BracketOneArrowHeelNew))
	m[step.BracketOneArrowHeelNewCrossover] = chain(fb(step.BracketOneArrowHeelNewCrossover), fbInc(step.BracketOneArrowHeelNew), fbInc(step.CrossoverFront))
	m[step.BracketOneArrowHeelNewInvert] = chain(fb(step.BracketOneArrowHeelNewInvert), fbInc(step.BracketOneArrowHeelNew), fbInc(step.InvertFront))
	m[step.BracketOneArrowHeelSame] = chain(fb(step.BracketOneArrowHeelSame), fbInc(step.SameArrow))
	m[step.BracketOneArrowHeelSameStretch] = chain(fb(step.BracketOneArrowHeelSameStretch), fbInc(step.BracketOneArrowHeelSame))
	m[step.BracketOneArrowHeelSwap] = chain(fb(step.BracketOneArrowHeelSwap), fbInc(step.FootSwap))
	m[step.BracketOneArrowHeelSwapCrossover] = chain(fb(step.BracketOneArrowHeelSwapCrossover), fbInc(step.BracketOneArrowHeelSwap))
	m[step.BracketOneArrowHeelSwapInvert] = chain(fb(step.BracketOneArrowHeelSwapInvert), fbInc(step.BracketOneArrowHeelSwap))

	m[step.BracketOneArrowToeNew] = chain(fb(step.BracketOneArrowToeNew), fbInc(step.NewArrow))
	m[step.BracketOneArrowToeNewStretch] = chain(fb(step.BracketOneArrowToeNewStretch), fbInc(step.BracketOneArrowToeNew))
	m[step.BracketOneArrowToeNewCrossover] = chain(fb(step.BracketOneArrowToeNewCrossover), fbInc(step.BracketOneArrowToeNew), fbInc(step.CrossoverFront))
	m[step.BracketOneArrowToeNewInvert] = chain(fb(step.BracketOneArrowToeNewInvert), fbInc(step.BracketOneArrowToeNew), fbInc(step.InvertFront))
	m[step.BracketOneArrowToeSame] = chain(fb(step.BracketOneArrowToeSame), fbInc(step.SameArrow))
	m[step.BracketOneArrowToeSameStretch] = chain(fb(step.BracketOneArrowToeSameStretch), fbInc(step.BracketOneArrowToeSame))
	m[step.BracketOneArrowToeSwap] = chain(fb(step.BracketOneArrowToeSwap), fbInc(step.FootSwap))
	m[step.BracketOneArrowToeSwapCrossover] = chain(fb(step.BracketOneArrowToeSwapCrossover), fbInc(step.BracketOneArrowToeSwap))
	m[step.BracketOneArrowToeSwapInvert] = chain(fb(step.BracketOneArrowToeSwapInvert), fbInc(step.BracketOneArrowToeSwap))

	m[step.BracketHeelNewToeNew] = chain(fb(step.BracketHeelNewToeNew), fbInc(step.BracketOneArrowHeelNew), fbInc(step.BracketOneArrowToeNew))
	m[step.BracketHeelNewToeSame] = chain(fb(step.BracketHeelNewToeSame), fbInc(step.BracketOneArrowHeelNew), fbInc(step.BracketOneArrowToeSame))
	m[step.BracketHeelNewToeSwap] = chain(fb(step.BracketHeelNewToeSwap), fbInc(step.BracketOneArrowHeelNew), fbInc(step.BracketOneArrowToeSwap))
	m[step.BracketHeelSameToeNew] = chain(fb(step.BracketHeelSameToeNew), fbInc(step.BracketOneArrowToeNew), fbInc(step.BracketOneArrowHeelSame))
	m[step.BracketHeelSameToeSame] = chain(fb(step.BracketHeelSameToeSame), fbInc(step.BracketOneArrowHeelSame), fbInc(step.BracketOneArrowToeSame))
	m[step.BracketHeelSameToeSwap] = chain(fb(step.BracketHeelSameToeSwap), fbInc(step.BracketOneArrowToeSwap), fbInc(step.BracketOneArrowHeelSame))
	m[step.BracketHeelSwapToeNew] = chain(fb(step.BracketHeelSwapToeNew), fbInc(step.BracketOneArrowHeelSwap), fbInc(step.BracketOneArrowToeNew))
	m[step.BracketHeelSwapToeSame] = chain(fb(step.BracketHeelSwapToeSame), fbInc(step.BracketOneArrowHeelSwap), fbInc(step.BracketOneArrowToeSame))
	m[step.BracketHeelSwapToeSwap] = chain(fb(step.BracketHeelSwapToeSwap), fbInc(step.BracketOneArrowHeelSwap), fbInc(step.BracketOneArrowToeSwap))
	m[step.BracketHeelSwapToeSwapCrossover] = chain(fb(step.BracketHeelSwapToeSwapCrossover), fbInc(step.BracketHeelSwapToeSwap))
	m[step.BracketHeelSwapToeSwapInvert] = chain(fb(step.BracketHeelSwapToeSwapInvert), fbInc(step.BracketHeelSwapToeSwap))

	m[step.BracketCrossoverFront] = chain(fb(step.BracketCrossoverFront), fbInc(step.BracketHeelNewToeNew), fbInc(step.CrossoverFront))
	m[step.BracketCrossoverBehind] = chain(fb(step.BracketCrossoverBehind), fbInc(step.BracketHeelNewToeNew), fbInc(step.CrossoverBehind))
	m[step.BracketCrossoverFrontStretch] = chain(fb(step.BracketCrossoverFrontStretch), fbInc(step.BracketCrossoverFront))
	m[step.BracketCrossoverBehindStretch] = chain(fb(step.BracketCrossoverBehindStretch), fbInc(step.BracketCrossoverBehind))
	m[step.BracketInvertFront] = chain(fb(step.BracketInvertFront), fbInc(step.BracketCrossoverFront), fbInc(step.InvertFront))
	m[step.BracketInvertBehind] = chain(fb(step.BracketInvertBehind), fbInc(step.BracketCrossoverBehind), fbInc(step.InvertBehind))
	m[step.BracketInvertFrontStretch] = chain(fb(step.BracketInvertFrontStretch), fbInc(step.BracketInvertFront))
	m[step.BracketInvertBehindStretch] = chain(fb(step.BracketInvertBehindStretch), fbInc(step.BracketInvertBehind))
	m[step.BracketStretch] = chain(fb(step.BracketStretch), fbInc(step.BracketHeelNewToeNew))
	m[step.BracketSwing] = chain(fb(step.BracketSwing), fbInc(step.BracketHeelNewToeNew), fbInc(step.Swing))

	return m
}

// DefaultConfig returns a Config with the full fallback table, even
// per-lane weights, and tightening bounds tuned for a standing dance pad.
// Callers that reuse the returned Config across many charts should assign
// a CacheID to share the fallback-resolution cache.
func DefaultConfig(numArrows int) Config {
	weights := make([]float64, numArrows)
	for i := range weights {
		weights[i] = 1
	}
	return Config{
		Facing: FacingLimits{MaxInwardPercentage: 1, MaxOutwardPercentage: 1},
		StepTightening: StepTightening{
			TravelSpeedMinTimeSeconds: 0.1,
			TravelSpeedMaxTimeSeconds: 0.2,
			TravelDistanceMin:         1.4,
			TravelDistanceMax:         2.3,
			StretchDistanceMin:        2.3,
			StretchDistanceMax:        3.0,
		},
		LateralTightening: LateralTightening{
			PatternLength: 5,
			RelativeNPS:   1.65,
			AbsoluteNPS:   12,
			Speed:         3,
		},
		StepTypeFallbacks:          DefaultStepTypeFallbacks(),
		ArrowWeights:               map[string][]float64{"default": weights},
		MaxSameArrowsInARowPerFoot: 4,
	}
}

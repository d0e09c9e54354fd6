package performed

import (
	"github.com/padchart/stepgraph/graph"
	"github.com/padchart/stepgraph/pad"
	"github.com/padchart/stepgraph/step"
)

// Fallback-cost weights. PerformedChartConfig does not expose these as
// tunable fields, so — like expressed's cost bands — they are fixed
// constants here, not configuration.
const (
	cBlankStep       = 500.0
	cBlankSingleStep = 150.0
	cDroppedArrow    = 40.0
	cMisleading      = 80.0
	cAmbiguous       = 20.0
	cStreakOverMax   = 300.0
)

// costVector is one SearchNode's accumulated PerformedChart cost, compared
// lexicographically field by field in declaration order. SectionStepTypeCost
// is always zero: PerformedChartConfig exposes no section ratio or boundary
// to deviate from. Kept as a named field (rather than dropped) so the
// lexicographic position of the remaining terms stays put; see DESIGN.md.
type costVector struct {
	FallbackStep    float64
	Misleading      int
	Ambiguous       int
	StreakOverMax   int
	Stretch         float64
	TravelDistance  float64
	TravelSpeed     float64
	SectionStepType float64
	LateralSpeed    float64
	Distribution    float64
	Random          float64
}

func addCostVector(a, b costVector) costVector {
	return costVector{
		FallbackStep:    a.FallbackStep + b.FallbackStep,
		Misleading:      a.Misleading + b.Misleading,
		Ambiguous:       a.Ambiguous + b.Ambiguous,
		StreakOverMax:   a.StreakOverMax + b.StreakOverMax,
		Stretch:         a.Stretch + b.Stretch,
		TravelDistance:  a.TravelDistance + b.TravelDistance,
		TravelSpeed:     a.TravelSpeed + b.TravelSpeed,
		SectionStepType: a.SectionStepType + b.SectionStepType,
		LateralSpeed:    a.LateralSpeed + b.LateralSpeed,
		Distribution:    a.Distribution + b.Distribution,
		Random:          a.Random + b.Random,
	}
}

// lessCost is the lexicographic comparison: each term dominates every term
// after it.
func lessCost(a, b costVector) bool {
	if a.FallbackStep != b.FallbackStep {
		return a.FallbackStep < b.FallbackStep
	}
	if a.Misleading != b.Misleading {
		return a.Misleading < b.Misleading
	}
	if a.Ambiguous != b.Ambiguous {
		return a.Ambiguous < b.Ambiguous
	}
	if a.StreakOverMax != b.StreakOverMax {
		return a.StreakOverMax < b.StreakOverMax
	}
	if a.Stretch != b.Stretch {
		return a.Stretch < b.Stretch
	}
	if a.TravelDistance != b.TravelDistance {
		return a.TravelDistance < b.TravelDistance
	}
	if a.TravelSpeed != b.TravelSpeed {
		return a.TravelSpeed < b.TravelSpeed
	}
	if a.SectionStepType != b.SectionStepType {
		return a.SectionStepType < b.SectionStepType
	}
	if a.LateralSpeed != b.LateralSpeed {
		return a.LateralSpeed < b.LateralSpeed
	}
	if a.Distribution != b.Distribution {
		return a.Distribution < b.Distribution
	}
	return a.Random < b.Random
}

// fallbackStepCost prices one resolved replacement candidate: a whole-link
// blank is the most expensive, a
// single-foot blank within a jump less so, each (approximated) dropped
// portion adds a smaller increment, and the fallback-index sum contributes
// a small fractional bias so otherwise-tied candidates still prefer
// earlier entries in the resolved chain.
func fallbackStepCost(r linkReplacement) float64 {
	var cost float64
	switch {
	case r.LeftActs && r.RightActs:
		switch {
		case r.Left.Blank && r.Right.Blank:
			cost += cBlankStep
		case r.Left.Blank || r.Right.Blank:
			cost += cBlankSingleStep
		}
	case r.LeftActs && r.Left.Blank:
		cost += cBlankStep
	case r.RightActs && r.Right.Blank:
		cost += cBlankStep
	}
	cost += cDroppedArrow * float64(r.droppedPortions)
	cost += float64(r.fallbackIndexSum) / 100.0
	return cost
}

// isAmbiguousStep reports whether a single-foot step at parent could have
// been played by the other foot instead, landing on the same arrow with no
// cue to tell a player which foot was intended.
func isAmbiguousStep(parent *graph.Node, link graph.Link, child *graph.Node) bool {
	leftActs, rightActs := link.FootActs(step.Left), link.FootActs(step.Right)
	if leftActs == rightActs {
		return false
	}
	actingFoot := step.Left
	if rightActs {
		actingFoot = step.Right
	}
	other := actingFoot.Other()

	arrow := step.InvalidArrow
	for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
		if link[actingFoot][pp].Valid {
			arrow = child.Matrix[actingFoot][pp].Arrow
			break
		}
	}
	if arrow == step.InvalidArrow {
		return false
	}

	for l, children := range parent.Edges() {
		if !l.FootActs(other) || l.FootActs(actingFoot) {
			continue
		}
		for _, c := range children {
			for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
				if l[other][pp].Valid && c.Matrix[other][pp].Arrow == arrow {
					return true
				}
			}
		}
	}
	return false
}

// isMisleadingJump reports whether a NewArrow+NewArrow jump at parent lands
// both feet back on the arrows they already stood on — a reasonable player
// would read that as two SameArrow taps, not a jump onto new arrows.
func isMisleadingJump(parent, child *graph.Node, link graph.Link) bool {
	leftT, leftActs := sourceFootType(link, step.Left)
	rightT, rightActs := sourceFootType(link, step.Right)
	if !leftActs || !rightActs || leftT != step.NewArrow || rightT != step.NewArrow {
		return false
	}
	leftArrow := child.Matrix[step.Left][step.DefaultPortion].Arrow
	rightArrow := child.Matrix[step.Right][step.DefaultPortion].Arrow
	parentLeft := parent.Matrix[step.Left][step.DefaultPortion].Arrow
	parentRight := parent.Matrix[step.Right][step.DefaultPortion].Arrow
	return leftArrow == parentLeft && rightArrow == parentRight
}

// normalizedOvershoot maps a measured distance to a [0,1] cost: 0 at or
// below min, 1 at or above max, linear between. Shared by stretchCost and
// travelCost.
func normalizedOvershoot(measured, min, max float64) float64 {
	if measured <= min {
		return 0
	}
	if max <= min || measured >= max {
		return 1
	}
	return (measured - min) / (max - min)
}

// stretchCost measures how far apart the two feet's
// default-portion arrows are on the target pad, normalized against
// StretchDistanceMin/Max.
func stretchCost(p *pad.Data, n *graph.Node, cfg Config) float64 {
	left := n.Matrix[step.Left][step.DefaultPortion].Arrow
	right := n.Matrix[step.Right][step.DefaultPortion].Arrow
	if left == step.InvalidArrow || right == step.InvalidArrow {
		return 0
	}
	d := p.ArrowDistance(left, right)
	return normalizedOvershoot(d, cfg.StepTightening.StretchDistanceMin, cfg.StepTightening.StretchDistanceMax)
}

// travelCost returns the TravelDistance and TravelSpeed cost contribution
// for one foot's move from (fromArrow, fromTime) to
// (toArrow, toTime).
func travelCost(p *pad.Data, fromArrow int, fromTime float64, toArrow int, toTime float64, cfg Config) (distanceCost, speedCost float64) {
	if fromArrow == step.InvalidArrow {
		return 0, 0
	}
	d := p.ArrowDistance(fromArrow, toArrow)
	distanceCost = normalizedOvershoot(d, cfg.StepTightening.TravelDistanceMin, cfg.StepTightening.TravelDistanceMax)

	dt := toTime - fromTime
	if dt < cfg.StepTightening.TravelSpeedMinTimeSeconds && dt >= 0 {
		deficit := cfg.StepTightening.TravelSpeedMinTimeSeconds - dt
		speedCost = deficit * d
	}
	return distanceCost, speedCost
}

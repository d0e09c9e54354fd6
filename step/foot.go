// Package step holds the static, load-once metadata that describes how a
// human foot can act: which foot, which portion of the foot, what kind of
// action it takes against an arrow, and what a given step type implies about
// bracketing, footswaps, and jump eligibility.
//
// Everything in this package is immutable after init(). Nothing here knows
// about a specific pad layout; that lives in package pad.
package step

// NumFeet is the number of feet a dancer has on a pad: always two.
const NumFeet = 2

// NumFootPortions is the number of portions a single foot can independently
// cover: heel and toe, used to represent brackets.
const NumFootPortions = 2

// DefaultPortion is the foot portion used when a foot is not bracketing.
const DefaultPortion = Heel

// InvalidArrow marks a foot portion that is not resting on any arrow.
const InvalidArrow = -1

// Foot identifies which of the two feet a FootArrowState belongs to.
type Foot int

const (
	Left Foot = iota
	Right
)

// Other returns the opposite foot.
func (f Foot) Other() Foot {
	if f == Left {
		return Right
	}
	return Left
}

func (f Foot) String() string {
	if f == Left {
		return "Left"
	}
	return "Right"
}

// FootPortion identifies which portion of a foot a FootArrowState describes.
type FootPortion int

const (
	Heel FootPortion = iota
	Toe
)

func (p FootPortion) String() string {
	if p == Heel {
		return "Heel"
	}
	return "Toe"
}

// GraphArrowState is the occupancy state of one foot portion with respect to
// the arrow it names.
type GraphArrowState int

const (
	// Resting means this portion is standing still on the arrow, not mid-hold.
	Resting GraphArrowState = iota
	// Held means this portion is sustaining a hold or roll on the arrow.
	Held
	// Lifted means this portion was swapped off the arrow by the other foot
	// and is held just above it; it is a memory of footing, never contact.
	Lifted

	// NumGraphArrowStates is the number of GraphArrowState ordinals. Part of
	// the StepGraph binary persistence format's ordinal-stability check.
	NumGraphArrowStates = 3
)

func (s GraphArrowState) String() string {
	switch s {
	case Resting:
		return "Resting"
	case Held:
		return "Held"
	case Lifted:
		return "Lifted"
	default:
		return "GraphArrowState(?)"
	}
}

// FootAction is the action a GraphLink cell performs against the target
// arrow for one foot portion.
type FootAction int

const (
	Tap FootAction = iota
	Hold
	Release

	// NumFootActions is the number of FootAction ordinals. Part of the
	// StepGraph binary persistence format's ordinal-stability check.
	NumFootActions = 3
)

func (a FootAction) String() string {
	switch a {
	case Tap:
		return "Tap"
	case Hold:
		return "Hold"
	case Release:
		return "Release"
	default:
		return "FootAction(?)"
	}
}

// StateAfterAction is the GraphArrowState a portion settles into once
// FootAction has been applied. Computed once; never mutated.
var StateAfterAction = map[FootAction]GraphArrowState{
	Tap:     Resting,
	Hold:    Held,
	Release: Resting,
}

// InstanceStepType annotates a GraphLinkInstance cell with surface-level
// flavor that does not change search topology: roll vs. hold, fake/lift vs.
// a real tap.
type InstanceStepType int

const (
	Default InstanceStepType = iota
	Roll
	Fake
	Lift
)

func (i InstanceStepType) String() string {
	switch i {
	case Default:
		return "Default"
	case Roll:
		return "Roll"
	case Fake:
		return "Fake"
	case Lift:
		return "Lift"
	default:
		return "InstanceStepType(?)"
	}
}

// BodyOrientation is the dancer's hip orientation implied by a GraphNode.
type BodyOrientation int

const (
	Normal BodyOrientation = iota
	InvertedLeftOverRight
	InvertedRightOverLeft
)

func (o BodyOrientation) String() string {
	switch o {
	case Normal:
		return "Normal"
	case InvertedLeftOverRight:
		return "InvertedLeftOverRight"
	case InvertedRightOverLeft:
		return "InvertedRightOverLeft"
	default:
		return "BodyOrientation(?)"
	}
}

// IsInverted reports whether the orientation represents crossed hips.
func (o BodyOrientation) IsInverted() bool {
	return o == InvertedLeftOverRight || o == InvertedRightOverLeft
}

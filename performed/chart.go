package performed

import (
	"github.com/padchart/stepgraph/chartevents"
	"github.com/padchart/stepgraph/corerr"
	"github.com/padchart/stepgraph/graph"
	"github.com/padchart/stepgraph/step"
)

// StepNode is one settled step of a PerformedChart: the target GraphNode
// reached, the Link taken to reach it from the previous StepNode, and the
// per-cell InstanceStepType flavor (Fake/Lift/Roll/plain) carried through
// unchanged from the source ExpressedChart StepEvent.
type StepNode struct {
	Position int
	Time     float64
	Node     *graph.Node
	Link     graph.Link
	Instance [step.NumFeet][step.NumFootPortions]step.InstanceStepType
}

// Mine is one placed hazard note on the performed chart, resolved against
// the settled StepNode chain by placeMines.
type Mine struct {
	Position int
	Time     float64
	Lane     int
}

// Chart is the built PerformedChart: a position-ordered StepNode chain plus
// its placed Mines.
type Chart struct {
	Steps []StepNode
	Mines []Mine
}

// collectPerformedChain walks the predecessor chain from the winning
// terminal searchNode back to the root, in the same root-first collection
// style as package expressed's collectChain.
func collectPerformedChain(final *searchNode) []StepNode {
	var reversed []*searchNode
	for cur := final; cur != nil && cur.Pred != nil; cur = cur.Pred {
		reversed = append(reversed, cur)
	}
	out := make([]StepNode, len(reversed))
	for i, cur := range reversed {
		j := len(reversed) - 1 - i
		out[j] = StepNode{
			Position: cur.Position,
			Time:     cur.Time,
			Node:     cur.Node,
			Link:     cur.Link,
			Instance: cur.Instance,
		}
	}
	return out
}

// issuesErr collapses a Validate() issue list into a single error, in the
// same style as package expressed's Express.
func issuesErr(issues []corerr.Issue) error {
	var list corerr.List
	for _, i := range issues {
		list.Add(i.Severity, i.Kind, i.Component, "%s", i.Message)
	}
	return list.Err()
}

// instanceNoteType maps one acting LinkCell's FootAction/InstanceStepType
// pair to the flat chartevents.NoteType it surfaces as, reusing
// chartevents' existing NoteType taxonomy rather than a second, parallel
// set of note types.
func instanceNoteType(action step.FootAction, flavor step.InstanceStepType) chartevents.NoteType {
	switch action {
	case step.Release:
		return chartevents.HoldEnd
	case step.Hold:
		if flavor == step.Roll {
			return chartevents.RollStart
		}
		return chartevents.HoldStart
	default: // step.Tap
		switch flavor {
		case step.Fake:
			return chartevents.Fake
		case step.Lift:
			return chartevents.Lift
		default:
			return chartevents.Tap
		}
	}
}

// Events flattens the PerformedChart into a position/time-ordered
// chartevents.Chart: one event per acting LinkCell across every StepNode,
// plus one Mine event per placed mine.
func (c *Chart) Events() *chartevents.Chart {
	var events []chartevents.Event
	for _, sn := range c.Steps {
		for f := step.Foot(0); f < step.NumFeet; f++ {
			for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
				cell := sn.Link[f][pp]
				if !cell.Valid {
					continue
				}
				arrow := sn.Node.Matrix[f][pp].Arrow
				events = append(events, chartevents.Event{
					Position: sn.Position,
					Time:     sn.Time,
					Type:     instanceNoteType(cell.Action, sn.Instance[f][pp]),
					Lane:     arrow,
				})
			}
		}
	}
	for _, m := range c.Mines {
		events = append(events, chartevents.Event{
			Position: m.Position,
			Time:     m.Time,
			Type:     chartevents.Mine,
			Lane:     m.Lane,
		})
	}
	return chartevents.New(events)
}

package expressed

import (
	"github.com/padchart/stepgraph/chartevents"
	"github.com/padchart/stepgraph/corerr"
	"github.com/padchart/stepgraph/graph"
	"github.com/padchart/stepgraph/mineutils"
	"github.com/padchart/stepgraph/step"
)

// MineAssociation is how a MineEvent is tied to a nearby step.
type MineAssociation int

const (
	AfterArrow MineAssociation = iota
	BeforeArrow
	NoArrow
)

func (m MineAssociation) String() string {
	switch m {
	case AfterArrow:
		return "AfterArrow"
	case BeforeArrow:
		return "BeforeArrow"
	default:
		return "NoArrow"
	}
}

// StepEvent is one foot-intent arrival: the link describes the footing
// that arrives at this position.
type StepEvent struct {
	Position int
	Time     float64
	Link     graph.Instance
}

// MineEvent is one hazard note, associated with a nearby step.
type MineEvent struct {
	Position     int
	Time         float64
	OriginalLane int
	Association  MineAssociation
	NthClosest   int
	FootPaired   step.Foot
}

// Chart is the built ExpressedChart: a position-ordered StepEvent stream
// plus the mines resolved against it.
type Chart struct {
	Steps         []StepEvent
	Mines         []MineEvent
	Method        BracketParsingMethod
	FinalNode     *graph.Node
	FinalPosition int
}

// Express builds an ExpressedChart from a source StepGraph and chart.
// It resolves the bracket-parsing method (running a
// preliminary Balanced search first if the config asks for dynamic
// determination), runs the frontier search, and resolves mines against
// the settled step chain.
func Express(g *graph.Graph, chart *chartevents.Chart, cfg Config, difficulty int) (*Chart, error) {
	if issues := cfg.Validate(); len(issues) > 0 {
		var list corerr.List
		for _, i := range issues {
			list.Add(i.Severity, i.Kind, i.Component, "%s", i.Message)
		}
		return nil, list.Err()
	}

	method := cfg.resolveMethod(difficulty, chart.MaxSimultaneous(), step.NumFeet, func() float64 {
		prelim, err := runSearch(g, chart, Balanced)
		if err != nil {
			return 0
		}
		return bracketsPerMinute(prelim)
	})

	final, err := runSearch(g, chart, method)
	if err != nil {
		var list corerr.List
		list.Add(corerr.Error, corerr.KindExpressionFailed, "expressed",
			"search failed with method %v: %v", method, err)
		return nil, list.Err()
	}

	steps, chain := collectChain(final)
	mines := resolveMines(g, chart, chain)

	return &Chart{
		Steps:         steps,
		Mines:         mines,
		Method:        method,
		FinalNode:     final.Node,
		FinalPosition: final.Position,
	}, nil
}

func bracketsPerMinute(n *searchNode) float64 {
	brackets := 0
	lastTime, firstTime := 0.0, 0.0
	first := true
	for cur := n; cur != nil && cur.Pred != nil; cur = cur.Pred {
		if first {
			lastTime = cur.Time
			first = false
		}
		firstTime = cur.Time
		for f := step.Foot(0); f < step.NumFeet; f++ {
			if cur.Link[f][step.Heel].Valid && cur.Link[f][step.Toe].Valid {
				brackets++
				break
			}
		}
	}
	minutes := (lastTime - firstTime) / 60.0
	if minutes <= 0 {
		return 0
	}
	return float64(brackets) / minutes
}

// collectChain walks the predecessor chain from the winning terminal node
// back to the root and returns both the public StepEvent sequence and the
// parallel mineutils.ChainEntry sequence (which retains the actual Node at
// each step, needed to diff arrow occupancy for mine placement), both in
// forward (root-first) order.
func collectChain(n *searchNode) ([]StepEvent, []mineutils.ChainEntry) {
	var reversed []*searchNode
	for cur := n; cur != nil && cur.Pred != nil; cur = cur.Pred {
		reversed = append(reversed, cur)
	}
	steps := make([]StepEvent, len(reversed))
	chain := make([]mineutils.ChainEntry, len(reversed))
	for i, cur := range reversed {
		j := len(reversed) - 1 - i
		steps[j] = StepEvent{
			Position: cur.Position,
			Time:     cur.Time,
			Link:     graph.Instance{Link: cur.Link, Instance: cur.Instance},
		}
		chain[j] = mineutils.ChainEntry{Position: cur.Position, Node: cur.Node, Link: cur.Link}
	}
	return steps, chain
}

func resolveMines(g *graph.Graph, chart *chartevents.Chart, chain []mineutils.ChainEntry) []MineEvent {
	_, stepEvents := mineutils.ReleasesAndSteps(chain, g.Pad.NumArrows())

	var mines []MineEvent
	for _, pos := range chart.Positions() {
		for _, e := range chart.AtPosition(pos) {
			if e.Type != chartevents.Mine {
				continue
			}
			mines = append(mines, resolveOneMine(e, stepEvents))
		}
	}
	return mines
}

func resolveOneMine(e chartevents.Event, steps []mineutils.Event) MineEvent {
	n, foot, ok := mineutils.HowRecent(steps, e.Lane, e.Position, mineutils.Backward)
	if ok {
		return MineEvent{Position: e.Position, Time: e.Time, OriginalLane: e.Lane,
			Association: AfterArrow, NthClosest: n, FootPaired: foot}
	}
	n, foot, ok = mineutils.HowRecent(steps, e.Lane, e.Position, mineutils.Forward)
	if ok {
		return MineEvent{Position: e.Position, Time: e.Time, OriginalLane: e.Lane,
			Association: BeforeArrow, NthClosest: n, FootPaired: foot}
	}
	return MineEvent{Position: e.Position, Time: e.Time, OriginalLane: e.Lane, Association: NoArrow}
}

package expressed

import (
	"fmt"

	"github.com/padchart/stepgraph/chartevents"
	"github.com/padchart/stepgraph/graph"
	"github.com/padchart/stepgraph/step"
)

// searchNode is one ChartSearchNode of the frontier search: the
// GraphNode reached, the position/time it was reached at, its cumulative
// cost and orientation cost, the link taken to reach it, and enough
// per-path memory (last acting foot, its streak, whether the prior
// transition was a solo bracket) to price the next transition without
// re-walking the whole predecessor chain.
type searchNode struct {
	ID         uint64
	Node       *graph.Node
	Position   int
	Time       float64
	Cost       float64
	OrientCost float64

	Pred     *searchNode
	Link     graph.Link
	Instance [step.NumFeet][step.NumFootPortions]step.InstanceStepType

	HasActingFoot  bool
	ActingFoot     step.Foot
	LastArrow      int
	Consecutive    int
	LastWasBracket bool
}

// Cost bands, ordered so categorical decisions dominate subtle ones per
// the big-gap constant schedule of the search's cost model.
const (
	cRelease              = 1.0
	cSameOrAltNew         = 10.0
	cNewArrowStretch      = 18.0
	cFootSwap             = 20.0
	cSameArrowRepeat      = 25.0
	cSwapAfterBracket     = 80.0
	cBracketBase          = 40.0
	cBracketSolo          = 45.0
	cCrossover            = 60.0
	cCrossoverStretch     = 90.0
	cBracketOverCrossover = 250.0
	cInvert               = 150.0
	cInvertStretch        = 200.0
	cBracketOverInvert    = 400.0
	cSwing                = 70.0
	cDoubleStep           = 1000.0
	cDoubleStepMined      = 400.0
	cTripleStepStep       = 2000.0
)

// Orientation costs are a secondary scalar, purely a tie-breaker.
const (
	oNormal    = 0.0
	oCrossover = 1.0
	oInvert    = 3.0
)

// mineWindowTicks bounds how far back a mine may sit and still count as
// "shortly before this step" for the double-step cost break: half a beat
// at the usual 192 ticks per beat.
const mineWindowTicks = 96

// runSearch performs the frontier search over source StepGraph g for
// chart, using bracketParsingMethod to filter/weight bracket
// transitions, and returns the single cheapest terminal ChartSearchNode.
func runSearch(g *graph.Graph, chart *chartevents.Chart, method BracketParsingMethod) (*searchNode, error) {
	numLanes := g.Pad.NumArrows()
	sustain := make([]laneSustain, numLanes)
	lastMinePos := make(map[int]int)

	frontier := []*searchNode{{Node: g.Root, LastArrow: step.InvalidArrow}}
	var nextID uint64 = 1

	for _, pos := range chart.Positions() {
		events := chart.AtPosition(pos)
		t, _ := chart.TimeAt(pos)

		for _, e := range events {
			if e.Type == chartevents.Mine {
				lastMinePos[e.Lane] = pos
			}
		}

		req := buildRequirements(events, sustain)
		if !req.hasActionable() {
			// Mines (and lanes merely sustaining a hold) need no transition;
			// the frontier carries over to the next position unchanged.
			continue
		}

		var next []*searchNode
		for _, sn := range frontier {
			try := func(link graph.Link, child *graph.Node) {
				if method == NoBrackets && link.IsAnyBracket() {
					return
				}
				instance, ok := req.satisfiedBy(sn.Node, child, link, numLanes)
				if !ok {
					return
				}
				next = append(next, applyTransition(sn, nextID, child, link, instance, pos, t, method, lastMinePos, g))
				nextID++
			}

			// A foot tapping the arrow it is already Resting on leaves the
			// body-state Matrix unchanged, so graph.Build never materializes
			// it as an edge (an edge requires from != to). The search
			// synthesizes those in-place SameArrow taps here: on their own
			// (child == parent) and layered onto any edge whose own cells
			// leave the required lane untouched.
			if link, changed := augmentInPlace(sn.Node, sn.Node, graph.Link{}, req); changed {
				try(link, sn.Node)
			}
			for link, children := range sn.Node.Edges() {
				for _, child := range children {
					try(link, child)
					if aug, changed := augmentInPlace(sn.Node, child, link, req); changed {
						try(aug, child)
					}
				}
			}
		}
		if len(next) == 0 {
			return nil, fmt.Errorf("expressed: no valid transition satisfies position %d under %v", pos, method)
		}
		frontier = prune(next)
		advanceSustain(sustain, req)
	}

	if len(frontier) == 0 {
		return nil, fmt.Errorf("expressed: search produced an empty frontier")
	}
	best := frontier[0]
	for _, n := range frontier[1:] {
		if less(n, best) {
			best = n
		}
	}
	return best, nil
}

func applyTransition(sn *searchNode, id uint64, child *graph.Node, link graph.Link, instance [step.NumFeet][step.NumFootPortions]step.InstanceStepType, pos int, t float64, method BracketParsingMethod, lastMinePos map[int]int, g *graph.Graph) *searchNode {
	cost, orient, actingFoot, hasActing, lastArrow, consecutive, wasBracket := incrementalCost(sn, link, child, method, lastMinePos, pos, g)
	return &searchNode{
		ID:             id,
		Node:           child,
		Position:       pos,
		Time:           t,
		Cost:           sn.Cost + cost,
		OrientCost:     sn.OrientCost + orient,
		Pred:           sn,
		Link:           link,
		Instance:       instance,
		HasActingFoot:  hasActing,
		ActingFoot:     actingFoot,
		LastArrow:      lastArrow,
		Consecutive:    consecutive,
		LastWasBracket: wasBracket,
	}
}

// incrementalCost prices one GraphLink transition out of sn, and returns
// the per-path memory the next transition needs (last acting foot, the
// arrow it landed on, its streak, whether this transition was a solo
// bracket) to detect double/triple-stepping and swap-after-bracket without
// re-walking the predecessor chain. A repeated single-foot action on the
// SAME arrow is a jack and carries its own mild band; only a same-foot
// repeat onto a DIFFERENT arrow triggers the double/triple-step bands.
func incrementalCost(sn *searchNode, link graph.Link, child *graph.Node, method BracketParsingMethod, lastMinePos map[int]int, pos int, g *graph.Graph) (cost, orient float64, actingFoot step.Foot, hasActing bool, lastArrow, consecutive int, wasBracket bool) {
	var actedFoot step.Foot
	actedFeet := 0
	isBracket := false

	for f := step.Foot(0); f < step.NumFeet; f++ {
		if !link.FootActs(f) {
			continue
		}
		actedFeet++
		actedFoot = f
		footIsBracket := link[f][step.Heel].Valid && link[f][step.Toe].Valid
		if footIsBracket {
			isBracket = true
		}
		for _, cell := range link[f] {
			if !cell.Valid {
				continue
			}
			c, o := stepTypeCost(cell.StepType, cell.Action)
			cost += c
			orient += o
		}
		if footIsBracket {
			cost += cBracketBase
		}
	}

	actingFoot, hasActing, lastArrow, consecutive = sn.ActingFoot, sn.HasActingFoot, sn.LastArrow, sn.Consecutive

	if actedFeet == 1 && !isReleaseOnly(link, actedFoot) {
		arrow := actedArrow(link, child, actedFoot)
		if sn.HasActingFoot && sn.ActingFoot == actedFoot {
			if sn.LastArrow == arrow {
				// A jack: milder than a double-step onto a new arrow, but
				// still costlier than handing the arrow to the other foot.
				cost += cSameArrowRepeat
			} else {
				consecutive = sn.Consecutive + 1
				mined := mineRecentlyFreesFoot(sn.Node, actedFoot, lastMinePos, pos, g)
				switch {
				case consecutive == 1:
					if mined {
						cost += cDoubleStepMined
					} else {
						cost += cDoubleStep
					}
				default:
					cost += cDoubleStep + cTripleStepStep*float64(consecutive-1)
				}
			}
		} else {
			consecutive = 0
		}
		actingFoot, hasActing, lastArrow = actedFoot, true, arrow

		if isFootSwap(link, actedFoot) && sn.LastWasBracket && method != Aggressive {
			cost += cSwapAfterBracket
		}
		if isBracket && method != Aggressive {
			cost += cBracketSolo
		}
	} else if actedFeet == 2 {
		actingFoot, hasActing, lastArrow, consecutive = 0, false, step.InvalidArrow, 0
	}

	return cost, orient, actingFoot, hasActing, lastArrow, consecutive, isBracket && actedFeet == 1
}

// actedArrow returns the arrow foot f's acting portion lands on (or, for a
// release-only cell, the arrow it releases from), preferring the default
// portion when both are valid.
func actedArrow(link graph.Link, child *graph.Node, f step.Foot) int {
	for _, pp := range [...]step.FootPortion{step.DefaultPortion, 1 - step.DefaultPortion} {
		cell := link[f][pp]
		if !cell.Valid {
			continue
		}
		return child.Matrix[f][pp].Arrow
	}
	return step.InvalidArrow
}

func isReleaseOnly(link graph.Link, f step.Foot) bool {
	acted := false
	for _, cell := range link[f] {
		if !cell.Valid {
			continue
		}
		acted = true
		if cell.Action != step.Release {
			return false
		}
	}
	return acted
}

func isFootSwap(link graph.Link, f step.Foot) bool {
	for _, cell := range link[f] {
		if cell.Valid && cell.StepType.IsFootSwap() {
			return true
		}
	}
	return false
}

// mineRecentlyFreesFoot reports whether the other foot's current default
// arrow carried a mine within mineWindowTicks of pos: a mine on the other
// foot's arrow shortly before this step indicates the other foot must be
// free to hit this, so double-stepping here is intended.
func mineRecentlyFreesFoot(n *graph.Node, actedFoot step.Foot, lastMinePos map[int]int, pos int, g *graph.Graph) bool {
	other := actedFoot.Other()
	arrow := n.Matrix[other][step.DefaultPortion].Arrow
	if arrow == step.InvalidArrow {
		return false
	}
	last, ok := lastMinePos[arrow]
	if !ok {
		return false
	}
	return last <= pos && pos-last <= mineWindowTicks
}

func stepTypeCost(t step.Type, action step.FootAction) (float64, float64) {
	if action == step.Release {
		return cRelease, oNormal
	}
	switch {
	case t == step.SameArrow, t == step.NewArrow:
		return cSameOrAltNew, oNormal
	case t == step.NewArrowStretch:
		return cNewArrowStretch, oNormal
	case t.IsFootSwap():
		c, o := cFootSwap, oNormal
		switch {
		case t.IsCrossover():
			c, o = cFootSwap+cCrossover, oCrossover
		case t.IsInvert():
			c, o = cFootSwap+cInvert, oInvert
		}
		return c, o
	case t.IsInvert():
		c := cInvert
		if t.IsStretch() {
			c = cInvertStretch
		}
		if t.IsBracket() && !t.IsBracketOneArrow() {
			c += cBracketOverInvert
		}
		return c, oInvert
	case t.IsCrossover():
		c := cCrossover
		if t.IsStretch() {
			c = cCrossoverStretch
		}
		if t.IsBracket() && !t.IsBracketOneArrow() {
			c += cBracketOverCrossover
		}
		return c, oCrossover
	case t.IsSwing():
		return cSwing, oCrossover
	case t.IsBracket():
		return cBracketBase, oNormal
	default:
		return cSameOrAltNew, oNormal
	}
}

// less orders two ChartSearchNodes by the tie-break ladder:
// total cost, then total orientation cost, then (once both totals tie) the
// path that diverged first at a lower per-step cost, then the step-type
// ordinal at that first point of divergence, else equivalent.
func less(a, b *searchNode) bool {
	if a.Cost != b.Cost {
		return a.Cost < b.Cost
	}
	if a.OrientCost != b.OrientCost {
		return a.OrientCost < b.OrientCost
	}
	return lessByFirstDivergence(a, b)
}

// stepCost is the per-transition slice of a searchNode's cumulative cost:
// how much a single link added, rather than the running total.
type stepCost struct {
	Cost   float64
	Orient float64
	Link   graph.Link
}

// stepHistory walks n's predecessor chain back to the root and returns its
// per-step costs in root-first order, each entry's Cost/Orient recovered by
// differencing consecutive cumulative totals along the chain.
func stepHistory(n *searchNode) []stepCost {
	var reversed []stepCost
	for cur := n; cur != nil && cur.Pred != nil; cur = cur.Pred {
		reversed = append(reversed, stepCost{
			Cost:   cur.Cost - cur.Pred.Cost,
			Orient: cur.OrientCost - cur.Pred.OrientCost,
			Link:   cur.Link,
		})
	}
	out := make([]stepCost, len(reversed))
	for i, c := range reversed {
		out[len(reversed)-1-i] = c
	}
	return out
}

// lessByFirstDivergence implements the locally-greedy tie-break:
// walk both predecessor chains from the root forward and decide at the
// first step where their per-step cost differs, preferring the cheaper
// side there. Two paths reaching the same prune slot or the same final
// frontier always share a chain length, since the search advances both in
// lockstep one chart position at a time. If every step ties on cost, fall
// back to the earliest differing step-type ordinal; if that also ties
// throughout, the two paths are equivalent and neither is less than the
// other.
func lessByFirstDivergence(a, b *searchNode) bool {
	ah, bh := stepHistory(a), stepHistory(b)
	n := len(ah)
	if len(bh) < n {
		n = len(bh)
	}
	for i := 0; i < n; i++ {
		if ah[i].Cost != bh[i].Cost {
			return ah[i].Cost < bh[i].Cost
		}
		if ah[i].Orient != bh[i].Orient {
			return ah[i].Orient < bh[i].Orient
		}
	}
	for i := 0; i < n; i++ {
		oa, ob := linkOrdinal(ah[i].Link), linkOrdinal(bh[i].Link)
		if oa != ob {
			return oa < ob
		}
	}
	return linkOrdinal(a.Link) < linkOrdinal(b.Link)
}

func linkOrdinal(l graph.Link) int {
	best := -1
	for _, foot := range l {
		for _, cell := range foot {
			if cell.Valid && (best < 0 || int(cell.StepType) < best) {
				best = int(cell.StepType)
			}
		}
	}
	return best
}

// prune keeps, per distinct GraphNode reached this position, only the
// cheapest surviving ChartSearchNode. Explicit
// predecessor-chain unlinking is unnecessary in Go: a dropped searchNode
// not reachable from the surviving frontier is simply garbage collected.
func prune(nodes []*searchNode) []*searchNode {
	best := make(map[*graph.Node]*searchNode, len(nodes))
	for _, n := range nodes {
		cur, ok := best[n.Node]
		if !ok || less(n, cur) {
			best[n.Node] = n
		}
	}
	out := make([]*searchNode, 0, len(best))
	for _, n := range best {
		out = append(out, n)
	}
	return out
}

// lanesTouched maps each lane link acts on: the parent's arrow for a
// Release cell (the arrow being let go), the child's otherwise.
func lanesTouched(parent, child *graph.Node, link graph.Link) map[int]bool {
	touched := make(map[int]bool)
	for f := step.Foot(0); f < step.NumFeet; f++ {
		for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
			cell := link[f][pp]
			if !cell.Valid {
				continue
			}
			if cell.Action == step.Release {
				touched[parent.Matrix[f][pp].Arrow] = true
			} else {
				touched[child.Matrix[f][pp].Arrow] = true
			}
		}
	}
	return touched
}

// augmentInPlace layers in-place SameArrow Tap cells onto link for every
// foot the link leaves idle whose Resting portions sit, unchanged between
// parent and child, on lanes this position requires a Tap/Fake/Lift on.
// Feet the link already moves are never augmented; a re-tap while the same
// foot also steps elsewhere is not a single transition. Returns the
// augmented link and whether anything was added.
func augmentInPlace(parent, child *graph.Node, link graph.Link, req requirements) (graph.Link, bool) {
	touched := lanesTouched(parent, child, link)
	changed := false
	for f := step.Foot(0); f < step.NumFeet; f++ {
		if link.FootActs(f) {
			continue
		}
		added := 0
		for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
			st := parent.Matrix[f][pp]
			if !st.IsValid() || st.State != step.Resting || child.Matrix[f][pp] != st {
				continue
			}
			want, ok := req[st.Arrow]
			if !ok || touched[st.Arrow] {
				continue
			}
			switch want.action {
			case reqTap, reqFake, reqLift:
				link[f][pp] = graph.LinkCell{StepType: step.SameArrow, Action: step.Tap, Valid: true}
				touched[st.Arrow] = true
				changed = true
				added++
			}
		}
		if added == step.NumFootPortions {
			// Both portions re-tapped in place: a bracket, not two
			// independent taps.
			link[f][step.Heel].StepType = step.BracketHeelSameToeSame
			link[f][step.Toe].StepType = step.BracketHeelSameToeSame
		}
	}
	return link, changed
}

// laneSustain tracks, for one lane, whether a hold or roll is currently in
// progress (no event needed on sustaining positions) and which flavor.
type laneSustain struct {
	active bool
	roll   bool
}

type laneAction int

const (
	reqRelease laneAction = iota
	reqTap
	reqFake
	reqLift
	reqHoldStart
	reqRollStart
	reqSustain
)

type laneRequirement struct {
	action laneAction
}

// matches reports whether FootAction a is the one this lane's requirement
// calls for, and if so the InstanceStepType flavor the cell should carry.
func (r laneRequirement) matches(a step.FootAction) (step.InstanceStepType, bool) {
	switch r.action {
	case reqRelease:
		return step.Default, a == step.Release
	case reqTap:
		return step.Default, a == step.Tap
	case reqFake:
		return step.Fake, a == step.Tap
	case reqLift:
		return step.Lift, a == step.Tap
	case reqHoldStart:
		return step.Default, a == step.Hold
	case reqRollStart:
		return step.Roll, a == step.Hold
	default:
		return step.Default, false
	}
}

// requirements is the per-lane SearchState for one chart position, keyed
// by lane; a lane absent from the map must not be touched at all by the
// candidate transition.
type requirements map[int]laneRequirement

// hasActionable reports whether any lane demands an actual transition this
// position. A position holding only mines and/or sustained holds passes
// with the body state unchanged.
func (req requirements) hasActionable() bool {
	for _, r := range req {
		if r.action != reqSustain {
			return true
		}
	}
	return false
}

// buildRequirements categorizes this position's events into the
// releases -> mines -> steps ordering (mines do not
// constrain graph transitions, so only releases and steps matter here),
// folding in any lane still mid-hold/roll from a previous position as an
// implicit "must sustain" requirement.
func buildRequirements(events []chartevents.Event, sustain []laneSustain) requirements {
	req := make(requirements)
	touched := make(map[int]bool)
	for _, e := range events {
		switch e.Type {
		case chartevents.HoldEnd:
			req[e.Lane] = laneRequirement{action: reqRelease}
			touched[e.Lane] = true
		case chartevents.Tap:
			req[e.Lane] = laneRequirement{action: reqTap}
			touched[e.Lane] = true
		case chartevents.Fake:
			req[e.Lane] = laneRequirement{action: reqFake}
			touched[e.Lane] = true
		case chartevents.Lift:
			req[e.Lane] = laneRequirement{action: reqLift}
			touched[e.Lane] = true
		case chartevents.HoldStart:
			req[e.Lane] = laneRequirement{action: reqHoldStart}
			touched[e.Lane] = true
		case chartevents.RollStart:
			req[e.Lane] = laneRequirement{action: reqRollStart}
			touched[e.Lane] = true
		}
	}
	for lane, s := range sustain {
		if s.active && !touched[lane] {
			req[lane] = laneRequirement{action: reqSustain}
		}
	}
	return req
}

// advanceSustain updates the running per-lane hold/roll state after a
// position's requirements have been satisfied, so the next position's
// buildRequirements sees the correct sustaining set.
func advanceSustain(sustain []laneSustain, req requirements) {
	for lane, r := range req {
		switch r.action {
		case reqHoldStart:
			sustain[lane] = laneSustain{active: true, roll: false}
		case reqRollStart:
			sustain[lane] = laneSustain{active: true, roll: true}
		case reqRelease:
			sustain[lane] = laneSustain{}
		}
	}
}

// satisfiedBy checks every cell of link against req and, if every touched
// lane matches its requirement and every required lane is touched exactly
// once, returns the resulting GraphLinkInstance flavor matrix. A
// reqSustain lane matches no FootAction, so any link that would touch it
// is correctly rejected.
func (req requirements) satisfiedBy(parent, child *graph.Node, link graph.Link, numLanes int) (instance [step.NumFeet][step.NumFootPortions]step.InstanceStepType, ok bool) {
	touched := make(map[int]bool, len(req))
	for f := step.Foot(0); f < step.NumFeet; f++ {
		for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
			cell := link[f][pp]
			if !cell.Valid {
				continue
			}
			var lane int
			if cell.Action == step.Release {
				lane = parent.Matrix[f][pp].Arrow
			} else {
				lane = child.Matrix[f][pp].Arrow
			}
			if lane < 0 || lane >= numLanes {
				return instance, false
			}
			want, has := req[lane]
			if !has {
				return instance, false
			}
			flavor, matched := want.matches(cell.Action)
			if !matched {
				return instance, false
			}
			if touched[lane] {
				return instance, false
			}
			touched[lane] = true
			instance[f][pp] = flavor
		}
	}
	for lane, want := range req {
		if want.action == reqSustain {
			continue
		}
		if !touched[lane] {
			return instance, false
		}
	}
	return instance, true
}

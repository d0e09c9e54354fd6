package performed

import (
	"fmt"
	"math/rand"

	"github.com/padchart/stepgraph/corerr"
	"github.com/padchart/stepgraph/expressed"
	"github.com/padchart/stepgraph/graph"
	"github.com/padchart/stepgraph/pad"
	"github.com/padchart/stepgraph/step"
)

// lateralMove is one sample of a foot's signed X-axis displacement, kept in
// a bounded per-path window for LateralMovementSpeedCost.
type lateralMove struct {
	time float64
	dx   float64
}

// searchNode is one PerformedChart SearchNode: the target
// GraphNode reached, the position/time of the source StepEvent that drove
// this transition, the accumulated cost vector, and enough per-path memory
// (last move per foot, same-arrow streak, a bounded lateral-move window,
// running per-lane step counts) to price the next transition without
// re-walking the whole predecessor chain.
type searchNode struct {
	ID       uint64
	Node     *graph.Node
	Position int
	Time     float64
	Cost     costVector

	Pred     *searchNode
	Link     graph.Link
	Instance [step.NumFeet][step.NumFootPortions]step.InstanceStepType

	lastTime  [step.NumFeet]float64
	lastArrow [step.NumFeet]int
	hasLast   [step.NumFeet]bool

	streak [step.NumFeet]int

	lateral    []lateralMove
	laneCounts []int
	totalSteps int
}

// Perform builds a PerformedChart from an ExpressedChart onto target.
// rng drives both RandomWeight tie-breaking and MineUtils' random-lane
// mine fallback, so a chart built twice with the same rng seed reproduces
// identically.
func Perform(target *graph.Graph, ex *expressed.Chart, cfg Config, rng *rand.Rand) (*Chart, error) {
	if issues := cfg.Validate(target.Pad.NumArrows()); len(issues) > 0 {
		return nil, issuesErr(issues)
	}

	final, err := runSearch(target, ex.Steps, cfg, rng)
	if err != nil {
		var list corerr.List
		list.Add(corerr.Error, corerr.KindPerformanceFailed, "performed", "%v", err)
		return nil, list.Err()
	}

	chain := collectPerformedChain(final)
	mines := placeMines(target, chain, ex.Mines, rng)

	return &Chart{
		Steps: chain,
		Mines: mines,
	}, nil
}

func computeAvgNPS(events []expressed.StepEvent) float64 {
	if len(events) < 2 {
		return 0
	}
	span := events[len(events)-1].Time - events[0].Time
	if span <= 0 {
		return 0
	}
	return float64(len(events)) / span
}

// rootTiers returns the candidate starting-node tiers of the search: first the target StepGraph's natural root (the pad's configured
// starting feet), then — if every root in the preferred tier fails — every
// other enumerated node as a permissive fallback.
func rootTiers(g *graph.Graph) [][]*graph.Node {
	permissive := make([]*graph.Node, 0, len(g.Nodes()))
	for _, n := range g.Nodes() {
		if n != g.Root {
			permissive = append(permissive, n)
		}
	}
	return [][]*graph.Node{{g.Root}, permissive}
}

// runSearch tries each root tier in turn: if a tier's
// candidate roots all fail to produce a non-empty frontier, move to the
// next tier.
func runSearch(g *graph.Graph, events []expressed.StepEvent, cfg Config, rng *rand.Rand) (*searchNode, error) {
	avgNPS := computeAvgNPS(events)
	numLanes := g.Pad.NumArrows()

	furthest := 0
	var lastErr error
	for _, tier := range rootTiers(g) {
		for _, root := range tier {
			final, reached, err := runFromRoot(g, events, cfg, root, numLanes, avgNPS, rng)
			if err == nil {
				return final, nil
			}
			if reached > furthest {
				furthest = reached
			}
			lastErr = err
		}
	}
	return nil, fmt.Errorf("exhausted all root tiers, furthest position reached %d (%v)", furthest, lastErr)
}

func runFromRoot(g *graph.Graph, events []expressed.StepEvent, cfg Config, root *graph.Node, numLanes int, avgNPS float64, rng *rand.Rand) (*searchNode, int, error) {
	start := &searchNode{Node: root, laneCounts: make([]int, numLanes)}
	for f := step.Foot(0); f < step.NumFeet; f++ {
		start.lastArrow[f] = step.InvalidArrow
	}
	frontier := []*searchNode{start}
	var nextID uint64 = 1
	reached := 0

	for _, se := range events {
		var next []*searchNode
		for _, sn := range frontier {
			children, err := expandReplacements(g, sn, se, cfg, avgNPS, rng, &nextID, g.Pad)
			if err != nil {
				return nil, reached, err
			}
			next = append(next, children...)
		}
		if len(next) == 0 {
			return nil, reached, fmt.Errorf("no valid transition at position %d", se.Position)
		}
		frontier = prune(next)
		reached = se.Position
	}

	if len(frontier) == 0 {
		return nil, reached, fmt.Errorf("search produced an empty frontier")
	}
	best := frontier[0]
	for _, n := range frontier[1:] {
		if lessCost(n.Cost, best.Cost) {
			best = n
		}
	}
	return best, reached, nil
}

// expandReplacements tries every candidate replacement for se.Link.Link out
// of sn, returning every resulting child searchNode that is legal on g.
func expandReplacements(g *graph.Graph, sn *searchNode, se expressed.StepEvent, cfg Config, avgNPS float64, rng *rand.Rand, nextID *uint64, p *pad.Data) ([]*searchNode, error) {
	sourceLink := se.Link.Link
	replacements, err := cachedReplacements(cfg, sourceLink)
	if err != nil {
		return nil, err
	}

	var out []*searchNode
	for _, r := range replacements {
		if isWholeStepBlank(sourceLink, r) {
			child := applyPerformedTransition(sn, *nextID, sn.Node, graph.Link{}, se, r, sourceLink, cfg, avgNPS, rng, p)
			out = append(out, child)
			*nextID++
			continue
		}

		for edgeLink, children := range sn.Node.Edges() {
			for _, childNode := range children {
				link, ok := realizeReplacement(sn.Node, childNode, edgeLink, r, sourceLink)
				if !ok {
					continue
				}
				if releaseStepConflict(sn.Node, link, childNode) {
					continue
				}
				child := applyPerformedTransition(sn, *nextID, childNode, link, se, r, sourceLink, cfg, avgNPS, rng, p)
				out = append(out, child)
				*nextID++
			}
		}

		// An in-place SameArrow tap changes no body state, so no graph edge
		// exists for it; realize it against the parent node itself. This is
		// how a step on the arrow a foot already rests on is performed.
		if link, ok := realizeReplacement(sn.Node, sn.Node, graph.Link{}, r, sourceLink); ok && !link.IsBlank() {
			child := applyPerformedTransition(sn, *nextID, sn.Node, link, se, r, sourceLink, cfg, avgNPS, rng, p)
			out = append(out, child)
			*nextID++
		}
	}
	return out, nil
}

// isWholeStepBlank reports whether replacement r, applied to sourceLink,
// drops the step entirely: no foot requires a release (a release can never
// be skipped — something held must eventually let go) and every
// step-bearing foot's candidate is Blank.
func isWholeStepBlank(sourceLink graph.Link, r linkReplacement) bool {
	if footHasRelease(sourceLink, step.Left) || footHasRelease(sourceLink, step.Right) {
		return false
	}
	leftBlank := !r.LeftActs || r.Left.Blank
	rightBlank := !r.RightActs || r.Right.Blank
	return leftBlank && rightBlank
}

func footHasRelease(link graph.Link, f step.Foot) bool {
	for _, cell := range link[f] {
		if cell.Valid && cell.Action == step.Release {
			return true
		}
	}
	return false
}

func sourceFootAction(link graph.Link, f step.Foot) (step.FootAction, bool) {
	for _, cell := range link[f] {
		if cell.Valid && cell.Action != step.Release {
			return cell.Action, true
		}
	}
	return 0, false
}

func edgeFootStepTypeAction(link graph.Link, f step.Foot) (step.Type, step.FootAction, bool) {
	for _, cell := range link[f] {
		if cell.Valid && cell.Action != step.Release {
			return cell.StepType, cell.Action, true
		}
	}
	return 0, 0, false
}

// realizeReplacement attempts to realize replacement r of sourceLink on the
// candidate target transition (parent -> child via edgeLink), returning the
// link actually performed. Per foot: a source release must release in the
// edge (fallbacks never apply to releases — letting go of a hold is
// structural, not stylistic); a Blank candidate requires the edge to leave
// the foot untouched; a concrete candidate must either be acted by the edge
// with exactly that type and the source's FootAction, or — for a SameArrow
// or BracketHeelSameToeSame Tap only — be synthesized in place on the
// foot's Resting, unchanged portions when the edge leaves that foot idle.
// Feet the source never touches must stay untouched in the edge too.
func realizeReplacement(parent, child *graph.Node, edgeLink graph.Link, r linkReplacement, sourceLink graph.Link) (graph.Link, bool) {
	link := edgeLink
	for f := step.Foot(0); f < step.NumFeet; f++ {
		switch {
		case footHasRelease(sourceLink, f):
			if !footHasRelease(edgeLink, f) {
				return graph.Link{}, false
			}
		case footActsInReplacement(r, f):
			cand, ok := footCandidateFor(r, f)
			if !ok {
				return graph.Link{}, false
			}
			if cand.Blank {
				if edgeLink.FootActs(f) {
					return graph.Link{}, false
				}
				continue
			}
			srcAction, _ := sourceFootAction(sourceLink, f)
			if t, a, acted := edgeFootStepTypeAction(edgeLink, f); acted {
				if t != cand.Step || a != srcAction {
					return graph.Link{}, false
				}
				continue
			}
			if edgeLink.FootActs(f) {
				// Only release cells: already handled by the release case.
				return graph.Link{}, false
			}
			if srcAction != step.Tap {
				return graph.Link{}, false
			}
			switch cand.Step {
			case step.SameArrow:
				st := parent.Matrix[f][step.DefaultPortion]
				if !st.IsValid() || st.State != step.Resting || child.Matrix[f][step.DefaultPortion] != st {
					return graph.Link{}, false
				}
				link[f][step.DefaultPortion] = graph.LinkCell{StepType: step.SameArrow, Action: step.Tap, Valid: true}
			case step.BracketHeelSameToeSame:
				for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
					st := parent.Matrix[f][pp]
					if !st.IsValid() || st.State != step.Resting || child.Matrix[f][pp] != st {
						return graph.Link{}, false
					}
					link[f][pp] = graph.LinkCell{StepType: step.BracketHeelSameToeSame, Action: step.Tap, Valid: true}
				}
			default:
				return graph.Link{}, false
			}
		default:
			if edgeLink.FootActs(f) {
				return graph.Link{}, false
			}
		}
	}
	return link, true
}

func footActsInReplacement(r linkReplacement, f step.Foot) bool {
	if f == step.Left {
		return r.LeftActs
	}
	return r.RightActs
}

func footCandidateFor(r linkReplacement, f step.Foot) (footCandidate, bool) {
	if f == step.Left {
		return r.Left, r.LeftActs
	}
	return r.Right, r.RightActs
}

// releaseStepConflict rejects a child where one foot releases an arrow that
// another foot's step of this same transition lands on — an illegal
// simultaneity on the target pad.
func releaseStepConflict(parent *graph.Node, link graph.Link, child *graph.Node) bool {
	var released []int
	for f := step.Foot(0); f < step.NumFeet; f++ {
		for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
			cell := link[f][pp]
			if cell.Valid && cell.Action == step.Release {
				released = append(released, parent.Matrix[f][pp].Arrow)
			}
		}
	}
	if len(released) == 0 {
		return false
	}
	for f := step.Foot(0); f < step.NumFeet; f++ {
		for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
			cell := link[f][pp]
			if !cell.Valid || cell.Action == step.Release {
				continue
			}
			arrow := child.Matrix[f][pp].Arrow
			for _, r := range released {
				if arrow == r {
					return true
				}
			}
		}
	}
	return false
}

// applyPerformedTransition builds the child searchNode for one accepted
// (replacement, target edge/self-loop) pair, pricing it with the full
// cost vector.
func applyPerformedTransition(sn *searchNode, id uint64, child *graph.Node, edgeLink graph.Link, se expressed.StepEvent, r linkReplacement, sourceLink graph.Link, cfg Config, avgNPS float64, rng *rand.Rand, p *pad.Data) *searchNode {
	inc := costVector{FallbackStep: fallbackStepCost(r)}

	isSelfLoop := child == sn.Node && edgeLink == (graph.Link{})
	if !isSelfLoop {
		if isMisleadingJump(sn.Node, child, edgeLink) {
			inc.Misleading = 1
		}
		if isAmbiguousStep(sn.Node, edgeLink, child) {
			inc.Ambiguous = 1
		}
		inc.Stretch = stretchCost(p, child, cfg)
	}

	laneCounts := append([]int(nil), sn.laneCounts...)
	totalSteps := sn.totalSteps
	lastTime, lastArrow, hasLast := sn.lastTime, sn.lastArrow, sn.hasLast
	streak := sn.streak
	lateral := sn.lateral

	var instance [step.NumFeet][step.NumFootPortions]step.InstanceStepType

	for f := step.Foot(0); f < step.NumFeet; f++ {
		if !edgeLink.FootActs(f) {
			continue
		}
		for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
			cell := edgeLink[f][pp]
			if !cell.Valid || cell.Action == step.Release {
				continue
			}
			arrow := child.Matrix[f][pp].Arrow
			instance[f][pp] = se.Link.Instance[f][pp]

			laneCounts[arrow]++
			totalSteps++

			if hasLast[f] {
				dCost, sCost := travelCost(p, lastArrow[f], lastTime[f], arrow, se.Time, cfg)
				inc.TravelDistance += dCost
				inc.TravelSpeed += sCost

				dx := arrowX(p, arrow) - arrowX(p, lastArrow[f])
				lateral = appendLateral(lateral, lateralMove{time: se.Time, dx: dx}, cfg.LateralTightening.PatternLength)
			}

			if hasLast[f] && lastArrow[f] == arrow {
				streak[f]++
			} else {
				streak[f] = 1
			}
			if cfg.MaxSameArrowsInARowPerFoot > 0 && streak[f] > cfg.MaxSameArrowsInARowPerFoot {
				inc.StreakOverMax++
			}

			lastArrow[f] = arrow
			lastTime[f] = se.Time
			hasLast[f] = true
		}
	}

	inc.LateralSpeed = lateralSpeedCost(lateral, cfg, avgNPS)
	inc.Distribution = distributionCost(laneCounts, totalSteps, defaultArrowWeights(cfg))
	inc.Random = rng.Float64() * 1e-6

	return &searchNode{
		ID:         id,
		Node:       child,
		Position:   se.Position,
		Time:       se.Time,
		Cost:       addCostVector(sn.Cost, inc),
		Pred:       sn,
		Link:       edgeLink,
		Instance:   instance,
		lastTime:   lastTime,
		lastArrow:  lastArrow,
		hasLast:    hasLast,
		streak:     streak,
		lateral:    lateral,
		laneCounts: laneCounts,
		totalSteps: totalSteps,
	}
}

// defaultArrowWeights looks up the "default" ArrowWeights entry, the only
// chart-type key DistributionCost applies without an externally-specified
// chart-type selector (nothing selects among ArrowWeights' chart-type
// keys at search time); absent that key,
// DistributionCost contributes zero.
func defaultArrowWeights(cfg Config) []float64 {
	return cfg.ArrowWeights["default"]
}

func distributionCost(laneCounts []int, totalSteps int, weights []float64) float64 {
	if len(weights) == 0 || totalSteps == 0 {
		return 0
	}
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return 0
	}
	var cost float64
	for lane, w := range weights {
		target := w / sum
		actual := 0.0
		if lane < len(laneCounts) {
			actual = float64(laneCounts[lane]) / float64(totalSteps)
		}
		d := actual - target
		if d < 0 {
			d = -d
		}
		cost += d
	}
	return cost
}

func appendLateral(window []lateralMove, m lateralMove, patternLength int) []lateralMove {
	if patternLength <= 0 {
		return nil
	}
	out := append(append([]lateralMove{}, window...), m)
	if len(out) > patternLength {
		out = out[len(out)-patternLength:]
	}
	return out
}

func lateralSpeedCost(window []lateralMove, cfg Config, avgNPS float64) float64 {
	lt := cfg.LateralTightening
	if lt.PatternLength <= 0 || len(window) < lt.PatternLength {
		return 0
	}
	var sign float64
	for _, m := range window {
		s := 0.0
		switch {
		case m.dx > 0:
			s = 1
		case m.dx < 0:
			s = -1
		default:
			return 0
		}
		if sign == 0 {
			sign = s
		} else if sign != s {
			return 0
		}
	}
	duration := window[len(window)-1].time - window[0].time
	if duration <= 0 {
		return 0
	}
	nps := float64(len(window)) / duration
	if nps <= lt.AbsoluteNPS && nps <= lt.RelativeNPS*avgNPS {
		return 0
	}
	var totalDist float64
	for _, m := range window {
		if m.dx < 0 {
			totalDist -= m.dx
		} else {
			totalDist += m.dx
		}
	}
	speed := totalDist / duration
	if speed <= lt.Speed {
		return 0
	}
	return speed - lt.Speed
}

func arrowX(p *pad.Data, arrow int) float64 {
	a := p.Arrow(arrow)
	if a == nil {
		return 0
	}
	return a.X
}

// prune keeps, per distinct target GraphNode reached this step, only the
// cheapest surviving searchNode, mirroring package expressed's pruning.
func prune(nodes []*searchNode) []*searchNode {
	best := make(map[*graph.Node]*searchNode, len(nodes))
	for _, n := range nodes {
		cur, ok := best[n.Node]
		if !ok || lessCost(n.Cost, cur.Cost) {
			best[n.Node] = n
		}
	}
	out := make([]*searchNode, 0, len(best))
	for _, n := range best {
		out = append(out, n)
	}
	return out
}

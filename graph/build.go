package graph

import (
	"fmt"

	"github.com/padchart/stepgraph/pad"
	"github.com/padchart/stepgraph/step"
)

// Graph is the built StepGraph: every reachable body state for a pad
// layout (Nodes) and the labeled transitions between them (each Node's
// Edges). Immutable once Build returns; safe to share across goroutines.
type Graph struct {
	Pad   *pad.Data
	Root  *Node
	nodes []*Node
}

// Nodes returns every Node in the graph, in build (ID) order. The slice
// must not be mutated.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Node returns the Node with the given ID, or nil if out of range.
func (g *Graph) Node(id int) *Node {
	if id < 0 || id >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Build enumerates every reachable body state on pad p starting with the
// left foot on leftStart and the right foot on rightStart, and the full
// set of labeled transitions between them.
func Build(p *pad.Data, leftStart, rightStart int) (*Graph, error) {
	if p.Arrow(leftStart) == nil || p.Arrow(rightStart) == nil {
		return nil, fmt.Errorf("stepgraph: start arrows %d/%d out of range for pad %q", leftStart, rightStart, p.Name())
	}

	candidates := enumerateMatrices(p.NumArrows())

	index := make(map[key]*Node)
	var raw []*Node
	for _, m := range candidates {
		if !validateAgainstPad(p, m) {
			continue
		}
		for _, orient := range orientationsFor(p, m) {
			n := &Node{Matrix: m, Orientation: orient, edges: make(map[Link][]*Node)}
			k := n.key()
			if _, exists := index[k]; exists {
				continue
			}
			raw = append(raw, n)
			index[k] = n
		}
	}

	rootMatrix := Matrix{}
	rootMatrix[step.Left][step.Heel] = FootArrowState{Arrow: leftStart, State: step.Resting}
	rootMatrix[step.Left][step.Toe] = invalidState
	rootMatrix[step.Right][step.Heel] = FootArrowState{Arrow: rightStart, State: step.Resting}
	rootMatrix[step.Right][step.Toe] = invalidState
	rootOrients := orientationsFor(p, rootMatrix)
	rootKey := key{Matrix: rootMatrix, Orientation: rootOrients[0]}
	root, ok := index[rootKey]
	if !ok {
		return nil, fmt.Errorf("stepgraph: root state (left=%d, right=%d) is not among enumerated states", leftStart, rightStart)
	}

	// The root is always reassigned ID 0, so a reloaded graph's root is
	// trivially "the node at index 0" without needing a separate root
	// field in the binary format.
	nodes := make([]*Node, 0, len(raw))
	nodes = append(nodes, root)
	for _, n := range raw {
		if n != root {
			nodes = append(nodes, n)
		}
	}
	for i, n := range nodes {
		n.ID = i
	}

	g := &Graph{Pad: p, Root: root, nodes: nodes}

	for _, from := range nodes {
		for _, to := range nodes {
			link, ok := classifyTransition(p, from, to)
			if !ok {
				continue
			}
			from.edges[link] = append(from.edges[link], to)
		}
	}

	if err := checkReachability(g); err != nil {
		return nil, err
	}

	return g, nil
}

// classifyTransition determines the GraphLink (if any) connecting from to
// to: classify each foot's minimal transition independently, then compose
// into a single-foot step or jump.
func classifyTransition(p *pad.Data, from, to *Node) (Link, bool) {
	if from == to {
		return Link{}, false
	}
	if !validOrientationTransition(from.Orientation, to.Orientation) {
		return Link{}, false
	}

	if !liftsAreConsistent(from.Matrix, to.Matrix) {
		return Link{}, false
	}

	var link Link
	any := false
	for f := step.Foot(0); f < step.NumFeet; f++ {
		cells, changed, ok := classifyFootCells(p, f, from.Matrix, to.Matrix, from.Orientation, to.Orientation)
		if !ok {
			return Link{}, false
		}
		for _, cell := range cells {
			if cell.Valid && !step.Data[cell.StepType].ValidActions[cell.Action] {
				// E.g. a hold started directly through a foot swap; the
				// handed-off arrow must be tapped first and held from there.
				return Link{}, false
			}
		}
		link[f] = cells
		any = any || changed
	}
	if !any {
		return Link{}, false
	}
	return link, true
}

// liftsAreConsistent enforces the pairing half of the Lifted invariant: a portion may only newly become Lifted in place (same arrow,
// previously Resting or Held), and only when the other foot simultaneously
// arrives on that exact arrow this same transition (its swap partner).
func liftsAreConsistent(fromM, toM Matrix) bool {
	for f := step.Foot(0); f < step.NumFeet; f++ {
		for _, pp := range []step.FootPortion{step.Heel, step.Toe} {
			from, to := fromM[f][pp], toM[f][pp]
			if to.State != step.Lifted || from.State == step.Lifted {
				continue
			}
			if !from.IsValid() || from.Arrow != to.Arrow {
				return false
			}
			g := f.Other()
			arrived := false
			for _, gp := range []step.FootPortion{step.Heel, step.Toe} {
				gFrom, gTo := fromM[g][gp], toM[g][gp]
				if gTo.IsValid() && gTo.Arrow == to.Arrow && gTo.State != step.Lifted &&
					(!gFrom.IsValid() || gFrom.Arrow != gTo.Arrow) {
					arrived = true
					break
				}
			}
			if !arrived {
				return false
			}
		}
	}
	return true
}

// validOrientationTransition forbids a 360-degree rotation: no edge may
// connect the two inverted orientations directly.
func validOrientationTransition(from, to step.BodyOrientation) bool {
	if from == step.InvertedLeftOverRight && to == step.InvertedRightOverLeft {
		return false
	}
	if from == step.InvertedRightOverLeft && to == step.InvertedLeftOverRight {
		return false
	}
	return true
}

// classifyFootCells classifies foot f's contribution to a transition: the
// LinkCell for each portion, and whether this foot changed at all. ok is
// false when the transition is not physically legal for this foot.
func classifyFootCells(p *pad.Data, f step.Foot, fromM, toM Matrix, fromOrient, toOrient step.BodyOrientation) ([step.NumFootPortions]LinkCell, bool, bool) {
	var cells [step.NumFootPortions]LinkCell
	var changedPortions []step.FootPortion

	for _, pp := range []step.FootPortion{step.Heel, step.Toe} {
		from, to := fromM[f][pp], toM[f][pp]
		if from == to {
			continue
		}
		if to.State == step.Lifted && from.State != step.Lifted {
			// Passive: this foot didn't act, the other foot's swap did.
			// liftsAreConsistent already validated the pairing.
			continue
		}
		changedPortions = append(changedPortions, pp)
	}

	if len(changedPortions) == 0 {
		return cells, false, true
	}

	otherFootDefault := toM[f.Other()][step.DefaultPortion].Arrow

	fromMod := stanceModifier(p, f, fromM[f][step.DefaultPortion].Arrow,
		fromM[f.Other()][step.DefaultPortion].Arrow, fromOrient)

	if len(changedPortions) == 1 {
		pp := changedPortions[0]
		other := otherPortion(pp)
		bracketAnchor := fromM[f][other]
		isBracketOneArrow := bracketAnchor.IsValid() && fromM[f][other] == toM[f][other]

		cell, ok := classifySinglePortion(p, f, fromM[f][pp], toM[f][pp], otherFootDefault, toOrient)
		if !ok {
			return cells, false, false
		}
		if cell.Valid && cell.Action != step.Release {
			switch {
			case isBracketOneArrow:
				bt, ok := bracketOneArrowType(pp, cell.pattern, cell.modifier)
				if !ok {
					return cells, false, false
				}
				cell.StepType = bt
			case cell.pattern == patternNew && isSwing(fromOrient, toOrient, fromMod, cell.modifier):
				cell.StepType = step.Swing
			}
		}
		cells[pp] = cell.LinkCell
		return cells, true, true
	}

	// Both portions changed: a full bracket step.
	heel, ok1 := classifySinglePortion(p, f, fromM[f][step.Heel], toM[f][step.Heel], otherFootDefault, toOrient)
	toe, ok2 := classifySinglePortion(p, f, fromM[f][step.Toe], toM[f][step.Toe], otherFootDefault, toOrient)
	if !ok1 || !ok2 {
		return cells, false, false
	}
	if heel.Action == step.Release || toe.Action == step.Release {
		// A bracket release keeps each portion's own SameArrow/Release
		// cell rather than a combined bracket label.
		cells[step.Heel] = heel.LinkCell
		cells[step.Toe] = toe.LinkCell
		return cells, true, true
	}

	bracketMod := dominantModifier(heel.modifier, toe.modifier)
	swing := isSwing(fromOrient, toOrient, fromMod, bracketMod)
	combined := fullBracketType(heel.pattern, toe.pattern, bracketMod, swing)
	cells[step.Heel] = LinkCell{StepType: combined, Action: heel.Action, Valid: true}
	cells[step.Toe] = LinkCell{StepType: combined, Action: toe.Action, Valid: true}
	return cells, true, true
}

func otherPortion(pp step.FootPortion) step.FootPortion {
	if pp == step.Heel {
		return step.Toe
	}
	return step.Heel
}

// classifiedCell bundles a LinkCell with the pattern/modifier that produced
// it, so bracket composition can re-derive a combined label without
// reclassifying from scratch.
type classifiedCell struct {
	LinkCell
	pattern  pattern
	modifier modifier
}

// classifySinglePortion classifies one foot portion's own transition
// (ignoring whether it is part of a bracket with the other portion; the
// caller re-labels bracket cases using the returned pattern/modifier).
func classifySinglePortion(p *pad.Data, f step.Foot, from, to FootArrowState, otherFootDefault int, toOrient step.BodyOrientation) (classifiedCell, bool) {
	action, ok := footActionFor(from, to)
	if !ok {
		return classifiedCell{}, false
	}

	if action == step.Release {
		return classifiedCell{LinkCell: LinkCell{StepType: step.SameArrow, Action: step.Release, Valid: true}, pattern: patternSame}, true
	}

	pat, mod, ok := singleStepPattern(p, f, from.Arrow, to.Arrow, otherFootDefault, toOrient)
	if !ok {
		return classifiedCell{}, false
	}
	ty, ok := singleStepType(pat, mod)
	if !ok {
		return classifiedCell{}, false
	}
	return classifiedCell{LinkCell: LinkCell{StepType: ty, Action: action, Valid: true}, pattern: pat, modifier: mod}, true
}

// footActionFor derives the FootAction (if any) that explains a single
// portion's from->to transition. The legality rules:
// no Held->Held, no transition into Lifted without a paired swap (handled
// by the caller, since that requires looking at the other foot), no
// release landing on a different arrow.
func footActionFor(from, to FootArrowState) (step.FootAction, bool) {
	switch {
	case to.State == step.Lifted:
		// Entering Lifted is a side effect of the other foot's swap; this
		// portion's own cell stays blank (handled by the caller never
		// calling footActionFor in that branch for now) — defensively
		// reject it here too.
		return 0, false

	case !from.IsValid() && to.IsValid():
		if to.State == step.Held {
			return step.Hold, true
		}
		return step.Tap, true

	case from.IsValid() && to.IsValid() && from.Arrow == to.Arrow:
		switch {
		case from.State == step.Held && to.State == step.Resting:
			return step.Release, true
		case (from.State == step.Resting || from.State == step.Lifted) && to.State == step.Held:
			return step.Hold, true
		case from.State == step.Lifted && to.State == step.Resting:
			return step.Tap, true
		default:
			return 0, false
		}

	case from.IsValid() && to.IsValid() && from.Arrow != to.Arrow:
		if from.State == step.Held {
			return 0, false // can't move to a new arrow while holding
		}
		if to.State == step.Held {
			return step.Hold, true
		}
		return step.Tap, true

	default:
		return 0, false
	}
}

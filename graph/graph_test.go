package graph

import (
	"testing"

	"github.com/padchart/stepgraph/pad"
	"github.com/padchart/stepgraph/step"
)

func buildFourPanel(t *testing.T) (*pad.Data, *Graph) {
	t.Helper()
	p, err := pad.New("four-panel-test", pad.FourPanel(), 1.5)
	if err != nil {
		t.Fatalf("pad.New: %v", err)
	}
	g, err := Build(p, 0, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p, g
}

func TestBuildReachability(t *testing.T) {
	_, g := buildFourPanel(t)
	if len(g.Nodes()) == 0 {
		t.Fatal("Build produced no nodes")
	}
	if g.Root.ID != 0 {
		t.Errorf("Root.ID = %d, want 0", g.Root.ID)
	}
}

func TestEveryNodeDefaultPortionValid(t *testing.T) {
	_, g := buildFourPanel(t)
	for _, n := range g.Nodes() {
		for f := step.Foot(0); f < step.NumFeet; f++ {
			if !n.Matrix[f][step.DefaultPortion].IsValid() {
				t.Errorf("node %d: foot %v default portion invalid", n.ID, f)
			}
		}
	}
}

func TestEveryNodeOccupancyLegal(t *testing.T) {
	_, g := buildFourPanel(t)
	for _, n := range g.Nodes() {
		byArrow := map[int]int{}
		liftedOn := map[int]bool{}
		for f := step.Foot(0); f < step.NumFeet; f++ {
			for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
				st := n.Matrix[f][pp]
				if !st.IsValid() {
					continue
				}
				if st.State == step.Lifted {
					liftedOn[st.Arrow] = true
				} else {
					byArrow[st.Arrow]++
				}
			}
		}
		for arrow, count := range byArrow {
			if count > 1 {
				t.Errorf("node %d: arrow %d has %d non-lifted occupants", n.ID, arrow, count)
			}
		}
		for arrow := range liftedOn {
			if byArrow[arrow] == 0 {
				t.Errorf("node %d: arrow %d has a dangling lift with no owner", n.ID, arrow)
			}
		}
	}
}

func TestEveryNodeBracketIsBracketablePair(t *testing.T) {
	p, g := buildFourPanel(t)
	for _, n := range g.Nodes() {
		for f := step.Foot(0); f < step.NumFeet; f++ {
			if !n.Matrix.isBracketed(f) {
				continue
			}
			h, tt := n.Matrix[f][step.Heel], n.Matrix[f][step.Toe]
			arrow := p.Arrow(h.Arrow)
			if arrow == nil || !arrow.IsBracketablePair(f, tt.Arrow) {
				t.Errorf("node %d: foot %v brackets %d+%d, not a bracketable pair", n.ID, f, h.Arrow, tt.Arrow)
			}
		}
	}
}

func TestEveryNodeOrientationMatchesInversion(t *testing.T) {
	_, g := buildFourPanel(t)
	for _, n := range g.Nodes() {
		isNormal := n.Orientation == step.Normal
		isInverted := n.Orientation.IsInverted()
		if isNormal == isInverted {
			t.Errorf("node %d: orientation %v is neither exactly normal nor exactly inverted", n.ID, n.Orientation)
		}
	}
}

func TestEveryLinkFootActionLegal(t *testing.T) {
	_, g := buildFourPanel(t)
	for _, n := range g.Nodes() {
		for l, children := range n.Edges() {
			for _, child := range children {
				for f := step.Foot(0); f < step.NumFeet; f++ {
					for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
						cell := l[f][pp]
						if !cell.Valid {
							continue
						}
						from, to := n.Matrix[f][pp], child.Matrix[f][pp]
						if cell.Action == step.Hold && from.State == step.Held && to.State == step.Held {
							t.Errorf("node %d->%d: Held->Held on foot %v portion %v", n.ID, child.ID, f, pp)
						}
						if cell.Action == step.Release && from.Arrow != to.Arrow {
							t.Errorf("node %d->%d: Release changed arrow (%d -> %d)", n.ID, child.ID, from.Arrow, to.Arrow)
						}
					}
				}
			}
		}
	}
}

func TestNoDirectEdgeBetweenOpposingInverts(t *testing.T) {
	_, g := buildFourPanel(t)
	for _, n := range g.Nodes() {
		if n.Orientation != step.InvertedLeftOverRight {
			continue
		}
		for _, children := range n.Edges() {
			for _, child := range children {
				if child.Orientation == step.InvertedRightOverLeft {
					t.Errorf("node %d (InvertedLeftOverRight) has a direct edge to node %d (InvertedRightOverLeft)", n.ID, child.ID)
				}
			}
		}
	}
}

// A jump D+U from the root (L@0, R@3) on a 4-panel is NewArrow on both
// feet, Tap action, not a bracket (the two arrows are too far apart). Only
// links landing on the plain tap state (each foot Resting on one arrow, no
// toe in use) are checked; holds and brackets that also put the default
// portions on D/U are different transitions with their own labels.
func TestJumpFromRootIsNewArrowNotBracket(t *testing.T) {
	_, g := buildFourPanel(t)
	root := g.Root

	const down, up = 1, 2
	found := false
	for l, children := range root.Edges() {
		left, right := l[step.Left][step.DefaultPortion], l[step.Right][step.DefaultPortion]
		if !left.Valid || !right.Valid {
			continue
		}
		if !l.IsJump() {
			continue
		}
		var toLeft, toRight *Node
		for _, c := range children {
			if c.Matrix[step.Left][step.Heel] == (FootArrowState{Arrow: down, State: step.Resting}) &&
				c.Matrix[step.Right][step.Heel] == (FootArrowState{Arrow: up, State: step.Resting}) &&
				!c.Matrix[step.Left][step.Toe].IsValid() && !c.Matrix[step.Right][step.Toe].IsValid() {
				toLeft, toRight = c, c
			}
		}
		if toLeft == nil || toRight == nil {
			continue
		}
		if left.StepType != step.NewArrow || right.StepType != step.NewArrow {
			t.Errorf("jump D+U step types = %v/%v, want NewArrow/NewArrow", left.StepType, right.StepType)
		}
		if left.Action != step.Tap || right.Action != step.Tap {
			t.Errorf("jump D+U actions = %v/%v, want Tap/Tap", left.Action, right.Action)
		}
		found = true
	}
	if !found {
		t.Fatal("no jump link from root landing on (Left=Down, Right=Up) found")
	}
}

func TestFindNodeAndFindAllLinks(t *testing.T) {
	_, g := buildFourPanel(t)
	n := FindNode(g, 0, step.Resting, 3, step.Resting)
	if n == nil {
		t.Fatal("FindNode(0, Resting, 3, Resting) = nil, want the root-equivalent node")
	}
	if n.ID != g.Root.ID {
		t.Errorf("FindNode(0, Resting, 3, Resting).ID = %d, want root id %d", n.ID, g.Root.ID)
	}

	links := FindAllLinks(g)
	if len(links) == 0 {
		t.Fatal("FindAllLinks returned no links")
	}
}

func TestFootPosition(t *testing.T) {
	p, g := buildFourPanel(t)
	x, y, ok := g.FootPosition(g.Root, step.Left)
	if !ok {
		t.Fatal("FootPosition reported no valid arrow for the root left foot")
	}
	arrow := p.Arrow(0)
	if x != arrow.X || y != arrow.Y {
		t.Errorf("root left foot at (%v, %v), want (%v, %v)", x, y, arrow.X, arrow.Y)
	}
}

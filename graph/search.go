package graph

import (
	"github.com/padchart/stepgraph/corerr"
	"github.com/padchart/stepgraph/step"
)

// checkReachability runs a breadth-first search from g.Root over the
// already-built adjacency and confirms every enumerated Node was visited.
// A StepGraph with unreachable states indicates a bug in enumeration or
// classification, not a usable graph, so Build refuses to return one.
func checkReachability(g *Graph) error {
	visited := make(map[int]bool, len(g.nodes))
	queue := []*Node{g.Root}
	visited[g.Root.ID] = true

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, children := range n.edges {
			for _, c := range children {
				if !visited[c.ID] {
					visited[c.ID] = true
					queue = append(queue, c)
				}
			}
		}
	}

	if len(visited) == len(g.nodes) {
		return nil
	}

	var unreachable []int
	for _, n := range g.nodes {
		if !visited[n.ID] {
			unreachable = append(unreachable, n.ID)
			if len(unreachable) >= 5 {
				break
			}
		}
	}
	var list corerr.List
	list.Add(corerr.Error, corerr.KindBuildUnreachable, "graph",
		"%d of %d states unreachable from root (e.g. node ids %v)",
		len(g.nodes)-len(visited), len(g.nodes), unreachable)
	return list.Err()
}

// FindNode returns the Node where the left foot's default portion sits on
// leftArrow in leftState and the right foot's on rightArrow in rightState,
// with neither foot bracketing, or nil if no such node was enumerated.
func FindNode(g *Graph, leftArrow int, leftState step.GraphArrowState, rightArrow int, rightState step.GraphArrowState) *Node {
	for _, n := range g.nodes {
		l := n.Matrix[step.Left][step.DefaultPortion]
		r := n.Matrix[step.Right][step.DefaultPortion]
		if l.Arrow != leftArrow || r.Arrow != rightArrow {
			continue
		}
		if l.State != leftState || r.State != rightState {
			continue
		}
		if n.Matrix[step.Left][step.Toe].IsValid() || n.Matrix[step.Right][step.Toe].IsValid() {
			continue
		}
		return n
	}
	return nil
}

// FindAllLinks returns every distinct Link appearing anywhere in the graph,
// deduplicated, so a caller can enumerate the graph's step-type vocabulary
// without walking the whole node arena itself.
func FindAllLinks(g *Graph) []Link {
	seen := make(map[Link]bool)
	var out []Link
	for _, n := range g.nodes {
		for l := range n.edges {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	return out
}

// FootPosition returns the pad coordinates foot f occupies at node n: the
// single occupied arrow's coordinates, or the average of the two portions'
// coordinates when the foot is bracketing. ok is false only when the foot
// occupies no valid arrow, which no enumerated Node permits for a default
// portion.
func (g *Graph) FootPosition(n *Node, f step.Foot) (x, y float64, ok bool) {
	var sumX, sumY float64
	count := 0
	for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
		st := n.Matrix[f][pp]
		if !st.IsValid() {
			continue
		}
		a := g.Pad.Arrow(st.Arrow)
		if a == nil {
			continue
		}
		sumX += a.X
		sumY += a.Y
		count++
	}
	if count == 0 {
		return 0, 0, false
	}
	return sumX / float64(count), sumY / float64(count), true
}

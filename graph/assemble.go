package graph

import (
	"fmt"

	"github.com/padchart/stepgraph/pad"
	"github.com/padchart/stepgraph/step"
)

// RawNode is the node half of a StepGraph's on-disk representation: just
// enough to reconstruct a Node's identity, independent of encoding.
type RawNode struct {
	ID          int
	Orientation step.BodyOrientation
	Matrix      Matrix
}

// RawEdge is one (from, link) -> children adjacency entry.
type RawEdge struct {
	FromID   int
	Link     Link
	ChildIDs []int
}

// Assemble reconstructs a *Graph from decoded raw nodes and edges, as
// produced by package graphio's Load. Nodes must be supplied in ID order
// (rawNodes[i].ID == i), with the root at ID 0 (see Build's node-ordering
// comment for why this always holds for graphs this package produced).
func Assemble(p *pad.Data, rawNodes []RawNode, rawEdges []RawEdge) (*Graph, error) {
	nodes := make([]*Node, len(rawNodes))
	for _, rn := range rawNodes {
		if rn.ID < 0 || rn.ID >= len(rawNodes) {
			return nil, fmt.Errorf("stepgraph: node id %d out of range for %d nodes", rn.ID, len(rawNodes))
		}
		nodes[rn.ID] = &Node{
			ID:          rn.ID,
			Matrix:      rn.Matrix,
			Orientation: rn.Orientation,
			edges:       make(map[Link][]*Node),
		}
	}
	for _, n := range nodes {
		if n == nil {
			return nil, fmt.Errorf("stepgraph: node arena has a gap, decoded node ids are not contiguous from 0")
		}
	}

	for _, re := range rawEdges {
		from := nodes[re.FromID]
		children := make([]*Node, 0, len(re.ChildIDs))
		for _, id := range re.ChildIDs {
			if id < 0 || id >= len(nodes) {
				return nil, fmt.Errorf("stepgraph: edge from node %d references out-of-range child %d", re.FromID, id)
			}
			children = append(children, nodes[id])
		}
		from.edges[re.Link] = append(from.edges[re.Link], children...)
	}

	if len(nodes) == 0 {
		return nil, fmt.Errorf("stepgraph: decoded graph has no nodes")
	}

	g := &Graph{Pad: p, Root: nodes[0], nodes: nodes}
	if err := checkReachability(g); err != nil {
		return nil, err
	}
	return g, nil
}

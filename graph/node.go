// Package graph enumerates every physically reachable two-foot body state
// on a given pad layout and the labeled transitions between them — the
// StepGraph. Nodes and links are immutable once built;
// concurrent readers may share a *Graph freely.
//
// A Graph owns a hash-deduplicated Node arena built by enumerating every
// valid state and classifying every ordered pair of states (a BFS from the
// root then checks that all of them are reachable), with each Node's
// outgoing edges keyed by the GraphLink that
// explains the transition and valued by every child state reachable by
// taking it — multiple children can share a link when more than one
// future-state resolution is valid.
package graph

import "github.com/padchart/stepgraph/step"

// FootArrowState pairs an arrow (or step.InvalidArrow) with the occupancy
// state of one foot portion.
type FootArrowState struct {
	Arrow int
	State step.GraphArrowState
}

// IsValid reports whether this portion names a real arrow.
func (s FootArrowState) IsValid() bool { return s.Arrow != step.InvalidArrow }

// invalidState is the canonical "this portion is not in use" value: it is
// always State Resting, since step.InvalidArrow can never be Held or
// Lifted.
var invalidState = FootArrowState{Arrow: step.InvalidArrow, State: step.Resting}

// Matrix is the 2x2 (foot x portion) body-state matrix.
// Indexed Matrix[foot][portion].
type Matrix [step.NumFeet][step.NumFootPortions]FootArrowState

// Node is one body state: a Matrix plus a BodyOrientation. Equality is
// structural over those two fields (both plain comparable values); the
// builder deduplicates through Node.key, since the edges map makes Node
// itself not comparable with ==.
type Node struct {
	ID          int
	Matrix      Matrix
	Orientation step.BodyOrientation

	// edges maps an outgoing Link to every child Node reachable by it.
	// A link may have more than one child when different future-state
	// resolutions (e.g. which specific arrow a Lifted portion silently
	// tracks) are both valid.
	edges map[Link][]*Node
}

// Edges returns the outgoing adjacency of this node: for each distinct
// Link, the Nodes reachable by taking it. The returned map must not be
// mutated by callers.
func (n *Node) Edges() map[Link][]*Node {
	return n.edges
}

// Links returns the distinct outgoing Links from this node, in no
// particular order.
func (n *Node) Links() []Link {
	out := make([]Link, 0, len(n.edges))
	for l := range n.edges {
		out = append(out, l)
	}
	return out
}

// key is the comparable projection of a Node used for build-time
// deduplication; Node.ID and Node.edges are assigned after a canonical
// instance is chosen, so they are deliberately excluded here.
type key struct {
	Matrix      Matrix
	Orientation step.BodyOrientation
}

func (n *Node) key() key { return key{Matrix: n.Matrix, Orientation: n.Orientation} }

// LinkCell is one (foot, portion) entry of a GraphLink: the step type and
// foot action applied, or Valid=false for a deliberately dropped step.
type LinkCell struct {
	StepType step.Type
	Action   step.FootAction
	Valid    bool
}

// Link is the 2x2 (foot x portion) GraphLink matrix of LinkCell. It is
// comparable, so it can be used directly as a map key
// (Node.edges) and compared for equality when pruning duplicate search
// paths in package expressed/performed.
type Link [step.NumFeet][step.NumFootPortions]LinkCell

// IsBlank reports whether every cell of the link is invalid — the
// deliberately-dropped-step sentinel.
func (l Link) IsBlank() bool {
	for _, foot := range l {
		for _, cell := range foot {
			if cell.Valid {
				return false
			}
		}
	}
	return true
}

// FootActs reports whether foot f has at least one valid cell in this
// link (i.e. foot f does something on this transition).
func (l Link) FootActs(f step.Foot) bool {
	for _, cell := range l[f] {
		if cell.Valid {
			return true
		}
	}
	return false
}

// IsJump reports whether both feet act in this link.
func (l Link) IsJump() bool {
	return l.FootActs(step.Left) && l.FootActs(step.Right)
}

// IsAnyBracket reports whether any foot in this link takes a bracket step
// (both portions valid and acting), used by the NoBrackets bracket-parsing
// method to filter the search frontier outright.
func (l Link) IsAnyBracket() bool {
	for f := step.Foot(0); f < step.NumFeet; f++ {
		if l[f][step.Heel].Valid && l[f][step.Toe].Valid {
			return true
		}
	}
	return false
}

// Instance annotates a Link with per-cell InstanceStepType flavor (roll vs
// hold, fake/lift vs a real tap) without changing search topology — the
// GraphLinkInstance of the two chart searches.
type Instance struct {
	Link     Link
	Instance [step.NumFeet][step.NumFootPortions]step.InstanceStepType
}

// NodeInstance pairs a Node with a monotonic instance ID, distinguishing
// multiple search-node visits to the same underlying Node.
type NodeInstance struct {
	Node *Node
	ID   uint64
}

// Package graphio persists a StepGraph to a versioned, LZMA-compressed
// binary format and reloads it, validating that the step/action/state
// enum ordinals the file was written against still match this build's.
//
// The format is a fixed header (version, node count, and the enum-ordinal
// counts a reader uses to detect drift) followed by fixed-width
// big-endian records for nodes and edges, rather than a generic encoding
// like gob or JSON: the wire layout and the ordinal-stability check are
// both explicit parts of the contract, not incidental to whatever a
// general-purpose encoder happens to produce.
package graphio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz/lzma"

	"github.com/padchart/stepgraph/corerr"
	"github.com/padchart/stepgraph/graph"
	"github.com/padchart/stepgraph/pad"
	"github.com/padchart/stepgraph/step"
)

// Version is the current StepGraph binary format version. Bump this and
// keep the old reader path whenever the wire layout changes.
const Version = 1

const invalidArrowByte = 0xFF

// SaveFile writes g to path via a temporary file in the same directory,
// renaming it into place only once the whole graph is on disk, so a crash
// mid-save never leaves a truncated graph file behind.
func SaveFile(g *graph.Graph, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("graphio: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Save(g, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("graphio: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("graphio: rename into place: %w", err)
	}
	return nil
}

// LoadFile reads a StepGraph previously written by SaveFile (or Save).
func LoadFile(p *pad.Data, path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("graphio: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(p, f)
}

// Save writes g to w as a versioned, LZMA-compressed binary blob.
func Save(g *graph.Graph, w io.Writer) error {
	lw, err := lzma.NewWriter(w)
	if err != nil {
		return fmt.Errorf("graphio: open lzma writer: %w", err)
	}
	bw := bufio.NewWriter(lw)

	if err := writeHeader(bw, len(g.Nodes())); err != nil {
		return err
	}
	for _, n := range g.Nodes() {
		if err := writeNode(bw, n); err != nil {
			return err
		}
	}
	for _, n := range g.Nodes() {
		if err := writeEdges(bw, n); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("graphio: flush: %w", err)
	}
	if err := lw.Close(); err != nil {
		return fmt.Errorf("graphio: close lzma writer: %w", err)
	}
	return nil
}

func writeHeader(w io.Writer, nodeCount int) error {
	header := [5]int32{
		Version,
		int32(nodeCount),
		int32(step.NumTypes),
		int32(step.NumFootActions),
		int32(step.NumGraphArrowStates),
	}
	return binary.Write(w, binary.BigEndian, header)
}

func writeNode(w io.Writer, n *graph.Node) error {
	if err := binary.Write(w, binary.BigEndian, int32(n.ID)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, byte(n.Orientation)); err != nil {
		return err
	}
	for f := step.Foot(0); f < step.NumFeet; f++ {
		for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
			st := n.Matrix[f][pp]
			arrowByte := byte(invalidArrowByte)
			if st.IsValid() {
				arrowByte = byte(st.Arrow)
			}
			if err := binary.Write(w, binary.BigEndian, arrowByte); err != nil {
				return err
			}
			if err := binary.Write(w, binary.BigEndian, byte(st.State)); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeEdges(w io.Writer, n *graph.Node) error {
	links := n.Links()
	if err := binary.Write(w, binary.BigEndian, int32(len(links))); err != nil {
		return err
	}
	for _, l := range links {
		for f := step.Foot(0); f < step.NumFeet; f++ {
			for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
				cell := l[f][pp]
				validByte := byte(0)
				if cell.Valid {
					validByte = 1
				}
				if err := binary.Write(w, binary.BigEndian, validByte); err != nil {
					return err
				}
				if err := binary.Write(w, binary.BigEndian, byte(cell.StepType)); err != nil {
					return err
				}
				if err := binary.Write(w, binary.BigEndian, byte(cell.Action)); err != nil {
					return err
				}
			}
		}
		children := n.Edges()[l]
		if err := binary.Write(w, binary.BigEndian, int32(len(children))); err != nil {
			return err
		}
		for _, c := range children {
			if err := binary.Write(w, binary.BigEndian, int32(c.ID)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load reads a StepGraph previously written by Save, validating ordinal
// stability and version before attempting to decode node/edge data.
func Load(p *pad.Data, r io.Reader) (*graph.Graph, error) {
	lr, err := lzma.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("graphio: open lzma reader: %w", err)
	}
	br := bufio.NewReader(lr)

	nodeCount, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	rawNodes := make([]graph.RawNode, nodeCount)
	for i := range rawNodes {
		rn, err := readNode(br)
		if err != nil {
			return nil, fmt.Errorf("graphio: decode node %d: %w", i, err)
		}
		rawNodes[i] = rn
	}

	var rawEdges []graph.RawEdge
	for i := 0; i < nodeCount; i++ {
		edges, err := readEdges(br, i)
		if err != nil {
			return nil, fmt.Errorf("graphio: decode edges for node %d: %w", i, err)
		}
		rawEdges = append(rawEdges, edges...)
	}

	return graph.Assemble(p, rawNodes, rawEdges)
}

func readHeader(r io.Reader) (int, error) {
	var header [5]int32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return 0, fmt.Errorf("graphio: read header: %w", err)
	}
	version, nodeCount, numTypes, numActions, numStates := header[0], header[1], header[2], header[3], header[4]

	var list corerr.List
	if version != Version {
		list.Add(corerr.Error, corerr.KindGraphVersion, "graphio",
			"file version %d, reader expects %d", version, Version)
	}
	if int(numTypes) != step.NumTypes {
		list.Add(corerr.Error, corerr.KindOrdinalMismatch, "graphio",
			"file has %d step types, reader has %d", numTypes, step.NumTypes)
	}
	if int(numActions) != step.NumFootActions {
		list.Add(corerr.Error, corerr.KindOrdinalMismatch, "graphio",
			"file has %d foot actions, reader has %d", numActions, step.NumFootActions)
	}
	if int(numStates) != step.NumGraphArrowStates {
		list.Add(corerr.Error, corerr.KindOrdinalMismatch, "graphio",
			"file has %d arrow states, reader has %d", numStates, step.NumGraphArrowStates)
	}
	if err := list.Err(); err != nil {
		return 0, err
	}
	return int(nodeCount), nil
}

func readNode(r io.Reader) (graph.RawNode, error) {
	var id int32
	if err := binary.Read(r, binary.BigEndian, &id); err != nil {
		return graph.RawNode{}, err
	}
	var orientByte byte
	if err := binary.Read(r, binary.BigEndian, &orientByte); err != nil {
		return graph.RawNode{}, err
	}

	var m graph.Matrix
	for f := step.Foot(0); f < step.NumFeet; f++ {
		for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
			var arrowByte, stateByte byte
			if err := binary.Read(r, binary.BigEndian, &arrowByte); err != nil {
				return graph.RawNode{}, err
			}
			if err := binary.Read(r, binary.BigEndian, &stateByte); err != nil {
				return graph.RawNode{}, err
			}
			arrow := step.InvalidArrow
			if arrowByte != invalidArrowByte {
				arrow = int(arrowByte)
			}
			m[f][pp] = graph.FootArrowState{Arrow: arrow, State: step.GraphArrowState(stateByte)}
		}
	}

	return graph.RawNode{ID: int(id), Orientation: step.BodyOrientation(orientByte), Matrix: m}, nil
}

func readEdges(r io.Reader, fromID int) ([]graph.RawEdge, error) {
	var linkCount int32
	if err := binary.Read(r, binary.BigEndian, &linkCount); err != nil {
		return nil, err
	}

	edges := make([]graph.RawEdge, 0, linkCount)
	for i := int32(0); i < linkCount; i++ {
		var l graph.Link
		for f := step.Foot(0); f < step.NumFeet; f++ {
			for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
				var validByte, typeByte, actionByte byte
				if err := binary.Read(r, binary.BigEndian, &validByte); err != nil {
					return nil, err
				}
				if err := binary.Read(r, binary.BigEndian, &typeByte); err != nil {
					return nil, err
				}
				if err := binary.Read(r, binary.BigEndian, &actionByte); err != nil {
					return nil, err
				}
				l[f][pp] = graph.LinkCell{
					Valid:    validByte != 0,
					StepType: step.Type(typeByte),
					Action:   step.FootAction(actionByte),
				}
			}
		}

		var childCount int32
		if err := binary.Read(r, binary.BigEndian, &childCount); err != nil {
			return nil, err
		}
		childIDs := make([]int, childCount)
		for j := range childIDs {
			var id int32
			if err := binary.Read(r, binary.BigEndian, &id); err != nil {
				return nil, err
			}
			childIDs[j] = int(id)
		}

		edges = append(edges, graph.RawEdge{FromID: fromID, Link: l, ChildIDs: childIDs})
	}
	return edges, nil
}

package graphio

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz/lzma"

	"github.com/padchart/stepgraph/graph"
	"github.com/padchart/stepgraph/pad"
	"github.com/padchart/stepgraph/step"
)

func buildTestGraph(t *testing.T) (*pad.Data, *graph.Graph) {
	t.Helper()
	p, err := pad.New("four-panel-test", pad.FourPanel(), 1.5)
	if err != nil {
		t.Fatalf("pad.New: %v", err)
	}
	g, err := graph.Build(p, 0, 3)
	if err != nil {
		t.Fatalf("graph.Build: %v", err)
	}
	return p, g
}

func TestRoundTrip(t *testing.T) {
	p, g := buildTestGraph(t)

	var buf bytes.Buffer
	if err := Save(g, &buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(p, &buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(loaded.Nodes()) != len(g.Nodes()) {
		t.Errorf("node count = %d, want %d", len(loaded.Nodes()), len(g.Nodes()))
	}

	origLinks := graph.FindAllLinks(g)
	loadedLinks := graph.FindAllLinks(loaded)
	if len(origLinks) != len(loadedLinks) {
		t.Errorf("link count = %d, want %d", len(loadedLinks), len(origLinks))
	}

	if loaded.Root.Matrix != g.Root.Matrix || loaded.Root.Orientation != g.Root.Orientation {
		t.Error("loaded root does not equal original root")
	}
}

func TestLoadRejectsWrongVersion(t *testing.T) {
	p, _ := buildTestGraph(t)

	// Hand-compress a header claiming a future version; everything past the
	// header is irrelevant since validation must fail before node decoding.
	var buf bytes.Buffer
	lw, err := lzma.NewWriter(&buf)
	if err != nil {
		t.Fatalf("lzma.NewWriter: %v", err)
	}
	header := [5]int32{Version + 1, 0, int32(step.NumTypes), int32(step.NumFootActions), int32(step.NumGraphArrowStates)}
	if err := binary.Write(lw, binary.BigEndian, header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := lw.Close(); err != nil {
		t.Fatalf("close lzma writer: %v", err)
	}

	if _, err := Load(p, &buf); err == nil {
		t.Error("Load of a future-version file should fail")
	}
}

func TestLoadRejectsOrdinalDrift(t *testing.T) {
	p, _ := buildTestGraph(t)

	var buf bytes.Buffer
	lw, err := lzma.NewWriter(&buf)
	if err != nil {
		t.Fatalf("lzma.NewWriter: %v", err)
	}
	header := [5]int32{Version, 0, int32(step.NumTypes + 1), int32(step.NumFootActions), int32(step.NumGraphArrowStates)}
	if err := binary.Write(lw, binary.BigEndian, header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := lw.Close(); err != nil {
		t.Fatalf("close lzma writer: %v", err)
	}

	if _, err := Load(p, &buf); err == nil {
		t.Error("Load with a different step-type count should fail")
	}
}

func TestSaveFileLoadFileRoundTrip(t *testing.T) {
	p, g := buildTestGraph(t)

	path := filepath.Join(t.TempDir(), "four-panel.sg")
	if err := SaveFile(g, path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	loaded, err := LoadFile(p, path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(loaded.Nodes()) != len(g.Nodes()) {
		t.Errorf("node count = %d, want %d", len(loaded.Nodes()), len(g.Nodes()))
	}
}

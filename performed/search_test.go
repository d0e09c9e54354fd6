package performed

import (
	"math/rand"
	"testing"

	"github.com/padchart/stepgraph/chartevents"
	"github.com/padchart/stepgraph/expressed"
	"github.com/padchart/stepgraph/graph"
	"github.com/padchart/stepgraph/pad"
	"github.com/padchart/stepgraph/step"
)

func buildFourPanelGraph(t *testing.T) *graph.Graph {
	t.Helper()
	p, err := pad.New("four-panel-test", pad.FourPanel(), 1.5)
	if err != nil {
		t.Fatalf("pad.New: %v", err)
	}
	g, err := graph.Build(p, 0, 3)
	if err != nil {
		t.Fatalf("graph.Build: %v", err)
	}
	return g
}

func tap(pos int, lane int, t float64) chartevents.Event {
	return chartevents.Event{Position: pos, Time: t, Type: chartevents.Tap, Lane: lane}
}

// Performing an expressed chart back onto the same StepGraph with a zero
// Config (no fallbacks beyond each step type itself) must reproduce the
// original arrow sequence exactly.
func TestPerformReproducesExpressedFidelity(t *testing.T) {
	g := buildFourPanelGraph(t)
	chart := chartevents.New([]chartevents.Event{
		tap(0, 0, 0.0),
		tap(48, 3, 0.1),
		tap(96, 0, 0.2),
		tap(144, 3, 0.3),
	})

	ex, err := expressed.Express(g, chart, expressed.Config{}, 1)
	if err != nil {
		t.Fatalf("Express: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	played, err := Perform(g, ex, Config{}, rng)
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if len(played.Steps) != len(ex.Steps) {
		t.Fatalf("len(Steps) = %d, want %d", len(played.Steps), len(ex.Steps))
	}

	wantLanes := []int{0, 3, 0, 3}
	for i, sn := range played.Steps {
		if sn.Position != ex.Steps[i].Position {
			t.Errorf("step %d: Position = %d, want %d", i, sn.Position, ex.Steps[i].Position)
		}
		found := false
		for f := step.Foot(0); f < step.NumFeet; f++ {
			for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
				if !sn.Link[f][pp].Valid {
					continue
				}
				if sn.Node.Matrix[f][pp].Arrow != wantLanes[i] {
					t.Errorf("step %d: arrow = %d, want %d", i, sn.Node.Matrix[f][pp].Arrow, wantLanes[i])
				}
				found = true
			}
		}
		if !found {
			t.Errorf("step %d: no acting cell found in performed Link", i)
		}
	}
}

// Across all produced step nodes, consecutive step positions must be
// nondecreasing.
func TestPerformPositionsNondecreasing(t *testing.T) {
	g := buildFourPanelGraph(t)
	chart := chartevents.New([]chartevents.Event{
		tap(0, 0, 0.0),
		tap(48, 3, 0.1),
		tap(96, 2, 0.2),
		tap(144, 1, 0.3),
	})
	ex, err := expressed.Express(g, chart, expressed.Config{}, 1)
	if err != nil {
		t.Fatalf("Express: %v", err)
	}
	rng := rand.New(rand.NewSource(2))
	played, err := Perform(g, ex, Config{}, rng)
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	for i := 1; i < len(played.Steps); i++ {
		if played.Steps[i].Position < played.Steps[i-1].Position {
			t.Errorf("position decreased at step %d: %d < %d", i, played.Steps[i].Position, played.Steps[i-1].Position)
		}
	}
}

// A foot jacking the same arrow more than MaxSameArrowsInARowPerFoot times
// must push the StreakOverMax cost term above zero. The jack is pinned to
// one foot by building the StepEvents directly, since a foot-intent stream
// dictates which foot each step uses.
func TestMaxSameArrowsInARowPerFootEnforced(t *testing.T) {
	g := buildFourPanelGraph(t)

	jack := func(pos int, tm float64) expressed.StepEvent {
		var link graph.Link
		link[step.Left][step.DefaultPortion] = graph.LinkCell{StepType: step.SameArrow, Action: step.Tap, Valid: true}
		return expressed.StepEvent{Position: pos, Time: tm, Link: graph.Instance{Link: link}}
	}
	events := []expressed.StepEvent{
		jack(0, 0.0), jack(48, 0.1), jack(96, 0.2), jack(144, 0.3),
	}

	cfg := Config{MaxSameArrowsInARowPerFoot: 2}
	rng := rand.New(rand.NewSource(3))
	final, err := runSearch(g, events, cfg, rng)
	if err != nil {
		t.Fatalf("runSearch: %v", err)
	}
	if final.Cost.StreakOverMax < 2 {
		t.Errorf("StreakOverMax = %v, want >= 2 (4 same-arrow taps by one foot, max 2)", final.Cost.StreakOverMax)
	}
}

// A hold with an intervening tap must perform onto the same graph as
// Hold/Tap/Release in that order, at the same positions.
func TestPerformHoldWithInterveningTap(t *testing.T) {
	g := buildFourPanelGraph(t)
	chart := chartevents.New([]chartevents.Event{
		{Position: 0, Time: 0.0, Type: chartevents.HoldStart, Lane: 0},
		{Position: 48, Time: 0.1, Type: chartevents.Tap, Lane: 3},
		{Position: 96, Time: 0.2, Type: chartevents.HoldEnd, Lane: 0},
	})
	ex, err := expressed.Express(g, chart, expressed.Config{}, 1)
	if err != nil {
		t.Fatalf("Express: %v", err)
	}
	rng := rand.New(rand.NewSource(5))
	played, err := Perform(g, ex, Config{}, rng)
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if len(played.Steps) != 3 {
		t.Fatalf("len(Steps) = %d, want 3", len(played.Steps))
	}
	if played.Steps[0].Link[step.Left][step.Heel].Action != step.Hold {
		t.Errorf("step 0: left action = %v, want Hold", played.Steps[0].Link[step.Left][step.Heel].Action)
	}
	if played.Steps[2].Link[step.Left][step.Heel].Action != step.Release {
		t.Errorf("step 2: left action = %v, want Release", played.Steps[2].Link[step.Left][step.Heel].Action)
	}
}

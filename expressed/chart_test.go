package expressed

import (
	"testing"

	"github.com/padchart/stepgraph/chartevents"
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

// Alternating taps on the same two arrows the feet started on must express as alternating SameArrow taps, no crossovers.
func TestExpressAlternatingSameArrowTaps(t *testing.T) {
	g := buildFourPanelGraph(t)
	chart := chartevents.New([]chartevents.Event{
		tap(0, 0, 0.0),
		tap(48, 3, 0.1),
		tap(96, 0, 0.2),
		tap(144, 3, 0.3),
	})

	expressed, err := Express(g, chart, Config{}, 1)
	if err != nil {
		t.Fatalf("Express: %v", err)
	}
	if len(expressed.Steps) != 4 {
		t.Fatalf("len(Steps) = %d, want 4", len(expressed.Steps))
	}
	for _, s := range expressed.Steps {
		for f := step.Foot(0); f < step.NumFeet; f++ {
			for _, cell := range s.Link.Link[f] {
				if !cell.Valid {
					continue
				}
				if cell.StepType.IsCrossover() || cell.StepType.IsInvert() {
					t.Errorf("position %d: unexpected %v on foot %v", s.Position, cell.StepType, f)
				}
			}
		}
	}
}

// Taps on Left, Right, Up, Down in that order from
// the (L=0,R=3) root classify as SameArrow, SameArrow, NewArrow, NewArrow,
// with no crossovers.
func TestExpressNewArrowSequence(t *testing.T) {
	g := buildFourPanelGraph(t)
	chart := chartevents.New([]chartevents.Event{
		tap(0, 0, 0.0),   // Left
		tap(48, 3, 0.1),  // Right
		tap(96, 2, 0.2),  // Up
		tap(144, 1, 0.3), // Down
	})

	expressed, err := Express(g, chart, Config{}, 1)
	if err != nil {
		t.Fatalf("Express: %v", err)
	}
	if len(expressed.Steps) != 4 {
		t.Fatalf("len(Steps) = %d, want 4", len(expressed.Steps))
	}
	for _, s := range expressed.Steps {
		for f := step.Foot(0); f < step.NumFeet; f++ {
			for _, cell := range s.Link.Link[f] {
				if cell.Valid && cell.StepType.IsCrossover() {
					t.Errorf("position %d: unexpected crossover on foot %v", s.Position, f)
				}
			}
		}
	}
}

// Taps on lanes 0, 3, 3 from the (L=0,R=3) root. The third tap lands on
// the arrow Right is already resting on, playable either as a jack (Right
// taps its own arrow again) or as a foot swap (Left takes the arrow over).
// FootSwap (cFootSwap) is cheaper than a same-foot repeat
// (cSameOrAltNew + cSameArrowRepeat), so expression must pick FootSwap.
func TestExpressPicksFootSwapOverJack(t *testing.T) {
	g := buildFourPanelGraph(t)
	chart := chartevents.New([]chartevents.Event{
		tap(0, 0, 0.0),
		tap(48, 3, 0.1),
		tap(96, 3, 0.2),
	})

	expressed, err := Express(g, chart, Config{}, 1)
	if err != nil {
		t.Fatalf("Express: %v", err)
	}
	if len(expressed.Steps) != 3 {
		t.Fatalf("len(Steps) = %d, want 3", len(expressed.Steps))
	}

	last := expressed.Steps[2].Link.Link
	var found step.Type
	ok := false
	for f := step.Foot(0); f < step.NumFeet; f++ {
		for _, cell := range last[f] {
			if cell.Valid {
				found = cell.StepType
				ok = true
			}
		}
	}
	if !ok {
		t.Fatal("position 96: no acting foot found in link")
	}
	if found != step.FootSwap {
		t.Errorf("position 96: step type = %v, want FootSwap", found)
	}
}

// A jump of two distant arrows should classify as NewArrow/NewArrow Tap on
// both feet and must not be a bracket; this mirrors the raw StepGraph
// test at the ExpressedChart layer.
func TestExpressJumpIsNewArrowNotBracket(t *testing.T) {
	g := buildFourPanelGraph(t)
	chart := chartevents.New([]chartevents.Event{
		{Position: 0, Time: 0, Type: chartevents.Tap, Lane: 1}, // Down
		{Position: 0, Time: 0, Type: chartevents.Tap, Lane: 2}, // Up
	})

	expressed, err := Express(g, chart, Config{}, 1)
	if err != nil {
		t.Fatalf("Express: %v", err)
	}
	if len(expressed.Steps) != 1 {
		t.Fatalf("len(Steps) = %d, want 1", len(expressed.Steps))
	}
	link := expressed.Steps[0].Link.Link
	if !link.IsJump() {
		t.Fatal("expected a jump link")
	}
	if link.IsAnyBracket() {
		t.Error("jump onto two far-apart arrows should not be a bracket")
	}
}

// Hold with an intervening tap on the other foot: StepEvents are Hold on
// L, Tap on R, Release on L, in that order.
func TestExpressHoldWithInterveningTap(t *testing.T) {
	g := buildFourPanelGraph(t)
	chart := chartevents.New([]chartevents.Event{
		{Position: 0, Time: 0.0, Type: chartevents.HoldStart, Lane: 0},
		{Position: 48, Time: 0.1, Type: chartevents.Tap, Lane: 3},
		{Position: 96, Time: 0.2, Type: chartevents.HoldEnd, Lane: 0},
	})

	expressed, err := Express(g, chart, Config{}, 1)
	if err != nil {
		t.Fatalf("Express: %v", err)
	}
	if len(expressed.Steps) != 3 {
		t.Fatalf("len(Steps) = %d, want 3", len(expressed.Steps))
	}
	if expressed.Steps[0].Link.Link[step.Left][step.Heel].Action != step.Hold {
		t.Errorf("position 0: left action = %v, want Hold", expressed.Steps[0].Link.Link[step.Left][step.Heel].Action)
	}
	if expressed.Steps[2].Link.Link[step.Left][step.Heel].Action != step.Release {
		t.Errorf("position 96: left action = %v, want Release", expressed.Steps[2].Link.Link[step.Left][step.Heel].Action)
	}
}

// A release on an arrow that was never held has no valid transition and
// must fail the search outright.
func TestExpressReleaseWithoutHoldFails(t *testing.T) {
	g := buildFourPanelGraph(t)
	chart := chartevents.New([]chartevents.Event{
		{Position: 0, Time: 0, Type: chartevents.HoldEnd, Lane: 2},
	})

	if _, err := Express(g, chart, Config{}, 1); err == nil {
		t.Fatal("Express succeeded on an unheld release, want failure")
	}
}

// A tap on Right followed by a mine
// on the same lane expresses as AfterArrow, nth=0, foot=Right.
func TestExpressMineAfterArrow(t *testing.T) {
	g := buildFourPanelGraph(t)
	chart := chartevents.New([]chartevents.Event{
		{Position: 0, Time: 0.0, Type: chartevents.Tap, Lane: 3},
		{Position: 24, Time: 0.05, Type: chartevents.Mine, Lane: 3},
	})

	expressed, err := Express(g, chart, Config{}, 1)
	if err != nil {
		t.Fatalf("Express: %v", err)
	}
	if len(expressed.Mines) != 1 {
		t.Fatalf("len(Mines) = %d, want 1", len(expressed.Mines))
	}
	m := expressed.Mines[0]
	if m.Association != AfterArrow {
		t.Errorf("Association = %v, want AfterArrow", m.Association)
	}
	if m.NthClosest != 0 {
		t.Errorf("NthClosest = %d, want 0", m.NthClosest)
	}
	if m.FootPaired != step.Right {
		t.Errorf("FootPaired = %v, want Right", m.FootPaired)
	}
}

// A position with more simultaneous taps than feet must be detected by
// MaxSimultaneous, feeding ChooseMethodDynamically's Aggressive shortcut.
func TestMaxSimultaneousDrivesDynamicDetermination(t *testing.T) {
	g := buildFourPanelGraph(t)
	chart := chartevents.New([]chartevents.Event{
		{Position: 0, Time: 0, Type: chartevents.Tap, Lane: 0},
		{Position: 0, Time: 0, Type: chartevents.Tap, Lane: 1},
		{Position: 0, Time: 0, Type: chartevents.Tap, Lane: 2},
	})
	if chart.MaxSimultaneous() <= step.NumFeet {
		t.Fatalf("MaxSimultaneous() = %d, want > %d", chart.MaxSimultaneous(), step.NumFeet)
	}

	cfg := Config{
		BracketParsingDetermination: ChooseMethodDynamically,
		UseAggressiveBracketsWhenMoreSimultaneousNotesThanCanBeCoveredWithoutBrackets: true,
	}
	expressed, err := Express(g, chart, cfg, 5)
	if err != nil {
		t.Fatalf("Express: %v", err)
	}
	if expressed.Method != Aggressive {
		t.Errorf("Method = %v, want Aggressive", expressed.Method)
	}
}

// A roll carries the Roll InstanceStepType on its starting cell without
// changing search topology: the link action is still Hold.
func TestExpressRollFlavor(t *testing.T) {
	g := buildFourPanelGraph(t)
	chart := chartevents.New([]chartevents.Event{
		{Position: 0, Time: 0.0, Type: chartevents.RollStart, Lane: 0},
		{Position: 96, Time: 0.2, Type: chartevents.HoldEnd, Lane: 0},
	})

	expressed, err := Express(g, chart, Config{}, 1)
	if err != nil {
		t.Fatalf("Express: %v", err)
	}
	if len(expressed.Steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(expressed.Steps))
	}
	start := expressed.Steps[0].Link
	if start.Link[step.Left][step.Heel].Action != step.Hold {
		t.Errorf("roll start action = %v, want Hold", start.Link[step.Left][step.Heel].Action)
	}
	if start.Instance[step.Left][step.Heel] != step.Roll {
		t.Errorf("roll start flavor = %v, want Roll", start.Instance[step.Left][step.Heel])
	}
}

// Fakes and lifts express as taps carrying their flavor annotation.
func TestExpressFakeAndLiftFlavors(t *testing.T) {
	g := buildFourPanelGraph(t)
	chart := chartevents.New([]chartevents.Event{
		{Position: 0, Time: 0.0, Type: chartevents.Fake, Lane: 0},
		{Position: 48, Time: 0.1, Type: chartevents.Lift, Lane: 3},
	})

	expressed, err := Express(g, chart, Config{}, 1)
	if err != nil {
		t.Fatalf("Express: %v", err)
	}
	if len(expressed.Steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(expressed.Steps))
	}
	if expressed.Steps[0].Link.Instance[step.Left][step.Heel] != step.Fake {
		t.Errorf("step 0 flavor = %v, want Fake", expressed.Steps[0].Link.Instance[step.Left][step.Heel])
	}
	if expressed.Steps[1].Link.Instance[step.Right][step.Heel] != step.Lift {
		t.Errorf("step 1 flavor = %v, want Lift", expressed.Steps[1].Link.Instance[step.Right][step.Heel])
	}
}

// Mirroring a chart across MirroredLane and re-expressing it must produce
// a mirror-equivalent StepEvent sequence: the same position/time
// spine, with every foot's cells swapped to the opposite foot. StepType and
// FootAction are both defined relative to the body (SameArrow, NewArrow,
// Crossover, Tap, Hold, ...), not to an absolute lane, so a step that acts
// with foot F in the original must act with F.Other() in the mirror, with
// an identical StepType/Action/InstanceStepType at each portion.
func TestExpressMirrorIsFootSwappedEquivalent(t *testing.T) {
	p, err := pad.New("four-panel-test", pad.FourPanel(), 1.5)
	if err != nil {
		t.Fatalf("pad.New: %v", err)
	}
	g, err := graph.Build(p, 0, 3)
	if err != nil {
		t.Fatalf("graph.Build: %v", err)
	}
	chart := chartevents.New([]chartevents.Event{
		tap(0, 0, 0.0),
		tap(48, 3, 0.1),
		tap(96, 0, 0.2),
		tap(144, 2, 0.3),
	})
	mirrored := chart.Mirror(func(lane int) int { return p.Arrow(lane).MirroredLane })

	a, err := Express(g, chart, Config{}, 1)
	if err != nil {
		t.Fatalf("Express(original): %v", err)
	}
	b, err := Express(g, mirrored, Config{}, 1)
	if err != nil {
		t.Fatalf("Express(mirrored): %v", err)
	}
	if len(a.Steps) != len(b.Steps) {
		t.Fatalf("len(Steps) = %d vs %d, want equal", len(a.Steps), len(b.Steps))
	}

	for i := range a.Steps {
		sa, sb := a.Steps[i], b.Steps[i]
		if sa.Position != sb.Position {
			t.Errorf("step %d: Position = %d vs %d, want equal", i, sa.Position, sb.Position)
		}
		for f := step.Foot(0); f < step.NumFeet; f++ {
			mf := f.Other()
			for pp := step.FootPortion(0); pp < step.NumFootPortions; pp++ {
				ca := sa.Link.Link[f][pp]
				cb := sb.Link.Link[mf][pp]
				if ca.Valid != cb.Valid {
					t.Errorf("step %d foot %v portion %v: Valid = %v, mirror foot %v portion %v Valid = %v",
						i, f, pp, ca.Valid, mf, pp, cb.Valid)
					continue
				}
				if !ca.Valid {
					continue
				}
				if ca.StepType != cb.StepType {
					t.Errorf("step %d foot %v portion %v: StepType = %v, mirror foot %v StepType = %v",
						i, f, pp, ca.StepType, mf, cb.StepType)
				}
				if ca.Action != cb.Action {
					t.Errorf("step %d foot %v portion %v: Action = %v, mirror foot %v Action = %v",
						i, f, pp, ca.Action, mf, cb.Action)
				}
				ia := sa.Link.Instance[f][pp]
				ib := sb.Link.Instance[mf][pp]
				if ia != ib {
					t.Errorf("step %d foot %v portion %v: InstanceStepType = %v, mirror foot %v = %v",
						i, f, pp, ia, mf, ib)
				}
			}
		}
	}
}

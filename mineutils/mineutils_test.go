package mineutils

import (
	"math/rand"
	"testing"

	"github.com/padchart/stepgraph/graph"
	"github.com/padchart/stepgraph/step"
)

func TestHowRecentGroupsSimultaneousByPosition(t *testing.T) {
	events := []Event{
		{Position: 0, Arrow: 0, Foot: step.Left},
		{Position: 48, Arrow: 1, Foot: step.Right},
		{Position: 48, Arrow: 2, Foot: step.Left},
		{Position: 96, Arrow: 3, Foot: step.Right},
	}
	n, foot, ok := HowRecent(events, 1, 96, Backward)
	if !ok {
		t.Fatal("HowRecent did not find arrow 1")
	}
	if n != 0 {
		t.Errorf("n = %d, want 0 (position 48 is the nearest distinct position before 96)", n)
	}
	if foot != step.Right {
		t.Errorf("foot = %v, want Right", foot)
	}

	n2, _, ok2 := HowRecent(events, 0, 96, Backward)
	if !ok2 || n2 != 1 {
		t.Errorf("HowRecent(arrow 0) = (%d, %v), want (1, true)", n2, ok2)
	}
}

func TestBestNthPrefersDesiredFoot(t *testing.T) {
	steps := []Event{
		{Position: 0, Arrow: 3, Foot: step.Right},
	}
	rng := rand.New(rand.NewSource(1))
	arrow, foot, ok := BestNth(steps, 0, step.Right, 24, func(int) bool { return true }, rng)
	if !ok {
		t.Fatal("BestNth found nothing")
	}
	if arrow != 3 || foot != step.Right {
		t.Errorf("BestNth = (%d, %v), want (3, Right)", arrow, foot)
	}
}

func TestBestNthStepsDepthWhenUnavailable(t *testing.T) {
	steps := []Event{
		{Position: 0, Arrow: 0, Foot: step.Left},
		{Position: 48, Arrow: 3, Foot: step.Right},
	}
	rng := rand.New(rand.NewSource(1))
	// Arrow 3 (depth 0, most recent) is occupied by another mine; depth 1
	// (arrow 0) should be used instead.
	occupied := map[int]bool{3: true}
	arrow, _, ok := BestNth(steps, 0, step.Right, 96, func(a int) bool { return !occupied[a] }, rng)
	if !ok {
		t.Fatal("BestNth found nothing")
	}
	if arrow != 0 {
		t.Errorf("arrow = %d, want 0 (depth 1 fallback)", arrow)
	}
}

func TestBestNthFailsWhenNothingFree(t *testing.T) {
	steps := []Event{{Position: 0, Arrow: 3, Foot: step.Right}}
	rng := rand.New(rand.NewSource(1))
	_, _, ok := BestNth(steps, 0, step.Right, 48, func(int) bool { return false }, rng)
	if ok {
		t.Error("BestNth should fail when no candidate is free")
	}
}

func TestReleasesAndStepsEmptyChain(t *testing.T) {
	releases, steps := ReleasesAndSteps(nil, 4)
	if len(releases) != 0 || len(steps) != 0 {
		t.Errorf("empty chain should produce no events, got %d releases, %d steps", len(releases), len(steps))
	}
}

func TestReleasesAndStepsTapEmitsBoth(t *testing.T) {
	node := &graph.Node{}
	node.Matrix[step.Left][step.Heel] = graph.FootArrowState{Arrow: 0, State: step.Resting}
	node.Matrix[step.Right][step.Heel] = graph.FootArrowState{Arrow: 3, State: step.Resting}

	var tapLink graph.Link
	tapLink[step.Left][step.Heel] = graph.LinkCell{StepType: step.SameArrow, Action: step.Tap, Valid: true}

	chain := []ChainEntry{{Position: 48, Node: node, Link: tapLink}}
	releases, steps := ReleasesAndSteps(chain, 4)
	if len(steps) != 1 || len(releases) != 1 {
		t.Fatalf("tap should emit one step and one release, got %d/%d", len(steps), len(releases))
	}
	if steps[0].Arrow != 0 || steps[0].Foot != step.Left || steps[0].Position != 48 {
		t.Errorf("step = %+v, want arrow 0, foot Left, position 48", steps[0])
	}
}

func TestReleasesAndStepsHoldEmitsStepThenRelease(t *testing.T) {
	held := &graph.Node{}
	held.Matrix[step.Left][step.Heel] = graph.FootArrowState{Arrow: 0, State: step.Held}
	held.Matrix[step.Right][step.Heel] = graph.FootArrowState{Arrow: 3, State: step.Resting}
	rested := &graph.Node{}
	rested.Matrix[step.Left][step.Heel] = graph.FootArrowState{Arrow: 0, State: step.Resting}
	rested.Matrix[step.Right][step.Heel] = graph.FootArrowState{Arrow: 3, State: step.Resting}

	var holdLink, releaseLink graph.Link
	holdLink[step.Left][step.Heel] = graph.LinkCell{StepType: step.SameArrow, Action: step.Hold, Valid: true}
	releaseLink[step.Left][step.Heel] = graph.LinkCell{StepType: step.SameArrow, Action: step.Release, Valid: true}

	chain := []ChainEntry{
		{Position: 0, Node: held, Link: holdLink},
		{Position: 96, Node: rested, Link: releaseLink},
	}
	releases, steps := ReleasesAndSteps(chain, 4)
	if len(steps) != 1 {
		t.Fatalf("hold should emit exactly one step, got %d", len(steps))
	}
	if len(releases) != 1 {
		t.Fatalf("hold should emit exactly one release (at the hold end), got %d", len(releases))
	}
	if steps[0].Position != 0 || releases[0].Position != 96 {
		t.Errorf("step at %d and release at %d, want 0 and 96", steps[0].Position, releases[0].Position)
	}
}

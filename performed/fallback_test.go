package performed

import (
	"testing"

	"github.com/google/uuid"

	"github.com/padchart/stepgraph/corerr"
	"github.com/padchart/stepgraph/graph"
	"github.com/padchart/stepgraph/step"
)

func singleFootLink(f step.Foot, t step.Type, action step.FootAction) graph.Link {
	var l graph.Link
	l[f][step.DefaultPortion] = graph.LinkCell{StepType: t, Action: action, Valid: true}
	return l
}

func TestResolveReplacementsOrdersNonBlankFirst(t *testing.T) {
	cfg := Config{
		StepTypeFallbacks: map[step.Type][]FallbackEntry{
			step.CrossoverFront: {{Step: step.SameArrow}},
		},
	}
	link := singleFootLink(step.Left, step.CrossoverFront, step.Tap)
	reps, err := resolveReplacements(cfg, link)
	if err != nil {
		t.Fatalf("resolveReplacements: %v", err)
	}
	if len(reps) != 3 {
		t.Fatalf("len(reps) = %d, want 3 (CrossoverFront, SameArrow, Blank)", len(reps))
	}
	if reps[0].Left.Blank || reps[0].Left.Step != step.CrossoverFront {
		t.Errorf("reps[0] = %+v, want original CrossoverFront first", reps[0])
	}
	if !reps[len(reps)-1].Left.Blank {
		t.Errorf("last candidate should be Blank, got %+v", reps[len(reps)-1])
	}
}

func TestStepTypeFallbacksIncludeSplicing(t *testing.T) {
	cfg := Config{
		StepTypeFallbacks: map[step.Type][]FallbackEntry{
			step.InvertFront:    {{IsInclude: true, Include: step.CrossoverFront}},
			step.CrossoverFront: {{Step: step.SameArrow}},
		},
	}
	chain, err := resolveFootChain(cfg, step.InvertFront)
	if err != nil {
		t.Fatalf("resolveFootChain: %v", err)
	}
	want := []step.Type{step.InvertFront, step.SameArrow}
	if len(chain) != len(want) {
		t.Fatalf("chain = %v, want %v", chain, want)
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Errorf("chain[%d] = %v, want %v", i, chain[i], want[i])
		}
	}
}

func TestStepTypeFallbacksCycleDetected(t *testing.T) {
	cfg := Config{
		StepTypeFallbacks: map[step.Type][]FallbackEntry{
			step.InvertFront:    {{IsInclude: true, Include: step.CrossoverFront}},
			step.CrossoverFront: {{IsInclude: true, Include: step.InvertFront}},
		},
	}
	if _, err := resolveFootChain(cfg, step.InvertFront); err == nil {
		t.Fatal("resolveFootChain succeeded on a cyclic include chain, want error")
	}
}

func TestConfigValidateCatchesFallbackCycle(t *testing.T) {
	cfg := Config{
		StepTypeFallbacks: map[step.Type][]FallbackEntry{
			step.InvertFront:    {{IsInclude: true, Include: step.CrossoverFront}},
			step.CrossoverFront: {{IsInclude: true, Include: step.InvertFront}},
		},
	}
	issues := cfg.Validate(4)
	found := false
	for _, i := range issues {
		if i.Kind == corerr.KindFallbackCycle {
			found = true
		}
	}
	if !found {
		t.Error("Validate did not report a fallback cycle issue")
	}
}

func TestConfigValidateCatchesMissingInclude(t *testing.T) {
	cfg := Config{
		StepTypeFallbacks: map[step.Type][]FallbackEntry{
			step.InvertFront: {{IsInclude: true, Include: step.CrossoverFront}},
		},
	}
	issues := cfg.Validate(4)
	found := false
	for _, i := range issues {
		if i.Kind == corerr.KindMissingFallback {
			found = true
		}
	}
	if !found {
		t.Error("Validate did not report a missing StepTypeFallback entry")
	}
}

func TestCachedReplacementsSharesAcrossCallsWithSameCacheID(t *testing.T) {
	cfg := Config{CacheID: uuid.New()}
	link := singleFootLink(step.Right, step.SameArrow, step.Tap)

	a, err := cachedReplacements(cfg, link)
	if err != nil {
		t.Fatalf("cachedReplacements: %v", err)
	}
	b, err := cachedReplacements(cfg, link)
	if err != nil {
		t.Fatalf("cachedReplacements: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("cached results differ in length: %d vs %d", len(a), len(b))
	}
	replCacheMu.RLock()
	_, cached := replCache[replCacheKey{cfgID: cfg.CacheID, link: link}]
	replCacheMu.RUnlock()
	if !cached {
		t.Errorf("no shared cache entry for CacheID %v", cfg.CacheID)
	}
}

func TestCachedReplacementsBypassedWithNilCacheID(t *testing.T) {
	cfg := Config{}
	link := singleFootLink(step.Left, step.SameArrow, step.Tap)
	if _, err := cachedReplacements(cfg, link); err != nil {
		t.Fatalf("cachedReplacements: %v", err)
	}
	replCacheMu.RLock()
	_, cached := replCache[replCacheKey{cfgID: uuid.Nil, link: link}]
	replCacheMu.RUnlock()
	if cached {
		t.Error("a nil CacheID must not populate the shared cache")
	}
}

package performed

import (
	"testing"

	"github.com/padchart/stepgraph/step"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig(4)
	if issues := cfg.Validate(4); len(issues) != 0 {
		for _, i := range issues {
			t.Errorf("unexpected issue: %v", i)
		}
	}
}

func TestDefaultFallbacksCoverEveryStepType(t *testing.T) {
	m := DefaultStepTypeFallbacks()
	for ty := 0; ty < step.NumTypes; ty++ {
		if _, ok := m[step.Type(ty)]; !ok {
			t.Errorf("no fallback entry for %v", step.Type(ty))
		}
	}
}

func TestDefaultFallbacksResolveAcyclically(t *testing.T) {
	cfg := Config{StepTypeFallbacks: DefaultStepTypeFallbacks()}
	for ty := 0; ty < step.NumTypes; ty++ {
		chain, err := resolveFootChain(cfg, step.Type(ty))
		if err != nil {
			t.Fatalf("resolveFootChain(%v): %v", step.Type(ty), err)
		}
		if len(chain) == 0 || chain[0] != step.Type(ty) {
			t.Errorf("chain for %v does not lead with itself: %v", step.Type(ty), chain)
		}
	}
}

func TestDefaultInvertFallsBackThroughCrossover(t *testing.T) {
	cfg := Config{StepTypeFallbacks: DefaultStepTypeFallbacks()}
	chain, err := resolveFootChain(cfg, step.InvertFront)
	if err != nil {
		t.Fatalf("resolveFootChain: %v", err)
	}
	idx := func(want step.Type) int {
		for i, ty := range chain {
			if ty == want {
				return i
			}
		}
		return -1
	}
	ci, ni, si := idx(step.CrossoverFront), idx(step.NewArrow), idx(step.SameArrow)
	if ci < 0 || ni < 0 || si < 0 {
		t.Fatalf("chain %v missing CrossoverFront/NewArrow/SameArrow", chain)
	}
	if !(ci < ni && ni < si) {
		t.Errorf("chain %v should degrade invert -> crossover -> new arrow -> same arrow", chain)
	}
}

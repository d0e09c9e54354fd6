package performed

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/padchart/stepgraph/graph"
	"github.com/padchart/stepgraph/step"
)

// footCandidate is one acceptable substitute for a single acting foot's step
// in a replacement link: either a concrete StepType to search the target
// graph's edges for, or a Blank (drop this foot's step entirely this
// position), always appended last in a foot's resolved chain.
type footCandidate struct {
	Blank         bool
	Step          step.Type
	FallbackIndex int
}

// linkReplacement is one fully-formed candidate replacement for a source
// link: each foot the source link actually touches gets its own
// footCandidate; a foot the source never touches has LeftActs/RightActs
// false and plays no part in matching or cost.
type linkReplacement struct {
	Left, Right         footCandidate
	LeftActs, RightActs bool
	droppedPortions     int
	fallbackIndexSum    int
}

// resolveFootChain walks cfg.StepTypeFallbacks from original, splicing in
// Include references, and returns the ordered, deduplicated chain of
// candidate StepTypes (original always first — a step always remains a
// candidate for itself). Does not include the trailing Blank sentinel;
// callers add that once per foot.
func resolveFootChain(cfg Config, original step.Type) ([]step.Type, error) {
	visiting := make(map[step.Type]bool)
	var resolve func(step.Type) ([]step.Type, error)
	resolve = func(t step.Type) ([]step.Type, error) {
		if visiting[t] {
			return nil, fmt.Errorf("performed: StepTypeFallbacks include cycle at %v", t)
		}
		visiting[t] = true
		defer delete(visiting, t)

		var out []step.Type
		for _, e := range cfg.StepTypeFallbacks[t] {
			if e.IsInclude {
				sub, err := resolve(e.Include)
				if err != nil {
					return nil, err
				}
				out = append(out, sub...)
			} else {
				out = append(out, e.Step)
			}
		}
		return out, nil
	}

	chain, err := resolve(original)
	if err != nil {
		return nil, err
	}

	seen := make(map[step.Type]bool, len(chain)+1)
	out := make([]step.Type, 0, len(chain)+1)
	add := func(t step.Type) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	add(original)
	for _, t := range chain {
		add(t)
	}
	return out, nil
}

func footCandidates(cfg Config, original step.Type) ([]footCandidate, error) {
	chain, err := resolveFootChain(cfg, original)
	if err != nil {
		return nil, err
	}
	out := make([]footCandidate, 0, len(chain)+1)
	for i, t := range chain {
		out = append(out, footCandidate{Step: t, FallbackIndex: i})
	}
	out = append(out, footCandidate{Blank: true, FallbackIndex: len(chain)})
	return out, nil
}

// sourceFootType returns the StepType foot f performs in link, considering
// only its acting (non-Release) cells — a release is not itself a "step"
// subject to fallback substitution; fallbacks are a property of steps.
func sourceFootType(link graph.Link, f step.Foot) (step.Type, bool) {
	for _, cell := range link[f] {
		if cell.Valid && cell.Action != step.Release {
			return cell.StepType, true
		}
	}
	return 0, false
}

// resolveReplacements expands source link into the sorted list of candidate
// replacement links: each acting foot independently resolves its
// StepTypeFallbacks chain (with a Blank always appended), a jump forms the
// Cartesian product of both feet's chains filtered to jump-eligible pairs,
// and the whole list sorts by lessReplacement.
func resolveReplacements(cfg Config, link graph.Link) ([]linkReplacement, error) {
	leftType, leftActs := sourceFootType(link, step.Left)
	rightType, rightActs := sourceFootType(link, step.Right)

	var leftCands, rightCands []footCandidate
	var err error
	if leftActs {
		if leftCands, err = footCandidates(cfg, leftType); err != nil {
			return nil, err
		}
	}
	if rightActs {
		if rightCands, err = footCandidates(cfg, rightType); err != nil {
			return nil, err
		}
	}

	var out []linkReplacement
	switch {
	case leftActs && rightActs:
		for _, l := range leftCands {
			for _, r := range rightCands {
				if !l.Blank && !r.Blank {
					if !step.Data[l.Step].JumpEligible || !step.Data[r.Step].JumpEligible {
						continue
					}
				}
				out = append(out, linkReplacement{
					Left: l, Right: r, LeftActs: true, RightActs: true,
					droppedPortions: droppedPortions(l) + droppedPortions(r),
					fallbackIndexSum: l.FallbackIndex + r.FallbackIndex,
				})
			}
		}
	case leftActs:
		for _, l := range leftCands {
			out = append(out, linkReplacement{Left: l, LeftActs: true,
				droppedPortions: droppedPortions(l), fallbackIndexSum: l.FallbackIndex})
		}
	case rightActs:
		for _, r := range rightCands {
			out = append(out, linkReplacement{Right: r, RightActs: true,
				droppedPortions: droppedPortions(r), fallbackIndexSum: r.FallbackIndex})
		}
	default:
		out = append(out, linkReplacement{})
	}

	sort.SliceStable(out, func(i, j int) bool { return lessReplacement(out[i], out[j]) })
	return out, nil
}

// droppedPortions approximates the "dropped portions" term of the cost
// comparator: a Blank foot counts as one dropped portion regardless of
// whether its source step was a bracket. Tracking the true bracket portion
// count would require threading the source GraphLinkInstance's per-portion
// shape through resolveReplacements; this implementation substitutes whole
// feet rather than individual bracket portions (documented in DESIGN.md).
func droppedPortions(c footCandidate) int {
	if c.Blank {
		return 1
	}
	return 0
}

func blankCount(r linkReplacement) int {
	n := 0
	if r.LeftActs && r.Left.Blank {
		n++
	}
	if r.RightActs && r.Right.Blank {
		n++
	}
	return n
}

func singleFootDropped(r linkReplacement) bool {
	if r.LeftActs && r.RightActs {
		return r.Left.Blank != r.Right.Blank
	}
	return false
}

// lessReplacement orders two replacement candidates: non-blank over blank, not-single-foot-dropped over
// single-foot-dropped, fewer dropped portions, lower fallback-index sum.
func lessReplacement(a, b linkReplacement) bool {
	if ac, bc := blankCount(a), blankCount(b); ac != bc {
		return ac < bc
	}
	if as, bs := singleFootDropped(a), singleFootDropped(b); as != bs {
		return bs
	}
	if a.droppedPortions != b.droppedPortions {
		return a.droppedPortions < b.droppedPortions
	}
	return a.fallbackIndexSum < b.fallbackIndexSum
}

// The shared, process-wide GraphLink replacement cache: keyed by
// (config identity, source link), guarded by an RWMutex for steady-state
// reads and a singleflight.Group to collapse concurrent cold misses onto
// one resolveReplacements call.
var (
	replCacheMu sync.RWMutex
	replCache   = make(map[replCacheKey][]linkReplacement)
	replGroup   singleflight.Group
)

type replCacheKey struct {
	cfgID uuid.UUID
	link  graph.Link
}

func cachedReplacements(cfg Config, link graph.Link) ([]linkReplacement, error) {
	if cfg.CacheID == uuid.Nil {
		return resolveReplacements(cfg, link)
	}

	key := replCacheKey{cfgID: cfg.CacheID, link: link}
	replCacheMu.RLock()
	if v, ok := replCache[key]; ok {
		replCacheMu.RUnlock()
		return v, nil
	}
	replCacheMu.RUnlock()

	groupKey := fmt.Sprintf("%s|%+v", cfg.CacheID, link)
	v, err, _ := replGroup.Do(groupKey, func() (interface{}, error) {
		replCacheMu.RLock()
		if v, ok := replCache[key]; ok {
			replCacheMu.RUnlock()
			return v, nil
		}
		replCacheMu.RUnlock()

		resolved, err := resolveReplacements(cfg, link)
		if err != nil {
			return nil, err
		}
		replCacheMu.Lock()
		replCache[key] = resolved
		replCacheMu.Unlock()
		return resolved, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]linkReplacement), nil
}

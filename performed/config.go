// Package performed builds a PerformedChart: a concrete lane-by-lane
// playthrough on a target StepGraph that realizes an ExpressedChart's
// foot-intent. Like package expressed, the search is a
// frontier pruned per GraphNode; what differs is the cost model (playability
// and fidelity to the source intent rather than biomechanical plausibility)
// and the StepTypeFallbacks machinery that lets a step type unplayable on
// the target pad degrade gracefully into one that is.
//
// The StepTypeFallbacks resolution cache is a process-wide map guarded by
// a sync.RWMutex for steady-state reads, with golang.org/x/sync/singleflight
// collapsing concurrent cold-cache misses onto a single resolver call so
// that many goroutines racing to resolve the same (config, link) pair
// don't each redo the work.
package performed

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/padchart/stepgraph/corerr"
	"github.com/padchart/stepgraph/step"
)

// FacingLimits bounds how far a foot's cross-body reach may turn the hips
// inward or outward, as a fraction of the pad's natural range.
type FacingLimits struct {
	MaxInwardPercentage  float64
	MaxOutwardPercentage float64
}

// StepTightening bounds per-step foot travel: how fast it may move, how far,
// and how far a stretch may spread the feet apart.
type StepTightening struct {
	TravelSpeedMinTimeSeconds float64
	TravelSpeedMaxTimeSeconds float64
	TravelDistanceMin         float64
	TravelDistanceMax         float64
	StretchDistanceMin        float64
	StretchDistanceMax        float64
}

// LateralTightening bounds how fast a sustained run of unidirectional
// lateral moves (a sliding window of PatternLength steps) may go before it
// is penalized.
type LateralTightening struct {
	PatternLength int
	RelativeNPS   float64
	AbsoluteNPS   float64
	Speed         float64
}

// FallbackEntry is one item of a StepType's ordered StepTypeFallbacks list.
// A plain entry names a concrete substitute StepType; an Include entry
// splices another key's resolved list in at this point (the "*Name"
// include syntax of on-disk configs), so a family of similar types can
// share one tail.
type FallbackEntry struct {
	Step      step.Type
	Include   step.Type
	IsInclude bool
}

// Config is the PerformedChartConfig: everything a caller may tune about
// how an expressed chart is realized on a target pad.
type Config struct {
	Facing                     FacingLimits
	StepTightening             StepTightening
	LateralTightening          LateralTightening
	StepTypeFallbacks          map[step.Type][]FallbackEntry
	ArrowWeights               map[string][]float64
	MaxSameArrowsInARowPerFoot int

	// CacheID opts this config into the shared, process-wide StepTypeFallbacks
	// resolution cache: a zero CacheID (uuid.Nil) means "resolve
	// fresh every call, never share," since a freshly-constructed Config with
	// no explicit identity has no way to be recognized as "the same config"
	// by a later, textually-identical-but-distinct value. Callers that build
	// one Config and reuse it across many charts should mint a CacheID once
	// with uuid.New() and keep reusing that same Config value.
	CacheID uuid.UUID
}

// Validate accumulates every configuration problem against a pad of
// numArrows lanes, rather than stopping at the first, so a caller fixing
// its config sees every issue in one pass.
func (c Config) Validate(numArrows int) []corerr.Issue {
	var list corerr.List

	checkPercentage := func(name string, v float64) {
		if v < 0 || v > 1 {
			list.Add(corerr.Error, corerr.KindOutOfRange, "performed.Config",
				"%s must be within [0,1], got %v", name, v)
		}
	}
	checkPercentage("Facing.MaxInwardPercentage", c.Facing.MaxInwardPercentage)
	checkPercentage("Facing.MaxOutwardPercentage", c.Facing.MaxOutwardPercentage)

	checkMinMax := func(name string, min, max float64) {
		if min < 0 {
			list.Add(corerr.Error, corerr.KindOutOfRange, "performed.Config",
				"%s min must be >= 0, got %v", name, min)
		}
		if max < min {
			list.Add(corerr.Error, corerr.KindOutOfRange, "performed.Config",
				"%s max (%v) must be >= min (%v)", name, max, min)
		}
	}
	checkMinMax("StepTightening.TravelSpeedTimeSeconds", c.StepTightening.TravelSpeedMinTimeSeconds, c.StepTightening.TravelSpeedMaxTimeSeconds)
	checkMinMax("StepTightening.TravelDistance", c.StepTightening.TravelDistanceMin, c.StepTightening.TravelDistanceMax)
	checkMinMax("StepTightening.StretchDistance", c.StepTightening.StretchDistanceMin, c.StepTightening.StretchDistanceMax)

	if c.LateralTightening.PatternLength < 0 {
		list.Add(corerr.Error, corerr.KindOutOfRange, "performed.Config",
			"LateralTightening.PatternLength must be >= 0, got %d", c.LateralTightening.PatternLength)
	}
	if c.LateralTightening.RelativeNPS < 0 || c.LateralTightening.AbsoluteNPS < 0 || c.LateralTightening.Speed < 0 {
		list.Add(corerr.Error, corerr.KindOutOfRange, "performed.Config",
			"LateralTightening rates must be >= 0")
	}

	if c.MaxSameArrowsInARowPerFoot < 0 {
		list.Add(corerr.Error, corerr.KindOutOfRange, "performed.Config",
			"MaxSameArrowsInARowPerFoot must be >= 0, got %d", c.MaxSameArrowsInARowPerFoot)
	}

	for name, weights := range c.ArrowWeights {
		if numArrows > 0 && len(weights) != numArrows {
			list.Add(corerr.Error, corerr.KindLengthMismatch, "performed.Config",
				"ArrowWeights[%q] has %d entries, want %d (one per lane)", name, len(weights), numArrows)
			continue
		}
		for _, w := range weights {
			if w < 0 {
				list.Add(corerr.Error, corerr.KindOutOfRange, "performed.Config",
					"ArrowWeights[%q] entries must be >= 0, got %v", name, w)
				break
			}
		}
	}

	validType := func(t step.Type) bool { return int(t) < step.NumTypes }
	for key, entries := range c.StepTypeFallbacks {
		if !validType(key) {
			list.Add(corerr.Error, corerr.KindUnknownStepType, "performed.Config",
				"StepTypeFallbacks key %d is not a known StepType", int(key))
			continue
		}
		for _, e := range entries {
			if e.IsInclude {
				if !validType(e.Include) {
					list.Add(corerr.Error, corerr.KindUnknownStepType, "performed.Config",
						"StepTypeFallbacks[%v] includes unknown StepType %d", key, int(e.Include))
					continue
				}
				if _, ok := c.StepTypeFallbacks[e.Include]; !ok {
					list.Add(corerr.Error, corerr.KindMissingFallback, "performed.Config",
						"StepTypeFallbacks[%v] includes %v, which has no entry", key, e.Include)
				}
			} else if !validType(e.Step) {
				list.Add(corerr.Error, corerr.KindUnknownStepType, "performed.Config",
					"StepTypeFallbacks[%v] names unknown StepType %d", key, int(e.Step))
			}
		}
	}
	if err := checkFallbackCycles(c.StepTypeFallbacks); err != nil {
		list.Add(corerr.Error, corerr.KindFallbackCycle, "performed.Config", "%s", err.Error())
	}

	return list.Issues()
}

// checkFallbackCycles walks the Include graph among StepTypeFallbacks keys
// (not the resolved value lists) and reports the first cycle found.
func checkFallbackCycles(m map[step.Type][]FallbackEntry) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[step.Type]int, len(m))
	var visit func(step.Type, []step.Type) error
	visit = func(t step.Type, path []step.Type) error {
		switch color[t] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("include cycle: %v", append(path, t))
		}
		color[t] = gray
		for _, e := range m[t] {
			if e.IsInclude {
				if err := visit(e.Include, append(path, t)); err != nil {
					return err
				}
			}
		}
		color[t] = black
		return nil
	}
	for t := range m {
		if color[t] == white {
			if err := visit(t, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

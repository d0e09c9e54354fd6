// Package expressed reconstructs the most plausible foot-intent stream
// for a literal note-event chart by searching a source StepGraph under a
// biomechanically-motivated cost model.
//
// The search keeps a frontier of typed search nodes, advanced one chart
// position at a time and pruned to the cheapest survivor per distinct
// reachable GraphNode, so only the plausible paths through the StepGraph
// keep growing as the chart is consumed.
package expressed

import "github.com/padchart/stepgraph/corerr"

// BracketParsingMethod selects how aggressively a search favors brackets
// over jumps/alternations when a position is ambiguous.
type BracketParsingMethod int

const (
	Balanced BracketParsingMethod = iota
	Aggressive
	NoBrackets
)

func (m BracketParsingMethod) String() string {
	switch m {
	case Balanced:
		return "Balanced"
	case Aggressive:
		return "Aggressive"
	case NoBrackets:
		return "NoBrackets"
	default:
		return "BracketParsingMethod(?)"
	}
}

// BracketParsingDetermination selects whether Config.DefaultBracketParsingMethod
// is used as-is or derived per-chart.
type BracketParsingDetermination int

const (
	UseDefaultMethod BracketParsingDetermination = iota
	ChooseMethodDynamically
)

// Config is the ExpressedChartConfig: everything a caller may tune about
// how a chart's foot-intent is reconstructed.
type Config struct {
	DefaultBracketParsingMethod BracketParsingMethod
	BracketParsingDetermination BracketParsingDetermination
	MinLevelForBrackets         int

	UseAggressiveBracketsWhenMoreSimultaneousNotesThanCanBeCoveredWithoutBrackets bool
	BalancedBracketsPerMinuteForAggressiveBrackets                               float64
	BalancedBracketsPerMinuteForNoBrackets                                       float64
}

// DefaultConfig resolves the bracket-parsing method per chart: no brackets
// below a mid-range difficulty, aggressive parsing when a position carries
// more notes than two feet can cover, and otherwise a preliminary Balanced
// pass whose brackets-per-minute decides between the three methods.
func DefaultConfig() Config {
	return Config{
		DefaultBracketParsingMethod: Balanced,
		BracketParsingDetermination: ChooseMethodDynamically,
		MinLevelForBrackets:         7,
		UseAggressiveBracketsWhenMoreSimultaneousNotesThanCanBeCoveredWithoutBrackets: true,
		BalancedBracketsPerMinuteForAggressiveBrackets:                               3,
		BalancedBracketsPerMinuteForNoBrackets:                                       1,
	}
}

// Validate accumulates every configuration problem rather than stopping at
// the first, so a caller fixing its config sees every issue in one pass.
func (c Config) Validate() []corerr.Issue {
	var list corerr.List
	if c.MinLevelForBrackets < 0 {
		list.Add(corerr.Error, corerr.KindOutOfRange, "expressed.Config",
			"MinLevelForBrackets must be >= 0, got %d", c.MinLevelForBrackets)
	}
	if c.BalancedBracketsPerMinuteForAggressiveBrackets < 0 {
		list.Add(corerr.Error, corerr.KindOutOfRange, "expressed.Config",
			"BalancedBracketsPerMinuteForAggressiveBrackets must be >= 0, got %v",
			c.BalancedBracketsPerMinuteForAggressiveBrackets)
	}
	if c.BalancedBracketsPerMinuteForNoBrackets < 0 {
		list.Add(corerr.Error, corerr.KindOutOfRange, "expressed.Config",
			"BalancedBracketsPerMinuteForNoBrackets must be >= 0, got %v",
			c.BalancedBracketsPerMinuteForNoBrackets)
	}
	if c.BalancedBracketsPerMinuteForAggressiveBrackets > 0 &&
		c.BalancedBracketsPerMinuteForNoBrackets > c.BalancedBracketsPerMinuteForAggressiveBrackets {
		list.Add(corerr.Error, corerr.KindOutOfRange, "expressed.Config",
			"BalancedBracketsPerMinuteForNoBrackets (%v) must be <= BalancedBracketsPerMinuteForAggressiveBrackets (%v)",
			c.BalancedBracketsPerMinuteForNoBrackets, c.BalancedBracketsPerMinuteForAggressiveBrackets)
	}
	return list.Issues()
}

// resolveMethod implements the ChooseMethodDynamically rule. When
// DefaultMethod is in effect, it returns DefaultBracketParsingMethod
// unchanged. preliminaryBPM is only consulted when neither the difficulty
// nor the simultaneous-notes shortcut already settles the question; the
// caller runs a preliminary Balanced search to produce it.
func (c Config) resolveMethod(difficulty int, maxSimultaneous, numFeet int, preliminaryBPM func() float64) BracketParsingMethod {
	if c.BracketParsingDetermination == UseDefaultMethod {
		return c.DefaultBracketParsingMethod
	}
	if difficulty < c.MinLevelForBrackets {
		return NoBrackets
	}
	if c.UseAggressiveBracketsWhenMoreSimultaneousNotesThanCanBeCoveredWithoutBrackets && maxSimultaneous > numFeet {
		return Aggressive
	}
	bpm := preliminaryBPM()
	if bpm > c.BalancedBracketsPerMinuteForAggressiveBrackets {
		return Aggressive
	}
	if bpm < c.BalancedBracketsPerMinuteForNoBrackets {
		return NoBrackets
	}
	return Balanced
}

// Package corerr defines the error-kind taxonomy and accumulating issue
// list shared by ExpressedChartConfig and PerformedChartConfig validation:
// checks run to completion and report every problem found, rather than
// stopping at the first one.
package corerr

import "fmt"

// Kind tags the category of a validation or runtime failure with the
// wording callers surface to users.
type Kind string

const (
	KindOutOfRange        Kind = "config value out of range"
	KindLengthMismatch    Kind = "ArrowWeights length mismatch"
	KindMissingFallback   Kind = "missing StepTypeFallback entry"
	KindFallbackCycle     Kind = "StepTypeFallback cycle"
	KindUnknownStepType   Kind = "unknown StepType in config"
	KindGraphVersion      Kind = "StepGraph version mismatch"
	KindOrdinalMismatch   Kind = "serialized enum ordinals changed"
	KindBuildUnreachable  Kind = "StepGraph build failure"
	KindExpressionFailed  Kind = "expression failure"
	KindPerformanceFailed Kind = "performance failure"
)

// Severity distinguishes issues a caller must fix from ones it may ignore.
type Severity int

const (
	Error Severity = iota
	Warn
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warn:
		return "WARN"
	default:
		return "INFO"
	}
}

// Issue is one validation finding, tagged with the component that raised
// it, so a log line can say which subsystem complained.
type Issue struct {
	Severity  Severity
	Kind      Kind
	Component string
	Message   string
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s/%s: %s", i.Severity, i.Component, i.Kind, i.Message)
}

// List accumulates Issues across a sequence of independent checks.
type List struct {
	issues []Issue
}

// Add appends an Issue to the list.
func (l *List) Add(severity Severity, kind Kind, component, format string, args ...interface{}) {
	l.issues = append(l.issues, Issue{
		Severity:  severity,
		Kind:      kind,
		Component: component,
		Message:   fmt.Sprintf(format, args...),
	})
}

// Issues returns every accumulated Issue in the order added.
func (l *List) Issues() []Issue {
	return l.issues
}

// HasErrors reports whether any accumulated Issue has Severity Error.
func (l *List) HasErrors() bool {
	for _, i := range l.issues {
		if i.Severity == Error {
			return true
		}
	}
	return false
}

// Err collapses the list into a single error when HasErrors is true, or
// nil otherwise. Every Error-severity issue is joined into the message so
// the caller sees the full set of problems, not just the first.
func (l *List) Err() error {
	if !l.HasErrors() {
		return nil
	}
	msg := ""
	for _, i := range l.issues {
		if i.Severity != Error {
			continue
		}
		if msg != "" {
			msg += "\n"
		}
		msg += i.String()
	}
	return fmt.Errorf("%s", msg)
}

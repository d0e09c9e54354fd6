package step

import "testing"

func TestStepTypeString(t *testing.T) {
	tests := []struct {
		name     string
		in       Type
		expected string
	}{
		{"same arrow", SameArrow, "SameArrow"},
		{"footswap", FootSwap, "FootSwap"},
		{"bracket one arrow heel new", BracketOneArrowHeelNew, "BracketOneArrowHeelNew"},
		{"out of range", numStepTypes, "StepType(?)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDataTableComplete(t *testing.T) {
	for ty := Type(0); ty < numStepTypes; ty++ {
		d := Data[ty]
		if d.ValidActions == nil {
			t.Errorf("type %s has no ValidActions", ty)
		}
		if d.IsBracketOneArrow && !d.IsBracket {
			t.Errorf("type %s is bracket-one-arrow but not marked IsBracket", ty)
		}
		if d.IsCrossover && d.IsInvert {
			t.Errorf("type %s is both crossover and invert", ty)
		}
	}
}

func TestFootSwapIsTapOnly(t *testing.T) {
	if Data[FootSwap].ValidActions[Hold] {
		t.Errorf("FootSwap should not be a valid Hold action")
	}
	if !Data[FootSwap].ValidActions[Tap] {
		t.Errorf("FootSwap should be a valid Tap action")
	}
}

func TestFootOther(t *testing.T) {
	if Left.Other() != Right {
		t.Errorf("Left.Other() = %v, want Right", Left.Other())
	}
	if Right.Other() != Left {
		t.Errorf("Right.Other() = %v, want Left", Right.Other())
	}
}

package chartevents

import "testing"

func TestSortOrdersByPositionThenTime(t *testing.T) {
	c := New([]Event{
		{Position: 96, Time: 2, Type: Tap, Lane: 0},
		{Position: 0, Time: 0, Type: Tap, Lane: 0},
		{Position: 48, Time: 1, Type: Tap, Lane: 3},
	})
	want := []int{0, 48, 96}
	for i, pos := range want {
		if c.Events[i].Position != pos {
			t.Errorf("Events[%d].Position = %d, want %d", i, c.Events[i].Position, pos)
		}
	}
}

func TestPositionsDeduped(t *testing.T) {
	c := New([]Event{
		{Position: 0, Type: Tap, Lane: 0},
		{Position: 0, Type: Tap, Lane: 3},
		{Position: 48, Type: Tap, Lane: 1},
	})
	got := c.Positions()
	if len(got) != 2 || got[0] != 0 || got[1] != 48 {
		t.Errorf("Positions() = %v, want [0 48]", got)
	}
}

func TestMaxSimultaneous(t *testing.T) {
	c := New([]Event{
		{Position: 0, Type: Tap, Lane: 0},
		{Position: 0, Type: Tap, Lane: 1},
		{Position: 0, Type: Tap, Lane: 2},
	})
	if c.MaxSimultaneous() != 3 {
		t.Errorf("MaxSimultaneous() = %d, want 3", c.MaxSimultaneous())
	}
}

func TestMirrorRemapsLanes(t *testing.T) {
	c := New([]Event{{Position: 0, Type: Tap, Lane: 0}})
	m := c.Mirror(func(lane int) int { return 3 - lane })
	if m.Events[0].Lane != 3 {
		t.Errorf("mirrored lane = %d, want 3", m.Events[0].Lane)
	}
	if c.Events[0].Lane != 0 {
		t.Errorf("original chart mutated: lane = %d", c.Events[0].Lane)
	}
}

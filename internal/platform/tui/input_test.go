package tui

import (
	"testing"

	"github.com/vovakirdan/gunzone/internal/core"
	"github.com/vovakirdan/gunzone/internal/sim"
)

func TestInputCollectorHold(t *testing.T) {
	c := newInputCollector()
	c.hold(holdUp)
	c.hold(holdRight)

	in := c.next(nil)
	if in.MoveDir != core.V(1, -1) {
		t.Errorf("MoveDir = %v, expected %v", in.MoveDir, core.V(1, -1))
	}

	// Opposite direction releases the first.
	c.hold(holdDown)
	in = c.next(nil)
	if in.MoveDir.Y != 1 {
		t.Errorf("MoveDir.Y = %v, expected 1", in.MoveDir.Y)
	}

	for range holdTicks {
		in = c.next(nil)
	}
	if !in.MoveDir.IsZero() {
		t.Errorf("MoveDir after release = %v, expected zero", in.MoveDir)
	}
}

func TestInputCollectorEdges(t *testing.T) {
	c := newInputCollector()
	c.press(core.InputState{Dodge: true})
	c.press(core.InputState{Reload: true})

	in := c.next(nil)
	if !in.Dodge || !in.Reload {
		t.Errorf("next() = %+v, expected dodge and reload latched", in)
	}

	in = c.next(nil)
	if in.Dodge || in.Reload {
		t.Errorf("edges repeated on the following tick: %+v", in)
	}
}

func TestInputCollectorFire(t *testing.T) {
	c := newInputCollector()
	c.fire()
	in := c.next(nil)
	if !in.Fire || !in.FirePressed {
		t.Errorf("first fire = %+v, expected Fire and FirePressed", in)
	}

	// Auto-repeat keeps the trigger down without a new press.
	c.fire()
	in = c.next(nil)
	if !in.Fire || in.FirePressed {
		t.Errorf("repeat fire = %+v, expected Fire without FirePressed", in)
	}
}

func TestInputCollectorAim(t *testing.T) {
	c := newInputCollector()
	if in := c.next(nil); in.AimDir != core.V(1, 0) {
		t.Errorf("default AimDir = %v, expected %v", in.AimDir, core.V(1, 0))
	}

	c.hold(holdLeft)
	if in := c.next(nil); in.AimDir != core.V(-1, 0) {
		t.Errorf("AimDir = %v, expected facing %v", in.AimDir, core.V(-1, 0))
	}

	s := &sim.GameState{}
	s.Player.Pos = core.V(100, 100)
	s.Enemies = []*sim.Enemy{
		{ID: 7, Pos: core.V(100, 300), HP: 10, Visible: true},
		{ID: 8, Pos: core.V(100, 150), HP: 0, Visible: true},
	}

	in := c.next(s)
	if in.AimDir != core.V(0, 1) {
		t.Errorf("assisted AimDir = %v, expected %v", in.AimDir, core.V(0, 1))
	}
	if in.HeadshotTargetID != 0 {
		t.Errorf("HeadshotTargetID = %d without lock, expected 0", in.HeadshotTargetID)
	}

	c.toggleLock()
	if in := c.next(s); in.HeadshotTargetID != 7 {
		t.Errorf("HeadshotTargetID = %d, expected 7", in.HeadshotTargetID)
	}

	s.Enemies[0].Visible = false
	if in := c.next(s); in.HeadshotTargetID != 0 {
		t.Errorf("HeadshotTargetID = %d behind cover, expected 0", in.HeadshotTargetID)
	}
}

func TestItemInput(t *testing.T) {
	tests := []struct {
		key        string
		extraction bool
		small      bool
		large      bool
		slot       int
	}{
		{"1", false, true, false, -1},
		{"2", false, false, true, -1},
		{"3", false, false, false, -1},
		{"1", true, false, false, 0},
		{"4", true, false, false, 3},
	}

	for _, tt := range tests {
		in := itemInput(tt.key, tt.extraction)
		if in.HealSmall != tt.small || in.HealLarge != tt.large {
			t.Errorf("itemInput(%q, %v) = %+v, expected small=%v large=%v", tt.key, tt.extraction, in, tt.small, tt.large)
		}
		got := -1
		if in.HotbarUse != nil {
			got = *in.HotbarUse
		}
		if got != tt.slot {
			t.Errorf("itemInput(%q, %v) slot = %d, expected %d", tt.key, tt.extraction, got, tt.slot)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	tests := []struct {
		key      string
		expected MenuAction
	}{
		{"up", MenuActionUp},
		{"j", MenuActionDown},
		{"enter", MenuActionSelect},
		{"tab", MenuActionScoreboard},
		{"q", MenuActionQuit},
		{"x", MenuActionNone},
	}

	for _, tt := range tests {
		if got := MapKeyToMenuAction(tt.key); got != tt.expected {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tt.key, got, tt.expected)
		}
	}
}

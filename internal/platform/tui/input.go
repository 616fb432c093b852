package tui

import (
	"github.com/vovakirdan/gunzone/internal/autopilot"
	"github.com/vovakirdan/gunzone/internal/core"
	"github.com/vovakirdan/gunzone/internal/sim"
)

// holdTicks is how long a key press counts as held. Terminals only report
// presses, so auto-repeat keeps a held key alive.
const holdTicks = 18

// throwPower is the fixed grenade strength for keyboard throws.
const throwPower = 0.75

type holdKey int

const (
	holdUp holdKey = iota
	holdDown
	holdLeft
	holdRight
	holdFire
	numHolds
)

// inputCollector turns key presses into one InputState per tick.
type inputCollector struct {
	held    [numHolds]int
	pending core.InputState
	facing  core.Vec2
	lock    bool
}

func newInputCollector() inputCollector {
	return inputCollector{facing: core.V(1, 0)}
}

// hold marks k as held, releasing its opposite direction.
func (c *inputCollector) hold(k holdKey) {
	c.held[k] = holdTicks
	switch k {
	case holdUp:
		c.held[holdDown] = 0
	case holdDown:
		c.held[holdUp] = 0
	case holdLeft:
		c.held[holdRight] = 0
	case holdRight:
		c.held[holdLeft] = 0
	}
}

// press latches an edge-triggered input until the next tick.
func (c *inputCollector) press(in core.InputState) {
	c.pending = c.pending.Latch(in)
}

// fire holds the trigger and latches a fresh press.
func (c *inputCollector) fire() {
	if c.held[holdFire] == 0 {
		c.press(core.InputState{FirePressed: true})
	}
	c.hold(holdFire)
}

func (c *inputCollector) toggleLock() {
	c.lock = !c.lock
}

func (c *inputCollector) reset() {
	*c = newInputCollector()
}

// next builds the input for the coming tick and ages the held keys.
// Aim assist points at the nearest visible enemy; without one the player
// aims where they last moved.
func (c *inputCollector) next(s *sim.GameState) core.InputState {
	in := c.pending
	c.pending = core.InputState{}

	var move core.Vec2
	if c.held[holdUp] > 0 {
		move.Y--
	}
	if c.held[holdDown] > 0 {
		move.Y++
	}
	if c.held[holdLeft] > 0 {
		move.X--
	}
	if c.held[holdRight] > 0 {
		move.X++
	}
	in.MoveDir = move
	in.Fire = c.held[holdFire] > 0
	if move.Len() > 0 {
		c.facing = move.Normalize()
	}

	in.AimDir = c.facing
	if s != nil {
		if target := autopilot.NearestTarget(s); target != nil {
			in.AimDir = target.Pos.Sub(s.Player.Pos).Normalize()
			if c.lock && target.Visible {
				in.HeadshotTargetID = target.ID
			}
		}
	}

	for i := range c.held {
		if c.held[i] > 0 {
			c.held[i]--
		}
	}
	return in
}

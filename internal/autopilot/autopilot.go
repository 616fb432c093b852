// Package autopilot is a scripted player used for headless runs, soak
// tests and demos. It reads the simulation state and produces the input a
// reasonable player would send; it never touches the state itself.
package autopilot

import (
	"math"
	"strconv"
	"strings"

	"github.com/vovakirdan/gunzone/internal/config"
	"github.com/vovakirdan/gunzone/internal/core"
	"github.com/vovakirdan/gunzone/internal/sim"
)

const (
	kiteRange    = 160.0
	dodgeRange   = 70.0
	healSafeDist = 260.0
	clusterSize  = 3
	clusterRange = 220.0
	probeDist    = 40.0
	stuckTicks   = 30
)

// Pilot is a deterministic scripted player. Its choices depend only on
// the states it has been shown.
type Pilot struct {
	cfg     *config.GameConfigs
	lastPos core.Vec2
	stuck   int
	turn    float64
}

// New creates a pilot for games running cfg.
func New(cfg *config.GameConfigs) *Pilot {
	return &Pilot{cfg: cfg, turn: 1}
}

// Next returns the input for the coming tick.
func (p *Pilot) Next(s *sim.GameState) core.InputState {
	var in core.InputState
	if s == nil || s.Ended() {
		return in
	}
	pl := &s.Player

	target := NearestTarget(s)
	if target != nil {
		in.AimDir = target.Pos.Sub(pl.Pos).Normalize()
		in.Fire = true
		in.FirePressed = s.Tick%2 == 0
		if target.Visible {
			in.HeadshotTargetID = target.ID
		}
	}

	in.MoveDir = p.steer(s, target)
	if in.AimDir.IsZero() {
		in.AimDir = in.MoveDir
	}

	p.timedActions(s, &in, target)
	if p.threatened(s) && pl.DodgeCooldown == 0 && !pl.Healing {
		in.Dodge = true
	}
	p.grenade(s, &in)
	in.Interact = p.nearCache(s)
	return in
}

// NearestTarget returns the closest living enemy, preferring ones in line
// of sight.
func NearestTarget(s *sim.GameState) *sim.Enemy {
	var best *sim.Enemy
	bestD := math.Inf(1)
	for _, e := range s.Enemies {
		if e.HP <= 0 {
			continue
		}
		d := e.Pos.Dist(s.Player.Pos)
		if !e.Visible {
			d += 10000
		}
		if d < bestD {
			best, bestD = e, d
		}
	}
	return best
}

func (p *Pilot) steer(s *sim.GameState, target *sim.Enemy) core.Vec2 {
	pl := s.Player
	var dir core.Vec2

	switch {
	case target != nil && target.Visible && target.Pos.Dist(pl.Pos) < kiteRange:
		away := pl.Pos.Sub(target.Pos).Normalize()
		side := core.V(-away.Y, away.X).Scale(p.turn * 0.6)
		dir = away.Add(side).Normalize()
	case s.Mode == sim.ModeExtraction:
		dir = p.objective(s).Sub(pl.Pos).Normalize()
	case target != nil:
		to := target.Pos.Sub(pl.Pos).Normalize()
		dir = core.V(-to.Y, to.X).Scale(p.turn)
	}
	if dir.IsZero() {
		return dir
	}

	if pl.Pos.Dist(p.lastPos) < 0.5 {
		p.stuck++
	} else {
		p.stuck = 0
	}
	p.lastPos = pl.Pos
	if p.stuck > stuckTicks {
		p.turn = -p.turn
		p.stuck = 0
	}
	return p.avoid(s, dir)
}

// avoid rotates dir away from obstacles directly ahead.
func (p *Pilot) avoid(s *sim.GameState, dir core.Vec2) core.Vec2 {
	pos := s.Player.Pos
	for _, a := range []float64{0, math.Pi / 4, -math.Pi / 4, math.Pi / 2, -math.Pi / 2} {
		d := rotate(dir, a*p.turn)
		if !core.SegmentBlocked(pos, pos.Add(d.Scale(probeDist)), s.Obstacles) {
			return d
		}
	}
	return dir
}

// objective picks the next waypoint in extraction: an unopened cache close
// by, otherwise the nearest extraction zone.
func (p *Pilot) objective(s *sim.GameState) core.Vec2 {
	pos := s.Player.Pos
	ex := p.cfg.Extraction
	for _, c := range ex.SupplyCaches {
		if s.Extraction != nil && s.Extraction.OpenedCaches[c.ID] {
			continue
		}
		if c.Pos.Dist(pos) < 300 {
			return c.Pos
		}
	}

	best := pos
	bestD := math.Inf(1)
	for _, z := range ex.ExtractionZones {
		c := z.Center()
		if d := c.Dist(pos); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

// timedActions handles reloads and heals, pressing the key a second time
// inside the perfect window.
func (p *Pilot) timedActions(s *sim.GameState, in *core.InputState, target *sim.Enemy) {
	pl := &s.Player

	if pl.ReloadTimer > 0 && pl.ReloadTime > 0 {
		r := p.cfg.Reload
		progress := 1 - float64(pl.ReloadTimer)/float64(pl.ReloadTime)
		if !pl.ReloadFumbled && progress >= r.PerfectStart && progress <= r.PerfectEnd {
			in.Reload = true
		}
		return
	}

	if pl.Healing && pl.HealTime > 0 {
		h := p.cfg.Heal
		progress := float64(pl.HealTimer+1) / float64(pl.HealTime)
		if !pl.HealFumbled && progress >= h.PerfectStart && progress <= h.PerfectEnd {
			p.pressHeal(s, in)
		}
		return
	}

	if w := pl.ActiveWeapon(); w != nil && w.Ammo == 0 {
		in.Reload = true
		return
	}

	safe := target == nil || target.Pos.Dist(pl.Pos) > healSafeDist
	if safe && pl.HP < pl.MaxHP*0.5 {
		p.pressHeal(s, in)
	}
}

func (p *Pilot) pressHeal(s *sim.GameState, in *core.InputState) {
	pl := &s.Player
	if s.Mode == sim.ModeExtraction {
		slot := 0
		if pl.Healing {
			n, err := strconv.Atoi(strings.TrimPrefix(pl.HealKey, "hotbar:"))
			if err != nil {
				return
			}
			slot = n
		} else if pl.MaxHP-pl.HP > 40 && pl.Inventory != nil && pl.Inventory.Count("bandage_large") > 0 {
			slot = 1
		}
		in.HotbarUse = core.Hotbar(slot)
		return
	}

	large := pl.MaxHP-pl.HP > 40 && pl.LargeBandages > 0
	if pl.Healing {
		large = pl.HealKey == "large"
	}
	if large {
		in.HealLarge = true
	} else {
		in.HealSmall = true
	}
}

func (p *Pilot) threatened(s *sim.GameState) bool {
	pos := s.Player.Pos
	for _, ep := range s.EnemyProjectiles {
		if ep.Pos.Dist(pos) < dodgeRange && ep.Vel.Dot(pos.Sub(ep.Pos)) > 0 {
			return true
		}
	}
	for _, e := range s.Enemies {
		if e.HP > 0 && e.Type == sim.EnemySprinter && e.Pos.Dist(pos) < s.Player.Radius+e.Radius+10 {
			return true
		}
	}
	return false
}

// grenade throws at a cluster of enemies, scaling power with distance.
func (p *Pilot) grenade(s *sim.GameState, in *core.InputState) {
	pl := s.Player
	if pl.GrenadeAmmo <= 0 || len(s.Grenades) > 0 {
		return
	}
	var near []core.Vec2
	for _, e := range s.Enemies {
		if e.HP > 0 && e.Visible && e.Pos.Dist(pl.Pos) < clusterRange {
			near = append(near, e.Pos)
		}
	}
	if len(near) < clusterSize {
		return
	}

	var center core.Vec2
	for _, pos := range near {
		center = center.Add(pos)
	}
	center = center.Scale(1 / float64(len(near)))

	gc := p.cfg.Grenade
	dist := center.Dist(pl.Pos)
	in.AimDir = center.Sub(pl.Pos).Normalize()
	in.ThrowGrenade = true
	in.ThrowPower = core.ClampF(dist/(gc.MaxSpeed*0.7), 0, 1)
}

func (p *Pilot) nearCache(s *sim.GameState) bool {
	if s.Mode != sim.ModeExtraction {
		return false
	}
	pos := s.Player.Pos
	for _, c := range p.cfg.Extraction.SupplyCaches {
		if s.Extraction != nil && s.Extraction.OpenedCaches[c.ID] {
			continue
		}
		if c.Pos.Dist(pos) <= c.Radius+s.Player.Radius {
			return true
		}
	}
	return false
}

func rotate(v core.Vec2, a float64) core.Vec2 {
	sin, cos := math.Sincos(a)
	return core.V(v.X*cos-v.Y*sin, v.X*sin+v.Y*cos)
}

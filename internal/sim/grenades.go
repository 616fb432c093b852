package sim

import (
	"math"

	"github.com/vovakirdan/gunzone/internal/core"
)

func (st *step) throwGrenade() {
	p := &st.s.Player
	if !st.in.ThrowGrenade || p.GrenadeAmmo <= 0 || p.DodgeTimer > 0 || p.HP <= 0 {
		return
	}
	gc := st.cfg.Grenade
	p.GrenadeAmmo--

	speed := core.Lerp(gc.MinSpeed, gc.MaxSpeed, st.in.ThrowPower)
	dir := p.Facing
	if dir.IsZero() {
		dir = core.V(1, 0)
	}
	g := &Grenade{
		ID:        st.s.nextID(),
		Pos:       p.Pos,
		Vel:       dir.Scale(speed * math.Cos(gc.LaunchAngle)),
		VZ:        speed * math.Sin(gc.LaunchAngle),
		FuseTimer: gc.FuseTicks,
	}
	st.s.Grenades = append(st.s.Grenades, g)
	st.emit(GrenadeThrown{GrenadeID: g.ID, Power: st.in.ThrowPower, AmmoLeft: p.GrenadeAmmo})
}

func (st *step) updateGrenades() {
	st.s.Grenades = compact(st.s.Grenades, st.advanceGrenade)
	st.sweepDead()
}

// advanceGrenade integrates the arc. Height is simulated separately from the
// ground plane; horizontal speed decays by ground_friction every tick.
func (st *step) advanceGrenade(g *Grenade) bool {
	gc := st.cfg.Grenade
	dt := st.dt

	g.FuseTimer--
	if g.FuseTimer <= 0 {
		st.explode(g)
		return false
	}

	g.VZ -= gc.Gravity * dt
	g.Height += g.VZ * dt
	if g.Height <= 0 {
		g.Height = 0
		if g.VZ < 0 {
			g.VZ = -g.VZ * gc.BounceRestitution
		}
		if g.VZ < gc.Gravity*dt {
			g.VZ = 0
		}
	}
	g.Vel = g.Vel.Scale(gc.GroundFriction)

	// Move one axis at a time so a corner reflects both components.
	if next := core.V(g.Pos.X+g.Vel.X*dt, g.Pos.Y); st.grenadeBlocked(next) {
		g.Vel.X = -g.Vel.X * gc.BounceRestitution
	} else {
		g.Pos = next
	}
	if next := core.V(g.Pos.X, g.Pos.Y+g.Vel.Y*dt); st.grenadeBlocked(next) {
		g.Vel.Y = -g.Vel.Y * gc.BounceRestitution
	} else {
		g.Pos = next
	}
	if g.Vel.LenSq() < 1 {
		g.Vel = core.Vec2{}
	}
	return true
}

func (st *step) grenadeBlocked(pos core.Vec2) bool {
	r := st.cfg.Grenade.Radius
	if pos.X-r < 0 || pos.Y-r < 0 || pos.X+r > st.s.Arena.Width || pos.Y+r > st.s.Arena.Height {
		return true
	}
	for _, rect := range st.s.Obstacles {
		if _, hit := core.ResolveCircleRect(pos, r, rect); hit {
			return true
		}
	}
	return false
}

// explode deals flat damage inside DamageRadius and pushes enemies inside
// the wider KnockbackRadius.
func (st *step) explode(g *Grenade) {
	gc := st.cfg.Grenade

	var damaged, pushed []*Enemy
	for _, e := range st.s.Enemies {
		if e.HP <= 0 {
			continue
		}
		d := e.Pos.Dist(g.Pos)
		switch {
		case d <= gc.DamageRadius:
			damaged = append(damaged, e)
		case d <= gc.KnockbackRadius:
			pushed = append(pushed, e)
		}
	}
	st.emit(GrenadeExploded{GrenadeID: g.ID, Pos: g.Pos, Hits: len(damaged)})

	for _, e := range damaged {
		kb := 0.0
		if e.Pos.Dist(g.Pos) <= gc.KnockbackRadius {
			kb = gc.Knockback
		}
		st.damageEnemy(e, gc.Damage, false, e.Pos.Sub(g.Pos), kb)
	}
	for _, e := range pushed {
		st.knock(e, e.Pos.Sub(g.Pos), gc.Knockback)
		st.alert(e)
	}
}

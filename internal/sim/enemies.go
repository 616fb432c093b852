package sim

import (
	"math"

	"github.com/vovakirdan/gunzone/internal/config"
	"github.com/vovakirdan/gunzone/internal/core"
)

func (st *step) updateEnemies() {
	for _, e := range st.s.Enemies {
		if e.HP > 0 {
			st.updateEnemy(e)
		}
	}
}

func (st *step) updateEnemy(e *Enemy) {
	ec := st.cfg.Enemies
	p := &st.s.Player

	e.Visible = !core.SegmentBlocked(p.Pos, e.Pos, st.s.Obstacles)
	if e.Gunner != nil && e.Gunner.FireCooldown > 0 {
		e.Gunner.FireCooldown--
	}

	if !e.KnockbackVel.IsZero() {
		e.Pos = e.Pos.Add(e.KnockbackVel.Scale(st.dt))
		e.KnockbackVel = e.KnockbackVel.Scale(ec.KnockbackDecay)
		if e.KnockbackVel.LenSq() < 1 {
			e.KnockbackVel = core.Vec2{}
		}
	}

	toPlayer := p.Pos.Sub(e.Pos)
	dist := toPlayer.Len()
	if e.AIState == AIWander && dist <= ec.DetectionRange {
		st.alert(e)
	}

	switch {
	case e.StunTimer > 0:
		e.StunTimer--
	case e.AIState == AIWander:
		st.wander(e)
	case e.Gunner != nil:
		st.updateGunner(e, toPlayer, dist)
	case dist > 0:
		e.Pos = e.Pos.Add(toPlayer.Scale(math.Min(e.Speed*st.dt, dist) / dist))
	}

	e.Pos = st.confine(e.Pos, e.Radius)
	if e.Pos.Dist(p.Pos) <= e.Radius+p.Radius {
		st.damagePlayer(e.ContactDamage, SourceContact, e.ID)
	}
}

// wander walks a random heading, re-picked on a timer, and turns back at
// the edge of the enemy's zone.
func (st *step) wander(e *Enemy) {
	ec := st.cfg.Enemies
	if e.WanderTimer <= 0 || e.WanderDir.IsZero() {
		e.WanderDir = core.FromAngle(st.s.RNG.Float64() * 2 * math.Pi)
		e.WanderTimer = max(ec.WanderRetargetTicks, 1)
	}
	e.WanderTimer--

	z, zoned := st.zone(e.ZoneID)
	if zoned && !z.Bounds.Contains(e.Pos) {
		// Knocked or pushed out: walk back in.
		e.WanderDir = z.Bounds.Center().Sub(e.Pos).Normalize()
	}
	next := e.Pos.Add(e.WanderDir.Scale(e.Speed * ec.WanderSpeedMultiplier * st.dt))
	if zoned && z.Bounds.Contains(e.Pos) && !z.Bounds.Contains(next) {
		e.WanderDir = e.WanderDir.Scale(-1)
		return
	}
	e.Pos = next
}

func (st *step) updateGunner(e *Enemy, toPlayer core.Vec2, dist float64) {
	gc := st.cfg.Enemies.Gunner
	g := e.Gunner

	g.AITimer++
	switch g.Phase {
	case PhaseAdvance:
		if g.AITimer >= gc.AdvanceDuration {
			g.Phase, g.AITimer = PhaseRetreat, 0
		}
	default:
		if g.AITimer >= gc.RetreatDuration {
			g.Phase, g.AITimer = PhaseAdvance, 0
		}
	}

	if dist == 0 {
		return
	}
	dir := toPlayer.Scale(1 / dist)
	if g.Phase == PhaseAdvance {
		gap := math.Max(dist-e.Radius-st.s.Player.Radius, 0)
		e.Pos = e.Pos.Add(dir.Scale(math.Min(e.Speed*st.dt, gap)))
	} else {
		e.Pos = e.Pos.Sub(dir.Scale(e.Speed * gc.RetreatSpeedMultiplier * st.dt))
	}

	if g.FireCooldown <= 0 && e.Visible && dist <= gc.EngageRange && st.s.Player.HP > 0 {
		st.gunnerFire(e, dir)
	}
}

func (st *step) gunnerFire(e *Enemy, dir core.Vec2) {
	gc := st.cfg.Enemies.Gunner
	angle := dir.Angle() + st.s.RNG.Spread(gc.Spread)
	ep := &EnemyProjectile{
		ID:       st.s.nextID(),
		OwnerID:  e.ID,
		Pos:      e.Pos.Add(dir.Scale(e.Radius)),
		Vel:      core.FromAngle(angle).Scale(gc.ProjectileSpeed),
		Radius:   gc.ProjectileRadius,
		Damage:   gc.ProjectileDamage,
		Lifetime: gc.ProjectileLifetime,
	}
	st.s.EnemyProjectiles = append(st.s.EnemyProjectiles, ep)
	e.Gunner.FireCooldown = gc.FireCooldownTicks
	st.emit(EnemyFired{EnemyID: e.ID, ProjectileID: ep.ID})
}

func (st *step) zone(id string) (config.ZoneConfig, bool) {
	if id == "" {
		return config.ZoneConfig{}, false
	}
	for _, z := range st.cfg.Extraction.Zones {
		if z.ID == id {
			return z, true
		}
	}
	return config.ZoneConfig{}, false
}

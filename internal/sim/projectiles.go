package sim

import (
	"cmp"
	"slices"

	"github.com/vovakirdan/gunzone/internal/core"
)

type projectileHit struct {
	t     float64
	enemy *Enemy
}

func (st *step) updateProjectiles() {
	st.s.Projectiles = compact(st.s.Projectiles, st.advanceProjectile)
	st.sweepDead()
}

// obstacleHit returns the first obstacle contact along a→b.
func (st *step) obstacleHit(a, b core.Vec2) (float64, bool) {
	stopT, blocked := 1.0, false
	for _, r := range st.s.Obstacles {
		if t, ok := core.SegmentRect(a, b, r); ok && t < stopT {
			stopT, blocked = t, true
		}
	}
	return stopT, blocked
}

// advanceProjectile sweeps the projectile over one tick and resolves every
// enemy it crosses in path order. It reports whether the projectile survives.
func (st *step) advanceProjectile(pr *Projectile) bool {
	from := pr.Pos
	to := from.Add(pr.Vel.Scale(st.dt))
	stopT, blocked := st.obstacleHit(from, to)

	var hits []projectileHit
	for _, e := range st.s.Enemies {
		if e.HP <= 0 || pr.hasHit(e.ID) {
			continue
		}
		if t, ok := core.SegmentCircle(from, to, e.Pos, e.Radius+pr.Radius); ok && t <= stopT {
			hits = append(hits, projectileHit{t: t, enemy: e})
		}
	}
	slices.SortStableFunc(hits, func(a, b projectileHit) int { return cmp.Compare(a.t, b.t) })

	dir := pr.Vel.Normalize()
	for _, h := range hits {
		e := h.enemy
		damage, knockback, headshot := pr.Damage, pr.Knockback, false
		if pr.HeadshotTargetID != 0 && e.ID == pr.HeadshotTargetID {
			headshot = true
			damage *= pr.HeadshotMultiplier
			knockback *= pr.HeadshotKnockbackMultiplier
		}
		pr.HitIDs = append(pr.HitIDs, e.ID)
		st.damageEnemy(e, damage, headshot, dir, knockback)

		pr.Penetration--
		if pr.Penetration <= 0 {
			return false
		}
	}
	if blocked {
		return false
	}

	pr.Pos = to
	pr.Lifetime--
	return pr.Lifetime > 0 && st.s.Arena.Contains(pr.Pos)
}

func (st *step) updateEnemyProjectiles() {
	st.s.EnemyProjectiles = compact(st.s.EnemyProjectiles, st.advanceEnemyProjectile)
}

// advanceEnemyProjectile moves a gunner bullet. Bullets pass through a
// dodging or hurt-flashing player.
func (st *step) advanceEnemyProjectile(ep *EnemyProjectile) bool {
	p := &st.s.Player
	from := ep.Pos
	to := from.Add(ep.Vel.Scale(st.dt))
	stopT, blocked := st.obstacleHit(from, to)

	if p.HP > 0 && !p.Invulnerable() {
		if t, ok := core.SegmentCircle(from, to, p.Pos, p.Radius+ep.Radius); ok && t <= stopT {
			st.damagePlayer(ep.Damage, SourceProjectile, ep.OwnerID)
			return false
		}
	}
	if blocked {
		return false
	}

	ep.Pos = to
	ep.Lifetime--
	return ep.Lifetime > 0 && st.s.Arena.Contains(ep.Pos)
}

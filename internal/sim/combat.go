package sim

import (
	"math"

	"github.com/vovakirdan/gunzone/internal/core"
)

func (st *step) fire() {
	p := &st.s.Player
	if p.FireCooldown > 0 {
		p.FireCooldown--
	}

	w := p.ActiveWeapon()
	if w == nil {
		return
	}
	wc, ok := st.cfg.Weapon(w.Type)
	if !ok {
		return
	}

	trigger := st.in.Fire
	if wc.SemiAuto {
		trigger = st.in.FirePressed
	}
	if !trigger || p.HP <= 0 || p.DodgeTimer > 0 || p.ReloadTimer > 0 || p.WeaponSwapTimer > 0 || p.FireCooldown > 0 {
		return
	}
	if w.Ammo <= 0 {
		st.startReload()
		return
	}

	w.Ammo--
	p.FireCooldown = wc.CooldownTicks(st.cfg.TickRate)

	// The lock only counts when the target is alive at fire time.
	var lock uint64
	if st.s.Enemy(st.in.HeadshotTargetID) != nil {
		lock = st.in.HeadshotTargetID
	}
	penetration := 1
	if lock != 0 {
		penetration = max(wc.Penetration, 1)
	}

	spread := wc.Spread
	if p.Moving && wc.MovingSpreadMultiplier > 0 {
		spread *= wc.MovingSpreadMultiplier
	}
	facing := p.Facing
	if facing.IsZero() {
		facing = core.V(1, 0)
	}
	origin := p.Pos.Add(facing.Scale(p.Radius))
	base := facing.Angle()
	pellets := max(wc.PelletsPerShot, 1)

	for range pellets {
		angle := base + st.s.RNG.Spread(spread)
		st.s.Projectiles = append(st.s.Projectiles, &Projectile{
			ID:                          st.s.nextID(),
			Weapon:                      w.Type,
			Pos:                         origin,
			Vel:                         core.FromAngle(angle).Scale(wc.ProjectileSpeed),
			Radius:                      wc.ProjectileRadius,
			Damage:                      wc.Damage * p.Bonus.factor(),
			Lifetime:                    wc.ProjectileLifetime,
			Penetration:                 penetration,
			Knockback:                   wc.Knockback,
			HeadshotTargetID:            lock,
			HeadshotMultiplier:          orOne(wc.HeadshotMultiplier),
			HeadshotKnockbackMultiplier: orOne(wc.HeadshotKnockbackMultiplier),
		})
	}

	st.emit(ProjectileFired{
		Weapon:           w.Type,
		Pellets:          pellets,
		AmmoLeft:         w.Ammo,
		HeadshotTargetID: lock,
	})
}

// damageEnemy applies a hit and kills the enemy when its HP runs out.
// Killed enemies stay in the list until sweepDead.
func (st *step) damageEnemy(e *Enemy, damage float64, headshot bool, dir core.Vec2, knockback float64) {
	if e.HP <= 0 {
		return
	}
	e.HP -= damage
	st.emit(EnemyHit{
		EnemyID:  e.ID,
		Damage:   damage,
		Headshot: headshot,
		HPLeft:   math.Max(e.HP, 0),
	})
	st.knock(e, dir, knockback)

	if e.HP <= 0 {
		st.killEnemy(e)
		return
	}
	st.alert(e)
}

// knock adds a knockback impulse and stuns the enemy.
func (st *step) knock(e *Enemy, dir core.Vec2, strength float64) {
	if strength <= 0 || dir.IsZero() {
		return
	}
	e.KnockbackVel = e.KnockbackVel.Add(dir.Normalize().Scale(strength))
	e.StunTimer = max(e.StunTimer, st.cfg.Enemies.KnockbackStunTicks)
}

func (st *step) alert(e *Enemy) {
	if e.AIState != AIWander {
		return
	}
	e.AIState = AIActive
	st.emit(EnemyAlerted{EnemyID: e.ID})
}

func (st *step) killEnemy(e *Enemy) {
	s := st.s
	e.HP = 0
	s.Score += e.ScoreValue
	s.Kills++
	st.emit(EnemyKilled{EnemyID: e.ID, Enemy: e.Type, Score: e.ScoreValue, Pos: e.Pos})
	if s.Mode == ModeExtraction {
		st.dropCash(e)
	}
}

// sweepDead removes killed enemies, keeping spawn order.
func (st *step) sweepDead() {
	st.s.Enemies = compact(st.s.Enemies, func(e *Enemy) bool { return e.HP > 0 })
}

func orOne(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

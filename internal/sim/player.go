package sim

import (
	"math"

	"github.com/vovakirdan/gunzone/internal/core"
)

func (st *step) movePlayer() {
	p := &st.s.Player
	pc := st.cfg.Player

	if p.IFrameTimer > 0 {
		p.IFrameTimer--
	}
	if p.DodgeTimer == 0 && p.DodgeCooldown > 0 {
		p.DodgeCooldown--
	}
	if !st.in.AimDir.IsZero() {
		p.Facing = st.in.AimDir.Normalize()
	}

	move := st.in.MoveDir
	if move.LenSq() > 1 {
		move = move.Normalize()
	}

	// Dodge input cancels a heal even when the dodge itself is on cooldown.
	if st.in.Dodge && p.Healing {
		st.interruptHeal()
	}
	if st.in.Dodge && p.DodgeTimer == 0 && p.DodgeCooldown == 0 && pc.Dodge.DurationTicks > 0 {
		dir := move
		if dir.IsZero() {
			dir = p.Facing
		}
		p.DodgeDir = dir.Normalize()
		p.DodgeTimer = pc.Dodge.DurationTicks
		st.emit(DodgeStart{Dir: p.DodgeDir})
	}

	var vel core.Vec2
	if p.DodgeTimer > 0 {
		vel = p.DodgeDir.Scale(pc.Speed * pc.Dodge.SpeedMultiplier)
		p.DodgeTimer--
		if p.DodgeTimer == 0 {
			p.DodgeCooldown = pc.Dodge.CooldownTicks
		}
	} else {
		speed := pc.Speed
		if p.Healing {
			speed *= st.cfg.Heal.MoveMultiplier
		}
		vel = move.Scale(speed)
	}

	p.Moving = !vel.IsZero()
	p.Pos = st.confine(p.Pos.Add(vel.Scale(st.dt)), p.Radius)
}

// confine clamps a circle to the arena and pushes it out of every obstacle.
// The second clamp catches push-outs that cross the arena edge.
func (st *step) confine(pos core.Vec2, radius float64) core.Vec2 {
	w, h := st.s.Arena.Width, st.s.Arena.Height
	pos = core.ClampCircle(pos, radius, w, h)
	pos = core.ResolveCircleRects(pos, radius, st.s.Obstacles, st.cfg.Player.CollisionIterations)
	return core.ClampCircle(pos, radius, w, h)
}

// damagePlayer applies armor absorption and hurt i-frames. Damage during
// a dodge or i-frames is ignored.
func (st *step) damagePlayer(amount float64, source DamageSource, sourceID uint64) {
	p := &st.s.Player
	if amount <= 0 || p.HP <= 0 || p.Invulnerable() {
		return
	}

	absorbed := 0.0
	if p.ArmorHP > 0 && st.cfg.Player.ArmorAbsorb > 0 {
		absorbed = math.Min(p.ArmorHP, amount*st.cfg.Player.ArmorAbsorb)
		p.ArmorHP -= absorbed
	}
	p.HP = math.Max(0, p.HP-(amount-absorbed))
	p.IFrameTimer = st.cfg.Player.HurtIFrameTicks

	st.emit(PlayerHit{
		Damage:   amount - absorbed,
		Absorbed: absorbed,
		Source:   source,
		SourceID: sourceID,
		HP:       p.HP,
		ArmorHP:  p.ArmorHP,
	})
}

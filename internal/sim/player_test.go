package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/gunzone/internal/core"
)

func TestMovement(t *testing.T) {
	tests := []struct {
		name  string
		start core.Vec2
		move  core.Vec2
		ticks int
		check func(t *testing.T, pos core.Vec2)
	}{
		{
			name:  "moves at configured speed",
			start: core.V(600, 400),
			move:  core.V(1, 0),
			ticks: 60,
			check: func(t *testing.T, pos core.Vec2) {
				assert.InDelta(t, 830, pos.X, 1e-6)
				assert.InDelta(t, 400, pos.Y, 1e-6)
			},
		},
		{
			name:  "diagonal input is normalized",
			start: core.V(600, 400),
			move:  core.V(1, 1),
			ticks: 60,
			check: func(t *testing.T, pos core.Vec2) {
				assert.InDelta(t, 230, pos.Dist(core.V(600, 400)), 1e-6)
			},
		},
		{
			name:  "clamped to the arena",
			start: core.V(30, 400),
			move:  core.V(-1, 0),
			ticks: 60,
			check: func(t *testing.T, pos core.Vec2) {
				assert.Equal(t, 14.0, pos.X)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := quietConfig()
			g := CreateGame(cfg, 1)
			g.State.Player.Pos = tt.start
			run(g, cfg, core.InputState{MoveDir: tt.move}, tt.ticks)
			tt.check(t, g.State.Player.Pos)
		})
	}
}

func TestObstaclePushOut(t *testing.T) {
	cfg := quietConfig()
	// Two touching blocks forming an inner corner.
	cfg.Arena.Obstacles = []core.Rect{
		core.NewRect(300, 300, 100, 40),
		core.NewRect(300, 340, 40, 100),
	}
	g := CreateGame(cfg, 1)
	g.State.Player.Pos = core.V(360, 380)

	run(g, cfg, core.InputState{MoveDir: core.V(-1, -1)}, 120)

	p := g.State.Player
	for _, r := range cfg.Arena.Obstacles {
		_, overlap := core.ResolveCircleRect(p.Pos, p.Radius-0.001, r)
		assert.False(t, overlap, "player inside %+v at %+v", r, p.Pos)
	}
}

func TestDodge(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 1)
	p := &g.State.Player

	Tick(g, core.InputState{Dodge: true, MoveDir: core.V(0, 1)}, cfg)
	require.Positive(t, p.DodgeTimer)
	assert.Equal(t, core.V(0, 1), p.DodgeDir)
	assert.Len(t, EventsOf[DodgeStart](g.State.Events), 1)
	assert.True(t, p.Invulnerable())

	// Steering is ignored while dodging.
	y := p.Pos.Y
	fire := core.InputState{MoveDir: core.V(1, 0), AimDir: core.V(1, 0), FirePressed: true}
	Tick(g, fire, cfg)
	assert.Empty(t, EventsOf[ProjectileFired](g.State.Events), "no shots mid-dodge")
	assert.Empty(t, g.State.Projectiles)
	assert.Greater(t, p.Pos.Y, y)
	assert.InDelta(t, 600, p.Pos.X, 1e-9)

	for p.DodgeTimer > 0 {
		Tick(g, core.InputState{}, cfg)
	}
	require.Positive(t, p.DodgeCooldown)

	Tick(g, core.InputState{Dodge: true}, cfg)
	assert.Zero(t, p.DodgeTimer, "cooldown blocks a new dodge")
	assert.Empty(t, EventsOf[DodgeStart](g.State.Events))

	run(g, cfg, core.InputState{}, cfg.Player.Dodge.CooldownTicks)
	Tick(g, core.InputState{Dodge: true}, cfg)
	assert.Positive(t, p.DodgeTimer, "dodge is available again")
}

func TestDodgeUsesFacingWithoutMoveInput(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 1)
	Tick(g, core.InputState{Dodge: true, AimDir: core.V(0, -2)}, cfg)
	assert.Equal(t, core.V(0, -1), g.State.Player.DodgeDir)
}

func TestHealConsumesImmediately(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 1)
	p := &g.State.Player
	p.HP = 10
	small := p.SmallBandages

	Tick(g, core.InputState{HealSmall: true}, cfg)
	require.True(t, p.Healing)
	assert.Equal(t, small-1, p.SmallBandages)
	assert.Len(t, EventsOf[HealStart](g.State.Events), 1)

	Tick(g, core.InputState{Dodge: true}, cfg)
	assert.False(t, p.Healing)
	assert.Len(t, EventsOf[HealInterrupted](g.State.Events), 1)
	assert.Equal(t, small-1, p.SmallBandages, "interrupted bandage is not refunded")
	assert.Equal(t, 10.0, p.HP)
}

func TestDodgeOnCooldownInterruptsHeal(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 1)
	p := &g.State.Player
	p.HP = 10
	p.DodgeCooldown = 30
	small := p.SmallBandages

	Tick(g, core.InputState{HealSmall: true}, cfg)
	require.True(t, p.Healing)

	Tick(g, core.InputState{Dodge: true}, cfg)
	assert.False(t, p.Healing)
	assert.Len(t, EventsOf[HealInterrupted](g.State.Events), 1)
	assert.Empty(t, EventsOf[DodgeStart](g.State.Events), "dodge stays on cooldown")
	assert.Zero(t, p.DodgeTimer)
	assert.Equal(t, small-1, p.SmallBandages)
}

func TestHealQuality(t *testing.T) {
	restored := func(t *testing.T, pressAt int) HealComplete {
		t.Helper()
		cfg := quietConfig()
		g := CreateGame(cfg, 1)
		p := &g.State.Player
		p.HP = 10

		Tick(g, core.InputState{HealSmall: true}, cfg)
		for range 200 {
			in := core.InputState{HealSmall: pressAt > 0 && p.HealTimer == pressAt-1}
			Tick(g, in, cfg)
			if done := EventsOf[HealComplete](g.State.Events); len(done) > 0 {
				return done[0]
			}
		}
		t.Fatal("heal never completed")
		return HealComplete{}
	}

	normal := restored(t, 0)
	perfect := restored(t, 63) // 63/90 = 0.70
	active := restored(t, 54)  // 54/90 = 0.60

	assert.Equal(t, QualityNormal, normal.Quality)
	assert.Equal(t, QualityPerfect, perfect.Quality)
	assert.Equal(t, QualityActive, active.Quality)
	assert.Equal(t, 25.0, normal.Restored)
	assert.Greater(t, perfect.Restored, normal.Restored)
	assert.Greater(t, perfect.Restored, active.Restored)
	assert.Greater(t, active.Restored, normal.Restored)
}

func TestHealFumble(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 1)
	p := &g.State.Player
	p.HP = 10

	Tick(g, core.InputState{HealSmall: true}, cfg)
	Tick(g, core.InputState{HealSmall: true}, cfg) // progress 1/90
	assert.Len(t, EventsOf[HealFumbled](g.State.Events), 1)
	require.True(t, p.HealFumbled)
	assert.True(t, p.Healing, "a fumble does not end the heal")

	var done []HealComplete
	for range 100 {
		in := core.InputState{HealSmall: p.HealTimer == 62}
		Tick(g, in, cfg)
		done = append(done, EventsOf[HealComplete](g.State.Events)...)
	}
	require.Len(t, done, 1)
	assert.Equal(t, QualityNormal, done[0].Quality)
}

func TestHealClampsAndGuards(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 1)
	p := &g.State.Player

	Tick(g, core.InputState{HealLarge: true}, cfg)
	assert.False(t, p.Healing, "full HP does not start a heal")
	assert.Equal(t, cfg.Heal.StartingLarge, p.LargeBandages)

	p.HP = 90
	Tick(g, core.InputState{HealLarge: true}, cfg)
	require.True(t, p.Healing)
	run(g, cfg, core.InputState{}, 200)
	assert.Equal(t, p.MaxHP, p.HP)

	p.HP = 50
	Tick(g, core.InputState{HealLarge: true}, cfg)
	assert.False(t, p.Healing, "no large bandages left")
}

func TestHealCancelsReload(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 1)
	p := &g.State.Player
	p.HP = 50
	p.Weapons[0].Ammo = 0

	Tick(g, core.InputState{Reload: true}, cfg)
	require.Positive(t, p.ReloadTimer)

	Tick(g, core.InputState{HealSmall: true}, cfg)
	assert.True(t, p.Healing)
	assert.Zero(t, p.ReloadTimer)
	assert.Len(t, EventsOf[ReloadCancelled](g.State.Events), 1)
}

func TestExtractionHotbarHeal(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 1, WithMode(ModeExtraction))
	p := &g.State.Player
	p.HP = 40
	inv := p.Inventory
	before := inv.Count("bandage_large")

	Tick(g, core.InputState{HotbarUse: core.Hotbar(1)}, cfg)
	require.True(t, p.Healing)
	assert.Equal(t, "large", p.HealType)
	assert.Equal(t, before-1, inv.Count("bandage_large"))

	// The legacy keys do nothing in extraction.
	g2 := CreateGame(cfg, 1, WithMode(ModeExtraction))
	g2.State.Player.HP = 40
	Tick(g2, core.InputState{HealSmall: true}, cfg)
	assert.False(t, g2.State.Player.Healing)

	for _, slot := range []int{-1, 3, 99} {
		g3 := CreateGame(cfg, 1, WithMode(ModeExtraction))
		g3.State.Player.HP = 40
		Tick(g3, core.InputState{HotbarUse: core.Hotbar(slot)}, cfg)
		assert.False(t, g3.State.Player.Healing, "slot %d", slot)
	}
}

func TestArmorAbsorbsDamage(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 1, WithMode(ModeExtraction))
	p := &g.State.Player
	st := newStep(g.State, cfg, core.InputState{})

	st.damagePlayer(20, SourceContact, 7)
	assert.InDelta(t, 38, p.ArmorHP, 1e-9)
	assert.InDelta(t, 92, p.HP, 1e-9)
	assert.Equal(t, cfg.Player.HurtIFrameTicks, p.IFrameTimer)

	st.damagePlayer(20, SourceContact, 7)
	assert.InDelta(t, 92, p.HP, 1e-9, "i-frames ignore the second hit")

	hits := EventsOf[PlayerHit](g.State.Events)
	require.Len(t, hits, 1)
	assert.InDelta(t, 12, hits[0].Absorbed, 1e-9)
}

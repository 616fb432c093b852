package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/gunzone/internal/core"
)

func TestPenetrationLaw(t *testing.T) {
	tests := []struct {
		name      string
		weapon    string
		lock      bool
		hp        float64
		positions []float64
		kills     int
		damaged   int
	}{
		{"pistol without lock stops at first", "pistol", false, 100, []float64{200, 240}, 0, 1},
		{"rifle without lock stops at first", "rifle", false, 10, []float64{200, 240, 280}, 1, 1},
		{"rifle with lock passes through", "rifle", true, 10, []float64{200, 240, 280}, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := quietConfig()
			g := CreateGame(cfg, 9, WithStartingWeapon(tt.weapon))
			g.State.Player.Pos = core.V(100, 400)

			var enemies []*Enemy
			for _, x := range tt.positions {
				e := place(g, cfg, EnemySprinter, core.V(x, 400))
				e.HP, e.MaxHP = tt.hp, tt.hp
				enemies = append(enemies, e)
			}

			in := aimRight()
			in.FirePressed = true
			if tt.lock {
				in.HeadshotTargetID = enemies[0].ID
			}
			events := run(g, cfg, in, 1)
			events = append(events, run(g, cfg, aimRight(), 20)...)

			hits := EventsOf[EnemyHit](events)
			damaged := map[uint64]bool{}
			for _, h := range hits {
				damaged[h.EnemyID] = true
			}
			assert.Len(t, damaged, tt.damaged)
			assert.True(t, damaged[enemies[0].ID], "first enemy in line is always hit")
			assert.Equal(t, tt.kills, g.State.Kills)
			if tt.lock {
				require.NotEmpty(t, hits)
				assert.True(t, hits[0].Headshot)
			}
		})
	}
}

func TestLockOnMissingTargetIsIgnored(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 9, WithStartingWeapon("rifle"))
	in := aimRight()
	in.FirePressed = true
	in.HeadshotTargetID = 999

	Tick(g, in, cfg)
	require.Len(t, g.State.Projectiles, 1)
	assert.Zero(t, g.State.Projectiles[0].HeadshotTargetID)
	assert.Equal(t, 1, g.State.Projectiles[0].Penetration)
}

func TestShotgunPellets(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 21, WithStartingWeapon("shotgun"))
	in := aimRight()
	in.FirePressed = true

	Tick(g, in, cfg)

	pellets := cfg.Weapons["shotgun"].PelletsPerShot
	require.Len(t, g.State.Projectiles, pellets)
	assert.Equal(t, cfg.Weapons["shotgun"].MagazineSize-1, g.State.Player.Weapons[0].Ammo)

	fired := EventsOf[ProjectileFired](g.State.Events)
	require.Len(t, fired, 1)
	assert.Equal(t, pellets, fired[0].Pellets)

	first := g.State.Projectiles[0].Vel.Angle()
	same := true
	for _, p := range g.State.Projectiles[1:] {
		if p.Vel.Angle() != first {
			same = false
		}
	}
	assert.False(t, same, "pellets draw independent spread")
}

func TestSemiAutoNeedsFreshPress(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 2)

	held := aimRight()
	held.Fire = true
	events := run(g, cfg, held, 60)
	assert.Empty(t, EventsOf[ProjectileFired](events), "holding fire does not shoot a semi-auto")

	press := aimRight()
	press.FirePressed = true
	events = run(g, cfg, press, 1)
	assert.Len(t, EventsOf[ProjectileFired](events), 1)
}

func TestReloadCycle(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 4, WithStartingWeapon("smg"))
	in := aimRight()
	in.Fire = true

	var events []GameEvent
	for range 300 {
		Tick(g, in, cfg)
		events = append(events, g.State.Events...)
	}

	started, completed, resumed := -1, -1, -1
	for i, e := range events {
		switch d := e.Data.(type) {
		case ReloadStart:
			if started < 0 {
				started = i
			}
		case ReloadComplete:
			if completed < 0 {
				completed = i
				assert.Equal(t, cfg.Weapons["smg"].MagazineSize, d.Ammo)
				assert.Equal(t, QualityNormal, d.Quality)
			}
		case ProjectileFired:
			if completed >= 0 && resumed < 0 {
				resumed = i
			}
		}
	}
	require.GreaterOrEqual(t, started, 0, "empty magazine triggers a reload")
	require.Greater(t, completed, started)
	assert.Greater(t, resumed, completed, "firing resumes after the reload")

	shots := 0
	for _, e := range events[:started] {
		if _, ok := e.Data.(ProjectileFired); ok {
			shots++
		}
	}
	assert.Equal(t, cfg.Weapons["smg"].MagazineSize, shots)
}

func TestFireBlockedWhileReloading(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 4)
	g.State.Player.Weapons[0].Ammo = 3

	Tick(g, core.InputState{Reload: true}, cfg)
	require.Positive(t, g.State.Player.ReloadTimer)

	press := aimRight()
	press.FirePressed = true
	events := run(g, cfg, press, 1)
	assert.Empty(t, EventsOf[ProjectileFired](events))
}

func TestActiveReload(t *testing.T) {
	tests := []struct {
		name    string
		timer   int // ReloadTimer value when the second press lands
		quality Quality
		bonus   float64
	}{
		{"perfect", 24, QualityPerfect, 1.35},
		{"active", 30, QualityActive, 1.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := quietConfig()
			g := CreateGame(cfg, 4)
			p := &g.State.Player
			p.Weapons[0].Ammo = 0

			Tick(g, core.InputState{Reload: true}, cfg)
			require.Equal(t, 60, p.ReloadTimer)

			for p.ReloadTimer != tt.timer {
				Tick(g, core.InputState{}, cfg)
			}
			Tick(g, core.InputState{Reload: true}, cfg)

			done := EventsOf[ReloadComplete](g.State.Events)
			require.Len(t, done, 1)
			assert.Equal(t, tt.quality, done[0].Quality)
			assert.Equal(t, 12, p.Weapons[0].Ammo)
			assert.InDelta(t, tt.bonus, p.Bonus.Multiplier, 1e-9)
			assert.Zero(t, p.ReloadTimer)
		})
	}
}

func TestReloadFumble(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 4)
	p := &g.State.Player
	p.Weapons[0].Ammo = 0

	Tick(g, core.InputState{Reload: true}, cfg)
	Tick(g, core.InputState{Reload: true}, cfg) // far too early
	assert.Len(t, EventsOf[ReloadFumbled](g.State.Events), 1)
	require.True(t, p.ReloadFumbled)

	for p.ReloadTimer != 24 {
		Tick(g, core.InputState{}, cfg)
	}
	Tick(g, core.InputState{Reload: true}, cfg)
	assert.Empty(t, EventsOf[ReloadComplete](g.State.Events), "no second attempt after a fumble")

	events := run(g, cfg, core.InputState{}, 30)
	done := EventsOf[ReloadComplete](events)
	require.Len(t, done, 1)
	assert.Equal(t, QualityNormal, done[0].Quality)
	assert.Equal(t, 1.0, p.Bonus.factor())
}

func TestExtractionReloadDrawsBackpackAmmo(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 4, WithMode(ModeExtraction))
	p := &g.State.Player
	inv := p.Inventory
	rifleAmmo := inv.Count("ammo_762")
	p.Weapons[0].Ammo = 1

	Tick(g, core.InputState{Reload: true}, cfg)
	run(g, cfg, core.InputState{}, 130)

	assert.Equal(t, 5, p.Weapons[0].Ammo)
	assert.Equal(t, rifleAmmo-4, inv.Count("ammo_762"))

	_ = inv.Take("ammo_762", 1000)
	p.Weapons[0].Ammo = 0
	Tick(g, core.InputState{Reload: true}, cfg)
	assert.Zero(t, p.ReloadTimer, "no reserve, no reload")
}

func TestWeaponSwap(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 4, WithMode(ModeExtraction))
	p := &g.State.Player

	Tick(g, core.InputState{WeaponSlot2: true}, cfg)
	assert.Equal(t, 1, p.ActiveSlot)
	require.Len(t, EventsOf[WeaponSwapped](g.State.Events), 1)
	assert.Positive(t, p.WeaponSwapTimer)

	press := aimRight()
	press.FirePressed = true
	events := run(g, cfg, press, 1)
	assert.Empty(t, EventsOf[ProjectileFired](events), "cannot fire mid-swap")

	Tick(g, core.InputState{WeaponSlot2: true}, cfg)
	assert.Empty(t, EventsOf[WeaponSwapped](g.State.Events), "already on that slot")

	arena := CreateGame(cfg, 4)
	Tick(arena, core.InputState{WeaponSlot2: true}, cfg)
	assert.Zero(t, arena.State.Player.ActiveSlot)
}

func TestProjectileStopsAtObstacle(t *testing.T) {
	cfg := quietConfig()
	cfg.Arena.Obstacles = []core.Rect{core.NewRect(150, 350, 20, 100)}
	g := CreateGame(cfg, 9)
	g.State.Player.Pos = core.V(100, 400)
	e := place(g, cfg, EnemySprinter, core.V(250, 400))

	in := aimRight()
	in.FirePressed = true
	events := run(g, cfg, in, 1)
	events = append(events, run(g, cfg, aimRight(), 10)...)

	assert.Empty(t, EventsOf[EnemyHit](events))
	assert.Empty(t, g.State.Projectiles)
	assert.Equal(t, e.MaxHP, e.HP)
}

func TestKnockbackStunsEnemy(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 9)
	g.State.Player.Pos = core.V(100, 400)
	e := place(g, cfg, EnemySprinter, core.V(200, 400))
	e.HP, e.MaxHP = 1000, 1000

	in := aimRight()
	in.FirePressed = true
	run(g, cfg, in, 1)
	for range 10 {
		if e.StunTimer > 0 {
			break
		}
		Tick(g, aimRight(), cfg)
	}
	assert.Positive(t, e.StunTimer)
	assert.Less(t, e.HP, e.MaxHP)
}

func TestHeadshotKnockback(t *testing.T) {
	knockback := func(t *testing.T, lock bool) float64 {
		t.Helper()
		cfg := quietConfig()
		g := CreateGame(cfg, 9)
		g.State.Player.Pos = core.V(100, 400)
		e := place(g, cfg, EnemySprinter, core.V(200, 400))
		e.HP, e.MaxHP = 1000, 1000

		in := aimRight()
		in.FirePressed = true
		if lock {
			in.HeadshotTargetID = e.ID
		}
		Tick(g, in, cfg)
		for range 20 {
			if len(EventsOf[EnemyHit](g.State.Events)) > 0 {
				break
			}
			Tick(g, aimRight(), cfg)
		}
		hits := EventsOf[EnemyHit](g.State.Events)
		require.Len(t, hits, 1)
		assert.Equal(t, lock, hits[0].Headshot)
		return e.KnockbackVel.Len()
	}

	mult := quietConfig().Weapons["pistol"].HeadshotKnockbackMultiplier
	require.Greater(t, mult, 1.0)

	body := knockback(t, false)
	head := knockback(t, true)
	require.Positive(t, body)
	assert.InDelta(t, mult, head/body, 1e-9)
}

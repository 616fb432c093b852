package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/gunzone/internal/core"
)

func TestSprinterChasesAndHits(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 1)
	g.State.Player.Pos = core.V(300, 400)
	e := place(g, cfg, EnemySprinter, core.V(500, 400))

	var hits []PlayerHit
	for range 120 {
		Tick(g, core.InputState{}, cfg)
		hits = append(hits, EventsOf[PlayerHit](g.State.Events)...)
	}
	require.NotEmpty(t, hits)
	assert.Equal(t, SourceContact, hits[0].Source)
	assert.Equal(t, e.ID, hits[0].SourceID)
	assert.Less(t, g.State.Player.HP, g.State.Player.MaxHP)

	// Hurt i-frames space out repeated contact damage.
	assert.LessOrEqual(t, len(hits), 120/cfg.Player.HurtIFrameTicks+1)
}

func TestDodgeIgnoresContact(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 1)
	place(g, cfg, EnemySprinter, g.State.Player.Pos.Add(core.V(20, 0)))

	Tick(g, core.InputState{Dodge: true, MoveDir: core.V(0, 1)}, cfg)
	assert.Empty(t, EventsOf[PlayerHit](g.State.Events))
	assert.Equal(t, g.State.Player.MaxHP, g.State.Player.HP)
}

func TestGunnerCycle(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 1)
	g.State.Player.Pos = core.V(300, 400)
	e := place(g, cfg, EnemyGunner, core.V(700, 400))
	gc := cfg.Enemies.Gunner

	require.NotNil(t, e.Gunner)
	assert.Equal(t, PhaseAdvance, e.Gunner.Phase)

	var fired []EnemyFired
	startX := e.Pos.X
	for range gc.AdvanceDuration {
		Tick(g, core.InputState{}, cfg)
		fired = append(fired, EventsOf[EnemyFired](g.State.Events)...)
	}
	assert.Equal(t, PhaseRetreat, e.Gunner.Phase)
	assert.Zero(t, e.Gunner.AITimer)
	assert.Less(t, e.Pos.X, startX, "advance closes in")
	assert.NotEmpty(t, fired, "fires once the cooldown elapses")

	x := e.Pos.X
	run(g, cfg, core.InputState{}, 10)
	assert.Greater(t, e.Pos.X, x, "retreat backs off")

	run(g, cfg, core.InputState{}, gc.RetreatDuration)
	assert.Equal(t, PhaseAdvance, e.Gunner.Phase)
}

func TestGunnerNeedsLineOfSight(t *testing.T) {
	cfg := quietConfig()
	cfg.Arena.Obstacles = []core.Rect{core.NewRect(480, 200, 40, 400)}
	cfg.Enemies.Gunner.AdvanceDuration = 1000
	g := CreateGame(cfg, 1)
	g.State.Player.Pos = core.V(300, 400)
	e := place(g, cfg, EnemyGunner, core.V(700, 400))

	events := run(g, cfg, core.InputState{}, 200)
	assert.False(t, e.Visible)
	assert.Empty(t, EventsOf[EnemyFired](events))
	assert.Empty(t, g.State.EnemyProjectiles)
}

func TestEnemyProjectileRespectsImmunity(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 1)
	p := &g.State.Player
	g.State.EnemyProjectiles = append(g.State.EnemyProjectiles, &EnemyProjectile{
		ID: 500, OwnerID: 42, Pos: p.Pos.Add(core.V(-30, 0)), Vel: core.V(420, 0),
		Radius: 4, Damage: 10, Lifetime: 60,
	})

	p.IFrameTimer = 20
	run(g, cfg, core.InputState{}, 10)
	assert.Equal(t, p.MaxHP, p.HP, "bullet passes through during i-frames")

	g.State.EnemyProjectiles = append(g.State.EnemyProjectiles, &EnemyProjectile{
		ID: 501, OwnerID: 42, Pos: p.Pos.Add(core.V(-30, 0)), Vel: core.V(420, 0),
		Radius: 4, Damage: 10, Lifetime: 60,
	})
	p.IFrameTimer = 0
	events := run(g, cfg, core.InputState{}, 5)
	hits := EventsOf[PlayerHit](events)
	require.Len(t, hits, 1)
	assert.Equal(t, SourceProjectile, hits[0].Source)
	assert.Equal(t, uint64(42), hits[0].SourceID)
	assert.Equal(t, p.MaxHP-10, p.HP)
}

func TestWanderingEnemyWakesUp(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 1, WithMode(ModeExtraction))
	st := newStep(g.State, cfg, core.InputState{})
	yard := cfg.Extraction.Zones[0]
	e := st.spawnEnemy(EnemySprinter, yard.Bounds.Center(), AIWander, yard.ID)

	run(g, cfg, core.InputState{}, 120)
	assert.Equal(t, AIWander, e.AIState)
	assert.True(t, yard.Bounds.Contains(e.Pos), "wanderers stay in their zone")

	g.State.Player.Pos = e.Pos.Add(core.V(-cfg.Enemies.DetectionRange+50, 0))
	events := run(g, cfg, core.InputState{}, 1)
	assert.Equal(t, AIActive, e.AIState)
	alerts := EventsOf[EnemyAlerted](events)
	require.Len(t, alerts, 1)
	assert.Equal(t, e.ID, alerts[0].EnemyID)
}

func TestDamageAlertsWanderer(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 1, WithMode(ModeExtraction))
	st := newStep(g.State, cfg, core.InputState{})
	e := st.spawnEnemy(EnemyGunner, core.V(1000, 1400), AIWander, "yard")

	st.damageEnemy(e, 1, false, core.V(1, 0), 0)
	assert.Equal(t, AIActive, e.AIState)
}

func TestArenaSpawner(t *testing.T) {
	cfg := quietConfig()
	cfg.Spawner.MaxEnemies = 3
	cfg.Spawner.InitialInterval = 10
	cfg.Spawner.MinimumInterval = 5
	g := CreateGame(cfg, 77)

	events := run(g, cfg, core.InputState{}, 10)
	spawned := EventsOf[EnemySpawned](events)
	require.Len(t, spawned, 1)
	assert.GreaterOrEqual(t, spawned[0].Pos.Dist(g.State.Player.Pos), cfg.Spawner.MinSpawnDistance-50)
	assert.Less(t, g.State.Spawner.CurrentInterval, 10)
	assert.GreaterOrEqual(t, g.State.Spawner.CurrentInterval, cfg.Spawner.MinimumInterval)

	run(g, cfg, core.InputState{}, 200)
	assert.LessOrEqual(t, len(g.State.Enemies), cfg.Spawner.MaxEnemies)
}

func TestArenaSpawnerRespectsCap(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 77)
	events := run(g, cfg, core.InputState{}, 600)
	assert.Empty(t, EventsOf[EnemySpawned](events))
}

func TestTriggerRegionFiresOnce(t *testing.T) {
	cfg := quietConfig()
	g := CreateGame(cfg, 5, WithMode(ModeExtraction))
	gate := cfg.Extraction.TriggerRegions[0]
	inside := gate.Bounds.Center()
	outside := inside.Add(core.V(-200, 0))

	g.State.Player.Pos = inside
	events := run(g, cfg, core.InputState{}, 1)
	fired := EventsOf[TriggerActivated](events)
	require.Len(t, fired, 1)
	assert.Equal(t, gate.ID, fired[0].RegionID)
	assert.Equal(t, len(gate.Spawns), fired[0].Spawned)
	assert.Len(t, EventsOf[EnemySpawned](events), len(gate.Spawns))
	assert.True(t, g.State.Extraction.TriggeredRegions[gate.ID])
	count := len(g.State.Enemies)

	events = run(g, cfg, core.InputState{}, 10)
	g.State.Player.Pos = outside
	events = append(events, run(g, cfg, core.InputState{}, 5)...)
	g.State.Player.Pos = inside
	events = append(events, run(g, cfg, core.InputState{}, 5)...)

	assert.Empty(t, EventsOf[TriggerActivated](events))
	assert.Empty(t, EventsOf[EnemySpawned](events))
	assert.LessOrEqual(t, len(g.State.Enemies), count)
}

func TestAmbientZoneSpawns(t *testing.T) {
	cfg := quietConfig()
	cfg.Extraction.Zones[0].AmbientIntervalTicks = 30
	cfg.Extraction.Zones[0].AmbientMaxAlive = 2
	g := CreateGame(cfg, 5, WithMode(ModeExtraction))

	events := run(g, cfg, core.InputState{}, 300)
	spawned := EventsOf[EnemySpawned](events)
	assert.Len(t, spawned, 2)
	for _, s := range spawned {
		assert.Equal(t, "yard", s.ZoneID)
	}
}

func TestParseEnemyType(t *testing.T) {
	tests := []struct {
		in   string
		want EnemyType
		ok   bool
	}{
		{"sprinter", EnemySprinter, true},
		{"gunner", EnemyGunner, true},
		{"tank", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseEnemyType(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseEnemyType(%q) = %v, %v, expected %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

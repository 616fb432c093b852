package sim

import (
	"github.com/vovakirdan/gunzone/internal/config"
	"github.com/vovakirdan/gunzone/internal/core"
)

// quietConfig is the default tuning with every automatic spawn and every
// arena obstacle removed, so tests place exactly the enemies they need.
func quietConfig() *config.GameConfigs {
	cfg := config.Default()
	cfg.Spawner.MaxEnemies = 0
	cfg.Arena.Obstacles = nil
	for i := range cfg.Extraction.Zones {
		cfg.Extraction.Zones[i].InitialEnemies = 0
		cfg.Extraction.Zones[i].AmbientIntervalTicks = 0
	}
	return cfg
}

func place(g *Game, cfg *config.GameConfigs, typ EnemyType, pos core.Vec2) *Enemy {
	return newStep(g.State, cfg, core.InputState{}).spawnEnemy(typ, pos, AIActive, "")
}

// run ticks n times with the same input and returns every event emitted.
func run(g *Game, cfg *config.GameConfigs, in core.InputState, n int) []GameEvent {
	var all []GameEvent
	for range n {
		Tick(g, in, cfg)
		all = append(all, g.State.Events...)
	}
	return all
}

func aimRight() core.InputState {
	return core.InputState{AimDir: core.V(1, 0)}
}

func scriptedInput(i int) core.InputState {
	angle := float64(i) * 0.05
	return core.InputState{
		MoveDir:      core.FromAngle(angle * 0.3),
		AimDir:       core.FromAngle(angle),
		Fire:         true,
		FirePressed:  i%7 == 0,
		Dodge:        i%97 == 0,
		Reload:       i%151 == 0,
		ThrowGrenade: i%200 == 50,
		ThrowPower:   0.5,
		HealSmall:    i%300 == 10,
		HotbarUse:    hotbarEvery(i),
		Interact:     i%60 == 0,
	}
}

func hotbarEvery(i int) *int {
	if i%250 == 20 {
		return core.Hotbar(0)
	}
	return nil
}

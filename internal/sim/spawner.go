package sim

import (
	"github.com/vovakirdan/gunzone/internal/config"
	"github.com/vovakirdan/gunzone/internal/core"
)

// spawnTries bounds the search for a spawn point far enough from the player.
const spawnTries = 8

// ParseEnemyType maps a config name to an enemy type.
func ParseEnemyType(name string) (EnemyType, bool) {
	switch t := EnemyType(name); t {
	case EnemySprinter, EnemyGunner:
		return t, true
	default:
		return "", false
	}
}

func (st *step) updateSpawning() {
	if st.s.Mode == ModeExtraction {
		st.updateAmbient()
		st.updateTriggers()
		return
	}
	st.updateArenaSpawner()
}

func (st *step) spawnEnemy(typ EnemyType, pos core.Vec2, ai AIState, zoneID string) *Enemy {
	ec := st.cfg.Enemies
	base := ec.Sprinter
	if typ == EnemyGunner {
		base = ec.Gunner.EnemyConfig
	}

	e := &Enemy{
		ID:            st.s.nextID(),
		Type:          typ,
		Radius:        base.Radius,
		HP:            base.HP,
		MaxHP:         base.HP,
		Speed:         base.Speed,
		ContactDamage: base.ContactDamage,
		ScoreValue:    base.ScoreValue,
		AIState:       ai,
		ZoneID:        zoneID,
	}
	if typ == EnemyGunner {
		e.Gunner = &GunnerState{Phase: PhaseAdvance, FireCooldown: ec.Gunner.FireCooldownTicks}
	}
	e.Pos = st.confine(pos, e.Radius)
	e.Visible = !core.SegmentBlocked(st.s.Player.Pos, e.Pos, st.s.Obstacles)

	st.s.Enemies = append(st.s.Enemies, e)
	st.emit(EnemySpawned{EnemyID: e.ID, Enemy: typ, Pos: e.Pos, ZoneID: zoneID})
	return e
}

func (st *step) updateArenaSpawner() {
	sp := st.s.Spawner
	if sp == nil {
		return
	}
	sc := st.cfg.Spawner
	if sp.Timer > 0 {
		sp.Timer--
	}
	if sp.Timer > 0 || len(st.s.Enemies) >= sc.MaxEnemies {
		return
	}

	score, tick := st.s.Score, st.s.Tick
	typ := EnemySprinter
	if st.s.RNG.Float64() < st.dm.GunnerRatio(sc.GunnerRatio, score, tick) {
		typ = EnemyGunner
	}
	e := st.spawnEnemy(typ, st.arenaSpawnPoint(), AIActive, "")
	e.Speed = st.dm.Speed(e.Speed, score, tick)

	sp.CurrentInterval = max(sc.MinimumInterval, int(float64(sp.CurrentInterval)*sc.IntervalDecay))
	sp.Timer = max(st.dm.SpawnInterval(sp.CurrentInterval, sc.MinimumInterval, score, tick), 1)
}

// arenaSpawnPoint picks a point on a random arena edge, preferring one at
// least MinSpawnDistance from the player. If every try is too close the
// farthest candidate wins.
func (st *step) arenaSpawnPoint() core.Vec2 {
	m := st.cfg.Spawner.EdgeMargin
	w, h := st.s.Arena.Width, st.s.Arena.Height
	rng := &st.s.RNG

	return st.pickSpawn(st.cfg.Spawner.MinSpawnDistance, func() core.Vec2 {
		switch rng.Intn(4) {
		case 0:
			return core.V(rng.Range(m, w-m), m)
		case 1:
			return core.V(w-m, rng.Range(m, h-m))
		case 2:
			return core.V(rng.Range(m, w-m), h-m)
		default:
			return core.V(m, rng.Range(m, h-m))
		}
	})
}

func (st *step) pickSpawn(minDist float64, candidate func() core.Vec2) core.Vec2 {
	var best core.Vec2
	bestDist := -1.0
	for range spawnTries {
		pos := candidate()
		if st.insideObstacle(pos) {
			continue
		}
		d := pos.Dist(st.s.Player.Pos)
		if d >= minDist {
			return pos
		}
		if d > bestDist {
			best, bestDist = pos, d
		}
	}
	if bestDist < 0 {
		return candidate()
	}
	return best
}

func (st *step) insideObstacle(p core.Vec2) bool {
	for _, r := range st.s.Obstacles {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

// spawnInZone places one wandering enemy somewhere in the zone, out of the
// player's detection range when possible.
func (st *step) spawnInZone(z config.ZoneConfig) *Enemy {
	rng := &st.s.RNG
	typ := EnemySprinter
	if rng.Float64() < z.GunnerRatio {
		typ = EnemyGunner
	}
	b := z.Bounds
	pos := st.pickSpawn(st.cfg.Enemies.DetectionRange, func() core.Vec2 {
		return core.V(rng.Range(b.X, b.Right()), rng.Range(b.Y, b.Bottom()))
	})
	return st.spawnEnemy(typ, pos, AIWander, z.ID)
}

func (st *step) aliveInZone(id string) int {
	n := 0
	for _, e := range st.s.Enemies {
		if e.ZoneID == id && e.HP > 0 {
			n++
		}
	}
	return n
}

func (st *step) updateAmbient() {
	ex := st.s.Extraction
	if ex == nil {
		return
	}
	for i, z := range st.cfg.Extraction.Zones {
		if i >= len(ex.ZoneTimers) || z.AmbientIntervalTicks <= 0 {
			continue
		}
		ex.ZoneTimers[i]--
		if ex.ZoneTimers[i] > 0 {
			continue
		}
		ex.ZoneTimers[i] = z.AmbientIntervalTicks
		if st.aliveInZone(z.ID) < z.AmbientMaxAlive {
			st.spawnInZone(z)
		}
	}
}

// updateTriggers fires each trigger region the first time the player is
// inside it. A fired region never fires again.
func (st *step) updateTriggers() {
	ex := st.s.Extraction
	if ex == nil {
		return
	}
	if ex.TriggeredRegions == nil {
		ex.TriggeredRegions = map[string]bool{}
	}
	pos := st.s.Player.Pos
	for _, tr := range st.cfg.Extraction.TriggerRegions {
		if ex.TriggeredRegions[tr.ID] || !tr.Bounds.Contains(pos) {
			continue
		}
		ex.TriggeredRegions[tr.ID] = true

		var batch []config.TriggerSpawnConfig
		for _, sp := range tr.Spawns {
			if _, ok := ParseEnemyType(sp.Type); ok {
				batch = append(batch, sp)
			}
		}
		st.emit(TriggerActivated{RegionID: tr.ID, Spawned: len(batch)})
		for _, sp := range batch {
			typ, _ := ParseEnemyType(sp.Type)
			st.spawnEnemy(typ, sp.Pos, AIActive, "")
		}
	}
}

// Package sim is the deterministic gunzone simulation. A Game is advanced one
// fixed timestep at a time by Tick; everything it does is a function of the
// config, the seed, and the input sequence.
package sim

import (
	"math"

	"github.com/vovakirdan/gunzone/internal/config"
	"github.com/vovakirdan/gunzone/internal/core"
	"github.com/vovakirdan/gunzone/internal/inventory"
)

// Game is one running simulation.
type Game struct {
	State *GameState

	// dm is built once per config and reused across ticks.
	dm    *config.DifficultyManager
	dmCfg *config.GameConfigs
}

// difficulty returns the manager for cfg, rebuilding it only when the
// caller switches configs.
func (g *Game) difficulty(cfg *config.GameConfigs) *config.DifficultyManager {
	if g.dm == nil || g.dmCfg != cfg {
		g.dm = config.NewDifficultyManager(cfg.Difficulty)
		g.dmCfg = cfg
	}
	return g.dm
}

type options struct {
	mode      Mode
	weapon    string
	inventory *inventory.Inventory
}

// Option customizes CreateGame.
type Option func(*options)

// WithMode selects arena (the default) or extraction rules.
func WithMode(m Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithStartingWeapon overrides the configured arena weapon. In extraction
// mode it is only used when the loadout carries no weapon at all.
func WithStartingWeapon(name string) Option {
	return func(o *options) { o.weapon = name }
}

// WithInventory replaces the configured extraction kit. The inventory is
// copied; the caller keeps ownership of inv.
func WithInventory(inv *inventory.Inventory) Option {
	return func(o *options) { o.inventory = inv }
}

// CreateGame builds the initial state for a seed. The same config, seed and
// options always produce the same state.
func CreateGame(cfg *config.GameConfigs, seed int64, opts ...Option) *Game {
	o := options{mode: ModeArena}
	for _, opt := range opts {
		opt(&o)
	}
	if o.mode != ModeExtraction {
		o.mode = ModeArena
	}

	s := &GameState{
		Mode:         o.mode,
		Seed:         seed,
		NextEntityID: 1,
		Events:       []GameEvent{},
		RNG:          *core.NewSimpleRNG(seed),
	}
	s.Player = Player{
		Facing:      core.V(1, 0),
		Radius:      cfg.Player.Radius,
		HP:          cfg.Player.MaxHP,
		MaxHP:       cfg.Player.MaxHP,
		GrenadeAmmo: cfg.Grenade.StartingAmmo,
	}

	g := &Game{State: s}
	st := newStep(s, cfg, core.InputState{})
	st.dm = g.difficulty(cfg)
	switch o.mode {
	case ModeExtraction:
		st.setupExtraction(o)
	default:
		st.setupArena(o)
	}
	return g
}

func (st *step) setupArena(o options) {
	s, cfg := st.s, st.cfg
	s.Arena = Bounds{Width: cfg.Arena.Width, Height: cfg.Arena.Height}
	s.Obstacles = append([]core.Rect(nil), cfg.Arena.Obstacles...)

	p := &s.Player
	p.Pos = cfg.Arena.PlayerSpawn
	p.SmallBandages = cfg.Heal.StartingSmall
	p.LargeBandages = cfg.Heal.StartingLarge

	name := o.weapon
	if _, ok := cfg.Weapon(name); !ok {
		name = cfg.Player.StartingWeapon
	}
	st.arm(name)

	s.Spawner = &ArenaSpawner{
		Timer:           cfg.Spawner.InitialInterval,
		CurrentInterval: cfg.Spawner.InitialInterval,
	}
}

func (st *step) setupExtraction(o options) {
	s, cfg := st.s, st.cfg
	ex := cfg.Extraction
	s.Arena = Bounds{Width: ex.Width, Height: ex.Height}
	s.Obstacles = append([]core.Rect(nil), ex.Walls...)

	p := &s.Player
	p.Pos = ex.PlayerSpawn
	if o.inventory != nil {
		p.Inventory = o.inventory.Clone()
	} else {
		p.Inventory = inventory.FromKit(cfg, ex.StartingKit)
	}

	for _, slot := range []inventory.EquipSlot{inventory.SlotPrimary, inventory.SlotSecondary} {
		if def, ok := cfg.Item(p.Inventory.Equipped(slot)); ok {
			st.arm(def.Weapon)
		}
	}
	if len(p.Weapons) == 0 {
		if !st.arm(o.weapon) {
			st.arm(cfg.Player.StartingWeapon)
		}
	}
	if def, ok := cfg.Item(p.Inventory.Equipped(inventory.SlotArmor)); ok && def.ArmorHP > 0 {
		p.ArmorHP = def.ArmorHP
		p.ArmorMaxHP = def.ArmorHP
	}

	s.Extraction = &ExtractionSpawner{
		ZoneTimers:       make([]int, len(ex.Zones)),
		TriggeredRegions: map[string]bool{},
		OpenedCaches:     map[string]bool{},
	}
	for i, z := range ex.Zones {
		s.Extraction.ZoneTimers[i] = z.AmbientIntervalTicks
		for range z.InitialEnemies {
			st.spawnInZone(z)
		}
	}
}

// arm adds a loaded weapon to the loadout. Unknown names are ignored.
func (st *step) arm(name string) bool {
	wc, ok := st.cfg.Weapon(name)
	if !ok {
		return false
	}
	p := &st.s.Player
	p.Weapons = append(p.Weapons, WeaponState{Type: name, Ammo: wc.MagazineSize})
	return true
}

// Tick advances the game by one fixed timestep. Once the run has ended it
// returns without touching the state.
func Tick(g *Game, in core.InputState, cfg *config.GameConfigs) {
	if g == nil || g.State == nil || cfg == nil {
		return
	}
	s := g.State
	if s.Ended() {
		return
	}

	s.Events = make([]GameEvent, 0, 8)
	st := newStep(s, cfg, sanitize(in))
	st.dm = g.difficulty(cfg)

	st.movePlayer()
	st.updateHeal()
	st.updateReload()
	st.fire()
	st.throwGrenade()
	st.updateProjectiles()
	st.updateEnemies()
	st.updateEnemyProjectiles()
	st.updateGrenades()
	st.updateSpawning()
	st.collectCash()
	st.openSupplyCache()
	st.checkTerminal()

	s.Tick++
}

// step carries the per-tick context shared by the update phases.
type step struct {
	s   *GameState
	cfg *config.GameConfigs
	in  core.InputState
	dt  float64
	dm  *config.DifficultyManager
}

func newStep(s *GameState, cfg *config.GameConfigs, in core.InputState) *step {
	return &step{
		s:   s,
		cfg: cfg,
		in:  in,
		dt:  cfg.Dt(),
	}
}

func (st *step) emit(data EventData) {
	st.s.Events = append(st.s.Events, GameEvent{Tick: st.s.Tick, Data: data})
}

func (st *step) checkTerminal() {
	s := st.s
	if s.Player.HP <= 0 {
		s.Player.HP = 0
		s.GameOver = true
		st.emit(PlayerDeath{Score: s.Score, Kills: s.Kills})
		return
	}
	if s.Mode != ModeExtraction {
		return
	}
	for _, zone := range st.cfg.Extraction.ExtractionZones {
		if zone.Contains(s.Player.Pos) {
			s.Extracted = true
			st.emit(ExtractionSuccess{RunCash: s.RunCash, Score: s.Score, Kills: s.Kills})
			return
		}
	}
}

// sanitize drops non-finite vectors and clamps the throw power.
func sanitize(in core.InputState) core.InputState {
	if !finite(in.MoveDir) {
		in.MoveDir = core.Vec2{}
	}
	if !finite(in.AimDir) {
		in.AimDir = core.Vec2{}
	}
	if math.IsNaN(in.ThrowPower) {
		in.ThrowPower = 0
	}
	in.ThrowPower = core.ClampF(in.ThrowPower, 0, 1)
	return in
}

func finite(v core.Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Package gunzone adapts the simulation to the registry.Game interface so
// every host (terminal, SSH, headless CLI) drives it the same way.
package gunzone

import (
	"sync"

	"github.com/vovakirdan/gunzone/internal/config"
	"github.com/vovakirdan/gunzone/internal/core"
	"github.com/vovakirdan/gunzone/internal/inventory"
	"github.com/vovakirdan/gunzone/internal/registry"
	"github.com/vovakirdan/gunzone/internal/sim"
	"github.com/vovakirdan/gunzone/internal/storage"
)

// Package-level setup shared by every game the registry creates.
var (
	setupMu      sync.RWMutex
	gameConfig   *config.GameConfigs
	startWeapon  string
	startLoadout *inventory.Inventory
)

// SetConfig sets the tuning used by games created afterwards.
func SetConfig(cfg *config.GameConfigs) {
	setupMu.Lock()
	defer setupMu.Unlock()
	gameConfig = cfg
}

// SetStartingWeapon overrides the arena weapon for games created afterwards.
func SetStartingWeapon(name string) {
	setupMu.Lock()
	defer setupMu.Unlock()
	startWeapon = name
}

// SetLoadout sets the extraction inventory for games created afterwards.
// Nil restores the configured starting kit.
func SetLoadout(inv *inventory.Inventory) {
	setupMu.Lock()
	defer setupMu.Unlock()
	startLoadout = inv
}

func currentSetup() (*config.GameConfigs, string, *inventory.Inventory) {
	setupMu.RLock()
	defer setupMu.RUnlock()
	cfg := gameConfig
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg, startWeapon, startLoadout
}

// TickObserver sees every simulated tick: the input that drove it and the
// events it produced.
type TickObserver func(tick uint64, in core.InputState, events []sim.GameEvent)

// Game wraps one simulation run.
type Game struct {
	mode    sim.Mode
	cfg     *config.GameConfigs
	weapon  string
	loadout *inventory.Inventory
	game    *sim.Game
	seed    int64

	screenW int
	screenH int
	paused  bool

	feed      *Feed
	observers []TickObserver
}

// New creates an arena game.
func New() *Game {
	return &Game{mode: sim.ModeArena}
}

// NewExtraction creates an extraction game.
func NewExtraction() *Game {
	return &Game{mode: sim.ModeExtraction}
}

func init() {
	registry.Register("arena", func() registry.Game {
		return New()
	})
	registry.Register("extraction", func() registry.Game {
		return NewExtraction()
	})
}

// ID returns the mode identifier.
func (g *Game) ID() string {
	return string(g.mode)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == sim.ModeExtraction {
		return "Gunzone: Extraction"
	}
	return "Gunzone: Arena"
}

// Reset starts a new run with the seed from cfg.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.cfg, g.weapon, g.loadout = currentSetup()
	g.seed = cfg.Seed
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.paused = false
	g.feed = NewFeed(feedSize)

	opts := []sim.Option{sim.WithMode(g.mode)}
	if g.weapon != "" {
		opts = append(opts, sim.WithStartingWeapon(g.weapon))
	}
	if g.loadout != nil {
		opts = append(opts, sim.WithInventory(g.loadout))
	}
	g.game = sim.CreateGame(g.cfg, g.seed, opts...)
}

// Observe registers fn to run after every simulated tick.
func (g *Game) Observe(fn TickObserver) {
	g.observers = append(g.observers, fn)
}

// Step advances the simulation by one tick. Paused and finished runs do
// not advance.
func (g *Game) Step(in core.InputState) core.StepResult {
	if g.game == nil {
		g.Reset(core.DefaultConfig())
	}
	s := g.game.State
	if g.paused || s.Ended() {
		return core.StepResult{State: g.State()}
	}

	tick := s.Tick
	sim.Tick(g.game, in, g.cfg)
	g.feed.Record(s.Events)
	for _, fn := range g.observers {
		fn(tick, in, s.Events)
	}
	return core.StepResult{State: g.State()}
}

// Handle applies pause and restart.
func (g *Game) Handle(a core.Action) {
	if g.game == nil {
		return
	}
	switch a {
	case core.ActionPause:
		if !g.game.State.Ended() {
			g.paused = !g.paused
		}
	case core.ActionRestart:
		if g.game.State.Ended() {
			observers := g.observers
			g.Reset(core.RuntimeConfig{
				Seed:    g.seed + 1,
				ScreenW: g.screenW,
				ScreenH: g.screenH,
			})
			g.observers = observers
		}
	}
}

// State returns the host-facing summary.
func (g *Game) State() core.GameState {
	if g.game == nil {
		return core.GameState{}
	}
	s := g.game.State
	return core.GameState{
		Score:     s.Score,
		Cash:      s.RunCash,
		GameOver:  s.GameOver,
		Extracted: s.Extracted,
		Paused:    g.paused,
	}
}

// Sim exposes the running simulation for hosts that need more than the
// summary (autopilot, replay, web sessions).
func (g *Game) Sim() *sim.Game {
	return g.game
}

// Config returns the tuning the current run uses.
func (g *Game) Config() *config.GameConfigs {
	return g.cfg
}

// Seed returns the seed of the current run.
func (g *Game) Seed() int64 {
	return g.seed
}

// Mode returns the simulation mode.
func (g *Game) Mode() sim.Mode {
	return g.mode
}

// Record summarizes the current run for persistence.
func (g *Game) Record() storage.RunRecord {
	r := storage.RunRecord{Mode: g.ID(), Seed: g.seed, Outcome: storage.OutcomeAbandoned}
	if g.game == nil {
		return r
	}
	s := g.game.State
	r.Score, r.Kills, r.Ticks = s.Score, s.Kills, s.Tick
	switch {
	case s.Extracted:
		r.Outcome = storage.OutcomeExtracted
		r.Cash = s.RunCash
	case s.GameOver:
		r.Outcome = storage.OutcomeDied
	}
	return r
}

// Feed returns the recent-events log.
func (g *Game) Feed() *Feed {
	return g.feed
}

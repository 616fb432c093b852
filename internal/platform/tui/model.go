package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gunzone/internal/config"
	"github.com/vovakirdan/gunzone/internal/core"
	"github.com/vovakirdan/gunzone/internal/registry"
	"github.com/vovakirdan/gunzone/internal/sim"
	"github.com/vovakirdan/gunzone/internal/storage"
)

// simHost is what the model needs beyond registry.Game to drive aim
// assist and persist runs.
type simHost interface {
	Sim() *sim.Game
	Mode() sim.Mode
	Config() *config.GameConfigs
	Record() storage.RunRecord
}

// SaveRun persists a finished run. Extractions bank their cash into the
// stash.
func SaveRun(store *storage.Store, cfg *config.GameConfigs, rec storage.RunRecord) error {
	if store == nil {
		return nil
	}
	if rec.Outcome == storage.OutcomeExtracted {
		_, err := store.BankRun(cfg, rec)
		return err
	}
	_, err := store.SaveRun(rec)
	return err
}

var (
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// Model is the Bubble Tea model for one game.
type Model struct {
	game       registry.Game
	host       simHost
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keys       GameKeyMap
	help       help.Model
	input      inputCollector
	gameState  core.GameState
	status     string
	quitting   bool
	backToMenu bool
	runSaved   bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	host, _ := game.(simHost)

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		game:   game,
		host:   host,
		screen: core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		store:  store,
		config: cfg,
		keys:   DefaultGameKeyMap(),
		help:   h,
		input:  newInputCollector(),
	}
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	ended := m.gameState.Ended()
	extraction := m.host != nil && m.host.Mode() == sim.ModeExtraction

	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, k.Shot):
		m.saveScreenshot()
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.Back):
		if ended || m.gameState.Paused {
			m.backToMenu = true
			return m, tea.Quit
		}
	case key.Matches(msg, k.Pause):
		m.game.Handle(core.ActionPause)
		m.input.reset()
	case key.Matches(msg, k.Restart):
		if ended {
			m.game.Handle(core.ActionRestart)
			m.input.reset()
			m.runSaved = false
			m.status = ""
		}

	case key.Matches(msg, k.Up):
		m.input.hold(holdUp)
	case key.Matches(msg, k.Down):
		m.input.hold(holdDown)
	case key.Matches(msg, k.Left):
		m.input.hold(holdLeft)
	case key.Matches(msg, k.Right):
		m.input.hold(holdRight)
	case key.Matches(msg, k.Fire):
		m.input.fire()
	case key.Matches(msg, k.Lock):
		m.input.toggleLock()
	case key.Matches(msg, k.Dodge):
		m.input.press(core.InputState{Dodge: true})
	case key.Matches(msg, k.Reload):
		m.input.press(core.InputState{Reload: true})
	case key.Matches(msg, k.Grenade):
		m.input.press(core.InputState{ThrowGrenade: true, ThrowPower: throwPower})
	case key.Matches(msg, k.Interact):
		m.input.press(core.InputState{Interact: true})
	case key.Matches(msg, k.Slot1):
		m.input.press(core.InputState{WeaponSlot1: true})
	case key.Matches(msg, k.Slot2):
		m.input.press(core.InputState{WeaponSlot2: true})
	case key.Matches(msg, k.Item1, k.Item2, k.Item3, k.Item4):
		m.input.press(itemInput(msg.String(), extraction))
	}

	return m, nil
}

// itemInput maps a number key to a heal. Arena uses the bandage counters;
// extraction uses the hotbar slot of the same number.
func itemInput(k string, extraction bool) core.InputState {
	slot := int(k[0] - '1')
	if extraction {
		return core.InputState{HotbarUse: core.Hotbar(slot)}
	}
	switch slot {
	case 0:
		return core.InputState{HealSmall: true}
	case 1:
		return core.InputState{HealLarge: true}
	}
	return core.InputState{}
}

// handleTick advances the simulation by one step.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var s *sim.GameState
	if m.host != nil && m.host.Sim() != nil {
		s = m.host.Sim().State
	}

	result := m.game.Step(m.input.next(s))
	m.gameState = result.State

	if m.gameState.Ended() && !m.runSaved {
		m.runSaved = true
		m.saveRun()
	}

	return m, tickCmd(m.config.TickRate)
}

func (m *Model) saveRun() {
	if m.store == nil || m.host == nil {
		return
	}
	rec := m.host.Record()
	if err := SaveRun(m.store, m.host.Config(), rec); err != nil {
		m.status = "could not save run: " + err.Error()
		return
	}
	if rec.Outcome == storage.OutcomeExtracted {
		m.status = fmt.Sprintf("$%d banked to stash", rec.Cash)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".gunzone", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the game with the key help below it.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	footer := m.help.View(m.keys)
	if m.status != "" {
		footer = statusStyle.Render(m.status) + "  " + footer
	}
	rows := m.config.ScreenH - lipgloss.Height(footer)
	m.screen.Resize(m.config.ScreenW, max(rows, 1))

	m.game.Render(m.screen)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(footer))
	return b.String()
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewModel(game, store, cfg),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

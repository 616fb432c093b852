package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gunzone/internal/games/gunzone"
	"github.com/vovakirdan/gunzone/internal/platform/tui"
	"github.com/vovakirdan/gunzone/internal/registry"
)

var flagWeapon string

var playCmd = &cobra.Command{
	Use:   "play <mode>",
	Short: "Play a mode",
	Long: `Start playing the specified mode in this terminal.

Controls:
  WASD/Arrows  - Move
  Space/F      - Fire (aim assist targets the nearest enemy)
  L            - Lock aim for headshots
  X            - Dodge
  R            - Reload (press again in the window for a fast reload)
  G            - Throw grenade
  E            - Open supply cache
  Z/C          - Primary/secondary weapon
  1-4          - Bandages (arena) or hotbar items (extraction)
  P/Esc        - Pause
  Enter        - Restart (after the run ends)
  B            - Back (paused or ended)
  Q/Ctrl+C     - Quit

Extraction runs start with the stash loadout. Cash is banked only when you
reach an exit.

Examples:
  gunzone play arena
  gunzone play arena --weapon shotgun
  gunzone play extraction --difficulty hard
  gunzone play arena --config ./my-game.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagWeapon, "weapon", "", "Arena starting weapon")
}

func runPlay(_ *cobra.Command, args []string) error {
	mode := args[0]
	if err := checkMode(mode); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagWeapon != "" {
		if _, ok := cfg.Weapon(flagWeapon); !ok {
			return fmt.Errorf("unknown weapon %q", flagWeapon)
		}
		gunzone.SetStartingWeapon(flagWeapon)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}
	applyStash(store, cfg)

	game, err := registry.Create(mode)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	logger.Debug("starting game", "mode", mode, "seed", flagSeed)
	if err := tui.Run(game, store, runtimeConfig(cfg)); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

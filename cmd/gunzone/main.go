// gunzone is a top-down shooter simulation with arena and extraction modes,
// played in the terminal, over SSH, or from a browser.
//
// Usage:
//
//	gunzone list                 - List modes, weapons and extraction zones
//	gunzone play <mode>          - Play a mode in the terminal
//	gunzone menu                 - Start menu to pick modes interactively
//	gunzone run                  - Headless autopilot run
//	gunzone replay <file>        - Re-simulate and verify a recording
//	gunzone serve                - Start the SSH and/or web server
//	gunzone scores [mode]        - Show the best runs
//	gunzone stash                - Show or change the persisted progression
//	gunzone config               - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: from config)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.gunzone/gunzone.db)
//	--config <path>       - Use a custom game.yaml
//	--difficulty <name>   - easy, normal, hard, fixed
//	--log-level <level>   - debug, info, warn, error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gunzone/internal/config"
	"github.com/vovakirdan/gunzone/internal/core"
	"github.com/vovakirdan/gunzone/internal/games/gunzone"
	"github.com/vovakirdan/gunzone/internal/inventory"
	"github.com/vovakirdan/gunzone/internal/registry"
	"github.com/vovakirdan/gunzone/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

// logger is configured by the root command before any subcommand runs.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "gunzone",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gunzone",
	Short: "Gunzone - a top-down shooter for the terminal",
	Long: `Gunzone is a deterministic top-down shooter with two modes:

  arena       - survive waves of sprinters and gunners for score
  extraction  - loot a walled map, collect cash and reach an exit

Available commands:
  list     - Show modes, weapons and extraction zones
  play     - Play a mode directly
  menu     - Interactive mode picker
  run      - Headless run driven by the autopilot
  replay   - Verify a recorded run
  serve    - Start SSH and web servers for remote play
  scores   - View the best runs
  stash    - View or spend banked cash
  config   - Print the effective configuration

Examples:
  gunzone list
  gunzone play arena
  gunzone play extraction --difficulty hard
  gunzone run --mode extraction --ticks 3600 --record run.gzr
  gunzone serve --ssh :23234 --http :8080`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.gunzone/gunzone.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(stashCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the effective game config from the global flags and
// hands it to the game adapter.
func loadConfig() (*config.GameConfigs, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return nil, err
		}
		config.ApplyPreset(cfg, preset)
	}
	gunzone.SetConfig(cfg)
	return cfg, nil
}

// openStore opens the database. Failure is logged and play continues
// without persistence.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// applyStash loads the progression and makes its loadout the extraction
// starting inventory. It returns the inventory handed to the adapter.
func applyStash(store *storage.Store, cfg *config.GameConfigs) *inventory.Inventory {
	if store == nil {
		return nil
	}
	p, err := store.LoadProgression(cfg)
	if err != nil {
		logger.Warn("could not load stash", "error", err)
		return nil
	}
	inv := inventory.FromKit(cfg, p.Kit(cfg.Extraction.StartingKit))
	gunzone.SetLoadout(inv)
	return inv
}

// runtimeConfig builds the host config for the current terminal.
func runtimeConfig(cfg *config.GameConfigs) core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
	if rc.TickRate <= 0 {
		rc.TickRate = cfg.TickRate
	}
	if rc.Seed == 0 {
		rc.Seed = time.Now().UnixNano()
	}
	return rc
}

// checkMode rejects IDs the registry does not know.
func checkMode(id string) error {
	if !registry.Exists(id) {
		return fmt.Errorf("unknown mode %q; run 'gunzone list' to see available modes", id)
	}
	return nil
}

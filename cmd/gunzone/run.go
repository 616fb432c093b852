package main

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gunzone/internal/autopilot"
	"github.com/vovakirdan/gunzone/internal/core"
	"github.com/vovakirdan/gunzone/internal/games/gunzone"
	"github.com/vovakirdan/gunzone/internal/inventory"
	"github.com/vovakirdan/gunzone/internal/platform/tui"
	"github.com/vovakirdan/gunzone/internal/registry"
	"github.com/vovakirdan/gunzone/internal/replay"
	"github.com/vovakirdan/gunzone/internal/sim"
)

var (
	flagRunMode  string
	flagTicks    int
	flagRecord   string
	flagNoSave   bool
	flagRunStash bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a headless game driven by the autopilot",
	Long: `Simulate a run without a terminal. The autopilot plays until the run
ends or the tick limit is reached.

The finished run is saved to the database; a successful extraction banks
its cash into the stash. --record writes a replay that 'gunzone replay'
can verify.

Examples:
  gunzone run --seed 42
  gunzone run --mode extraction --ticks 20000 --stash
  gunzone run --seed 7 --record seven.gzr --no-save`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagRunMode, "mode", "arena", "Mode to run")
	runCmd.Flags().IntVar(&flagTicks, "ticks", 36000, "Tick limit")
	runCmd.Flags().StringVar(&flagRecord, "record", "", "Write a replay to this file")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not save the run")
	runCmd.Flags().BoolVar(&flagRunStash, "stash", false, "Start extraction with the stash loadout")
	runCmd.Flags().StringVar(&flagWeapon, "weapon", "", "Arena starting weapon")
}

func runRun(_ *cobra.Command, _ []string) error {
	if err := checkMode(flagRunMode); err != nil {
		return err
	}
	if flagTicks <= 0 {
		return fmt.Errorf("--ticks must be positive")
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

	var loadout *inventory.Inventory
	if flagRunStash {
		loadout = applyStash(store, cfg)
	}

	created, err := registry.Create(flagRunMode)
	if err != nil {
		return err
	}
	game, ok := created.(*gunzone.Game)
	if !ok {
		return fmt.Errorf("mode %q cannot run headless", flagRunMode)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	game.Reset(core.RuntimeConfig{Seed: seed, TickRate: cfg.TickRate})
	if game.Mode() != sim.ModeExtraction {
		loadout = nil
	}

	rec := replay.NewRecorder(cfg, game.Mode(), seed, flagWeapon, loadout)
	counts := make(map[sim.EventType]int)
	game.Observe(func(_ uint64, in core.InputState, events []sim.GameEvent) {
		rec.Record(in)
		for _, ev := range events {
			counts[ev.Type()]++
		}
	})

	pilot := autopilot.New(cfg)
	start := time.Now()
	for range flagTicks {
		s := game.Sim().State
		if s.Ended() {
			break
		}
		game.Step(pilot.Next(s))
	}
	took := time.Since(start)

	s := game.Sim().State
	record := game.Record()

	fmt.Printf("Mode:     %s\n", record.Mode)
	fmt.Printf("Seed:     %d\n", record.Seed)
	fmt.Printf("Ticks:    %d (%s simulated in %s)\n", record.Ticks,
		time.Duration(float64(record.Ticks)*cfg.Dt()*float64(time.Second)).Round(time.Second),
		took.Round(time.Millisecond))
	fmt.Printf("Outcome:  %s\n", record.Outcome)
	fmt.Printf("Score:    %d\n", record.Score)
	fmt.Printf("Kills:    %d\n", record.Kills)
	if game.Mode() == sim.ModeExtraction {
		fmt.Printf("Cash:     $%d of $%d dropped\n", s.RunCash, s.CashSpawned)
	}
	fmt.Printf("Hash:     %016x\n", sim.Hash(s))

	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, string(t))
	}
	slices.Sort(types)
	fmt.Println()
	fmt.Println("Events:")
	for _, t := range types {
		fmt.Printf("  %-20s %d\n", t, counts[sim.EventType(t)])
	}

	if flagRecord != "" {
		if err := replay.Save(flagRecord, rec.Finish(s)); err != nil {
			return err
		}
		logger.Info("replay written", "path", flagRecord, "ticks", rec.Len())
	}

	if !flagNoSave && store != nil {
		if err := tui.SaveRun(store, cfg, record); err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
		logger.Debug("run saved", "outcome", record.Outcome)
	}
	return nil
}

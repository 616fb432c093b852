package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gunzone/internal/replay"
	"github.com/vovakirdan/gunzone/internal/sim"
)

var flagSnapshot string

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Re-simulate a recording and verify it",
	Long: `Load a replay written by 'gunzone run --record', re-simulate every tick
and compare the final state hash with the recorded one.

The replay must be played with the same effective config (--config and
--difficulty) it was recorded with.

Examples:
  gunzone replay seven.gzr
  gunzone replay seven.gzr --snapshot final.json`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&flagSnapshot, "snapshot", "", "Write the final state as JSON to this file")
}

func runReplay(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rec, err := replay.Load(args[0])
	if err != nil {
		return err
	}
	h := rec.Header
	fmt.Printf("Mode:     %s\n", h.Mode)
	fmt.Printf("Seed:     %d\n", h.Seed)
	fmt.Printf("Ticks:    %d\n", h.Ticks)
	fmt.Printf("Score:    %d\n", h.Score)
	if h.Weapon != "" {
		fmt.Printf("Weapon:   %s\n", h.Weapon)
	}

	res, verr := replay.Verify(rec, cfg)
	if res != nil && flagSnapshot != "" {
		snap, err := sim.GetSnapshot(res.Game.State)
		if err != nil {
			return err
		}
		if err := os.WriteFile(flagSnapshot, []byte(snap), 0o644); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
	}
	if verr != nil {
		return verr
	}

	fmt.Printf("Hash:     %016x (verified)\n", res.Hash)
	return nil
}

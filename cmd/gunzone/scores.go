package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gunzone/internal/platform/tui"
	"github.com/vovakirdan/gunzone/internal/registry"
	"github.com/vovakirdan/gunzone/internal/storage"
)

var (
	flagInteractive bool
	flagLimit       int
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show the best runs",
	Long: `Display the best runs for one mode, or for every mode with totals.

Examples:
  gunzone scores
  gunzone scores extraction --limit 20
  gunzone scores --interactive
  gunzone scores arena --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse runs in a table view")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show per mode")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every run of the mode")
}

func runScores(_ *cobra.Command, args []string) error {
	var modes []registry.GameInfo
	if len(args) == 1 {
		if err := checkMode(args[0]); err != nil {
			return err
		}
		game, err := registry.Create(args[0])
		if err != nil {
			return err
		}
		modes = []registry.GameInfo{{ID: game.ID(), Title: game.Title()}}
	} else {
		modes = registry.List()
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening runs database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if len(args) == 0 {
			return fmt.Errorf("--clear needs a mode")
		}
		if err := store.ClearRuns(args[0]); err != nil {
			return err
		}
		fmt.Printf("Cleared runs for %s.\n", args[0])
		return nil
	}

	if flagInteractive {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		_, err := tui.RunScoreboard(store, width, height)
		return err
	}

	stats, err := store.GetAllModesStats()
	if err != nil {
		return err
	}

	for i, m := range modes {
		if i > 0 {
			fmt.Println()
		}
		if err := printRuns(store, m, stats[m.ID]); err != nil {
			return err
		}
	}
	return nil
}

func printRuns(store *storage.Store, mode registry.GameInfo, stats *storage.ModeStats) error {
	runs, err := store.TopRuns(mode.ID, flagLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Best runs - %s\n", mode.Title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Printf("Play 'gunzone play %s' to set the first one!\n", mode.ID)
		return nil
	}

	fmt.Printf("  %-4s  %-7s  %-5s  %-6s  %-9s  %s\n", "Rank", "Score", "Kills", "Cash", "Outcome", "Date")
	fmt.Printf("  %-4s  %-7s  %-5s  %-6s  %-9s  %s\n", "----", "-----", "-----", "----", "-------", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-7d  %-5d  $%-5d  %-9s  %s\n",
			i+1, r.Score, r.Kills, r.Cash, r.Outcome, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats != nil {
		fmt.Println()
		fmt.Printf("Runs: %d  Extracted: %d  Best: %d  Average: %.0f  Cash banked: $%d\n",
			stats.RunsCount, stats.Extracted, stats.HighScore, stats.AvgScore, stats.TotalCash)
	}
	return nil
}

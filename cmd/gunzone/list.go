package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gunzone/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List modes, weapons and extraction zones",
	Long:  `Shows the registered modes and the weapons and map areas of the effective config.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	modes := registry.List()
	if len(modes) == 0 {
		fmt.Println("No modes available.")
		return nil
	}

	fmt.Println("Modes:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, g := range modes {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range modes {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}

	names := make([]string, 0, len(cfg.Weapons))
	for name := range cfg.Weapons {
		names = append(names, name)
	}
	slices.Sort(names)

	fmt.Println()
	fmt.Println("Weapons:")
	fmt.Println()
	fmt.Printf("  %-12s  %6s  %5s  %4s  %s\n", "Name", "Damage", "Rate", "Mag", "Ammo")
	fmt.Printf("  %-12s  %6s  %5s  %4s  %s\n", "----", "------", "----", "---", "----")
	for _, name := range names {
		w := cfg.Weapons[name]
		ammo := w.AmmoItem
		if ammo == "" {
			ammo = "-"
		}
		fmt.Printf("  %-12s  %6.0f  %5.1f  %4d  %s\n", name, w.Damage, w.FireRate, w.MagazineSize, ammo)
	}

	ex := cfg.Extraction
	fmt.Println()
	fmt.Println("Extraction zones:")
	fmt.Println()
	for _, z := range ex.Zones {
		fmt.Printf("  %-12s  %d enemies at start\n", z.ID, z.InitialEnemies)
	}
	for i, r := range ex.ExtractionZones {
		c := r.Center()
		fmt.Printf("  exit %-7d  (%.0f, %.0f)\n", i+1, c.X, c.Y)
	}
	fmt.Printf("  %d supply caches, %d trigger regions\n", len(ex.SupplyCaches), len(ex.TriggerRegions))

	fmt.Println()
	fmt.Println("Run 'gunzone play <id>' to play a mode.")
	return nil
}

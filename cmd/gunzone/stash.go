package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gunzone/internal/config"
	"github.com/vovakirdan/gunzone/internal/storage"
)

// upgradeStep is the price of the first level of any upgrade.
const upgradeStep = 100

var stashCmd = &cobra.Command{
	Use:   "stash",
	Short: "Show the persisted progression",
	Long: `Show the stash: banked cash, owned gear, ammo stock and the loadout
extraction runs start with.

Cash is earned only by extracting. Spend it with 'stash buy' and pick the
loadout with 'stash equip'.

Examples:
  gunzone stash
  gunzone stash buy smg
  gunzone stash buy ammo_9mm
  gunzone stash equip primary smg`,
	Args: cobra.NoArgs,
	RunE: runStash,
}

var stashBuyCmd = &cobra.Command{
	Use:   "buy <item>",
	Short: "Buy a weapon, armor or an ammo stack",
	Args:  cobra.ExactArgs(1),
	RunE:  runStashBuy,
}

var stashEquipCmd = &cobra.Command{
	Use:   "equip <primary|secondary|armor> <item>",
	Short: "Put an owned item into the loadout",
	Args:  cobra.ExactArgs(2),
	RunE:  runStashEquip,
}

var stashUpgradeCmd = &cobra.Command{
	Use:   "upgrade <name>",
	Short: "Raise an upgrade level",
	Long:  `Raise an upgrade level by one. Level n costs $100 times n.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runStashUpgrade,
}

var stashResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the stash to the starting kit",
	Args:  cobra.NoArgs,
	RunE:  runStashReset,
}

func init() {
	stashCmd.AddCommand(stashBuyCmd)
	stashCmd.AddCommand(stashEquipCmd)
	stashCmd.AddCommand(stashUpgradeCmd)
	stashCmd.AddCommand(stashResetCmd)
}

// withStash opens the database and the config for a stash command.
func withStash(fn func(*storage.Store, *config.GameConfigs) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening runs database: %w", err)
	}
	defer store.Close()
	return fn(store, cfg)
}

func runStash(_ *cobra.Command, _ []string) error {
	return withStash(func(store *storage.Store, cfg *config.GameConfigs) error {
		p, err := store.LoadProgression(cfg)
		if err != nil {
			return err
		}
		printStash(p, cfg)
		return nil
	})
}

func runStashBuy(_ *cobra.Command, args []string) error {
	id := args[0]
	return withStash(func(store *storage.Store, cfg *config.GameConfigs) error {
		def, ok := cfg.Item(id)
		if !ok {
			return fmt.Errorf("%w: %s", storage.ErrUnknownItem, id)
		}
		if def.Price <= 0 {
			return fmt.Errorf("%s is not for sale", def.Name)
		}
		p, err := store.UpdateProgression(cfg, func(p *storage.Progression) error {
			if def.Kind != "ammo" && p.Owns(id) {
				return fmt.Errorf("%s is already in the stash", def.Name)
			}
			return p.Purchase(cfg, id, def.Price)
		})
		if err != nil {
			return err
		}
		fmt.Printf("Bought %s for $%d. $%d left.\n", def.Name, def.Price, p.Cash)
		return nil
	})
}

func runStashEquip(_ *cobra.Command, args []string) error {
	slot, id := args[0], args[1]
	return withStash(func(store *storage.Store, cfg *config.GameConfigs) error {
		def, ok := cfg.Item(id)
		if !ok {
			return fmt.Errorf("%w: %s", storage.ErrUnknownItem, id)
		}
		wantKind := "weapon"
		if slot == "armor" {
			wantKind = "armor"
		}
		if def.Kind != wantKind {
			return fmt.Errorf("%s does not fit the %s slot", def.Name, slot)
		}
		_, err := store.UpdateProgression(cfg, func(p *storage.Progression) error {
			return p.Equip(slot, id)
		})
		if err != nil {
			return err
		}
		fmt.Printf("Equipped %s as %s.\n", def.Name, slot)
		return nil
	})
}

func runStashUpgrade(_ *cobra.Command, args []string) error {
	name := args[0]
	return withStash(func(store *storage.Store, cfg *config.GameConfigs) error {
		var price int
		p, err := store.UpdateProgression(cfg, func(p *storage.Progression) error {
			price = upgradeStep * (p.Upgrades[name] + 1)
			return p.Upgrade(name, price)
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s is now level %d for $%d. $%d left.\n", name, p.Upgrades[name], price, p.Cash)
		return nil
	})
}

func runStashReset(_ *cobra.Command, _ []string) error {
	return withStash(func(store *storage.Store, cfg *config.GameConfigs) error {
		if err := store.SaveProgression(storage.DefaultProgression(cfg)); err != nil {
			return err
		}
		fmt.Println("Stash reset to the starting kit.")
		return nil
	})
}

func printStash(p *storage.Progression, cfg *config.GameConfigs) {
	name := func(id string) string {
		if def, ok := cfg.Item(id); ok {
			return def.Name
		}
		if id == "" {
			return "-"
		}
		return id
	}
	names := func(ids []string) string {
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = name(id)
		}
		return strings.Join(out, ", ")
	}

	fmt.Printf("Cash:       $%d (%d runs banked)\n", p.Cash, p.RunsBanked)
	fmt.Printf("Loadout:    %s / %s / %s\n", name(p.Loadout.Primary), name(p.Loadout.Secondary), name(p.Loadout.Armor))
	fmt.Printf("Weapons:    %s\n", names(p.OwnedWeapons))
	fmt.Printf("Armor:      %s\n", names(p.OwnedArmor))

	ammo := make([]string, 0, len(p.Ammo))
	for id := range p.Ammo {
		ammo = append(ammo, id)
	}
	slices.Sort(ammo)
	fmt.Println("Ammo:")
	for _, id := range ammo {
		fmt.Printf("  %-14s %d\n", name(id), p.Ammo[id])
	}

	if len(p.Upgrades) > 0 {
		ups := make([]string, 0, len(p.Upgrades))
		for u := range p.Upgrades {
			ups = append(ups, u)
		}
		slices.Sort(ups)
		fmt.Println("Upgrades:")
		for _, u := range ups {
			fmt.Printf("  %-14s %d\n", u, p.Upgrades[u])
		}
	}

	fmt.Println()
	fmt.Println("For sale:")
	for _, it := range cfg.Items {
		if it.Price <= 0 {
			continue
		}
		owned := ""
		if it.Kind != "ammo" && p.Owns(it.ID) {
			owned = " (owned)"
		}
		fmt.Printf("  %-14s %-12s $%d%s\n", it.ID, it.Kind, it.Price, owned)
	}
}

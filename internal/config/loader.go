package config

import (
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "game.yaml"

// Load loads the game configuration.
// Search order: customPath -> ~/.gunzone/configs/game.yaml -> ./configs/game.yaml -> embedded default.
// A found file overlays the embedded defaults, so partial files only need the
// keys they change. Map entries (weapons, heal tiers) are replaced whole.
func Load(customPath string) (*GameConfigs, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := Validate(cfg); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then the local configs directory.
	for _, path := range []string{userConfigPath(configFile), filepath.Join("configs", configFile)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		candidate := Default()
		if err := yaml.Unmarshal(data, candidate); err != nil {
			continue
		}
		if Validate(candidate) != nil {
			continue
		}
		return candidate, nil
	}

	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gunzone", "configs", filename)
}

// Validate reports every value that would make the simulation misbehave.
func Validate(cfg *GameConfigs) error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(cfg.TickRate > 0, "tick_rate must be positive, got %d", cfg.TickRate)
	check(cfg.Arena.Width > 0 && cfg.Arena.Height > 0, "arena dimensions must be positive")
	check(cfg.Extraction.Width > 0 && cfg.Extraction.Height > 0, "extraction dimensions must be positive")
	check(cfg.Player.Radius > 0, "player.radius must be positive")
	check(cfg.Player.MaxHP > 0, "player.max_hp must be positive")
	check(cfg.Player.ArmorAbsorb >= 0 && cfg.Player.ArmorAbsorb <= 1, "player.armor_absorb must be in [0, 1]")
	_, ok := cfg.Weapons[cfg.Player.StartingWeapon]
	check(ok, "player.starting_weapon %q is not a configured weapon", cfg.Player.StartingWeapon)

	for name, w := range cfg.Weapons {
		check(w.MagazineSize > 0, "weapons.%s.magazine_size must be positive", name)
		check(w.PelletsPerShot > 0, "weapons.%s.pellets_per_shot must be positive", name)
		check(w.Penetration > 0, "weapons.%s.penetration must be positive", name)
		check(w.ReloadTicks > 0, "weapons.%s.reload_ticks must be positive", name)
	}
	for name, tier := range cfg.Heal.Tiers {
		check(tier.TimeTicks > 0, "heal.tiers.%s.time_ticks must be positive", name)
	}
	check(windowOK(cfg.Heal.ActiveStart, cfg.Heal.ActiveEnd, cfg.Heal.PerfectStart, cfg.Heal.PerfectEnd),
		"heal windows must satisfy 0 <= active_start <= perfect_start <= perfect_end <= active_end <= 1")
	check(windowOK(cfg.Reload.ActiveStart, cfg.Reload.ActiveEnd, cfg.Reload.PerfectStart, cfg.Reload.PerfectEnd),
		"reload windows must satisfy 0 <= active_start <= perfect_start <= perfect_end <= active_end <= 1")
	check(cfg.Spawner.MinimumInterval > 0, "spawner.minimum_interval must be positive")
	check(cfg.Cash.Denomination > 0, "cash.denomination must be positive")

	seen := make(map[string]bool)
	for _, it := range cfg.Items {
		check(!seen[it.ID], "items: duplicate id %q", it.ID)
		seen[it.ID] = true
		check(it.MaxStack > 0, "items.%s.max_stack must be positive", it.ID)
	}

	return errors.Join(errs...)
}

func windowOK(activeStart, activeEnd, perfectStart, perfectEnd float64) bool {
	return 0 <= activeStart && activeStart <= perfectStart && perfectStart <= perfectEnd &&
		perfectEnd <= activeEnd && activeEnd <= 1
}

// Digest fingerprints the effective configuration. Replays store it to
// detect tuning changes between recording and playback.
func Digest(cfg *GameConfigs) uint64 {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}

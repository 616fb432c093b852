package storage

import (
	"errors"
	"testing"

	"github.com/vovakirdan/gunzone/internal/config"
)

func TestLoadProgressionDefaults(t *testing.T) {
	store := openTestStore(t)
	cfg := config.Default()

	p, err := store.LoadProgression(cfg)
	if err != nil {
		t.Fatalf("LoadProgression() failed: %v", err)
	}
	if p.Cash != 0 {
		t.Errorf("Cash = %d, expected 0", p.Cash)
	}
	if !p.Owns("rifle") || !p.Owns("pistol") || !p.Owns("vest_light") {
		t.Errorf("starting kit not owned: %+v", p)
	}
	if p.Ammo["ammo_762"] != 25 {
		t.Errorf("Ammo[ammo_762] = %d, expected 25", p.Ammo["ammo_762"])
	}
	if _, ok := p.Ammo["bandage_small"]; ok {
		t.Error("bandages are not ammo stock")
	}
}

func TestLoadProgressionCorruptRow(t *testing.T) {
	store := openTestStore(t)
	cfg := config.Default()

	if _, err := store.db.Exec("INSERT INTO progression (save_id, data) VALUES (?, ?)", SaveID, "{not json"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	p, err := store.LoadProgression(cfg)
	if err != nil {
		t.Fatalf("LoadProgression() failed: %v", err)
	}
	if p.Loadout.Primary != "rifle" {
		t.Errorf("corrupt save should fall back to defaults, got %+v", p)
	}
}

func TestSaveAndLoadProgression(t *testing.T) {
	store := openTestStore(t)
	cfg := config.Default()

	p := DefaultProgression(cfg)
	p.Cash = 75
	p.Upgrades["max_hp"] = 2
	if err := store.SaveProgression(p); err != nil {
		t.Fatalf("SaveProgression() failed: %v", err)
	}
	p.Cash = 90
	if err := store.SaveProgression(p); err != nil {
		t.Fatalf("SaveProgression() overwrite failed: %v", err)
	}

	got, err := store.LoadProgression(cfg)
	if err != nil {
		t.Fatalf("LoadProgression() failed: %v", err)
	}
	if got.Cash != 90 || got.Upgrades["max_hp"] != 2 {
		t.Errorf("LoadProgression() = %+v", got)
	}
}

func TestBankRun(t *testing.T) {
	store := openTestStore(t)
	cfg := config.Default()

	p, err := store.BankRun(cfg, RunRecord{Mode: "extraction", Score: 50, Cash: 35, Outcome: OutcomeExtracted})
	if err != nil {
		t.Fatalf("BankRun() failed: %v", err)
	}
	if p.Cash != 35 || p.RunsBanked != 1 {
		t.Errorf("after extraction = %+v", p)
	}

	p, err = store.BankRun(cfg, RunRecord{Mode: "extraction", Score: 10, Cash: 60, Outcome: OutcomeDied})
	if err != nil {
		t.Fatalf("BankRun() failed: %v", err)
	}
	if p.Cash != 35 {
		t.Errorf("a death banks nothing, Cash = %d", p.Cash)
	}

	runs, _ := store.TopRuns("extraction", 10)
	if len(runs) != 2 {
		t.Errorf("Expected 2 recorded runs, got %d", len(runs))
	}
	saved, _ := store.LoadProgression(cfg)
	if saved.Cash != 35 {
		t.Errorf("stored Cash = %d, expected 35", saved.Cash)
	}
}

func TestPurchaseAndEquip(t *testing.T) {
	cfg := config.Default()
	p := DefaultProgression(cfg)
	p.Cash = 100

	if err := p.Purchase(cfg, "shotgun", 150); !errors.Is(err, ErrInsufficientCash) {
		t.Errorf("Purchase() error = %v, expected ErrInsufficientCash", err)
	}
	if err := p.Equip("primary", "shotgun"); !errors.Is(err, ErrNotOwned) {
		t.Errorf("Equip() error = %v, expected ErrNotOwned", err)
	}
	if err := p.Purchase(cfg, "shotgun", 60); err != nil {
		t.Fatalf("Purchase() failed: %v", err)
	}
	if p.Cash != 40 || !p.Owns("shotgun") {
		t.Errorf("after purchase = %+v", p)
	}
	if err := p.Purchase(cfg, "ammo_12g", 10); err != nil {
		t.Fatalf("Purchase(ammo) failed: %v", err)
	}
	if p.Ammo["ammo_12g"] != 24 {
		t.Errorf("Ammo[ammo_12g] = %d, expected 24", p.Ammo["ammo_12g"])
	}
	if err := p.Purchase(cfg, "dog_tags", 1); err == nil {
		t.Error("valuables are not for sale")
	}
	if err := p.Purchase(cfg, "laser", 1); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("Purchase(laser) error = %v", err)
	}
	if err := p.Equip("primary", "shotgun"); err != nil {
		t.Fatalf("Equip() failed: %v", err)
	}

	kit := p.Kit(cfg.Extraction.StartingKit)
	if kit.Primary != "shotgun" || kit.Secondary != "pistol" {
		t.Errorf("Kit() weapons = %s/%s", kit.Primary, kit.Secondary)
	}
	counts := map[string]int{}
	for _, g := range kit.Backpack {
		counts[g.Item] = g.Count
	}
	expected := map[string]int{"ammo_9mm": 48, "ammo_762": 25, "ammo_12g": 24, "bandage_small": 3, "bandage_large": 1}
	for id, n := range expected {
		if counts[id] != n {
			t.Errorf("Kit() %s = %d, expected %d", id, counts[id], n)
		}
	}
}

func TestUpgrade(t *testing.T) {
	p := DefaultProgression(config.Default())
	if err := p.Upgrade("max_hp", 10); !errors.Is(err, ErrInsufficientCash) {
		t.Errorf("Upgrade() error = %v", err)
	}
	p.Cash = 25
	if err := p.Upgrade("max_hp", 10); err != nil {
		t.Fatalf("Upgrade() failed: %v", err)
	}
	if p.Upgrades["max_hp"] != 1 || p.Cash != 15 {
		t.Errorf("after upgrade = %+v", p)
	}
}

func TestUpdateProgression(t *testing.T) {
	store := openTestStore(t)
	cfg := config.Default()

	if _, err := store.BankRun(cfg, RunRecord{Mode: "extraction", Score: 10, Cash: 300, Outcome: OutcomeExtracted}); err != nil {
		t.Fatalf("BankRun() failed: %v", err)
	}

	p, err := store.UpdateProgression(cfg, func(p *Progression) error {
		return p.Purchase(cfg, "smg", 120)
	})
	if err != nil {
		t.Fatalf("UpdateProgression() failed: %v", err)
	}
	if p.Cash != 180 || !p.Owns("smg") {
		t.Errorf("after update = %+v", p)
	}

	// A failing update writes nothing.
	_, err = store.UpdateProgression(cfg, func(p *Progression) error {
		p.Cash = 0
		return p.Purchase(cfg, "machinegun", 350)
	})
	if !errors.Is(err, ErrInsufficientCash) {
		t.Errorf("UpdateProgression() error = %v, expected %v", err, ErrInsufficientCash)
	}

	loaded, err := store.LoadProgression(cfg)
	if err != nil {
		t.Fatalf("LoadProgression() failed: %v", err)
	}
	if loaded.Cash != 180 {
		t.Errorf("Cash = %d, expected 180", loaded.Cash)
	}
}

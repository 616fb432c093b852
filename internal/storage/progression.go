package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/vovakirdan/gunzone/internal/config"
)

// SaveID is the fixed key of the progression row.
const SaveID = "gunzone-save-v1"

var (
	ErrInsufficientCash = errors.New("storage: insufficient cash")
	ErrNotOwned         = errors.New("storage: item not owned")
	ErrUnknownItem      = errors.New("storage: unknown item")
)

// Loadout is the gear carried into the next extraction run.
type Loadout struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Armor     string `json:"armor"`
}

// Progression is everything that survives between runs.
type Progression struct {
	Cash         int            `json:"cash"`
	OwnedWeapons []string       `json:"owned_weapons"`
	OwnedArmor   []string       `json:"owned_armor"`
	Upgrades     map[string]int `json:"upgrades"`
	Ammo         map[string]int `json:"ammo"`
	Loadout      Loadout        `json:"loadout"`
	RunsBanked   int            `json:"runs_banked"`
}

// DefaultProgression is a fresh save built from the starting kit.
func DefaultProgression(cfg *config.GameConfigs) *Progression {
	kit := cfg.Extraction.StartingKit
	p := &Progression{
		Upgrades: map[string]int{},
		Ammo:     map[string]int{},
		Loadout:  Loadout{Primary: kit.Primary, Secondary: kit.Secondary, Armor: kit.Armor},
	}
	for _, w := range []string{kit.Primary, kit.Secondary} {
		if w != "" && !slices.Contains(p.OwnedWeapons, w) {
			p.OwnedWeapons = append(p.OwnedWeapons, w)
		}
	}
	if kit.Armor != "" {
		p.OwnedArmor = append(p.OwnedArmor, kit.Armor)
	}
	for _, g := range kit.Backpack {
		if def, ok := cfg.Item(g.Item); ok && def.Kind == "ammo" {
			p.Ammo[g.Item] += g.Count
		}
	}
	return p
}

// Owns reports whether a weapon or armor item is in the stash.
func (p *Progression) Owns(id string) bool {
	return slices.Contains(p.OwnedWeapons, id) || slices.Contains(p.OwnedArmor, id)
}

// Purchase buys an item with stash cash. Weapons and armor are owned once;
// ammo adds one full stack to the stock.
func (p *Progression) Purchase(cfg *config.GameConfigs, id string, price int) error {
	def, ok := cfg.Item(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	if price > p.Cash {
		return ErrInsufficientCash
	}

	switch def.Kind {
	case "weapon":
		if p.Owns(id) {
			return nil
		}
		p.OwnedWeapons = append(p.OwnedWeapons, id)
	case "armor":
		if p.Owns(id) {
			return nil
		}
		p.OwnedArmor = append(p.OwnedArmor, id)
	case "ammo":
		p.Ammo[id] += def.MaxStack
	default:
		return fmt.Errorf("storage: %s cannot be bought", id)
	}
	p.Cash -= price
	return nil
}

// Upgrade spends cash to raise an upgrade level by one.
func (p *Progression) Upgrade(name string, price int) error {
	if price > p.Cash {
		return ErrInsufficientCash
	}
	p.Cash -= price
	p.Upgrades[name]++
	return nil
}

// Equip puts an owned item into a loadout slot ("primary", "secondary" or "armor").
func (p *Progression) Equip(slot, id string) error {
	if id != "" && !p.Owns(id) {
		return fmt.Errorf("%w: %s", ErrNotOwned, id)
	}
	switch slot {
	case "primary":
		p.Loadout.Primary = id
	case "secondary":
		p.Loadout.Secondary = id
	case "armor":
		p.Loadout.Armor = id
	default:
		return fmt.Errorf("storage: unknown slot %q", slot)
	}
	return nil
}

// Kit applies the stash loadout and ammo stock to a base kit.
func (p *Progression) Kit(base config.KitConfig) config.KitConfig {
	kit := base
	if p.Loadout.Primary != "" {
		kit.Primary = p.Loadout.Primary
	}
	if p.Loadout.Secondary != "" {
		kit.Secondary = p.Loadout.Secondary
	}
	if p.Loadout.Armor != "" {
		kit.Armor = p.Loadout.Armor
	}

	kit.Backpack = nil
	seen := map[string]bool{}
	for _, g := range base.Backpack {
		if n, ok := p.Ammo[g.Item]; ok {
			seen[g.Item] = true
			if n > 0 {
				kit.Backpack = append(kit.Backpack, config.ItemGrant{Item: g.Item, Count: n})
			}
			continue
		}
		kit.Backpack = append(kit.Backpack, g)
	}
	ids := make([]string, 0, len(p.Ammo))
	for id := range p.Ammo {
		if !seen[id] && p.Ammo[id] > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	for _, id := range ids {
		kit.Backpack = append(kit.Backpack, config.ItemGrant{Item: id, Count: p.Ammo[id]})
	}
	return kit
}

func (p *Progression) normalize() {
	if p.Upgrades == nil {
		p.Upgrades = map[string]int{}
	}
	if p.Ammo == nil {
		p.Ammo = map[string]int{}
	}
	if p.Cash < 0 {
		p.Cash = 0
	}
}

// querier is the part of *sql.DB and *sql.Tx used for reads.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

// LoadProgression reads the save. A missing or unreadable row yields the
// defaults.
func (s *Store) LoadProgression(cfg *config.GameConfigs) (*Progression, error) {
	return loadProgression(s.db, cfg)
}

func loadProgression(db querier, cfg *config.GameConfigs) (*Progression, error) {
	var data string
	err := db.QueryRow("SELECT data FROM progression WHERE save_id = ?", SaveID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultProgression(cfg), nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load progression: %w", err)
	}

	var p Progression
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return DefaultProgression(cfg), nil
	}
	p.normalize()
	return &p, nil
}

// SaveProgression writes the save, replacing the previous one.
func (s *Store) SaveProgression(p *Progression) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveProgression(s.db, p)
}

// UpdateProgression loads the save, applies fn and writes the result in one
// transaction. Nothing is written when fn fails.
func (s *Store) UpdateProgression(cfg *config.GameConfigs, fn func(*Progression) error) (*Progression, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := loadProgression(tx, cfg)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := saveProgression(tx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("storage: cannot commit: %w", err)
	}
	return p, nil
}

func saveProgression(db execer, p *Progression) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("storage: cannot encode progression: %w", err)
	}
	_, err = db.Exec(
		`INSERT INTO progression (save_id, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(save_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		SaveID, string(data),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save progression: %w", err)
	}
	return nil
}

// BankRun records a finished run and, when it extracted, moves its cash into
// the stash. Both happen in one transaction.
func (s *Store) BankRun(cfg *config.GameConfigs, r RunRecord) (*Progression, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := saveRun(tx, r); err != nil {
		return nil, err
	}
	p, err := loadProgression(tx, cfg)
	if err != nil {
		return nil, err
	}
	if r.Outcome == OutcomeExtracted {
		p.Cash += r.Cash
		p.RunsBanked++
	}
	if err := saveProgression(tx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("storage: cannot commit: %w", err)
	}
	return p, nil
}

// Package inventory implements the extraction loadout: equipment slots, a
// fixed-size backpack of stackable items, and a hotbar of item shortcuts.
//
// Slots are addressed by stable indices; an empty slot is a nil *Stack.
// Operations never reorder other slots.
package inventory

import (
	"errors"

	"github.com/vovakirdan/gunzone/internal/config"
)

// Item kinds understood by the simulation.
const (
	KindWeapon   = "weapon"
	KindArmor    = "armor"
	KindAmmo     = "ammo"
	KindBandage  = "bandage"
	KindValuable = "valuable"
)

// DefaultBackpackSize and DefaultHotbarSize match the extraction loadout screen.
const (
	DefaultBackpackSize = 20
	DefaultHotbarSize   = 4
)

var (
	ErrOutOfRange   = errors.New("inventory: slot index out of range")
	ErrSlotEmpty    = errors.New("inventory: slot is empty")
	ErrUnknownItem  = errors.New("inventory: unknown item")
	ErrIncompatible = errors.New("inventory: item does not fit that slot")
	ErrNotEnough    = errors.New("inventory: not enough items")
	ErrNoRoom       = errors.New("inventory: backpack is full")
)

// EquipSlot names an equipment position.
type EquipSlot string

const (
	SlotPrimary   EquipSlot = "primary"
	SlotSecondary EquipSlot = "secondary"
	SlotArmor     EquipSlot = "armor"
)

// Catalog resolves item IDs to their definitions.
type Catalog interface {
	Item(id string) (config.ItemConfig, bool)
}

// Stack is a quantity of one item.
type Stack struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// Equipment holds the worn and wielded items.
type Equipment struct {
	Primary   *Stack `json:"primary"`
	Secondary *Stack `json:"secondary"`
	Armor     *Stack `json:"armor"`
}

// Inventory is the player's extraction loadout.
type Inventory struct {
	Equipment Equipment `json:"equipment"`
	Backpack  []*Stack  `json:"backpack"`
	Hotbar    []string  `json:"hotbar"` // item IDs, "" for an empty shortcut
}

// New creates an empty inventory with the given slot counts.
func New(backpackSize, hotbarSize int) *Inventory {
	return &Inventory{
		Backpack: make([]*Stack, backpackSize),
		Hotbar:   make([]string, hotbarSize),
	}
}

// FromKit builds the default extraction loadout. Unknown items in the kit are
// skipped.
func FromKit(cat Catalog, kit config.KitConfig) *Inventory {
	inv := New(DefaultBackpackSize, DefaultHotbarSize)
	equip := func(slot EquipSlot, id string) {
		if id == "" {
			return
		}
		def, ok := cat.Item(id)
		if !ok || !fits(def, slot) {
			return
		}
		*inv.equipment(slot) = &Stack{Item: id, Count: 1}
	}
	equip(SlotPrimary, kit.Primary)
	equip(SlotSecondary, kit.Secondary)
	equip(SlotArmor, kit.Armor)

	for _, g := range kit.Backpack {
		_, _ = inv.Add(cat, g.Item, g.Count)
	}
	for i, id := range kit.Hotbar {
		if i < len(inv.Hotbar) {
			inv.Hotbar[i] = id
		}
	}
	return inv
}

// Clone returns a deep copy.
func (inv *Inventory) Clone() *Inventory {
	if inv == nil {
		return nil
	}
	c := &Inventory{
		Equipment: Equipment{
			Primary:   cloneStack(inv.Equipment.Primary),
			Secondary: cloneStack(inv.Equipment.Secondary),
			Armor:     cloneStack(inv.Equipment.Armor),
		},
		Backpack: make([]*Stack, len(inv.Backpack)),
		Hotbar:   append([]string(nil), inv.Hotbar...),
	}
	for i, s := range inv.Backpack {
		c.Backpack[i] = cloneStack(s)
	}
	return c
}

func cloneStack(s *Stack) *Stack {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Add places count units of an item into the backpack, topping up existing
// stacks in slot order before filling empty slots. It returns the number of
// units that did not fit; ErrNoRoom accompanies a non-zero remainder.
func (inv *Inventory) Add(cat Catalog, id string, count int) (int, error) {
	def, ok := cat.Item(id)
	if !ok {
		return count, ErrUnknownItem
	}
	if count <= 0 {
		return 0, nil
	}
	maxStack := max(def.MaxStack, 1)

	for _, s := range inv.Backpack {
		if count == 0 {
			break
		}
		if s == nil || s.Item != id || s.Count >= maxStack {
			continue
		}
		n := min(maxStack-s.Count, count)
		s.Count += n
		count -= n
	}
	for i, s := range inv.Backpack {
		if count == 0 {
			break
		}
		if s != nil {
			continue
		}
		n := min(maxStack, count)
		inv.Backpack[i] = &Stack{Item: id, Count: n}
		count -= n
	}
	if count > 0 {
		return count, ErrNoRoom
	}
	return 0, nil
}

// Count returns the total units of an item across the backpack.
func (inv *Inventory) Count(id string) int {
	total := 0
	for _, s := range inv.Backpack {
		if s != nil && s.Item == id {
			total += s.Count
		}
	}
	return total
}

// Consume removes count units of an item, draining the last matching stacks
// first so the front of the backpack keeps its full stacks. Nothing is
// removed when the backpack holds fewer than count.
func (inv *Inventory) Consume(id string, count int) error {
	if count <= 0 {
		return nil
	}
	if inv.Count(id) < count {
		return ErrNotEnough
	}
	for i := len(inv.Backpack) - 1; i >= 0 && count > 0; i-- {
		s := inv.Backpack[i]
		if s == nil || s.Item != id {
			continue
		}
		n := min(s.Count, count)
		s.Count -= n
		count -= n
		if s.Count == 0 {
			inv.Backpack[i] = nil
		}
	}
	return nil
}

// Take removes up to count units and returns how many were removed.
func (inv *Inventory) Take(id string, count int) int {
	n := min(inv.Count(id), count)
	if n <= 0 {
		return 0
	}
	_ = inv.Consume(id, n)
	return n
}

// Split moves count units from the stack at index into the first empty slot
// and returns that slot's index.
func (inv *Inventory) Split(index, count int) (int, error) {
	s, err := inv.at(index)
	if err != nil {
		return -1, err
	}
	if count <= 0 || count >= s.Count {
		return -1, ErrNotEnough
	}
	for i, other := range inv.Backpack {
		if other == nil {
			inv.Backpack[i] = &Stack{Item: s.Item, Count: count}
			s.Count -= count
			return i, nil
		}
	}
	return -1, ErrNoRoom
}

// Move moves the stack at from onto to. Matching items merge up to the stack
// limit; anything else swaps places.
func (inv *Inventory) Move(cat Catalog, from, to int) error {
	src, err := inv.at(from)
	if err != nil {
		return err
	}
	if to < 0 || to >= len(inv.Backpack) {
		return ErrOutOfRange
	}
	if from == to {
		return nil
	}

	dst := inv.Backpack[to]
	if dst != nil && dst.Item == src.Item {
		def, ok := cat.Item(src.Item)
		if !ok {
			return ErrUnknownItem
		}
		n := min(max(def.MaxStack, 1)-dst.Count, src.Count)
		if n > 0 {
			dst.Count += n
			src.Count -= n
			if src.Count == 0 {
				inv.Backpack[from] = nil
			}
			return nil
		}
	}
	inv.Backpack[from], inv.Backpack[to] = dst, src
	return nil
}

// Equip moves a single item from the backpack into an equipment slot. Any
// previously equipped item takes its place in the backpack.
func (inv *Inventory) Equip(cat Catalog, index int, slot EquipSlot) error {
	s, err := inv.at(index)
	if err != nil {
		return err
	}
	def, ok := cat.Item(s.Item)
	if !ok {
		return ErrUnknownItem
	}
	target := inv.equipment(slot)
	if target == nil || !fits(def, slot) {
		return ErrIncompatible
	}
	if s.Count > 1 {
		// Only whole single items are worn.
		return ErrIncompatible
	}
	inv.Backpack[index], *target = *target, s
	return nil
}

// Unequip returns an equipped item to the first free backpack slot.
func (inv *Inventory) Unequip(slot EquipSlot) error {
	target := inv.equipment(slot)
	if target == nil {
		return ErrIncompatible
	}
	if *target == nil {
		return ErrSlotEmpty
	}
	for i, s := range inv.Backpack {
		if s == nil {
			inv.Backpack[i] = *target
			*target = nil
			return nil
		}
	}
	return ErrNoRoom
}

// Equipped returns the item ID in an equipment slot, or "".
func (inv *Inventory) Equipped(slot EquipSlot) string {
	target := inv.equipment(slot)
	if target == nil || *target == nil {
		return ""
	}
	return (*target).Item
}

// AssignHotbar binds a hotbar shortcut to an item ID ("" clears it).
func (inv *Inventory) AssignHotbar(slot int, id string) error {
	if slot < 0 || slot >= len(inv.Hotbar) {
		return ErrOutOfRange
	}
	inv.Hotbar[slot] = id
	return nil
}

// HotbarItem resolves a hotbar shortcut to a catalog item that is actually
// present in the backpack.
func (inv *Inventory) HotbarItem(cat Catalog, slot int) (config.ItemConfig, error) {
	if slot < 0 || slot >= len(inv.Hotbar) {
		return config.ItemConfig{}, ErrOutOfRange
	}
	id := inv.Hotbar[slot]
	if id == "" {
		return config.ItemConfig{}, ErrSlotEmpty
	}
	def, ok := cat.Item(id)
	if !ok {
		return config.ItemConfig{}, ErrUnknownItem
	}
	if inv.Count(id) == 0 {
		return config.ItemConfig{}, ErrNotEnough
	}
	return def, nil
}

func (inv *Inventory) at(index int) (*Stack, error) {
	if index < 0 || index >= len(inv.Backpack) {
		return nil, ErrOutOfRange
	}
	s := inv.Backpack[index]
	if s == nil {
		return nil, ErrSlotEmpty
	}
	return s, nil
}

func (inv *Inventory) equipment(slot EquipSlot) **Stack {
	switch slot {
	case SlotPrimary:
		return &inv.Equipment.Primary
	case SlotSecondary:
		return &inv.Equipment.Secondary
	case SlotArmor:
		return &inv.Equipment.Armor
	default:
		return nil
	}
}

func fits(def config.ItemConfig, slot EquipSlot) bool {
	switch slot {
	case SlotPrimary, SlotSecondary:
		return def.Kind == KindWeapon
	case SlotArmor:
		return def.Kind == KindArmor
	default:
		return false
	}
}

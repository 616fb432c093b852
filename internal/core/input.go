package core

// Action represents a host-level intent (pause, quit) that never reaches
// the simulation. Gameplay intents travel in InputState.
type Action int

const (
	ActionNone    Action = iota
	ActionConfirm        // Enter - confirm selection
	ActionBack           // B, Escape - go back
	ActionRestart        // R key - restart after the run ends
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputState is the per-tick input snapshot consumed by the simulation.
//
// Fire is level-triggered (held). FirePressed, Dodge, Reload, ThrowGrenade,
// HealSmall, HealLarge, HotbarUse, Interact and the weapon slot keys are
// edge-triggered: the host sets them only on the tick the key went down.
type InputState struct {
	MoveDir          Vec2    `json:"moveDir" msgpack:"m"`
	AimDir           Vec2    `json:"aimDir" msgpack:"a"`
	Fire             bool    `json:"fire,omitempty" msgpack:"f,omitempty"`
	FirePressed      bool    `json:"firePressed,omitempty" msgpack:"fp,omitempty"`
	Dodge            bool    `json:"dodge,omitempty" msgpack:"d,omitempty"`
	Reload           bool    `json:"reload,omitempty" msgpack:"r,omitempty"`
	ThrowGrenade     bool    `json:"throwGrenade,omitempty" msgpack:"g,omitempty"`
	ThrowPower       float64 `json:"throwPower,omitempty" msgpack:"gp,omitempty"`
	HeadshotTargetID uint64  `json:"headshotTargetId,omitempty" msgpack:"hs,omitempty"` // 0 = no lock
	HealSmall        bool    `json:"healSmall,omitempty" msgpack:"hsm,omitempty"`
	HealLarge        bool    `json:"healLarge,omitempty" msgpack:"hlg,omitempty"`
	HotbarUse        *int    `json:"hotbarUse,omitempty" msgpack:"hb,omitempty"` // extraction only
	Interact         bool    `json:"interact,omitempty" msgpack:"i,omitempty"`
	WeaponSlot1      bool    `json:"weaponSlot1,omitempty" msgpack:"w1,omitempty"`
	WeaponSlot2      bool    `json:"weaponSlot2,omitempty" msgpack:"w2,omitempty"`
}

// Latch returns next with the edge-triggered fields of in carried over.
// Hosts that collect input faster than the tick rate fold every sample
// through Latch so a press between two ticks is not lost.
func (in InputState) Latch(next InputState) InputState {
	next.FirePressed = next.FirePressed || in.FirePressed
	next.Dodge = next.Dodge || in.Dodge
	next.Reload = next.Reload || in.Reload
	next.HealSmall = next.HealSmall || in.HealSmall
	next.HealLarge = next.HealLarge || in.HealLarge
	next.Interact = next.Interact || in.Interact
	next.WeaponSlot1 = next.WeaponSlot1 || in.WeaponSlot1
	next.WeaponSlot2 = next.WeaponSlot2 || in.WeaponSlot2
	if in.ThrowGrenade && !next.ThrowGrenade {
		next.ThrowGrenade = true
		next.ThrowPower = in.ThrowPower
	}
	if next.HotbarUse == nil && in.HotbarUse != nil {
		slot := *in.HotbarUse
		next.HotbarUse = &slot
	}
	if next.HeadshotTargetID == 0 {
		next.HeadshotTargetID = in.HeadshotTargetID
	}
	return next
}

// Held returns a copy with every edge-triggered field cleared, keeping
// only the continuous inputs (movement, aim, held fire).
func (in InputState) Held() InputState {
	return InputState{
		MoveDir: in.MoveDir,
		AimDir:  in.AimDir,
		Fire:    in.Fire,
	}
}

// Hotbar returns a pointer to slot, for building InputState literals.
func Hotbar(slot int) *int {
	return &slot
}

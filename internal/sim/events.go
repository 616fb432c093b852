package sim

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/gunzone/internal/core"
)

// EventType names an event in its JSON form.
type EventType string

const (
	EventProjectileFired   EventType = "projectile_fired"
	EventEnemyHit          EventType = "enemy_hit"
	EventEnemyKilled       EventType = "enemy_killed"
	EventEnemySpawned      EventType = "enemy_spawned"
	EventEnemyAlerted      EventType = "enemy_alerted"
	EventEnemyFired        EventType = "enemy_fired"
	EventPlayerHit         EventType = "player_hit"
	EventPlayerDeath       EventType = "player_death"
	EventDodgeStart        EventType = "dodge_start"
	EventHealStart         EventType = "heal_start"
	EventHealComplete      EventType = "heal_complete"
	EventHealInterrupted   EventType = "heal_interrupted"
	EventHealFumbled       EventType = "heal_fumbled"
	EventReloadStart       EventType = "reload_start"
	EventReloadComplete    EventType = "reload_complete"
	EventReloadFumbled     EventType = "reload_fumbled"
	EventReloadCancelled   EventType = "reload_cancelled"
	EventWeaponSwapped     EventType = "weapon_swapped"
	EventGrenadeThrown     EventType = "grenade_thrown"
	EventGrenadeExploded   EventType = "grenade_exploded"
	EventTriggerActivated  EventType = "trigger_activated"
	EventCashSpawned       EventType = "cash_spawned"
	EventCashPickedUp      EventType = "cash_picked_up"
	EventSupplyCollected   EventType = "supply_collected"
	EventExtractionSuccess EventType = "extraction_success"
)

// Quality grades a timed heal or reload.
type Quality string

const (
	QualityNormal  Quality = "normal"
	QualityActive  Quality = "active"
	QualityPerfect Quality = "perfect"
)

// DamageSource says what hurt the player.
type DamageSource string

const (
	SourceContact    DamageSource = "contact"
	SourceProjectile DamageSource = "projectile"
)

// EventData is the closed set of event payloads.
type EventData interface {
	Type() EventType
	simEvent()
}

// GameEvent is one thing that happened during a tick.
type GameEvent struct {
	Tick uint64
	Data EventData
}

// Type returns the payload's event type.
func (e GameEvent) Type() EventType {
	if e.Data == nil {
		return ""
	}
	return e.Data.Type()
}

type ProjectileFired struct {
	Weapon           string `json:"weapon"`
	Pellets          int    `json:"pellets"`
	AmmoLeft         int    `json:"ammoLeft"`
	HeadshotTargetID uint64 `json:"headshotTargetId,omitempty"`
}

type EnemyHit struct {
	EnemyID  uint64  `json:"enemyId"`
	Damage   float64 `json:"damage"`
	Headshot bool    `json:"headshot"`
	HPLeft   float64 `json:"hpLeft"`
}

type EnemyKilled struct {
	EnemyID uint64    `json:"enemyId"`
	Enemy   EnemyType `json:"enemyType"`
	Score   int       `json:"score"`
	Pos     core.Vec2 `json:"pos"`
}

type EnemySpawned struct {
	EnemyID uint64    `json:"enemyId"`
	Enemy   EnemyType `json:"enemyType"`
	Pos     core.Vec2 `json:"pos"`
	ZoneID  string    `json:"zoneId,omitempty"`
}

type EnemyAlerted struct {
	EnemyID uint64 `json:"enemyId"`
}

type EnemyFired struct {
	EnemyID      uint64 `json:"enemyId"`
	ProjectileID uint64 `json:"projectileId"`
}

type PlayerHit struct {
	Damage   float64      `json:"damage"`
	Absorbed float64      `json:"absorbed"`
	Source   DamageSource `json:"source"`
	SourceID uint64       `json:"sourceId"`
	HP       float64      `json:"hp"`
	ArmorHP  float64      `json:"armorHp"`
}

type PlayerDeath struct {
	Score int `json:"score"`
	Kills int `json:"kills"`
}

type DodgeStart struct {
	Dir core.Vec2 `json:"dir"`
}

type HealStart struct {
	HealType string `json:"healType"`
	Ticks    int    `json:"ticks"`
}

type HealComplete struct {
	HealType string  `json:"healType"`
	Quality  Quality `json:"quality"`
	Restored float64 `json:"restored"`
	HP       float64 `json:"hp"`
}

type HealInterrupted struct {
	HealType string `json:"healType"`
}

type HealFumbled struct {
	HealType string `json:"healType"`
}

type ReloadStart struct {
	Weapon string `json:"weapon"`
	Ticks  int    `json:"ticks"`
}

type ReloadComplete struct {
	Weapon  string  `json:"weapon"`
	Quality Quality `json:"quality"`
	Ammo    int     `json:"ammo"`
}

type ReloadFumbled struct {
	Weapon string `json:"weapon"`
}

type ReloadCancelled struct {
	Weapon string `json:"weapon"`
}

type WeaponSwapped struct {
	Slot   int    `json:"slot"`
	Weapon string `json:"weapon"`
}

type GrenadeThrown struct {
	GrenadeID uint64  `json:"grenadeId"`
	Power     float64 `json:"power"`
	AmmoLeft  int     `json:"ammoLeft"`
}

type GrenadeExploded struct {
	GrenadeID uint64    `json:"grenadeId"`
	Pos       core.Vec2 `json:"pos"`
	Hits      int       `json:"hits"`
}

type TriggerActivated struct {
	RegionID string `json:"regionId"`
	Spawned  int    `json:"spawned"`
}

type CashSpawned struct {
	PickupID uint64    `json:"pickupId"`
	Amount   int       `json:"amount"`
	Pos      core.Vec2 `json:"pos"`
}

type CashPickedUp struct {
	PickupID uint64 `json:"pickupId"`
	Amount   int    `json:"amount"`
	RunCash  int    `json:"runCash"`
}

type SupplyCollected struct {
	CacheID  string `json:"cacheId"`
	Grenades int    `json:"grenades"`
	Items    int    `json:"items"`
}

type ExtractionSuccess struct {
	RunCash int `json:"runCash"`
	Score   int `json:"score"`
	Kills   int `json:"kills"`
}

func (ProjectileFired) Type() EventType   { return EventProjectileFired }
func (EnemyHit) Type() EventType          { return EventEnemyHit }
func (EnemyKilled) Type() EventType       { return EventEnemyKilled }
func (EnemySpawned) Type() EventType      { return EventEnemySpawned }
func (EnemyAlerted) Type() EventType      { return EventEnemyAlerted }
func (EnemyFired) Type() EventType        { return EventEnemyFired }
func (PlayerHit) Type() EventType         { return EventPlayerHit }
func (PlayerDeath) Type() EventType       { return EventPlayerDeath }
func (DodgeStart) Type() EventType        { return EventDodgeStart }
func (HealStart) Type() EventType         { return EventHealStart }
func (HealComplete) Type() EventType      { return EventHealComplete }
func (HealInterrupted) Type() EventType   { return EventHealInterrupted }
func (HealFumbled) Type() EventType       { return EventHealFumbled }
func (ReloadStart) Type() EventType       { return EventReloadStart }
func (ReloadComplete) Type() EventType    { return EventReloadComplete }
func (ReloadFumbled) Type() EventType     { return EventReloadFumbled }
func (ReloadCancelled) Type() EventType   { return EventReloadCancelled }
func (WeaponSwapped) Type() EventType     { return EventWeaponSwapped }
func (GrenadeThrown) Type() EventType     { return EventGrenadeThrown }
func (GrenadeExploded) Type() EventType   { return EventGrenadeExploded }
func (TriggerActivated) Type() EventType  { return EventTriggerActivated }
func (CashSpawned) Type() EventType       { return EventCashSpawned }
func (CashPickedUp) Type() EventType      { return EventCashPickedUp }
func (SupplyCollected) Type() EventType   { return EventSupplyCollected }
func (ExtractionSuccess) Type() EventType { return EventExtractionSuccess }

func (ProjectileFired) simEvent()   {}
func (EnemyHit) simEvent()          {}
func (EnemyKilled) simEvent()       {}
func (EnemySpawned) simEvent()      {}
func (EnemyAlerted) simEvent()      {}
func (EnemyFired) simEvent()        {}
func (PlayerHit) simEvent()         {}
func (PlayerDeath) simEvent()       {}
func (DodgeStart) simEvent()        {}
func (HealStart) simEvent()         {}
func (HealComplete) simEvent()      {}
func (HealInterrupted) simEvent()   {}
func (HealFumbled) simEvent()       {}
func (ReloadStart) simEvent()       {}
func (ReloadComplete) simEvent()    {}
func (ReloadFumbled) simEvent()     {}
func (ReloadCancelled) simEvent()   {}
func (WeaponSwapped) simEvent()     {}
func (GrenadeThrown) simEvent()     {}
func (GrenadeExploded) simEvent()   {}
func (TriggerActivated) simEvent()  {}
func (CashSpawned) simEvent()       {}
func (CashPickedUp) simEvent()      {}
func (SupplyCollected) simEvent()   {}
func (ExtractionSuccess) simEvent() {}

type eventDecoder func(json.RawMessage) (EventData, error)

func decodeAs[T EventData](raw json.RawMessage) (EventData, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

var eventDecoders = map[EventType]eventDecoder{
	EventProjectileFired:   decodeAs[ProjectileFired],
	EventEnemyHit:          decodeAs[EnemyHit],
	EventEnemyKilled:       decodeAs[EnemyKilled],
	EventEnemySpawned:      decodeAs[EnemySpawned],
	EventEnemyAlerted:      decodeAs[EnemyAlerted],
	EventEnemyFired:        decodeAs[EnemyFired],
	EventPlayerHit:         decodeAs[PlayerHit],
	EventPlayerDeath:       decodeAs[PlayerDeath],
	EventDodgeStart:        decodeAs[DodgeStart],
	EventHealStart:         decodeAs[HealStart],
	EventHealComplete:      decodeAs[HealComplete],
	EventHealInterrupted:   decodeAs[HealInterrupted],
	EventHealFumbled:       decodeAs[HealFumbled],
	EventReloadStart:       decodeAs[ReloadStart],
	EventReloadComplete:    decodeAs[ReloadComplete],
	EventReloadFumbled:     decodeAs[ReloadFumbled],
	EventReloadCancelled:   decodeAs[ReloadCancelled],
	EventWeaponSwapped:     decodeAs[WeaponSwapped],
	EventGrenadeThrown:     decodeAs[GrenadeThrown],
	EventGrenadeExploded:   decodeAs[GrenadeExploded],
	EventTriggerActivated:  decodeAs[TriggerActivated],
	EventCashSpawned:       decodeAs[CashSpawned],
	EventCashPickedUp:      decodeAs[CashPickedUp],
	EventSupplyCollected:   decodeAs[SupplyCollected],
	EventExtractionSuccess: decodeAs[ExtractionSuccess],
}

type eventJSON struct {
	Tick uint64          `json:"tick"`
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON encodes the event as {"tick", "type", "data"}.
func (e GameEvent) MarshalJSON() ([]byte, error) {
	if e.Data == nil {
		return nil, fmt.Errorf("sim: event at tick %d has no payload", e.Tick)
	}
	data, err := json.Marshal(e.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(eventJSON{Tick: e.Tick, Type: e.Data.Type(), Data: data})
}

// UnmarshalJSON decodes an event, rejecting unknown types.
func (e *GameEvent) UnmarshalJSON(b []byte) error {
	var raw eventJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	decode, ok := eventDecoders[raw.Type]
	if !ok {
		return fmt.Errorf("sim: unknown event type %q", raw.Type)
	}
	data, err := decode(raw.Data)
	if err != nil {
		return fmt.Errorf("sim: decode %s: %w", raw.Type, err)
	}
	e.Tick = raw.Tick
	e.Data = data
	return nil
}

// EventsOf filters events down to one payload type.
func EventsOf[T EventData](events []GameEvent) []T {
	var out []T
	for _, e := range events {
		if v, ok := e.Data.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

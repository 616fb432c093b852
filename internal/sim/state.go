package sim

import (
	"github.com/vovakirdan/gunzone/internal/core"
	"github.com/vovakirdan/gunzone/internal/inventory"
)

// Mode selects the ruleset a game runs under.
type Mode string

const (
	ModeArena      Mode = "arena"      // endless waves, legacy bandage counters
	ModeExtraction Mode = "extraction" // zoned map, inventory, cash, extraction zones
)

// EnemyType tags the enemy payload.
type EnemyType string

const (
	EnemySprinter EnemyType = "sprinter"
	EnemyGunner   EnemyType = "gunner"
)

// AIState is the shared behavior state of every enemy.
type AIState string

const (
	AIWander AIState = "wander" // roaming until the player is detected
	AIActive AIState = "active" // pursuing the player
)

// GunnerPhase is the gunner advance/retreat cycle.
type GunnerPhase string

const (
	PhaseAdvance GunnerPhase = "advance"
	PhaseRetreat GunnerPhase = "retreat"
)

// Bounds is the playable rectangle, anchored at the origin.
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether p lies inside the bounds.
func (b Bounds) Contains(p core.Vec2) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= b.Width && p.Y <= b.Height
}

// GameState is the complete simulation state. It is owned by one game and
// mutated in place by Tick.
type GameState struct {
	Tick             uint64             `json:"tick"`
	Mode             Mode               `json:"mode"`
	Seed             int64              `json:"seed"`
	Arena            Bounds             `json:"arena"`
	Player           Player             `json:"player"`
	Enemies          []*Enemy           `json:"enemies"`
	Projectiles      []*Projectile      `json:"projectiles"`
	EnemyProjectiles []*EnemyProjectile `json:"enemyProjectiles"`
	Grenades         []*Grenade         `json:"grenades"`
	CashPickups      []*CashPickup      `json:"cashPickups"`
	Obstacles        []core.Rect        `json:"obstacles"`
	Score            int                `json:"score"`
	Kills            int                `json:"kills"`
	RunCash          int                `json:"runCash"`
	CashSpawned      int                `json:"cashSpawned"`
	GameOver         bool               `json:"gameOver"`
	Extracted        bool               `json:"extracted"`
	NextEntityID     uint64             `json:"nextEntityId"`
	Spawner          *ArenaSpawner      `json:"spawner,omitempty"`
	Extraction       *ExtractionSpawner `json:"extraction,omitempty"`
	Events           []GameEvent        `json:"events"`
	RNG              core.SimpleRNG     `json:"rng"`
}

// Ended reports whether the run reached a terminal state.
func (s *GameState) Ended() bool {
	return s.GameOver || s.Extracted
}

// Enemy returns the living enemy with the given ID, or nil.
func (s *GameState) Enemy(id uint64) *Enemy {
	if id == 0 {
		return nil
	}
	for _, e := range s.Enemies {
		if e.ID == id && e.HP > 0 {
			return e
		}
	}
	return nil
}

// OutstandingCash sums the cash still lying on the ground.
func (s *GameState) OutstandingCash() int {
	total := 0
	for _, c := range s.CashPickups {
		total += c.Amount
	}
	return total
}

func (s *GameState) nextID() uint64 {
	id := s.NextEntityID
	s.NextEntityID++
	return id
}

// WeaponState is one loadout slot.
type WeaponState struct {
	Type string `json:"type"`
	Ammo int    `json:"ammo"`
}

// DamageBonus is the temporary multiplier earned by an active reload.
type DamageBonus struct {
	Multiplier float64 `json:"multiplier"`
	Ticks      int     `json:"ticks"`
}

func (b DamageBonus) factor() float64 {
	if b.Ticks <= 0 || b.Multiplier <= 0 {
		return 1
	}
	return b.Multiplier
}

// Player is the controlled character.
type Player struct {
	Pos        core.Vec2 `json:"pos"`
	Facing     core.Vec2 `json:"facing"`
	Radius     float64   `json:"radius"`
	Moving     bool      `json:"moving"`
	HP         float64   `json:"hp"`
	MaxHP      float64   `json:"maxHp"`
	ArmorHP    float64   `json:"armorHp"`
	ArmorMaxHP float64   `json:"armorMaxHp"`

	Weapons         []WeaponState `json:"weapons"`
	ActiveSlot      int           `json:"activeSlot"`
	FireCooldown    int           `json:"fireCooldown"`
	ReloadTimer     int           `json:"reloadTimer"` // counts down; >0 while reloading
	ReloadTime      int           `json:"reloadTime"`
	ReloadFumbled   bool          `json:"reloadFumbled"`
	WeaponSwapTimer int           `json:"weaponSwapTimer"`
	Bonus           DamageBonus   `json:"bonus"`

	DodgeTimer    int       `json:"dodgeTimer"`
	DodgeCooldown int       `json:"dodgeCooldown"`
	DodgeDir      core.Vec2 `json:"dodgeDir"`
	IFrameTimer   int       `json:"iframeTimer"`

	Healing     bool   `json:"healing"`
	HealTimer   int    `json:"healTimer"` // counts up to HealTime
	HealTime    int    `json:"healTime"`
	HealType    string `json:"healType"`
	HealKey     string `json:"healKey"`
	HealFumbled bool   `json:"healFumbled"`

	SmallBandages int                  `json:"smallBandages"`
	LargeBandages int                  `json:"largeBandages"`
	GrenadeAmmo   int                  `json:"grenadeAmmo"`
	Inventory     *inventory.Inventory `json:"inventory,omitempty"`
}

// ActiveWeapon returns the wielded loadout slot, or nil when unarmed.
func (p *Player) ActiveWeapon() *WeaponState {
	if p.ActiveSlot < 0 || p.ActiveSlot >= len(p.Weapons) {
		return nil
	}
	return &p.Weapons[p.ActiveSlot]
}

// Invulnerable reports whether incoming damage is ignored this tick.
func (p *Player) Invulnerable() bool {
	return p.DodgeTimer > 0 || p.IFrameTimer > 0
}

// Enemy is the shared enemy record. Gunner is non-nil exactly when Type is
// EnemyGunner.
type Enemy struct {
	ID            uint64    `json:"id"`
	Type          EnemyType `json:"type"`
	Pos           core.Vec2 `json:"pos"`
	Radius        float64   `json:"radius"`
	HP            float64   `json:"hp"`
	MaxHP         float64   `json:"maxHp"`
	Speed         float64   `json:"speed"`
	ContactDamage float64   `json:"contactDamage"`
	ScoreValue    int       `json:"scoreValue"`
	KnockbackVel  core.Vec2 `json:"knockbackVel"`
	StunTimer     int       `json:"stunTimer"`
	Visible       bool      `json:"visible"`
	AIState       AIState   `json:"aiState"`
	WanderDir     core.Vec2 `json:"wanderDir"`
	WanderTimer   int       `json:"wanderTimer"`
	ZoneID        string    `json:"zoneId,omitempty"`

	Gunner *GunnerState `json:"gunner,omitempty"`
}

// GunnerState is the gunner-only payload.
type GunnerState struct {
	Phase        GunnerPhase `json:"phase"`
	AITimer      int         `json:"aiTimer"`
	FireCooldown int         `json:"fireCooldown"`
}

// Projectile is a player bullet or pellet.
type Projectile struct {
	ID                          uint64    `json:"id"`
	Weapon                      string    `json:"weapon"`
	Pos                         core.Vec2 `json:"pos"`
	Vel                         core.Vec2 `json:"vel"` // units per second
	Radius                      float64   `json:"radius"`
	Damage                      float64   `json:"damage"`
	Lifetime                    int       `json:"lifetime"`
	Penetration                 int       `json:"penetration"` // remaining enemies it may damage
	Knockback                   float64   `json:"knockback"`
	HeadshotTargetID            uint64    `json:"headshotTargetId,omitempty"`
	HeadshotMultiplier          float64   `json:"headshotMultiplier"`
	HeadshotKnockbackMultiplier float64   `json:"headshotKnockbackMultiplier"`
	HitIDs                      []uint64  `json:"hitIds,omitempty"`
}

func (p *Projectile) hasHit(id uint64) bool {
	for _, h := range p.HitIDs {
		if h == id {
			return true
		}
	}
	return false
}

// EnemyProjectile is a gunner bullet.
type EnemyProjectile struct {
	ID       uint64    `json:"id"`
	OwnerID  uint64    `json:"ownerId"`
	Pos      core.Vec2 `json:"pos"`
	Vel      core.Vec2 `json:"vel"`
	Radius   float64   `json:"radius"`
	Damage   float64   `json:"damage"`
	Lifetime int       `json:"lifetime"`
}

// Grenade is a thrown explosive. Height and VZ model the arc above the
// ground plane.
type Grenade struct {
	ID        uint64    `json:"id"`
	Pos       core.Vec2 `json:"pos"`
	Vel       core.Vec2 `json:"vel"`
	Height    float64   `json:"height"`
	VZ        float64   `json:"vz"`
	FuseTimer int       `json:"fuseTimer"`
}

// CashPickup is dropped money waiting to be collected. It never expires.
type CashPickup struct {
	ID     uint64    `json:"id"`
	Pos    core.Vec2 `json:"pos"`
	Amount int       `json:"amount"`
}

// ArenaSpawner paces arena waves.
type ArenaSpawner struct {
	Timer           int `json:"timer"`
	CurrentInterval int `json:"currentInterval"`
}

// ExtractionSpawner tracks ambient zone timers, fired trigger regions and
// opened supply caches. ZoneTimers follows the configured zone order.
type ExtractionSpawner struct {
	ZoneTimers       []int           `json:"zoneTimers"`
	TriggeredRegions map[string]bool `json:"triggeredRegions"`
	OpenedCaches     map[string]bool `json:"openedCaches"`
}

// compact drops the entries keep rejects, preserving order.
func compact[T any](items []*T, keep func(*T) bool) []*T {
	out := items[:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	for i := len(out); i < len(items); i++ {
		items[i] = nil
	}
	return out
}

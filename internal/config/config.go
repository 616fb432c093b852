// Package config provides YAML-based game configuration loading and
// difficulty management.
package config

import "github.com/vovakirdan/gunzone/internal/core"

// GameConfigs is the complete, immutable tuning table for a simulation.
// One value is shared by every game created from it.
type GameConfigs struct {
	TickRate   int                     `yaml:"tick_rate"`
	Arena      ArenaConfig             `yaml:"arena"`
	Player     PlayerConfig            `yaml:"player"`
	Heal       HealConfig              `yaml:"heal"`
	Reload     ReloadConfig            `yaml:"reload"`
	Weapons    map[string]WeaponConfig `yaml:"weapons"`
	Enemies    EnemiesConfig           `yaml:"enemies"`
	Spawner    SpawnerConfig           `yaml:"spawner"`
	Grenade    GrenadeConfig           `yaml:"grenade"`
	Cash       CashConfig              `yaml:"cash"`
	Extraction ExtractionConfig        `yaml:"extraction"`
	Items      []ItemConfig            `yaml:"items"`
	Difficulty DifficultyConfig        `yaml:"difficulty"`
}

// ArenaConfig describes the wave-survival map.
type ArenaConfig struct {
	Width       float64     `yaml:"width"`
	Height      float64     `yaml:"height"`
	PlayerSpawn core.Vec2   `yaml:"player_spawn"`
	Obstacles   []core.Rect `yaml:"obstacles"`
}

// PlayerConfig defines movement, dodge and survivability.
type PlayerConfig struct {
	Radius              float64     `yaml:"radius"`
	Speed               float64     `yaml:"speed"` // units per second
	MaxHP               float64     `yaml:"max_hp"`
	HurtIFrameTicks     int         `yaml:"hurt_iframe_ticks"`
	WeaponSwapTicks     int         `yaml:"weapon_swap_ticks"`
	StartingWeapon      string      `yaml:"starting_weapon"`
	CollisionIterations int         `yaml:"collision_iterations"`
	ArmorAbsorb         float64     `yaml:"armor_absorb"` // share of damage taken by armor
	Dodge               DodgeConfig `yaml:"dodge"`
}

// DodgeConfig defines the dodge roll.
type DodgeConfig struct {
	DurationTicks   int     `yaml:"duration_ticks"`
	CooldownTicks   int     `yaml:"cooldown_ticks"`
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
}

// HealConfig defines bandage tiers and the active-heal timing windows.
// Windows are fractions of heal progress; the perfect window sits inside
// the active one and takes precedence.
type HealConfig struct {
	Tiers             map[string]HealTier `yaml:"tiers"`
	ActiveStart       float64             `yaml:"active_start"`
	ActiveEnd         float64             `yaml:"active_end"`
	PerfectStart      float64             `yaml:"perfect_start"`
	PerfectEnd        float64             `yaml:"perfect_end"`
	ActiveMultiplier  float64             `yaml:"active_multiplier"`
	PerfectMultiplier float64             `yaml:"perfect_multiplier"`
	MoveMultiplier    float64             `yaml:"move_multiplier"`
	StartingSmall     int                 `yaml:"starting_small"`
	StartingLarge     int                 `yaml:"starting_large"`
}

// HealTier is one bandage size.
type HealTier struct {
	Amount    float64 `yaml:"amount"`
	TimeTicks int     `yaml:"time_ticks"`
}

// ReloadConfig defines the active-reload windows and damage bonuses.
type ReloadConfig struct {
	ActiveStart        float64 `yaml:"active_start"`
	ActiveEnd          float64 `yaml:"active_end"`
	PerfectStart       float64 `yaml:"perfect_start"`
	PerfectEnd         float64 `yaml:"perfect_end"`
	ActiveMultiplier   float64 `yaml:"active_multiplier"`
	PerfectMultiplier  float64 `yaml:"perfect_multiplier"`
	BonusDurationTicks int     `yaml:"bonus_duration_ticks"`
}

// WeaponConfig defines one weapon.
type WeaponConfig struct {
	Name                        string  `yaml:"name"`
	Damage                      float64 `yaml:"damage"`
	FireRate                    float64 `yaml:"fire_rate"` // shots per second
	ProjectileSpeed             float64 `yaml:"projectile_speed"`
	ProjectileRadius            float64 `yaml:"projectile_radius"`
	ProjectileLifetime          int     `yaml:"projectile_lifetime"` // ticks
	Spread                      float64 `yaml:"spread"`              // radians, half-angle
	MovingSpreadMultiplier      float64 `yaml:"moving_spread_multiplier"`
	Penetration                 int     `yaml:"penetration"`
	Knockback                   float64 `yaml:"knockback"`
	HeadshotMultiplier          float64 `yaml:"headshot_multiplier"`
	HeadshotKnockbackMultiplier float64 `yaml:"headshot_knockback_multiplier"`
	PelletsPerShot              int     `yaml:"pellets_per_shot"`
	MagazineSize                int     `yaml:"magazine_size"`
	ReloadTicks                 int     `yaml:"reload_ticks"`
	SemiAuto                    bool    `yaml:"semi_auto"`
	AmmoItem                    string  `yaml:"ammo_item"`
}

// CooldownTicks converts the fire rate into ticks between shots.
func (w WeaponConfig) CooldownTicks(tickRate int) int {
	if w.FireRate <= 0 {
		return tickRate
	}
	n := int(float64(tickRate)/w.FireRate + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}

// EnemiesConfig groups per-type enemy stats and shared AI tuning.
type EnemiesConfig struct {
	Sprinter              EnemyConfig  `yaml:"sprinter"`
	Gunner                GunnerConfig `yaml:"gunner"`
	KnockbackDecay        float64      `yaml:"knockback_decay"`
	KnockbackStunTicks    int          `yaml:"knockback_stun_ticks"`
	WanderSpeedMultiplier float64      `yaml:"wander_speed_multiplier"`
	WanderRetargetTicks   int          `yaml:"wander_retarget_ticks"`
	DetectionRange        float64      `yaml:"detection_range"`
}

// EnemyConfig holds the stats shared by every enemy type.
type EnemyConfig struct {
	HP            float64 `yaml:"hp"`
	Speed         float64 `yaml:"speed"`
	Radius        float64 `yaml:"radius"`
	ContactDamage float64 `yaml:"contact_damage"`
	ScoreValue    int     `yaml:"score_value"`
}

// GunnerConfig extends EnemyConfig with the ranged advance/retreat cycle.
type GunnerConfig struct {
	EnemyConfig `yaml:",inline"`

	AdvanceDuration        int     `yaml:"advance_duration"`
	RetreatDuration        int     `yaml:"retreat_duration"`
	RetreatSpeedMultiplier float64 `yaml:"retreat_speed_multiplier"`
	EngageRange            float64 `yaml:"engage_range"`
	FireCooldownTicks      int     `yaml:"fire_cooldown_ticks"`
	ProjectileDamage       float64 `yaml:"projectile_damage"`
	ProjectileSpeed        float64 `yaml:"projectile_speed"`
	ProjectileRadius       float64 `yaml:"projectile_radius"`
	ProjectileLifetime     int     `yaml:"projectile_lifetime"`
	Spread                 float64 `yaml:"spread"`
}

// SpawnerConfig drives arena waves.
type SpawnerConfig struct {
	InitialInterval  int     `yaml:"initial_interval"`
	MinimumInterval  int     `yaml:"minimum_interval"`
	IntervalDecay    float64 `yaml:"interval_decay"`
	MaxEnemies       int     `yaml:"max_enemies"`
	GunnerRatio      float64 `yaml:"gunner_ratio"`
	MinSpawnDistance float64 `yaml:"min_spawn_distance"`
	EdgeMargin       float64 `yaml:"edge_margin"`
}

// GrenadeConfig defines throwable grenades.
type GrenadeConfig struct {
	StartingAmmo      int     `yaml:"starting_ammo"`
	MinSpeed          float64 `yaml:"min_speed"`
	MaxSpeed          float64 `yaml:"max_speed"`
	LaunchAngle       float64 `yaml:"launch_angle"` // radians above the ground plane
	Gravity           float64 `yaml:"gravity"`
	BounceRestitution float64 `yaml:"bounce_restitution"`
	GroundFriction    float64 `yaml:"ground_friction"`
	Radius            float64 `yaml:"radius"`
	FuseTicks         int     `yaml:"fuse_ticks"`
	Damage            float64 `yaml:"damage"`
	DamageRadius      float64 `yaml:"damage_radius"`
	KnockbackRadius   float64 `yaml:"knockback_radius"`
	Knockback         float64 `yaml:"knockback"`
}

// CashConfig defines extraction-mode cash drops.
type CashConfig struct {
	PickupRadius       float64 `yaml:"pickup_radius"`
	ScatterRadius      float64 `yaml:"scatter_radius"`
	Denomination       int     `yaml:"denomination"`
	SprinterBills      [2]int  `yaml:"sprinter_bills,flow"`
	GunnerBills        [2]int  `yaml:"gunner_bills,flow"`
	SprinterDropChance float64 `yaml:"sprinter_drop_chance"`
	GunnerDropChance   float64 `yaml:"gunner_drop_chance"`
}

// ExtractionConfig describes the extraction map.
type ExtractionConfig struct {
	Width           float64               `yaml:"width"`
	Height          float64               `yaml:"height"`
	PlayerSpawn     core.Vec2             `yaml:"player_spawn"`
	Walls           []core.Rect           `yaml:"walls"`
	Zones           []ZoneConfig          `yaml:"zones"`
	TriggerRegions  []TriggerRegionConfig `yaml:"trigger_regions"`
	ExtractionZones []core.Rect           `yaml:"extraction_zones"`
	SupplyCaches    []SupplyCacheConfig   `yaml:"supply_caches"`
	StartingKit     KitConfig             `yaml:"starting_kit"`
}

// ZoneConfig is one named area with its own enemy population.
type ZoneConfig struct {
	ID                   string    `yaml:"id"`
	Bounds               core.Rect `yaml:"bounds"`
	InitialEnemies       int       `yaml:"initial_enemies"`
	AmbientIntervalTicks int       `yaml:"ambient_interval_ticks"`
	AmbientMaxAlive      int       `yaml:"ambient_max_alive"`
	GunnerRatio          float64   `yaml:"gunner_ratio"`
}

// TriggerRegionConfig spawns a fixed batch the first time the player enters.
type TriggerRegionConfig struct {
	ID     string               `yaml:"id"`
	Bounds core.Rect            `yaml:"bounds"`
	Spawns []TriggerSpawnConfig `yaml:"spawns"`
}

// TriggerSpawnConfig is one enemy placed by a trigger region.
type TriggerSpawnConfig struct {
	Type string    `yaml:"type"`
	Pos  core.Vec2 `yaml:"pos"`
}

// SupplyCacheConfig is a single-use cache opened with the interact input.
type SupplyCacheConfig struct {
	ID       string      `yaml:"id"`
	Pos      core.Vec2   `yaml:"pos"`
	Radius   float64     `yaml:"radius"`
	Grenades int         `yaml:"grenades"`
	Items    []ItemGrant `yaml:"items"`
}

// ItemGrant is an item stack handed out by a cache or a kit.
type ItemGrant struct {
	Item  string `yaml:"item"`
	Count int    `yaml:"count"`
}

// KitConfig is the default extraction loadout.
type KitConfig struct {
	Primary   string      `yaml:"primary"`
	Secondary string      `yaml:"secondary"`
	Armor     string      `yaml:"armor"`
	Backpack  []ItemGrant `yaml:"backpack"`
	Hotbar    []string    `yaml:"hotbar"`
}

// ItemConfig defines one catalog entry.
type ItemConfig struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Kind     string  `yaml:"kind"` // weapon, armor, ammo, bandage, valuable
	MaxStack int     `yaml:"max_stack"`
	Weapon   string  `yaml:"weapon,omitempty"`
	HealTier string  `yaml:"heal_tier,omitempty"`
	ArmorHP  float64 `yaml:"armor_hp,omitempty"`
	Price    int     `yaml:"price,omitempty"` // stash price; 0 is not for sale
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier  float64 `yaml:"speed_multiplier"`   // added to enemy speed at max difficulty
	GunnerRatioBonus float64 `yaml:"gunner_ratio_bonus"` // added to the arena gunner ratio at max difficulty
	IntervalScale    float64 `yaml:"interval_scale"`     // spawn interval multiplier at max difficulty
}

// Weapon returns the config for a weapon name.
func (c *GameConfigs) Weapon(name string) (WeaponConfig, bool) {
	w, ok := c.Weapons[name]
	return w, ok
}

// Item returns the catalog entry for an item ID.
func (c *GameConfigs) Item(id string) (ItemConfig, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return ItemConfig{}, false
}

// Dt is the fixed timestep in seconds.
func (c *GameConfigs) Dt() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

package deathmatch

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// Rules holds the match constants. Distances are in pixels, angles in radians,
// durations in ticks unless stated otherwise.
type Rules struct {
	PixelsPerMeter float64       `mapstructure:"pixels_per_meter"`
	TickDuration   time.Duration `mapstructure:"tick_duration"`
	MaxTicks       int           `mapstructure:"max_ticks"`

	ArenaWidth   float64 `mapstructure:"arena_width"`
	ArenaHeight  float64 `mapstructure:"arena_height"`
	SpawnSpacing float64 `mapstructure:"spawn_spacing"`

	// Chassis
	TankRadius      float64 `mapstructure:"tank_radius"`
	TankDensity     float64 `mapstructure:"tank_density"`
	MaxSpeed        float64 `mapstructure:"max_speed"` // px/s
	MaxTankRotation float64 `mapstructure:"max_tank_rotation"`
	MaxHealth       float64 `mapstructure:"max_health"`

	// Gun
	MaxGunRotation float64 `mapstructure:"max_gun_rotation"`
	BarrelLength   float64 `mapstructure:"barrel_length"`
	GunCooldown    int     `mapstructure:"gun_cooldown"`

	// Radar
	MaxRadarRotation float64 `mapstructure:"max_radar_rotation"`
	RadarHalfWidth   float64 `mapstructure:"radar_half_width"`
	RadarRange       float64 `mapstructure:"radar_range"` // 0: arena width + height

	// Bullets
	BulletRadius float64 `mapstructure:"bullet_radius"`
	MuzzleSpeed  float64 `mapstructure:"muzzle_speed"` // px/s
	BulletDamage float64 `mapstructure:"bullet_damage"`
	BulletMaxAge int     `mapstructure:"bullet_max_age"`
}

func DefaultRules() Rules {
	return Rules{
		PixelsPerMeter: 100,
		TickDuration:   time.Second / 60,
		MaxTicks:       3600,

		ArenaWidth:   1000,
		ArenaHeight:  1000,
		SpawnSpacing: 150,

		TankRadius:      20,
		TankDensity:     1,
		MaxSpeed:        200,
		MaxTankRotation: 0.1,
		MaxHealth:       100,

		MaxGunRotation: 0.2,
		BarrelLength:   25,
		GunCooldown:    10,

		MaxRadarRotation: 0.3,
		RadarHalfWidth:   25,

		BulletRadius: 3,
		MuzzleSpeed:  1000,
		BulletDamage: 10,
		BulletMaxAge: 120,
	}
}

func (r Rules) Validate() error {
	positive := map[string]float64{
		"pixels_per_meter": r.PixelsPerMeter,
		"arena_width":      r.ArenaWidth,
		"arena_height":     r.ArenaHeight,
		"tank_radius":      r.TankRadius,
		"tank_density":     r.TankDensity,
		"max_health":       r.MaxHealth,
		"bullet_radius":    r.BulletRadius,
		"muzzle_speed":     r.MuzzleSpeed,
		"radar_half_width": r.RadarHalfWidth,
	}

	for name, value := range positive {
		if !(value > 0) || math.IsInf(value, 0) {
			return errors.Errorf("rule %s must be a positive number, got %v", name, value)
		}
	}

	nonNegative := map[string]float64{
		"max_speed":          r.MaxSpeed,
		"max_tank_rotation":  r.MaxTankRotation,
		"max_gun_rotation":   r.MaxGunRotation,
		"max_radar_rotation": r.MaxRadarRotation,
		"barrel_length":      r.BarrelLength,
		"bullet_damage":      r.BulletDamage,
		"radar_range":        r.RadarRange,
		"spawn_spacing":      r.SpawnSpacing,
	}

	for name, value := range nonNegative {
		if value < 0 || math.IsNaN(value) {
			return errors.Errorf("rule %s cannot be negative, got %v", name, value)
		}
	}

	if r.TickDuration <= 0 {
		return errors.New("rule tick_duration must be positive")
	}

	if r.MaxTicks <= 0 {
		return errors.New("rule max_ticks must be positive")
	}

	if r.GunCooldown < 0 || r.BulletMaxAge < 0 {
		return errors.New("rules gun_cooldown and bullet_max_age cannot be negative")
	}

	return nil
}

func (r Rules) radarRange() float64 {
	if r.RadarRange > 0 {
		return r.RadarRange
	}

	return r.ArenaWidth + r.ArenaHeight
}

func (r Rules) toMeters(px float64) float64 {
	return px / r.PixelsPerMeter
}

func (r Rules) toPixels(m float64) float64 {
	return m * r.PixelsPerMeter
}

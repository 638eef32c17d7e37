package game

import "time"

// Config holds every physics and pacing constant of a duel.
// All distances are world pixels, all velocities are pixels per tick.
type Config struct {
	TickRate int // simulation ticks per second

	Gravity float64 // added to vy every tick

	// Terrain generation.
	TerrainResolution float64 // horizontal spacing between height samples
	TerrainSmoothness float64 // exponential smoothing factor S (new = old*S + cand*(1-S))
	TerrainVariation  float64 // fraction of world height available to the random walk
	TerrainStartMin   float64 // starting height band, as fraction of world height
	TerrainStartMax   float64
	TerrainClampMin   float64 // clamp band for every sample, as fraction of world height
	TerrainClampMax   float64
	CraterMargin      float64 // terrain may sink this far below the world bottom
	CraterDepth       float64 // crater depth as fraction of blast radius

	// Tanks.
	TankWidth       float64
	TankHeight      float64
	BarrelLength    float64
	BarrelPivotFrac float64 // pivot height above the tank's ground line, as fraction of height
	MoveSpeed       float64
	MaxSlope        float64 // |dy|/|dx| a tank may drive over
	FlatSlope       float64 // footprint slope accepted at placement
	PlacementTries  int
	PlayerHealth    float64
	MinPower        float64
	MaxPower        float64
	AngleStep       float64
	PowerStep       float64

	// Projectiles.
	ProjectileRadius float64
	TrailLength      int
	DamageJitter     float64 // damage = ammo.Damage + (rand-0.5)*DamageJitter
	KillBonus        int

	// Walls.
	WallWidth      float64
	WallMinHeight  float64
	WallMaxHeight  float64 // fraction of world height
	WallSafeZone   float64 // fraction of world width kept free on each side
	WallTankClear  float64 // multiple of tank width a wall must clear
	WallMinTop     float64 // fraction of world height; wall tops must sit below this
	WallTries      int
	WallPuffRadius float64
	MaxWindDisplay float64

	// Timing.
	TurnFlipDelay     time.Duration
	KillResolveDelay  time.Duration
	AIThinkMin        time.Duration
	AIThinkJitter     time.Duration
	ExplosionDuration time.Duration
	ExplosionFrames   int

	// AI aim search.
	AIPowerSteps  int
	AIAngleSteps  int
	AICheckSteps  int
	AIAngleNoise  float64 // full noise span in degrees at accuracy 0
	AIPowerNoise  float64 // full noise span in power units at accuracy 0
	AIFallbackAng float64
	AIFallbackPow float64
}

// DefaultConfig returns the tuning used by the shipped game.
func DefaultConfig() Config {
	return Config{
		TickRate: 60,
		Gravity:  0.1,

		TerrainResolution: 8,
		TerrainSmoothness: 0.85,
		TerrainVariation:  0.03,
		TerrainStartMin:   0.8,
		TerrainStartMax:   0.9,
		TerrainClampMin:   0.6,
		TerrainClampMax:   0.95,
		CraterMargin:      50,
		CraterDepth:       0.7,

		TankWidth:       45,
		TankHeight:      25,
		BarrelLength:    30,
		BarrelPivotFrac: 0.4,
		MoveSpeed:       1.5,
		MaxSlope:        1.5,
		FlatSlope:       0.8,
		PlacementTries:  15,
		PlayerHealth:    100,
		MinPower:        10,
		MaxPower:        100,
		AngleStep:       1,
		PowerStep:       2,

		ProjectileRadius: 5,
		TrailLength:      15,
		DamageJitter:     10,
		KillBonus:        100,

		WallWidth:      20,
		WallMinHeight:  50,
		WallMaxHeight:  0.3,
		WallSafeZone:   0.25,
		WallTankClear:  1.5,
		WallMinTop:     0.1,
		WallTries:      20,
		WallPuffRadius: 5,
		MaxWindDisplay: 5,

		TurnFlipDelay:     800 * time.Millisecond,
		KillResolveDelay:  1200 * time.Millisecond,
		AIThinkMin:        900 * time.Millisecond,
		AIThinkJitter:     800 * time.Millisecond,
		ExplosionDuration: 500 * time.Millisecond,
		ExplosionFrames:   16,

		AIPowerSteps:  15,
		AIAngleSteps:  20,
		AICheckSteps:  15,
		AIAngleNoise:  15,
		AIPowerNoise:  25,
		AIFallbackAng: 135,
		AIFallbackPow: 60,
	}
}

// TickDuration is the simulated time covered by one Tick.
func (c Config) TickDuration() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// MuzzleSpeed converts a power setting into initial projectile speed.
func (c Config) MuzzleSpeed(power float64) float64 {
	return power/6 + 2
}

package game

import "math"

// Side identifies a combatant.
type Side int

const (
	SideHuman Side = iota
	SideAI
)

func (s Side) String() string {
	switch s {
	case SideHuman:
		return "human"
	case SideAI:
		return "ai"
	default:
		return "?"
	}
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SideHuman {
		return SideAI
	}
	return SideHuman
}

// SideConfig fixes a side's aiming domain and facing. Facing +1 shoots
// toward +x, -1 toward -x. The elevation above the horizon is the angle
// itself for facing +1 and 180-angle for facing -1.
type SideConfig struct {
	Name       string
	MinAngle   float64
	MaxAngle   float64
	Facing     float64
	StartAngle float64
	StartPower float64
}

// HumanSide is the left-hand tank aiming in [1,90].
func HumanSide() SideConfig {
	return SideConfig{Name: "Player", MinAngle: 1, MaxAngle: 90, Facing: 1, StartAngle: 45, StartPower: 50}
}

// AISide is the right-hand tank aiming in [91,179].
func AISide() SideConfig {
	return SideConfig{Name: "Enemy", MinAngle: 91, MaxAngle: 179, Facing: -1, StartAngle: 135, StartPower: 50}
}

// Elevation converts a side-local angle into degrees above the horizon.
func (sc SideConfig) Elevation(angle float64) float64 {
	if sc.Facing < 0 {
		return 180 - angle
	}
	return angle
}

// ClampAngle keeps angle inside the side's domain.
func (sc SideConfig) ClampAngle(angle float64) float64 {
	return clamp(angle, sc.MinAngle, sc.MaxAngle)
}

// Tank is one combatant. Only X is free state; GroundY is refreshed from the
// terrain every tick.
type Tank struct {
	Side    Side
	Config  SideConfig
	X       float64
	GroundY float64
	Width   float64
	Height  float64
	Angle   float64
	Power   float64
	Health  float64
	MaxHP   float64
}

// NewTank places a tank at x on terrain t.
func NewTank(side Side, sc SideConfig, x float64, health float64, cfg Config, t *Terrain) *Tank {
	tk := &Tank{
		Side:   side,
		Config: sc,
		X:      x,
		Width:  cfg.TankWidth,
		Height: cfg.TankHeight,
		Angle:  sc.ClampAngle(sc.StartAngle),
		Power:  clamp(sc.StartPower, cfg.MinPower, cfg.MaxPower),
		Health: health,
		MaxHP:  health,
	}
	tk.FollowTerrain(t)
	return tk
}

// Destroyed reports whether health has reached zero.
func (tk *Tank) Destroyed() bool { return tk.Health <= 0 }

// Bounds returns the body rectangle.
func (tk *Tank) Bounds() Rect {
	return Rect{X: tk.X - tk.Width/2, Y: tk.GroundY - tk.Height, W: tk.Width, H: tk.Height}
}

// Center is the middle of the body; the AI aims here.
func (tk *Tank) Center() Vec2 {
	return Vec2{tk.X, tk.GroundY - tk.Height/2}
}

// FollowTerrain refreshes GroundY, never below the world floor.
func (tk *Tank) FollowTerrain(t *Terrain) {
	tk.GroundY = math.Min(t.HeightAt(tk.X), t.Height)
}

// AdjustAngle adds delta and clamps to the side's domain.
func (tk *Tank) AdjustAngle(delta float64) {
	tk.Angle = tk.Config.ClampAngle(tk.Angle + delta)
}

// AdjustPower adds delta and clamps to [minP, maxP].
func (tk *Tank) AdjustPower(delta, minP, maxP float64) {
	tk.Power = clamp(tk.Power+delta, minP, maxP)
}

// MoveResult says why a move was or was not committed.
type MoveResult int

const (
	MoveOK MoveResult = iota
	MoveOutOfBounds
	MoveTooSmall
	MoveTooSteep
)

func (m MoveResult) String() string {
	switch m {
	case MoveOK:
		return "ok"
	case MoveOutOfBounds:
		return "out_of_bounds"
	case MoveTooSmall:
		return "too_small"
	case MoveTooSteep:
		return "too_steep"
	default:
		return "?"
	}
}

// Move drives dir*speed along the ground if the slope allows it.
func (tk *Tank) Move(dir float64, speed, maxSlope float64, t *Terrain) MoveResult {
	nx := tk.X + dir*speed
	half := tk.Width / 2
	if nx-half < 0 || nx+half > t.Width {
		return MoveOutOfBounds
	}
	if math.Abs(nx-tk.X) < 0.1 {
		return MoveTooSmall
	}
	slope := math.Abs(t.HeightAt(nx)-tk.GroundY) / math.Abs(nx-tk.X)
	if slope >= maxSlope {
		return MoveTooSteep
	}
	tk.X = nx
	tk.FollowTerrain(t)
	return MoveOK
}

// Pivot is the barrel's rotation point.
func (tk *Tank) Pivot(pivotFrac float64) Vec2 {
	return Vec2{tk.X, tk.GroundY - tk.Height*pivotFrac}
}

// Muzzle is the barrel tip in world space.
func (tk *Tank) Muzzle(barrelLen, pivotFrac float64) Vec2 {
	p := tk.Pivot(pivotFrac)
	dir := tk.FireDirection()
	return Vec2{p.X + dir.X*barrelLen, p.Y + dir.Y*barrelLen}
}

// FireDirection is the unit vector along the barrel.
func (tk *Tank) FireDirection() Vec2 {
	return fireDirection(tk.Config, tk.Angle)
}

func fireDirection(sc SideConfig, angle float64) Vec2 {
	rad := degToRad(sc.Elevation(angle))
	facing := sc.Facing
	if facing == 0 {
		facing = 1
	}
	return Vec2{facing * math.Cos(rad), -math.Sin(rad)}
}

// ApplyDamage subtracts amount and clamps at zero. It reports whether this
// call destroyed the tank.
func (tk *Tank) ApplyDamage(amount float64) bool {
	if tk.Destroyed() {
		return false
	}
	tk.Health = math.Max(0, tk.Health-amount)
	return tk.Destroyed()
}

// Wall is a static rectangular obstacle.
type Wall struct {
	Rect
}
